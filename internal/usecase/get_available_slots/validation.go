package get_available_slots

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/m04kA/MassageStudio-BookingService/internal/availability"
	"github.com/m04kA/MassageStudio-BookingService/internal/domain"
)

// validateRequest валидирует запрос слотов на дату
func validateRequest(req *Request) error {
	if req.ServiceID == uuid.Nil {
		return fmt.Errorf("%w: serviceId is required", ErrInvalidInput)
	}
	if req.Date.IsZero() {
		return fmt.Errorf("%w: date is required", ErrInvalidInput)
	}
	return nil
}

// normalizeRange проверяет диапазон и возвращает его границы в виде дат UTC
func normalizeRange(req *RangeRequest) (time.Time, time.Time, error) {
	if req.ServiceID == uuid.Nil {
		return time.Time{}, time.Time{}, fmt.Errorf("%w: serviceId is required", ErrInvalidInput)
	}
	if req.StartDate.IsZero() {
		return time.Time{}, time.Time{}, fmt.Errorf("%w: startDate is required", ErrInvalidInput)
	}

	start := availability.DateOnly(req.StartDate)
	end := start
	if req.EndDate != nil {
		end = availability.DateOnly(*req.EndDate)
	}

	if end.Before(start) {
		return time.Time{}, time.Time{}, fmt.Errorf("%w: endDate is before startDate", ErrInvalidDate)
	}

	days := int(end.Sub(start).Hours()/24) + 1
	if days > domain.MaxAvailabilityRange {
		return time.Time{}, time.Time{}, fmt.Errorf("%w: at most %d days per request", ErrRangeTooLong, domain.MaxAvailabilityRange)
	}

	return start, end, nil
}
