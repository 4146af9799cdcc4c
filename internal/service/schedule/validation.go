package schedule

import (
	"fmt"

	"github.com/m04kA/MassageStudio-BookingService/internal/domain"
)

func validateBusinessHours(in *BusinessHoursInput) error {
	if in.DayOfWeek < 0 || in.DayOfWeek > 6 {
		return fmt.Errorf("%w: dayOfWeek must be in 0..6", ErrInvalidInput)
	}
	if !in.IsOpen {
		return nil
	}
	if in.OpeningTime == nil || in.ClosingTime == nil {
		return fmt.Errorf("%w: open day requires openingTime and closingTime", ErrInvalidInput)
	}
	if !in.OpeningTime.Before(*in.ClosingTime) {
		return fmt.Errorf("%w: openingTime must be before closingTime", ErrInvalidInput)
	}
	return nil
}

func validateOverride(in *OverrideInput) error {
	if in.Date.IsZero() {
		return fmt.Errorf("%w: date is required", ErrInvalidInput)
	}
	if (in.CustomOpenTime == nil) != (in.CustomCloseTime == nil) {
		return fmt.Errorf("%w: customOpenTime and customCloseTime must be set together", ErrInvalidInput)
	}
	if !in.IsBlocked && in.CustomOpenTime == nil {
		return fmt.Errorf("%w: override must block the date or set custom hours", ErrInvalidInput)
	}
	if in.CustomOpenTime != nil && !in.CustomOpenTime.Before(*in.CustomCloseTime) {
		return fmt.Errorf("%w: customOpenTime must be before customCloseTime", ErrInvalidInput)
	}
	if in.Reason != nil && len(*in.Reason) > domain.MaxOverrideReasonLen {
		return fmt.Errorf("%w: reason is too long", ErrInvalidInput)
	}
	return nil
}

func validateSettings(s *domain.SystemSettings) error {
	if s.MaxBookingsPerDay < 1 || s.MaxBookingsPerDay > domain.MaxBookingsPerDayLimit {
		return fmt.Errorf("%w: maxBookingsPerDay must be in 1..%d", ErrInvalidInput, domain.MaxBookingsPerDayLimit)
	}
	if s.BufferMinutes < 0 || s.BufferMinutes > domain.MaxBufferMinutes {
		return fmt.Errorf("%w: bufferMinutes must be in 0..%d", ErrInvalidInput, domain.MaxBufferMinutes)
	}
	return nil
}
