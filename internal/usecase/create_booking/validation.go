package create_booking

import (
	"fmt"
	"net/mail"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/m04kA/MassageStudio-BookingService/internal/domain"
)

// validateRequest валидирует и нормализует входные данные запроса
func validateRequest(req *Request) error {
	if req.ServiceID == uuid.Nil {
		return fmt.Errorf("%w: serviceId is required", ErrInvalidInput)
	}

	if req.StartTime.IsZero() {
		return fmt.Errorf("%w: startTime is required", ErrInvalidInput)
	}
	req.StartTime = req.StartTime.UTC()

	req.CustomerName = strings.TrimSpace(req.CustomerName)
	if req.CustomerName == "" || utf8.RuneCountInString(req.CustomerName) > domain.MaxCustomerNameLength {
		return fmt.Errorf("%w: customerName must be 1..%d characters", ErrInvalidInput, domain.MaxCustomerNameLength)
	}

	req.CustomerEmail = strings.TrimSpace(req.CustomerEmail)
	if len(req.CustomerEmail) > domain.MaxCustomerEmailLength {
		return fmt.Errorf("%w: customerEmail must be at most %d characters", ErrInvalidInput, domain.MaxCustomerEmailLength)
	}
	addr, err := mail.ParseAddress(req.CustomerEmail)
	if err != nil || addr.Address != req.CustomerEmail {
		return fmt.Errorf("%w: customerEmail is not a valid email address", ErrInvalidInput)
	}

	req.CustomerPhone = strings.TrimSpace(req.CustomerPhone)
	if req.CustomerPhone == "" || len(req.CustomerPhone) > domain.MaxCustomerPhoneLength {
		return fmt.Errorf("%w: customerPhone must be 1..%d characters", ErrInvalidInput, domain.MaxCustomerPhoneLength)
	}

	if req.Notes != nil && utf8.RuneCountInString(*req.Notes) > domain.MaxNotesLength {
		return fmt.Errorf("%w: notes must be at most %d characters", ErrInvalidInput, domain.MaxNotesLength)
	}

	return nil
}
