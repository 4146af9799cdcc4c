package catalog

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/m04kA/MassageStudio-BookingService/internal/domain"
)

func validateService(s *domain.Service) error {
	name := strings.TrimSpace(s.Name)
	if name == "" || utf8.RuneCountInString(name) > domain.MaxServiceNameLength {
		return fmt.Errorf("%w: name must be 1..%d characters", ErrInvalidInput, domain.MaxServiceNameLength)
	}
	if s.DurationMin < domain.MinServiceDurationMin || s.DurationMin > domain.MaxServiceDurationMin {
		return fmt.Errorf("%w: durationMin must be in %d..%d", ErrInvalidInput,
			domain.MinServiceDurationMin, domain.MaxServiceDurationMin)
	}
	if s.PriceCents < 0 {
		return fmt.Errorf("%w: priceCents must not be negative", ErrInvalidInput)
	}
	if s.DownpaymentCents < 0 || s.DownpaymentCents > s.PriceCents {
		return fmt.Errorf("%w: downpaymentCents must be in 0..priceCents", ErrInvalidInput)
	}
	return nil
}
