package availability

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/m04kA/MassageStudio-BookingService/internal/domain"
)

// Noop кэш-заглушка, когда Redis не настроен: всегда промах
type Noop struct{}

func (Noop) GetDate(context.Context, uuid.UUID, time.Time) ([]domain.Slot, bool, error) {
	return nil, false, nil
}

func (Noop) SetDate(context.Context, uuid.UUID, time.Time, []domain.Slot) error { return nil }

func (Noop) GetRange(context.Context, uuid.UUID, time.Time, time.Time) ([]time.Time, bool, error) {
	return nil, false, nil
}

func (Noop) SetRange(context.Context, uuid.UUID, time.Time, time.Time, []time.Time) error {
	return nil
}

func (Noop) InvalidateDate(context.Context, uuid.UUID, time.Time) error { return nil }

func (Noop) InvalidateAll(context.Context) error { return nil }
