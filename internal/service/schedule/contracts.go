package schedule

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/m04kA/MassageStudio-BookingService/internal/domain"
)

// ScheduleRepository интерфейс репозитория расписания
type ScheduleRepository interface {
	ListBusinessHours(ctx context.Context) ([]*domain.BusinessHours, error)
	UpsertBusinessHours(ctx context.Context, h *domain.BusinessHours) (*domain.BusinessHours, error)
	ListOverrides(ctx context.Context, from, to *time.Time) ([]*domain.DateOverride, error)
	CreateOverride(ctx context.Context, o *domain.DateOverride) (*domain.DateOverride, error)
	DeleteOverride(ctx context.Context, id uuid.UUID) error
}

// SettingsRepository интерфейс репозитория настроек
type SettingsRepository interface {
	Get(ctx context.Context) (*domain.SystemSettings, error)
	Save(ctx context.Context, s *domain.SystemSettings) (*domain.SystemSettings, error)
}

// AvailabilityCache интерфейс кэша доступности
type AvailabilityCache interface {
	InvalidateAll(ctx context.Context) error
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	Do(ctx context.Context, fn func(ctx context.Context) error) error
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
