package get_available_slots

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/m04kA/MassageStudio-BookingService/internal/domain"
)

// BookingRepository интерфейс репозитория бронирований
type BookingRepository interface {
	// ListActiveByService получает неотмененные бронирования услуги с началом в [from, to)
	ListActiveByService(ctx context.Context, serviceID uuid.UUID, from, to time.Time) ([]*domain.Booking, error)
}

// ServiceRepository интерфейс репозитория услуг
type ServiceRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Service, error)
}

// ScheduleRepository интерфейс репозитория расписания
type ScheduleRepository interface {
	ListBusinessHours(ctx context.Context) ([]*domain.BusinessHours, error)
	ListOverrides(ctx context.Context, from, to *time.Time) ([]*domain.DateOverride, error)
}

// SettingsRepository интерфейс репозитория настроек
type SettingsRepository interface {
	Get(ctx context.Context) (*domain.SystemSettings, error)
}

// AvailabilityCache интерфейс кэша доступности
type AvailabilityCache interface {
	GetDate(ctx context.Context, serviceID uuid.UUID, date time.Time) ([]domain.Slot, bool, error)
	SetDate(ctx context.Context, serviceID uuid.UUID, date time.Time, slots []domain.Slot) error
	GetRange(ctx context.Context, serviceID uuid.UUID, start, end time.Time) ([]time.Time, bool, error)
	SetRange(ctx context.Context, serviceID uuid.UUID, start, end time.Time, dates []time.Time) error
}

// Metrics интерфейс метрик кэша
type Metrics interface {
	IncCacheResult(result string)
}

// TimeProvider интерфейс для получения текущего времени (для тестирования)
type TimeProvider interface {
	Now() time.Time
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// RealTimeProvider реальный провайдер времени для production
type RealTimeProvider struct{}

// Now возвращает текущее время
func (p *RealTimeProvider) Now() time.Time {
	return time.Now()
}
