package bookings

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/m04kA/MassageStudio-BookingService/internal/domain"
	bookingRepo "github.com/m04kA/MassageStudio-BookingService/internal/infra/storage/booking"
)

// BookingRepository интерфейс репозитория бронирований
type BookingRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Booking, error)
	GetByPaymentIntentID(ctx context.Context, paymentIntentID string) (*domain.Booking, error)
	List(ctx context.Context, filter domain.BookingsFilter) ([]*domain.Booking, error)
	ListUnpaidConfirmed(ctx context.Context) ([]*domain.Booking, error)
	ListEmailFailures(ctx context.Context) ([]*domain.Booking, error)
	UpdateState(ctx context.Context, id uuid.UUID, upd bookingRepo.StateUpdate) error
}

// ServiceRepository интерфейс репозитория услуг
type ServiceRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Service, error)
}

// AuditRepository интерфейс журнала платежей
type AuditRepository interface {
	Create(ctx context.Context, entry *domain.PaymentAuditLog) error
	ExistsForEvent(ctx context.Context, providerEventID string, action domain.AuditAction) (bool, error)
}

// PaymentProvider интерфейс платежного провайдера
type PaymentProvider interface {
	Refund(ctx context.Context, paymentIntentID string, amountCents *int64) (string, error)
	IsPaymentSucceeded(ctx context.Context, paymentIntentID string) (bool, error)
}

// EmailQueue интерфейс очереди писем
type EmailQueue interface {
	Enqueue(ctx context.Context, job domain.EmailJob) error
}

// AvailabilityCache интерфейс кэша доступности
type AvailabilityCache interface {
	InvalidateDate(ctx context.Context, serviceID uuid.UUID, date time.Time) error
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	Do(ctx context.Context, fn func(ctx context.Context) error) error
	DoReadOnly(ctx context.Context, fn func(ctx context.Context) error) error
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
