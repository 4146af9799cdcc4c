package create_booking

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/m04kA/MassageStudio-BookingService/internal/domain"
	"github.com/m04kA/MassageStudio-BookingService/internal/integrations/stripe"
	"github.com/m04kA/MassageStudio-BookingService/internal/service/bookings/models"
)

// BookingRepository интерфейс репозитория бронирований
type BookingRepository interface {
	// LockConflictingBooking блокирует пару (услуга, время начала) до конца транзакции
	// и сообщает, занят ли слот неотмененным бронированием
	LockConflictingBooking(ctx context.Context, serviceID uuid.UUID, startTime time.Time) (bool, error)
	Create(ctx context.Context, booking *domain.Booking) (*domain.Booking, error)
	AttachPaymentIntent(ctx context.Context, id uuid.UUID, paymentIntentID string) error
}

// ServiceRepository интерфейс репозитория услуг
type ServiceRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Service, error)
}

// SettingsRepository интерфейс репозитория настроек
type SettingsRepository interface {
	Get(ctx context.Context) (*domain.SystemSettings, error)
}

// AuditRepository интерфейс журнала платежей
type AuditRepository interface {
	Create(ctx context.Context, entry *domain.PaymentAuditLog) error
}

// SlotChecker проверяет слот по расписанию и текущим бронированиям
type SlotChecker interface {
	CheckSlot(ctx context.Context, service *domain.Service, start time.Time) (isCandidate, isAvailable bool, err error)
}

// PaymentProvider интерфейс платежного провайдера
type PaymentProvider interface {
	CreatePaymentIntent(ctx context.Context, bookingID uuid.UUID, amountCents int64, currency string) (*stripe.PaymentIntent, error)
}

// AvailabilityCache интерфейс кэша доступности
type AvailabilityCache interface {
	InvalidateDate(ctx context.Context, serviceID uuid.UUID, date time.Time) error
}

// BookingLifecycle переходы статусов созданного бронирования
type BookingLifecycle interface {
	ConfirmWithoutPayment(ctx context.Context, id uuid.UUID) (*models.BookingResponse, error)
	ReleaseSlot(ctx context.Context, id uuid.UUID) error
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	Do(ctx context.Context, fn func(ctx context.Context) error) error
}

// Metrics интерфейс метрик бронирований
type Metrics interface {
	IncBookingOutcome(outcome string)
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
