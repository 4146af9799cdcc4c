package domain

import (
	"time"

	"github.com/google/uuid"
)

// BookingStatus статус бронирования
type BookingStatus string

const (
	StatusPending   BookingStatus = "PENDING"
	StatusConfirmed BookingStatus = "CONFIRMED"
	StatusCompleted BookingStatus = "COMPLETED"
	StatusCancelled BookingStatus = "CANCELLED"
)

// EmailDeliveryStatus статус доставки последнего письма по бронированию
type EmailDeliveryStatus string

const (
	EmailStatusSuccess  EmailDeliveryStatus = "SUCCESS"
	EmailStatusFailed   EmailDeliveryStatus = "FAILED"
	EmailStatusRetrying EmailDeliveryStatus = "RETRYING"
)

// Booking бронирование сеанса массажа
type Booking struct {
	ID        uuid.UUID
	ServiceID uuid.UUID

	CustomerName  string
	CustomerEmail string
	CustomerPhone string
	Notes         *string

	StartTime time.Time
	EndTime   time.Time // StartTime + длительность услуги + буфер на момент создания
	Status    BookingStatus

	DownpaymentPaidCents  int64
	RemainingBalanceCents int64

	PaymentIntentID     *string
	EmailDeliveryStatus *EmailDeliveryStatus

	CreatedAt time.Time
	UpdatedAt time.Time
}

// IsActive возвращает true, если бронирование занимает слот
func (b *Booking) IsActive() bool {
	return b.Status != StatusCancelled
}

// CanBeCancelled возвращает true, если бронирование можно отменить
func (b *Booking) CanBeCancelled() bool {
	return b.Status.CanTransitionTo(StatusCancelled)
}

// IsFinal возвращает true для завершенных и отмененных бронирований
func (b *Booking) IsFinal() bool {
	return b.Status == StatusCompleted || b.Status == StatusCancelled
}

// CanTransitionTo проверяет допустимость перехода
// PENDING -> CONFIRMED -> COMPLETED, PENDING/CONFIRMED -> CANCELLED,
// PENDING -> COMPLETED (оплата полной суммы администратором)
func (s BookingStatus) CanTransitionTo(next BookingStatus) bool {
	switch s {
	case StatusPending:
		return next == StatusConfirmed || next == StatusCompleted || next == StatusCancelled
	case StatusConfirmed:
		return next == StatusCompleted || next == StatusCancelled
	default:
		return false
	}
}

// Valid проверяет, что статус известен
func (s BookingStatus) Valid() bool {
	switch s {
	case StatusPending, StatusConfirmed, StatusCompleted, StatusCancelled:
		return true
	}
	return false
}

// RemainingBalance возвращает остаток к оплате после предоплаты, не меньше нуля
func RemainingBalance(priceCents, downpaymentCents int64) int64 {
	if rest := priceCents - downpaymentCents; rest > 0 {
		return rest
	}
	return 0
}

// BookingsFilter фильтр для списка бронирований в админке
type BookingsFilter struct {
	Status    *BookingStatus
	ServiceID *uuid.UUID
	From      *time.Time // start_time >= From
	To        *time.Time // start_time < To
	Search    *string    // подстрока имени, email или телефона клиента
	Limit     int
	Offset    int
}
