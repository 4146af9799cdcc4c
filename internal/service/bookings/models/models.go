package models

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/m04kA/MassageStudio-BookingService/internal/domain"
)

var (
	// ErrInvalidStatus возвращается при некорректном статусе
	ErrInvalidStatus = errors.New("invalid booking status")

	// ErrInvalidPeriod возвращается, когда конец периода раньше начала
	ErrInvalidPeriod = errors.New("invalid period")
)

// Request модели

// ListBookingsRequest фильтр списка бронирований в админке
type ListBookingsRequest struct {
	Status    *string
	ServiceID *uuid.UUID
	StartDate *time.Time // включительно
	EndDate   *time.Time // включительно (весь день)
	Search    *string    // имя, email или телефон клиента
	Limit     int
	Offset    int
}

// ToDomainFilter конвертирует request в domain фильтр
func (r *ListBookingsRequest) ToDomainFilter() (domain.BookingsFilter, error) {
	filter := domain.BookingsFilter{
		ServiceID: r.ServiceID,
		Search:    r.Search,
		Limit:     r.Limit,
		Offset:    r.Offset,
	}

	if r.Status != nil {
		status, err := ToDomainBookingStatus(*r.Status)
		if err != nil {
			return filter, err
		}
		filter.Status = &status
	}

	if r.StartDate != nil {
		from := r.StartDate.UTC().Truncate(24 * time.Hour)
		filter.From = &from
	}
	if r.EndDate != nil {
		to := r.EndDate.UTC().Truncate(24 * time.Hour).Add(24 * time.Hour)
		filter.To = &to
	}
	if filter.From != nil && filter.To != nil && !filter.From.Before(*filter.To) {
		return filter, ErrInvalidPeriod
	}

	return filter, nil
}

// CancelRequest запрос на отмену бронирования
// CustomerEmail задается при отмене клиентом и должен совпадать с email бронирования
type CancelRequest struct {
	BookingID     uuid.UUID
	CustomerEmail *string
}

// RefundRequest запрос на возврат предоплаты
// AmountCents == nil означает возврат всей внесенной предоплаты
type RefundRequest struct {
	BookingID   uuid.UUID
	AmountCents *int64
	IPAddress   *string
	UserAgent   *string
}

// PaymentEvent событие платежного провайдера
type PaymentEvent struct {
	EventID         string
	PaymentIntentID string
	AmountCents     int64
	BookingID       *uuid.UUID
	FailureMessage  *string
}

// Response модели

// BookingResponse бронирование
type BookingResponse struct {
	ID                    uuid.UUID
	ServiceID             uuid.UUID
	CustomerName          string
	CustomerEmail         string
	CustomerPhone         string
	Notes                 *string
	StartTime             time.Time
	EndTime               time.Time
	Status                string
	DownpaymentPaidCents  int64
	RemainingBalanceCents int64
	PaymentIntentID       *string
	EmailDeliveryStatus   *string
	CreatedAt             time.Time
	UpdatedAt             time.Time
}

// BookingListResponse список бронирований
type BookingListResponse struct {
	Bookings []*BookingResponse
	Total    int
}

// RefundResponse результат возврата
type RefundResponse struct {
	RefundID    string
	AmountCents int64
}

// PendingActionsResponse бронирования, требующие внимания администратора
type PendingActionsResponse struct {
	UnpaidBalances []*BookingResponse
	EmailFailures  []*BookingResponse
}

// FromDomainBooking конвертирует domain.Booking в BookingResponse
func FromDomainBooking(b *domain.Booking) *BookingResponse {
	resp := &BookingResponse{
		ID:                    b.ID,
		ServiceID:             b.ServiceID,
		CustomerName:          b.CustomerName,
		CustomerEmail:         b.CustomerEmail,
		CustomerPhone:         b.CustomerPhone,
		Notes:                 b.Notes,
		StartTime:             b.StartTime,
		EndTime:               b.EndTime,
		Status:                string(b.Status),
		DownpaymentPaidCents:  b.DownpaymentPaidCents,
		RemainingBalanceCents: b.RemainingBalanceCents,
		PaymentIntentID:       b.PaymentIntentID,
		CreatedAt:             b.CreatedAt,
		UpdatedAt:             b.UpdatedAt,
	}
	if b.EmailDeliveryStatus != nil {
		status := string(*b.EmailDeliveryStatus)
		resp.EmailDeliveryStatus = &status
	}
	return resp
}

// FromDomainBookingList конвертирует список бронирований
func FromDomainBookingList(bookings []*domain.Booking) *BookingListResponse {
	result := &BookingListResponse{
		Bookings: fromDomainBookings(bookings),
		Total:    len(bookings),
	}
	return result
}

func fromDomainBookings(bookings []*domain.Booking) []*BookingResponse {
	result := make([]*BookingResponse, 0, len(bookings))
	for _, b := range bookings {
		result = append(result, FromDomainBooking(b))
	}
	return result
}

// FromDomainPendingActions собирает ответ по ожидающим действиям
func FromDomainPendingActions(unpaid, emailFailures []*domain.Booking) *PendingActionsResponse {
	return &PendingActionsResponse{
		UnpaidBalances: fromDomainBookings(unpaid),
		EmailFailures:  fromDomainBookings(emailFailures),
	}
}

// ToDomainBookingStatus конвертирует строку в статус (регистр не важен)
func ToDomainBookingStatus(status string) (domain.BookingStatus, error) {
	s := domain.BookingStatus(strings.ToUpper(strings.TrimSpace(status)))
	if !s.Valid() {
		return "", ErrInvalidStatus
	}
	return s, nil
}
