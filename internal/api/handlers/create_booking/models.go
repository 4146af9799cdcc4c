package create_booking

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	createBooking "github.com/m04kA/MassageStudio-BookingService/internal/usecase/create_booking"
)

// CreateBookingRequest HTTP request model
type CreateBookingRequest struct {
	ServiceID     string  `json:"serviceId"`
	StartTime     string  `json:"startTime"` // RFC3339, "2025-06-02T09:00:00Z"
	CustomerName  string  `json:"customerName"`
	CustomerEmail string  `json:"customerEmail"`
	CustomerPhone string  `json:"customerPhone"`
	Notes         *string `json:"notes,omitempty"`
}

// BookingResponse HTTP response model
type BookingResponse struct {
	BookingID             uuid.UUID `json:"bookingId"`
	Status                string    `json:"status"`
	StartTime             string    `json:"startTime"`
	EndTime               string    `json:"endTime"`
	DownpaymentCents      int64     `json:"downpaymentCents"`
	RemainingBalanceCents int64     `json:"remainingBalanceCents"`
	PaymentIntentID       *string   `json:"paymentIntentId,omitempty"`
	ClientSecret          *string   `json:"clientSecret,omitempty"`
}

// errInvalidServiceID и errInvalidStartTime различают ошибки разбора запроса
var (
	errInvalidServiceID = errors.New("invalid serviceId")
	errInvalidStartTime = errors.New("invalid startTime")
)

// ToUseCaseRequest конвертирует HTTP запрос в модель use case
func (r *CreateBookingRequest) ToUseCaseRequest() (*createBooking.Request, error) {
	serviceID, err := uuid.Parse(r.ServiceID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", errInvalidServiceID, err)
	}

	startTime, err := time.Parse(time.RFC3339, r.StartTime)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", errInvalidStartTime, err)
	}

	return &createBooking.Request{
		ServiceID:     serviceID,
		StartTime:     startTime.UTC(),
		CustomerName:  r.CustomerName,
		CustomerEmail: r.CustomerEmail,
		CustomerPhone: r.CustomerPhone,
		Notes:         r.Notes,
	}, nil
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *createBooking.Response) *BookingResponse {
	return &BookingResponse{
		BookingID:             resp.BookingID,
		Status:                string(resp.Status),
		StartTime:             resp.StartTime.UTC().Format(time.RFC3339),
		EndTime:               resp.EndTime.UTC().Format(time.RFC3339),
		DownpaymentCents:      resp.DownpaymentCents,
		RemainingBalanceCents: resp.RemainingBalanceCents,
		PaymentIntentID:       resp.PaymentIntentID,
		ClientSecret:          resp.ClientSecret,
	}
}
