package handlers

import (
	"time"

	"github.com/google/uuid"

	"github.com/m04kA/MassageStudio-BookingService/internal/service/bookings/models"
)

// BookingResponse JSON представление бронирования, общее для админских ручек
type BookingResponse struct {
	ID                    uuid.UUID `json:"id"`
	ServiceID             uuid.UUID `json:"serviceId"`
	CustomerName          string    `json:"customerName"`
	CustomerEmail         string    `json:"customerEmail"`
	CustomerPhone         string    `json:"customerPhone"`
	Notes                 *string   `json:"notes,omitempty"`
	StartTime             string    `json:"startTime"`
	EndTime               string    `json:"endTime"`
	Status                string    `json:"status"`
	DownpaymentPaidCents  int64     `json:"downpaymentPaidCents"`
	RemainingBalanceCents int64     `json:"remainingBalanceCents"`
	PaymentIntentID       *string   `json:"paymentIntentId,omitempty"`
	EmailDeliveryStatus   *string   `json:"emailDeliveryStatus,omitempty"`
	CreatedAt             string    `json:"createdAt"`
	UpdatedAt             string    `json:"updatedAt"`
}

// FromBookingResponse конвертирует модель сервиса в JSON ответ
func FromBookingResponse(b *models.BookingResponse) *BookingResponse {
	return &BookingResponse{
		ID:                    b.ID,
		ServiceID:             b.ServiceID,
		CustomerName:          b.CustomerName,
		CustomerEmail:         b.CustomerEmail,
		CustomerPhone:         b.CustomerPhone,
		Notes:                 b.Notes,
		StartTime:             b.StartTime.UTC().Format(time.RFC3339),
		EndTime:               b.EndTime.UTC().Format(time.RFC3339),
		Status:                b.Status,
		DownpaymentPaidCents:  b.DownpaymentPaidCents,
		RemainingBalanceCents: b.RemainingBalanceCents,
		PaymentIntentID:       b.PaymentIntentID,
		EmailDeliveryStatus:   b.EmailDeliveryStatus,
		CreatedAt:             b.CreatedAt.UTC().Format(time.RFC3339),
		UpdatedAt:             b.UpdatedAt.UTC().Format(time.RFC3339),
	}
}

// FromBookingResponses конвертирует список бронирований
func FromBookingResponses(list []*models.BookingResponse) []*BookingResponse {
	result := make([]*BookingResponse, 0, len(list))
	for _, b := range list {
		result = append(result, FromBookingResponse(b))
	}
	return result
}
