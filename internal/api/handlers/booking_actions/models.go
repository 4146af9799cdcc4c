package booking_actions

import (
	"github.com/google/uuid"

	"github.com/m04kA/MassageStudio-BookingService/internal/service/bookings/models"
)

// RefundBookingRequest HTTP request model
// Без amountCents возвращается вся внесенная предоплата
type RefundBookingRequest struct {
	AmountCents *int64 `json:"amountCents,omitempty"`
}

// RefundResponse HTTP response model
type RefundResponse struct {
	RefundID    string `json:"refundId"`
	AmountCents int64  `json:"amountCents"`
}

// ResendEmailResponse HTTP response model
type ResendEmailResponse struct {
	EmailType string `json:"emailType"`
	Queued    bool   `json:"queued"`
}

func (r *RefundBookingRequest) ToServiceRequest(bookingID uuid.UUID, ip, userAgent string) *models.RefundRequest {
	req := &models.RefundRequest{
		BookingID:   bookingID,
		AmountCents: r.AmountCents,
	}
	if ip != "" {
		req.IPAddress = &ip
	}
	if userAgent != "" {
		req.UserAgent = &userAgent
	}
	return req
}
