package cancel_booking

import (
	"github.com/google/uuid"

	"github.com/m04kA/MassageStudio-BookingService/internal/service/bookings/models"
)

// CancelBookingRequest HTTP request model для отмены клиентом
type CancelBookingRequest struct {
	Email string `json:"email"`
}

// ToServiceRequest конвертирует HTTP request в модель сервиса
func (r *CancelBookingRequest) ToServiceRequest(bookingID uuid.UUID) *models.CancelRequest {
	email := r.Email
	return &models.CancelRequest{
		BookingID:     bookingID,
		CustomerEmail: &email,
	}
}
