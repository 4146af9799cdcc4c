package cancel_booking

import (
	"errors"
	"net/http"
	"strings"

	"github.com/m04kA/MassageStudio-BookingService/internal/api/handlers"
	"github.com/m04kA/MassageStudio-BookingService/internal/service/bookings"
	"github.com/m04kA/MassageStudio-BookingService/internal/service/bookings/models"
)

const (
	msgInvalidBookingID   = "некорректный ID бронирования"
	msgInvalidRequestBody = "некорректное тело запроса"
	msgMissingEmail       = "email обязателен"
	msgNotFound           = "бронирование не найдено"
	msgCannotCancel       = "бронирование не может быть отменено"
)

type Handler struct {
	service BookingService
	logger  Logger
}

func NewHandler(service BookingService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle POST /api/v1/bookings/{bookingId}/cancel
// Клиент подтверждает владение бронированием своим email.
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	bookingID, err := handlers.PathUUID(r, "bookingId")
	if err != nil {
		h.logger.Warn("POST /bookings/{id}/cancel - Invalid booking ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidBookingID)
		return
	}

	var req CancelBookingRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /bookings/{id}/cancel - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}
	if strings.TrimSpace(req.Email) == "" {
		handlers.RespondBadRequest(w, msgMissingEmail)
		return
	}

	h.cancel(w, r, "POST /bookings/{id}/cancel", req.ToServiceRequest(bookingID))
}

// HandleAdmin POST /api/v1/admin/bookings/{bookingId}/cancel
func (h *Handler) HandleAdmin(w http.ResponseWriter, r *http.Request) {
	bookingID, err := handlers.PathUUID(r, "bookingId")
	if err != nil {
		h.logger.Warn("POST /admin/bookings/{id}/cancel - Invalid booking ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidBookingID)
		return
	}

	h.cancel(w, r, "POST /admin/bookings/{id}/cancel", &models.CancelRequest{BookingID: bookingID})
}

func (h *Handler) cancel(w http.ResponseWriter, r *http.Request, route string, req *models.CancelRequest) {
	result, err := h.service.Cancel(r.Context(), req)
	if err != nil {
		switch {
		// Несовпадение email не раскрывает существование бронирования
		case errors.Is(err, bookings.ErrBookingNotFound), errors.Is(err, bookings.ErrAccessDenied):
			h.logger.Warn("%s - Booking not found or access denied: booking_id=%s", route, req.BookingID)
			handlers.RespondNotFound(w, msgNotFound)

		case errors.Is(err, bookings.ErrCannotCancel):
			h.logger.Warn("%s - Cannot cancel: booking_id=%s", route, req.BookingID)
			handlers.RespondConflict(w, msgCannotCancel)

		default:
			h.logger.Error("%s - Failed to cancel booking: booking_id=%s, error=%v", route, req.BookingID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("%s - Booking cancelled successfully: booking_id=%s", route, req.BookingID)
	handlers.RespondJSON(w, http.StatusOK, handlers.FromBookingResponse(result))
}
