package booking_actions

import (
	"errors"
	"net/http"

	"github.com/google/uuid"

	"github.com/m04kA/MassageStudio-BookingService/internal/api/handlers"
	"github.com/m04kA/MassageStudio-BookingService/internal/service/bookings"
)

const (
	msgInvalidBookingID   = "некорректный ID бронирования"
	msgInvalidRequestBody = "некорректное тело запроса"
	msgNotFound           = "бронирование не найдено"
	msgInvalidTransition  = "недопустимая смена статуса бронирования"
	msgNoPayment          = "по бронированию нет платежа"
	msgInvalidAmount      = "некорректная сумма возврата"
	msgRefundFailed       = "платежный провайдер отклонил возврат"
	msgPaymentPending     = "оплата еще не завершена"
)

// Handler административные действия над бронированием
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

// HandleMarkPaid POST /api/v1/admin/bookings/{bookingId}/mark-paid
func (h *Handler) HandleMarkPaid(w http.ResponseWriter, r *http.Request) {
	const route = "POST /admin/bookings/{id}/mark-paid"

	bookingID, ok := h.bookingID(w, r, route)
	if !ok {
		return
	}

	result, err := h.service.MarkPaid(r.Context(), bookingID)
	if err != nil {
		h.respondError(w, route, bookingID, err)
		return
	}

	h.logger.Info("%s - Booking marked as paid: booking_id=%s", route, bookingID)
	handlers.RespondJSON(w, http.StatusOK, handlers.FromBookingResponse(result))
}

// HandleRefund POST /api/v1/admin/bookings/{bookingId}/refund
func (h *Handler) HandleRefund(w http.ResponseWriter, r *http.Request) {
	const route = "POST /admin/bookings/{id}/refund"

	bookingID, ok := h.bookingID(w, r, route)
	if !ok {
		return
	}

	var req RefundBookingRequest
	if r.ContentLength != 0 {
		if err := handlers.DecodeJSON(r, &req); err != nil {
			h.logger.Warn("%s - Invalid request body: %v", route, err)
			handlers.RespondBadRequest(w, msgInvalidRequestBody)
			return
		}
	}

	result, err := h.service.Refund(r.Context(), req.ToServiceRequest(bookingID, handlers.ClientIP(r), r.UserAgent()))
	if err != nil {
		h.respondError(w, route, bookingID, err)
		return
	}

	h.logger.Info("%s - Refund issued: booking_id=%s, refund_id=%s, amount=%d", route, bookingID, result.RefundID, result.AmountCents)
	handlers.RespondJSON(w, http.StatusOK, RefundResponse{RefundID: result.RefundID, AmountCents: result.AmountCents})
}

// HandleResendEmail POST /api/v1/admin/bookings/{bookingId}/resend-email
func (h *Handler) HandleResendEmail(w http.ResponseWriter, r *http.Request) {
	const route = "POST /admin/bookings/{id}/resend-email"

	bookingID, ok := h.bookingID(w, r, route)
	if !ok {
		return
	}

	emailType, err := h.service.ResendEmail(r.Context(), bookingID)
	if err != nil {
		h.respondError(w, route, bookingID, err)
		return
	}

	handlers.RespondJSON(w, http.StatusAccepted, ResendEmailResponse{EmailType: string(emailType), Queued: true})
}

// HandleSyncPayment POST /api/v1/admin/bookings/{bookingId}/sync-payment
// Сверяет статус платежа с провайдером, если вебхук не дошел
func (h *Handler) HandleSyncPayment(w http.ResponseWriter, r *http.Request) {
	const route = "POST /admin/bookings/{id}/sync-payment"

	bookingID, ok := h.bookingID(w, r, route)
	if !ok {
		return
	}

	result, err := h.service.SyncPayment(r.Context(), bookingID)
	if err != nil {
		h.respondError(w, route, bookingID, err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, handlers.FromBookingResponse(result))
}

func (h *Handler) bookingID(w http.ResponseWriter, r *http.Request, route string) (uuid.UUID, bool) {
	id, err := handlers.PathUUID(r, "bookingId")
	if err != nil {
		h.logger.Warn("%s - Invalid booking ID: %v", route, err)
		handlers.RespondBadRequest(w, msgInvalidBookingID)
		return uuid.Nil, false
	}
	return id, true
}

func (h *Handler) respondError(w http.ResponseWriter, route string, bookingID uuid.UUID, err error) {
	switch {
	case errors.Is(err, bookings.ErrBookingNotFound):
		h.logger.Warn("%s - Booking not found: booking_id=%s", route, bookingID)
		handlers.RespondNotFound(w, msgNotFound)

	case errors.Is(err, bookings.ErrInvalidTransition):
		h.logger.Warn("%s - Invalid transition: booking_id=%s, error=%v", route, bookingID, err)
		handlers.RespondConflict(w, msgInvalidTransition)

	case errors.Is(err, bookings.ErrNoPayment):
		h.logger.Warn("%s - No payment: booking_id=%s", route, bookingID)
		handlers.RespondConflict(w, msgNoPayment)

	case errors.Is(err, bookings.ErrPaymentPending):
		h.logger.Warn("%s - Payment pending: booking_id=%s", route, bookingID)
		handlers.RespondConflict(w, msgPaymentPending)

	case errors.Is(err, bookings.ErrInvalidInput):
		h.logger.Warn("%s - Invalid input: booking_id=%s, error=%v", route, bookingID, err)
		handlers.RespondBadRequest(w, msgInvalidAmount)

	case errors.Is(err, bookings.ErrRefundFailed):
		h.logger.Error("%s - Refund failed: booking_id=%s, error=%v", route, bookingID, err)
		handlers.RespondError(w, http.StatusBadGateway, msgRefundFailed)

	default:
		h.logger.Error("%s - Failed: booking_id=%s, error=%v", route, bookingID, err)
		handlers.RespondInternalError(w)
	}
}
