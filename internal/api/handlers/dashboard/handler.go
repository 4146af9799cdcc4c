package dashboard

import (
	"net/http"

	"github.com/m04kA/MassageStudio-BookingService/internal/api/handlers"
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

// HandleToday GET /api/v1/admin/dashboard/today
func (h *Handler) HandleToday(w http.ResponseWriter, r *http.Request) {
	result, err := h.service.Today(r.Context())
	if err != nil {
		h.logger.Error("GET /admin/dashboard/today - Failed to get bookings: %v", err)
		handlers.RespondInternalError(w)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, FromTodayResponse(result))
}

// HandlePending GET /api/v1/admin/dashboard/pending
func (h *Handler) HandlePending(w http.ResponseWriter, r *http.Request) {
	result, err := h.service.PendingActions(r.Context())
	if err != nil {
		h.logger.Error("GET /admin/dashboard/pending - Failed to get pending actions: %v", err)
		handlers.RespondInternalError(w)
		return
	}

	h.logger.Info("GET /admin/dashboard/pending - unpaid=%d, emailFailures=%d",
		len(result.UnpaidBalances), len(result.EmailFailures))
	handlers.RespondJSON(w, http.StatusOK, FromPendingActionsResponse(result))
}
