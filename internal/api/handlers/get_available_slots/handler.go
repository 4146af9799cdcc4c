package get_available_slots

import (
	"errors"
	"net/http"

	"github.com/m04kA/MassageStudio-BookingService/internal/api/handlers"
	getAvailableSlots "github.com/m04kA/MassageStudio-BookingService/internal/usecase/get_available_slots"
)

const (
	msgInvalidServiceID = "некорректный ID услуги"
	msgMissingDate      = "дата обязательна"
	msgInvalidDate      = "некорректный формат даты, ожидается YYYY-MM-DD"
	msgInvalidRange     = "дата окончания раньше даты начала"
	msgRangeTooLong     = "диапазон дат слишком длинный"
	msgServiceNotFound  = "услуга не найдена"
)

type Handler struct {
	useCase GetAvailableSlotsUseCase
	logger  Logger
}

func NewHandler(useCase GetAvailableSlotsUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle GET /api/v1/services/{serviceId}/availability?date=YYYY-MM-DD
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	serviceID, err := handlers.PathUUID(r, "serviceId")
	if err != nil {
		h.logger.Warn("GET /services/{id}/availability - Invalid service ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidServiceID)
		return
	}

	date, err := handlers.QueryDate(r, "date")
	if err != nil {
		h.logger.Warn("GET /services/{id}/availability - Invalid date: %v", err)
		handlers.RespondBadRequest(w, msgInvalidDate)
		return
	}
	if date == nil {
		handlers.RespondBadRequest(w, msgMissingDate)
		return
	}

	result, err := h.useCase.Execute(r.Context(), &getAvailableSlots.Request{ServiceID: serviceID, Date: *date})
	if err != nil {
		h.respondUseCaseError(w, "GET /services/{id}/availability", err)
		return
	}

	h.logger.Info("GET /services/{id}/availability - %d slots: service_id=%s, date=%s",
		len(result.Slots), serviceID, r.URL.Query().Get("date"))
	handlers.RespondJSON(w, http.StatusOK, FromUseCaseResponse(result))
}

// HandleRange GET /api/v1/services/{serviceId}/availability/dates?startDate=...&endDate=...
func (h *Handler) HandleRange(w http.ResponseWriter, r *http.Request) {
	serviceID, err := handlers.PathUUID(r, "serviceId")
	if err != nil {
		h.logger.Warn("GET /services/{id}/availability/dates - Invalid service ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidServiceID)
		return
	}

	startDate, err := handlers.QueryDate(r, "startDate")
	if err != nil {
		h.logger.Warn("GET /services/{id}/availability/dates - Invalid startDate: %v", err)
		handlers.RespondBadRequest(w, msgInvalidDate)
		return
	}
	if startDate == nil {
		handlers.RespondBadRequest(w, msgMissingDate)
		return
	}

	endDate, err := handlers.QueryDate(r, "endDate")
	if err != nil {
		h.logger.Warn("GET /services/{id}/availability/dates - Invalid endDate: %v", err)
		handlers.RespondBadRequest(w, msgInvalidDate)
		return
	}

	result, err := h.useCase.ExecuteRange(r.Context(), &getAvailableSlots.RangeRequest{
		ServiceID: serviceID,
		StartDate: *startDate,
		EndDate:   endDate,
	})
	if err != nil {
		h.respondUseCaseError(w, "GET /services/{id}/availability/dates", err)
		return
	}

	h.logger.Info("GET /services/{id}/availability/dates - %d dates: service_id=%s", len(result.Dates), serviceID)
	handlers.RespondJSON(w, http.StatusOK, FromUseCaseRangeResponse(result))
}

func (h *Handler) respondUseCaseError(w http.ResponseWriter, route string, err error) {
	switch {
	case errors.Is(err, getAvailableSlots.ErrServiceNotFound):
		h.logger.Warn("%s - Service not found", route)
		handlers.RespondNotFound(w, msgServiceNotFound)

	case errors.Is(err, getAvailableSlots.ErrRangeTooLong):
		h.logger.Warn("%s - Range too long: %v", route, err)
		handlers.RespondBadRequest(w, msgRangeTooLong)

	case errors.Is(err, getAvailableSlots.ErrInvalidDate):
		h.logger.Warn("%s - Invalid range: %v", route, err)
		handlers.RespondBadRequest(w, msgInvalidRange)

	case errors.Is(err, getAvailableSlots.ErrInvalidInput):
		h.logger.Warn("%s - Invalid input: %v", route, err)
		handlers.RespondBadRequest(w, msgInvalidServiceID)

	default:
		h.logger.Error("%s - Failed to compute availability: %v", route, err)
		handlers.RespondInternalError(w)
	}
}
