package schedule

import (
	"errors"
	"net/http"

	"github.com/m04kA/MassageStudio-BookingService/internal/api/handlers"
	scheduleService "github.com/m04kA/MassageStudio-BookingService/internal/service/schedule"
)

const (
	msgInvalidRequestBody = "некорректное тело запроса"
	msgInvalidInput       = "некорректные данные расписания"
	msgInvalidDate        = "некорректный формат даты, ожидается YYYY-MM-DD"
	msgInvalidOverrideID  = "некорректный ID исключения"
	msgOverrideNotFound   = "исключение не найдено"
	msgOverrideExists     = "исключение на эту дату уже существует"
)

// Handler администрирование расписания студии
type Handler struct {
	service ScheduleService
	logger  Logger
}

func NewHandler(service ScheduleService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// HandleGetHours GET /api/v1/admin/business-hours
func (h *Handler) HandleGetHours(w http.ResponseWriter, r *http.Request) {
	hours, err := h.service.ListBusinessHours(r.Context())
	if err != nil {
		h.respondError(w, "GET /admin/business-hours", err)
		return
	}
	handlers.RespondJSON(w, http.StatusOK, FromDomainBusinessHours(hours))
}

// HandlePutHours PUT /api/v1/admin/business-hours
func (h *Handler) HandlePutHours(w http.ResponseWriter, r *http.Request) {
	var req UpsertBusinessHoursRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("PUT /admin/business-hours - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	hours, err := h.service.UpsertBusinessHours(r.Context(), req.ToServiceInputs())
	if err != nil {
		h.respondError(w, "PUT /admin/business-hours", err)
		return
	}

	h.logger.Info("PUT /admin/business-hours - %d days saved", len(hours))
	handlers.RespondJSON(w, http.StatusOK, FromDomainBusinessHours(hours))
}

// HandleListOverrides GET /api/v1/admin/date-overrides?from=...&to=...
func (h *Handler) HandleListOverrides(w http.ResponseWriter, r *http.Request) {
	from, err := handlers.QueryDate(r, "from")
	if err != nil {
		handlers.RespondBadRequest(w, msgInvalidDate)
		return
	}
	to, err := handlers.QueryDate(r, "to")
	if err != nil {
		handlers.RespondBadRequest(w, msgInvalidDate)
		return
	}

	overrides, err := h.service.ListOverrides(r.Context(), from, to)
	if err != nil {
		h.respondError(w, "GET /admin/date-overrides", err)
		return
	}
	handlers.RespondJSON(w, http.StatusOK, FromDomainOverrides(overrides))
}

// HandleCreateOverride POST /api/v1/admin/date-overrides
func (h *Handler) HandleCreateOverride(w http.ResponseWriter, r *http.Request) {
	var req CreateOverrideRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /admin/date-overrides - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	input, err := req.ToServiceInput()
	if err != nil {
		h.logger.Warn("POST /admin/date-overrides - %v", err)
		handlers.RespondBadRequest(w, msgInvalidDate)
		return
	}

	override, err := h.service.CreateOverride(r.Context(), input)
	if err != nil {
		h.respondError(w, "POST /admin/date-overrides", err)
		return
	}

	h.logger.Info("POST /admin/date-overrides - Override created: id=%s, date=%s", override.ID, req.Date)
	handlers.RespondJSON(w, http.StatusCreated, FromDomainOverride(override))
}

// HandleDeleteOverride DELETE /api/v1/admin/date-overrides/{overrideId}
func (h *Handler) HandleDeleteOverride(w http.ResponseWriter, r *http.Request) {
	id, err := handlers.PathUUID(r, "overrideId")
	if err != nil {
		h.logger.Warn("DELETE /admin/date-overrides/{id} - Invalid override ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidOverrideID)
		return
	}

	if err := h.service.DeleteOverride(r.Context(), id); err != nil {
		h.respondError(w, "DELETE /admin/date-overrides/{id}", err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// HandleGetSettings GET /api/v1/admin/settings
func (h *Handler) HandleGetSettings(w http.ResponseWriter, r *http.Request) {
	settings, err := h.service.GetSettings(r.Context())
	if err != nil {
		h.respondError(w, "GET /admin/settings", err)
		return
	}
	handlers.RespondJSON(w, http.StatusOK, FromDomainSettings(settings))
}

// HandlePatchSettings PATCH /api/v1/admin/settings
func (h *Handler) HandlePatchSettings(w http.ResponseWriter, r *http.Request) {
	var req UpdateSettingsRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("PATCH /admin/settings - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	settings, err := h.service.UpdateSettings(r.Context(), &scheduleService.SettingsPatch{
		MaxBookingsPerDay: req.MaxBookingsPerDay,
		BufferMinutes:     req.BufferMinutes,
	})
	if err != nil {
		h.respondError(w, "PATCH /admin/settings", err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, FromDomainSettings(settings))
}

func (h *Handler) respondError(w http.ResponseWriter, route string, err error) {
	switch {
	case errors.Is(err, scheduleService.ErrInvalidInput):
		h.logger.Warn("%s - Invalid input: %v", route, err)
		handlers.RespondBadRequest(w, msgInvalidInput)

	case errors.Is(err, scheduleService.ErrOverrideExists):
		h.logger.Warn("%s - Override exists", route)
		handlers.RespondConflict(w, msgOverrideExists)

	case errors.Is(err, scheduleService.ErrOverrideNotFound):
		h.logger.Warn("%s - Override not found", route)
		handlers.RespondNotFound(w, msgOverrideNotFound)

	default:
		h.logger.Error("%s - Failed: %v", route, err)
		handlers.RespondInternalError(w)
	}
}
