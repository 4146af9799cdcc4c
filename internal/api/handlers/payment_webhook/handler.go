package payment_webhook

import (
	"errors"
	"io"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/m04kA/MassageStudio-BookingService/internal/api/handlers"
	handleWebhook "github.com/m04kA/MassageStudio-BookingService/internal/usecase/handle_payment_webhook"
)

const (
	signatureHeader = "Stripe-Signature"
	maxPayloadBytes = 64 << 10

	msgInvalidToken     = "некорректный токен вебхука"
	msgMissingSignature = "отсутствует подпись"
	msgInvalidSignature = "подпись не прошла проверку"
	msgInvalidPayload   = "некорректное событие"
	msgPayloadTooLarge  = "тело события превышает допустимый размер"
)

// WebhookResponse HTTP response model
type WebhookResponse struct {
	Received bool `json:"received"`
	Applied  bool `json:"applied"`
}

type Handler struct {
	useCase WebhookUseCase
	logger  Logger
}

func NewHandler(useCase WebhookUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle POST /api/v1/webhooks/stripe/{token}
// Тело читается как есть: подпись считается по сырым байтам
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	payload, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxPayloadBytes))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			h.logger.Warn("POST /webhooks/stripe - Payload exceeds %d bytes from %s", tooLarge.Limit, handlers.ClientIP(r))
			handlers.RespondError(w, http.StatusRequestEntityTooLarge, msgPayloadTooLarge)
			return
		}
		h.logger.Warn("POST /webhooks/stripe - Failed to read body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidPayload)
		return
	}

	result, err := h.useCase.Execute(r.Context(), &handleWebhook.Request{
		Token:     mux.Vars(r)["token"],
		Payload:   payload,
		Signature: r.Header.Get(signatureHeader),
	})
	if err != nil {
		switch {
		case errors.Is(err, handleWebhook.ErrInvalidToken):
			h.logger.Warn("POST /webhooks/stripe - Invalid token from %s", handlers.ClientIP(r))
			handlers.RespondUnauthorized(w, msgInvalidToken)

		case errors.Is(err, handleWebhook.ErrMissingSignature):
			handlers.RespondBadRequest(w, msgMissingSignature)

		case errors.Is(err, handleWebhook.ErrInvalidSignature):
			h.logger.Warn("POST /webhooks/stripe - Invalid signature from %s", handlers.ClientIP(r))
			handlers.RespondBadRequest(w, msgInvalidSignature)

		case errors.Is(err, handleWebhook.ErrInvalidPayload):
			handlers.RespondBadRequest(w, msgInvalidPayload)

		default:
			// 5xx заставит провайдера повторить доставку
			h.logger.Error("POST /webhooks/stripe - Failed to process event: %v", err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /webhooks/stripe - Event %s (%s) processed, applied=%t", result.EventID, result.EventType, result.Applied)
	handlers.RespondJSON(w, http.StatusOK, WebhookResponse{Received: true, Applied: result.Applied})
}
