package handle_payment_webhook

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"

	"github.com/m04kA/MassageStudio-BookingService/internal/integrations/stripe"
	"github.com/m04kA/MassageStudio-BookingService/internal/service/bookings"
	"github.com/m04kA/MassageStudio-BookingService/internal/service/bookings/models"
)

// UseCase use case обработки платежных вебхуков.
// Повторная доставка события не меняет состояние и отвечает успехом,
// чтобы провайдер не повторял запрос.
type UseCase struct {
	parser    WebhookParser
	lifecycle BookingLifecycle
	token     string
	logger    Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(parser WebhookParser, lifecycle BookingLifecycle, token string, logger Logger) *UseCase {
	return &UseCase{
		parser:    parser,
		lifecycle: lifecycle,
		token:     token,
		logger:    logger,
	}
}

// Execute выполняет use case обработки вебхука
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	// 1. Проверяем токен из URL
	if subtle.ConstantTimeCompare([]byte(req.Token), []byte(uc.token)) != 1 {
		uc.logger.Warn("PaymentWebhook: invalid token")
		return nil, ErrInvalidToken
	}

	// 2. Проверяем подпись и разбираем событие
	if req.Signature == "" {
		uc.logger.Warn("PaymentWebhook: missing signature")
		return nil, ErrMissingSignature
	}

	evt, err := uc.parser.ParseWebhook(req.Payload, req.Signature)
	if err != nil {
		switch {
		case errors.Is(err, stripe.ErrInvalidSignature):
			uc.logger.Warn("PaymentWebhook: signature verification failed: %v", err)
			return nil, ErrInvalidSignature
		case errors.Is(err, stripe.ErrInvalidPayload):
			uc.logger.Warn("PaymentWebhook: invalid payload: %v", err)
			return nil, ErrInvalidPayload
		default:
			uc.logger.Error("PaymentWebhook: failed to parse event: %v", err)
			return nil, fmt.Errorf("%w: parse event: %v", ErrInternal, err)
		}
	}

	resp := &Response{EventID: evt.ID, EventType: evt.Type}
	payment := models.PaymentEvent{
		EventID:         evt.ID,
		PaymentIntentID: evt.PaymentIntentID,
		AmountCents:     evt.AmountCents,
		BookingID:       evt.BookingID,
		FailureMessage:  evt.FailureMessage,
	}

	// 3. Применяем событие
	switch evt.Type {
	case stripe.EventPaymentSucceeded:
		resp.Applied, err = uc.lifecycle.ConfirmPayment(ctx, payment)
	case stripe.EventPaymentFailed:
		resp.Applied, err = uc.lifecycle.RecordPaymentFailure(ctx, payment)
	default:
		uc.logger.Info("PaymentWebhook: ignoring event %s of type %s", evt.ID, evt.Type)
		return resp, nil
	}

	if err != nil {
		// Событие по неизвестному бронированию повторять бессмысленно
		if errors.Is(err, bookings.ErrBookingNotFound) {
			uc.logger.Warn("PaymentWebhook: event %s does not match any booking (intent=%s)", evt.ID, evt.PaymentIntentID)
			return resp, nil
		}
		uc.logger.Error("PaymentWebhook: failed to apply event %s: %v", evt.ID, err)
		return nil, fmt.Errorf("%w: apply event: %v", ErrInternal, err)
	}

	uc.logger.Info("PaymentWebhook: event %s (%s) applied=%t", evt.ID, evt.Type, resp.Applied)
	return resp, nil
}
