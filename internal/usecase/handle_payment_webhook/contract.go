package handle_payment_webhook

import (
	"context"

	"github.com/m04kA/MassageStudio-BookingService/internal/integrations/stripe"
	"github.com/m04kA/MassageStudio-BookingService/internal/service/bookings/models"
)

// WebhookParser проверяет подпись и разбирает событие провайдера
type WebhookParser interface {
	ParseWebhook(payload []byte, signature string) (*stripe.WebhookEvent, error)
}

// BookingLifecycle переходы бронирования по платежным событиям
type BookingLifecycle interface {
	ConfirmPayment(ctx context.Context, evt models.PaymentEvent) (bool, error)
	RecordPaymentFailure(ctx context.Context, evt models.PaymentEvent) (bool, error)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
