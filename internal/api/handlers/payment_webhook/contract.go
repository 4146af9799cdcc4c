package payment_webhook

import (
	"context"

	handleWebhook "github.com/m04kA/MassageStudio-BookingService/internal/usecase/handle_payment_webhook"
)

type WebhookUseCase interface {
	Execute(ctx context.Context, req *handleWebhook.Request) (*handleWebhook.Response, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
