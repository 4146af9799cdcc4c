package stripe

import "github.com/google/uuid"

// Типы событий, которые обрабатывает сервис
const (
	EventPaymentSucceeded = "payment_intent.succeeded"
	EventPaymentFailed    = "payment_intent.payment_failed"
)

// Ключ метаданных платежа с ID бронирования
const metadataBookingID = "booking_id"

// PaymentIntent созданное намерение оплаты
type PaymentIntent struct {
	ID           string
	ClientSecret string
}

// WebhookEvent разобранное событие провайдера
type WebhookEvent struct {
	ID              string
	Type            string
	PaymentIntentID string
	AmountCents     int64
	BookingID       *uuid.UUID // из метаданных платежа, если есть
	FailureMessage  *string
}
