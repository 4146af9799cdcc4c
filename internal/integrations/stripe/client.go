package stripe

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	stripeapi "github.com/stripe/stripe-go/v79"
	"github.com/stripe/stripe-go/v79/client"
	"github.com/stripe/stripe-go/v79/webhook"
)

// Client клиент платежного провайдера Stripe
type Client struct {
	api              *client.API
	webhookSecret    string
	webhookTolerance time.Duration
	log              Logger
}

// NewClient создает клиента Stripe с ключом API и секретом подписи вебхуков
func NewClient(secretKey, webhookSecret string, webhookTolerance time.Duration, log Logger) *Client {
	return newClient(client.New(secretKey, nil), webhookSecret, webhookTolerance, log)
}

// NewClientWithBackends создает клиента с явно заданными backend (другой URL API)
func NewClientWithBackends(secretKey string, backends *stripeapi.Backends, webhookSecret string, webhookTolerance time.Duration, log Logger) *Client {
	return newClient(client.New(secretKey, backends), webhookSecret, webhookTolerance, log)
}

func newClient(api *client.API, webhookSecret string, webhookTolerance time.Duration, log Logger) *Client {
	if webhookTolerance <= 0 {
		webhookTolerance = webhook.DefaultTolerance
	}
	return &Client{
		api:              api,
		webhookSecret:    webhookSecret,
		webhookTolerance: webhookTolerance,
		log:              log,
	}
}

// CreatePaymentIntent создает намерение оплаты предоплаты за бронирование.
// ID бронирования используется как ключ идемпотентности.
func (c *Client) CreatePaymentIntent(ctx context.Context, bookingID uuid.UUID, amountCents int64, currency string) (*PaymentIntent, error) {
	params := &stripeapi.PaymentIntentParams{
		Amount:   stripeapi.Int64(amountCents),
		Currency: stripeapi.String(strings.ToLower(currency)),
		AutomaticPaymentMethods: &stripeapi.PaymentIntentAutomaticPaymentMethodsParams{
			Enabled: stripeapi.Bool(true),
		},
	}
	params.Context = ctx
	params.AddMetadata(metadataBookingID, bookingID.String())
	params.SetIdempotencyKey("intent-" + bookingID.String())

	pi, err := c.api.PaymentIntents.New(params)
	if err != nil {
		c.log.Error("Stripe: failed to create payment intent for booking=%s: %v", bookingID, err)
		return nil, fmt.Errorf("%w: create payment intent: %v", ErrProvider, err)
	}

	c.log.Info("Stripe: payment intent %s created for booking=%s amount=%d", pi.ID, bookingID, amountCents)
	return &PaymentIntent{ID: pi.ID, ClientSecret: pi.ClientSecret}, nil
}

// Refund возвращает платеж целиком (amountCents == nil) или частично
func (c *Client) Refund(ctx context.Context, paymentIntentID string, amountCents *int64) (string, error) {
	params := &stripeapi.RefundParams{
		PaymentIntent: stripeapi.String(paymentIntentID),
	}
	if amountCents != nil {
		params.Amount = stripeapi.Int64(*amountCents)
	}
	params.Context = ctx

	refund, err := c.api.Refunds.New(params)
	if err != nil {
		c.log.Error("Stripe: refund failed for intent=%s: %v", paymentIntentID, err)
		return "", fmt.Errorf("%w: refund: %v", ErrProvider, err)
	}

	c.log.Info("Stripe: refund %s issued for intent=%s", refund.ID, paymentIntentID)
	return refund.ID, nil
}

// IsPaymentSucceeded проверяет статус намерения оплаты у провайдера
func (c *Client) IsPaymentSucceeded(ctx context.Context, paymentIntentID string) (bool, error) {
	params := &stripeapi.PaymentIntentParams{}
	params.Context = ctx

	pi, err := c.api.PaymentIntents.Get(paymentIntentID, params)
	if err != nil {
		return false, fmt.Errorf("%w: get payment intent: %v", ErrProvider, err)
	}
	return pi.Status == stripeapi.PaymentIntentStatusSucceeded, nil
}

// ParseWebhook проверяет подпись и разбирает событие.
// События других типов возвращаются без данных платежа.
func (c *Client) ParseWebhook(payload []byte, signature string) (*WebhookEvent, error) {
	evt, err := webhook.ConstructEventWithOptions(payload, signature, c.webhookSecret, webhook.ConstructEventOptions{
		Tolerance:                c.webhookTolerance,
		IgnoreAPIVersionMismatch: true,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidSignature, err)
	}

	result := &WebhookEvent{
		ID:   evt.ID,
		Type: string(evt.Type),
	}

	if result.Type != EventPaymentSucceeded && result.Type != EventPaymentFailed {
		return result, nil
	}
	if evt.Data == nil {
		return nil, fmt.Errorf("%w: event %s has no data", ErrInvalidPayload, evt.ID)
	}

	var pi stripeapi.PaymentIntent
	if err := json.Unmarshal(evt.Data.Raw, &pi); err != nil {
		return nil, fmt.Errorf("%w: decode payment intent: %v", ErrInvalidPayload, err)
	}
	if pi.ID == "" {
		return nil, fmt.Errorf("%w: event %s has no payment intent id", ErrInvalidPayload, evt.ID)
	}

	result.PaymentIntentID = pi.ID
	result.AmountCents = pi.Amount

	if raw, ok := pi.Metadata[metadataBookingID]; ok {
		if id, err := uuid.Parse(raw); err == nil {
			result.BookingID = &id
		}
	}
	if pi.LastPaymentError != nil && pi.LastPaymentError.Msg != "" {
		msg := pi.LastPaymentError.Msg
		result.FailureMessage = &msg
	}

	return result, nil
}
