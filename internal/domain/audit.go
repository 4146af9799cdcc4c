package domain

import (
	"time"

	"github.com/google/uuid"
)

// AuditAction тип события в журнале платежей
type AuditAction string

const (
	AuditIntentCreated    AuditAction = "INTENT_CREATED"
	AuditPaymentConfirmed AuditAction = "PAYMENT_CONFIRMED"
	AuditPaymentFailed    AuditAction = "PAYMENT_FAILED"
	AuditRefundIssued     AuditAction = "REFUND_ISSUED"
	AuditRefundFailed     AuditAction = "REFUND_FAILED"
)

// AuditOutcome результат события
type AuditOutcome string

const (
	OutcomeSuccess AuditOutcome = "SUCCESS"
	OutcomeFailed  AuditOutcome = "FAILED"
	OutcomePending AuditOutcome = "PENDING"
)

// PaymentAuditLog запись журнала платежей (только добавление)
// Пара (ProviderEventID, Action) уникальна и служит маркером идемпотентности вебхуков
type PaymentAuditLog struct {
	ID              uuid.UUID
	BookingID       uuid.UUID
	Action          AuditAction
	AmountCents     int64
	Outcome         AuditOutcome
	PaymentIntentID *string
	ProviderEventID *string
	ErrorMessage    *string
	IPAddress       *string
	UserAgent       *string
	CreatedAt       time.Time
}
