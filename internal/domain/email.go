package domain

import "github.com/google/uuid"

// EmailType тип письма клиенту
type EmailType string

const (
	EmailConfirmation       EmailType = "CONFIRMATION"
	EmailCancellation       EmailType = "CANCELLATION"
	EmailRefundNotification EmailType = "REFUND_NOTIFICATION"
	EmailPasswordReset      EmailType = "PASSWORD_RESET"
)

// Valid проверяет, что тип письма известен
func (t EmailType) Valid() bool {
	switch t {
	case EmailConfirmation, EmailCancellation, EmailRefundNotification, EmailPasswordReset:
		return true
	}
	return false
}

// EmailJob задача на отправку письма
type EmailJob struct {
	ID            uuid.UUID `json:"id"`
	BookingID     uuid.UUID `json:"bookingId"`
	CustomerEmail string    `json:"customerEmail"`
	Type          EmailType `json:"type"`
	Attempt       int       `json:"attempt"` // количество уже сделанных попыток
}

// NewEmailJob создает задачу с новым идентификатором
func NewEmailJob(bookingID uuid.UUID, customerEmail string, emailType EmailType) EmailJob {
	return EmailJob{
		ID:            uuid.New(),
		BookingID:     bookingID,
		CustomerEmail: customerEmail,
		Type:          emailType,
	}
}
