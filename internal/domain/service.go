package domain

import (
	"time"

	"github.com/google/uuid"
)

// Service услуга студии (вид массажа)
type Service struct {
	ID               uuid.UUID
	Name             string
	Description      *string
	DurationMin      int
	PriceCents       int64
	DownpaymentCents int64 // не больше PriceCents
	IsActive         bool
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// RequiresDownpayment возвращает true, если при бронировании нужна предоплата
func (s *Service) RequiresDownpayment() bool {
	return s.DownpaymentCents > 0
}
