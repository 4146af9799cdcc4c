package create_booking

import (
	"time"

	"github.com/google/uuid"

	"github.com/m04kA/MassageStudio-BookingService/internal/domain"
)

// Request модель запроса на создание бронирования
type Request struct {
	ServiceID     uuid.UUID
	StartTime     time.Time // начало слота, UTC
	CustomerName  string
	CustomerEmail string
	CustomerPhone string
	Notes         *string
}

// Response модель ответа с созданным бронированием
type Response struct {
	BookingID             uuid.UUID
	Status                domain.BookingStatus
	StartTime             time.Time
	EndTime               time.Time
	DownpaymentCents      int64 // сумма к оплате сейчас
	RemainingBalanceCents int64
	PaymentIntentID       *string
	ClientSecret          *string // nil, если предоплата не требуется
}
