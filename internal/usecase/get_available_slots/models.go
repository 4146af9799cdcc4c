package get_available_slots

import (
	"time"

	"github.com/google/uuid"

	"github.com/m04kA/MassageStudio-BookingService/internal/domain"
)

// Request модель запроса свободных слотов на дату
type Request struct {
	ServiceID uuid.UUID
	Date      time.Time // дата без времени, UTC
}

// Response модель ответа со списком свободных слотов
type Response struct {
	ServiceID uuid.UUID
	Date      time.Time
	Slots     []domain.Slot
}

// RangeRequest модель запроса доступных дат в диапазоне
type RangeRequest struct {
	ServiceID uuid.UUID
	StartDate time.Time
	EndDate   *time.Time // по умолчанию равна StartDate
}

// RangeResponse модель ответа с датами, на которые есть хотя бы один слот
type RangeResponse struct {
	ServiceID uuid.UUID
	StartDate time.Time
	EndDate   time.Time
	Dates     []time.Time
}
