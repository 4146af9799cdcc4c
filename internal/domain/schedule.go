package domain

import (
	"time"

	"github.com/google/uuid"

	"github.com/m04kA/MassageStudio-BookingService/pkg/types"
)

// BusinessHours регулярное расписание на день недели (0 - понедельник, 6 - воскресенье)
type BusinessHours struct {
	ID          uuid.UUID
	DayOfWeek   int
	OpeningTime *types.TimeOfDay
	ClosingTime *types.TimeOfDay
	IsOpen      bool
	UpdatedAt   time.Time
}

// DateOverride исключение из расписания на конкретную дату
// IsBlocked имеет приоритет над CustomOpenTime/CustomCloseTime
type DateOverride struct {
	ID              uuid.UUID
	Date            time.Time // полночь UTC
	IsBlocked       bool
	CustomOpenTime  *types.TimeOfDay
	CustomCloseTime *types.TimeOfDay
	Reason          *string
	CreatedAt       time.Time
}

// SystemSettings глобальные настройки студии (одна строка)
type SystemSettings struct {
	MaxBookingsPerDay int
	BufferMinutes     int
	UpdatedAt         time.Time
}

// DefaultSettings настройки по умолчанию, пока администратор их не сохранил
func DefaultSettings() SystemSettings {
	return SystemSettings{
		MaxBookingsPerDay: DefaultMaxBookingsPerDay,
		BufferMinutes:     DefaultBufferMinutes,
	}
}
