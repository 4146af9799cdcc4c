package schedule

import (
	"time"

	"github.com/m04kA/MassageStudio-BookingService/pkg/types"
)

// BusinessHoursInput расписание одного дня недели
type BusinessHoursInput struct {
	DayOfWeek   int
	IsOpen      bool
	OpeningTime *types.TimeOfDay
	ClosingTime *types.TimeOfDay
}

// OverrideInput исключение на дату
type OverrideInput struct {
	Date            time.Time
	IsBlocked       bool
	CustomOpenTime  *types.TimeOfDay
	CustomCloseTime *types.TimeOfDay
	Reason          *string
}

// SettingsPatch частичное обновление настроек, nil-поля не меняются
type SettingsPatch struct {
	MaxBookingsPerDay *int
	BufferMinutes     *int
}
