package availability

import (
	"time"

	"github.com/m04kA/MassageStudio-BookingService/internal/domain"
	"github.com/m04kA/MassageStudio-BookingService/pkg/types"
)

// DayOfWeek возвращает день недели по UTC-дате: 0 - понедельник, 6 - воскресенье
func DayOfWeek(date time.Time) int {
	return (int(date.UTC().Weekday()) + 6) % 7
}

// DateOnly обрезает момент времени до полуночи UTC
func DateOnly(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// SameDate сравнивает календарные даты в UTC
func SameDate(a, b time.Time) bool {
	ay, am, ad := a.UTC().Date()
	by, bm, bd := b.UTC().Date()
	return ay == by && am == bm && ad == bd
}

// ComposeDateTime собирает момент UTC из даты и времени суток, секунды обнулены
func ComposeDateTime(date time.Time, tod types.TimeOfDay) time.Time {
	y, m, d := date.UTC().Date()
	return time.Date(y, m, d, tod.Hour(), tod.Minute(), 0, 0, time.UTC)
}

// IntervalsOverlap проверяет пересечение полуоткрытых интервалов [start, end)
// Касание границ пересечением не считается
func IntervalsOverlap(a, b domain.Slot) bool {
	return a.Start.Before(b.End) && a.End.After(b.Start)
}
