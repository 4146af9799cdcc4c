package availability

import (
	"time"

	"github.com/m04kA/MassageStudio-BookingService/internal/domain"
)

// GenerateSlots строит кандидатов на слоты с шагом granularity.
// Начала слотов: dayStart + k*granularity, k = 0..floor((dayEnd-dayStart)/granularity).
// Слот попадает в результат, если его конец не позже dayEnd.
func GenerateSlots(dayStart, dayEnd time.Time, slotDuration, granularity time.Duration) []domain.Slot {
	slots := make([]domain.Slot, 0)

	if slotDuration <= 0 || granularity <= 0 || !dayEnd.After(dayStart) {
		return slots
	}

	steps := int(dayEnd.Sub(dayStart)/granularity) + 1
	for k := 0; k < steps; k++ {
		start := dayStart.Add(time.Duration(k) * granularity)
		end := start.Add(slotDuration)
		if end.After(dayEnd) {
			// Дальше концы только растут
			break
		}
		slots = append(slots, domain.Slot{Start: start, End: end})
	}

	return slots
}
