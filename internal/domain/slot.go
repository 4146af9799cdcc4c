package domain

import "time"

// Slot интервал времени [Start, End), доступный для бронирования
type Slot struct {
	Start time.Time
	End   time.Time
}

// Duration длительность слота
func (s Slot) Duration() time.Duration {
	return s.End.Sub(s.Start)
}
