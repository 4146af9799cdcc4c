package availability

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateSlots(t *testing.T) {
	dayStart := time.Date(2025, 6, 2, 9, 0, 0, 0, time.UTC)
	dayEnd := time.Date(2025, 6, 2, 12, 0, 0, 0, time.UTC)

	slots := GenerateSlots(dayStart, dayEnd, 75*time.Minute, 15*time.Minute)

	require.Len(t, slots, 8)
	assert.Equal(t, dayStart, slots[0].Start)
	assert.Equal(t, dayStart.Add(75*time.Minute), slots[0].End)
	// последний слот заканчивается ровно в конце дня
	assert.Equal(t, time.Date(2025, 6, 2, 10, 45, 0, 0, time.UTC), slots[7].Start)
	assert.Equal(t, dayEnd, slots[7].End)

	for i := 1; i < len(slots); i++ {
		assert.Equal(t, 15*time.Minute, slots[i].Start.Sub(slots[i-1].Start))
	}
}

func TestGenerateSlots_NotMultipleOfGranularity(t *testing.T) {
	dayStart := time.Date(2025, 6, 2, 9, 0, 0, 0, time.UTC)
	dayEnd := time.Date(2025, 6, 2, 10, 10, 0, 0, time.UTC)

	slots := GenerateSlots(dayStart, dayEnd, 60*time.Minute, 15*time.Minute)

	require.Len(t, slots, 1)
	assert.Equal(t, dayStart, slots[0].Start)
}

func TestGenerateSlots_Empty(t *testing.T) {
	at := time.Date(2025, 6, 2, 9, 0, 0, 0, time.UTC)

	tests := []struct {
		name     string
		start    time.Time
		end      time.Time
		duration time.Duration
	}{
		{name: "zero length day", start: at, end: at, duration: time.Hour},
		{name: "inverted day", start: at.Add(time.Hour), end: at, duration: time.Hour},
		{name: "slot longer than day", start: at, end: at.Add(30 * time.Minute), duration: time.Hour},
		{name: "zero duration", start: at, end: at.Add(time.Hour), duration: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			slots := GenerateSlots(tt.start, tt.end, tt.duration, 15*time.Minute)
			assert.NotNil(t, slots)
			assert.Empty(t, slots)
		})
	}
}
