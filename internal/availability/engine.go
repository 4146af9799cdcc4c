package availability

import (
	"time"

	"github.com/m04kA/MassageStudio-BookingService/internal/domain"
	"github.com/m04kA/MassageStudio-BookingService/pkg/types"
)

// Input данные для расчета доступности на одну дату
type Input struct {
	Date          time.Time
	Service       domain.Service
	Bookings      []*domain.Booking // бронирования этой услуги на эту дату
	BusinessHours []*domain.BusinessHours
	Overrides     []*domain.DateOverride
	Settings      domain.SystemSettings
}

// Window рабочее окно дня
type Window struct {
	Open  types.TimeOfDay
	Close types.TimeOfDay
}

// Engine считает свободные слоты. Не ходит в хранилище и не зависит от текущего времени.
type Engine struct {
	granularity time.Duration
}

// NewEngine создает движок с шагом слотов в минутах (0 - шаг по умолчанию)
func NewEngine(granularityMinutes int) *Engine {
	if granularityMinutes <= 0 {
		granularityMinutes = domain.DefaultSlotGranularityMinutes
	}
	return &Engine{granularity: time.Duration(granularityMinutes) * time.Minute}
}

// Granularity шаг генерации слотов
func (e *Engine) Granularity() time.Duration {
	return e.granularity
}

// ComputeAvailableSlots возвращает свободные слоты на дату в хронологическом порядке.
// Порядок проверок:
//  1. дневной лимит бронирований
//  2. заблокированная дата
//  3. рабочее окно (исключение даты или расписание дня недели)
//  4. генерация кандидатов длиной duration + buffer
//  5. отсев пересечений с существующими бронированиями
func (e *Engine) ComputeAvailableSlots(in Input) []domain.Slot {
	if CountActive(in.Bookings) >= in.Settings.MaxBookingsPerDay {
		return []domain.Slot{}
	}

	candidates := e.CandidateSlots(in)
	available := make([]domain.Slot, 0, len(candidates))

	for _, slot := range candidates {
		if overlapsAny(slot, in.Bookings) {
			continue
		}
		available = append(available, slot)
	}

	return available
}

// CandidateSlots возвращает все слоты рабочего окна без учета лимита и занятости
func (e *Engine) CandidateSlots(in Input) []domain.Slot {
	window, ok := ResolveWindow(in.Date, in.BusinessHours, in.Overrides)
	if !ok {
		return []domain.Slot{}
	}

	slotDuration := time.Duration(in.Service.DurationMin+in.Settings.BufferMinutes) * time.Minute
	dayStart := ComposeDateTime(in.Date, window.Open)
	dayEnd := ComposeDateTime(in.Date, window.Close)

	return GenerateSlots(dayStart, dayEnd, slotDuration, e.granularity)
}

// ComputeAvailableDates возвращает даты диапазона [from, to], на которые есть хотя бы один слот.
// bookings - бронирования услуги за весь диапазон, раскладываются по датам здесь.
func (e *Engine) ComputeAvailableDates(
	from, to time.Time,
	service domain.Service,
	bookings []*domain.Booking,
	hours []*domain.BusinessHours,
	overrides []*domain.DateOverride,
	settings domain.SystemSettings,
) []time.Time {
	byDate := make(map[time.Time][]*domain.Booking)
	for _, b := range bookings {
		day := DateOnly(b.StartTime)
		byDate[day] = append(byDate[day], b)
	}

	dates := make([]time.Time, 0)
	for day := DateOnly(from); !day.After(DateOnly(to)); day = day.AddDate(0, 0, 1) {
		slots := e.ComputeAvailableSlots(Input{
			Date:          day,
			Service:       service,
			Bookings:      byDate[day],
			BusinessHours: hours,
			Overrides:     overrides,
			Settings:      settings,
		})
		if len(slots) > 0 {
			dates = append(dates, day)
		}
	}

	return dates
}

// ResolveWindow определяет рабочее окно дня.
// Заблокированное исключение закрывает день целиком. Собственные часы исключения
// перекрывают часы дня недели по каждой границе отдельно. Открыт ли день,
// решает только строка дня недели: исключение выходной не открывает.
func ResolveWindow(date time.Time, hours []*domain.BusinessHours, overrides []*domain.DateOverride) (Window, bool) {
	override := FindOverride(date, overrides)
	if override != nil && override.IsBlocked {
		return Window{}, false
	}

	day := findBusinessHours(DayOfWeek(date), hours)

	isOpen := day != nil && day.IsOpen
	var opening, closing *types.TimeOfDay
	if day != nil {
		opening, closing = day.OpeningTime, day.ClosingTime
	}

	if override != nil {
		if override.CustomOpenTime != nil {
			opening = override.CustomOpenTime
		}
		if override.CustomCloseTime != nil {
			closing = override.CustomCloseTime
		}
	}

	if !isOpen || opening == nil || closing == nil {
		return Window{}, false
	}

	return Window{Open: *opening, Close: *closing}, true
}

// FindOverride ищет исключение на календарную дату
func FindOverride(date time.Time, overrides []*domain.DateOverride) *domain.DateOverride {
	for _, o := range overrides {
		if SameDate(o.Date, date) {
			return o
		}
	}
	return nil
}

// CountActive считает неотмененные бронирования
func CountActive(bookings []*domain.Booking) int {
	count := 0
	for _, b := range bookings {
		if b.IsActive() {
			count++
		}
	}
	return count
}

// ContainsSlot проверяет, что среди слотов есть слот с таким началом
func ContainsSlot(slots []domain.Slot, start time.Time) bool {
	for _, s := range slots {
		if s.Start.Equal(start) {
			return true
		}
	}
	return false
}

func findBusinessHours(dayOfWeek int, hours []*domain.BusinessHours) *domain.BusinessHours {
	for _, h := range hours {
		if h.DayOfWeek == dayOfWeek {
			return h
		}
	}
	return nil
}

// overlapsAny - все переданные бронирования считаются занятыми, отбор по статусу делает вызывающий
func overlapsAny(slot domain.Slot, bookings []*domain.Booking) bool {
	for _, b := range bookings {
		if IntervalsOverlap(slot, domain.Slot{Start: b.StartTime, End: b.EndTime}) {
			return true
		}
	}
	return false
}
