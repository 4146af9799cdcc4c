package get_available_slots

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/MassageStudio-BookingService/internal/availability"
	"github.com/m04kA/MassageStudio-BookingService/internal/domain"
	"github.com/m04kA/MassageStudio-BookingService/pkg/logger"
	"github.com/m04kA/MassageStudio-BookingService/pkg/ptr"
)

// 2025-06-02 - понедельник
var monday = time.Date(2025, 6, 2, 0, 0, 0, 0, time.UTC)

func at(day time.Time, h, m int) time.Time {
	return day.Add(time.Duration(h)*time.Hour + time.Duration(m)*time.Minute)
}

type fixture struct {
	uc       *UseCase
	service  *domain.Service
	bookings *fakeBookingRepo
	schedule *fakeScheduleRepo
	settings *fakeSettingsRepo
	cache    *memoryCache
	metrics  *countingMetrics
}

func newFixture(now time.Time) *fixture {
	service := &domain.Service{ID: uuid.New(), Name: "Swedish", DurationMin: 60, PriceCents: 8000, IsActive: true}
	f := &fixture{
		service:  service,
		bookings: &fakeBookingRepo{},
		schedule: &fakeScheduleRepo{hours: []*domain.BusinessHours{
			{DayOfWeek: 0, IsOpen: true, OpeningTime: tod(9, 0), ClosingTime: tod(12, 0)},
			{DayOfWeek: 1, IsOpen: true, OpeningTime: tod(9, 0), ClosingTime: tod(12, 0)},
			{DayOfWeek: 2, IsOpen: false},
		}},
		settings: &fakeSettingsRepo{settings: &domain.SystemSettings{MaxBookingsPerDay: 5, BufferMinutes: 15}},
		cache:    newMemoryCache(),
		metrics:  &countingMetrics{},
	}
	f.uc = NewUseCase(
		f.bookings,
		&fakeServiceRepo{services: map[uuid.UUID]*domain.Service{service.ID: service}},
		f.schedule,
		f.settings,
		f.cache,
		availability.NewEngine(15),
		f.metrics,
		logger.Nop(),
	)
	f.uc.timeProvider = fixedTime{now: now}
	return f
}

func TestExecute_RegularDay(t *testing.T) {
	f := newFixture(monday.AddDate(0, 0, -7))

	resp, err := f.uc.Execute(context.Background(), &Request{ServiceID: f.service.ID, Date: monday})
	require.NoError(t, err)

	require.Len(t, resp.Slots, 8)
	assert.Equal(t, at(monday, 9, 0), resp.Slots[0].Start)
	assert.Equal(t, at(monday, 10, 15), resp.Slots[0].End)
	assert.Equal(t, at(monday, 10, 45), resp.Slots[7].Start)
	for _, s := range resp.Slots {
		assert.Equal(t, 75*time.Minute, s.Duration())
	}
}

func TestExecute_UsesCacheOnSecondCall(t *testing.T) {
	f := newFixture(monday.AddDate(0, 0, -7))
	req := &Request{ServiceID: f.service.ID, Date: monday}

	_, err := f.uc.Execute(context.Background(), req)
	require.NoError(t, err)
	_, err = f.uc.Execute(context.Background(), req)
	require.NoError(t, err)

	assert.Equal(t, 1, f.bookings.calls)
	assert.Equal(t, 1, f.metrics.results["miss"])
	assert.Equal(t, 1, f.metrics.results["hit"])
}

func TestExecute_CacheFailureFallsBackToEngine(t *testing.T) {
	f := newFixture(monday.AddDate(0, 0, -7))
	f.cache.broken = true

	resp, err := f.uc.Execute(context.Background(), &Request{ServiceID: f.service.ID, Date: monday})
	require.NoError(t, err)
	assert.Len(t, resp.Slots, 8)
	assert.Equal(t, 1, f.metrics.results["error"])
}

func TestExecute_DropsStartedSlots(t *testing.T) {
	f := newFixture(at(monday, 10, 5))

	resp, err := f.uc.Execute(context.Background(), &Request{ServiceID: f.service.ID, Date: monday})
	require.NoError(t, err)

	require.Len(t, resp.Slots, 3)
	assert.Equal(t, at(monday, 10, 15), resp.Slots[0].Start)
}

func TestExecute_PastDateIsEmpty(t *testing.T) {
	f := newFixture(monday.AddDate(0, 0, 1))

	resp, err := f.uc.Execute(context.Background(), &Request{ServiceID: f.service.ID, Date: monday})
	require.NoError(t, err)
	assert.Empty(t, resp.Slots)
	assert.Zero(t, f.bookings.calls)
}

func TestExecute_DefaultSettingsWhenMissing(t *testing.T) {
	f := newFixture(monday.AddDate(0, 0, -7))
	f.settings.settings = nil

	resp, err := f.uc.Execute(context.Background(), &Request{ServiceID: f.service.ID, Date: monday})
	require.NoError(t, err)
	// буфер по умолчанию 15 минут
	assert.Equal(t, 75*time.Minute, resp.Slots[0].Duration())
}

func TestExecute_Errors(t *testing.T) {
	f := newFixture(monday.AddDate(0, 0, -7))

	_, err := f.uc.Execute(context.Background(), &Request{ServiceID: uuid.Nil, Date: monday})
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = f.uc.Execute(context.Background(), &Request{ServiceID: uuid.New(), Date: monday})
	assert.ErrorIs(t, err, ErrServiceNotFound)

	f.service.IsActive = false
	_, err = f.uc.Execute(context.Background(), &Request{ServiceID: f.service.ID, Date: monday})
	assert.ErrorIs(t, err, ErrServiceNotFound)
}

func TestExecuteRange(t *testing.T) {
	f := newFixture(monday.AddDate(0, 0, -7))
	// среда закрыта по расписанию, во вторник блокировка
	f.schedule.overrides = []*domain.DateOverride{{Date: monday.AddDate(0, 0, 1), IsBlocked: true}}

	resp, err := f.uc.ExecuteRange(context.Background(), &RangeRequest{
		ServiceID: f.service.ID,
		StartDate: monday,
		EndDate:   ptr.Ptr(monday.AddDate(0, 0, 2)),
	})
	require.NoError(t, err)
	assert.Equal(t, []time.Time{monday}, resp.Dates)
}

func TestExecuteRange_TodayWithoutFutureSlots(t *testing.T) {
	f := newFixture(at(monday, 11, 30))

	resp, err := f.uc.ExecuteRange(context.Background(), &RangeRequest{
		ServiceID: f.service.ID,
		StartDate: monday.AddDate(0, 0, -3),
		EndDate:   ptr.Ptr(monday.AddDate(0, 0, 1)),
	})
	require.NoError(t, err)
	assert.Equal(t, []time.Time{monday.AddDate(0, 0, 1)}, resp.Dates)
}

func TestExecuteRange_Validation(t *testing.T) {
	f := newFixture(monday.AddDate(0, 0, -7))

	_, err := f.uc.ExecuteRange(context.Background(), &RangeRequest{
		ServiceID: f.service.ID,
		StartDate: monday,
		EndDate:   ptr.Ptr(monday.AddDate(0, 0, -1)),
	})
	assert.ErrorIs(t, err, ErrInvalidDate)

	_, err = f.uc.ExecuteRange(context.Background(), &RangeRequest{
		ServiceID: f.service.ID,
		StartDate: monday,
		EndDate:   ptr.Ptr(monday.AddDate(0, 0, domain.MaxAvailabilityRange)),
	})
	assert.ErrorIs(t, err, ErrRangeTooLong)
}

func TestCheckSlot(t *testing.T) {
	f := newFixture(monday.AddDate(0, 0, -7))
	f.bookings.bookings = []*domain.Booking{{
		ID:        uuid.New(),
		ServiceID: f.service.ID,
		StartTime: at(monday, 9, 0),
		EndTime:   at(monday, 10, 15),
		Status:    domain.StatusPending,
	}}

	tests := []struct {
		name          string
		start         time.Time
		wantCandidate bool
		wantAvailable bool
	}{
		{name: "free slot", start: at(monday, 10, 15), wantCandidate: true, wantAvailable: true},
		{name: "taken slot", start: at(monday, 9, 0), wantCandidate: true, wantAvailable: false},
		{name: "overlapping slot", start: at(monday, 9, 30), wantCandidate: true, wantAvailable: false},
		{name: "off grid", start: at(monday, 9, 10), wantCandidate: false},
		{name: "outside hours", start: at(monday, 11, 0), wantCandidate: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			isCandidate, isAvailable, err := f.uc.CheckSlot(context.Background(), f.service, tt.start)
			require.NoError(t, err)
			assert.Equal(t, tt.wantCandidate, isCandidate)
			assert.Equal(t, tt.wantAvailable, isAvailable)
		})
	}
}
