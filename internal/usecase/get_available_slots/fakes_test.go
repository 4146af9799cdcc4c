package get_available_slots

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/m04kA/MassageStudio-BookingService/internal/domain"
	serviceRepo "github.com/m04kA/MassageStudio-BookingService/internal/infra/storage/service"
	settingsRepo "github.com/m04kA/MassageStudio-BookingService/internal/infra/storage/settings"
	"github.com/m04kA/MassageStudio-BookingService/pkg/ptr"
	"github.com/m04kA/MassageStudio-BookingService/pkg/types"
)

type fakeBookingRepo struct {
	bookings []*domain.Booking
	calls    int
}

func (r *fakeBookingRepo) ListActiveByService(_ context.Context, serviceID uuid.UUID, from, to time.Time) ([]*domain.Booking, error) {
	r.calls++
	var result []*domain.Booking
	for _, b := range r.bookings {
		if b.ServiceID != serviceID || b.Status == domain.StatusCancelled {
			continue
		}
		if b.StartTime.Before(from) || !b.StartTime.Before(to) {
			continue
		}
		result = append(result, b)
	}
	return result, nil
}

type fakeServiceRepo struct {
	services map[uuid.UUID]*domain.Service
	err      error
}

func (r *fakeServiceRepo) GetByID(_ context.Context, id uuid.UUID) (*domain.Service, error) {
	if r.err != nil {
		return nil, r.err
	}
	s, ok := r.services[id]
	if !ok {
		return nil, serviceRepo.ErrServiceNotFound
	}
	return s, nil
}

type fakeScheduleRepo struct {
	hours     []*domain.BusinessHours
	overrides []*domain.DateOverride
}

func (r *fakeScheduleRepo) ListBusinessHours(context.Context) ([]*domain.BusinessHours, error) {
	return r.hours, nil
}

func (r *fakeScheduleRepo) ListOverrides(_ context.Context, from, to *time.Time) ([]*domain.DateOverride, error) {
	var result []*domain.DateOverride
	for _, o := range r.overrides {
		if from != nil && o.Date.Before(*from) {
			continue
		}
		if to != nil && o.Date.After(*to) {
			continue
		}
		result = append(result, o)
	}
	return result, nil
}

type fakeSettingsRepo struct {
	settings *domain.SystemSettings
}

func (r *fakeSettingsRepo) Get(context.Context) (*domain.SystemSettings, error) {
	if r.settings == nil {
		return nil, settingsRepo.ErrSettingsNotFound
	}
	return r.settings, nil
}

type memoryCache struct {
	dates  map[string][]domain.Slot
	ranges map[string][]time.Time
	broken bool
}

func newMemoryCache() *memoryCache {
	return &memoryCache{dates: make(map[string][]domain.Slot), ranges: make(map[string][]time.Time)}
}

func dateKey(id uuid.UUID, d time.Time) string {
	return id.String() + d.Format(domain.DateFormat)
}

func (c *memoryCache) GetDate(_ context.Context, id uuid.UUID, d time.Time) ([]domain.Slot, bool, error) {
	if c.broken {
		return nil, false, errors.New("redis down")
	}
	slots, ok := c.dates[dateKey(id, d)]
	return slots, ok, nil
}

func (c *memoryCache) SetDate(_ context.Context, id uuid.UUID, d time.Time, slots []domain.Slot) error {
	c.dates[dateKey(id, d)] = slots
	return nil
}

func (c *memoryCache) GetRange(_ context.Context, id uuid.UUID, s, e time.Time) ([]time.Time, bool, error) {
	if c.broken {
		return nil, false, errors.New("redis down")
	}
	dates, ok := c.ranges[dateKey(id, s)+dateKey(id, e)]
	return dates, ok, nil
}

func (c *memoryCache) SetRange(_ context.Context, id uuid.UUID, s, e time.Time, dates []time.Time) error {
	c.ranges[dateKey(id, s)+dateKey(id, e)] = dates
	return nil
}

type countingMetrics struct {
	results map[string]int
}

func (m *countingMetrics) IncCacheResult(result string) {
	if m.results == nil {
		m.results = make(map[string]int)
	}
	m.results[result]++
}

type fixedTime struct{ now time.Time }

func (f fixedTime) Now() time.Time { return f.now }

func tod(h, m int) *types.TimeOfDay {
	return ptr.Ptr(types.MustTimeOfDay(h, m))
}
