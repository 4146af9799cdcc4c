package schedule

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/MassageStudio-BookingService/internal/domain"
	scheduleRepo "github.com/m04kA/MassageStudio-BookingService/internal/infra/storage/schedule"
	settingsRepo "github.com/m04kA/MassageStudio-BookingService/internal/infra/storage/settings"
	"github.com/m04kA/MassageStudio-BookingService/pkg/dbmetrics"
	"github.com/m04kA/MassageStudio-BookingService/pkg/logger"
	"github.com/m04kA/MassageStudio-BookingService/pkg/ptr"
	"github.com/m04kA/MassageStudio-BookingService/pkg/txmanager"
	"github.com/m04kA/MassageStudio-BookingService/pkg/types"
)

type fakeScheduleRepo struct {
	hours     map[int]*domain.BusinessHours
	overrides map[string]*domain.DateOverride

	upserts    int
	failUpsert int // номер вызова UpsertBusinessHours, который вернет ошибку (0 - никогда)
}

func newFakeScheduleRepo() *fakeScheduleRepo {
	return &fakeScheduleRepo{
		hours:     make(map[int]*domain.BusinessHours),
		overrides: make(map[string]*domain.DateOverride),
	}
}

func (r *fakeScheduleRepo) ListBusinessHours(context.Context) ([]*domain.BusinessHours, error) {
	result := make([]*domain.BusinessHours, 0, len(r.hours))
	for _, h := range r.hours {
		result = append(result, h)
	}
	return result, nil
}

func (r *fakeScheduleRepo) UpsertBusinessHours(_ context.Context, h *domain.BusinessHours) (*domain.BusinessHours, error) {
	r.upserts++
	if r.upserts == r.failUpsert {
		return nil, errors.New("connection reset")
	}
	r.hours[h.DayOfWeek] = h
	return h, nil
}

func (r *fakeScheduleRepo) ListOverrides(context.Context, *time.Time, *time.Time) ([]*domain.DateOverride, error) {
	result := make([]*domain.DateOverride, 0, len(r.overrides))
	for _, o := range r.overrides {
		result = append(result, o)
	}
	return result, nil
}

func (r *fakeScheduleRepo) CreateOverride(_ context.Context, o *domain.DateOverride) (*domain.DateOverride, error) {
	key := o.Date.Format(domain.DateFormat)
	if _, ok := r.overrides[key]; ok {
		return nil, scheduleRepo.ErrOverrideExists
	}
	o.ID = uuid.New()
	r.overrides[key] = o
	return o, nil
}

func (r *fakeScheduleRepo) DeleteOverride(_ context.Context, id uuid.UUID) error {
	for key, o := range r.overrides {
		if o.ID == id {
			delete(r.overrides, key)
			return nil
		}
	}
	return scheduleRepo.ErrOverrideNotFound
}

type fakeSettingsRepo struct {
	settings *domain.SystemSettings
}

func (r *fakeSettingsRepo) Get(context.Context) (*domain.SystemSettings, error) {
	if r.settings == nil {
		return nil, settingsRepo.ErrSettingsNotFound
	}
	cp := *r.settings
	return &cp, nil
}

func (r *fakeSettingsRepo) Save(_ context.Context, s *domain.SystemSettings) (*domain.SystemSettings, error) {
	cp := *s
	r.settings = &cp
	return s, nil
}

type countingCache struct{ calls int }

func (c *countingCache) InvalidateAll(context.Context) error {
	c.calls++
	return nil
}

// fakeTx откатывает рабочие часы репозитория, если функция вернула ошибку
type fakeTx struct{ repo *fakeScheduleRepo }

func (f fakeTx) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	snapshot := make(map[int]*domain.BusinessHours, len(f.repo.hours))
	for k, v := range f.repo.hours {
		snapshot[k] = v
	}
	if err := fn(ctx); err != nil {
		f.repo.hours = snapshot
		return err
	}
	return nil
}

func newTestService() (*Service, *fakeScheduleRepo, *fakeSettingsRepo, *countingCache) {
	sched := newFakeScheduleRepo()
	settings := &fakeSettingsRepo{}
	cache := &countingCache{}
	return NewService(sched, settings, cache, fakeTx{repo: sched}, logger.Nop()), sched, settings, cache
}

func tod(s string) *types.TimeOfDay {
	t, err := types.ParseTimeOfDay(s)
	if err != nil {
		panic(err)
	}
	return &t
}

func TestGetSettings_DefaultsWhenMissing(t *testing.T) {
	svc, _, _, _ := newTestService()

	settings, err := svc.GetSettings(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 8, settings.MaxBookingsPerDay)
	assert.Equal(t, 15, settings.BufferMinutes)
}

func TestUpdateSettings(t *testing.T) {
	tests := []struct {
		name    string
		patch   SettingsPatch
		want    domain.SystemSettings
		wantErr error
	}{
		{
			name:  "partial patch keeps other field",
			patch: SettingsPatch{BufferMinutes: ptr.Ptr(0)},
			want:  domain.SystemSettings{MaxBookingsPerDay: 8, BufferMinutes: 0},
		},
		{
			name:    "zero cap rejected",
			patch:   SettingsPatch{MaxBookingsPerDay: ptr.Ptr(0)},
			wantErr: ErrInvalidInput,
		},
		{
			name:    "negative buffer rejected",
			patch:   SettingsPatch{BufferMinutes: ptr.Ptr(-5)},
			wantErr: ErrInvalidInput,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, _, repo, cache := newTestService()

			got, err := svc.UpdateSettings(context.Background(), &tt.patch)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, repo.settings)
				assert.Zero(t, cache.calls)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.want.MaxBookingsPerDay, got.MaxBookingsPerDay)
			assert.Equal(t, tt.want.BufferMinutes, got.BufferMinutes)
			assert.Equal(t, 1, cache.calls)
		})
	}
}

func TestUpsertBusinessHours(t *testing.T) {
	svc, repo, _, cache := newTestService()

	_, err := svc.UpsertBusinessHours(context.Background(), []BusinessHoursInput{
		{DayOfWeek: 0, IsOpen: true, OpeningTime: tod("09:00"), ClosingTime: tod("17:00")},
		{DayOfWeek: 6, IsOpen: false},
	})
	require.NoError(t, err)
	assert.Len(t, repo.hours, 2)
	assert.Equal(t, 1, cache.calls)

	hours, err := svc.ListBusinessHours(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, hours[0].DayOfWeek)
	assert.Equal(t, 6, hours[1].DayOfWeek)
}

func TestUpsertBusinessHours_FailureKeepsPreviousHours(t *testing.T) {
	svc, repo, _, cache := newTestService()
	monday := &domain.BusinessHours{DayOfWeek: 0, IsOpen: true, OpeningTime: tod("10:00"), ClosingTime: tod("18:00")}
	repo.hours[0] = monday
	repo.failUpsert = 2

	_, err := svc.UpsertBusinessHours(context.Background(), []BusinessHoursInput{
		{DayOfWeek: 0, IsOpen: true, OpeningTime: tod("09:00"), ClosingTime: tod("17:00")},
		{DayOfWeek: 1, IsOpen: true, OpeningTime: tod("09:00"), ClosingTime: tod("17:00")},
	})

	assert.ErrorIs(t, err, ErrInternal)
	require.Len(t, repo.hours, 1)
	assert.Same(t, monday, repo.hours[0])
	assert.Equal(t, 0, cache.calls)
}

func TestUpsertBusinessHours_RollsBackTransaction(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	wrapped := dbmetrics.Wrap(db, nil)
	cache := &countingCache{}
	svc := NewService(
		scheduleRepo.NewRepository(wrapped),
		&fakeSettingsRepo{},
		cache,
		txmanager.NewTransactionManager(wrapped),
		logger.Nop(),
	)

	mock.ExpectBegin()
	mock.ExpectQuery("INSERT INTO business_hours").
		WillReturnRows(sqlmock.NewRows([]string{"id", "updated_at"}).AddRow(uuid.New().String(), time.Now()))
	mock.ExpectQuery("INSERT INTO business_hours").
		WillReturnError(errors.New("connection reset"))
	mock.ExpectRollback()

	_, err = svc.UpsertBusinessHours(context.Background(), []BusinessHoursInput{
		{DayOfWeek: 0, IsOpen: true, OpeningTime: tod("09:00"), ClosingTime: tod("17:00")},
		{DayOfWeek: 6, IsOpen: false},
	})

	assert.ErrorIs(t, err, ErrInternal)
	assert.Equal(t, 0, cache.calls)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpsertBusinessHours_Invalid(t *testing.T) {
	tests := []struct {
		name   string
		inputs []BusinessHoursInput
	}{
		{name: "day out of range", inputs: []BusinessHoursInput{{DayOfWeek: 7}}},
		{name: "open without times", inputs: []BusinessHoursInput{{DayOfWeek: 1, IsOpen: true}}},
		{name: "closing before opening", inputs: []BusinessHoursInput{
			{DayOfWeek: 1, IsOpen: true, OpeningTime: tod("17:00"), ClosingTime: tod("09:00")},
		}},
		{name: "duplicate day", inputs: []BusinessHoursInput{{DayOfWeek: 2}, {DayOfWeek: 2}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, repo, _, _ := newTestService()

			_, err := svc.UpsertBusinessHours(context.Background(), tt.inputs)
			assert.ErrorIs(t, err, ErrInvalidInput)
			assert.Empty(t, repo.hours)
		})
	}
}

func TestCreateOverride(t *testing.T) {
	svc, _, _, cache := newTestService()
	date := time.Date(2025, 12, 25, 15, 0, 0, 0, time.UTC)

	created, err := svc.CreateOverride(context.Background(), &OverrideInput{Date: date, IsBlocked: true, Reason: ptr.Ptr("Holiday")})
	require.NoError(t, err)
	assert.Equal(t, time.Date(2025, 12, 25, 0, 0, 0, 0, time.UTC), created.Date)
	assert.Equal(t, 1, cache.calls)

	_, err = svc.CreateOverride(context.Background(), &OverrideInput{Date: date, IsBlocked: true})
	assert.ErrorIs(t, err, ErrOverrideExists)

	require.NoError(t, svc.DeleteOverride(context.Background(), created.ID))
	assert.ErrorIs(t, svc.DeleteOverride(context.Background(), created.ID), ErrOverrideNotFound)
}

func TestCreateOverride_Invalid(t *testing.T) {
	date := time.Date(2025, 12, 24, 0, 0, 0, 0, time.UTC)
	tests := []struct {
		name string
		in   OverrideInput
	}{
		{name: "neither blocked nor custom", in: OverrideInput{Date: date}},
		{name: "only open time", in: OverrideInput{Date: date, CustomOpenTime: tod("10:00")}},
		{name: "inverted custom hours", in: OverrideInput{Date: date, CustomOpenTime: tod("14:00"), CustomCloseTime: tod("10:00")}},
		{name: "missing date", in: OverrideInput{IsBlocked: true}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, _, _, _ := newTestService()

			_, err := svc.CreateOverride(context.Background(), &tt.in)
			assert.ErrorIs(t, err, ErrInvalidInput)
		})
	}
}
