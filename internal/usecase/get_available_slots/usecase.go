package get_available_slots

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/m04kA/MassageStudio-BookingService/internal/availability"
	"github.com/m04kA/MassageStudio-BookingService/internal/domain"
	serviceRepo "github.com/m04kA/MassageStudio-BookingService/internal/infra/storage/service"
	settingsRepo "github.com/m04kA/MassageStudio-BookingService/internal/infra/storage/settings"
)

// UseCase use case для получения свободных слотов и доступных дат
type UseCase struct {
	bookingRepo  BookingRepository
	serviceRepo  ServiceRepository
	scheduleRepo ScheduleRepository
	settingsRepo SettingsRepository
	cache        AvailabilityCache
	engine       *availability.Engine
	metrics      Metrics
	timeProvider TimeProvider
	logger       Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	bookingRepo BookingRepository,
	serviceRepo ServiceRepository,
	scheduleRepo ScheduleRepository,
	settingsRepo SettingsRepository,
	cache AvailabilityCache,
	engine *availability.Engine,
	metrics Metrics,
	logger Logger,
) *UseCase {
	return &UseCase{
		bookingRepo:  bookingRepo,
		serviceRepo:  serviceRepo,
		scheduleRepo: scheduleRepo,
		settingsRepo: settingsRepo,
		cache:        cache,
		engine:       engine,
		metrics:      metrics,
		timeProvider: &RealTimeProvider{},
		logger:       logger,
	}
}

// dayInputs данные из хранилища, нужные движку
type dayInputs struct {
	hours     []*domain.BusinessHours
	overrides []*domain.DateOverride
	settings  domain.SystemSettings
	bookings  []*domain.Booking
}

// Execute возвращает свободные слоты услуги на дату.
// Отсутствие слотов не ошибка: возвращается пустой список.
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("GetAvailableSlots: validation failed: %v", err)
		return nil, err
	}

	date := availability.DateOnly(req.Date)
	now := uc.timeProvider.Now().UTC()
	response := &Response{ServiceID: req.ServiceID, Date: date, Slots: []domain.Slot{}}

	// 2. Прошедшие даты не бронируются
	if date.Before(availability.DateOnly(now)) {
		return response, nil
	}

	// 3. Получаем услугу
	service, err := uc.getActiveService(ctx, "GetAvailableSlots", req.ServiceID)
	if err != nil {
		return nil, err
	}

	// 4. Считаем слоты (через кэш) и отбрасываем уже начавшиеся
	slots, err := uc.slotsForDate(ctx, service, date)
	if err != nil {
		return nil, err
	}
	response.Slots = dropPast(slots, now)

	uc.logger.Info("GetAvailableSlots: %d slots for service=%s, date=%s",
		len(response.Slots), req.ServiceID, date.Format(domain.DateFormat))

	return response, nil
}

// ExecuteRange возвращает даты диапазона, на которые есть хотя бы один свободный слот
func (uc *UseCase) ExecuteRange(ctx context.Context, req *RangeRequest) (*RangeResponse, error) {
	// 1. Валидация диапазона
	start, end, err := normalizeRange(req)
	if err != nil {
		uc.logger.Warn("GetAvailableDates: validation failed: %v", err)
		return nil, err
	}

	now := uc.timeProvider.Now().UTC()
	today := availability.DateOnly(now)
	response := &RangeResponse{ServiceID: req.ServiceID, StartDate: start, EndDate: end, Dates: []time.Time{}}

	// 2. Прошедшая часть диапазона отбрасывается
	if end.Before(today) {
		return response, nil
	}
	if start.Before(today) {
		start = today
	}

	// 3. Получаем услугу
	service, err := uc.getActiveService(ctx, "GetAvailableDates", req.ServiceID)
	if err != nil {
		return nil, err
	}

	// 4. Ищем в кэше
	dates, ok, err := uc.cache.GetRange(ctx, service.ID, start, end)
	uc.observeCache("GetAvailableDates", ok, err)

	// 5. При промахе считаем по дням и кладем в кэш
	if !ok {
		in, err := uc.loadInputs(ctx, "GetAvailableDates", service.ID, start, end.AddDate(0, 0, 1))
		if err != nil {
			return nil, err
		}

		dates = uc.engine.ComputeAvailableDates(start, end, *service, in.bookings, in.hours, in.overrides, in.settings)

		if err := uc.cache.SetRange(ctx, service.ID, start, end, dates); err != nil {
			uc.logger.Warn("GetAvailableDates: failed to cache range: %v", err)
		}
	}

	// 6. Сегодня доступно, только если остались неначавшиеся слоты
	if len(dates) > 0 && dates[0].Equal(today) {
		slots, err := uc.slotsForDate(ctx, service, today)
		if err != nil {
			return nil, err
		}
		if len(dropPast(slots, now)) == 0 {
			dates = dates[1:]
		}
	}

	response.Dates = dates
	uc.logger.Info("GetAvailableDates: %d available dates for service=%s in %s..%s",
		len(dates), req.ServiceID, start.Format(domain.DateFormat), end.Format(domain.DateFormat))

	return response, nil
}

// CheckSlot проверяет момент начала по свежим данным без кэша.
// isCandidate: момент попадает в сетку слотов дня; isAvailable: слот при этом свободен.
func (uc *UseCase) CheckSlot(ctx context.Context, service *domain.Service, start time.Time) (isCandidate, isAvailable bool, err error) {
	date := availability.DateOnly(start)

	in, err := uc.loadInputs(ctx, "CheckSlot", service.ID, date, date.AddDate(0, 0, 1))
	if err != nil {
		return false, false, err
	}

	engineIn := availability.Input{
		Date:          date,
		Service:       *service,
		Bookings:      in.bookings,
		BusinessHours: in.hours,
		Overrides:     in.overrides,
		Settings:      in.settings,
	}

	if !availability.ContainsSlot(uc.engine.CandidateSlots(engineIn), start) {
		return false, false, nil
	}
	return true, availability.ContainsSlot(uc.engine.ComputeAvailableSlots(engineIn), start), nil
}

// slotsForDate возвращает результат движка на дату, используя кэш
func (uc *UseCase) slotsForDate(ctx context.Context, service *domain.Service, date time.Time) ([]domain.Slot, error) {
	slots, ok, err := uc.cache.GetDate(ctx, service.ID, date)
	uc.observeCache("GetAvailableSlots", ok, err)
	if ok {
		return slots, nil
	}

	in, err := uc.loadInputs(ctx, "GetAvailableSlots", service.ID, date, date.AddDate(0, 0, 1))
	if err != nil {
		return nil, err
	}

	slots = uc.engine.ComputeAvailableSlots(availability.Input{
		Date:          date,
		Service:       *service,
		Bookings:      in.bookings,
		BusinessHours: in.hours,
		Overrides:     in.overrides,
		Settings:      in.settings,
	})

	if err := uc.cache.SetDate(ctx, service.ID, date, slots); err != nil {
		uc.logger.Warn("GetAvailableSlots: failed to cache slots: %v", err)
	}
	return slots, nil
}

// loadInputs загружает расписание, настройки и бронирования услуги с началом в [from, to)
func (uc *UseCase) loadInputs(ctx context.Context, op string, serviceID uuid.UUID, from, to time.Time) (*dayInputs, error) {
	hours, err := uc.scheduleRepo.ListBusinessHours(ctx)
	if err != nil {
		uc.logger.Error("%s: failed to get business hours: %v", op, err)
		return nil, fmt.Errorf("%w: failed to get business hours: %v", ErrInternal, err)
	}

	lastDate := to.AddDate(0, 0, -1)
	overrides, err := uc.scheduleRepo.ListOverrides(ctx, &from, &lastDate)
	if err != nil {
		uc.logger.Error("%s: failed to get date overrides: %v", op, err)
		return nil, fmt.Errorf("%w: failed to get date overrides: %v", ErrInternal, err)
	}

	settings := domain.DefaultSettings()
	stored, err := uc.settingsRepo.Get(ctx)
	switch {
	case err == nil:
		settings = *stored
	case !errors.Is(err, settingsRepo.ErrSettingsNotFound):
		uc.logger.Error("%s: failed to get settings: %v", op, err)
		return nil, fmt.Errorf("%w: failed to get settings: %v", ErrInternal, err)
	}

	bookings, err := uc.bookingRepo.ListActiveByService(ctx, serviceID, from, to)
	if err != nil {
		uc.logger.Error("%s: failed to get bookings: %v", op, err)
		return nil, fmt.Errorf("%w: failed to get bookings: %v", ErrInternal, err)
	}

	return &dayInputs{hours: hours, overrides: overrides, settings: settings, bookings: bookings}, nil
}

func (uc *UseCase) getActiveService(ctx context.Context, op string, id uuid.UUID) (*domain.Service, error) {
	service, err := uc.serviceRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, serviceRepo.ErrServiceNotFound) {
			uc.logger.Warn("%s: service id=%s not found", op, id)
			return nil, ErrServiceNotFound
		}
		uc.logger.Error("%s: failed to get service id=%s: %v", op, id, err)
		return nil, fmt.Errorf("%w: failed to get service: %v", ErrInternal, err)
	}
	if !service.IsActive {
		uc.logger.Warn("%s: service id=%s is inactive", op, id)
		return nil, ErrServiceNotFound
	}
	return service, nil
}

func (uc *UseCase) observeCache(op string, hit bool, err error) {
	switch {
	case err != nil:
		uc.logger.Warn("%s: availability cache read failed: %v", op, err)
		uc.metrics.IncCacheResult("error")
	case hit:
		uc.metrics.IncCacheResult("hit")
	default:
		uc.metrics.IncCacheResult("miss")
	}
}

// dropPast отбрасывает слоты, начавшиеся раньше now
func dropPast(slots []domain.Slot, now time.Time) []domain.Slot {
	result := make([]domain.Slot, 0, len(slots))
	for _, s := range slots {
		if !s.Start.Before(now) {
			result = append(result, s)
		}
	}
	return result
}
