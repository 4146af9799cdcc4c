package schedule

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/m04kA/MassageStudio-BookingService/internal/availability"
	"github.com/m04kA/MassageStudio-BookingService/internal/domain"
	scheduleRepo "github.com/m04kA/MassageStudio-BookingService/internal/infra/storage/schedule"
	settingsRepo "github.com/m04kA/MassageStudio-BookingService/internal/infra/storage/settings"
)

// Service сервис расписания студии: рабочие часы, исключения по датам, глобальные настройки.
// Любое изменение сбрасывает весь кэш доступности.
type Service struct {
	scheduleRepo ScheduleRepository
	settingsRepo SettingsRepository
	cache        AvailabilityCache
	txManager    TransactionManager
	logger       Logger
}

// NewService создает новый экземпляр сервиса расписания
func NewService(
	scheduleRepo ScheduleRepository,
	settingsRepo SettingsRepository,
	cache AvailabilityCache,
	txManager TransactionManager,
	logger Logger,
) *Service {
	return &Service{
		scheduleRepo: scheduleRepo,
		settingsRepo: settingsRepo,
		cache:        cache,
		txManager:    txManager,
		logger:       logger,
	}
}

// ListBusinessHours получает рабочие часы, упорядоченные по дню недели
func (s *Service) ListBusinessHours(ctx context.Context) ([]*domain.BusinessHours, error) {
	hours, err := s.scheduleRepo.ListBusinessHours(ctx)
	if err != nil {
		s.logger.Error("ListBusinessHours: repository error: %v", err)
		return nil, fmt.Errorf("%w: ListBusinessHours - repository error: %v", ErrInternal, err)
	}

	sort.Slice(hours, func(i, j int) bool { return hours[i].DayOfWeek < hours[j].DayOfWeek })
	return hours, nil
}

// UpsertBusinessHours сохраняет рабочие часы для набора дней недели
func (s *Service) UpsertBusinessHours(ctx context.Context, inputs []BusinessHoursInput) ([]*domain.BusinessHours, error) {
	s.logger.Info("UpsertBusinessHours: updating %d days", len(inputs))

	// 1. Валидируем все дни до записи
	seen := make(map[int]bool, len(inputs))
	for i := range inputs {
		if err := validateBusinessHours(&inputs[i]); err != nil {
			s.logger.Warn("UpsertBusinessHours: validation failed: %v", err)
			return nil, err
		}
		if seen[inputs[i].DayOfWeek] {
			return nil, fmt.Errorf("%w: duplicate dayOfWeek %d", ErrInvalidInput, inputs[i].DayOfWeek)
		}
		seen[inputs[i].DayOfWeek] = true
	}

	// 2. Сохраняем все дни одной транзакцией
	result := make([]*domain.BusinessHours, 0, len(inputs))
	err := s.txManager.Do(ctx, func(txCtx context.Context) error {
		for _, in := range inputs {
			h := &domain.BusinessHours{
				DayOfWeek:   in.DayOfWeek,
				IsOpen:      in.IsOpen,
				OpeningTime: in.OpeningTime,
				ClosingTime: in.ClosingTime,
			}
			saved, err := s.scheduleRepo.UpsertBusinessHours(txCtx, h)
			if err != nil {
				s.logger.Error("UpsertBusinessHours: failed to save day=%d: %v", in.DayOfWeek, err)
				return fmt.Errorf("%w: UpsertBusinessHours - repository error: %v", ErrInternal, err)
			}
			result = append(result, saved)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	// 3. Сбрасываем кэш доступности
	s.invalidateAll(ctx, "UpsertBusinessHours")
	return result, nil
}

// ListOverrides получает исключения из расписания в диапазоне дат
func (s *Service) ListOverrides(ctx context.Context, from, to *time.Time) ([]*domain.DateOverride, error) {
	overrides, err := s.scheduleRepo.ListOverrides(ctx, from, to)
	if err != nil {
		s.logger.Error("ListOverrides: repository error: %v", err)
		return nil, fmt.Errorf("%w: ListOverrides - repository error: %v", ErrInternal, err)
	}
	return overrides, nil
}

// CreateOverride создает исключение на дату
func (s *Service) CreateOverride(ctx context.Context, in *OverrideInput) (*domain.DateOverride, error) {
	if err := validateOverride(in); err != nil {
		s.logger.Warn("CreateOverride: validation failed: %v", err)
		return nil, err
	}

	override := &domain.DateOverride{
		Date:            availability.DateOnly(in.Date),
		IsBlocked:       in.IsBlocked,
		CustomOpenTime:  in.CustomOpenTime,
		CustomCloseTime: in.CustomCloseTime,
		Reason:          in.Reason,
	}

	created, err := s.scheduleRepo.CreateOverride(ctx, override)
	if err != nil {
		if errors.Is(err, scheduleRepo.ErrOverrideExists) {
			s.logger.Warn("CreateOverride: override for %s already exists", override.Date.Format(domain.DateFormat))
			return nil, ErrOverrideExists
		}
		s.logger.Error("CreateOverride: repository error: %v", err)
		return nil, fmt.Errorf("%w: CreateOverride - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("CreateOverride: override id=%s for %s created (blocked=%t)",
		created.ID, created.Date.Format(domain.DateFormat), created.IsBlocked)
	s.invalidateAll(ctx, "CreateOverride")
	return created, nil
}

// DeleteOverride удаляет исключение
func (s *Service) DeleteOverride(ctx context.Context, id uuid.UUID) error {
	if err := s.scheduleRepo.DeleteOverride(ctx, id); err != nil {
		if errors.Is(err, scheduleRepo.ErrOverrideNotFound) {
			s.logger.Warn("DeleteOverride: override id=%s not found", id)
			return ErrOverrideNotFound
		}
		s.logger.Error("DeleteOverride: repository error for id=%s: %v", id, err)
		return fmt.Errorf("%w: DeleteOverride - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("DeleteOverride: override id=%s deleted", id)
	s.invalidateAll(ctx, "DeleteOverride")
	return nil
}

// GetSettings возвращает настройки; если они не сохранялись, значения по умолчанию
func (s *Service) GetSettings(ctx context.Context) (*domain.SystemSettings, error) {
	settings, err := s.settingsRepo.Get(ctx)
	if err != nil {
		if errors.Is(err, settingsRepo.ErrSettingsNotFound) {
			defaults := domain.DefaultSettings()
			return &defaults, nil
		}
		s.logger.Error("GetSettings: repository error: %v", err)
		return nil, fmt.Errorf("%w: GetSettings - repository error: %v", ErrInternal, err)
	}
	return settings, nil
}

// UpdateSettings частично обновляет настройки
func (s *Service) UpdateSettings(ctx context.Context, patch *SettingsPatch) (*domain.SystemSettings, error) {
	current, err := s.GetSettings(ctx)
	if err != nil {
		return nil, err
	}

	updated := *current
	if patch.MaxBookingsPerDay != nil {
		updated.MaxBookingsPerDay = *patch.MaxBookingsPerDay
	}
	if patch.BufferMinutes != nil {
		updated.BufferMinutes = *patch.BufferMinutes
	}

	if err := validateSettings(&updated); err != nil {
		s.logger.Warn("UpdateSettings: validation failed: %v", err)
		return nil, err
	}

	saved, err := s.settingsRepo.Save(ctx, &updated)
	if err != nil {
		s.logger.Error("UpdateSettings: repository error: %v", err)
		return nil, fmt.Errorf("%w: UpdateSettings - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("UpdateSettings: maxBookingsPerDay=%d, bufferMinutes=%d", saved.MaxBookingsPerDay, saved.BufferMinutes)
	s.invalidateAll(ctx, "UpdateSettings")
	return saved, nil
}

func (s *Service) invalidateAll(ctx context.Context, op string) {
	if err := s.cache.InvalidateAll(ctx); err != nil {
		s.logger.Warn("%s: failed to invalidate availability cache: %v", op, err)
	}
}
