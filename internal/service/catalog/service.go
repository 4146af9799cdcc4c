package catalog

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/m04kA/MassageStudio-BookingService/internal/domain"
	serviceRepo "github.com/m04kA/MassageStudio-BookingService/internal/infra/storage/service"
)

// Service каталог услуг студии
type Service struct {
	serviceRepo ServiceRepository
	cache       AvailabilityCache
	logger      Logger
}

// NewService создает новый экземпляр сервиса каталога
func NewService(serviceRepo ServiceRepository, cache AvailabilityCache, logger Logger) *Service {
	return &Service{
		serviceRepo: serviceRepo,
		cache:       cache,
		logger:      logger,
	}
}

// List получает услуги; activeOnly скрывает выключенные услуги от клиентов
func (s *Service) List(ctx context.Context, activeOnly bool) ([]*domain.Service, error) {
	services, err := s.serviceRepo.List(ctx, activeOnly)
	if err != nil {
		s.logger.Error("List: repository error: %v", err)
		return nil, fmt.Errorf("%w: List - repository error: %v", ErrInternal, err)
	}
	return services, nil
}

// GetByID получает услугу по ID. При activeOnly неактивная услуга считается ненайденной
func (s *Service) GetByID(ctx context.Context, id uuid.UUID, activeOnly bool) (*domain.Service, error) {
	service, err := s.serviceRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, serviceRepo.ErrServiceNotFound) {
			return nil, ErrServiceNotFound
		}
		s.logger.Error("GetByID: repository error for service_id=%s: %v", id, err)
		return nil, fmt.Errorf("%w: GetByID - repository error: %v", ErrInternal, err)
	}
	if activeOnly && !service.IsActive {
		return nil, ErrServiceNotFound
	}
	return service, nil
}

// Create создает услугу
func (s *Service) Create(ctx context.Context, in *ServiceInput) (*domain.Service, error) {
	service := &domain.Service{
		Name:             strings.TrimSpace(in.Name),
		Description:      in.Description,
		DurationMin:      in.DurationMin,
		PriceCents:       in.PriceCents,
		DownpaymentCents: in.DownpaymentCents,
		IsActive:         true,
	}
	if in.IsActive != nil {
		service.IsActive = *in.IsActive
	}

	if err := validateService(service); err != nil {
		s.logger.Warn("Create: validation failed: %v", err)
		return nil, err
	}

	created, err := s.serviceRepo.Create(ctx, service)
	if err != nil {
		s.logger.Error("Create: repository error: %v", err)
		return nil, fmt.Errorf("%w: Create - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("Create: service id=%s '%s' created", created.ID, created.Name)
	s.invalidateAll(ctx, "Create")
	return created, nil
}

// Update частично обновляет услугу
func (s *Service) Update(ctx context.Context, id uuid.UUID, patch *ServicePatch) (*domain.Service, error) {
	// 1. Получаем текущую версию
	service, err := s.GetByID(ctx, id, false)
	if err != nil {
		return nil, err
	}

	// 2. Применяем изменения
	if patch.Name != nil {
		service.Name = strings.TrimSpace(*patch.Name)
	}
	if patch.Description != nil {
		service.Description = patch.Description
	}
	if patch.DurationMin != nil {
		service.DurationMin = *patch.DurationMin
	}
	if patch.PriceCents != nil {
		service.PriceCents = *patch.PriceCents
	}
	if patch.DownpaymentCents != nil {
		service.DownpaymentCents = *patch.DownpaymentCents
	}
	if patch.IsActive != nil {
		service.IsActive = *patch.IsActive
	}

	// 3. Валидируем итоговое состояние
	if err := validateService(service); err != nil {
		s.logger.Warn("Update: validation failed for service_id=%s: %v", id, err)
		return nil, err
	}

	// 4. Сохраняем
	updated, err := s.serviceRepo.Update(ctx, service)
	if err != nil {
		if errors.Is(err, serviceRepo.ErrServiceNotFound) {
			return nil, ErrServiceNotFound
		}
		s.logger.Error("Update: repository error for service_id=%s: %v", id, err)
		return nil, fmt.Errorf("%w: Update - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("Update: service id=%s updated", id)
	s.invalidateAll(ctx, "Update")
	return updated, nil
}

func (s *Service) invalidateAll(ctx context.Context, op string) {
	if err := s.cache.InvalidateAll(ctx); err != nil {
		s.logger.Warn("%s: failed to invalidate availability cache: %v", op, err)
	}
}
