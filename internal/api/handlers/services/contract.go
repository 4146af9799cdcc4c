package services

import (
	"context"

	"github.com/google/uuid"

	"github.com/m04kA/MassageStudio-BookingService/internal/domain"
	"github.com/m04kA/MassageStudio-BookingService/internal/service/catalog"
)

type CatalogService interface {
	List(ctx context.Context, activeOnly bool) ([]*domain.Service, error)
	GetByID(ctx context.Context, id uuid.UUID, activeOnly bool) (*domain.Service, error)
	Create(ctx context.Context, in *catalog.ServiceInput) (*domain.Service, error)
	Update(ctx context.Context, id uuid.UUID, patch *catalog.ServicePatch) (*domain.Service, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
