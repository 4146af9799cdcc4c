package schedule

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/m04kA/MassageStudio-BookingService/internal/domain"
	scheduleService "github.com/m04kA/MassageStudio-BookingService/internal/service/schedule"
)

type ScheduleService interface {
	ListBusinessHours(ctx context.Context) ([]*domain.BusinessHours, error)
	UpsertBusinessHours(ctx context.Context, inputs []scheduleService.BusinessHoursInput) ([]*domain.BusinessHours, error)
	ListOverrides(ctx context.Context, from, to *time.Time) ([]*domain.DateOverride, error)
	CreateOverride(ctx context.Context, in *scheduleService.OverrideInput) (*domain.DateOverride, error)
	DeleteOverride(ctx context.Context, id uuid.UUID) error
	GetSettings(ctx context.Context) (*domain.SystemSettings, error)
	UpdateSettings(ctx context.Context, patch *scheduleService.SettingsPatch) (*domain.SystemSettings, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
