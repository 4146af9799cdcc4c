package dashboard

import (
	"context"

	"github.com/m04kA/MassageStudio-BookingService/internal/service/bookings/models"
)

type BookingService interface {
	Today(ctx context.Context) (*models.BookingListResponse, error)
	PendingActions(ctx context.Context) (*models.PendingActionsResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
