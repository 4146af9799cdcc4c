package booking_actions

import (
	"context"

	"github.com/google/uuid"

	"github.com/m04kA/MassageStudio-BookingService/internal/domain"
	"github.com/m04kA/MassageStudio-BookingService/internal/service/bookings/models"
)

type BookingService interface {
	MarkPaid(ctx context.Context, id uuid.UUID) (*models.BookingResponse, error)
	Refund(ctx context.Context, req *models.RefundRequest) (*models.RefundResponse, error)
	ResendEmail(ctx context.Context, id uuid.UUID) (domain.EmailType, error)
	SyncPayment(ctx context.Context, id uuid.UUID) (*models.BookingResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
