package email

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/m04kA/MassageStudio-BookingService/internal/domain"
)

// JobQueue очередь задач на отправку писем
type JobQueue interface {
	Dequeue(ctx context.Context, timeout time.Duration) (*domain.EmailJob, error)
	EnqueueAt(ctx context.Context, job domain.EmailJob, at time.Time) error
}

// BookingRepository интерфейс репозитория бронирований
type BookingRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Booking, error)
	UpdateEmailStatus(ctx context.Context, id uuid.UUID, status domain.EmailDeliveryStatus) error
}

// ServiceRepository интерфейс репозитория услуг
type ServiceRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Service, error)
}

// Sender отправитель писем
type Sender interface {
	Send(to, subject, body string) error
}

// Metrics интерфейс метрик писем
type Metrics interface {
	IncEmailJob(emailType, outcome string)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
