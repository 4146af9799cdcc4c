package email

import (
	"context"
	"errors"
	"time"

	"github.com/m04kA/MassageStudio-BookingService/internal/domain"
	bookingRepo "github.com/m04kA/MassageStudio-BookingService/internal/infra/storage/booking"
	"github.com/m04kA/MassageStudio-BookingService/internal/integrations/mailer"
)

// Исходы обработки задачи для метрик
const (
	outcomeSent    = "sent"
	outcomeRetry   = "retry"
	outcomeFailed  = "failed"
	outcomeSkipped = "skipped"
	outcomeDropped = "dropped"
)

// Config параметры воркера
type Config struct {
	MaxAttempts int           // всего попыток отправки
	BaseBackoff time.Duration // задержка перед второй попыткой, дальше удваивается
	PollTimeout time.Duration // сколько ждать задачу в одном Dequeue
}

// Worker отправляет письма из очереди.
// Неудачная отправка откладывается с экспоненциальной задержкой,
// после исчерпания попыток у бронирования выставляется статус FAILED.
type Worker struct {
	queue       JobQueue
	bookingRepo BookingRepository
	serviceRepo ServiceRepository
	sender      Sender
	metrics     Metrics
	logger      Logger
	cfg         Config
	now         func() time.Time
}

// NewWorker создает воркер отправки писем
func NewWorker(
	queue JobQueue,
	bookingRepo BookingRepository,
	serviceRepo ServiceRepository,
	sender Sender,
	metrics Metrics,
	logger Logger,
	cfg Config,
) *Worker {
	if cfg.MaxAttempts <= 0 {
		cfg.MaxAttempts = 3
	}
	if cfg.BaseBackoff <= 0 {
		cfg.BaseBackoff = time.Minute
	}
	if cfg.PollTimeout <= 0 {
		cfg.PollTimeout = 5 * time.Second
	}
	return &Worker{
		queue:       queue,
		bookingRepo: bookingRepo,
		serviceRepo: serviceRepo,
		sender:      sender,
		metrics:     metrics,
		logger:      logger,
		cfg:         cfg,
		now:         time.Now,
	}
}

// Run обрабатывает задачи до отмены контекста
func (w *Worker) Run(ctx context.Context) {
	w.logger.Info("EmailWorker: started (maxAttempts=%d, backoff=%s)", w.cfg.MaxAttempts, w.cfg.BaseBackoff)

	for {
		if ctx.Err() != nil {
			w.logger.Info("EmailWorker: stopped")
			return
		}

		job, err := w.queue.Dequeue(ctx, w.cfg.PollTimeout)
		if err != nil {
			if ctx.Err() != nil {
				continue
			}
			w.logger.Error("EmailWorker: failed to dequeue job: %v", err)
			select {
			case <-ctx.Done():
			case <-time.After(time.Second):
			}
			continue
		}
		if job == nil {
			continue
		}

		w.Process(ctx, *job)
	}
}

// Process выполняет одну попытку отправки письма
func (w *Worker) Process(ctx context.Context, job domain.EmailJob) {
	// 1. Письма сброса пароля этим сервисом не отправляются
	if job.Type == domain.EmailPasswordReset {
		w.logger.Info("EmailWorker: skipping %s job id=%s", job.Type, job.ID)
		w.metrics.IncEmailJob(string(job.Type), outcomeSkipped)
		return
	}

	// 2. Загружаем бронирование
	booking, err := w.bookingRepo.GetByID(ctx, job.BookingID)
	if err != nil {
		if errors.Is(err, bookingRepo.ErrBookingNotFound) {
			w.logger.Warn("EmailWorker: booking id=%s for job id=%s not found, dropping", job.BookingID, job.ID)
			w.metrics.IncEmailJob(string(job.Type), outcomeDropped)
			return
		}
		w.logger.Error("EmailWorker: failed to load booking id=%s: %v", job.BookingID, err)
		w.retryOrFail(ctx, job)
		return
	}

	// 3. Услуга нужна только для текста письма
	service, err := w.serviceRepo.GetByID(ctx, booking.ServiceID)
	if err != nil {
		w.logger.Warn("EmailWorker: failed to load service id=%s: %v", booking.ServiceID, err)
		service = nil
	}

	// 4. Формируем письмо
	subject, body, err := mailer.Render(job.Type, booking, service)
	if err != nil {
		w.logger.Error("EmailWorker: cannot render job id=%s: %v", job.ID, err)
		w.metrics.IncEmailJob(string(job.Type), outcomeDropped)
		return
	}

	// 5. Отправляем
	if err := w.sender.Send(job.CustomerEmail, subject, body); err != nil {
		w.logger.Warn("EmailWorker: attempt %d of job id=%s failed: %v", job.Attempt+1, job.ID, err)
		w.retryOrFail(ctx, job)
		return
	}

	w.setStatus(ctx, job, domain.EmailStatusSuccess)
	w.metrics.IncEmailJob(string(job.Type), outcomeSent)
	w.logger.Info("EmailWorker: %s sent for booking id=%s", job.Type, job.BookingID)
}

// retryOrFail откладывает задачу или помечает доставку неуспешной
func (w *Worker) retryOrFail(ctx context.Context, job domain.EmailJob) {
	job.Attempt++

	if job.Attempt >= w.cfg.MaxAttempts {
		w.logger.Error("EmailWorker: job id=%s failed after %d attempts", job.ID, job.Attempt)
		w.setStatus(ctx, job, domain.EmailStatusFailed)
		w.metrics.IncEmailJob(string(job.Type), outcomeFailed)
		return
	}

	at := w.now().Add(Backoff(w.cfg.BaseBackoff, job.Attempt))
	if err := w.queue.EnqueueAt(ctx, job, at); err != nil {
		w.logger.Error("EmailWorker: failed to reschedule job id=%s: %v", job.ID, err)
		w.setStatus(ctx, job, domain.EmailStatusFailed)
		w.metrics.IncEmailJob(string(job.Type), outcomeFailed)
		return
	}

	w.setStatus(ctx, job, domain.EmailStatusRetrying)
	w.metrics.IncEmailJob(string(job.Type), outcomeRetry)
}

func (w *Worker) setStatus(ctx context.Context, job domain.EmailJob, status domain.EmailDeliveryStatus) {
	if err := w.bookingRepo.UpdateEmailStatus(ctx, job.BookingID, status); err != nil {
		w.logger.Warn("EmailWorker: failed to set email status %s for booking id=%s: %v", status, job.BookingID, err)
	}
}

// Backoff задержка перед следующей попыткой: base * 2^(attempt-1)
func Backoff(base time.Duration, attempt int) time.Duration {
	if attempt < 1 {
		attempt = 1
	}
	return base << (attempt - 1)
}
