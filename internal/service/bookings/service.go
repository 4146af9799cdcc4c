package bookings

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/m04kA/MassageStudio-BookingService/internal/domain"
	auditRepo "github.com/m04kA/MassageStudio-BookingService/internal/infra/storage/audit"
	bookingRepo "github.com/m04kA/MassageStudio-BookingService/internal/infra/storage/booking"
	"github.com/m04kA/MassageStudio-BookingService/internal/service/bookings/models"
	"github.com/m04kA/MassageStudio-BookingService/pkg/ptr"
)

// Service сервис жизненного цикла бронирований
// PENDING -> CONFIRMED -> COMPLETED, PENDING/CONFIRMED -> CANCELLED
type Service struct {
	bookingRepo  BookingRepository
	serviceRepo  ServiceRepository
	auditRepo    AuditRepository
	payments     PaymentProvider
	emailQueue   EmailQueue
	cache        AvailabilityCache
	txManager    TransactionManager
	timeProvider TimeProvider
	logger       Logger
}

// NewService создает новый экземпляр сервиса бронирований
func NewService(
	bookingRepo BookingRepository,
	serviceRepo ServiceRepository,
	auditRepo AuditRepository,
	payments PaymentProvider,
	emailQueue EmailQueue,
	cache AvailabilityCache,
	txManager TransactionManager,
	logger Logger,
) *Service {
	return &Service{
		bookingRepo:  bookingRepo,
		serviceRepo:  serviceRepo,
		auditRepo:    auditRepo,
		payments:     payments,
		emailQueue:   emailQueue,
		cache:        cache,
		txManager:    txManager,
		timeProvider: &RealTimeProvider{},
		logger:       logger,
	}
}

// GetByID получает бронирование по ID
func (s *Service) GetByID(ctx context.Context, id uuid.UUID) (*models.BookingResponse, error) {
	booking, err := s.getBooking(ctx, "GetByID", id)
	if err != nil {
		return nil, err
	}
	return models.FromDomainBooking(booking), nil
}

// List получает бронирования по фильтру админки
func (s *Service) List(ctx context.Context, req *models.ListBookingsRequest) (*models.BookingListResponse, error) {
	filter, err := req.ToDomainFilter()
	if err != nil {
		s.logger.Warn("List: invalid filter: %v", err)
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	bookings, err := s.bookingRepo.List(ctx, filter)
	if err != nil {
		s.logger.Error("List: repository error: %v", err)
		return nil, fmt.Errorf("%w: List - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("List: fetched %d bookings", len(bookings))
	return models.FromDomainBookingList(bookings), nil
}

// Today получает неотмененные бронирования на текущие сутки (UTC)
func (s *Service) Today(ctx context.Context) (*models.BookingListResponse, error) {
	from := s.timeProvider.Now().UTC().Truncate(24 * time.Hour)
	to := from.Add(24 * time.Hour)

	bookings, err := s.bookingRepo.List(ctx, domain.BookingsFilter{From: &from, To: &to})
	if err != nil {
		s.logger.Error("Today: repository error: %v", err)
		return nil, fmt.Errorf("%w: Today - repository error: %v", ErrInternal, err)
	}

	active := make([]*domain.Booking, 0, len(bookings))
	for _, b := range bookings {
		if b.IsActive() {
			active = append(active, b)
		}
	}
	return models.FromDomainBookingList(active), nil
}

// PendingActions получает подтвержденные бронирования с остатком к оплате
// и бронирования, письма по которым не удалось доставить
func (s *Service) PendingActions(ctx context.Context) (*models.PendingActionsResponse, error) {
	var unpaid, failures []*domain.Booking

	// Оба списка читаются из одной транзакции
	err := s.txManager.DoReadOnly(ctx, func(txCtx context.Context) error {
		var err error
		unpaid, err = s.bookingRepo.ListUnpaidConfirmed(txCtx)
		if err != nil {
			s.logger.Error("PendingActions: failed to list unpaid bookings: %v", err)
			return fmt.Errorf("%w: PendingActions - unpaid: %v", ErrInternal, err)
		}

		failures, err = s.bookingRepo.ListEmailFailures(txCtx)
		if err != nil {
			s.logger.Error("PendingActions: failed to list email failures: %v", err)
			return fmt.Errorf("%w: PendingActions - email failures: %v", ErrInternal, err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return models.FromDomainPendingActions(unpaid, failures), nil
}

// ConfirmPayment переводит бронирование в CONFIRMED по событию успешной оплаты.
// Идемпотентен по ID события: повтор возвращает applied=false без изменений.
func (s *Service) ConfirmPayment(ctx context.Context, evt models.PaymentEvent) (bool, error) {
	s.logger.Info("ConfirmPayment: event=%s, intent=%s", evt.EventID, evt.PaymentIntentID)

	var (
		confirmed *domain.Booking
		applied   bool
	)

	err := s.txManager.Do(ctx, func(txCtx context.Context) error {
		// 1. Проверяем маркер идемпотентности
		exists, err := s.auditRepo.ExistsForEvent(txCtx, evt.EventID, domain.AuditPaymentConfirmed)
		if err != nil {
			return fmt.Errorf("%w: check event: %v", ErrInternal, err)
		}
		if exists {
			return errAlreadyProcessed
		}

		// 2. Находим бронирование с блокировкой строки
		booking, err := s.findByPayment(txCtx, evt)
		if err != nil {
			return err
		}

		// 3. Переход PENDING -> CONFIRMED
		switch {
		case booking.Status == domain.StatusPending:
			service, err := s.serviceRepo.GetByID(txCtx, booking.ServiceID)
			if err != nil {
				return fmt.Errorf("%w: get service: %v", ErrInternal, err)
			}
			upd := bookingRepo.StateUpdate{
				Status:               domain.StatusConfirmed,
				DownpaymentPaidCents: ptr.Ptr(service.DownpaymentCents),
			}
			if err := s.bookingRepo.UpdateState(txCtx, booking.ID, upd); err != nil {
				return fmt.Errorf("%w: update state: %v", ErrInternal, err)
			}
			booking.Status = domain.StatusConfirmed
			booking.DownpaymentPaidCents = service.DownpaymentCents
			confirmed = booking

		case booking.Status == domain.StatusCancelled:
			s.logger.Warn("ConfirmPayment: payment %s received for cancelled booking id=%s, refund required",
				evt.PaymentIntentID, booking.ID)

		default:
			s.logger.Info("ConfirmPayment: booking id=%s already %s", booking.ID, booking.Status)
		}

		// 4. Записываем событие в журнал
		entry := &domain.PaymentAuditLog{
			BookingID:       booking.ID,
			Action:          domain.AuditPaymentConfirmed,
			AmountCents:     evt.AmountCents,
			Outcome:         domain.OutcomeSuccess,
			PaymentIntentID: ptr.Ptr(evt.PaymentIntentID),
			ProviderEventID: ptr.Ptr(evt.EventID),
		}
		if err := s.auditRepo.Create(txCtx, entry); err != nil {
			if errors.Is(err, auditRepo.ErrDuplicateEvent) {
				return errAlreadyProcessed
			}
			return fmt.Errorf("%w: write audit: %v", ErrInternal, err)
		}

		applied = true
		return nil
	})
	if errors.Is(err, errAlreadyProcessed) {
		s.logger.Info("ConfirmPayment: event=%s already processed", evt.EventID)
		return false, nil
	}
	if err != nil {
		if !errors.Is(err, ErrBookingNotFound) {
			s.logger.Error("ConfirmPayment: event=%s failed: %v", evt.EventID, err)
		}
		return false, err
	}

	if confirmed != nil {
		s.logger.Info("ConfirmPayment: booking id=%s confirmed", confirmed.ID)
		s.notify(ctx, confirmed, domain.EmailConfirmation)
	}
	return applied, nil
}

// RecordPaymentFailure записывает неуспешную оплату в журнал, статус не меняется
func (s *Service) RecordPaymentFailure(ctx context.Context, evt models.PaymentEvent) (bool, error) {
	s.logger.Info("RecordPaymentFailure: event=%s, intent=%s", evt.EventID, evt.PaymentIntentID)

	err := s.txManager.Do(ctx, func(txCtx context.Context) error {
		exists, err := s.auditRepo.ExistsForEvent(txCtx, evt.EventID, domain.AuditPaymentFailed)
		if err != nil {
			return fmt.Errorf("%w: check event: %v", ErrInternal, err)
		}
		if exists {
			return errAlreadyProcessed
		}

		booking, err := s.findByPayment(txCtx, evt)
		if err != nil {
			return err
		}

		entry := &domain.PaymentAuditLog{
			BookingID:       booking.ID,
			Action:          domain.AuditPaymentFailed,
			AmountCents:     evt.AmountCents,
			Outcome:         domain.OutcomeFailed,
			PaymentIntentID: ptr.Ptr(evt.PaymentIntentID),
			ProviderEventID: ptr.Ptr(evt.EventID),
			ErrorMessage:    evt.FailureMessage,
		}
		if err := s.auditRepo.Create(txCtx, entry); err != nil {
			if errors.Is(err, auditRepo.ErrDuplicateEvent) {
				return errAlreadyProcessed
			}
			return fmt.Errorf("%w: write audit: %v", ErrInternal, err)
		}
		return nil
	})
	if errors.Is(err, errAlreadyProcessed) {
		s.logger.Info("RecordPaymentFailure: event=%s already processed", evt.EventID)
		return false, nil
	}
	if err != nil {
		return false, err
	}

	s.logger.Warn("RecordPaymentFailure: payment failed for intent=%s", evt.PaymentIntentID)
	return true, nil
}

// SyncPayment сверяет статус предоплаты с провайдером для бронирования в PENDING.
// Нужен, когда вебхук потерялся: подтверждение идет тем же путем, что и по событию,
// с синтетическим ID события, поэтому повторная сверка ничего не меняет.
func (s *Service) SyncPayment(ctx context.Context, id uuid.UUID) (*models.BookingResponse, error) {
	booking, err := s.getBooking(ctx, "SyncPayment", id)
	if err != nil {
		return nil, err
	}
	if booking.PaymentIntentID == nil {
		return nil, ErrNoPayment
	}
	if booking.Status != domain.StatusPending {
		return models.FromDomainBooking(booking), nil
	}

	succeeded, err := s.payments.IsPaymentSucceeded(ctx, *booking.PaymentIntentID)
	if err != nil {
		s.logger.Error("SyncPayment: provider error for booking id=%s: %v", id, err)
		return nil, fmt.Errorf("%w: check payment: %v", ErrInternal, err)
	}
	if !succeeded {
		s.logger.Info("SyncPayment: payment for booking id=%s is not completed", id)
		return nil, ErrPaymentPending
	}

	service, err := s.serviceRepo.GetByID(ctx, booking.ServiceID)
	if err != nil {
		return nil, fmt.Errorf("%w: get service: %v", ErrInternal, err)
	}

	evt := models.PaymentEvent{
		EventID:         "sync:" + *booking.PaymentIntentID,
		PaymentIntentID: *booking.PaymentIntentID,
		AmountCents:     service.DownpaymentCents,
		BookingID:       &booking.ID,
	}
	if _, err := s.ConfirmPayment(ctx, evt); err != nil {
		return nil, err
	}

	return s.GetByID(ctx, id)
}

// ConfirmWithoutPayment подтверждает бронирование услуги без предоплаты
func (s *Service) ConfirmWithoutPayment(ctx context.Context, id uuid.UUID) (*models.BookingResponse, error) {
	var booking *domain.Booking

	err := s.txManager.Do(ctx, func(txCtx context.Context) error {
		b, err := s.getBooking(txCtx, "ConfirmWithoutPayment", id)
		if err != nil {
			return err
		}
		if !b.Status.CanTransitionTo(domain.StatusConfirmed) {
			return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, b.Status, domain.StatusConfirmed)
		}

		upd := bookingRepo.StateUpdate{Status: domain.StatusConfirmed, DownpaymentPaidCents: ptr.Ptr(int64(0))}
		if err := s.bookingRepo.UpdateState(txCtx, id, upd); err != nil {
			return fmt.Errorf("%w: update state: %v", ErrInternal, err)
		}
		b.Status = domain.StatusConfirmed
		booking = b
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("ConfirmWithoutPayment: booking id=%s confirmed", id)
	s.notify(ctx, booking, domain.EmailConfirmation)
	return models.FromDomainBooking(booking), nil
}

// Cancel отменяет бронирование
// Клиент может отменить только своё бронирование (совпадение email),
// администратор любое. Остаток к оплате обнуляется.
func (s *Service) Cancel(ctx context.Context, req *models.CancelRequest) (*models.BookingResponse, error) {
	booking, err := s.cancel(ctx, "Cancel", req)
	if err != nil {
		return nil, err
	}

	s.notify(ctx, booking, domain.EmailCancellation)
	return models.FromDomainBooking(booking), nil
}

// ReleaseSlot отменяет бронирование без уведомления клиента
// (бронирование не было оформлено до конца, например не создалось намерение оплаты)
func (s *Service) ReleaseSlot(ctx context.Context, id uuid.UUID) error {
	_, err := s.cancel(ctx, "ReleaseSlot", &models.CancelRequest{BookingID: id})
	return err
}

func (s *Service) cancel(ctx context.Context, op string, req *models.CancelRequest) (*domain.Booking, error) {
	var booking *domain.Booking

	err := s.txManager.Do(ctx, func(txCtx context.Context) error {
		b, err := s.getBooking(txCtx, op, req.BookingID)
		if err != nil {
			return err
		}

		if req.CustomerEmail != nil && !strings.EqualFold(strings.TrimSpace(*req.CustomerEmail), b.CustomerEmail) {
			s.logger.Warn("%s: email mismatch for booking id=%s", op, b.ID)
			return ErrAccessDenied
		}

		if !b.CanBeCancelled() {
			s.logger.Warn("%s: booking id=%s in status %s cannot be cancelled", op, b.ID, b.Status)
			return ErrCannotCancel
		}

		upd := bookingRepo.StateUpdate{Status: domain.StatusCancelled, RemainingBalanceCents: ptr.Ptr(int64(0))}
		if err := s.bookingRepo.UpdateState(txCtx, b.ID, upd); err != nil {
			return fmt.Errorf("%w: update state: %v", ErrInternal, err)
		}
		b.Status = domain.StatusCancelled
		b.RemainingBalanceCents = 0
		booking = b
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("%s: booking id=%s cancelled", op, booking.ID)
	s.invalidate(ctx, booking)
	return booking, nil
}

// MarkPaid отмечает полную оплату: бронирование переходит в COMPLETED, остаток обнуляется.
// Повторный вызов для COMPLETED ничего не меняет.
func (s *Service) MarkPaid(ctx context.Context, id uuid.UUID) (*models.BookingResponse, error) {
	var booking *domain.Booking

	err := s.txManager.Do(ctx, func(txCtx context.Context) error {
		b, err := s.getBooking(txCtx, "MarkPaid", id)
		if err != nil {
			return err
		}
		booking = b

		if b.Status == domain.StatusCompleted {
			return nil
		}
		if !b.Status.CanTransitionTo(domain.StatusCompleted) {
			s.logger.Warn("MarkPaid: booking id=%s in status %s", id, b.Status)
			return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, b.Status, domain.StatusCompleted)
		}

		paid := b.RemainingBalanceCents
		upd := bookingRepo.StateUpdate{Status: domain.StatusCompleted, RemainingBalanceCents: ptr.Ptr(int64(0))}
		if err := s.bookingRepo.UpdateState(txCtx, id, upd); err != nil {
			return fmt.Errorf("%w: update state: %v", ErrInternal, err)
		}

		entry := &domain.PaymentAuditLog{
			BookingID:       id,
			Action:          domain.AuditPaymentConfirmed,
			AmountCents:     paid,
			Outcome:         domain.OutcomeSuccess,
			PaymentIntentID: b.PaymentIntentID,
		}
		if err := s.auditRepo.Create(txCtx, entry); err != nil {
			return fmt.Errorf("%w: write audit: %v", ErrInternal, err)
		}

		b.Status = domain.StatusCompleted
		b.RemainingBalanceCents = 0
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("MarkPaid: booking id=%s completed", id)
	return models.FromDomainBooking(booking), nil
}

// Refund возвращает предоплату через платежного провайдера.
// Статус бронирования не меняется, результат фиксируется в журнале.
func (s *Service) Refund(ctx context.Context, req *models.RefundRequest) (*models.RefundResponse, error) {
	booking, err := s.getBooking(ctx, "Refund", req.BookingID)
	if err != nil {
		return nil, err
	}

	if booking.PaymentIntentID == nil || booking.DownpaymentPaidCents == 0 {
		s.logger.Warn("Refund: booking id=%s has no captured payment", booking.ID)
		return nil, ErrNoPayment
	}

	amount := booking.DownpaymentPaidCents
	if req.AmountCents != nil {
		amount = *req.AmountCents
	}
	if amount <= 0 || amount > booking.DownpaymentPaidCents {
		return nil, fmt.Errorf("%w: refund amount must be in 1..%d", ErrInvalidInput, booking.DownpaymentPaidCents)
	}

	entry := &domain.PaymentAuditLog{
		BookingID:       booking.ID,
		AmountCents:     amount,
		PaymentIntentID: booking.PaymentIntentID,
		IPAddress:       req.IPAddress,
		UserAgent:       req.UserAgent,
	}

	refundID, refundErr := s.payments.Refund(ctx, *booking.PaymentIntentID, ptr.Ptr(amount))
	if refundErr != nil {
		entry.Action = domain.AuditRefundFailed
		entry.Outcome = domain.OutcomeFailed
		entry.ErrorMessage = ptr.Ptr(refundErr.Error())
	} else {
		entry.Action = domain.AuditRefundIssued
		entry.Outcome = domain.OutcomeSuccess
	}

	if err := s.auditRepo.Create(ctx, entry); err != nil {
		s.logger.Error("Refund: failed to write audit for booking id=%s: %v", booking.ID, err)
		if refundErr == nil {
			return nil, fmt.Errorf("%w: refund %s issued but audit failed: %v", ErrInternal, refundID, err)
		}
	}

	if refundErr != nil {
		s.logger.Error("Refund: provider rejected refund for booking id=%s: %v", booking.ID, refundErr)
		return nil, fmt.Errorf("%w: %v", ErrRefundFailed, refundErr)
	}

	s.logger.Info("Refund: refund %s of %d issued for booking id=%s", refundID, amount, booking.ID)
	s.notify(ctx, booking, domain.EmailRefundNotification)
	return &models.RefundResponse{RefundID: refundID, AmountCents: amount}, nil
}

// ResendEmail повторно ставит в очередь последнее актуальное письмо по бронированию
func (s *Service) ResendEmail(ctx context.Context, id uuid.UUID) (domain.EmailType, error) {
	booking, err := s.getBooking(ctx, "ResendEmail", id)
	if err != nil {
		return "", err
	}

	emailType := domain.EmailConfirmation
	if booking.Status == domain.StatusCancelled {
		emailType = domain.EmailCancellation
	}

	job := domain.NewEmailJob(booking.ID, booking.CustomerEmail, emailType)
	if err := s.emailQueue.Enqueue(ctx, job); err != nil {
		s.logger.Error("ResendEmail: failed to enqueue %s for booking id=%s: %v", emailType, id, err)
		return "", fmt.Errorf("%w: enqueue email: %v", ErrInternal, err)
	}

	s.logger.Info("ResendEmail: %s queued for booking id=%s", emailType, id)
	return emailType, nil
}

func (s *Service) getBooking(ctx context.Context, op string, id uuid.UUID) (*domain.Booking, error) {
	booking, err := s.bookingRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, bookingRepo.ErrBookingNotFound) {
			s.logger.Warn("%s: booking id=%s not found", op, id)
			return nil, ErrBookingNotFound
		}
		s.logger.Error("%s: repository error for booking id=%s: %v", op, id, err)
		return nil, fmt.Errorf("%w: %s - repository error: %v", ErrInternal, op, err)
	}
	return booking, nil
}

// findByPayment ищет бронирование по намерению оплаты, затем по ID из метаданных
func (s *Service) findByPayment(ctx context.Context, evt models.PaymentEvent) (*domain.Booking, error) {
	booking, err := s.bookingRepo.GetByPaymentIntentID(ctx, evt.PaymentIntentID)
	if err == nil {
		return booking, nil
	}
	if !errors.Is(err, bookingRepo.ErrBookingNotFound) {
		return nil, fmt.Errorf("%w: find by payment intent: %v", ErrInternal, err)
	}

	if evt.BookingID != nil {
		booking, err = s.bookingRepo.GetByID(ctx, *evt.BookingID)
		if err == nil {
			return booking, nil
		}
		if !errors.Is(err, bookingRepo.ErrBookingNotFound) {
			return nil, fmt.Errorf("%w: find by booking id: %v", ErrInternal, err)
		}
	}

	s.logger.Warn("findByPayment: no booking for intent=%s", evt.PaymentIntentID)
	return nil, ErrBookingNotFound
}

// notify ставит письмо в очередь; ошибка очереди не отменяет изменение бронирования
func (s *Service) notify(ctx context.Context, booking *domain.Booking, emailType domain.EmailType) {
	job := domain.NewEmailJob(booking.ID, booking.CustomerEmail, emailType)
	if err := s.emailQueue.Enqueue(ctx, job); err != nil {
		s.logger.Error("notify: failed to enqueue %s for booking id=%s: %v", emailType, booking.ID, err)
	}
}

func (s *Service) invalidate(ctx context.Context, booking *domain.Booking) {
	if err := s.cache.InvalidateDate(ctx, booking.ServiceID, booking.StartTime.UTC()); err != nil {
		s.logger.Warn("invalidate: failed to drop availability cache for service=%s: %v", booking.ServiceID, err)
	}
}
