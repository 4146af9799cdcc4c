package create_booking

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/MassageStudio-BookingService/internal/availability"
	"github.com/m04kA/MassageStudio-BookingService/internal/domain"
	bookingRepo "github.com/m04kA/MassageStudio-BookingService/internal/infra/storage/booking"
	serviceRepo "github.com/m04kA/MassageStudio-BookingService/internal/infra/storage/service"
	settingsRepo "github.com/m04kA/MassageStudio-BookingService/internal/infra/storage/settings"
	"github.com/m04kA/MassageStudio-BookingService/pkg/ptr"
)

// UseCase use case для создания бронирования
type UseCase struct {
	bookingRepo  BookingRepository
	serviceRepo  ServiceRepository
	settingsRepo SettingsRepository
	auditRepo    AuditRepository
	slotChecker  SlotChecker
	payments     PaymentProvider
	cache        AvailabilityCache
	lifecycle    BookingLifecycle
	txManager    TransactionManager
	metrics      Metrics
	currency     string
	timeProvider TimeProvider
	logger       Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	bookingRepo BookingRepository,
	serviceRepo ServiceRepository,
	settingsRepo SettingsRepository,
	auditRepo AuditRepository,
	slotChecker SlotChecker,
	payments PaymentProvider,
	cache AvailabilityCache,
	lifecycle BookingLifecycle,
	txManager TransactionManager,
	metrics Metrics,
	currency string,
	logger Logger,
) *UseCase {
	if currency == "" {
		currency = domain.DefaultCurrency
	}
	return &UseCase{
		bookingRepo:  bookingRepo,
		serviceRepo:  serviceRepo,
		settingsRepo: settingsRepo,
		auditRepo:    auditRepo,
		slotChecker:  slotChecker,
		payments:     payments,
		cache:        cache,
		lifecycle:    lifecycle,
		txManager:    txManager,
		metrics:      metrics,
		currency:     currency,
		timeProvider: &RealTimeProvider{},
		logger:       logger,
	}
}

// Execute выполняет use case создания бронирования.
// Проверка по движку доступности отсекает заведомо занятые и несуществующие слоты,
// но гарантию против двойного бронирования дает только блокировка в транзакции.
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("CreateBooking: service=%s, start=%s", req.ServiceID, req.StartTime.Format(time.RFC3339))

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("CreateBooking: validation failed: %v", err)
		uc.metrics.IncBookingOutcome(outcomeInvalid)
		return nil, err
	}

	// 2. Прошедшее время не бронируется
	if !req.StartTime.After(uc.timeProvider.Now()) {
		uc.logger.Warn("CreateBooking: start=%s is in the past", req.StartTime.Format(time.RFC3339))
		uc.metrics.IncBookingOutcome(outcomeInvalid)
		return nil, ErrSlotInPast
	}

	// 3. Получаем услугу
	service, err := uc.serviceRepo.GetByID(ctx, req.ServiceID)
	if err != nil {
		if errors.Is(err, serviceRepo.ErrServiceNotFound) {
			uc.logger.Warn("CreateBooking: service id=%s not found", req.ServiceID)
			uc.metrics.IncBookingOutcome(outcomeInvalid)
			return nil, ErrServiceNotFound
		}
		uc.logger.Error("CreateBooking: failed to get service id=%s: %v", req.ServiceID, err)
		uc.metrics.IncBookingOutcome(outcomeError)
		return nil, fmt.Errorf("%w: failed to get service: %v", ErrInternal, err)
	}
	if !service.IsActive {
		uc.logger.Warn("CreateBooking: service id=%s is inactive", req.ServiceID)
		uc.metrics.IncBookingOutcome(outcomeInvalid)
		return nil, ErrServiceNotFound
	}

	// 4. Предварительная проверка слота по движку доступности
	isCandidate, isAvailable, err := uc.slotChecker.CheckSlot(ctx, service, req.StartTime)
	if err != nil {
		uc.logger.Error("CreateBooking: failed to check slot: %v", err)
		uc.metrics.IncBookingOutcome(outcomeError)
		return nil, fmt.Errorf("%w: failed to check slot: %v", ErrInternal, err)
	}
	if !isCandidate {
		uc.logger.Warn("CreateBooking: start=%s is not a slot of service=%s", req.StartTime.Format(time.RFC3339), service.ID)
		uc.metrics.IncBookingOutcome(outcomeInvalid)
		return nil, ErrInvalidSlot
	}
	if !isAvailable {
		uc.logger.Warn("CreateBooking: slot %s of service=%s is not available", req.StartTime.Format(time.RFC3339), service.ID)
		uc.metrics.IncBookingOutcome(outcomeConflict)
		return nil, ErrBookingConflict
	}

	// 5. Создаем бронирование под блокировкой слота
	booking, err := uc.createWithLock(ctx, req, service)
	if err != nil {
		if errors.Is(err, ErrBookingConflict) {
			uc.metrics.IncBookingOutcome(outcomeConflict)
		} else {
			uc.metrics.IncBookingOutcome(outcomeError)
		}
		return nil, err
	}

	uc.invalidate(ctx, booking)

	response := &Response{
		BookingID:             booking.ID,
		Status:                booking.Status,
		StartTime:             booking.StartTime,
		EndTime:               booking.EndTime,
		DownpaymentCents:      service.DownpaymentCents,
		RemainingBalanceCents: booking.RemainingBalanceCents,
	}

	// 6. Без предоплаты бронирование подтверждается сразу
	if !service.RequiresDownpayment() {
		confirmed, err := uc.lifecycle.ConfirmWithoutPayment(ctx, booking.ID)
		if err != nil {
			uc.logger.Error("CreateBooking: failed to confirm booking id=%s: %v", booking.ID, err)
			uc.metrics.IncBookingOutcome(outcomeError)
			return nil, fmt.Errorf("%w: failed to confirm booking: %v", ErrInternal, err)
		}
		response.Status = domain.BookingStatus(confirmed.Status)

		uc.logger.Info("CreateBooking: booking id=%s confirmed without downpayment", booking.ID)
		uc.metrics.IncBookingOutcome(outcomeCreated)
		return response, nil
	}

	// 7. Создаем намерение оплаты предоплаты
	intent, err := uc.payments.CreatePaymentIntent(ctx, booking.ID, service.DownpaymentCents, uc.currency)
	if err != nil {
		uc.logger.Error("CreateBooking: failed to create payment intent for booking id=%s: %v", booking.ID, err)
		uc.audit(ctx, booking, nil, domain.OutcomeFailed, ptr.Ptr(err.Error()), service.DownpaymentCents)
		uc.release(ctx, booking)
		uc.metrics.IncBookingOutcome(outcomeError)
		return nil, fmt.Errorf("%w: failed to create payment intent: %v", ErrInternal, err)
	}

	// 8. Привязываем платеж к бронированию
	if err := uc.bookingRepo.AttachPaymentIntent(ctx, booking.ID, intent.ID); err != nil {
		uc.logger.Error("CreateBooking: failed to attach payment intent %s to booking id=%s: %v", intent.ID, booking.ID, err)
		uc.release(ctx, booking)
		uc.metrics.IncBookingOutcome(outcomeError)
		return nil, fmt.Errorf("%w: failed to attach payment intent: %v", ErrInternal, err)
	}
	uc.audit(ctx, booking, &intent.ID, domain.OutcomePending, nil, service.DownpaymentCents)

	response.PaymentIntentID = ptr.Ptr(intent.ID)
	response.ClientSecret = ptr.Ptr(intent.ClientSecret)

	uc.logger.Info("CreateBooking: successfully created booking id=%s, payment intent=%s", booking.ID, intent.ID)
	uc.metrics.IncBookingOutcome(outcomeCreated)
	return response, nil
}

// createWithLock вставляет бронирование в транзакции после блокировки пары (услуга, время).
// Конечное время фиксируется по буферу на момент создания.
func (uc *UseCase) createWithLock(ctx context.Context, req *Request, service *domain.Service) (*domain.Booking, error) {
	var result *domain.Booking

	err := uc.txManager.Do(ctx, func(txCtx context.Context) error {
		// 5.1. Блокируем слот и проверяем, не занят ли он
		taken, err := uc.bookingRepo.LockConflictingBooking(txCtx, service.ID, req.StartTime)
		if err != nil {
			uc.logger.Error("CreateBooking: failed to lock slot: %v", err)
			return fmt.Errorf("%w: failed to lock slot: %v", ErrInternal, err)
		}
		if taken {
			uc.logger.Warn("CreateBooking: slot %s of service=%s already booked", req.StartTime.Format(time.RFC3339), service.ID)
			return ErrBookingConflict
		}

		// 5.2. Буфер берем из актуальных настроек
		settings := domain.DefaultSettings()
		stored, err := uc.settingsRepo.Get(txCtx)
		switch {
		case err == nil:
			settings = *stored
		case !errors.Is(err, settingsRepo.ErrSettingsNotFound):
			uc.logger.Error("CreateBooking: failed to get settings: %v", err)
			return fmt.Errorf("%w: failed to get settings: %v", ErrInternal, err)
		}

		// 5.3. Создаем бронирование
		booking := &domain.Booking{
			ServiceID:             service.ID,
			CustomerName:          req.CustomerName,
			CustomerEmail:         req.CustomerEmail,
			CustomerPhone:         req.CustomerPhone,
			Notes:                 req.Notes,
			StartTime:             req.StartTime,
			EndTime:               req.StartTime.Add(time.Duration(service.DurationMin+settings.BufferMinutes) * time.Minute),
			Status:                domain.StatusPending,
			DownpaymentPaidCents:  0,
			RemainingBalanceCents: domain.RemainingBalance(service.PriceCents, service.DownpaymentCents),
		}

		created, err := uc.bookingRepo.Create(txCtx, booking)
		if err != nil {
			if errors.Is(err, bookingRepo.ErrSlotConflict) {
				uc.logger.Warn("CreateBooking: unique index rejected slot %s of service=%s", req.StartTime.Format(time.RFC3339), service.ID)
				return ErrBookingConflict
			}
			if errors.Is(err, bookingRepo.ErrServiceNotFound) {
				return ErrServiceNotFound
			}
			uc.logger.Error("CreateBooking: failed to create booking: %v", err)
			return fmt.Errorf("%w: failed to create booking: %v", ErrInternal, err)
		}

		result = created
		return nil
	})
	if err != nil {
		return nil, err
	}

	return result, nil
}

// release отменяет бронирование, для которого не удалось оформить оплату
func (uc *UseCase) release(ctx context.Context, booking *domain.Booking) {
	if err := uc.lifecycle.ReleaseSlot(ctx, booking.ID); err != nil {
		uc.logger.Error("CreateBooking: failed to release booking id=%s: %v", booking.ID, err)
		return
	}
	uc.logger.Warn("CreateBooking: booking id=%s released", booking.ID)
}

func (uc *UseCase) audit(ctx context.Context, booking *domain.Booking, intentID *string, outcome domain.AuditOutcome, errMsg *string, amount int64) {
	entry := &domain.PaymentAuditLog{
		BookingID:       booking.ID,
		Action:          domain.AuditIntentCreated,
		AmountCents:     amount,
		Outcome:         outcome,
		PaymentIntentID: intentID,
		ErrorMessage:    errMsg,
	}
	if err := uc.auditRepo.Create(ctx, entry); err != nil {
		uc.logger.Warn("CreateBooking: failed to write audit entry for booking id=%s: %v", booking.ID, err)
	}
}

func (uc *UseCase) invalidate(ctx context.Context, booking *domain.Booking) {
	if err := uc.cache.InvalidateDate(ctx, booking.ServiceID, availability.DateOnly(booking.StartTime)); err != nil {
		uc.logger.Warn("CreateBooking: failed to invalidate availability cache: %v", err)
	}
}
