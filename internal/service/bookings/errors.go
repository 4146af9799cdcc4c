package bookings

import "errors"

var (
	// ErrBookingNotFound возвращается, когда бронирование не найдено
	ErrBookingNotFound = errors.New("booking not found")

	// ErrAccessDenied возвращается, когда email клиента не совпадает с бронированием
	ErrAccessDenied = errors.New("access denied")

	// ErrCannotCancel возвращается, когда бронирование уже отменено или завершено
	ErrCannotCancel = errors.New("booking cannot be cancelled")

	// ErrInvalidTransition возвращается при недопустимом переходе статуса
	ErrInvalidTransition = errors.New("invalid booking status transition")

	// ErrNoPayment возвращается при попытке возврата по бронированию без платежа
	ErrNoPayment = errors.New("booking has no payment to refund")

	// ErrPaymentPending возвращается, когда провайдер еще не подтвердил оплату
	ErrPaymentPending = errors.New("payment is not completed yet")

	// ErrRefundFailed возвращается, когда провайдер отклонил возврат
	ErrRefundFailed = errors.New("refund failed")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("invalid input data")

	// ErrInternal возвращается при внутренних ошибках сервиса
	ErrInternal = errors.New("service: internal error")

	// errAlreadyProcessed сигнализирует откат транзакции для повторного события провайдера
	errAlreadyProcessed = errors.New("provider event already processed")
)
