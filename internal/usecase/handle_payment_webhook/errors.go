package handle_payment_webhook

import "errors"

var (
	// ErrInvalidToken возвращается, когда токен в URL вебхука не совпал
	ErrInvalidToken = errors.New("handle_payment_webhook: invalid webhook token")

	// ErrMissingSignature возвращается, когда нет заголовка подписи
	ErrMissingSignature = errors.New("handle_payment_webhook: missing signature")

	// ErrInvalidSignature возвращается, когда подпись не прошла проверку
	ErrInvalidSignature = errors.New("handle_payment_webhook: invalid signature")

	// ErrInvalidPayload возвращается, когда событие не удалось разобрать
	ErrInvalidPayload = errors.New("handle_payment_webhook: invalid payload")

	// ErrInternal возвращается при внутренних ошибках usecase, провайдер повторит доставку
	ErrInternal = errors.New("handle_payment_webhook: internal error")
)
