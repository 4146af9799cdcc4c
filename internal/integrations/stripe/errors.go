package stripe

import "errors"

var (
	// ErrInvalidSignature возвращается, когда подпись вебхука не прошла проверку
	ErrInvalidSignature = errors.New("stripe client: invalid webhook signature")

	// ErrInvalidPayload возвращается, когда тело события не удалось разобрать
	ErrInvalidPayload = errors.New("stripe client: invalid webhook payload")

	// ErrProvider возвращается при ошибке вызова API платежного провайдера
	ErrProvider = errors.New("stripe client: provider request failed")
)
