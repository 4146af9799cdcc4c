package catalog

import "errors"

var (
	// ErrServiceNotFound возвращается, когда услуга не найдена или неактивна для клиента
	ErrServiceNotFound = errors.New("service not found")

	// ErrInvalidInput возвращается при некорректных данных услуги
	ErrInvalidInput = errors.New("invalid input data")

	// ErrInternal возвращается при внутренних ошибках сервиса
	ErrInternal = errors.New("catalog: internal error")
)
