package schedule

import "errors"

var (
	// ErrOverrideNotFound возвращается, когда исключение из расписания не найдено
	ErrOverrideNotFound = errors.New("date override not found")

	// ErrOverrideExists возвращается, когда на дату уже есть исключение
	ErrOverrideExists = errors.New("date override already exists")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("invalid input data")

	// ErrInternal возвращается при внутренних ошибках сервиса
	ErrInternal = errors.New("service: internal error")
)
