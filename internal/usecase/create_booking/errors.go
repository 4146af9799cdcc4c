package create_booking

import "errors"

var (
	// ErrServiceNotFound возвращается, когда услуга не найдена или неактивна
	ErrServiceNotFound = errors.New("create_booking: service not found")

	// ErrBookingConflict возвращается, когда слот уже занят (в том числе проигранная гонка)
	ErrBookingConflict = errors.New("create_booking: slot is already booked")

	// ErrInvalidSlot возвращается, когда время начала не совпадает ни с одним слотом дня
	ErrInvalidSlot = errors.New("create_booking: invalid time slot")

	// ErrSlotInPast возвращается при попытке забронировать прошедшее время
	ErrSlotInPast = errors.New("create_booking: slot is in the past")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("create_booking: invalid input data")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("create_booking: internal error")
)

// Значения метрики исходов бронирования
const (
	outcomeCreated  = "created"
	outcomeConflict = "conflict"
	outcomeInvalid  = "invalid"
	outcomeError    = "error"
)
