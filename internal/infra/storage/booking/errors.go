package booking

import "errors"

var (
	// ErrBookingNotFound возвращается, когда бронирование не найдено
	ErrBookingNotFound = errors.New("booking.repository: booking not found")

	// ErrSlotConflict возвращается, когда слот уже занят неотмененным бронированием
	ErrSlotConflict = errors.New("booking.repository: slot already booked")

	// ErrTransaction возвращается, когда операция требует транзакцию, а её нет
	ErrTransaction = errors.New("booking.repository: transaction required")

	// ErrBuildQuery возвращается при ошибке построения SQL запроса
	ErrBuildQuery = errors.New("booking.repository: failed to build query")

	// ErrExecQuery возвращается при ошибке выполнения SQL запроса
	ErrExecQuery = errors.New("booking.repository: failed to execute query")

	// ErrScanRow возвращается при ошибке сканирования результата запроса
	ErrScanRow = errors.New("booking.repository: failed to scan row")

	// ErrServiceNotFound возвращается, когда бронирование ссылается на несуществующую услугу
	ErrServiceNotFound = errors.New("booking.repository: service not found")
)
