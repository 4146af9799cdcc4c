package schedule

import "errors"

var (
	// ErrOverrideNotFound возвращается, когда исключение из расписания не найдено
	ErrOverrideNotFound = errors.New("schedule.repository: date override not found")

	// ErrOverrideExists возвращается при попытке создать второе исключение на ту же дату
	ErrOverrideExists = errors.New("schedule.repository: date override already exists")

	// ErrBuildQuery возвращается при ошибке построения SQL запроса
	ErrBuildQuery = errors.New("schedule.repository: failed to build query")

	// ErrExecQuery возвращается при ошибке выполнения SQL запроса
	ErrExecQuery = errors.New("schedule.repository: failed to execute query")

	// ErrScanRow возвращается при ошибке сканирования результата запроса
	ErrScanRow = errors.New("schedule.repository: failed to scan row")
)
