package audit

import "errors"

var (
	// ErrDuplicateEvent возвращается, когда событие провайдера с этим действием уже записано
	ErrDuplicateEvent = errors.New("audit.repository: provider event already recorded")

	// ErrBuildQuery возвращается при ошибке построения SQL запроса
	ErrBuildQuery = errors.New("audit.repository: failed to build query")

	// ErrExecQuery возвращается при ошибке выполнения SQL запроса
	ErrExecQuery = errors.New("audit.repository: failed to execute query")

	// ErrScanRow возвращается при ошибке сканирования результата запроса
	ErrScanRow = errors.New("audit.repository: failed to scan row")
)
