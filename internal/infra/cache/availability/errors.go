package availability

import "errors"

var (
	// ErrCacheRead возвращается при ошибке чтения из Redis
	ErrCacheRead = errors.New("availability.cache: failed to read")

	// ErrCacheWrite возвращается при ошибке записи в Redis
	ErrCacheWrite = errors.New("availability.cache: failed to write")

	// ErrCacheInvalidate возвращается при ошибке удаления ключей
	ErrCacheInvalidate = errors.New("availability.cache: failed to invalidate")
)
