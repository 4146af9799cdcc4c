package email

import "errors"

var (
	// ErrEnqueue возвращается при ошибке постановки задачи в очередь
	ErrEnqueue = errors.New("email.queue: failed to enqueue job")

	// ErrDequeue возвращается при ошибке чтения задачи из очереди
	ErrDequeue = errors.New("email.queue: failed to dequeue job")

	// ErrDecodeJob возвращается, когда задачу из очереди не удалось разобрать
	ErrDecodeJob = errors.New("email.queue: failed to decode job")
)
