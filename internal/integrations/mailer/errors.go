package mailer

import "errors"

var (
	// ErrSend возвращается, когда SMTP сервер не принял письмо
	ErrSend = errors.New("mailer: failed to send email")

	// ErrUnsupportedType возвращается для типов писем без шаблона
	ErrUnsupportedType = errors.New("mailer: unsupported email type")
)
