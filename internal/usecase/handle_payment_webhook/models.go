package handle_payment_webhook

// Request входящий вебхук
type Request struct {
	Token     string // токен из пути URL
	Payload   []byte
	Signature string
}

// Response результат обработки
type Response struct {
	EventID   string
	EventType string
	// Applied false для повторных, неизвестных и не относящихся к бронированиям событий
	Applied bool
}
