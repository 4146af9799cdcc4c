package domain

// Значения настроек по умолчанию
const (
	DefaultMaxBookingsPerDay = 8
	DefaultBufferMinutes     = 15
)

// Шаг генерации слотов в минутах
const DefaultSlotGranularityMinutes = 15

// Ограничения бизнес-валидации
const (
	MinServiceDurationMin  = 5
	MaxServiceDurationMin  = 480 // 8 часов
	MaxServiceNameLength   = 255
	MaxCustomerNameLength  = 255
	MaxCustomerEmailLength = 320
	MaxCustomerPhoneLength = 32
	MaxNotesLength         = 500
	MaxBufferMinutes       = 240
	MaxBookingsPerDayLimit = 100
	MaxAvailabilityRange   = 62 // дней в одном запросе диапазона
	MaxOverrideReasonLen   = 255
)

// Форматы времени
const (
	TimeFormat = "15:04"      // HH:MM
	DateFormat = "2006-01-02" // YYYY-MM-DD
)

// DefaultCurrency валюта платежей по умолчанию
const DefaultCurrency = "usd"
