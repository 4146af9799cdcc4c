package catalog

// ServiceInput данные для создания услуги
type ServiceInput struct {
	Name             string
	Description      *string
	DurationMin      int
	PriceCents       int64
	DownpaymentCents int64
	IsActive         *bool // по умолчанию true
}

// ServicePatch частичное обновление услуги, nil-поля не меняются
type ServicePatch struct {
	Name             *string
	Description      *string
	DurationMin      *int
	PriceCents       *int64
	DownpaymentCents *int64
	IsActive         *bool
}
