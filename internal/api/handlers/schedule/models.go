package schedule

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/m04kA/MassageStudio-BookingService/internal/domain"
	scheduleService "github.com/m04kA/MassageStudio-BookingService/internal/service/schedule"
	"github.com/m04kA/MassageStudio-BookingService/pkg/types"
)

// BusinessHoursDTO расписание дня недели (0 - понедельник, 6 - воскресенье), время "HH:MM"
type BusinessHoursDTO struct {
	DayOfWeek   int              `json:"dayOfWeek"`
	IsOpen      bool             `json:"isOpen"`
	OpeningTime *types.TimeOfDay `json:"openingTime,omitempty"`
	ClosingTime *types.TimeOfDay `json:"closingTime,omitempty"`
}

// UpsertBusinessHoursRequest HTTP request model
type UpsertBusinessHoursRequest struct {
	Days []BusinessHoursDTO `json:"days"`
}

// CreateOverrideRequest HTTP request model
type CreateOverrideRequest struct {
	Date            string           `json:"date"` // YYYY-MM-DD
	IsBlocked       bool             `json:"isBlocked"`
	CustomOpenTime  *types.TimeOfDay `json:"customOpenTime,omitempty"`
	CustomCloseTime *types.TimeOfDay `json:"customCloseTime,omitempty"`
	Reason          *string          `json:"reason,omitempty"`
}

// OverrideResponse HTTP response model
type OverrideResponse struct {
	ID              uuid.UUID        `json:"id"`
	Date            string           `json:"date"`
	IsBlocked       bool             `json:"isBlocked"`
	CustomOpenTime  *types.TimeOfDay `json:"customOpenTime,omitempty"`
	CustomCloseTime *types.TimeOfDay `json:"customCloseTime,omitempty"`
	Reason          *string          `json:"reason,omitempty"`
}

// SettingsDTO глобальные настройки
type SettingsDTO struct {
	MaxBookingsPerDay int `json:"maxBookingsPerDay"`
	BufferMinutes     int `json:"bufferMinutes"`
}

// UpdateSettingsRequest HTTP request model, отсутствующие поля не меняются
type UpdateSettingsRequest struct {
	MaxBookingsPerDay *int `json:"maxBookingsPerDay,omitempty"`
	BufferMinutes     *int `json:"bufferMinutes,omitempty"`
}

func (r *UpsertBusinessHoursRequest) ToServiceInputs() []scheduleService.BusinessHoursInput {
	result := make([]scheduleService.BusinessHoursInput, 0, len(r.Days))
	for _, d := range r.Days {
		result = append(result, scheduleService.BusinessHoursInput{
			DayOfWeek:   d.DayOfWeek,
			IsOpen:      d.IsOpen,
			OpeningTime: d.OpeningTime,
			ClosingTime: d.ClosingTime,
		})
	}
	return result
}

func (r *CreateOverrideRequest) ToServiceInput() (*scheduleService.OverrideInput, error) {
	date, err := time.Parse(domain.DateFormat, r.Date)
	if err != nil {
		return nil, fmt.Errorf("invalid date %q: %w", r.Date, err)
	}
	return &scheduleService.OverrideInput{
		Date:            date,
		IsBlocked:       r.IsBlocked,
		CustomOpenTime:  r.CustomOpenTime,
		CustomCloseTime: r.CustomCloseTime,
		Reason:          r.Reason,
	}, nil
}

func FromDomainBusinessHours(list []*domain.BusinessHours) []BusinessHoursDTO {
	result := make([]BusinessHoursDTO, 0, len(list))
	for _, h := range list {
		result = append(result, BusinessHoursDTO{
			DayOfWeek:   h.DayOfWeek,
			IsOpen:      h.IsOpen,
			OpeningTime: h.OpeningTime,
			ClosingTime: h.ClosingTime,
		})
	}
	return result
}

func FromDomainOverride(o *domain.DateOverride) *OverrideResponse {
	return &OverrideResponse{
		ID:              o.ID,
		Date:            o.Date.Format(domain.DateFormat),
		IsBlocked:       o.IsBlocked,
		CustomOpenTime:  o.CustomOpenTime,
		CustomCloseTime: o.CustomCloseTime,
		Reason:          o.Reason,
	}
}

func FromDomainOverrides(list []*domain.DateOverride) []*OverrideResponse {
	result := make([]*OverrideResponse, 0, len(list))
	for _, o := range list {
		result = append(result, FromDomainOverride(o))
	}
	return result
}

func FromDomainSettings(s *domain.SystemSettings) *SettingsDTO {
	return &SettingsDTO{
		MaxBookingsPerDay: s.MaxBookingsPerDay,
		BufferMinutes:     s.BufferMinutes,
	}
}
