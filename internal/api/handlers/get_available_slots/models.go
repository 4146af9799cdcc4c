package get_available_slots

import (
	"time"

	"github.com/m04kA/MassageStudio-BookingService/internal/domain"
	getAvailableSlots "github.com/m04kA/MassageStudio-BookingService/internal/usecase/get_available_slots"
)

// SlotResponse свободный слот
type SlotResponse struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

// AvailableSlotsResponse HTTP response model
type AvailableSlotsResponse struct {
	ServiceID string         `json:"serviceId"`
	Date      string         `json:"date"`
	Slots     []SlotResponse `json:"slots"`
}

// AvailableDatesResponse HTTP response model для диапазона
type AvailableDatesResponse struct {
	ServiceID string   `json:"serviceId"`
	StartDate string   `json:"startDate"`
	EndDate   string   `json:"endDate"`
	Dates     []string `json:"dates"`
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *getAvailableSlots.Response) *AvailableSlotsResponse {
	slots := make([]SlotResponse, 0, len(resp.Slots))
	for _, s := range resp.Slots {
		slots = append(slots, SlotResponse{
			Start: s.Start.UTC().Format(time.RFC3339),
			End:   s.End.UTC().Format(time.RFC3339),
		})
	}

	return &AvailableSlotsResponse{
		ServiceID: resp.ServiceID.String(),
		Date:      resp.Date.Format(domain.DateFormat),
		Slots:     slots,
	}
}

// FromUseCaseRangeResponse конвертирует ответ по диапазону в HTTP response
func FromUseCaseRangeResponse(resp *getAvailableSlots.RangeResponse) *AvailableDatesResponse {
	dates := make([]string, 0, len(resp.Dates))
	for _, d := range resp.Dates {
		dates = append(dates, d.Format(domain.DateFormat))
	}

	return &AvailableDatesResponse{
		ServiceID: resp.ServiceID.String(),
		StartDate: resp.StartDate.Format(domain.DateFormat),
		EndDate:   resp.EndDate.Format(domain.DateFormat),
		Dates:     dates,
	}
}
