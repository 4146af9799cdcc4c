package dashboard

import (
	"github.com/m04kA/MassageStudio-BookingService/internal/api/handlers"
	"github.com/m04kA/MassageStudio-BookingService/internal/service/bookings/models"
)

// TodayResponse бронирования на сегодня
type TodayResponse struct {
	Bookings []*handlers.BookingResponse `json:"bookings"`
	Total    int                         `json:"total"`
}

// PendingActionsResponse бронирования, требующие внимания
type PendingActionsResponse struct {
	UnpaidBalances []*handlers.BookingResponse `json:"unpaidBalances"`
	EmailFailures  []*handlers.BookingResponse `json:"emailFailures"`
}

func FromTodayResponse(resp *models.BookingListResponse) *TodayResponse {
	return &TodayResponse{
		Bookings: handlers.FromBookingResponses(resp.Bookings),
		Total:    resp.Total,
	}
}

func FromPendingActionsResponse(resp *models.PendingActionsResponse) *PendingActionsResponse {
	return &PendingActionsResponse{
		UnpaidBalances: handlers.FromBookingResponses(resp.UnpaidBalances),
		EmailFailures:  handlers.FromBookingResponses(resp.EmailFailures),
	}
}
