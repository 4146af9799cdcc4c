package get_bookings

import (
	"net/http"

	"github.com/m04kA/MassageStudio-BookingService/internal/api/handlers"
	"github.com/m04kA/MassageStudio-BookingService/internal/service/bookings/models"
)

const (
	defaultLimit = 50
	maxLimit     = 200
)

// BookingListResponse HTTP response model
type BookingListResponse struct {
	Bookings []*handlers.BookingResponse `json:"bookings"`
	Total    int                         `json:"total"`
}

// ToServiceRequest собирает фильтр из query параметров:
// status, startDate, endDate, search, limit, offset
func ToServiceRequest(r *http.Request) (*models.ListBookingsRequest, error) {
	startDate, err := handlers.QueryDate(r, "startDate")
	if err != nil {
		return nil, err
	}
	endDate, err := handlers.QueryDate(r, "endDate")
	if err != nil {
		return nil, err
	}

	limit, err := handlers.QueryInt(r, "limit", defaultLimit)
	if err != nil {
		return nil, err
	}
	if limit == 0 || limit > maxLimit {
		limit = maxLimit
	}
	offset, err := handlers.QueryInt(r, "offset", 0)
	if err != nil {
		return nil, err
	}

	return &models.ListBookingsRequest{
		Status:    handlers.QueryString(r, "status"),
		StartDate: startDate,
		EndDate:   endDate,
		Search:    handlers.QueryString(r, "search"),
		Limit:     limit,
		Offset:    offset,
	}, nil
}

// FromServiceResponse конвертирует ответ сервиса
func FromServiceResponse(resp *models.BookingListResponse) *BookingListResponse {
	return &BookingListResponse{
		Bookings: handlers.FromBookingResponses(resp.Bookings),
		Total:    resp.Total,
	}
}
