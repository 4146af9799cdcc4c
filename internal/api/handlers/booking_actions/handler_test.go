package booking_actions

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/MassageStudio-BookingService/internal/domain"
	"github.com/m04kA/MassageStudio-BookingService/internal/service/bookings"
	"github.com/m04kA/MassageStudio-BookingService/internal/service/bookings/models"
	"github.com/m04kA/MassageStudio-BookingService/pkg/logger"
)

type fakeService struct {
	refundReq *models.RefundRequest
	err       error
}

func (f *fakeService) booking(id uuid.UUID, status string) *models.BookingResponse {
	start := time.Date(2025, 6, 2, 9, 0, 0, 0, time.UTC)
	return &models.BookingResponse{ID: id, Status: status, StartTime: start, EndTime: start.Add(time.Hour)}
}

func (f *fakeService) MarkPaid(_ context.Context, id uuid.UUID) (*models.BookingResponse, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.booking(id, "COMPLETED"), nil
}

func (f *fakeService) Refund(_ context.Context, req *models.RefundRequest) (*models.RefundResponse, error) {
	f.refundReq = req
	if f.err != nil {
		return nil, f.err
	}
	amount := int64(2000)
	if req.AmountCents != nil {
		amount = *req.AmountCents
	}
	return &models.RefundResponse{RefundID: "re_1", AmountCents: amount}, nil
}

func (f *fakeService) ResendEmail(context.Context, uuid.UUID) (domain.EmailType, error) {
	if f.err != nil {
		return "", f.err
	}
	return domain.EmailConfirmation, nil
}

func (f *fakeService) SyncPayment(_ context.Context, id uuid.UUID) (*models.BookingResponse, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.booking(id, "CONFIRMED"), nil
}

func newRouter(h *Handler) *mux.Router {
	r := mux.NewRouter()
	r.HandleFunc("/admin/bookings/{bookingId}/mark-paid", h.HandleMarkPaid)
	r.HandleFunc("/admin/bookings/{bookingId}/refund", h.HandleRefund)
	r.HandleFunc("/admin/bookings/{bookingId}/resend-email", h.HandleResendEmail)
	r.HandleFunc("/admin/bookings/{bookingId}/sync-payment", h.HandleSyncPayment)
	return r
}

func do(h *Handler, path, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(http.MethodPost, path, nil)
	} else {
		req = httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	}
	req.Header.Set("User-Agent", "admin-panel/1.0")
	req.RemoteAddr = "192.0.2.10:4321"
	rec := httptest.NewRecorder()
	newRouter(h).ServeHTTP(rec, req)
	return rec
}

func TestHandleMarkPaid(t *testing.T) {
	rec := do(NewHandler(&fakeService{}, logger.Nop()), "/admin/bookings/"+uuid.NewString()+"/mark-paid", "")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"status":"COMPLETED"`)
}

func TestHandleRefund_FullAmountByDefault(t *testing.T) {
	svc := &fakeService{}

	rec := do(NewHandler(svc, logger.Nop()), "/admin/bookings/"+uuid.NewString()+"/refund", "")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Nil(t, svc.refundReq.AmountCents)
	assert.Equal(t, "192.0.2.10", *svc.refundReq.IPAddress)
	assert.Equal(t, "admin-panel/1.0", *svc.refundReq.UserAgent)

	var body RefundResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, RefundResponse{RefundID: "re_1", AmountCents: 2000}, body)
}

func TestHandleRefund_PartialAmount(t *testing.T) {
	svc := &fakeService{}

	rec := do(NewHandler(svc, logger.Nop()), "/admin/bookings/"+uuid.NewString()+"/refund", `{"amountCents":500}`)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, int64(500), *svc.refundReq.AmountCents)
}

func TestHandleResendEmail(t *testing.T) {
	rec := do(NewHandler(&fakeService{}, logger.Nop()), "/admin/bookings/"+uuid.NewString()+"/resend-email", "")

	require.Equal(t, http.StatusAccepted, rec.Code)
	assert.Contains(t, rec.Body.String(), `"emailType":"CONFIRMATION"`)
}

func TestHandleSyncPayment(t *testing.T) {
	rec := do(NewHandler(&fakeService{}, logger.Nop()), "/admin/bookings/"+uuid.NewString()+"/sync-payment", "")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"status":"CONFIRMED"`)
}

func TestErrorMapping(t *testing.T) {
	tests := []struct {
		name       string
		action     string
		err        error
		wantStatus int
	}{
		{name: "not found", action: "mark-paid", err: bookings.ErrBookingNotFound, wantStatus: http.StatusNotFound},
		{name: "cancelled cannot be paid", action: "mark-paid", err: fmt.Errorf("%w: CANCELLED -> COMPLETED", bookings.ErrInvalidTransition), wantStatus: http.StatusConflict},
		{name: "nothing to refund", action: "refund", err: bookings.ErrNoPayment, wantStatus: http.StatusConflict},
		{name: "bad refund amount", action: "refund", err: fmt.Errorf("%w: amount", bookings.ErrInvalidInput), wantStatus: http.StatusBadRequest},
		{name: "provider rejected refund", action: "refund", err: fmt.Errorf("%w: card_declined", bookings.ErrRefundFailed), wantStatus: http.StatusBadGateway},
		{name: "payment still pending", action: "sync-payment", err: bookings.ErrPaymentPending, wantStatus: http.StatusConflict},
		{name: "queue down", action: "resend-email", err: bookings.ErrInternal, wantStatus: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(NewHandler(&fakeService{err: tt.err}, logger.Nop()), "/admin/bookings/"+uuid.NewString()+"/"+tt.action, "")
			assert.Equal(t, tt.wantStatus, rec.Code)
		})
	}
}

func TestInvalidBookingID(t *testing.T) {
	rec := do(NewHandler(&fakeService{}, logger.Nop()), "/admin/bookings/not-a-uuid/mark-paid", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
