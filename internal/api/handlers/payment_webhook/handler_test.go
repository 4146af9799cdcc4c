package payment_webhook

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	handleWebhook "github.com/m04kA/MassageStudio-BookingService/internal/usecase/handle_payment_webhook"
	"github.com/m04kA/MassageStudio-BookingService/pkg/logger"
)

type fakeUseCase struct {
	got *handleWebhook.Request
	err error
}

func (f *fakeUseCase) Execute(_ context.Context, req *handleWebhook.Request) (*handleWebhook.Response, error) {
	f.got = req
	if f.err != nil {
		return nil, f.err
	}
	return &handleWebhook.Response{EventID: "evt_1", EventType: "payment_intent.succeeded", Applied: true}, nil
}

func serve(uc *fakeUseCase, token, signature, body string) *httptest.ResponseRecorder {
	r := mux.NewRouter()
	r.HandleFunc("/webhooks/stripe/{token}", NewHandler(uc, logger.Nop()).Handle).Methods(http.MethodPost)

	req := httptest.NewRequest(http.MethodPost, "/webhooks/stripe/"+token, strings.NewReader(body))
	if signature != "" {
		req.Header.Set(signatureHeader, signature)
	}
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func TestHandle_PassesRawPayload(t *testing.T) {
	uc := &fakeUseCase{}
	body := `{"id":"evt_1",  "type":"payment_intent.succeeded"}`

	rec := serve(uc, "secret-token", "t=1,v1=abc", body)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "secret-token", uc.got.Token)
	assert.Equal(t, "t=1,v1=abc", uc.got.Signature)
	assert.Equal(t, body, string(uc.got.Payload))
	assert.JSONEq(t, `{"received":true,"applied":true}`, rec.Body.String())
}

func TestHandle_Errors(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
	}{
		{name: "token mismatch", err: handleWebhook.ErrInvalidToken, wantStatus: http.StatusUnauthorized},
		{name: "missing signature", err: handleWebhook.ErrMissingSignature, wantStatus: http.StatusBadRequest},
		{name: "bad signature", err: handleWebhook.ErrInvalidSignature, wantStatus: http.StatusBadRequest},
		{name: "bad payload", err: handleWebhook.ErrInvalidPayload, wantStatus: http.StatusBadRequest},
		{name: "transient failure", err: handleWebhook.ErrInternal, wantStatus: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := serve(&fakeUseCase{err: tt.err}, "tok", "sig", `{}`)
			assert.Equal(t, tt.wantStatus, rec.Code)
		})
	}
}

func TestHandle_PayloadTooLarge(t *testing.T) {
	uc := &fakeUseCase{}
	body := `{"id":"evt_1","pad":"` + strings.Repeat("x", maxPayloadBytes) + `"}`

	rec := serve(uc, "secret-token", "t=1,v1=abc", body)

	assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
	assert.Nil(t, uc.got)
}

func TestHandle_PayloadAtLimit(t *testing.T) {
	uc := &fakeUseCase{}
	body := strings.Repeat("x", maxPayloadBytes)

	rec := serve(uc, "secret-token", "t=1,v1=abc", body)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, uc.got.Payload, maxPayloadBytes)
}
