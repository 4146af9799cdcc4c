package services

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/MassageStudio-BookingService/internal/domain"
	"github.com/m04kA/MassageStudio-BookingService/internal/service/catalog"
	"github.com/m04kA/MassageStudio-BookingService/pkg/logger"
)

type fakeCatalog struct {
	services       map[uuid.UUID]*domain.Service
	lastActiveOnly bool
	createErr      error
	gotPatch       *catalog.ServicePatch
}

func newFakeCatalog(list ...*domain.Service) *fakeCatalog {
	f := &fakeCatalog{services: make(map[uuid.UUID]*domain.Service)}
	for _, s := range list {
		f.services[s.ID] = s
	}
	return f
}

func (f *fakeCatalog) List(_ context.Context, activeOnly bool) ([]*domain.Service, error) {
	f.lastActiveOnly = activeOnly
	var result []*domain.Service
	for _, s := range f.services {
		if !activeOnly || s.IsActive {
			result = append(result, s)
		}
	}
	return result, nil
}

func (f *fakeCatalog) GetByID(_ context.Context, id uuid.UUID, activeOnly bool) (*domain.Service, error) {
	s, ok := f.services[id]
	if !ok || (activeOnly && !s.IsActive) {
		return nil, catalog.ErrServiceNotFound
	}
	return s, nil
}

func (f *fakeCatalog) Create(_ context.Context, in *catalog.ServiceInput) (*domain.Service, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	return &domain.Service{ID: uuid.New(), Name: in.Name, DurationMin: in.DurationMin, PriceCents: in.PriceCents,
		DownpaymentCents: in.DownpaymentCents, IsActive: true}, nil
}

func (f *fakeCatalog) Update(_ context.Context, id uuid.UUID, patch *catalog.ServicePatch) (*domain.Service, error) {
	f.gotPatch = patch
	s, ok := f.services[id]
	if !ok {
		return nil, catalog.ErrServiceNotFound
	}
	if patch.PriceCents != nil {
		s.PriceCents = *patch.PriceCents
	}
	return s, nil
}

func newRouter(h *Handler) *mux.Router {
	r := mux.NewRouter()
	r.HandleFunc("/services", h.HandleList).Methods(http.MethodGet)
	r.HandleFunc("/services/{serviceId}", h.HandleGet).Methods(http.MethodGet)
	r.HandleFunc("/admin/services", h.HandleAdminList).Methods(http.MethodGet)
	r.HandleFunc("/admin/services", h.HandleCreate).Methods(http.MethodPost)
	r.HandleFunc("/admin/services/{serviceId}", h.HandleUpdate).Methods(http.MethodPatch)
	return r
}

func serve(h *Handler, method, path, body string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	newRouter(h).ServeHTTP(rec, httptest.NewRequest(method, path, strings.NewReader(body)))
	return rec
}

func TestPublicList_OnlyActive(t *testing.T) {
	active := &domain.Service{ID: uuid.New(), Name: "Swedish", DurationMin: 60, IsActive: true}
	hidden := &domain.Service{ID: uuid.New(), Name: "Retired", DurationMin: 30}
	svc := newFakeCatalog(active, hidden)

	rec := serve(NewHandler(svc, logger.Nop()), http.MethodGet, "/services", "")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, svc.lastActiveOnly)

	var body []ServiceResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Len(t, body, 1)
	assert.Equal(t, "Swedish", body[0].Name)
}

func TestAdminList_IncludesInactive(t *testing.T) {
	svc := newFakeCatalog(&domain.Service{ID: uuid.New(), IsActive: false})

	rec := serve(NewHandler(svc, logger.Nop()), http.MethodGet, "/admin/services", "")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.False(t, svc.lastActiveOnly)
}

func TestPublicGet_InactiveIsNotFound(t *testing.T) {
	hidden := &domain.Service{ID: uuid.New(), IsActive: false}

	rec := serve(NewHandler(newFakeCatalog(hidden), logger.Nop()), http.MethodGet, "/services/"+hidden.ID.String(), "")

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestCreate(t *testing.T) {
	body := `{"name":"Deep tissue","durationMinutes":90,"priceCents":12000,"downpaymentCents":3000}`

	rec := serve(NewHandler(newFakeCatalog(), logger.Nop()), http.MethodPost, "/admin/services", body)

	require.Equal(t, http.StatusCreated, rec.Code)
	var resp ServiceResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, 90, resp.DurationMinutes)
	assert.Equal(t, int64(3000), resp.DownpaymentCents)
}

func TestCreate_ValidationError(t *testing.T) {
	svc := newFakeCatalog()
	svc.createErr = fmt.Errorf("%w: downpayment exceeds price", catalog.ErrInvalidInput)
	body := `{"name":"Deep tissue","durationMinutes":90,"priceCents":100,"downpaymentCents":3000}`

	rec := serve(NewHandler(svc, logger.Nop()), http.MethodPost, "/admin/services", body)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestUpdate_PartialPatch(t *testing.T) {
	existing := &domain.Service{ID: uuid.New(), Name: "Swedish", PriceCents: 8000, IsActive: true}
	svc := newFakeCatalog(existing)

	rec := serve(NewHandler(svc, logger.Nop()), http.MethodPatch, "/admin/services/"+existing.ID.String(), `{"priceCents":9000}`)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Nil(t, svc.gotPatch.Name)
	assert.Equal(t, int64(9000), *svc.gotPatch.PriceCents)
	assert.Contains(t, rec.Body.String(), `"priceCents":9000`)
}

func TestUpdate_Errors(t *testing.T) {
	h := NewHandler(newFakeCatalog(), logger.Nop())

	assert.Equal(t, http.StatusBadRequest, serve(h, http.MethodPatch, "/admin/services/xyz", `{}`).Code)
	assert.Equal(t, http.StatusBadRequest, serve(h, http.MethodPatch, "/admin/services/"+uuid.NewString(), `{"unknown":1}`).Code)
	assert.Equal(t, http.StatusNotFound, serve(h, http.MethodPatch, "/admin/services/"+uuid.NewString(), `{}`).Code)
}
