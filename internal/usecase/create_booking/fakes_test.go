package create_booking

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/m04kA/MassageStudio-BookingService/internal/domain"
	bookingRepo "github.com/m04kA/MassageStudio-BookingService/internal/infra/storage/booking"
	serviceRepo "github.com/m04kA/MassageStudio-BookingService/internal/infra/storage/service"
	settingsRepo "github.com/m04kA/MassageStudio-BookingService/internal/infra/storage/settings"
	"github.com/m04kA/MassageStudio-BookingService/internal/integrations/stripe"
	"github.com/m04kA/MassageStudio-BookingService/internal/service/bookings/models"
)

// fakeBookingRepo хранит бронирования в памяти.
// skipLockCheck имитирует гонку, которую ловит только уникальный индекс.
type fakeBookingRepo struct {
	mu            sync.Mutex
	bookings      map[uuid.UUID]*domain.Booking
	skipLockCheck bool
}

func newFakeBookingRepo() *fakeBookingRepo {
	return &fakeBookingRepo{bookings: make(map[uuid.UUID]*domain.Booking)}
}

func (r *fakeBookingRepo) LockConflictingBooking(_ context.Context, serviceID uuid.UUID, start time.Time) (bool, error) {
	if r.skipLockCheck {
		return false, nil
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.takenLocked(serviceID, start), nil
}

func (r *fakeBookingRepo) takenLocked(serviceID uuid.UUID, start time.Time) bool {
	for _, b := range r.bookings {
		if b.ServiceID == serviceID && b.StartTime.Equal(start) && b.Status != domain.StatusCancelled {
			return true
		}
	}
	return false
}

func (r *fakeBookingRepo) Create(_ context.Context, b *domain.Booking) (*domain.Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.takenLocked(b.ServiceID, b.StartTime) {
		return nil, bookingRepo.ErrSlotConflict
	}
	b.ID = uuid.New()
	cp := *b
	r.bookings[b.ID] = &cp
	return b, nil
}

func (r *fakeBookingRepo) setStatus(id uuid.UUID, status domain.BookingStatus) (*domain.Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	b, ok := r.bookings[id]
	if !ok {
		return nil, bookingRepo.ErrBookingNotFound
	}
	b.Status = status
	if status == domain.StatusCancelled {
		b.RemainingBalanceCents = 0
	}
	return b, nil
}

func (r *fakeBookingRepo) AttachPaymentIntent(_ context.Context, id uuid.UUID, intentID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	b, ok := r.bookings[id]
	if !ok {
		return bookingRepo.ErrBookingNotFound
	}
	b.PaymentIntentID = &intentID
	return nil
}

func (r *fakeBookingRepo) get(id uuid.UUID) *domain.Booking {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.bookings[id]
}

type fakeServiceRepo struct {
	services map[uuid.UUID]*domain.Service
}

func (r *fakeServiceRepo) GetByID(_ context.Context, id uuid.UUID) (*domain.Service, error) {
	s, ok := r.services[id]
	if !ok {
		return nil, serviceRepo.ErrServiceNotFound
	}
	return s, nil
}

type fakeSettingsRepo struct {
	settings *domain.SystemSettings
}

func (r *fakeSettingsRepo) Get(context.Context) (*domain.SystemSettings, error) {
	if r.settings == nil {
		return nil, settingsRepo.ErrSettingsNotFound
	}
	return r.settings, nil
}

type fakeAuditRepo struct {
	mu      sync.Mutex
	entries []*domain.PaymentAuditLog
}

func (r *fakeAuditRepo) Create(_ context.Context, e *domain.PaymentAuditLog) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries = append(r.entries, e)
	return nil
}

type fakeSlotChecker struct {
	isCandidate bool
	isAvailable bool
}

func (c fakeSlotChecker) CheckSlot(context.Context, *domain.Service, time.Time) (bool, bool, error) {
	return c.isCandidate, c.isAvailable, nil
}

type fakePayments struct {
	mu     sync.Mutex
	fail   bool
	calls  int
	amount int64
}

func (p *fakePayments) CreatePaymentIntent(_ context.Context, bookingID uuid.UUID, amount int64, _ string) (*stripe.PaymentIntent, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.calls++
	p.amount = amount
	if p.fail {
		return nil, errors.New("card network unavailable")
	}
	return &stripe.PaymentIntent{ID: "pi_" + bookingID.String(), ClientSecret: "secret_" + bookingID.String()}, nil
}

type fakeCache struct {
	mu          sync.Mutex
	invalidated int
}

func (c *fakeCache) InvalidateDate(context.Context, uuid.UUID, time.Time) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.invalidated++
	return nil
}

// fakeLifecycle меняет статусы прямо в fakeBookingRepo
type fakeLifecycle struct {
	repo      *fakeBookingRepo
	confirmed int
	released  int
}

func (l *fakeLifecycle) ConfirmWithoutPayment(_ context.Context, id uuid.UUID) (*models.BookingResponse, error) {
	b, err := l.repo.setStatus(id, domain.StatusConfirmed)
	if err != nil {
		return nil, err
	}
	l.confirmed++
	return &models.BookingResponse{ID: b.ID, Status: string(b.Status)}, nil
}

func (l *fakeLifecycle) ReleaseSlot(_ context.Context, id uuid.UUID) error {
	if _, err := l.repo.setStatus(id, domain.StatusCancelled); err != nil {
		return err
	}
	l.released++
	return nil
}

// lockingTx сериализует транзакции так же, как advisory-блокировка в Postgres
type lockingTx struct {
	mu sync.Mutex
}

func (tx *lockingTx) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	tx.mu.Lock()
	defer tx.mu.Unlock()
	return fn(ctx)
}

type countingMetrics struct {
	mu       sync.Mutex
	outcomes map[string]int
}

func (m *countingMetrics) IncBookingOutcome(outcome string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.outcomes == nil {
		m.outcomes = make(map[string]int)
	}
	m.outcomes[outcome]++
}

type fixedTime struct{ now time.Time }

func (f fixedTime) Now() time.Time { return f.now }
