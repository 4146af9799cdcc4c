package bookings

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/m04kA/MassageStudio-BookingService/internal/domain"
	auditRepo "github.com/m04kA/MassageStudio-BookingService/internal/infra/storage/audit"
	bookingRepo "github.com/m04kA/MassageStudio-BookingService/internal/infra/storage/booking"
	serviceRepo "github.com/m04kA/MassageStudio-BookingService/internal/infra/storage/service"
)

type fakeBookingRepo struct {
	mu       sync.Mutex
	bookings map[uuid.UUID]*domain.Booking
	listed   []domain.BookingsFilter
}

func newFakeBookingRepo(bookings ...*domain.Booking) *fakeBookingRepo {
	r := &fakeBookingRepo{bookings: make(map[uuid.UUID]*domain.Booking)}
	for _, b := range bookings {
		r.bookings[b.ID] = b
	}
	return r
}

func (r *fakeBookingRepo) GetByID(_ context.Context, id uuid.UUID) (*domain.Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	b, ok := r.bookings[id]
	if !ok {
		return nil, bookingRepo.ErrBookingNotFound
	}
	cp := *b
	return &cp, nil
}

func (r *fakeBookingRepo) GetByPaymentIntentID(_ context.Context, intentID string) (*domain.Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, b := range r.bookings {
		if b.PaymentIntentID != nil && *b.PaymentIntentID == intentID {
			cp := *b
			return &cp, nil
		}
	}
	return nil, bookingRepo.ErrBookingNotFound
}

func (r *fakeBookingRepo) List(_ context.Context, filter domain.BookingsFilter) ([]*domain.Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.listed = append(r.listed, filter)
	result := make([]*domain.Booking, 0)
	for _, b := range r.bookings {
		if filter.From != nil && b.StartTime.Before(*filter.From) {
			continue
		}
		if filter.To != nil && !b.StartTime.Before(*filter.To) {
			continue
		}
		cp := *b
		result = append(result, &cp)
	}
	return result, nil
}

func (r *fakeBookingRepo) ListUnpaidConfirmed(context.Context) ([]*domain.Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	result := make([]*domain.Booking, 0)
	for _, b := range r.bookings {
		if b.Status == domain.StatusConfirmed && b.RemainingBalanceCents > 0 {
			result = append(result, b)
		}
	}
	return result, nil
}

func (r *fakeBookingRepo) ListEmailFailures(context.Context) ([]*domain.Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	result := make([]*domain.Booking, 0)
	for _, b := range r.bookings {
		if b.EmailDeliveryStatus != nil && *b.EmailDeliveryStatus == domain.EmailStatusFailed {
			result = append(result, b)
		}
	}
	return result, nil
}

func (r *fakeBookingRepo) UpdateState(_ context.Context, id uuid.UUID, upd bookingRepo.StateUpdate) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	b, ok := r.bookings[id]
	if !ok {
		return bookingRepo.ErrBookingNotFound
	}
	b.Status = upd.Status
	if upd.DownpaymentPaidCents != nil {
		b.DownpaymentPaidCents = *upd.DownpaymentPaidCents
	}
	if upd.RemainingBalanceCents != nil {
		b.RemainingBalanceCents = *upd.RemainingBalanceCents
	}
	return nil
}

func (r *fakeBookingRepo) get(id uuid.UUID) domain.Booking {
	r.mu.Lock()
	defer r.mu.Unlock()
	return *r.bookings[id]
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

type auditKey struct {
	event  string
	action domain.AuditAction
}

type fakeAuditRepo struct {
	mu      sync.Mutex
	entries []*domain.PaymentAuditLog
	events  map[auditKey]bool
}

func newFakeAuditRepo() *fakeAuditRepo {
	return &fakeAuditRepo{events: make(map[auditKey]bool)}
}

func (r *fakeAuditRepo) Create(_ context.Context, entry *domain.PaymentAuditLog) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if entry.ProviderEventID != nil {
		key := auditKey{*entry.ProviderEventID, entry.Action}
		if r.events[key] {
			return auditRepo.ErrDuplicateEvent
		}
		r.events[key] = true
	}
	r.entries = append(r.entries, entry)
	return nil
}

func (r *fakeAuditRepo) ExistsForEvent(_ context.Context, eventID string, action domain.AuditAction) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.events[auditKey{eventID, action}], nil
}

func (r *fakeAuditRepo) byAction(action domain.AuditAction) []*domain.PaymentAuditLog {
	r.mu.Lock()
	defer r.mu.Unlock()
	var result []*domain.PaymentAuditLog
	for _, e := range r.entries {
		if e.Action == action {
			result = append(result, e)
		}
	}
	return result
}

type fakePayments struct {
	refundErr error
	refunds   []int64
	succeeded bool
}

func (p *fakePayments) IsPaymentSucceeded(context.Context, string) (bool, error) {
	return p.succeeded, nil
}

func (p *fakePayments) Refund(_ context.Context, _ string, amount *int64) (string, error) {
	if p.refundErr != nil {
		return "", p.refundErr
	}
	p.refunds = append(p.refunds, *amount)
	return "re_123", nil
}

type fakeQueue struct {
	mu   sync.Mutex
	jobs []domain.EmailJob
	err  error
}

func (q *fakeQueue) Enqueue(_ context.Context, job domain.EmailJob) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.err != nil {
		return q.err
	}
	q.jobs = append(q.jobs, job)
	return nil
}

type fakeCache struct {
	invalidated []time.Time
}

func (c *fakeCache) InvalidateDate(_ context.Context, _ uuid.UUID, date time.Time) error {
	c.invalidated = append(c.invalidated, date)
	return nil
}

// fakeTx выполняет функцию без транзакции
type fakeTx struct{}

func (fakeTx) DoReadOnly(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

func (fakeTx) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type fixedTime struct{ now time.Time }

func (f fixedTime) Now() time.Time { return f.now }

var errProvider = errors.New("card_declined")
