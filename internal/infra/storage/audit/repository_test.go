package audit

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/MassageStudio-BookingService/internal/domain"
	"github.com/m04kA/MassageStudio-BookingService/pkg/ptr"
)

func newRepo(t *testing.T) (*Repository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return NewRepository(db), mock
}

func TestCreate_AssignsIDAndTimestamp(t *testing.T) {
	repo, mock := newRepo(t)
	created := time.Date(2025, 6, 2, 9, 0, 0, 0, time.UTC)

	mock.ExpectQuery(`INSERT INTO payment_audit_logs .+ RETURNING created_at`).
		WillReturnRows(sqlmock.NewRows([]string{"created_at"}).AddRow(created))

	entry := &domain.PaymentAuditLog{
		BookingID:       uuid.New(),
		Action:          domain.AuditPaymentConfirmed,
		AmountCents:     2000,
		Outcome:         domain.OutcomeSuccess,
		PaymentIntentID: ptr.Ptr("pi_123"),
		ProviderEventID: ptr.Ptr("evt_123"),
	}
	require.NoError(t, repo.Create(context.Background(), entry))

	assert.NotEqual(t, uuid.Nil, entry.ID)
	assert.Equal(t, created, entry.CreatedAt)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreate_DuplicateEvent(t *testing.T) {
	repo, mock := newRepo(t)

	mock.ExpectQuery(`INSERT INTO payment_audit_logs`).
		WillReturnError(&pq.Error{Code: "23505"})

	err := repo.Create(context.Background(), &domain.PaymentAuditLog{
		BookingID:       uuid.New(),
		Action:          domain.AuditPaymentConfirmed,
		Outcome:         domain.OutcomeSuccess,
		ProviderEventID: ptr.Ptr("evt_123"),
	})

	assert.ErrorIs(t, err, ErrDuplicateEvent)
}

func TestExistsForEvent(t *testing.T) {
	repo, mock := newRepo(t)

	mock.ExpectQuery(`SELECT EXISTS \( SELECT 1 FROM payment_audit_logs WHERE .+ \)`).
		WithArgs("evt_1", domain.AuditPaymentConfirmed).
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))

	exists, err := repo.ExistsForEvent(context.Background(), "evt_1", domain.AuditPaymentConfirmed)
	require.NoError(t, err)
	assert.True(t, exists)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListByAction(t *testing.T) {
	repo, mock := newRepo(t)
	to := time.Date(2025, 6, 2, 12, 0, 0, 0, time.UTC)
	from := to.Add(-time.Minute)
	bookingID := uuid.New()

	rows := sqlmock.NewRows([]string{
		"id", "booking_id", "action", "amount_cents", "outcome", "payment_intent_id",
		"provider_event_id", "error_message", "ip_address", "user_agent", "created_at",
	}).AddRow(uuid.New().String(), bookingID.String(), "REFUND_FAILED", 2000, "FAILED", "pi_1", nil, "card_declined", nil, nil, to)

	mock.ExpectQuery(`SELECT .+ FROM payment_audit_logs WHERE action = \$1 AND created_at > \$2 AND created_at <= \$3`).
		WithArgs(domain.AuditRefundFailed, from, to).
		WillReturnRows(rows)

	entries, err := repo.ListByAction(context.Background(), domain.AuditRefundFailed, from, to)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, bookingID, entries[0].BookingID)
	assert.Equal(t, domain.OutcomeFailed, entries[0].Outcome)
	assert.Equal(t, "card_declined", *entries[0].ErrorMessage)
	assert.Nil(t, entries[0].ProviderEventID)
}
