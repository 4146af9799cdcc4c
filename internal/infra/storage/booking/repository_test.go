package booking

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/MassageStudio-BookingService/internal/domain"
	"github.com/m04kA/MassageStudio-BookingService/pkg/dbmetrics"
	"github.com/m04kA/MassageStudio-BookingService/pkg/ptr"
)

func newRepo(t *testing.T) (*Repository, *sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return NewRepository(db), db, mock
}

func txContext(t *testing.T, db *sql.DB, mock sqlmock.Sqlmock) (context.Context, *sql.Tx) {
	t.Helper()
	mock.ExpectBegin()
	tx, err := db.Begin()
	require.NoError(t, err)
	return dbmetrics.WithTx(context.Background(), tx), tx
}

func TestLockConflictingBooking_RequiresTransaction(t *testing.T) {
	repo, _, mock := newRepo(t)

	_, err := repo.LockConflictingBooking(context.Background(), uuid.New(), time.Now())

	assert.ErrorIs(t, err, ErrTransaction)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLockConflictingBooking_FreeSlot(t *testing.T) {
	repo, db, mock := newRepo(t)
	serviceID := uuid.New()
	start := time.Date(2025, 6, 2, 9, 0, 0, 0, time.UTC)

	ctx, tx := txContext(t, db, mock)
	mock.ExpectExec(`SELECT pg_advisory_xact_lock\(hashtext\(\$1\)\)`).
		WithArgs(serviceID.String() + "|2025-06-02T09:00:00Z").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(`SELECT id FROM bookings WHERE .+ LIMIT 1 FOR UPDATE`).
		WithArgs(serviceID, start, domain.StatusCancelled).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))
	mock.ExpectCommit()

	taken, err := repo.LockConflictingBooking(ctx, serviceID, start)
	require.NoError(t, err)
	assert.False(t, taken)

	require.NoError(t, tx.Commit())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLockConflictingBooking_TakenSlot(t *testing.T) {
	repo, db, mock := newRepo(t)
	serviceID := uuid.New()
	start := time.Date(2025, 6, 2, 9, 0, 0, 0, time.UTC)

	ctx, _ := txContext(t, db, mock)
	mock.ExpectExec(`pg_advisory_xact_lock`).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(`SELECT id FROM bookings WHERE .+ FOR UPDATE`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(uuid.New().String()))

	taken, err := repo.LockConflictingBooking(ctx, serviceID, start)
	require.NoError(t, err)
	assert.True(t, taken)
}

func TestCreate_UniqueViolationIsConflict(t *testing.T) {
	repo, _, mock := newRepo(t)

	mock.ExpectQuery(`INSERT INTO bookings`).
		WillReturnError(&pq.Error{Code: "23505", Message: "duplicate key value violates unique constraint"})

	_, err := repo.Create(context.Background(), &domain.Booking{
		ServiceID: uuid.New(),
		StartTime: time.Now(),
		EndTime:   time.Now().Add(time.Hour),
		Status:    domain.StatusPending,
	})

	assert.ErrorIs(t, err, ErrSlotConflict)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreate_AssignsIDAndTimestamps(t *testing.T) {
	repo, _, mock := newRepo(t)
	created := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)

	mock.ExpectQuery(`INSERT INTO bookings .+ RETURNING created_at, updated_at`).
		WillReturnRows(sqlmock.NewRows([]string{"created_at", "updated_at"}).AddRow(created, created))

	b, err := repo.Create(context.Background(), &domain.Booking{
		ServiceID:             uuid.New(),
		CustomerName:          "Anna",
		CustomerEmail:         "anna@example.com",
		CustomerPhone:         "+100000000",
		StartTime:             time.Date(2025, 6, 2, 9, 0, 0, 0, time.UTC),
		EndTime:               time.Date(2025, 6, 2, 10, 15, 0, 0, time.UTC),
		Status:                domain.StatusPending,
		RemainingBalanceCents: 7000,
	})

	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, b.ID)
	assert.Equal(t, created, b.CreatedAt)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetByID(t *testing.T) {
	repo, _, mock := newRepo(t)
	id := uuid.New()
	serviceID := uuid.New()
	start := time.Date(2025, 6, 2, 9, 0, 0, 0, time.UTC)

	mock.ExpectQuery(`SELECT .+ FROM bookings WHERE id = \$1$`).
		WithArgs(id).
		WillReturnRows(sqlmock.NewRows(columns).AddRow(
			id.String(), serviceID.String(), "Anna", "anna@example.com", "+100000000", nil,
			start, start.Add(75*time.Minute), "CONFIRMED", int64(3000), int64(7000),
			"pi_123", "FAILED", start, start,
		))

	b, err := repo.GetByID(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, id, b.ID)
	assert.Equal(t, serviceID, b.ServiceID)
	assert.Equal(t, domain.StatusConfirmed, b.Status)
	assert.Equal(t, ptr.Ptr("pi_123"), b.PaymentIntentID)
	require.NotNil(t, b.EmailDeliveryStatus)
	assert.Equal(t, domain.EmailStatusFailed, *b.EmailDeliveryStatus)
	assert.Nil(t, b.Notes)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetByID_NotFound(t *testing.T) {
	repo, _, mock := newRepo(t)

	mock.ExpectQuery(`SELECT .+ FROM bookings`).WillReturnRows(sqlmock.NewRows(columns))

	_, err := repo.GetByID(context.Background(), uuid.New())
	assert.ErrorIs(t, err, ErrBookingNotFound)
}

func TestGetByPaymentIntentID_LocksInTransaction(t *testing.T) {
	repo, db, mock := newRepo(t)

	ctx, _ := txContext(t, db, mock)
	mock.ExpectQuery(`SELECT .+ FROM bookings WHERE payment_intent_id = \$1 FOR UPDATE`).
		WithArgs("pi_123").
		WillReturnRows(sqlmock.NewRows(columns))

	_, err := repo.GetByPaymentIntentID(ctx, "pi_123")
	assert.ErrorIs(t, err, ErrBookingNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateState_NotFound(t *testing.T) {
	repo, _, mock := newRepo(t)

	mock.ExpectExec(`UPDATE bookings SET status = \$1, updated_at = NOW\(\), remaining_balance_cents = \$2 WHERE id = \$3`).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.UpdateState(context.Background(), uuid.New(), StateUpdate{
		Status:                domain.StatusCancelled,
		RemainingBalanceCents: ptr.Ptr(int64(0)),
	})

	assert.ErrorIs(t, err, ErrBookingNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestList_SearchAndStatus(t *testing.T) {
	repo, _, mock := newRepo(t)
	status := domain.StatusPending

	mock.ExpectQuery(`SELECT .+ FROM bookings WHERE status = \$1 AND \(customer_name ILIKE \$2 OR customer_email ILIKE \$3 OR customer_phone ILIKE \$4\) ORDER BY start_time ASC LIMIT 50`).
		WithArgs(status, "%ann%", "%ann%", "%ann%").
		WillReturnRows(sqlmock.NewRows(columns))

	bookings, err := repo.List(context.Background(), domain.BookingsFilter{
		Status: &status,
		Search: ptr.Ptr("ann"),
		Limit:  50,
	})

	require.NoError(t, err)
	assert.Empty(t, bookings)
	assert.NoError(t, mock.ExpectationsWereMet())
}
