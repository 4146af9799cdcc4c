package booking

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"

	"github.com/m04kA/MassageStudio-BookingService/internal/domain"
	"github.com/m04kA/MassageStudio-BookingService/pkg/dbmetrics"
	"github.com/m04kA/MassageStudio-BookingService/pkg/pgerr"
	"github.com/m04kA/MassageStudio-BookingService/pkg/psqlbuilder"
)

const table = "bookings"

var columns = []string{
	"id",
	"service_id",
	"customer_name",
	"customer_email",
	"customer_phone",
	"notes",
	"start_time",
	"end_time",
	"status",
	"downpayment_paid_cents",
	"remaining_balance_cents",
	"payment_intent_id",
	"email_delivery_status",
	"created_at",
	"updated_at",
}

// StateUpdate изменение статуса и платежных полей бронирования
// nil-поля не изменяются
type StateUpdate struct {
	Status                domain.BookingStatus
	DownpaymentPaidCents  *int64
	RemainingBalanceCents *int64
}

// Repository репозиторий для работы с бронированиями
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория бронирований
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// LockConflictingBooking захватывает блокировку пары (услуга, время начала)
// и проверяет, есть ли на это время неотмененное бронирование.
// Работает только внутри транзакции: блокировки держатся до её завершения.
//
// Транзакционная advisory-блокировка по хэшу пары сериализует конкурентные
// попытки забронировать один и тот же слот (SELECT ... FOR UPDATE не блокирует
// строку, которой еще нет). Попытки на другие слоты друг друга не ждут.
func (r *Repository) LockConflictingBooking(ctx context.Context, serviceID uuid.UUID, startTime time.Time) (bool, error) {
	if !dbmetrics.IsInTransaction(ctx) {
		return false, ErrTransaction
	}
	executor := dbmetrics.GetExecutor(ctx, r.db)

	lockKey := serviceID.String() + "|" + startTime.UTC().Format(time.RFC3339)
	if _, err := executor.ExecContext(ctx, "SELECT pg_advisory_xact_lock(hashtext($1))", lockKey); err != nil {
		return false, fmt.Errorf("%w: LockConflictingBooking - advisory lock: %v", ErrExecQuery, err)
	}

	query, args, err := psqlbuilder.Select("id").
		From(table).
		Where(squirrel.Eq{"service_id": serviceID}).
		Where(squirrel.Eq{"start_time": startTime.UTC()}).
		Where(squirrel.NotEq{"status": domain.StatusCancelled}).
		Limit(1).
		Suffix("FOR UPDATE").
		ToSql()
	if err != nil {
		return false, fmt.Errorf("%w: LockConflictingBooking - build select query: %v", ErrBuildQuery, err)
	}

	var existingID uuid.UUID
	err = executor.QueryRowContext(ctx, query, args...).Scan(&existingID)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("%w: LockConflictingBooking - scan: %v", ErrScanRow, err)
	}

	return true, nil
}

// Create создает бронирование
// Нарушение частичного уникального индекса (service_id, start_time) возвращается как ErrSlotConflict
func (r *Repository) Create(ctx context.Context, b *domain.Booking) (*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	if b.ID == uuid.Nil {
		b.ID = uuid.New()
	}

	query, args, err := psqlbuilder.Insert(table).
		Columns(
			"id",
			"service_id",
			"customer_name",
			"customer_email",
			"customer_phone",
			"notes",
			"start_time",
			"end_time",
			"status",
			"downpayment_paid_cents",
			"remaining_balance_cents",
			"payment_intent_id",
		).
		Values(
			b.ID,
			b.ServiceID,
			b.CustomerName,
			b.CustomerEmail,
			b.CustomerPhone,
			b.Notes,
			b.StartTime.UTC(),
			b.EndTime.UTC(),
			b.Status,
			b.DownpaymentPaidCents,
			b.RemainingBalanceCents,
			b.PaymentIntentID,
		).
		Suffix("RETURNING created_at, updated_at").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: Create - build insert query: %v", ErrBuildQuery, err)
	}

	err = executor.QueryRowContext(ctx, query, args...).Scan(&b.CreatedAt, &b.UpdatedAt)
	if err != nil {
		if pgerr.IsUniqueViolation(err) {
			return nil, ErrSlotConflict
		}
		if pgerr.IsForeignKeyViolation(err) {
			return nil, ErrServiceNotFound
		}
		return nil, fmt.Errorf("%w: Create - execute insert: %v", ErrExecQuery, err)
	}

	return b, nil
}

// GetByID получает бронирование по ID
// Внутри транзакции строка блокируется (FOR UPDATE) для последующего изменения статуса
func (r *Repository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Booking, error) {
	return r.getOne(ctx, "GetByID", squirrel.Eq{"id": id})
}

// GetByPaymentIntentID получает бронирование по идентификатору платежа
// Внутри транзакции строка блокируется (FOR UPDATE)
func (r *Repository) GetByPaymentIntentID(ctx context.Context, paymentIntentID string) (*domain.Booking, error) {
	return r.getOne(ctx, "GetByPaymentIntentID", squirrel.Eq{"payment_intent_id": paymentIntentID})
}

func (r *Repository) getOne(ctx context.Context, op string, where squirrel.Sqlizer) (*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(columns...).
		From(table).
		Where(where)

	if dbmetrics.IsInTransaction(ctx) {
		selectBuilder = selectBuilder.Suffix("FOR UPDATE")
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: %s - build select query: %v", ErrBuildQuery, op, err)
	}

	b, err := scanBooking(executor.QueryRowContext(ctx, query, args...))
	if err == sql.ErrNoRows {
		return nil, ErrBookingNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %s - scan booking: %v", ErrScanRow, op, err)
	}

	return b, nil
}

// ListActiveByService получает неотмененные бронирования услуги с началом в [from, to)
// Используется для расчета доступности
func (r *Repository) ListActiveByService(ctx context.Context, serviceID uuid.UUID, from, to time.Time) ([]*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(columns...).
		From(table).
		Where(squirrel.Eq{"service_id": serviceID}).
		Where(squirrel.NotEq{"status": domain.StatusCancelled}).
		Where(squirrel.GtOrEq{"start_time": from.UTC()}).
		Where(squirrel.Lt{"start_time": to.UTC()}).
		OrderBy("start_time ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: ListActiveByService - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ListActiveByService - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	return scanBookings(rows)
}

// List получает бронирования с фильтрацией для админки
// Сортировка: ближайшие по времени начала первыми
func (r *Repository) List(ctx context.Context, filter domain.BookingsFilter) ([]*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(columns...).
		From(table).
		OrderBy("start_time ASC")

	if filter.Status != nil {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"status": *filter.Status})
	}
	if filter.ServiceID != nil {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"service_id": *filter.ServiceID})
	}
	if filter.From != nil {
		selectBuilder = selectBuilder.Where(squirrel.GtOrEq{"start_time": filter.From.UTC()})
	}
	if filter.To != nil {
		selectBuilder = selectBuilder.Where(squirrel.Lt{"start_time": filter.To.UTC()})
	}
	if filter.Search != nil && *filter.Search != "" {
		pattern := "%" + *filter.Search + "%"
		selectBuilder = selectBuilder.Where(squirrel.Or{
			squirrel.ILike{"customer_name": pattern},
			squirrel.ILike{"customer_email": pattern},
			squirrel.ILike{"customer_phone": pattern},
		})
	}
	if filter.Limit > 0 {
		selectBuilder = selectBuilder.Limit(uint64(filter.Limit))
	}
	if filter.Offset > 0 {
		selectBuilder = selectBuilder.Offset(uint64(filter.Offset))
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: List - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: List - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	return scanBookings(rows)
}

// ListUnpaidConfirmed получает подтвержденные бронирования с неоплаченным остатком
func (r *Repository) ListUnpaidConfirmed(ctx context.Context) ([]*domain.Booking, error) {
	return r.listWhere(ctx, "ListUnpaidConfirmed", squirrel.And{
		squirrel.Eq{"status": domain.StatusConfirmed},
		squirrel.Gt{"remaining_balance_cents": 0},
	})
}

// ListEmailFailures получает бронирования, письмо по которым не удалось доставить
func (r *Repository) ListEmailFailures(ctx context.Context) ([]*domain.Booking, error) {
	return r.listWhere(ctx, "ListEmailFailures", squirrel.Eq{"email_delivery_status": domain.EmailStatusFailed})
}

func (r *Repository) listWhere(ctx context.Context, op string, where squirrel.Sqlizer) ([]*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(columns...).
		From(table).
		Where(where).
		OrderBy("start_time ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: %s - build select query: %v", ErrBuildQuery, op, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: %s - execute query: %v", ErrExecQuery, op, err)
	}
	defer rows.Close()

	return scanBookings(rows)
}

// UpdateState меняет статус и (опционально) суммы оплаты
func (r *Repository) UpdateState(ctx context.Context, id uuid.UUID, upd StateUpdate) error {
	updateBuilder := psqlbuilder.Update(table).
		Set("status", upd.Status).
		Set("updated_at", squirrel.Expr("NOW()"))

	if upd.DownpaymentPaidCents != nil {
		updateBuilder = updateBuilder.Set("downpayment_paid_cents", *upd.DownpaymentPaidCents)
	}
	if upd.RemainingBalanceCents != nil {
		updateBuilder = updateBuilder.Set("remaining_balance_cents", *upd.RemainingBalanceCents)
	}

	return r.execUpdate(ctx, "UpdateState", updateBuilder.Where(squirrel.Eq{"id": id}))
}

// AttachPaymentIntent сохраняет идентификатор платежа у бронирования
func (r *Repository) AttachPaymentIntent(ctx context.Context, id uuid.UUID, paymentIntentID string) error {
	return r.execUpdate(ctx, "AttachPaymentIntent", psqlbuilder.Update(table).
		Set("payment_intent_id", paymentIntentID).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id}))
}

// UpdateEmailStatus сохраняет статус доставки письма
func (r *Repository) UpdateEmailStatus(ctx context.Context, id uuid.UUID, status domain.EmailDeliveryStatus) error {
	return r.execUpdate(ctx, "UpdateEmailStatus", psqlbuilder.Update(table).
		Set("email_delivery_status", status).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id}))
}

func (r *Repository) execUpdate(ctx context.Context, op string, b squirrel.UpdateBuilder) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := b.ToSql()
	if err != nil {
		return fmt.Errorf("%w: %s - build update query: %v", ErrBuildQuery, op, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: %s - execute update: %v", ErrExecQuery, op, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: %s - get rows affected: %v", ErrExecQuery, op, err)
	}

	if rowsAffected == 0 {
		return ErrBookingNotFound
	}

	return nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanBooking(row rowScanner) (*domain.Booking, error) {
	var b domain.Booking
	var emailStatus sql.NullString

	err := row.Scan(
		&b.ID,
		&b.ServiceID,
		&b.CustomerName,
		&b.CustomerEmail,
		&b.CustomerPhone,
		&b.Notes,
		&b.StartTime,
		&b.EndTime,
		&b.Status,
		&b.DownpaymentPaidCents,
		&b.RemainingBalanceCents,
		&b.PaymentIntentID,
		&emailStatus,
		&b.CreatedAt,
		&b.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if emailStatus.Valid {
		status := domain.EmailDeliveryStatus(emailStatus.String)
		b.EmailDeliveryStatus = &status
	}
	b.StartTime = b.StartTime.UTC()
	b.EndTime = b.EndTime.UTC()

	return &b, nil
}

// scanBookings сканирует результаты запроса в слайс бронирований
func scanBookings(rows *sql.Rows) ([]*domain.Booking, error) {
	bookings := make([]*domain.Booking, 0)

	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: scanBookings - scan row: %v", ErrScanRow, err)
		}
		bookings = append(bookings, b)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: scanBookings - rows error: %v", ErrScanRow, err)
	}

	return bookings, nil
}
