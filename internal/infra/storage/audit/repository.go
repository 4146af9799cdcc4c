package audit

import (
	"context"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"

	"github.com/m04kA/MassageStudio-BookingService/internal/domain"
	"github.com/m04kA/MassageStudio-BookingService/pkg/dbmetrics"
	"github.com/m04kA/MassageStudio-BookingService/pkg/pgerr"
	"github.com/m04kA/MassageStudio-BookingService/pkg/psqlbuilder"
)

// Repository журнал платежных событий (только добавление)
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория журнала
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// Create добавляет запись в журнал
// Повтор пары (provider_event_id, action) возвращается как ErrDuplicateEvent
func (r *Repository) Create(ctx context.Context, entry *domain.PaymentAuditLog) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	if entry.ID == uuid.Nil {
		entry.ID = uuid.New()
	}

	query, args, err := psqlbuilder.Insert("payment_audit_logs").
		Columns(
			"id",
			"booking_id",
			"action",
			"amount_cents",
			"outcome",
			"payment_intent_id",
			"provider_event_id",
			"error_message",
			"ip_address",
			"user_agent",
		).
		Values(
			entry.ID,
			entry.BookingID,
			entry.Action,
			entry.AmountCents,
			entry.Outcome,
			entry.PaymentIntentID,
			entry.ProviderEventID,
			entry.ErrorMessage,
			entry.IPAddress,
			entry.UserAgent,
		).
		Suffix("RETURNING created_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: Create - build insert query: %v", ErrBuildQuery, err)
	}

	if err := executor.QueryRowContext(ctx, query, args...).Scan(&entry.CreatedAt); err != nil {
		if pgerr.IsUniqueViolation(err) {
			return ErrDuplicateEvent
		}
		return fmt.Errorf("%w: Create - execute insert: %v", ErrExecQuery, err)
	}

	return nil
}

// ExistsForEvent проверяет, обработано ли уже событие провайдера с указанным действием
func (r *Repository) ExistsForEvent(ctx context.Context, providerEventID string, action domain.AuditAction) (bool, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("1").
		Prefix("SELECT EXISTS (").
		From("payment_audit_logs").
		Where(squirrel.Eq{"provider_event_id": providerEventID}).
		Where(squirrel.Eq{"action": action}).
		Suffix(")").
		ToSql()
	if err != nil {
		return false, fmt.Errorf("%w: ExistsForEvent - build select query: %v", ErrBuildQuery, err)
	}

	var exists bool
	if err := executor.QueryRowContext(ctx, query, args...).Scan(&exists); err != nil {
		return false, fmt.Errorf("%w: ExistsForEvent - scan: %v", ErrScanRow, err)
	}

	return exists, nil
}

// ListByAction получает записи с действием action, созданные в (from, to]
func (r *Repository) ListByAction(ctx context.Context, action domain.AuditAction, from, to time.Time) ([]*domain.PaymentAuditLog, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(
		"id",
		"booking_id",
		"action",
		"amount_cents",
		"outcome",
		"payment_intent_id",
		"provider_event_id",
		"error_message",
		"ip_address",
		"user_agent",
		"created_at",
	).
		From("payment_audit_logs").
		Where(squirrel.Eq{"action": action}).
		Where(squirrel.Gt{"created_at": from.UTC()}).
		Where(squirrel.LtOrEq{"created_at": to.UTC()}).
		OrderBy("created_at ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: ListByAction - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ListByAction - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	entries := make([]*domain.PaymentAuditLog, 0)
	for rows.Next() {
		var e domain.PaymentAuditLog
		if err := rows.Scan(
			&e.ID, &e.BookingID, &e.Action, &e.AmountCents, &e.Outcome,
			&e.PaymentIntentID, &e.ProviderEventID, &e.ErrorMessage,
			&e.IPAddress, &e.UserAgent, &e.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("%w: ListByAction - scan row: %v", ErrScanRow, err)
		}
		entries = append(entries, &e)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: ListByAction - rows error: %v", ErrScanRow, err)
	}

	return entries, nil
}
