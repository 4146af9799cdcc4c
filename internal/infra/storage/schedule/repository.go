package schedule

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

// Repository репозиторий расписания: часы работы по дням недели и исключения по датам
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория расписания
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// ListBusinessHours получает расписание всех дней недели
func (r *Repository) ListBusinessHours(ctx context.Context) ([]*domain.BusinessHours, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(
		"id",
		"day_of_week",
		"opening_time",
		"closing_time",
		"is_open",
		"updated_at",
	).
		From("business_hours").
		OrderBy("day_of_week ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: ListBusinessHours - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ListBusinessHours - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	hours := make([]*domain.BusinessHours, 0, 7)
	for rows.Next() {
		var h domain.BusinessHours
		if err := rows.Scan(&h.ID, &h.DayOfWeek, &h.OpeningTime, &h.ClosingTime, &h.IsOpen, &h.UpdatedAt); err != nil {
			return nil, fmt.Errorf("%w: ListBusinessHours - scan row: %v", ErrScanRow, err)
		}
		hours = append(hours, &h)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: ListBusinessHours - rows error: %v", ErrScanRow, err)
	}

	return hours, nil
}

// UpsertBusinessHours создает или обновляет расписание дня недели (уникально по day_of_week)
func (r *Repository) UpsertBusinessHours(ctx context.Context, h *domain.BusinessHours) (*domain.BusinessHours, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	if h.ID == uuid.Nil {
		h.ID = uuid.New()
	}

	query, args, err := psqlbuilder.Insert("business_hours").
		Columns("id", "day_of_week", "opening_time", "closing_time", "is_open").
		Values(h.ID, h.DayOfWeek, h.OpeningTime, h.ClosingTime, h.IsOpen).
		Suffix(`ON CONFLICT (day_of_week) DO UPDATE SET
			opening_time = EXCLUDED.opening_time,
			closing_time = EXCLUDED.closing_time,
			is_open = EXCLUDED.is_open,
			updated_at = NOW()
		RETURNING id, updated_at`).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: UpsertBusinessHours - build insert query: %v", ErrBuildQuery, err)
	}

	if err := executor.QueryRowContext(ctx, query, args...).Scan(&h.ID, &h.UpdatedAt); err != nil {
		return nil, fmt.Errorf("%w: UpsertBusinessHours - execute upsert: %v", ErrExecQuery, err)
	}

	return h, nil
}

// ListOverrides получает исключения из расписания на даты в [from, to]
// nil-границы не ограничивают выборку
func (r *Repository) ListOverrides(ctx context.Context, from, to *time.Time) ([]*domain.DateOverride, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(
		"id",
		"date",
		"is_blocked",
		"custom_open_time",
		"custom_close_time",
		"reason",
		"created_at",
	).
		From("date_overrides").
		OrderBy("date ASC")

	if from != nil {
		selectBuilder = selectBuilder.Where(squirrel.GtOrEq{"date": from.UTC().Format(domain.DateFormat)})
	}
	if to != nil {
		selectBuilder = selectBuilder.Where(squirrel.LtOrEq{"date": to.UTC().Format(domain.DateFormat)})
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: ListOverrides - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ListOverrides - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	overrides := make([]*domain.DateOverride, 0)
	for rows.Next() {
		var o domain.DateOverride
		if err := rows.Scan(&o.ID, &o.Date, &o.IsBlocked, &o.CustomOpenTime, &o.CustomCloseTime, &o.Reason, &o.CreatedAt); err != nil {
			return nil, fmt.Errorf("%w: ListOverrides - scan row: %v", ErrScanRow, err)
		}
		o.Date = o.Date.UTC()
		overrides = append(overrides, &o)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: ListOverrides - rows error: %v", ErrScanRow, err)
	}

	return overrides, nil
}

// CreateOverride создает исключение из расписания (одно на дату)
func (r *Repository) CreateOverride(ctx context.Context, o *domain.DateOverride) (*domain.DateOverride, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	if o.ID == uuid.Nil {
		o.ID = uuid.New()
	}

	query, args, err := psqlbuilder.Insert("date_overrides").
		Columns("id", "date", "is_blocked", "custom_open_time", "custom_close_time", "reason").
		Values(o.ID, o.Date.UTC().Format(domain.DateFormat), o.IsBlocked, o.CustomOpenTime, o.CustomCloseTime, o.Reason).
		Suffix("RETURNING created_at").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: CreateOverride - build insert query: %v", ErrBuildQuery, err)
	}

	if err := executor.QueryRowContext(ctx, query, args...).Scan(&o.CreatedAt); err != nil {
		if pgerr.IsUniqueViolation(err) {
			return nil, ErrOverrideExists
		}
		return nil, fmt.Errorf("%w: CreateOverride - execute insert: %v", ErrExecQuery, err)
	}

	return o, nil
}

// DeleteOverride удаляет исключение из расписания
func (r *Repository) DeleteOverride(ctx context.Context, id uuid.UUID) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Delete("date_overrides").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: DeleteOverride - build delete query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: DeleteOverride - execute delete: %v", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: DeleteOverride - get rows affected: %v", ErrExecQuery, err)
	}

	if rowsAffected == 0 {
		return ErrOverrideNotFound
	}

	return nil
}
