package settings

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/Masterminds/squirrel"

	"github.com/m04kA/MassageStudio-BookingService/internal/domain"
	"github.com/m04kA/MassageStudio-BookingService/pkg/dbmetrics"
	"github.com/m04kA/MassageStudio-BookingService/pkg/psqlbuilder"
)

// singletonID единственная строка таблицы system_settings
const singletonID = 1

// Repository репозиторий глобальных настроек студии
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория настроек
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// Get получает настройки
func (r *Repository) Get(ctx context.Context) (*domain.SystemSettings, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("max_bookings_per_day", "buffer_minutes", "updated_at").
		From("system_settings").
		Where(squirrel.Eq{"id": singletonID}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: Get - build select query: %v", ErrBuildQuery, err)
	}

	var s domain.SystemSettings
	err = executor.QueryRowContext(ctx, query, args...).Scan(&s.MaxBookingsPerDay, &s.BufferMinutes, &s.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, ErrSettingsNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: Get - scan settings: %v", ErrExecQuery, err)
	}

	return &s, nil
}

// Save сохраняет настройки (создает строку при первом сохранении)
func (r *Repository) Save(ctx context.Context, s *domain.SystemSettings) (*domain.SystemSettings, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("system_settings").
		Columns("id", "max_bookings_per_day", "buffer_minutes").
		Values(singletonID, s.MaxBookingsPerDay, s.BufferMinutes).
		Suffix(`ON CONFLICT (id) DO UPDATE SET
			max_bookings_per_day = EXCLUDED.max_bookings_per_day,
			buffer_minutes = EXCLUDED.buffer_minutes,
			updated_at = NOW()
		RETURNING updated_at`).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: Save - build upsert query: %v", ErrBuildQuery, err)
	}

	if err := executor.QueryRowContext(ctx, query, args...).Scan(&s.UpdatedAt); err != nil {
		return nil, fmt.Errorf("%w: Save - execute upsert: %v", ErrExecQuery, err)
	}

	return s, nil
}
