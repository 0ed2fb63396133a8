package settings

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/lib/pq"

	"github.com/KKKircheff/Auto-Bosch-GTP/internal/domain"
	"github.com/KKKircheff/Auto-Bosch-GTP/internal/infra/storage"
	"github.com/KKKircheff/Auto-Bosch-GTP/internal/infra/storage/document"
	"github.com/KKKircheff/Auto-Bosch-GTP/pkg/psqlbuilder"
	"github.com/KKKircheff/Auto-Bosch-GTP/pkg/txmanager"
)

const table = "business_settings"

// Repository хранит единственную строку настроек сервиса
type Repository struct {
	db txmanager.DBExecutor
}

// NewRepository создает новый экземпляр репозитория настроек
func NewRepository(db txmanager.DBExecutor) *Repository {
	return &Repository{db: db}
}

// Get возвращает сохраненные настройки или storage.ErrSettingsNotFound
func (r *Repository) Get(ctx context.Context) (*domain.BusinessSettings, error) {
	executor := txmanager.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(
		"working_hours_start",
		"working_hours_end",
		"working_days",
		"slot_duration_minutes",
		"booking_window_weeks",
		"closed_days",
		"prices",
		"online_discount_percent",
		"updated_at",
	).
		From(table).
		Where(squirrel.Eq{"id": document.SettingsID}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: Get - build select query: %v", storage.ErrBuildQuery, err)
	}

	var (
		stored      document.Settings
		workingDays pq.Int64Array
		closedDays  pq.StringArray
		prices      []byte
		updatedAt   sql.NullTime
	)

	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&stored.WorkingHoursStart,
		&stored.WorkingHoursEnd,
		&workingDays,
		&stored.SlotDurationMinutes,
		&stored.BookingWindowWeeks,
		&closedDays,
		&prices,
		&stored.OnlineDiscountPercent,
		&updatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, storage.ErrSettingsNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: Get - scan settings: %v", storage.ErrScanRow, err)
	}

	for _, d := range workingDays {
		stored.WorkingDays = append(stored.WorkingDays, int(d))
	}
	stored.ClosedDays = closedDays
	if len(prices) > 0 {
		if err := json.Unmarshal(prices, &stored.Prices); err != nil {
			return nil, fmt.Errorf("%w: Get - decode prices: %v", storage.ErrScanRow, err)
		}
	}
	if updatedAt.Valid {
		stored.UpdatedAt = &updatedAt.Time
	}

	settings, err := document.SettingsFromStored(&stored)
	if err != nil {
		return nil, fmt.Errorf("%w: Get - decode settings: %v", storage.ErrScanRow, err)
	}

	return settings, nil
}

// Save сохраняет настройки (вставка или обновление)
func (r *Repository) Save(ctx context.Context, settings *domain.BusinessSettings) (*domain.BusinessSettings, error) {
	executor := txmanager.GetExecutor(ctx, r.db)

	stored := document.SettingsToStored(settings)

	workingDays := make(pq.Int64Array, 0, len(stored.WorkingDays))
	for _, d := range stored.WorkingDays {
		workingDays = append(workingDays, int64(d))
	}

	prices, err := json.Marshal(stored.Prices)
	if err != nil {
		return nil, fmt.Errorf("%w: Save - encode prices: %v", storage.ErrBuildQuery, err)
	}

	query, args, err := psqlbuilder.Insert(table).
		Columns(
			"id",
			"working_hours_start",
			"working_hours_end",
			"working_days",
			"slot_duration_minutes",
			"booking_window_weeks",
			"closed_days",
			"prices",
			"online_discount_percent",
			"updated_at",
		).
		Values(
			document.SettingsID,
			stored.WorkingHoursStart,
			stored.WorkingHoursEnd,
			workingDays,
			stored.SlotDurationMinutes,
			stored.BookingWindowWeeks,
			pq.StringArray(stored.ClosedDays),
			prices,
			stored.OnlineDiscountPercent,
			stored.UpdatedAt,
		).
		Suffix(`ON CONFLICT (id) DO UPDATE SET
			working_hours_start = EXCLUDED.working_hours_start,
			working_hours_end = EXCLUDED.working_hours_end,
			working_days = EXCLUDED.working_days,
			slot_duration_minutes = EXCLUDED.slot_duration_minutes,
			booking_window_weeks = EXCLUDED.booking_window_weeks,
			closed_days = EXCLUDED.closed_days,
			prices = EXCLUDED.prices,
			online_discount_percent = EXCLUDED.online_discount_percent,
			updated_at = EXCLUDED.updated_at`).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: Save - build upsert query: %v", storage.ErrBuildQuery, err)
	}

	if _, err := executor.ExecContext(ctx, query, args...); err != nil {
		return nil, fmt.Errorf("%w: Save - execute upsert: %w", storage.ErrExecQuery, err)
	}

	return settings, nil
}
