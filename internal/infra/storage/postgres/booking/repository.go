package booking

import (
	"context"
	"database/sql"
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

const (
	table = "bookings"

	// SQLSTATE нарушения уникальности
	codeUniqueViolation = "23505"
)

var columns = []string{
	"id",
	"customer_name",
	"phone",
	"email",
	"registration_plate",
	"vehicle_type",
	"vehicle_brand",
	"is_4x4",
	"appointment_date",
	"appointment_time",
	"price",
	"status",
	"notes",
	"cancellation_reason",
	"cancelled_at",
	"created_at",
	"updated_at",
}

// Repository репозиторий записей в PostgreSQL
// Ключ записи (date_time) является первичным ключом таблицы
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория записей
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// Create вставляет запись
// Если строка с таким ключом уже есть, возвращает storage.ErrBookingExists.
// Если в контексте передана активная транзакция, использует её
func (r *Repository) Create(ctx context.Context, booking *domain.Booking) (*domain.Booking, error) {
	executor := txmanager.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert(table).
		Columns(columns...).
		Values(values(booking)...).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: Create - build insert query: %v", storage.ErrBuildQuery, err)
	}

	if _, err := executor.ExecContext(ctx, query, args...); err != nil {
		if isUniqueViolation(err) {
			return nil, fmt.Errorf("%w: Create - id=%s", storage.ErrBookingExists, booking.ID)
		}
		return nil, fmt.Errorf("%w: Create - execute insert: %w", storage.ErrExecQuery, err)
	}

	return booking, nil
}

// Replace записывает запись целиком, перезаписывая существующую с тем же ключом
// Используется, когда слот занят отмененной записью
func (r *Repository) Replace(ctx context.Context, booking *domain.Booking) (*domain.Booking, error) {
	executor := txmanager.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert(table).
		Columns(columns...).
		Values(values(booking)...).
		Suffix(`ON CONFLICT (id) DO UPDATE SET
			customer_name = EXCLUDED.customer_name,
			phone = EXCLUDED.phone,
			email = EXCLUDED.email,
			registration_plate = EXCLUDED.registration_plate,
			vehicle_type = EXCLUDED.vehicle_type,
			vehicle_brand = EXCLUDED.vehicle_brand,
			is_4x4 = EXCLUDED.is_4x4,
			appointment_date = EXCLUDED.appointment_date,
			appointment_time = EXCLUDED.appointment_time,
			price = EXCLUDED.price,
			status = EXCLUDED.status,
			notes = EXCLUDED.notes,
			cancellation_reason = EXCLUDED.cancellation_reason,
			cancelled_at = EXCLUDED.cancelled_at,
			created_at = EXCLUDED.created_at,
			updated_at = EXCLUDED.updated_at`).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: Replace - build upsert query: %v", storage.ErrBuildQuery, err)
	}

	if _, err := executor.ExecContext(ctx, query, args...); err != nil {
		return nil, fmt.Errorf("%w: Replace - execute upsert: %w", storage.ErrExecQuery, err)
	}

	return booking, nil
}

// Update обновляет изменяемые поля существующей записи
// Ключ (дата и время) не меняется: перенос делается через Create + Delete
func (r *Repository) Update(ctx context.Context, booking *domain.Booking) (*domain.Booking, error) {
	executor := txmanager.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update(table).
		SetMap(map[string]interface{}{
			"customer_name":       booking.CustomerName,
			"phone":               booking.Phone,
			"email":               booking.Email,
			"registration_plate":  document.NormalizePlate(booking.RegistrationPlate),
			"vehicle_type":        string(booking.VehicleType),
			"vehicle_brand":       booking.VehicleBrand,
			"is_4x4":              booking.Is4x4,
			"price":               booking.Price,
			"status":              string(booking.Status),
			"notes":               booking.Notes,
			"cancellation_reason": booking.CancellationReason,
			"cancelled_at":        booking.CancelledAt,
			"updated_at":          booking.UpdatedAt,
		}).
		Where(squirrel.Eq{"id": booking.ID}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: Update - build update query: %v", storage.ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: Update - execute update: %w", storage.ErrExecQuery, err)
	}

	if err := checkAffected(result, "Update", booking.ID); err != nil {
		return nil, err
	}

	return booking, nil
}

// Delete удаляет запись по ключу
func (r *Repository) Delete(ctx context.Context, id string) error {
	executor := txmanager.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Delete(table).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: Delete - build delete query: %v", storage.ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: Delete - execute delete: %w", storage.ErrExecQuery, err)
	}

	return checkAffected(result, "Delete", id)
}

// GetByID получает запись по ключу
func (r *Repository) GetByID(ctx context.Context, id string) (*domain.Booking, error) {
	executor := txmanager.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(columns...).
		From(table).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - build select query: %v", storage.ErrBuildQuery, err)
	}

	booking, err := scanBooking(executor.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: id=%s", storage.ErrBookingNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - scan booking: %v", storage.ErrScanRow, err)
	}

	return booking, nil
}

// GetByDateRange получает записи с датой в [StartDate, EndDate]
// Сортировка по дате и времени, опционально фильтр по статусу
func (r *Repository) GetByDateRange(ctx context.Context, filter domain.BookingsFilter) ([]*domain.Booking, error) {
	executor := txmanager.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(columns...).
		From(table).
		Where(squirrel.GtOrEq{"appointment_date": domain.DateOf(filter.StartDate)}).
		Where(squirrel.LtOrEq{"appointment_date": domain.DateOf(filter.EndDate)}).
		OrderBy("appointment_date ASC", "appointment_time ASC")

	if filter.Status != nil {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"status": string(*filter.Status)})
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByDateRange - build select query: %v", storage.ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: GetByDateRange - execute select: %w", storage.ErrExecQuery, err)
	}
	defer rows.Close()

	bookings := make([]*domain.Booking, 0)
	for rows.Next() {
		booking, err := scanBooking(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: GetByDateRange - scan booking: %v", storage.ErrScanRow, err)
		}
		bookings = append(bookings, booking)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: GetByDateRange - rows iteration: %v", storage.ErrScanRow, err)
	}

	return bookings, nil
}

type scanner interface {
	Scan(dest ...interface{}) error
}

func scanBooking(row scanner) (*domain.Booking, error) {
	var (
		b           domain.Booking
		vehicleType string
		status      string
		cancelledAt sql.NullTime
		updatedAt   sql.NullTime
	)

	err := row.Scan(
		&b.ID,
		&b.CustomerName,
		&b.Phone,
		&b.Email,
		&b.RegistrationPlate,
		&vehicleType,
		&b.VehicleBrand,
		&b.Is4x4,
		&b.AppointmentDate,
		&b.AppointmentTime,
		&b.Price,
		&status,
		&b.Notes,
		&b.CancellationReason,
		&cancelledAt,
		&b.CreatedAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}

	b.VehicleType = domain.VehicleType(vehicleType)
	b.Status = domain.BookingStatus(status)
	b.AppointmentDate = domain.DateOf(b.AppointmentDate)
	if cancelledAt.Valid {
		b.CancelledAt = &cancelledAt.Time
	}
	if updatedAt.Valid {
		b.UpdatedAt = &updatedAt.Time
	}

	return &b, nil
}

func values(b *domain.Booking) []interface{} {
	return []interface{}{
		b.ID,
		b.CustomerName,
		b.Phone,
		b.Email,
		document.NormalizePlate(b.RegistrationPlate),
		string(b.VehicleType),
		b.VehicleBrand,
		b.Is4x4,
		domain.DateOf(b.AppointmentDate),
		b.AppointmentTime.String(),
		b.Price,
		string(b.Status),
		b.Notes,
		b.CancellationReason,
		b.CancelledAt,
		b.CreatedAt,
		b.UpdatedAt,
	}
}

func checkAffected(result sql.Result, op, id string) error {
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: %s - rows affected: %v", storage.ErrExecQuery, op, err)
	}
	if affected == 0 {
		return fmt.Errorf("%w: id=%s", storage.ErrBookingNotFound, id)
	}
	return nil
}

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == codeUniqueViolation
}
