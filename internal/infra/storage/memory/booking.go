package memory

import (
	"context"
	"fmt"
	"sort"

	"github.com/KKKircheff/Auto-Bosch-GTP/internal/domain"
	"github.com/KKKircheff/Auto-Bosch-GTP/internal/infra/storage"
	"github.com/KKKircheff/Auto-Bosch-GTP/internal/infra/storage/document"
)

type bookingRecord struct {
	booking domain.Booking
}

func newRecord(b *domain.Booking) bookingRecord {
	copied := *b
	copied.RegistrationPlate = document.NormalizePlate(b.RegistrationPlate)
	copied.AppointmentDate = domain.DateOf(b.AppointmentDate)
	return bookingRecord{booking: copied}
}

func (r bookingRecord) toDomain() *domain.Booking {
	copied := r.booking
	return &copied
}

// BookingRepository репозиторий записей в памяти
type BookingRepository struct {
	store *Store
}

// NewBookingRepository создает репозиторий записей
func NewBookingRepository(store *Store) *BookingRepository {
	return &BookingRepository{store: store}
}

// GetByID получает запись по ключу
func (r *BookingRepository) GetByID(ctx context.Context, id string) (*domain.Booking, error) {
	unlock, _ := r.store.lock(ctx)
	defer unlock()

	rec, ok := r.store.bookings[id]
	if !ok {
		return nil, fmt.Errorf("%w: id=%s", storage.ErrBookingNotFound, id)
	}
	return rec.toDomain(), nil
}

// Create добавляет запись; занятый ключ дает storage.ErrBookingExists
func (r *BookingRepository) Create(ctx context.Context, booking *domain.Booking) (*domain.Booking, error) {
	unlock, tx := r.store.lock(ctx)
	defer unlock()

	if _, ok := r.store.bookings[booking.ID]; ok {
		return nil, fmt.Errorf("%w: Create - id=%s", storage.ErrBookingExists, booking.ID)
	}

	r.put(tx, booking)
	return booking, nil
}

// Replace записывает запись, перезаписывая существующую
func (r *BookingRepository) Replace(ctx context.Context, booking *domain.Booking) (*domain.Booking, error) {
	unlock, tx := r.store.lock(ctx)
	defer unlock()

	r.put(tx, booking)
	return booking, nil
}

// Update обновляет существующую запись
func (r *BookingRepository) Update(ctx context.Context, booking *domain.Booking) (*domain.Booking, error) {
	unlock, tx := r.store.lock(ctx)
	defer unlock()

	existing, ok := r.store.bookings[booking.ID]
	if !ok {
		return nil, fmt.Errorf("%w: id=%s", storage.ErrBookingNotFound, booking.ID)
	}

	updated := *booking
	updated.AppointmentDate = existing.booking.AppointmentDate
	updated.AppointmentTime = existing.booking.AppointmentTime
	updated.CreatedAt = existing.booking.CreatedAt

	r.put(tx, &updated)
	return booking, nil
}

// Delete удаляет запись по ключу
func (r *BookingRepository) Delete(ctx context.Context, id string) error {
	unlock, tx := r.store.lock(ctx)
	defer unlock()

	prev, ok := r.store.bookings[id]
	if !ok {
		return fmt.Errorf("%w: id=%s", storage.ErrBookingNotFound, id)
	}

	delete(r.store.bookings, id)
	if tx != nil {
		tx.onRollback(func() { r.store.bookings[id] = prev })
	}
	return nil
}

// GetByDateRange получает записи с датой в [StartDate, EndDate] по возрастанию даты и времени
func (r *BookingRepository) GetByDateRange(ctx context.Context, filter domain.BookingsFilter) ([]*domain.Booking, error) {
	unlock, _ := r.store.lock(ctx)
	defer unlock()

	from := domain.DateOf(filter.StartDate)
	to := domain.DateOf(filter.EndDate)

	bookings := make([]*domain.Booking, 0)
	for _, rec := range r.store.bookings {
		date := rec.booking.AppointmentDate
		if date.Before(from) || date.After(to) {
			continue
		}
		if filter.Status != nil && rec.booking.Status != *filter.Status {
			continue
		}
		bookings = append(bookings, rec.toDomain())
	}

	sort.Slice(bookings, func(i, j int) bool {
		return bookings[i].ID < bookings[j].ID
	})
	return bookings, nil
}

// put записывает запись и, внутри транзакции, запоминает предыдущее состояние ключа
func (r *BookingRepository) put(tx *txState, booking *domain.Booking) {
	id := booking.ID
	if tx != nil {
		prev, existed := r.store.bookings[id]
		tx.onRollback(func() {
			if existed {
				r.store.bookings[id] = prev
				return
			}
			delete(r.store.bookings, id)
		})
	}
	r.store.bookings[id] = newRecord(booking)
}
