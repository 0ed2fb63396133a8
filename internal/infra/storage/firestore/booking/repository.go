package booking

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/KKKircheff/Auto-Bosch-GTP/internal/domain"
	"github.com/KKKircheff/Auto-Bosch-GTP/internal/infra/storage"
	"github.com/KKKircheff/Auto-Bosch-GTP/internal/infra/storage/document"
	"github.com/KKKircheff/Auto-Bosch-GTP/pkg/txmanager/firestoretx"
)

// Collection имя коллекции записей
const Collection = "bookings"

// Repository репозиторий записей в Firestore
// Ключ документа совпадает с ключом записи (date_time)
type Repository struct {
	client     *firestore.Client
	collection string
}

// NewRepository создает новый экземпляр репозитория записей
func NewRepository(client *firestore.Client) *Repository {
	return &Repository{client: client, collection: Collection}
}

func (r *Repository) ref(id string) *firestore.DocumentRef {
	return r.client.Collection(r.collection).Doc(id)
}

// GetByID получает запись по ключу
// Внутри транзакции чтение выполняется через транзакцию (и блокирует документ)
func (r *Repository) GetByID(ctx context.Context, id string) (*domain.Booking, error) {
	var (
		snap *firestore.DocumentSnapshot
		err  error
	)
	if tx := firestoretx.FromContext(ctx); tx != nil {
		snap, err = tx.Get(r.ref(id))
	} else {
		snap, err = r.ref(id).Get(ctx)
	}

	if status.Code(err) == codes.NotFound {
		return nil, fmt.Errorf("%w: id=%s", storage.ErrBookingNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - get document: %w", storage.ErrExecQuery, err)
	}

	return decode(snap)
}

// Create создает документ; если он уже существует, возвращает storage.ErrBookingExists
// Внутри транзакции ошибка существования проявится при фиксации
func (r *Repository) Create(ctx context.Context, booking *domain.Booking) (*domain.Booking, error) {
	stored := document.ToStored(booking)

	var err error
	if tx := firestoretx.FromContext(ctx); tx != nil {
		err = tx.Create(r.ref(booking.ID), stored)
	} else {
		_, err = r.ref(booking.ID).Create(ctx, stored)
	}

	if status.Code(err) == codes.AlreadyExists {
		return nil, fmt.Errorf("%w: Create - id=%s", storage.ErrBookingExists, booking.ID)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: Create - create document: %w", storage.ErrExecQuery, err)
	}

	return booking, nil
}

// Replace перезаписывает документ целиком
func (r *Repository) Replace(ctx context.Context, booking *domain.Booking) (*domain.Booking, error) {
	stored := document.ToStored(booking)

	var err error
	if tx := firestoretx.FromContext(ctx); tx != nil {
		err = tx.Set(r.ref(booking.ID), stored)
	} else {
		_, err = r.ref(booking.ID).Set(ctx, stored)
	}

	if err != nil {
		return nil, fmt.Errorf("%w: Replace - set document: %w", storage.ErrExecQuery, err)
	}

	return booking, nil
}

// Update обновляет изменяемые поля существующего документа
func (r *Repository) Update(ctx context.Context, booking *domain.Booking) (*domain.Booking, error) {
	stored := document.ToStored(booking)
	updates := []firestore.Update{
		{Path: "customerName", Value: stored.CustomerName},
		{Path: "phone", Value: stored.Phone},
		{Path: "email", Value: stored.Email},
		{Path: "registrationPlate", Value: stored.RegistrationPlate},
		{Path: "vehicleType", Value: stored.VehicleType},
		{Path: "vehicleBrand", Value: stored.VehicleBrand},
		{Path: "is4x4", Value: stored.Is4x4},
		{Path: "price", Value: stored.Price},
		{Path: "status", Value: stored.Status},
		{Path: "notes", Value: stored.Notes},
		{Path: "cancellationReason", Value: stored.CancellationReason},
		{Path: "cancelledAt", Value: stored.CancelledAt},
		{Path: "updatedAt", Value: stored.UpdatedAt},
	}

	var err error
	if tx := firestoretx.FromContext(ctx); tx != nil {
		err = tx.Update(r.ref(booking.ID), updates)
	} else {
		_, err = r.ref(booking.ID).Update(ctx, updates)
	}

	if status.Code(err) == codes.NotFound {
		return nil, fmt.Errorf("%w: id=%s", storage.ErrBookingNotFound, booking.ID)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: Update - update document: %w", storage.ErrExecQuery, err)
	}

	return booking, nil
}

// Delete удаляет документ; отсутствующий документ дает storage.ErrBookingNotFound
func (r *Repository) Delete(ctx context.Context, id string) error {
	var err error
	if tx := firestoretx.FromContext(ctx); tx != nil {
		err = tx.Delete(r.ref(id), firestore.Exists)
	} else {
		_, err = r.ref(id).Delete(ctx, firestore.Exists)
	}

	if status.Code(err) == codes.NotFound {
		return fmt.Errorf("%w: id=%s", storage.ErrBookingNotFound, id)
	}
	if err != nil {
		return fmt.Errorf("%w: Delete - delete document: %w", storage.ErrExecQuery, err)
	}

	return nil
}

// GetByDateRange получает записи с датой в [StartDate, EndDate]
// Запрос использует только диапазон по appointmentDate (одно-полевой индекс),
// фильтр по статусу и сортировка выполняются в памяти
func (r *Repository) GetByDateRange(ctx context.Context, filter domain.BookingsFilter) ([]*domain.Booking, error) {
	query := r.client.Collection(r.collection).
		Where("appointmentDate", ">=", domain.DateOf(filter.StartDate)).
		Where("appointmentDate", "<=", domain.DateOf(filter.EndDate))

	var it *firestore.DocumentIterator
	if tx := firestoretx.FromContext(ctx); tx != nil {
		it = tx.Documents(query)
	} else {
		it = query.Documents(ctx)
	}
	defer it.Stop()

	bookings := make([]*domain.Booking, 0)
	for {
		snap, err := it.Next()
		if errors.Is(err, iterator.Done) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: GetByDateRange - iterate: %w", storage.ErrExecQuery, err)
		}

		booking, err := decode(snap)
		if err != nil {
			return nil, err
		}
		if filter.Status != nil && booking.Status != *filter.Status {
			continue
		}
		bookings = append(bookings, booking)
	}

	SortByAppointment(bookings)
	return bookings, nil
}

// SortByAppointment сортирует записи по дате и времени
// Ключ записи сортируется лексикографически в том же порядке
func SortByAppointment(bookings []*domain.Booking) {
	sort.SliceStable(bookings, func(i, j int) bool {
		return bookings[i].ID < bookings[j].ID
	})
}

func decode(snap *firestore.DocumentSnapshot) (*domain.Booking, error) {
	var stored document.Booking
	if err := snap.DataTo(&stored); err != nil {
		return nil, fmt.Errorf("%w: decode %s: %v", storage.ErrScanRow, snap.Ref.ID, err)
	}

	booking, err := document.FromStored(snap.Ref.ID, &stored)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", storage.ErrScanRow, err)
	}
	return booking, nil
}
