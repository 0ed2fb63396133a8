package booking

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/KKKircheff/Auto-Bosch-GTP/internal/domain"
	"github.com/KKKircheff/Auto-Bosch-GTP/internal/infra/storage"
	"github.com/KKKircheff/Auto-Bosch-GTP/internal/infra/storage/document"
)

// Collection имя коллекции записей
const Collection = "bookings"

// Repository репозиторий записей в MongoDB
// _id документа совпадает с ключом записи, поэтому повторная вставка дает E11000.
// Транзакция (если есть) передается через ctx как mongo.SessionContext
type Repository struct {
	coll *mongo.Collection
}

// NewRepository создает новый экземпляр репозитория записей
func NewRepository(db *mongo.Database) *Repository {
	return &Repository{coll: db.Collection(Collection)}
}

// EnsureIndexes создает индекс по дате и времени для выборок по диапазону
func (r *Repository) EnsureIndexes(ctx context.Context) error {
	_, err := r.coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "appointmentDate", Value: 1}, {Key: "appointmentTime", Value: 1}},
	})
	if err != nil {
		return fmt.Errorf("%w: EnsureIndexes: %w", storage.ErrExecQuery, err)
	}
	return nil
}

// GetByID получает запись по ключу
func (r *Repository) GetByID(ctx context.Context, id string) (*domain.Booking, error) {
	var stored document.Booking
	err := r.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&stored)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, fmt.Errorf("%w: id=%s", storage.ErrBookingNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - find: %w", storage.ErrExecQuery, err)
	}

	return decode(&stored)
}

// Create вставляет документ; дубликат ключа дает storage.ErrBookingExists
func (r *Repository) Create(ctx context.Context, booking *domain.Booking) (*domain.Booking, error) {
	_, err := r.coll.InsertOne(ctx, document.ToStored(booking))
	if mongo.IsDuplicateKeyError(err) {
		return nil, fmt.Errorf("%w: Create - id=%s", storage.ErrBookingExists, booking.ID)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: Create - insert: %w", storage.ErrExecQuery, err)
	}

	return booking, nil
}

// Replace перезаписывает документ целиком (upsert)
func (r *Repository) Replace(ctx context.Context, booking *domain.Booking) (*domain.Booking, error) {
	_, err := r.coll.ReplaceOne(ctx,
		bson.M{"_id": booking.ID},
		document.ToStored(booking),
		options.Replace().SetUpsert(true),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: Replace - replace: %w", storage.ErrExecQuery, err)
	}

	return booking, nil
}

// Update обновляет изменяемые поля существующего документа
func (r *Repository) Update(ctx context.Context, booking *domain.Booking) (*domain.Booking, error) {
	stored := document.ToStored(booking)

	result, err := r.coll.UpdateOne(ctx, bson.M{"_id": booking.ID}, bson.M{
		"$set": bson.M{
			"customerName":       stored.CustomerName,
			"phone":              stored.Phone,
			"email":              stored.Email,
			"registrationPlate":  stored.RegistrationPlate,
			"vehicleType":        stored.VehicleType,
			"vehicleBrand":       stored.VehicleBrand,
			"is4x4":              stored.Is4x4,
			"price":              stored.Price,
			"status":             stored.Status,
			"notes":              stored.Notes,
			"cancellationReason": stored.CancellationReason,
			"cancelledAt":        stored.CancelledAt,
			"updatedAt":          stored.UpdatedAt,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("%w: Update - update: %w", storage.ErrExecQuery, err)
	}
	if result.MatchedCount == 0 {
		return nil, fmt.Errorf("%w: id=%s", storage.ErrBookingNotFound, booking.ID)
	}

	return booking, nil
}

// Delete удаляет документ по ключу
func (r *Repository) Delete(ctx context.Context, id string) error {
	result, err := r.coll.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("%w: Delete - delete: %w", storage.ErrExecQuery, err)
	}
	if result.DeletedCount == 0 {
		return fmt.Errorf("%w: id=%s", storage.ErrBookingNotFound, id)
	}
	return nil
}

// GetByDateRange получает записи с датой в [StartDate, EndDate], по возрастанию даты и времени
func (r *Repository) GetByDateRange(ctx context.Context, filter domain.BookingsFilter) ([]*domain.Booking, error) {
	query := bson.M{
		"appointmentDate": bson.M{
			"$gte": domain.DateOf(filter.StartDate),
			"$lte": domain.DateOf(filter.EndDate),
		},
	}
	if filter.Status != nil {
		query["status"] = string(*filter.Status)
	}

	opts := options.Find().SetSort(bson.D{
		{Key: "appointmentDate", Value: 1},
		{Key: "appointmentTime", Value: 1},
	})

	cursor, err := r.coll.Find(ctx, query, opts)
	if err != nil {
		return nil, fmt.Errorf("%w: GetByDateRange - find: %w", storage.ErrExecQuery, err)
	}
	defer cursor.Close(ctx)

	bookings := make([]*domain.Booking, 0)
	for cursor.Next(ctx) {
		var stored document.Booking
		if err := cursor.Decode(&stored); err != nil {
			return nil, fmt.Errorf("%w: GetByDateRange - decode: %v", storage.ErrScanRow, err)
		}
		booking, err := decode(&stored)
		if err != nil {
			return nil, err
		}
		bookings = append(bookings, booking)
	}

	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("%w: GetByDateRange - cursor: %w", storage.ErrExecQuery, err)
	}

	return bookings, nil
}

func decode(stored *document.Booking) (*domain.Booking, error) {
	booking, err := document.FromStored(stored.ID, stored)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", storage.ErrScanRow, err)
	}
	return booking, nil
}
