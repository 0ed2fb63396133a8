package settings

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

// Collection имя коллекции настроек
const Collection = "settings"

// Repository хранит настройки сервиса одним документом
type Repository struct {
	coll *mongo.Collection
}

// NewRepository создает новый экземпляр репозитория настроек
func NewRepository(db *mongo.Database) *Repository {
	return &Repository{coll: db.Collection(Collection)}
}

// Get возвращает сохраненные настройки или storage.ErrSettingsNotFound
func (r *Repository) Get(ctx context.Context) (*domain.BusinessSettings, error) {
	var stored document.Settings
	err := r.coll.FindOne(ctx, bson.M{"_id": document.SettingsID}).Decode(&stored)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, storage.ErrSettingsNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: Get - find: %w", storage.ErrExecQuery, err)
	}

	settings, err := document.SettingsFromStored(&stored)
	if err != nil {
		return nil, fmt.Errorf("%w: Get - decode: %v", storage.ErrScanRow, err)
	}
	return settings, nil
}

// Save перезаписывает документ настроек (upsert)
func (r *Repository) Save(ctx context.Context, settings *domain.BusinessSettings) (*domain.BusinessSettings, error) {
	_, err := r.coll.ReplaceOne(ctx,
		bson.M{"_id": document.SettingsID},
		document.SettingsToStored(settings),
		options.Replace().SetUpsert(true),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: Save - replace: %w", storage.ErrExecQuery, err)
	}
	return settings, nil
}
