package settings

import (
	"context"
	"fmt"

	"cloud.google.com/go/firestore"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/KKKircheff/Auto-Bosch-GTP/internal/domain"
	"github.com/KKKircheff/Auto-Bosch-GTP/internal/infra/storage"
	"github.com/KKKircheff/Auto-Bosch-GTP/internal/infra/storage/document"
)

// Collection имя коллекции настроек
const Collection = "settings"

// Repository хранит настройки сервиса одним документом
type Repository struct {
	client *firestore.Client
}

// NewRepository создает новый экземпляр репозитория настроек
func NewRepository(client *firestore.Client) *Repository {
	return &Repository{client: client}
}

// Get возвращает сохраненные настройки или storage.ErrSettingsNotFound
func (r *Repository) Get(ctx context.Context) (*domain.BusinessSettings, error) {
	snap, err := r.client.Collection(Collection).Doc(document.SettingsID).Get(ctx)
	if status.Code(err) == codes.NotFound {
		return nil, storage.ErrSettingsNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: Get - get document: %w", storage.ErrExecQuery, err)
	}

	var stored document.Settings
	if err := snap.DataTo(&stored); err != nil {
		return nil, fmt.Errorf("%w: Get - decode: %v", storage.ErrScanRow, err)
	}

	settings, err := document.SettingsFromStored(&stored)
	if err != nil {
		return nil, fmt.Errorf("%w: Get - decode: %v", storage.ErrScanRow, err)
	}
	return settings, nil
}

// Save перезаписывает документ настроек
func (r *Repository) Save(ctx context.Context, settings *domain.BusinessSettings) (*domain.BusinessSettings, error) {
	_, err := r.client.Collection(Collection).Doc(document.SettingsID).Set(ctx, document.SettingsToStored(settings))
	if err != nil {
		return nil, fmt.Errorf("%w: Save - set document: %w", storage.ErrExecQuery, err)
	}
	return settings, nil
}
