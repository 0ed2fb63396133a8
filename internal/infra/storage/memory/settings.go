package memory

import (
	"context"

	"github.com/KKKircheff/Auto-Bosch-GTP/internal/domain"
	"github.com/KKKircheff/Auto-Bosch-GTP/internal/infra/storage"
	"github.com/KKKircheff/Auto-Bosch-GTP/internal/infra/storage/document"
)

// settingsRecord хранит настройки в форме хранения, чтобы не делить срезы и карты с вызывающим
type settingsRecord struct {
	stored *document.Settings
}

// SettingsRepository репозиторий настроек в памяти
type SettingsRepository struct {
	store *Store
}

// NewSettingsRepository создает репозиторий настроек
func NewSettingsRepository(store *Store) *SettingsRepository {
	return &SettingsRepository{store: store}
}

// Get возвращает сохраненные настройки или storage.ErrSettingsNotFound
func (r *SettingsRepository) Get(ctx context.Context) (*domain.BusinessSettings, error) {
	unlock, _ := r.store.lock(ctx)
	defer unlock()

	if r.store.settings == nil {
		return nil, storage.ErrSettingsNotFound
	}
	return document.SettingsFromStored(r.store.settings.stored)
}

// Save сохраняет настройки
func (r *SettingsRepository) Save(ctx context.Context, settings *domain.BusinessSettings) (*domain.BusinessSettings, error) {
	unlock, tx := r.store.lock(ctx)
	defer unlock()

	if tx != nil {
		prev := r.store.settings
		tx.onRollback(func() { r.store.settings = prev })
	}
	r.store.settings = &settingsRecord{stored: document.SettingsToStored(settings)}
	return settings, nil
}
