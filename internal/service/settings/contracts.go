package settings

import (
	"context"
	"time"

	"github.com/KKKircheff/Auto-Bosch-GTP/internal/domain"
)

// SettingsRepository интерфейс репозитория настроек
type SettingsRepository interface {
	Get(ctx context.Context) (*domain.BusinessSettings, error)
	Save(ctx context.Context, settings *domain.BusinessSettings) (*domain.BusinessSettings, error)
}

// TimeProvider интерфейс для получения текущего времени
type TimeProvider interface {
	Now() time.Time
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
