package get_settings

import (
	"context"

	"github.com/KKKircheff/Auto-Bosch-GTP/internal/domain"
)

type SettingsService interface {
	Get(ctx context.Context) (*domain.BusinessSettings, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
