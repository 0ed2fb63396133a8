package update_settings

import (
	"context"

	"github.com/KKKircheff/Auto-Bosch-GTP/internal/domain"
	"github.com/KKKircheff/Auto-Bosch-GTP/internal/service/settings/models"
)

type SettingsService interface {
	Update(ctx context.Context, req *models.UpdateSettingsRequest) (*domain.BusinessSettings, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
