package get_available_slots

import (
	"context"
	"time"

	"github.com/KKKircheff/Auto-Bosch-GTP/internal/domain"
)

// BookingRepository интерфейс репозитория записей
type BookingRepository interface {
	GetByDateRange(ctx context.Context, filter domain.BookingsFilter) ([]*domain.Booking, error)
}

// SettingsProvider источник настроек (при отсутствии сохраненных возвращает значения по умолчанию)
type SettingsProvider interface {
	Get(ctx context.Context) (*domain.BusinessSettings, error)
}

// TimeProvider интерфейс для получения текущего времени (для тестирования)
type TimeProvider interface {
	Now() time.Time
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
