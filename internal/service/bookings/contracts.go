package bookings

import (
	"context"
	"time"

	"github.com/KKKircheff/Auto-Bosch-GTP/internal/domain"
	"github.com/KKKircheff/Auto-Bosch-GTP/internal/integrations/notifier"
)

// BookingRepository интерфейс репозитория записей
type BookingRepository interface {
	GetByID(ctx context.Context, id string) (*domain.Booking, error)
	Update(ctx context.Context, booking *domain.Booking) (*domain.Booking, error)
	Delete(ctx context.Context, id string) error
	GetByDateRange(ctx context.Context, filter domain.BookingsFilter) ([]*domain.Booking, error)
}

// SettingsProvider источник настроек
type SettingsProvider interface {
	Get(ctx context.Context) (*domain.BusinessSettings, error)
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
}

// EventPublisher публикатор событий о записях
type EventPublisher interface {
	Publish(ctx context.Context, event notifier.Event) error
}

// CountsCache кеш количества записей по дням
type CountsCache interface {
	Get(ctx context.Context, from, to string) (map[string]int, int64, bool, error)
	Set(ctx context.Context, from, to string, version int64, counts map[string]int) error
	Invalidate(ctx context.Context) error
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
