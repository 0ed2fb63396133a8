package create_booking

import (
	"context"
	"time"

	"github.com/KKKircheff/Auto-Bosch-GTP/internal/domain"
	"github.com/KKKircheff/Auto-Bosch-GTP/internal/integrations/notifier"
)

// BookingRepository интерфейс репозитория записей
type BookingRepository interface {
	GetByID(ctx context.Context, id string) (*domain.Booking, error)
	Create(ctx context.Context, booking *domain.Booking) (*domain.Booking, error)
	Replace(ctx context.Context, booking *domain.Booking) (*domain.Booking, error)
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

// CountsInvalidator сбрасывает кеш счетчиков записей
type CountsInvalidator interface {
	Invalidate(ctx context.Context) error
}

// Metrics учет исходов бронирования
type Metrics interface {
	ObserveReservation(outcome string)
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
