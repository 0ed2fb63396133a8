package main

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/lib/pq"

	"github.com/KKKircheff/Auto-Bosch-GTP/internal/config"
	"github.com/KKKircheff/Auto-Bosch-GTP/internal/domain"
	firestoreStorage "github.com/KKKircheff/Auto-Bosch-GTP/internal/infra/storage/firestore"
	firestoreBookingRepo "github.com/KKKircheff/Auto-Bosch-GTP/internal/infra/storage/firestore/booking"
	firestoreSettingsRepo "github.com/KKKircheff/Auto-Bosch-GTP/internal/infra/storage/firestore/settings"
	"github.com/KKKircheff/Auto-Bosch-GTP/internal/infra/storage/memory"
	mongoStorage "github.com/KKKircheff/Auto-Bosch-GTP/internal/infra/storage/mongo"
	mongoBookingRepo "github.com/KKKircheff/Auto-Bosch-GTP/internal/infra/storage/mongo/booking"
	mongoSettingsRepo "github.com/KKKircheff/Auto-Bosch-GTP/internal/infra/storage/mongo/settings"
	pgBookingRepo "github.com/KKKircheff/Auto-Bosch-GTP/internal/infra/storage/postgres/booking"
	"github.com/KKKircheff/Auto-Bosch-GTP/internal/infra/storage/postgres/migrations"
	pgSettingsRepo "github.com/KKKircheff/Auto-Bosch-GTP/internal/infra/storage/postgres/settings"
	"github.com/KKKircheff/Auto-Bosch-GTP/pkg/logger"
	"github.com/KKKircheff/Auto-Bosch-GTP/pkg/metrics"
	"github.com/KKKircheff/Auto-Bosch-GTP/pkg/txmanager"
	"github.com/KKKircheff/Auto-Bosch-GTP/pkg/txmanager/firestoretx"
	"github.com/KKKircheff/Auto-Bosch-GTP/pkg/txmanager/mongotx"
)

// bookingStore полный набор операций репозитория записей, общий для всех драйверов
type bookingStore interface {
	GetByID(ctx context.Context, id string) (*domain.Booking, error)
	Create(ctx context.Context, booking *domain.Booking) (*domain.Booking, error)
	Replace(ctx context.Context, booking *domain.Booking) (*domain.Booking, error)
	Update(ctx context.Context, booking *domain.Booking) (*domain.Booking, error)
	Delete(ctx context.Context, id string) error
	GetByDateRange(ctx context.Context, filter domain.BookingsFilter) ([]*domain.Booking, error)
}

type settingsStore interface {
	Get(ctx context.Context) (*domain.BusinessSettings, error)
	Save(ctx context.Context, settings *domain.BusinessSettings) (*domain.BusinessSettings, error)
}

type txManager interface {
	DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
}

// stores репозитории и менеджер транзакций выбранного драйвера
type stores struct {
	bookings  bookingStore
	settings  settingsStore
	txManager txManager
	closers   []func() error
}

func (s *stores) Close(log *logger.Logger) {
	for i := len(s.closers) - 1; i >= 0; i-- {
		if err := s.closers[i](); err != nil {
			log.Error("Failed to close storage: %v", err)
		}
	}
}

// openStores подключается к хранилищу, указанному в storage.driver
func openStores(ctx context.Context, cfg *config.Config, migrate bool, m *metrics.Metrics, log *logger.Logger) (*stores, error) {
	switch cfg.Storage.Driver {
	case config.DriverPostgres:
		return openPostgres(ctx, cfg, migrate, m, log)
	case config.DriverFirestore:
		return openFirestore(ctx, cfg, log)
	case config.DriverMongo:
		return openMongo(ctx, cfg, log)
	case config.DriverMemory:
		log.Warn("Using in-memory storage: bookings are lost on restart")
		store := memory.NewStore()
		return &stores{
			bookings:  memory.NewBookingRepository(store),
			settings:  memory.NewSettingsRepository(store),
			txManager: memory.NewTxManager(store),
		}, nil
	default:
		return nil, fmt.Errorf("%w: unknown storage driver %q", config.ErrInvalidConfig, cfg.Storage.Driver)
	}
}

func openPostgresDB(ctx context.Context, cfg *config.Config) (*sql.DB, error) {
	db, err := sql.Open("postgres", cfg.Database.DSN())
	if err != nil {
		return nil, fmt.Errorf("postgres: open: %w", err)
	}

	// Настраиваем connection pool
	db.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	db.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	db.SetConnMaxLifetime(time.Duration(cfg.Database.ConnMaxLifetime) * time.Second)

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("postgres: ping: %w", err)
	}
	return db, nil
}

func openPostgres(ctx context.Context, cfg *config.Config, migrate bool, m *metrics.Metrics, log *logger.Logger) (*stores, error) {
	db, err := openPostgresDB(ctx, cfg)
	if err != nil {
		return nil, err
	}
	log.Info("Successfully connected to database (host=%s, port=%d, db=%s)",
		cfg.Database.Host, cfg.Database.Port, cfg.Database.DBName)

	if migrate {
		if err := migrations.Up(ctx, db, log); err != nil {
			_ = db.Close()
			return nil, err
		}
	}

	opts := []txmanager.Option{txmanager.WithMaxRetries(cfg.Storage.MaxTxAttempts)}
	if m != nil {
		m.RegisterDBStats(db, cfg.Database.DBName)
		opts = append(opts, txmanager.WithRetryObserver(m))
		log.Info("Database metrics collection started")
	}

	return &stores{
		bookings:  pgBookingRepo.NewRepository(db),
		settings:  pgSettingsRepo.NewRepository(db),
		txManager: txmanager.NewTransactionManager(db, opts...),
		closers:   []func() error{db.Close},
	}, nil
}

func openFirestore(ctx context.Context, cfg *config.Config, log *logger.Logger) (*stores, error) {
	client, err := firestoreStorage.NewClient(ctx, firestoreStorage.Config{
		ProjectID:       cfg.Firestore.ProjectID,
		CredentialsFile: cfg.Firestore.CredentialsFile,
	})
	if err != nil {
		return nil, err
	}
	log.Info("Connected to Firestore (project=%s)", cfg.Firestore.ProjectID)

	return &stores{
		bookings:  firestoreBookingRepo.NewRepository(client),
		settings:  firestoreSettingsRepo.NewRepository(client),
		txManager: firestoretx.NewManager(client, cfg.Storage.MaxTxAttempts),
		closers:   []func() error{client.Close},
	}, nil
}

func openMongo(ctx context.Context, cfg *config.Config, log *logger.Logger) (*stores, error) {
	client, err := mongoStorage.Connect(ctx, cfg.Mongo.URI)
	if err != nil {
		return nil, err
	}
	db := client.Database(cfg.Mongo.Database)

	bookings := mongoBookingRepo.NewRepository(db)
	if err := bookings.EnsureIndexes(ctx); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, err
	}
	log.Info("Connected to MongoDB (db=%s)", cfg.Mongo.Database)

	return &stores{
		bookings:  bookings,
		settings:  mongoSettingsRepo.NewRepository(db),
		txManager: mongotx.NewManager(client),
		closers: []func() error{func() error {
			return client.Disconnect(context.Background())
		}},
	}, nil
}
