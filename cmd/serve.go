package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"

	bookingCountsHandler "github.com/KKKircheff/Auto-Bosch-GTP/internal/api/handlers/booking_counts"
	cancelBookingHandler "github.com/KKKircheff/Auto-Bosch-GTP/internal/api/handlers/cancel_booking"
	createBookingHandler "github.com/KKKircheff/Auto-Bosch-GTP/internal/api/handlers/create_booking"
	deleteBookingHandler "github.com/KKKircheff/Auto-Bosch-GTP/internal/api/handlers/delete_booking"
	getAvailableSlotsHandler "github.com/KKKircheff/Auto-Bosch-GTP/internal/api/handlers/get_available_slots"
	getBookingHandler "github.com/KKKircheff/Auto-Bosch-GTP/internal/api/handlers/get_booking"
	getSettingsHandler "github.com/KKKircheff/Auto-Bosch-GTP/internal/api/handlers/get_settings"
	listBookingsHandler "github.com/KKKircheff/Auto-Bosch-GTP/internal/api/handlers/list_bookings"
	updateBookingHandler "github.com/KKKircheff/Auto-Bosch-GTP/internal/api/handlers/update_booking"
	updateSettingsHandler "github.com/KKKircheff/Auto-Bosch-GTP/internal/api/handlers/update_settings"
	validateSlotHandler "github.com/KKKircheff/Auto-Bosch-GTP/internal/api/handlers/validate_slot"
	"github.com/KKKircheff/Auto-Bosch-GTP/internal/api/middleware"
	"github.com/KKKircheff/Auto-Bosch-GTP/internal/config"
	"github.com/KKKircheff/Auto-Bosch-GTP/internal/infra/cache/counts"
	"github.com/KKKircheff/Auto-Bosch-GTP/internal/integrations/notifier"
	bookingsService "github.com/KKKircheff/Auto-Bosch-GTP/internal/service/bookings"
	settingsService "github.com/KKKircheff/Auto-Bosch-GTP/internal/service/settings"
	createBookingUC "github.com/KKKircheff/Auto-Bosch-GTP/internal/usecase/create_booking"
	getAvailableSlotsUC "github.com/KKKircheff/Auto-Bosch-GTP/internal/usecase/get_available_slots"
	updateBookingUC "github.com/KKKircheff/Auto-Bosch-GTP/internal/usecase/update_booking"
	"github.com/KKKircheff/Auto-Bosch-GTP/pkg/clock"
	"github.com/KKKircheff/Auto-Bosch-GTP/pkg/logger"
	"github.com/KKKircheff/Auto-Bosch-GTP/pkg/metrics"
)

const rateLimiterCleanupInterval = time.Minute

// eventPublisher реализуется notifier.Client и notifier.Noop
type eventPublisher interface {
	Publish(ctx context.Context, event notifier.Event) error
}

// countsCache реализуется counts.Cache и counts.Noop
type countsCache interface {
	Get(ctx context.Context, from, to string) (map[string]int, int64, bool, error)
	Set(ctx context.Context, from, to string, version int64, counts map[string]int) error
	Invalidate(ctx context.Context) error
}

func newServeCmd(load configLoader) *cobra.Command {
	var migrateUp bool

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := load()
			if err != nil {
				return err
			}
			return serve(cfg, migrateUp)
		},
	}

	cmd.Flags().BoolVar(&migrateUp, "migrate", false, "apply SQL migrations on startup (postgres driver)")
	cmd.Flags().Lookup("migrate").NoOptDefVal = "true"
	return cmd
}

func serve(cfg *config.Config, migrateUp bool) error {
	log, err := logger.New(cfg.Logs.File, cfg.Logs.Level)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	defer log.Close()

	log.Info("Starting Auto-Bosch GTP booking service...")

	loc, err := cfg.Business.Location()
	if err != nil {
		return fmt.Errorf("%w: business.timezone: %v", config.ErrInvalidConfig, err)
	}
	timeProvider := clock.New(loc)

	// Инициализируем метрики (если включены)
	var metricsCollector *metrics.Metrics
	if cfg.Metrics.Enabled {
		metricsCollector = metrics.New(cfg.Metrics.ServiceName)
		log.Info("Metrics enabled at %s", cfg.Metrics.Path)
	}

	startupCtx, cancelStartup := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancelStartup()

	st, err := openStores(startupCtx, cfg, migrateUp, metricsCollector, log)
	if err != nil {
		return err
	}
	defer st.Close(log)
	log.Info("Storage driver: %s", cfg.Storage.Driver)

	// Кеш счетчиков (необязательный)
	var countsCacheImpl countsCache = counts.Noop{}
	if cfg.Redis.Addr != "" {
		rdb := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		defer rdb.Close()

		if err := rdb.Ping(startupCtx).Err(); err != nil {
			log.Warn("Redis is unavailable at %s, counts will be read from storage: %v", cfg.Redis.Addr, err)
		}
		countsCacheImpl = counts.NewCache(rdb, time.Duration(cfg.Redis.TTL)*time.Second)
		log.Info("Counts cache enabled (redis=%s, ttl=%ds)", cfg.Redis.Addr, cfg.Redis.TTL)
	}

	// Публикация событий (необязательная)
	var publisher eventPublisher = notifier.Noop{}
	if cfg.Broker.URL != "" {
		client, err := notifier.NewClient(
			cfg.Broker.URL,
			cfg.Broker.Exchange,
			time.Duration(cfg.Broker.Timeout)*time.Second,
			log,
		)
		if err != nil {
			log.Warn("Broker is unavailable, booking events are disabled: %v", err)
		} else {
			defer client.Close()
			publisher = client
			log.Info("Booking events are published to exchange %s", cfg.Broker.Exchange)
		}
	}

	// Инициализируем сервисы
	settingsSvc := settingsService.NewService(st.settings, timeProvider, log)
	bookingSvc := bookingsService.NewService(
		st.bookings,
		settingsSvc,
		st.txManager,
		publisher,
		countsCacheImpl,
		timeProvider,
		log,
	)

	// Инициализируем use cases
	createBookingUseCase := createBookingUC.NewUseCase(
		st.bookings,
		settingsSvc,
		st.txManager,
		publisher,
		countsCacheImpl,
		metricsCollector,
		timeProvider,
		log,
	)
	updateBookingUseCase := updateBookingUC.NewUseCase(
		st.bookings,
		settingsSvc,
		st.txManager,
		publisher,
		countsCacheImpl,
		timeProvider,
		log,
	)
	getAvailableSlotsUseCase := getAvailableSlotsUC.NewUseCase(
		st.bookings,
		settingsSvc,
		timeProvider,
		log,
	)

	// Инициализируем handlers
	getAvailableSlots := getAvailableSlotsHandler.NewHandler(getAvailableSlotsUseCase, log)
	getAdminSlots := getAvailableSlotsHandler.NewAdminHandler(getAvailableSlotsUseCase, log)
	createBooking := createBookingHandler.NewHandler(createBookingUseCase, log)
	validateSlot := validateSlotHandler.NewHandler(bookingSvc, log)
	getBooking := getBookingHandler.NewHandler(bookingSvc, log)
	listBookings := listBookingsHandler.NewHandler(bookingSvc, log)
	bookingCounts := bookingCountsHandler.NewHandler(bookingSvc, log)
	cancelBooking := cancelBookingHandler.NewHandler(bookingSvc, log)
	deleteBooking := deleteBookingHandler.NewHandler(bookingSvc, log)
	updateBooking := updateBookingHandler.NewHandler(updateBookingUseCase, log)
	getSettings := getSettingsHandler.NewHandler(settingsSvc, log)
	updateSettings := updateSettingsHandler.NewHandler(settingsSvc, log)

	trustedProxies, err := cfg.RateLimit.TrustedProxyPrefixes()
	if err != nil {
		return err
	}
	rateLimiter := middleware.NewRateLimiter(cfg.RateLimit.BookingsPerMinute, cfg.RateLimit.Burst, trustedProxies, log)

	// Настраиваем роутер
	r := mux.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Logging(log))

	if cfg.Metrics.Enabled {
		r.Use(middleware.Metrics(metricsCollector))
		r.Handle(cfg.Metrics.Path, promhttp.Handler()).Methods(http.MethodGet)
		log.Info("Prometheus metrics endpoint exposed at %s", cfg.Metrics.Path)
	}

	api := r.PathPrefix("/api/v1").Subrouter()

	// ============================================================
	// PUBLIC ROUTES
	// ============================================================

	api.HandleFunc("/slots", getAvailableSlots.Handle).Methods(http.MethodGet)
	api.HandleFunc("/slots/next-available-date", getAvailableSlots.HandleNextAvailableDate).Methods(http.MethodGet)
	api.HandleFunc("/slots/validate", validateSlot.Handle).Methods(http.MethodGet)
	api.HandleFunc("/settings", getSettings.Handle).Methods(http.MethodGet)

	// Создание записи ограничено по IP
	api.Handle("/bookings", rateLimiter.Limit(http.HandlerFunc(createBooking.Handle))).Methods(http.MethodPost)

	// ============================================================
	// ADMIN ROUTES (Bearer JWT с ролью admin)
	// ============================================================

	admin := api.PathPrefix("/admin").Subrouter()
	admin.Use(middleware.Auth([]byte(cfg.Auth.JWTSecret), log))

	admin.HandleFunc("/slots", getAdminSlots.Handle).Methods(http.MethodGet)
	admin.HandleFunc("/bookings", listBookings.Handle).Methods(http.MethodGet)
	// counts регистрируется раньше {bookingId}
	admin.HandleFunc("/bookings/counts", bookingCounts.Handle).Methods(http.MethodGet)
	admin.HandleFunc("/bookings/{bookingId}", getBooking.Handle).Methods(http.MethodGet)
	admin.HandleFunc("/bookings/{bookingId}", updateBooking.Handle).Methods(http.MethodPatch)
	admin.HandleFunc("/bookings/{bookingId}", deleteBooking.Handle).Methods(http.MethodDelete)
	admin.HandleFunc("/bookings/{bookingId}/cancel", cancelBooking.Handle).Methods(http.MethodPatch)
	admin.HandleFunc("/settings", updateSettings.Handle).Methods(http.MethodPut)

	// Создаем HTTP сервер
	addr := fmt.Sprintf(":%d", cfg.Server.HTTPPort)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		IdleTimeout:  time.Duration(cfg.Server.IdleTimeout) * time.Second,
	}

	stopCleanup := make(chan struct{})
	go func() {
		ticker := time.NewTicker(rateLimiterCleanupInterval)
		defer ticker.Stop()
		for {
			select {
			case now := <-ticker.C:
				rateLimiter.Cleanup(now)
			case <-stopCleanup:
				return
			}
		}
	}()

	serverErr := make(chan error, 1)
	go func() {
		log.Info("Starting server on %s", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	// Ожидаем сигнал завершения
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-quit:
	case err := <-serverErr:
		close(stopCleanup)
		return fmt.Errorf("server failed to start: %w", err)
	}

	log.Info("Shutting down server...")
	close(stopCleanup)

	shutdownCtx, cancel := context.WithTimeout(
		context.Background(),
		time.Duration(cfg.Server.ShutdownTimeout)*time.Second,
	)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown: %v", err)
	}

	log.Info("Server stopped gracefully")
	return nil
}
