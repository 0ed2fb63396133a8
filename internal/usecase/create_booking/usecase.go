package create_booking

import (
	"context"
	"errors"
	"fmt"

	"github.com/KKKircheff/Auto-Bosch-GTP/internal/calendar"
	"github.com/KKKircheff/Auto-Bosch-GTP/internal/domain"
	"github.com/KKKircheff/Auto-Bosch-GTP/internal/infra/storage"
	"github.com/KKKircheff/Auto-Bosch-GTP/pkg/metrics"
	"github.com/KKKircheff/Auto-Bosch-GTP/pkg/txmanager"
)

// UseCase use case создания записи
// Ключ записи выводится из (дата, время), поэтому "слот занят" равносильно
// "документ с этим ключом существует". Проверка и вставка выполняются
// в одной сериализуемой транзакции, других блокировок нет
type UseCase struct {
	bookingRepo  BookingRepository
	settings     SettingsProvider
	txManager    TransactionManager
	publisher    EventPublisher
	counts       CountsInvalidator
	metrics      Metrics
	timeProvider TimeProvider
	logger       Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	bookingRepo BookingRepository,
	settings SettingsProvider,
	txManager TransactionManager,
	publisher EventPublisher,
	counts CountsInvalidator,
	metrics Metrics,
	timeProvider TimeProvider,
	logger Logger,
) *UseCase {
	return &UseCase{
		bookingRepo:  bookingRepo,
		settings:     settings,
		txManager:    txManager,
		publisher:    publisher,
		counts:       counts,
		metrics:      metrics,
		timeProvider: timeProvider,
		logger:       logger,
	}
}

// Execute выполняет use case создания записи
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	resp, err := uc.execute(ctx, req)
	uc.metrics.ObserveReservation(outcome(err))
	return resp, err
}

func (uc *UseCase) execute(ctx context.Context, req *Request) (*Response, error) {
	// 1. Валидация данных формы
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("CreateBooking: validation failed: %v", err)
		return nil, err
	}

	date := domain.DateOf(req.AppointmentDate)
	id := domain.BookingIdentity(date, req.AppointmentTime)

	uc.logger.Info("CreateBooking: id=%s, vehicle=%s, online=%t", id, req.VehicleType, req.IsOnline)

	// 2. Настройки и текущее время
	settings, err := uc.settings.Get(ctx)
	if err != nil {
		uc.logger.Error("CreateBooking: failed to get settings: %v", err)
		return nil, fmt.Errorf("%w: failed to get settings: %v", ErrInternal, err)
	}
	now := uc.timeProvider.Now()

	// 3. Дата и время должны быть слотом из сетки
	if err := calendar.ValidateSlot(date, req.AppointmentTime, now, settings); err != nil {
		uc.logger.Warn("CreateBooking: slot %s rejected: %v", id, err)
		return nil, mapSlotError(err)
	}

	// 4. Цена по типу транспортного средства
	price, err := settings.PriceFor(req.VehicleType, req.IsOnline)
	if err != nil {
		uc.logger.Warn("CreateBooking: price failed: %v", err)
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	// 5. Быстрая проверка без транзакции: отсекает заведомо устаревший выбор слота
	if existing, err := uc.bookingRepo.GetByID(ctx, id); err == nil && existing.OccupiesSlot() {
		uc.logger.Warn("CreateBooking: slot %s is already booked (pre-check)", id)
		return nil, ErrSlotNotAvailable
	} else if err != nil && !errors.Is(err, storage.ErrBookingNotFound) {
		uc.logger.Warn("CreateBooking: pre-check for %s failed, continuing: %v", id, err)
	}

	booking := newBooking(req, id, price, now)

	// 6. Чтение и запись по ключу в одной сериализуемой транзакции
	err = uc.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		existing, err := uc.bookingRepo.GetByID(txCtx, id)
		if err != nil && !errors.Is(err, storage.ErrBookingNotFound) {
			return fmt.Errorf("%w: failed to read slot %s: %w", ErrInternal, id, err)
		}

		switch {
		case existing == nil:
			_, err = uc.bookingRepo.Create(txCtx, booking)
		case existing.OccupiesSlot():
			return ErrSlotNotAvailable
		default:
			// Отмененная запись слот не занимает: перезаписываем ее
			uc.logger.Info("CreateBooking: replacing cancelled booking %s", id)
			_, err = uc.bookingRepo.Replace(txCtx, booking)
		}

		if errors.Is(err, storage.ErrBookingExists) {
			return ErrSlotNotAvailable
		}
		if err != nil {
			return fmt.Errorf("%w: failed to write booking %s: %w", ErrInternal, id, err)
		}
		return nil
	})

	switch {
	case err == nil:
	case errors.Is(err, ErrSlotNotAvailable),
		errors.Is(err, storage.ErrBookingExists),
		errors.Is(err, txmanager.ErrDuplicateKey):
		uc.logger.Warn("CreateBooking: slot %s is not available", id)
		return nil, ErrSlotNotAvailable
	case errors.Is(err, txmanager.ErrRetriesExhausted):
		uc.logger.Error("CreateBooking: transaction conflicts for %s: %v", id, err)
		return nil, fmt.Errorf("%w: %v", ErrInternal, err)
	case errors.Is(err, ErrInternal):
		uc.logger.Error("CreateBooking: %v", err)
		return nil, err
	default:
		uc.logger.Error("CreateBooking: transaction failed for %s: %v", id, err)
		return nil, fmt.Errorf("%w: %v", ErrInternal, err)
	}

	// 7. Номер подтверждения из даты и хвоста ключа
	confirmation := domain.ConfirmationNumber(date, id)
	uc.logger.Info("CreateBooking: created id=%s, confirmation=%s, price=%.2f", id, confirmation, price)

	uc.afterCommit(ctx, booking, confirmation)

	return &Response{
		BookingID:          id,
		ConfirmationNumber: confirmation,
		Price:              price,
		Booking:            booking,
	}, nil
}

// afterCommit побочные эффекты после фиксации: событие и сброс кеша счетчиков
// Их ошибки логируются и не влияют на результат
func (uc *UseCase) afterCommit(ctx context.Context, booking *domain.Booking, confirmation string) {
	if err := uc.publisher.Publish(ctx, createdEvent(booking, confirmation, uc.timeProvider.Now())); err != nil {
		uc.logger.Warn("CreateBooking: failed to publish event for %s: %v", booking.ID, err)
	}
	if err := uc.counts.Invalidate(ctx); err != nil {
		uc.logger.Warn("CreateBooking: failed to invalidate counts cache: %v", err)
	}
}

func outcome(err error) string {
	switch {
	case err == nil:
		return metrics.ReservationCreated
	case errors.Is(err, ErrSlotNotAvailable):
		return metrics.ReservationSlotUnavailable
	case errors.Is(err, ErrInternal):
		return metrics.ReservationError
	default:
		return metrics.ReservationInvalid
	}
}
