package update_booking

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/KKKircheff/Auto-Bosch-GTP/internal/calendar"
	"github.com/KKKircheff/Auto-Bosch-GTP/internal/domain"
	"github.com/KKKircheff/Auto-Bosch-GTP/internal/infra/storage"
	"github.com/KKKircheff/Auto-Bosch-GTP/internal/integrations/notifier"
	"github.com/KKKircheff/Auto-Bosch-GTP/pkg/txmanager"
	"github.com/KKKircheff/Auto-Bosch-GTP/pkg/types"
)

// UseCase use case изменения записи администратором
//
// Перенос на другой слот: сначала быстрая проверка занятости без транзакции,
// затем в одной транзакции создается запись по новому ключу (если он свободен)
// и удаляется запись по старому ключу
type UseCase struct {
	bookingRepo  BookingRepository
	settings     SettingsProvider
	txManager    TransactionManager
	publisher    EventPublisher
	counts       CountsInvalidator
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
	timeProvider TimeProvider,
	logger Logger,
) *UseCase {
	return &UseCase{
		bookingRepo:  bookingRepo,
		settings:     settings,
		txManager:    txManager,
		publisher:    publisher,
		counts:       counts,
		timeProvider: timeProvider,
		logger:       logger,
	}
}

// Execute выполняет use case изменения записи
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("UpdateBooking: validation failed: %v", err)
		return nil, err
	}

	uc.logger.Info("UpdateBooking: id=%s, changes slot=%t", req.ID, req.Patch.ChangesSlot())

	current, err := uc.bookingRepo.GetByID(ctx, req.ID)
	if err != nil {
		if errors.Is(err, storage.ErrBookingNotFound) {
			uc.logger.Warn("UpdateBooking: booking id=%s not found", req.ID)
			return nil, ErrBookingNotFound
		}
		uc.logger.Error("UpdateBooking: failed to get booking id=%s: %v", req.ID, err)
		return nil, fmt.Errorf("%w: failed to get booking: %v", ErrInternal, err)
	}

	settings, err := uc.settings.Get(ctx)
	if err != nil {
		uc.logger.Error("UpdateBooking: failed to get settings: %v", err)
		return nil, fmt.Errorf("%w: failed to get settings: %v", ErrInternal, err)
	}

	now := uc.timeProvider.Now()

	updated, err := applyPatch(current, req.Patch, settings)
	if err != nil {
		uc.logger.Warn("UpdateBooking: failed to apply patch to id=%s: %v", req.ID, err)
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	updatedAt := now.UTC()
	updated.UpdatedAt = &updatedAt

	// Новые дата и время (незаданные поля берутся из текущей записи)
	date := current.AppointmentDate
	if req.Patch.AppointmentDate != nil {
		date = domain.DateOf(*req.Patch.AppointmentDate)
	}
	t := current.AppointmentTime
	if req.Patch.AppointmentTime != nil {
		t = *req.Patch.AppointmentTime
	}
	newID := domain.BookingIdentity(date, t)

	resp := &Response{Booking: updated}

	if newID == current.ID {
		if _, err := uc.bookingRepo.Update(ctx, updated); err != nil {
			if errors.Is(err, storage.ErrBookingNotFound) {
				return nil, ErrBookingNotFound
			}
			uc.logger.Error("UpdateBooking: failed to update id=%s: %v", req.ID, err)
			return nil, fmt.Errorf("%w: failed to update booking: %v", ErrInternal, err)
		}
	} else {
		if err := uc.move(ctx, current, updated, date, t, newID, now, settings); err != nil {
			return nil, err
		}
		resp.PreviousID = current.ID
	}

	uc.logger.Info("UpdateBooking: updated id=%s (previous=%s)", updated.ID, resp.PreviousID)
	uc.afterCommit(ctx, updated, resp.PreviousID)

	return resp, nil
}

// move переносит запись на новый слот
func (uc *UseCase) move(
	ctx context.Context,
	current, updated *domain.Booking,
	date time.Time,
	t types.TimeString,
	newID string,
	now time.Time,
	settings *domain.BusinessSettings,
) error {
	if err := calendar.ValidateSlot(date, t, now, settings); err != nil {
		uc.logger.Warn("UpdateBooking: target slot %s rejected: %v", newID, err)
		return mapSlotError(err)
	}

	// Быстрая проверка без транзакции
	if existing, err := uc.bookingRepo.GetByID(ctx, newID); err == nil && existing.OccupiesSlot() {
		uc.logger.Warn("UpdateBooking: target slot %s is already booked", newID)
		return ErrSlotNotAvailable
	}

	updated.ID = newID
	updated.AppointmentDate = date
	updated.AppointmentTime = t

	err := uc.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		existing, err := uc.bookingRepo.GetByID(txCtx, newID)
		if err != nil && !errors.Is(err, storage.ErrBookingNotFound) {
			return fmt.Errorf("%w: failed to read slot %s: %w", ErrInternal, newID, err)
		}

		switch {
		case existing == nil:
			_, err = uc.bookingRepo.Create(txCtx, updated)
		case existing.OccupiesSlot():
			return ErrSlotNotAvailable
		default:
			_, err = uc.bookingRepo.Replace(txCtx, updated)
		}
		if errors.Is(err, storage.ErrBookingExists) {
			return ErrSlotNotAvailable
		}
		if err != nil {
			return fmt.Errorf("%w: failed to write booking %s: %w", ErrInternal, newID, err)
		}

		if err := uc.bookingRepo.Delete(txCtx, current.ID); err != nil {
			if errors.Is(err, storage.ErrBookingNotFound) {
				return ErrBookingNotFound
			}
			return fmt.Errorf("%w: failed to delete old booking %s: %w", ErrInternal, current.ID, err)
		}
		return nil
	})

	switch {
	case err == nil:
		return nil
	case errors.Is(err, ErrSlotNotAvailable), errors.Is(err, ErrBookingNotFound):
		uc.logger.Warn("UpdateBooking: move %s -> %s failed: %v", current.ID, newID, err)
		return err
	case errors.Is(err, txmanager.ErrDuplicateKey):
		uc.logger.Warn("UpdateBooking: slot %s was taken on commit", newID)
		return ErrSlotNotAvailable
	case errors.Is(err, ErrInternal):
		uc.logger.Error("UpdateBooking: %v", err)
		return err
	default:
		uc.logger.Error("UpdateBooking: transaction failed for %s -> %s: %v", current.ID, newID, err)
		return fmt.Errorf("%w: %v", ErrInternal, err)
	}
}

func (uc *UseCase) afterCommit(ctx context.Context, b *domain.Booking, previousID string) {
	event := notifier.Event{
		Type:              notifier.EventBookingUpdated,
		BookingID:         b.ID,
		PreviousBookingID: previousID,
		AppointmentDate:   b.AppointmentDate.Format(domain.DateFormat),
		AppointmentTime:   b.AppointmentTime.String(),
		CustomerName:      b.CustomerName,
		Phone:             b.Phone,
		Email:             b.Email,
		VehicleType:       string(b.VehicleType),
		Price:             b.Price,
		OccurredAt:        uc.timeProvider.Now().UTC(),
	}
	if err := uc.publisher.Publish(ctx, event); err != nil {
		uc.logger.Warn("UpdateBooking: failed to publish event for %s: %v", b.ID, err)
	}
	if err := uc.counts.Invalidate(ctx); err != nil {
		uc.logger.Warn("UpdateBooking: failed to invalidate counts cache: %v", err)
	}
}
