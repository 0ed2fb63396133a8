package bookings

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/KKKircheff/Auto-Bosch-GTP/internal/calendar"
	"github.com/KKKircheff/Auto-Bosch-GTP/internal/domain"
	"github.com/KKKircheff/Auto-Bosch-GTP/internal/infra/storage"
	"github.com/KKKircheff/Auto-Bosch-GTP/internal/integrations/notifier"
	"github.com/KKKircheff/Auto-Bosch-GTP/internal/service/bookings/models"
	"github.com/KKKircheff/Auto-Bosch-GTP/pkg/ptr"
	"github.com/KKKircheff/Auto-Bosch-GTP/pkg/types"
)

// MaxRangeDays максимальная длина периода выборки записей
const MaxRangeDays = 366

// Service сервис для работы с записями
type Service struct {
	bookingRepo  BookingRepository
	settings     SettingsProvider
	txManager    TransactionManager
	publisher    EventPublisher
	counts       CountsCache
	timeProvider TimeProvider
	logger       Logger
}

// NewService создает новый экземпляр сервиса записей
func NewService(
	bookingRepo BookingRepository,
	settings SettingsProvider,
	txManager TransactionManager,
	publisher EventPublisher,
	counts CountsCache,
	timeProvider TimeProvider,
	logger Logger,
) *Service {
	return &Service{
		bookingRepo:  bookingRepo,
		settings:     settings,
		txManager:    txManager,
		publisher:    publisher,
		counts:       counts,
		timeProvider: timeProvider,
		logger:       logger,
	}
}

// GetByID получает запись по ключу
func (s *Service) GetByID(ctx context.Context, id string) (*models.BookingResponse, error) {
	s.logger.Info("GetByID: fetching booking id=%s", id)

	if _, _, err := domain.ParseBookingIdentity(id); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	booking, err := s.bookingRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, storage.ErrBookingNotFound) {
			s.logger.Warn("GetByID: booking id=%s not found", id)
			return nil, ErrBookingNotFound
		}
		s.logger.Error("GetByID: repository error for booking id=%s: %v", id, err)
		return nil, fmt.Errorf("%w: GetByID - repository error: %v", ErrInternal, err)
	}

	return models.FromDomainBooking(booking), nil
}

// List получает записи за период, отсортированные по дате и времени
// Опционально фильтрует по статусу
func (s *Service) List(ctx context.Context, req *models.ListBookingsRequest) (*models.BookingListResponse, error) {
	logMsg := fmt.Sprintf("List: fetching bookings for period=%s to %s",
		req.StartDate.Format(domain.DateFormat), req.EndDate.Format(domain.DateFormat))
	if req.Status != nil {
		logMsg += fmt.Sprintf(", status=%s", *req.Status)
	}
	s.logger.Info(logMsg)

	if err := validateRange(req.StartDate, req.EndDate); err != nil {
		s.logger.Warn("List: %v", err)
		return nil, err
	}

	filter, err := req.ToDomainFilter()
	if err != nil {
		s.logger.Warn("List: invalid filter: %v", err)
		return nil, fmt.Errorf("%w: invalid status", ErrInvalidInput)
	}

	bookings, err := s.bookingRepo.GetByDateRange(ctx, filter)
	if err != nil {
		s.logger.Error("List: repository error: %v", err)
		return nil, fmt.Errorf("%w: List - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("List: successfully fetched %d bookings", len(bookings))
	return models.FromDomainBookingList(bookings), nil
}

// Cancel отменяет запись, освобождая ее слот
// Повторная отмена и отмена несуществующей записи не являются ошибкой
func (s *Service) Cancel(ctx context.Context, id string, req *models.CancelBookingRequest) error {
	s.logger.Info("Cancel: cancelling booking id=%s", id)

	if _, _, err := domain.ParseBookingIdentity(id); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	reason := ""
	if req != nil {
		reason = strings.TrimSpace(req.CancellationReason)
	}
	if utf8.RuneCountInString(reason) > domain.MaxCancellationReason {
		return fmt.Errorf("%w: cancellation reason is too long", ErrInvalidInput)
	}

	var cancelled *domain.Booking
	err := s.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		booking, err := s.bookingRepo.GetByID(txCtx, id)
		if err != nil {
			return err
		}

		if booking.IsCancelled() {
			return nil
		}

		now := s.timeProvider.Now().UTC()
		booking.Status = domain.StatusCancelled
		booking.CancellationReason = reason
		booking.CancelledAt = &now
		booking.UpdatedAt = &now

		if _, err := s.bookingRepo.Update(txCtx, booking); err != nil {
			return err
		}
		cancelled = booking
		return nil
	})
	if err != nil {
		if errors.Is(err, storage.ErrBookingNotFound) {
			s.logger.Warn("Cancel: booking id=%s not found, nothing to cancel", id)
			return nil
		}
		s.logger.Error("Cancel: failed to cancel booking id=%s: %v", id, err)
		return fmt.Errorf("%w: Cancel - repository error: %v", ErrInternal, err)
	}

	if cancelled == nil {
		s.logger.Warn("Cancel: booking id=%s is already cancelled", id)
		return nil
	}

	s.logger.Info("Cancel: successfully cancelled booking id=%s", id)
	s.afterMutation(ctx, notifier.EventBookingCancelled, cancelled, reason)
	return nil
}

// Delete удаляет запись
// Удаление несуществующей записи не является ошибкой
func (s *Service) Delete(ctx context.Context, id string) error {
	s.logger.Info("Delete: deleting booking id=%s", id)

	date, t, err := domain.ParseBookingIdentity(id)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	if err := s.bookingRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, storage.ErrBookingNotFound) {
			s.logger.Warn("Delete: booking id=%s not found, nothing to delete", id)
			return nil
		}
		s.logger.Error("Delete: repository error for booking id=%s: %v", id, err)
		return fmt.Errorf("%w: Delete - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("Delete: successfully deleted booking id=%s", id)
	s.afterMutation(ctx, notifier.EventBookingDeleted, &domain.Booking{
		ID:              id,
		AppointmentDate: date,
		AppointmentTime: t,
	}, "")
	return nil
}

// IsTimeSlotAvailable проверяет, что на слот можно записаться прямо сейчас
// Проверка не транзакционная: окончательное решение принимает транзакция резервирования
func (s *Service) IsTimeSlotAvailable(ctx context.Context, date time.Time, t types.TimeString) (bool, error) {
	date = domain.DateOf(date)
	id := domain.BookingIdentity(date, t)

	settings, err := s.settings.Get(ctx)
	if err != nil {
		s.logger.Error("IsTimeSlotAvailable: failed to get settings: %v", err)
		return false, fmt.Errorf("%w: failed to get settings: %v", ErrInternal, err)
	}

	if err := calendar.ValidateSlot(date, t, s.timeProvider.Now(), settings); err != nil {
		s.logger.Info("IsTimeSlotAvailable: slot %s is not bookable: %v", id, err)
		return false, nil
	}

	booking, err := s.bookingRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, storage.ErrBookingNotFound) {
			return true, nil
		}
		s.logger.Error("IsTimeSlotAvailable: repository error for slot %s: %v", id, err)
		return false, fmt.Errorf("%w: IsTimeSlotAvailable - repository error: %v", ErrInternal, err)
	}

	return !booking.OccupiesSlot(), nil
}

// GetAppointmentCounts возвращает количество подтвержденных записей по дням за период
// Счетчики берутся из кеша; при сбое хранилища возвращается пустой результат
func (s *Service) GetAppointmentCounts(ctx context.Context, from, to time.Time) (map[string]int, error) {
	from, to = domain.DateOf(from), domain.DateOf(to)
	if err := validateRange(from, to); err != nil {
		return nil, err
	}

	fromKey, toKey := from.Format(domain.DateFormat), to.Format(domain.DateFormat)

	cached, version, ok, cacheErr := s.counts.Get(ctx, fromKey, toKey)
	if cacheErr != nil {
		s.logger.Warn("GetAppointmentCounts: cache unavailable: %v", cacheErr)
	}
	if ok {
		return cached, nil
	}

	bookings, err := s.bookingRepo.GetByDateRange(ctx, domain.BookingsFilter{
		StartDate: from,
		EndDate:   to,
		Status:    ptr.Ptr(domain.StatusConfirmed),
	})
	if err != nil {
		s.logger.Error("GetAppointmentCounts: repository error for %s..%s: %v", fromKey, toKey, err)
		return map[string]int{}, nil
	}

	counts := make(map[string]int)
	for _, b := range bookings {
		counts[b.AppointmentDate.Format(domain.DateFormat)]++
	}

	// Кешируем только под версией, прочитанной до запроса к хранилищу
	if cacheErr == nil {
		if err := s.counts.Set(ctx, fromKey, toKey, version, counts); err != nil {
			s.logger.Warn("GetAppointmentCounts: failed to cache counts: %v", err)
		}
	}

	return counts, nil
}

// Вспомогательные методы

func validateRange(from, to time.Time) error {
	if from.IsZero() || to.IsZero() {
		return fmt.Errorf("%w: both dates are required", ErrInvalidTimeRange)
	}
	if to.Before(from) {
		return fmt.Errorf("%w: end date is before start date", ErrInvalidTimeRange)
	}
	if to.Sub(from) > MaxRangeDays*24*time.Hour {
		return fmt.Errorf("%w: period is longer than %d days", ErrInvalidTimeRange, MaxRangeDays)
	}
	return nil
}

// afterMutation публикует событие и сбрасывает кеш счетчиков; ошибки только логируются
func (s *Service) afterMutation(ctx context.Context, eventType notifier.EventType, b *domain.Booking, reason string) {
	event := notifier.Event{
		Type:            eventType,
		BookingID:       b.ID,
		AppointmentDate: b.AppointmentDate.Format(domain.DateFormat),
		AppointmentTime: b.AppointmentTime.String(),
		CustomerName:    b.CustomerName,
		Phone:           b.Phone,
		Email:           b.Email,
		Reason:          reason,
		OccurredAt:      s.timeProvider.Now().UTC(),
	}
	if err := s.publisher.Publish(ctx, event); err != nil {
		s.logger.Warn("%s: failed to publish event for %s: %v", eventType, b.ID, err)
	}
	if err := s.counts.Invalidate(ctx); err != nil {
		s.logger.Warn("%s: failed to invalidate counts cache: %v", eventType, err)
	}
}
