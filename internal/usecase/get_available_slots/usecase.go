package get_available_slots

import (
	"context"
	"fmt"
	"time"

	"github.com/KKKircheff/Auto-Bosch-GTP/internal/calendar"
	"github.com/KKKircheff/Auto-Bosch-GTP/internal/domain"
	"github.com/KKKircheff/Auto-Bosch-GTP/pkg/ptr"
)

// UseCase use case для получения сетки слотов на дату
type UseCase struct {
	bookingRepo  BookingRepository
	settings     SettingsProvider
	timeProvider TimeProvider
	logger       Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	bookingRepo BookingRepository,
	settings SettingsProvider,
	timeProvider TimeProvider,
	logger Logger,
) *UseCase {
	return &UseCase{
		bookingRepo:  bookingRepo,
		settings:     settings,
		timeProvider: timeProvider,
		logger:       logger,
	}
}

// Execute возвращает слоты на дату с отметкой занятости
// Для неподходящей даты (выходной, прошлое, вне окна, закрытый день) возвращает пустой список.
// При ошибке хранилища возвращает ErrInternal вместе с пустым списком слотов
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("GetAvailableSlots: validation failed: %v", err)
		return nil, err
	}

	date := domain.DateOf(req.Date)
	empty := &Response{Date: date, Slots: []domain.Slot{}}

	uc.logger.Info("GetAvailableSlots: date=%s", date.Format(domain.DateFormat))

	settings, err := uc.settings.Get(ctx)
	if err != nil {
		uc.logger.Error("GetAvailableSlots: failed to get settings: %v", err)
		return empty, fmt.Errorf("%w: failed to get settings: %v", ErrInternal, err)
	}

	// Текущее время берется при каждом вызове: прошедшие сегодня слоты меняются со временем
	now := uc.timeProvider.Now()

	if !calendar.IsBookableDateFor(date, now, settings) {
		uc.logger.Info("GetAvailableSlots: date %s is not bookable", date.Format(domain.DateFormat))
		return empty, nil
	}

	bookings, err := uc.bookingRepo.GetByDateRange(ctx, domain.BookingsFilter{
		StartDate: date,
		EndDate:   date,
		Status:    ptr.Ptr(domain.StatusConfirmed),
	})
	if err != nil {
		uc.logger.Error("GetAvailableSlots: failed to get bookings for %s: %v", date.Format(domain.DateFormat), err)
		return empty, fmt.Errorf("%w: failed to get bookings: %v", ErrInternal, err)
	}

	slots := calendar.GenerateTimeSlots(date, now, bookedTimes(bookings), settings)
	slots = attachBookings(slots, bookings, req.IncludeBookingDetails)

	uc.logger.Info("GetAvailableSlots: generated %d slots for %s, %d booked",
		len(slots), date.Format(domain.DateFormat), len(bookings))

	return &Response{Date: date, Slots: slots}, nil
}

// NextAvailableDate возвращает первую дату, на которую можно записаться
func (uc *UseCase) NextAvailableDate(ctx context.Context) (time.Time, error) {
	settings, err := uc.settings.Get(ctx)
	if err != nil {
		uc.logger.Error("NextAvailableDate: failed to get settings: %v", err)
		return time.Time{}, fmt.Errorf("%w: failed to get settings: %v", ErrInternal, err)
	}

	next := calendar.GetNextAvailableDate(uc.timeProvider.Now(), settings)
	uc.logger.Info("NextAvailableDate: %s", next.Format(domain.DateFormat))

	return next, nil
}
