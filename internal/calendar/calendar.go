// Package calendar содержит чистые функции расчета сетки слотов и правил
// доступности дат. Пакет не выполняет ввода-вывода и не читает глобальное
// состояние: текущее время и настройки всегда передаются явно.
package calendar

import (
	"time"

	"github.com/KKKircheff/Auto-Bosch-GTP/internal/domain"
	"github.com/KKKircheff/Auto-Bosch-GTP/pkg/types"
)

const daysPerWeek = 7

// Day возвращает календарную дату t (в часовом поясе t) как 00:00 UTC
func Day(t time.Time) time.Time {
	return domain.DateOf(t)
}

// Today возвращает сегодняшнюю дату в часовом поясе now
func Today(now time.Time) time.Time {
	return Day(now)
}

// IsSameDay проверяет, что две даты относятся к одному и тому же дню
func IsSameDay(a, b time.Time) bool {
	return Day(a).Equal(Day(b))
}

// IsWorkingDay true, если день недели даты входит в рабочие дни
// Пустой список означает рабочие дни по умолчанию (пн-пт)
func IsWorkingDay(date time.Time, workingDays []time.Weekday) bool {
	if len(workingDays) == 0 {
		workingDays = domain.DefaultWorkingDays
	}

	weekday := Day(date).Weekday()
	for _, d := range workingDays {
		if d == weekday {
			return true
		}
	}
	return false
}

// IsPastDate true, если дата строго раньше сегодняшнего дня
func IsPastDate(date, now time.Time) bool {
	return Day(date).Before(Today(now))
}

// IsClosedDay true, если дата совпадает с одним из нерабочих дней
func IsClosedDay(date time.Time, closedDays []time.Time) bool {
	day := Day(date)
	for _, closed := range closedDays {
		if Day(closed).Equal(day) {
			return true
		}
	}
	return false
}

// IsWithinBookingWindow true, если today <= date <= today + windowWeeks недель (включительно)
func IsWithinBookingWindow(date, now time.Time, windowWeeks int) bool {
	day := Day(date)
	today := Today(now)
	return !day.Before(today) && !day.After(WindowEnd(now, windowWeeks))
}

// WindowEnd последний день окна бронирования
func WindowEnd(now time.Time, windowWeeks int) time.Time {
	return Today(now).AddDate(0, 0, windowWeeks*daysPerWeek)
}

// IsBookableDate рабочий день, не в прошлом, в окне бронирования и не закрыт
func IsBookableDate(date, now time.Time, workingDays []time.Weekday, windowWeeks int, closedDays []time.Time) bool {
	return IsWorkingDay(date, workingDays) &&
		!IsPastDate(date, now) &&
		IsWithinBookingWindow(date, now, windowWeeks) &&
		!IsClosedDay(date, closedDays)
}

// IsBookableDateFor то же, что IsBookableDate, но с параметрами из снимка настроек
func IsBookableDateFor(date, now time.Time, s *domain.BusinessSettings) bool {
	return IsBookableDate(date, now, s.WorkingDays, s.BookingWindowWeeks, s.ClosedDays)
}

// SlotTimes делит рабочее время [start, end) на интервалы фиксированной длительности
// Слот, начинающийся ровно в end, не генерируется; слот, не помещающийся целиком, тоже
func SlotTimes(hours domain.WorkingHours, slotDurationMinutes int) []types.TimeString {
	start := hours.Start.Minutes()
	end := hours.End.Minutes()
	if start < 0 || end < 0 || slotDurationMinutes <= 0 {
		return []types.TimeString{}
	}

	result := make([]types.TimeString, 0, (end-start)/slotDurationMinutes)
	for m := start; m+slotDurationMinutes <= end; m += slotDurationMinutes {
		t, err := types.TimeStringFromMinutes(m)
		if err != nil {
			break
		}
		result = append(result, t)
	}
	return result
}

// IsSlotOnGrid true, если время совпадает с началом одного из слотов сетки
func IsSlotOnGrid(t types.TimeString, hours domain.WorkingHours, slotDurationMinutes int) bool {
	for _, slot := range SlotTimes(hours, slotDurationMinutes) {
		if slot == t {
			return true
		}
	}
	return false
}

// HasElapsed true, если начало слота в указанную дату уже наступило
// Сравнение идет с переданным now в его часовом поясе
func HasElapsed(date time.Time, t types.TimeString, now time.Time) bool {
	start := t.On(Day(date), now.Location())
	return !start.After(now)
}

// GenerateTimeSlots возвращает упорядоченную сетку слотов на дату
// Для неподходящей даты возвращает пустой список.
// Слот недоступен, если его время есть в bookedTimes или (только для сегодняшней даты)
// его начало уже наступило
func GenerateTimeSlots(date, now time.Time, bookedTimes []types.TimeString, s *domain.BusinessSettings) []domain.Slot {
	if !IsBookableDateFor(date, now, s) {
		return []domain.Slot{}
	}

	booked := make(map[types.TimeString]struct{}, len(bookedTimes))
	for _, t := range bookedTimes {
		booked[t] = struct{}{}
	}

	day := Day(date)
	isToday := IsSameDay(day, now)

	times := SlotTimes(s.WorkingHours, s.SlotDurationMinutes)
	slots := make([]domain.Slot, 0, len(times))
	for _, t := range times {
		_, taken := booked[t]
		available := !taken
		if available && isToday && HasElapsed(day, t, now) {
			available = false
		}

		slots = append(slots, domain.Slot{
			Date:      day,
			Time:      t,
			Available: available,
		})
	}

	return slots
}

// BusinessHoursElapsed true, если сегодня не осталось ни одного слота, который еще не начался
func BusinessHoursElapsed(now time.Time, s *domain.BusinessSettings) bool {
	times := SlotTimes(s.WorkingHours, s.SlotDurationMinutes)
	if len(times) == 0 {
		return true
	}
	return HasElapsed(Today(now), times[len(times)-1], now)
}

// GetNextAvailableDate ищет первую дату, на которую можно записаться
// Начинает с сегодняшнего дня (или с завтрашнего, если сегодня нерабочий день
// или рабочее время закончилось) и идет по дням до конца окна бронирования.
// Если подходящей даты нет, возвращает границу окна
func GetNextAvailableDate(now time.Time, s *domain.BusinessSettings) time.Time {
	today := Today(now)
	limit := WindowEnd(now, s.BookingWindowWeeks)

	start := today
	if !IsWorkingDay(today, s.WorkingDays) || BusinessHoursElapsed(now, s) {
		start = today.AddDate(0, 0, 1)
	}

	for d := start; !d.After(limit); d = d.AddDate(0, 0, 1) {
		if IsBookableDateFor(d, now, s) {
			return d
		}
	}

	return limit
}

// ValidateSlot проверяет, что на слот (date, t) можно записаться без учета занятости
func ValidateSlot(date time.Time, t types.TimeString, now time.Time, s *domain.BusinessSettings) error {
	if IsPastDate(date, now) {
		return ErrDateInPast
	}
	if !IsBookableDateFor(date, now, s) {
		return ErrDateNotBookable
	}
	if !IsSlotOnGrid(t, s.WorkingHours, s.SlotDurationMinutes) {
		return ErrTimeNotOnGrid
	}
	if IsSameDay(date, now) && HasElapsed(date, t, now) {
		return ErrSlotElapsed
	}
	return nil
}
