package update_booking

import "errors"

var (
	// ErrBookingNotFound возвращается, когда записи нет
	ErrBookingNotFound = errors.New("update_booking: booking not found")

	// ErrInvalidInput возвращается при некорректных данных обновления
	ErrInvalidInput = errors.New("update_booking: invalid input data")

	// ErrInvalidDate возвращается, когда новая дата в прошлом
	ErrInvalidDate = errors.New("update_booking: invalid booking date")

	// ErrDateNotBookable возвращается, когда на новую дату нельзя записаться
	ErrDateNotBookable = errors.New("update_booking: date is not bookable")

	// ErrInvalidTimeSlot возвращается, когда новое время не является началом слота
	ErrInvalidTimeSlot = errors.New("update_booking: invalid time slot")

	// ErrSlotNotAvailable возвращается, когда новый слот занят
	ErrSlotNotAvailable = errors.New("update_booking: slot is not available")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("update_booking: internal error")
)
