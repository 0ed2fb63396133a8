package calendar

import "errors"

var (
	// ErrDateInPast дата раньше сегодняшнего дня
	ErrDateInPast = errors.New("calendar: date is in the past")

	// ErrDateNotBookable дата нерабочая, закрыта или вне окна бронирования
	ErrDateNotBookable = errors.New("calendar: date is not bookable")

	// ErrTimeNotOnGrid время не совпадает с началом слота
	ErrTimeNotOnGrid = errors.New("calendar: time is not a slot start")

	// ErrSlotElapsed слот сегодня уже начался
	ErrSlotElapsed = errors.New("calendar: slot has already started")
)
