package create_booking

import "errors"

var (
	// ErrInvalidInput возвращается при некорректных данных формы
	ErrInvalidInput = errors.New("create_booking: invalid input data")

	// ErrInvalidDate возвращается, когда дата в прошлом
	ErrInvalidDate = errors.New("create_booking: invalid booking date")

	// ErrDateNotBookable возвращается для нерабочего, закрытого дня или даты вне окна бронирования
	ErrDateNotBookable = errors.New("create_booking: date is not bookable")

	// ErrInvalidTimeSlot возвращается, когда время не является началом слота или слот уже начался
	ErrInvalidTimeSlot = errors.New("create_booking: invalid time slot")

	// ErrSlotNotAvailable возвращается, когда слот уже занят
	ErrSlotNotAvailable = errors.New("create_booking: slot is not available")

	// ErrInternal возвращается при внутренних ошибках usecase (в том числе исчерпаны повторы транзакции)
	ErrInternal = errors.New("create_booking: internal error")
)
