package domain

import (
	"time"

	"github.com/KKKircheff/Auto-Bosch-GTP/pkg/types"
)

// Slot временной слот фиксированной длительности в конкретную дату
// Слоты не хранятся, а каждый раз вычисляются из настроек и записей
type Slot struct {
	Date      time.Time
	Time      types.TimeString
	Available bool

	// Заполняется, если слот занят записью (для админ-панели)
	BookingID string
	Booking   *SlotBooking
}

// SlotBooking краткие данные записи, занимающей слот
type SlotBooking struct {
	CustomerName      string
	Phone             string
	RegistrationPlate string
	VehicleType       VehicleType
}

// IsOccupied возвращает true, если слот занят записью
// (недоступный слот без записи - это уже прошедшее сегодня время)
func (s *Slot) IsOccupied() bool {
	return s.BookingID != ""
}
