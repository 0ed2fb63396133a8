package get_available_slots

import (
	"time"

	getAvailableSlots "github.com/KKKircheff/Auto-Bosch-GTP/internal/usecase/get_available_slots"
)

// AvailableSlot модель временного слота
type AvailableSlot struct {
	Time      string       `json:"time"`
	Available bool         `json:"available"`
	BookingID string       `json:"bookingId,omitempty"`
	Booking   *SlotBooking `json:"booking,omitempty"`
}

// SlotBooking данные записи в занятом слоте (только в админ-панели)
type SlotBooking struct {
	CustomerName      string `json:"customerName"`
	Phone             string `json:"phone"`
	RegistrationPlate string `json:"registrationPlate"`
	VehicleType       string `json:"vehicleType"`
}

// NextAvailableDateResponse HTTP response model
type NextAvailableDateResponse struct {
	Date string `json:"date"`
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response.
// Дата не повторяется в ответе: клиент передал ее в запросе
func FromUseCaseResponse(resp *getAvailableSlots.Response) []AvailableSlot {
	slots := make([]AvailableSlot, len(resp.Slots))
	for i, slot := range resp.Slots {
		slots[i] = AvailableSlot{
			Time:      slot.Time.String(),
			Available: slot.Available,
			BookingID: slot.BookingID,
		}
		if slot.Booking != nil {
			slots[i].Booking = &SlotBooking{
				CustomerName:      slot.Booking.CustomerName,
				Phone:             slot.Booking.Phone,
				RegistrationPlate: slot.Booking.RegistrationPlate,
				VehicleType:       string(slot.Booking.VehicleType),
			}
		}
	}

	return slots
}

// ToUseCaseRequest создает запрос use case из query параметров
func ToUseCaseRequest(date time.Time, includeDetails bool) *getAvailableSlots.Request {
	return &getAvailableSlots.Request{
		Date:                  date,
		IncludeBookingDetails: includeDetails,
	}
}
