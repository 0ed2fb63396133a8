package get_available_slots

import (
	"github.com/KKKircheff/Auto-Bosch-GTP/internal/domain"
	"github.com/KKKircheff/Auto-Bosch-GTP/pkg/types"
)

// bookedTimes возвращает времена слотов, занятых подтвержденными записями
func bookedTimes(bookings []*domain.Booking) []types.TimeString {
	times := make([]types.TimeString, 0, len(bookings))
	for _, b := range bookings {
		if b.OccupiesSlot() {
			times = append(times, b.AppointmentTime)
		}
	}
	return times
}

// attachBookings связывает занятые слоты с записями
// Краткие данные клиента прикладываются только при includeDetails
func attachBookings(slots []domain.Slot, bookings []*domain.Booking, includeDetails bool) []domain.Slot {
	byTime := make(map[types.TimeString]*domain.Booking, len(bookings))
	for _, b := range bookings {
		if b.OccupiesSlot() {
			byTime[b.AppointmentTime] = b
		}
	}

	for i := range slots {
		b, ok := byTime[slots[i].Time]
		if !ok {
			continue
		}

		slots[i].BookingID = b.ID
		if includeDetails {
			slots[i].Booking = &domain.SlotBooking{
				CustomerName:      b.CustomerName,
				Phone:             b.Phone,
				RegistrationPlate: b.RegistrationPlate,
				VehicleType:       b.VehicleType,
			}
		}
	}

	return slots
}
