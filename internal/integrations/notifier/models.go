package notifier

import "time"

// EventType тип события жизненного цикла записи
type EventType string

const (
	EventBookingCreated   EventType = "booking.created"
	EventBookingUpdated   EventType = "booking.updated"
	EventBookingCancelled EventType = "booking.cancelled"
	EventBookingDeleted   EventType = "booking.deleted"
)

// Event событие, публикуемое в брокер (routing key = Type)
type Event struct {
	Type               EventType `json:"type"`
	BookingID          string    `json:"bookingId"`
	PreviousBookingID  string    `json:"previousBookingId,omitempty"`
	ConfirmationNumber string    `json:"confirmationNumber,omitempty"`
	AppointmentDate    string    `json:"appointmentDate,omitempty"`
	AppointmentTime    string    `json:"appointmentTime,omitempty"`
	CustomerName       string    `json:"customerName,omitempty"`
	Phone              string    `json:"phone,omitempty"`
	Email              string    `json:"email,omitempty"`
	VehicleType        string    `json:"vehicleType,omitempty"`
	Price              float64   `json:"price,omitempty"`
	Reason             string    `json:"reason,omitempty"`
	OccurredAt         time.Time `json:"occurredAt"`
}
