package create_booking

import (
	"errors"

	"github.com/KKKircheff/Auto-Bosch-GTP/internal/domain"
	createBooking "github.com/KKKircheff/Auto-Bosch-GTP/internal/usecase/create_booking"
	"github.com/KKKircheff/Auto-Bosch-GTP/pkg/types"
)

var (
	errInvalidDate = errors.New("invalid appointment date")
	errInvalidTime = errors.New("invalid appointment time")
)

// CreateBookingRequest HTTP request model
type CreateBookingRequest struct {
	CustomerName      string  `json:"customerName"`
	Phone             string  `json:"phone"`
	Email             *string `json:"email,omitempty"`
	RegistrationPlate string  `json:"registrationPlate"`
	VehicleType       string  `json:"vehicleType"`
	VehicleBrand      *string `json:"vehicleBrand,omitempty"`
	Is4x4             *bool   `json:"is4x4,omitempty"`
	AppointmentDate   string  `json:"appointmentDate"` // "2026-10-19"
	AppointmentTime   string  `json:"appointmentTime"` // "09:00"
	IsOnline          *bool   `json:"isOnline,omitempty"`
	Notes             *string `json:"notes,omitempty"`
}

// CreateBookingResponse HTTP response model
type CreateBookingResponse struct {
	BookingID          string  `json:"bookingId"`
	ConfirmationNumber string  `json:"confirmationNumber"`
	Price              float64 `json:"price"`
}

// ToUseCaseRequest конвертирует HTTP запрос в модель use case
// Запись из публичной формы считается онлайн-записью, если не указано иное
func (r *CreateBookingRequest) ToUseCaseRequest() (*createBooking.Request, error) {
	date, err := domain.ParseDate(r.AppointmentDate)
	if err != nil {
		return nil, errInvalidDate
	}

	t, err := types.NewTimeStringFromString(r.AppointmentTime)
	if err != nil {
		return nil, errInvalidTime
	}

	online := true
	if r.IsOnline != nil {
		online = *r.IsOnline
	}

	return &createBooking.Request{
		CustomerName:      r.CustomerName,
		Phone:             r.Phone,
		Email:             r.Email,
		RegistrationPlate: r.RegistrationPlate,
		VehicleType:       domain.VehicleType(r.VehicleType),
		VehicleBrand:      r.VehicleBrand,
		Is4x4:             r.Is4x4,
		AppointmentDate:   date,
		AppointmentTime:   t,
		IsOnline:          online,
		Notes:             r.Notes,
	}, nil
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *createBooking.Response) *CreateBookingResponse {
	return &CreateBookingResponse{
		BookingID:          resp.BookingID,
		ConfirmationNumber: resp.ConfirmationNumber,
		Price:              resp.Price,
	}
}
