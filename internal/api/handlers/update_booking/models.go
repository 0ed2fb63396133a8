package update_booking

import (
	"errors"

	"github.com/KKKircheff/Auto-Bosch-GTP/internal/domain"
	bookingModels "github.com/KKKircheff/Auto-Bosch-GTP/internal/service/bookings/models"
	updateBooking "github.com/KKKircheff/Auto-Bosch-GTP/internal/usecase/update_booking"
	"github.com/KKKircheff/Auto-Bosch-GTP/pkg/types"
)

var (
	errInvalidDate = errors.New("invalid appointment date")
	errInvalidTime = errors.New("invalid appointment time")
)

// UpdateBookingRequest HTTP request model; отсутствующее поле не меняется
type UpdateBookingRequest struct {
	CustomerName      *string `json:"customerName,omitempty"`
	Phone             *string `json:"phone,omitempty"`
	Email             *string `json:"email,omitempty"`
	RegistrationPlate *string `json:"registrationPlate,omitempty"`
	VehicleType       *string `json:"vehicleType,omitempty"`
	VehicleBrand      *string `json:"vehicleBrand,omitempty"`
	Is4x4             *bool   `json:"is4x4,omitempty"`
	AppointmentDate   *string `json:"appointmentDate,omitempty"`
	AppointmentTime   *string `json:"appointmentTime,omitempty"`
	Notes             *string `json:"notes,omitempty"`
}

// UpdateBookingResponse HTTP response model
type UpdateBookingResponse struct {
	Booking    *bookingModels.BookingResponse `json:"booking"`
	PreviousID string                         `json:"previousId,omitempty"`
}

// ToUseCaseRequest конвертирует HTTP запрос в модель use case
func (r *UpdateBookingRequest) ToUseCaseRequest(id string) (*updateBooking.Request, error) {
	patch := domain.BookingPatch{
		CustomerName:      r.CustomerName,
		Phone:             r.Phone,
		Email:             r.Email,
		RegistrationPlate: r.RegistrationPlate,
		VehicleBrand:      r.VehicleBrand,
		Is4x4:             r.Is4x4,
		Notes:             r.Notes,
	}

	if r.VehicleType != nil {
		vt := domain.VehicleType(*r.VehicleType)
		patch.VehicleType = &vt
	}

	if r.AppointmentDate != nil {
		date, err := domain.ParseDate(*r.AppointmentDate)
		if err != nil {
			return nil, errInvalidDate
		}
		patch.AppointmentDate = &date
	}

	if r.AppointmentTime != nil {
		t, err := types.NewTimeStringFromString(*r.AppointmentTime)
		if err != nil {
			return nil, errInvalidTime
		}
		patch.AppointmentTime = &t
	}

	return &updateBooking.Request{ID: id, Patch: patch}, nil
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *updateBooking.Response) *UpdateBookingResponse {
	return &UpdateBookingResponse{
		Booking:    bookingModels.FromDomainBooking(resp.Booking),
		PreviousID: resp.PreviousID,
	}
}
