package update_booking

import (
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"unicode/utf8"

	"github.com/KKKircheff/Auto-Bosch-GTP/internal/calendar"
	"github.com/KKKircheff/Auto-Bosch-GTP/internal/domain"
	"github.com/KKKircheff/Auto-Bosch-GTP/internal/usecase/create_booking"
)

// validateRequest проверяет ключ записи и переданные поля
func validateRequest(req *Request) error {
	if req == nil {
		return fmt.Errorf("%w: request is required", ErrInvalidInput)
	}

	if _, _, err := domain.ParseBookingIdentity(req.ID); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	p := req.Patch

	if p.CustomerName != nil {
		name := strings.TrimSpace(*p.CustomerName)
		if name == "" || utf8.RuneCountInString(name) > domain.MaxCustomerNameLength {
			return fmt.Errorf("%w: invalid customerName", ErrInvalidInput)
		}
	}

	if p.Phone != nil {
		if err := create_booking.ValidatePhone(*p.Phone); err != nil {
			return fmt.Errorf("%w: invalid phone", ErrInvalidInput)
		}
	}

	if p.Email != nil && strings.TrimSpace(*p.Email) != "" {
		if _, err := mail.ParseAddress(strings.TrimSpace(*p.Email)); err != nil {
			return fmt.Errorf("%w: invalid email", ErrInvalidInput)
		}
	}

	if p.RegistrationPlate != nil {
		plate := strings.TrimSpace(*p.RegistrationPlate)
		if plate == "" || utf8.RuneCountInString(plate) > domain.MaxRegistrationPlateLen {
			return fmt.Errorf("%w: invalid registrationPlate", ErrInvalidInput)
		}
	}

	if p.VehicleType != nil && !p.VehicleType.IsValid() {
		return fmt.Errorf("%w: unknown vehicleType %q", ErrInvalidInput, *p.VehicleType)
	}

	if p.Notes != nil && utf8.RuneCountInString(*p.Notes) > domain.MaxNotesLength {
		return fmt.Errorf("%w: notes are too long", ErrInvalidInput)
	}

	if p.AppointmentTime != nil {
		if err := p.AppointmentTime.Validate(); err != nil {
			return fmt.Errorf("%w: invalid appointmentTime: %v", ErrInvalidInput, err)
		}
	}

	if p.AppointmentDate != nil && p.AppointmentDate.IsZero() {
		return fmt.Errorf("%w: invalid appointmentDate", ErrInvalidInput)
	}

	return nil
}

// mapSlotError переводит ошибки календаря в ошибки usecase
func mapSlotError(err error) error {
	switch {
	case errors.Is(err, calendar.ErrDateInPast):
		return fmt.Errorf("%w: %v", ErrInvalidDate, err)
	case errors.Is(err, calendar.ErrDateNotBookable):
		return fmt.Errorf("%w: %v", ErrDateNotBookable, err)
	default:
		return fmt.Errorf("%w: %v", ErrInvalidTimeSlot, err)
	}
}
