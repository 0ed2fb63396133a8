package create_booking

import (
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/KKKircheff/Auto-Bosch-GTP/internal/calendar"
	"github.com/KKKircheff/Auto-Bosch-GTP/internal/domain"
)

const (
	minPhoneDigits = 6
	maxPhoneDigits = 15
)

// validateRequest валидирует данные формы
func validateRequest(req *Request) error {
	if req == nil {
		return fmt.Errorf("%w: request is required", ErrInvalidInput)
	}

	name := strings.TrimSpace(req.CustomerName)
	if name == "" {
		return fmt.Errorf("%w: customerName is required", ErrInvalidInput)
	}
	if utf8.RuneCountInString(name) > domain.MaxCustomerNameLength {
		return fmt.Errorf("%w: customerName is too long", ErrInvalidInput)
	}

	if err := ValidatePhone(req.Phone); err != nil {
		return err
	}

	if req.Email != nil && strings.TrimSpace(*req.Email) != "" {
		if _, err := mail.ParseAddress(strings.TrimSpace(*req.Email)); err != nil {
			return fmt.Errorf("%w: invalid email", ErrInvalidInput)
		}
	}

	plate := strings.TrimSpace(req.RegistrationPlate)
	if plate == "" {
		return fmt.Errorf("%w: registrationPlate is required", ErrInvalidInput)
	}
	if utf8.RuneCountInString(plate) > domain.MaxRegistrationPlateLen {
		return fmt.Errorf("%w: registrationPlate is too long", ErrInvalidInput)
	}

	if !req.VehicleType.IsValid() {
		return fmt.Errorf("%w: unknown vehicleType %q", ErrInvalidInput, req.VehicleType)
	}

	if req.Notes != nil && utf8.RuneCountInString(*req.Notes) > domain.MaxNotesLength {
		return fmt.Errorf("%w: notes are too long", ErrInvalidInput)
	}

	if req.AppointmentDate.IsZero() {
		return fmt.Errorf("%w: appointmentDate is required", ErrInvalidInput)
	}

	if err := req.AppointmentTime.Validate(); err != nil {
		return fmt.Errorf("%w: invalid appointmentTime: %v", ErrInvalidInput, err)
	}

	return nil
}

// ValidatePhone проверяет телефон: цифры, пробелы, дефисы и ведущий +
func ValidatePhone(phone string) error {
	phone = strings.TrimSpace(phone)
	if phone == "" {
		return fmt.Errorf("%w: phone is required", ErrInvalidInput)
	}

	digits := 0
	for i, r := range phone {
		switch {
		case unicode.IsDigit(r):
			digits++
		case r == '+' && i == 0, r == ' ', r == '-':
		default:
			return fmt.Errorf("%w: invalid phone", ErrInvalidInput)
		}
	}

	if digits < minPhoneDigits || digits > maxPhoneDigits {
		return fmt.Errorf("%w: invalid phone", ErrInvalidInput)
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
