package create_booking

import (
	"strings"
	"time"

	"github.com/KKKircheff/Auto-Bosch-GTP/internal/domain"
	"github.com/KKKircheff/Auto-Bosch-GTP/internal/infra/storage/document"
	"github.com/KKKircheff/Auto-Bosch-GTP/internal/integrations/notifier"
	"github.com/KKKircheff/Auto-Bosch-GTP/pkg/ptr"
)

// newBooking собирает запись из данных формы
// Необязательные текстовые поля становятся пустыми строками, статус - confirmed
func newBooking(req *Request, id string, price float64, now time.Time) *domain.Booking {
	return &domain.Booking{
		ID:                id,
		CustomerName:      strings.TrimSpace(req.CustomerName),
		Phone:             strings.TrimSpace(req.Phone),
		Email:             strings.TrimSpace(ptr.Value(req.Email)),
		RegistrationPlate: document.NormalizePlate(req.RegistrationPlate),
		VehicleType:       req.VehicleType,
		VehicleBrand:      strings.TrimSpace(ptr.Value(req.VehicleBrand)),
		Is4x4:             ptr.Value(req.Is4x4),
		AppointmentDate:   domain.DateOf(req.AppointmentDate),
		AppointmentTime:   req.AppointmentTime,
		Price:             price,
		Status:            domain.StatusConfirmed,
		Notes:             strings.TrimSpace(ptr.Value(req.Notes)),
		CreatedAt:         now.UTC(),
	}
}

func createdEvent(b *domain.Booking, confirmation string, now time.Time) notifier.Event {
	return notifier.Event{
		Type:               notifier.EventBookingCreated,
		BookingID:          b.ID,
		ConfirmationNumber: confirmation,
		AppointmentDate:    b.AppointmentDate.Format(domain.DateFormat),
		AppointmentTime:    b.AppointmentTime.String(),
		CustomerName:       b.CustomerName,
		Phone:              b.Phone,
		Email:              b.Email,
		VehicleType:        string(b.VehicleType),
		Price:              b.Price,
		OccurredAt:         now.UTC(),
	}
}
