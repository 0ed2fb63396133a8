// Package document описывает форму хранения записей и настроек в документных
// хранилищах (Firestore, MongoDB) и преобразования в доменные типы и обратно.
package document

import (
	"fmt"
	"strings"
	"time"

	"github.com/KKKircheff/Auto-Bosch-GTP/internal/domain"
	"github.com/KKKircheff/Auto-Bosch-GTP/pkg/types"
)

// Booking запись в форме хранения
// Ключ документа (ID) не входит в тело документа Firestore, но хранится как _id в MongoDB
type Booking struct {
	ID string `firestore:"-" bson:"_id"`

	CustomerName      string `firestore:"customerName" bson:"customerName"`
	Phone             string `firestore:"phone" bson:"phone"`
	Email             string `firestore:"email,omitempty" bson:"email,omitempty"`
	RegistrationPlate string `firestore:"registrationPlate" bson:"registrationPlate"`
	VehicleType       string `firestore:"vehicleType" bson:"vehicleType"`
	VehicleBrand      string `firestore:"vehicleBrand,omitempty" bson:"vehicleBrand,omitempty"`
	Is4x4             bool   `firestore:"is4x4" bson:"is4x4"`

	AppointmentDate time.Time `firestore:"appointmentDate" bson:"appointmentDate"`
	AppointmentTime string    `firestore:"appointmentTime" bson:"appointmentTime"`

	Price  float64 `firestore:"price" bson:"price"`
	Status string  `firestore:"status" bson:"status"`
	Notes  string  `firestore:"notes,omitempty" bson:"notes,omitempty"`

	CancellationReason string     `firestore:"cancellationReason,omitempty" bson:"cancellationReason,omitempty"`
	CancelledAt        *time.Time `firestore:"cancelledAt,omitempty" bson:"cancelledAt,omitempty"`

	CreatedAt time.Time  `firestore:"createdAt" bson:"createdAt"`
	UpdatedAt *time.Time `firestore:"updatedAt,omitempty" bson:"updatedAt,omitempty"`
}

// ToStored переводит запись в форму хранения
// Регистрационный номер приводится к верхнему регистру, дата к 00:00 UTC
func ToStored(b *domain.Booking) *Booking {
	return &Booking{
		ID:                 b.ID,
		CustomerName:       b.CustomerName,
		Phone:              b.Phone,
		Email:              b.Email,
		RegistrationPlate:  NormalizePlate(b.RegistrationPlate),
		VehicleType:        string(b.VehicleType),
		VehicleBrand:       b.VehicleBrand,
		Is4x4:              b.Is4x4,
		AppointmentDate:    domain.DateOf(b.AppointmentDate),
		AppointmentTime:    b.AppointmentTime.String(),
		Price:              b.Price,
		Status:             string(b.Status),
		Notes:              b.Notes,
		CancellationReason: b.CancellationReason,
		CancelledAt:        utcPtr(b.CancelledAt),
		CreatedAt:          b.CreatedAt.UTC(),
		UpdatedAt:          utcPtr(b.UpdatedAt),
	}
}

// FromStored восстанавливает доменную запись
// id - ключ документа, имеет приоритет над полем ID
func FromStored(id string, s *Booking) (*domain.Booking, error) {
	if id == "" {
		id = s.ID
	}

	t, err := types.NewTimeStringFromString(s.AppointmentTime)
	if err != nil {
		return nil, fmt.Errorf("booking %s: %w", id, err)
	}

	return &domain.Booking{
		ID:                 id,
		CustomerName:       s.CustomerName,
		Phone:              s.Phone,
		Email:              s.Email,
		RegistrationPlate:  NormalizePlate(s.RegistrationPlate),
		VehicleType:        domain.VehicleType(s.VehicleType),
		VehicleBrand:       s.VehicleBrand,
		Is4x4:              s.Is4x4,
		AppointmentDate:    domain.DateOf(s.AppointmentDate),
		AppointmentTime:    t,
		Price:              s.Price,
		Status:             domain.BookingStatus(s.Status),
		Notes:              s.Notes,
		CancellationReason: s.CancellationReason,
		CancelledAt:        s.CancelledAt,
		CreatedAt:          s.CreatedAt,
		UpdatedAt:          s.UpdatedAt,
	}, nil
}

// NormalizePlate убирает пробелы по краям и переводит номер в верхний регистр
func NormalizePlate(plate string) string {
	return strings.ToUpper(strings.TrimSpace(plate))
}

func utcPtr(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	u := t.UTC()
	return &u
}
