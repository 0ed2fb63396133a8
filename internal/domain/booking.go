package domain

import (
	"time"

	"github.com/KKKircheff/Auto-Bosch-GTP/pkg/types"
)

// BookingStatus статус записи на технический осмотр
type BookingStatus string

const (
	StatusConfirmed BookingStatus = "confirmed"
	StatusCancelled BookingStatus = "cancelled"
)

// IsValid проверяет, что статус известен
func (s BookingStatus) IsValid() bool {
	return s == StatusConfirmed || s == StatusCancelled
}

// VehicleType тип транспортного средства
type VehicleType string

const (
	VehicleCar        VehicleType = "car"
	VehicleBus        VehicleType = "bus"
	VehicleMotorcycle VehicleType = "motorcycle"
	VehicleTaxi       VehicleType = "taxi"
	VehicleCaravan    VehicleType = "caravan"
	VehicleTrailer    VehicleType = "trailer"
	VehicleLPG        VehicleType = "lpg"
)

// VehicleTypes все поддерживаемые типы транспортных средств
var VehicleTypes = []VehicleType{
	VehicleCar,
	VehicleBus,
	VehicleMotorcycle,
	VehicleTaxi,
	VehicleCaravan,
	VehicleTrailer,
	VehicleLPG,
}

// IsValid проверяет, что тип транспортного средства поддерживается
func (v VehicleType) IsValid() bool {
	for _, t := range VehicleTypes {
		if v == t {
			return true
		}
	}
	return false
}

// Booking запись клиента на конкретный слот
// ID совпадает с BookingIdentity (дата + "_" + время) и является ключом хранения
type Booking struct {
	ID string

	CustomerName      string
	Phone             string
	Email             string
	RegistrationPlate string // всегда в верхнем регистре
	VehicleType       VehicleType
	VehicleBrand      string
	Is4x4             bool

	AppointmentDate time.Time // дата без времени, 00:00 UTC
	AppointmentTime types.TimeString

	Price  float64
	Status BookingStatus
	Notes  string

	CancellationReason string
	CancelledAt        *time.Time

	CreatedAt time.Time
	UpdatedAt *time.Time
}

// IsConfirmed возвращает true, если запись занимает слот
func (b *Booking) IsConfirmed() bool {
	return b.Status == StatusConfirmed
}

// IsCancelled возвращает true, если запись отменена
func (b *Booking) IsCancelled() bool {
	return b.Status == StatusCancelled
}

// OccupiesSlot возвращает true, если запись блокирует свой слот для новых записей
// Отмененная запись слот не занимает
func (b *Booking) OccupiesSlot() bool {
	return b != nil && b.IsConfirmed()
}

// BookingInput данные, которые клиент отправляет из формы записи
type BookingInput struct {
	CustomerName      string
	Phone             string
	Email             *string
	RegistrationPlate string
	VehicleType       VehicleType
	VehicleBrand      *string
	Is4x4             *bool
	AppointmentDate   time.Time
	AppointmentTime   types.TimeString
	IsOnline          bool // онлайн-запись получает скидку
	Notes             *string
}

// BookingPatch частичное обновление записи администратором
// nil означает "поле не меняется"
type BookingPatch struct {
	CustomerName      *string
	Phone             *string
	Email             *string
	RegistrationPlate *string
	VehicleType       *VehicleType
	VehicleBrand      *string
	Is4x4             *bool
	AppointmentDate   *time.Time
	AppointmentTime   *types.TimeString
	Notes             *string
}

// ChangesSlot возвращает true, если обновление переносит запись на другой слот
func (p *BookingPatch) ChangesSlot() bool {
	return p.AppointmentDate != nil || p.AppointmentTime != nil
}

// BookingsFilter фильтр выборки записей по диапазону дат
type BookingsFilter struct {
	StartDate time.Time      // включительно
	EndDate   time.Time      // включительно
	Status    *BookingStatus // nil - все статусы
}
