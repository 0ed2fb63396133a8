package domain

import (
	"time"

	"github.com/KKKircheff/Auto-Bosch-GTP/pkg/types"
)

// Значения настроек по умолчанию (используются, если настройки не сохранены)
const (
	DefaultWorkingHoursStart     types.TimeString = "08:30"
	DefaultWorkingHoursEnd       types.TimeString = "17:30"
	DefaultSlotDurationMinutes                    = 30
	DefaultBookingWindowWeeks                     = 8
	DefaultOnlineDiscountPercent                  = 5.0
)

// DefaultWorkingDays рабочие дни по умолчанию: понедельник - пятница
var DefaultWorkingDays = []time.Weekday{
	time.Monday,
	time.Tuesday,
	time.Wednesday,
	time.Thursday,
	time.Friday,
}

// DefaultPrices цены по умолчанию (BGN)
var DefaultPrices = map[VehicleType]float64{
	VehicleCar:        70,
	VehicleBus:        100,
	VehicleMotorcycle: 40,
	VehicleTaxi:       80,
	VehicleCaravan:    50,
	VehicleTrailer:    40,
	VehicleLPG:        90,
}

// Ограничения бизнес-валидации
const (
	MinSlotDurationMinutes  = 5
	MaxSlotDurationMinutes  = 240
	MinBookingWindowWeeks   = 1
	MaxBookingWindowWeeks   = 52
	MaxOnlineDiscount       = 100.0
	MaxNotesLength          = 500
	MaxCustomerNameLength   = 100
	MaxCancellationReason   = 500
	MaxRegistrationPlateLen = 12
)

// Форматы даты и времени
const (
	TimeFormat = "15:04"      // HH:MM
	DateFormat = "2006-01-02" // YYYY-MM-DD
)
