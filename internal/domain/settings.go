package domain

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/KKKircheff/Auto-Bosch-GTP/pkg/types"
)

// WorkingHours рабочее время в течение дня, интервал [Start, End)
type WorkingHours struct {
	Start types.TimeString
	End   types.TimeString
}

// BusinessSettings настройки сервиса (BusinessConfiguration + цены)
// Для ядра это неизменяемый снимок на время запроса
type BusinessSettings struct {
	WorkingHours          WorkingHours
	WorkingDays           []time.Weekday
	SlotDurationMinutes   int
	BookingWindowWeeks    int
	ClosedDays            []time.Time // даты без времени, 00:00 UTC
	Prices                map[VehicleType]float64
	OnlineDiscountPercent float64
	UpdatedAt             *time.Time
}

// DefaultBusinessSettings возвращает документированные настройки по умолчанию
func DefaultBusinessSettings() *BusinessSettings {
	workingDays := make([]time.Weekday, len(DefaultWorkingDays))
	copy(workingDays, DefaultWorkingDays)

	prices := make(map[VehicleType]float64, len(DefaultPrices))
	for k, v := range DefaultPrices {
		prices[k] = v
	}

	return &BusinessSettings{
		WorkingHours: WorkingHours{
			Start: DefaultWorkingHoursStart,
			End:   DefaultWorkingHoursEnd,
		},
		WorkingDays:           workingDays,
		SlotDurationMinutes:   DefaultSlotDurationMinutes,
		BookingWindowWeeks:    DefaultBookingWindowWeeks,
		ClosedDays:            []time.Time{},
		Prices:                prices,
		OnlineDiscountPercent: DefaultOnlineDiscountPercent,
	}
}

// PriceFor вычисляет цену осмотра для типа транспортного средства
// При онлайн-записи применяется скидка OnlineDiscountPercent, результат округляется до стотинок
func (s *BusinessSettings) PriceFor(vehicleType VehicleType, online bool) (float64, error) {
	base, ok := s.Prices[vehicleType]
	if !ok {
		return 0, fmt.Errorf("%w: %s", ErrUnknownVehicleType, vehicleType)
	}

	price := decimal.NewFromFloat(base)
	if online && s.OnlineDiscountPercent > 0 {
		discount := price.Mul(decimal.NewFromFloat(s.OnlineDiscountPercent)).Div(decimal.NewFromInt(100))
		price = price.Sub(discount)
	}

	result, _ := price.Round(2).Float64()
	return result, nil
}

// Validate проверяет согласованность настроек
func (s *BusinessSettings) Validate() error {
	if err := s.WorkingHours.Start.Validate(); err != nil {
		return fmt.Errorf("working hours start: %w", err)
	}
	if err := s.WorkingHours.End.Validate(); err != nil {
		return fmt.Errorf("working hours end: %w", err)
	}
	if !s.WorkingHours.Start.IsBefore(s.WorkingHours.End) {
		return fmt.Errorf("working hours start %s must be before end %s", s.WorkingHours.Start, s.WorkingHours.End)
	}

	if s.SlotDurationMinutes < MinSlotDurationMinutes || s.SlotDurationMinutes > MaxSlotDurationMinutes {
		return fmt.Errorf("slot duration must be between %d and %d minutes", MinSlotDurationMinutes, MaxSlotDurationMinutes)
	}
	if s.WorkingHours.End.Minutes()-s.WorkingHours.Start.Minutes() < s.SlotDurationMinutes {
		return fmt.Errorf("working hours must fit at least one slot of %d minutes", s.SlotDurationMinutes)
	}

	if s.BookingWindowWeeks < MinBookingWindowWeeks || s.BookingWindowWeeks > MaxBookingWindowWeeks {
		return fmt.Errorf("booking window must be between %d and %d weeks", MinBookingWindowWeeks, MaxBookingWindowWeeks)
	}

	if len(s.WorkingDays) == 0 {
		return fmt.Errorf("at least one working day is required")
	}
	for _, d := range s.WorkingDays {
		if d < time.Sunday || d > time.Saturday {
			return fmt.Errorf("invalid weekday %d", d)
		}
	}

	for _, vt := range VehicleTypes {
		price, ok := s.Prices[vt]
		if !ok {
			return fmt.Errorf("missing price for vehicle type %s", vt)
		}
		if price < 0 {
			return fmt.Errorf("price for %s must not be negative", vt)
		}
	}

	if s.OnlineDiscountPercent < 0 || s.OnlineDiscountPercent > MaxOnlineDiscount {
		return fmt.Errorf("online discount must be between 0 and %.0f percent", MaxOnlineDiscount)
	}

	return nil
}
