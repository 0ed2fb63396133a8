package models

import (
	"errors"
	"fmt"
	"time"

	"github.com/KKKircheff/Auto-Bosch-GTP/internal/domain"
	"github.com/KKKircheff/Auto-Bosch-GTP/pkg/types"
)

// ErrInvalidField возвращается, когда поле запроса не удается разобрать
var ErrInvalidField = errors.New("invalid field")

// UpdateSettingsRequest частичное обновление настроек
// nil означает "поле не меняется"; пустой срез ClosedDays очищает список
type UpdateSettingsRequest struct {
	WorkingHoursStart     *string
	WorkingHoursEnd       *string
	WorkingDays           []int
	SlotDurationMinutes   *int
	BookingWindowWeeks    *int
	ClosedDays            []string
	Prices                map[string]float64
	OnlineDiscountPercent *float64
}

// ApplyTo применяет изменения к копии настроек
func (r *UpdateSettingsRequest) ApplyTo(current *domain.BusinessSettings) (*domain.BusinessSettings, error) {
	s := *current

	if r.WorkingHoursStart != nil {
		t, err := types.NewTimeStringFromString(*r.WorkingHoursStart)
		if err != nil {
			return nil, fmt.Errorf("%w: workingHours.start: %v", ErrInvalidField, err)
		}
		s.WorkingHours.Start = t
	}

	if r.WorkingHoursEnd != nil {
		t, err := types.NewTimeStringFromString(*r.WorkingHoursEnd)
		if err != nil {
			return nil, fmt.Errorf("%w: workingHours.end: %v", ErrInvalidField, err)
		}
		s.WorkingHours.End = t
	}

	if r.WorkingDays != nil {
		s.WorkingDays = make([]time.Weekday, 0, len(r.WorkingDays))
		for _, d := range r.WorkingDays {
			s.WorkingDays = append(s.WorkingDays, time.Weekday(d))
		}
	}

	if r.SlotDurationMinutes != nil {
		s.SlotDurationMinutes = *r.SlotDurationMinutes
	}

	if r.BookingWindowWeeks != nil {
		s.BookingWindowWeeks = *r.BookingWindowWeeks
	}

	if r.ClosedDays != nil {
		s.ClosedDays = make([]time.Time, 0, len(r.ClosedDays))
		for _, d := range r.ClosedDays {
			parsed, err := domain.ParseDate(d)
			if err != nil {
				return nil, fmt.Errorf("%w: closedDays: %q", ErrInvalidField, d)
			}
			s.ClosedDays = append(s.ClosedDays, parsed)
		}
	}

	if r.Prices != nil {
		prices := make(map[domain.VehicleType]float64, len(current.Prices))
		for vt, p := range current.Prices {
			prices[vt] = p
		}
		for vt, p := range r.Prices {
			vehicleType := domain.VehicleType(vt)
			if !vehicleType.IsValid() {
				return nil, fmt.Errorf("%w: prices: unknown vehicle type %q", ErrInvalidField, vt)
			}
			prices[vehicleType] = p
		}
		s.Prices = prices
	}

	if r.OnlineDiscountPercent != nil {
		s.OnlineDiscountPercent = *r.OnlineDiscountPercent
	}

	return &s, nil
}

// WorkingHoursResponse рабочее время
type WorkingHoursResponse struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

// SettingsResponse ответ с настройками сервиса
type SettingsResponse struct {
	WorkingHours          WorkingHoursResponse `json:"workingHours"`
	WorkingDays           []int                `json:"workingDays"`
	SlotDuration          int                  `json:"appointmentDuration"`
	BookingWindowWeeks    int                  `json:"bookingWindowWeeks"`
	ClosedDays            []string             `json:"closedDays"`
	Prices                map[string]float64   `json:"prices"`
	OnlineDiscountPercent float64              `json:"onlineDiscountPercent"`
	UpdatedAt             *time.Time           `json:"updatedAt,omitempty"`
}

// FromDomainSettings конвертирует domain модель в DTO
func FromDomainSettings(s *domain.BusinessSettings) *SettingsResponse {
	resp := &SettingsResponse{
		WorkingHours: WorkingHoursResponse{
			Start: s.WorkingHours.Start.String(),
			End:   s.WorkingHours.End.String(),
		},
		WorkingDays:           make([]int, 0, len(s.WorkingDays)),
		SlotDuration:          s.SlotDurationMinutes,
		BookingWindowWeeks:    s.BookingWindowWeeks,
		ClosedDays:            make([]string, 0, len(s.ClosedDays)),
		Prices:                make(map[string]float64, len(s.Prices)),
		OnlineDiscountPercent: s.OnlineDiscountPercent,
		UpdatedAt:             s.UpdatedAt,
	}

	for _, d := range s.WorkingDays {
		resp.WorkingDays = append(resp.WorkingDays, int(d))
	}
	for _, d := range s.ClosedDays {
		resp.ClosedDays = append(resp.ClosedDays, d.Format(domain.DateFormat))
	}
	for vt, p := range s.Prices {
		resp.Prices[string(vt)] = p
	}

	return resp
}
