package update_settings

import (
	"github.com/KKKircheff/Auto-Bosch-GTP/internal/service/settings/models"
)

// WorkingHoursRequest рабочее время; незаданное поле не меняется
type WorkingHoursRequest struct {
	Start *string `json:"start,omitempty"`
	End   *string `json:"end,omitempty"`
}

// UpdateSettingsRequest HTTP request model
type UpdateSettingsRequest struct {
	WorkingHours          *WorkingHoursRequest `json:"workingHours,omitempty"`
	WorkingDays           []int                `json:"workingDays,omitempty"`
	SlotDuration          *int                 `json:"appointmentDuration,omitempty"`
	BookingWindowWeeks    *int                 `json:"bookingWindowWeeks,omitempty"`
	ClosedDays            []string             `json:"closedDays"`
	Prices                map[string]float64   `json:"prices,omitempty"`
	OnlineDiscountPercent *float64             `json:"onlineDiscountPercent,omitempty"`
}

// ToServiceRequest конвертирует HTTP request в модель сервиса
func (r *UpdateSettingsRequest) ToServiceRequest() *models.UpdateSettingsRequest {
	req := &models.UpdateSettingsRequest{
		WorkingDays:           r.WorkingDays,
		SlotDurationMinutes:   r.SlotDuration,
		BookingWindowWeeks:    r.BookingWindowWeeks,
		ClosedDays:            r.ClosedDays,
		Prices:                r.Prices,
		OnlineDiscountPercent: r.OnlineDiscountPercent,
	}

	if r.WorkingHours != nil {
		req.WorkingHoursStart = r.WorkingHours.Start
		req.WorkingHoursEnd = r.WorkingHours.End
	}

	return req
}
