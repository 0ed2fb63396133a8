package document

import (
	"fmt"
	"sort"
	"time"

	"github.com/KKKircheff/Auto-Bosch-GTP/internal/domain"
	"github.com/KKKircheff/Auto-Bosch-GTP/pkg/types"
)

// SettingsID ключ единственного документа настроек
const SettingsID = "business"

// Settings настройки в форме хранения
// Дни недели хранятся числами (0 - воскресенье), нерабочие дни строками YYYY-MM-DD
type Settings struct {
	ID string `firestore:"-" bson:"_id"`

	WorkingHoursStart     string             `firestore:"workingHoursStart" bson:"workingHoursStart"`
	WorkingHoursEnd       string             `firestore:"workingHoursEnd" bson:"workingHoursEnd"`
	WorkingDays           []int              `firestore:"workingDays" bson:"workingDays"`
	SlotDurationMinutes   int                `firestore:"slotDuration" bson:"slotDuration"`
	BookingWindowWeeks    int                `firestore:"bookingWindowWeeks" bson:"bookingWindowWeeks"`
	ClosedDays            []string           `firestore:"closedDays" bson:"closedDays"`
	Prices                map[string]float64 `firestore:"prices" bson:"prices"`
	OnlineDiscountPercent float64            `firestore:"onlineDiscountPercent" bson:"onlineDiscountPercent"`
	UpdatedAt             *time.Time         `firestore:"updatedAt,omitempty" bson:"updatedAt,omitempty"`
}

// SettingsToStored переводит настройки в форму хранения
func SettingsToStored(s *domain.BusinessSettings) *Settings {
	days := make([]int, 0, len(s.WorkingDays))
	for _, d := range s.WorkingDays {
		days = append(days, int(d))
	}
	sort.Ints(days)

	closed := make([]string, 0, len(s.ClosedDays))
	for _, d := range s.ClosedDays {
		closed = append(closed, d.Format(domain.DateFormat))
	}
	sort.Strings(closed)

	prices := make(map[string]float64, len(s.Prices))
	for vt, p := range s.Prices {
		prices[string(vt)] = p
	}

	return &Settings{
		ID:                    SettingsID,
		WorkingHoursStart:     s.WorkingHours.Start.String(),
		WorkingHoursEnd:       s.WorkingHours.End.String(),
		WorkingDays:           days,
		SlotDurationMinutes:   s.SlotDurationMinutes,
		BookingWindowWeeks:    s.BookingWindowWeeks,
		ClosedDays:            closed,
		Prices:                prices,
		OnlineDiscountPercent: s.OnlineDiscountPercent,
		UpdatedAt:             utcPtr(s.UpdatedAt),
	}
}

// SettingsFromStored восстанавливает настройки
// Отсутствующие цены заполняются значениями по умолчанию
func SettingsFromStored(s *Settings) (*domain.BusinessSettings, error) {
	start, err := types.NewTimeStringFromString(s.WorkingHoursStart)
	if err != nil {
		return nil, fmt.Errorf("working hours start: %w", err)
	}
	end, err := types.NewTimeStringFromString(s.WorkingHoursEnd)
	if err != nil {
		return nil, fmt.Errorf("working hours end: %w", err)
	}

	days := make([]time.Weekday, 0, len(s.WorkingDays))
	for _, d := range s.WorkingDays {
		days = append(days, time.Weekday(d))
	}

	closed := make([]time.Time, 0, len(s.ClosedDays))
	for _, d := range s.ClosedDays {
		parsed, err := time.Parse(domain.DateFormat, d)
		if err != nil {
			return nil, fmt.Errorf("closed day %q: %w", d, err)
		}
		closed = append(closed, parsed)
	}

	prices := make(map[domain.VehicleType]float64, len(domain.DefaultPrices))
	for vt, p := range domain.DefaultPrices {
		prices[vt] = p
	}
	for vt, p := range s.Prices {
		prices[domain.VehicleType(vt)] = p
	}

	return &domain.BusinessSettings{
		WorkingHours:          domain.WorkingHours{Start: start, End: end},
		WorkingDays:           days,
		SlotDurationMinutes:   s.SlotDurationMinutes,
		BookingWindowWeeks:    s.BookingWindowWeeks,
		ClosedDays:            closed,
		Prices:                prices,
		OnlineDiscountPercent: s.OnlineDiscountPercent,
		UpdatedAt:             s.UpdatedAt,
	}, nil
}
