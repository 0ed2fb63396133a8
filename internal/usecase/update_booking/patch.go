package update_booking

import (
	"strings"

	"github.com/KKKircheff/Auto-Bosch-GTP/internal/domain"
	"github.com/KKKircheff/Auto-Bosch-GTP/internal/infra/storage/document"
)

// applyPatch возвращает копию записи с примененными полями (кроме даты и времени)
// При смене типа транспортного средства цена пересчитывается по прайсу без онлайн-скидки
func applyPatch(current *domain.Booking, p domain.BookingPatch, settings *domain.BusinessSettings) (*domain.Booking, error) {
	b := *current

	if p.CustomerName != nil {
		b.CustomerName = strings.TrimSpace(*p.CustomerName)
	}
	if p.Phone != nil {
		b.Phone = strings.TrimSpace(*p.Phone)
	}
	if p.Email != nil {
		b.Email = strings.TrimSpace(*p.Email)
	}
	if p.RegistrationPlate != nil {
		b.RegistrationPlate = document.NormalizePlate(*p.RegistrationPlate)
	}
	if p.VehicleBrand != nil {
		b.VehicleBrand = strings.TrimSpace(*p.VehicleBrand)
	}
	if p.Is4x4 != nil {
		b.Is4x4 = *p.Is4x4
	}
	if p.Notes != nil {
		b.Notes = strings.TrimSpace(*p.Notes)
	}

	if p.VehicleType != nil && *p.VehicleType != current.VehicleType {
		price, err := settings.PriceFor(*p.VehicleType, false)
		if err != nil {
			return nil, err
		}
		b.VehicleType = *p.VehicleType
		b.Price = price
	}

	return &b, nil
}
