package create_booking

import "github.com/KKKircheff/Auto-Bosch-GTP/internal/domain"

// Request модель запроса на создание записи (данные формы)
type Request = domain.BookingInput

// Response модель ответа с созданной записью
type Response struct {
	BookingID          string
	ConfirmationNumber string
	Price              float64
	Booking            *domain.Booking
}
