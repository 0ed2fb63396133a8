package update_booking

import "github.com/KKKircheff/Auto-Bosch-GTP/internal/domain"

// Request модель запроса на изменение записи
type Request struct {
	ID    string
	Patch domain.BookingPatch
}

// Response модель ответа; ID может отличаться от запрошенного, если запись перенесена
type Response struct {
	Booking    *domain.Booking
	PreviousID string // заполнен при переносе на другой слот
}
