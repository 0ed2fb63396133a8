package get_available_slots

import (
	"time"

	"github.com/KKKircheff/Auto-Bosch-GTP/internal/domain"
)

// Request модель запроса на получение слотов
type Request struct {
	Date time.Time // Дата без времени

	// Прикладывать ли к занятым слотам данные клиента (только для админ-панели)
	IncludeBookingDetails bool
}

// Response модель ответа со списком слотов
type Response struct {
	Date  time.Time
	Slots []domain.Slot
}
