package get_available_slots

import (
	"net/http"

	"github.com/KKKircheff/Auto-Bosch-GTP/internal/api/handlers"
	"github.com/KKKircheff/Auto-Bosch-GTP/internal/domain"
)

const (
	msgInvalidDate    = "Невалидна дата, очаква се формат ГГГГ-ММ-ДД"
	msgSlotsFailed    = "Грешка при зареждане на свободните часове"
	msgNextDateFailed = "Грешка при намиране на следваща свободна дата"
)

type Handler struct {
	useCase GetAvailableSlotsUseCase
	logger  Logger

	// Прикладывать данные клиентов к занятым слотам (админ-панель)
	includeDetails bool
}

// NewHandler обработчик публичной сетки слотов
func NewHandler(useCase GetAvailableSlotsUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// NewAdminHandler обработчик сетки слотов с данными записей
func NewAdminHandler(useCase GetAvailableSlotsUseCase, logger Logger) *Handler {
	return &Handler{
		useCase:        useCase,
		logger:         logger,
		includeDetails: true,
	}
}

// Handle GET /api/v1/slots?date=YYYY-MM-DD
// При сбое хранилища возвращает success=false и пустой список слотов
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	date, err := handlers.ParseDateParam(r, "date")
	if err != nil {
		h.logger.Warn("GET /slots - Invalid date: %v", err)
		handlers.RespondBadRequest(w, msgInvalidDate)
		return
	}

	result, err := h.useCase.Execute(r.Context(), ToUseCaseRequest(date, h.includeDetails))
	if err != nil {
		h.logger.Error("GET /slots - Failed to get slots: date=%s, error=%v", date.Format(domain.DateFormat), err)
		handlers.RespondErrorWithData(w, http.StatusInternalServerError, msgSlotsFailed, []AvailableSlot{})
		return
	}

	response := FromUseCaseResponse(result)

	h.logger.Info("GET /slots - Slots retrieved successfully: date=%s, slots_count=%d",
		date.Format(domain.DateFormat), len(result.Slots))
	handlers.RespondJSON(w, http.StatusOK, response)
}

// HandleNextAvailableDate GET /api/v1/slots/next-available-date
func (h *Handler) HandleNextAvailableDate(w http.ResponseWriter, r *http.Request) {
	next, err := h.useCase.NextAvailableDate(r.Context())
	if err != nil {
		h.logger.Error("GET /slots/next-available-date - Failed: %v", err)
		handlers.RespondError(w, http.StatusInternalServerError, msgNextDateFailed)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, &NextAvailableDateResponse{Date: next.Format(domain.DateFormat)})
}
