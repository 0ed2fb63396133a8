package validate_slot

import (
	"net/http"

	"github.com/KKKircheff/Auto-Bosch-GTP/internal/api/handlers"
	"github.com/KKKircheff/Auto-Bosch-GTP/pkg/types"
)

const (
	msgInvalidDate = "Невалидна дата, очаква се формат ГГГГ-ММ-ДД"
	msgInvalidTime = "Невалиден час, очаква се формат ЧЧ:ММ"
)

type Handler struct {
	service BookingService
	logger  Logger
}

func NewHandler(service BookingService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle GET /api/v1/slots/validate?date=YYYY-MM-DD&time=HH:MM
// data - true, если на слот можно записаться
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	date, err := handlers.ParseDateParam(r, "date")
	if err != nil {
		h.logger.Warn("GET /slots/validate - Invalid date: %v", err)
		handlers.RespondBadRequest(w, msgInvalidDate)
		return
	}

	t, err := types.NewTimeStringFromString(r.URL.Query().Get("time"))
	if err != nil {
		h.logger.Warn("GET /slots/validate - Invalid time: %v", err)
		handlers.RespondBadRequest(w, msgInvalidTime)
		return
	}

	available, err := h.service.IsTimeSlotAvailable(r.Context(), date, t)
	if err != nil {
		h.logger.Error("GET /slots/validate - Failed to check slot: %v", err)
		handlers.RespondErrorWithData(w, http.StatusInternalServerError, "Грешка при проверка на часа", false)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, available)
}
