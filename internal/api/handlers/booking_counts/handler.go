package booking_counts

import (
	"net/http"

	"github.com/KKKircheff/Auto-Bosch-GTP/internal/api/handlers"
)

const msgInvalidParams = "Невалиден период: очакват се from и to във формат ГГГГ-ММ-ДД"

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

// CountsResponse количество записей по дням
type CountsResponse struct {
	Counts map[string]int `json:"counts"`
}

// Handle GET /api/v1/admin/bookings/counts?from&to
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	from, err := handlers.ParseDateParam(r, "from")
	if err != nil {
		h.logger.Warn("GET /admin/bookings/counts - Invalid from: %v", err)
		handlers.RespondBadRequest(w, msgInvalidParams)
		return
	}

	to, err := handlers.ParseDateParam(r, "to")
	if err != nil {
		h.logger.Warn("GET /admin/bookings/counts - Invalid to: %v", err)
		handlers.RespondBadRequest(w, msgInvalidParams)
		return
	}

	counts, err := h.service.GetAppointmentCounts(r.Context(), from, to)
	if err != nil {
		h.logger.Warn("GET /admin/bookings/counts - Rejected: %v", err)
		handlers.RespondBadRequest(w, msgInvalidParams)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, &CountsResponse{Counts: counts})
}
