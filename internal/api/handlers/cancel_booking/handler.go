package cancel_booking

import (
	"errors"
	"net/http"

	"github.com/KKKircheff/Auto-Bosch-GTP/internal/api/handlers"
	"github.com/KKKircheff/Auto-Bosch-GTP/internal/service/bookings"
)

const (
	msgInvalidRequest     = "Невалиден идентификатор на записване или причина"
	msgInvalidRequestBody = "Невалидни данни в заявката"
	msgCancelled          = "Записването е отменено"
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

// Handle PATCH /api/v1/admin/bookings/{bookingId}/cancel
// Тело запроса необязательно
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	bookingID := handlers.BookingID(r)

	var req CancelBookingRequest
	if r.ContentLength != 0 {
		if err := handlers.DecodeJSON(r, &req); err != nil {
			h.logger.Warn("PATCH /admin/bookings/{id}/cancel - Invalid request body: %v", err)
			handlers.RespondBadRequest(w, msgInvalidRequestBody)
			return
		}
	}

	if err := h.service.Cancel(r.Context(), bookingID, req.ToServiceRequest()); err != nil {
		switch {
		case errors.Is(err, bookings.ErrInvalidInput):
			h.logger.Warn("PATCH /admin/bookings/{id}/cancel - Invalid input: booking_id=%s, error=%v", bookingID, err)
			handlers.RespondBadRequest(w, msgInvalidRequest)

		default:
			h.logger.Error("PATCH /admin/bookings/{id}/cancel - Failed to cancel booking: booking_id=%s, error=%v",
				bookingID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("PATCH /admin/bookings/{id}/cancel - Booking cancelled: booking_id=%s", bookingID)
	handlers.RespondMessage(w, http.StatusOK, msgCancelled)
}
