package delete_booking

import (
	"errors"
	"net/http"

	"github.com/KKKircheff/Auto-Bosch-GTP/internal/api/handlers"
	"github.com/KKKircheff/Auto-Bosch-GTP/internal/service/bookings"
)

const (
	msgInvalidBookingID = "Невалиден идентификатор на записване"
	msgDeleted          = "Записването е изтрито"
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

// Handle DELETE /api/v1/admin/bookings/{bookingId}
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	bookingID := handlers.BookingID(r)

	if err := h.service.Delete(r.Context(), bookingID); err != nil {
		if errors.Is(err, bookings.ErrInvalidInput) {
			h.logger.Warn("DELETE /admin/bookings/{id} - Invalid booking ID: %s", bookingID)
			handlers.RespondBadRequest(w, msgInvalidBookingID)
			return
		}
		h.logger.Error("DELETE /admin/bookings/{id} - Failed to delete booking: booking_id=%s, error=%v", bookingID, err)
		handlers.RespondInternalError(w)
		return
	}

	h.logger.Info("DELETE /admin/bookings/{id} - Booking deleted: booking_id=%s", bookingID)
	handlers.RespondMessage(w, http.StatusOK, msgDeleted)
}
