package update_booking

import (
	"errors"
	"net/http"

	"github.com/KKKircheff/Auto-Bosch-GTP/internal/api/handlers"
	updateBooking "github.com/KKKircheff/Auto-Bosch-GTP/internal/usecase/update_booking"
)

const (
	msgInvalidRequestBody = "Невалидни данни в заявката"
	msgInvalidDate        = "Невалидна дата, очаква се формат ГГГГ-ММ-ДД"
	msgInvalidTime        = "Невалиден час, очаква се формат ЧЧ:ММ"
	msgInvalidInput       = "Моля, проверете въведените данни"
	msgNotFound           = "Записването не е намерено"
	msgDateInPast         = "Не можете да преместите записването на минала дата"
	msgDateNotBookable    = "Избраната дата не е достъпна за записване"
	msgInvalidTimeSlot    = "Избраният час не е валиден"
	msgSlotNotAvailable   = "Избраният час вече е зает. Моля, изберете друг час."
)

type Handler struct {
	useCase UpdateBookingUseCase
	logger  Logger
}

func NewHandler(useCase UpdateBookingUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle PATCH /api/v1/admin/bookings/{bookingId}
// Дата и время проверяются заново, только если они переданы
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	bookingID := handlers.BookingID(r)

	var req UpdateBookingRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("PATCH /admin/bookings/{id} - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	useCaseReq, err := req.ToUseCaseRequest(bookingID)
	if err != nil {
		h.logger.Warn("PATCH /admin/bookings/{id} - Failed to parse request: %v", err)
		if errors.Is(err, errInvalidTime) {
			handlers.RespondBadRequest(w, msgInvalidTime)
		} else {
			handlers.RespondBadRequest(w, msgInvalidDate)
		}
		return
	}

	result, err := h.useCase.Execute(r.Context(), useCaseReq)
	if err != nil {
		switch {
		case errors.Is(err, updateBooking.ErrBookingNotFound):
			h.logger.Warn("PATCH /admin/bookings/{id} - Booking not found: booking_id=%s", bookingID)
			handlers.RespondNotFound(w, msgNotFound)

		case errors.Is(err, updateBooking.ErrSlotNotAvailable):
			h.logger.Warn("PATCH /admin/bookings/{id} - Target slot taken: booking_id=%s", bookingID)
			handlers.RespondConflict(w, msgSlotNotAvailable)

		case errors.Is(err, updateBooking.ErrInvalidInput):
			h.logger.Warn("PATCH /admin/bookings/{id} - Invalid input: %v", err)
			handlers.RespondBadRequest(w, msgInvalidInput)

		case errors.Is(err, updateBooking.ErrInvalidDate):
			handlers.RespondBadRequest(w, msgDateInPast)

		case errors.Is(err, updateBooking.ErrDateNotBookable):
			handlers.RespondBadRequest(w, msgDateNotBookable)

		case errors.Is(err, updateBooking.ErrInvalidTimeSlot):
			handlers.RespondBadRequest(w, msgInvalidTimeSlot)

		default:
			h.logger.Error("PATCH /admin/bookings/{id} - Failed to update booking: booking_id=%s, error=%v", bookingID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("PATCH /admin/bookings/{id} - Booking updated: booking_id=%s", result.Booking.ID)
	handlers.RespondJSON(w, http.StatusOK, FromUseCaseResponse(result))
}
