package create_booking

import (
	"errors"
	"net/http"

	"github.com/KKKircheff/Auto-Bosch-GTP/internal/api/handlers"
	createBooking "github.com/KKKircheff/Auto-Bosch-GTP/internal/usecase/create_booking"
)

const (
	msgInvalidRequestBody = "Невалидни данни в заявката"
	msgInvalidDate        = "Невалидна дата, очаква се формат ГГГГ-ММ-ДД"
	msgInvalidTime        = "Невалиден час, очаква се формат ЧЧ:ММ"
	msgInvalidInput       = "Моля, проверете въведените данни"
	msgDateInPast         = "Не можете да запазите час за минала дата"
	msgDateNotBookable    = "Избраната дата не е достъпна за записване"
	msgInvalidTimeSlot    = "Избраният час не е валиден"
	msgSlotNotAvailable   = "Избраният час вече е зает. Моля, изберете друг час."
)

type Handler struct {
	useCase CreateBookingUseCase
	logger  Logger
}

func NewHandler(useCase CreateBookingUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle POST /api/v1/bookings
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	var req CreateBookingRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /bookings - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	useCaseReq, err := req.ToUseCaseRequest()
	if err != nil {
		h.logger.Warn("POST /bookings - Failed to parse request: %v", err)
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
		case errors.Is(err, createBooking.ErrSlotNotAvailable):
			h.logger.Warn("POST /bookings - Slot not available: date=%s, time=%s", req.AppointmentDate, req.AppointmentTime)
			handlers.RespondConflict(w, msgSlotNotAvailable)

		case errors.Is(err, createBooking.ErrInvalidInput):
			h.logger.Warn("POST /bookings - Invalid input: %v", err)
			handlers.RespondBadRequest(w, msgInvalidInput)

		case errors.Is(err, createBooking.ErrInvalidDate):
			h.logger.Warn("POST /bookings - Date in past: date=%s", req.AppointmentDate)
			handlers.RespondBadRequest(w, msgDateInPast)

		case errors.Is(err, createBooking.ErrDateNotBookable):
			h.logger.Warn("POST /bookings - Date not bookable: date=%s", req.AppointmentDate)
			handlers.RespondBadRequest(w, msgDateNotBookable)

		case errors.Is(err, createBooking.ErrInvalidTimeSlot):
			h.logger.Warn("POST /bookings - Invalid time slot: date=%s, time=%s", req.AppointmentDate, req.AppointmentTime)
			handlers.RespondBadRequest(w, msgInvalidTimeSlot)

		default:
			h.logger.Error("POST /bookings - Failed to create booking: date=%s, time=%s, error=%v",
				req.AppointmentDate, req.AppointmentTime, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /bookings - Booking created successfully: booking_id=%s", result.BookingID)
	handlers.RespondJSON(w, http.StatusCreated, FromUseCaseResponse(result))
}
