package update_booking

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/KKKircheff/Auto-Bosch-GTP/internal/api/handlers"
	"github.com/KKKircheff/Auto-Bosch-GTP/internal/domain"
	updateBooking "github.com/KKKircheff/Auto-Bosch-GTP/internal/usecase/update_booking"
	"github.com/KKKircheff/Auto-Bosch-GTP/pkg/logger"
	"github.com/KKKircheff/Auto-Bosch-GTP/pkg/types"
)

const bookingID = "2026-10-19_09:00"

type mockUseCase struct {
	mock.Mock
}

func (m *mockUseCase) Execute(ctx context.Context, req *updateBooking.Request) (*updateBooking.Response, error) {
	args := m.Called(ctx, req)
	resp, _ := args.Get(0).(*updateBooking.Response)
	return resp, args.Error(1)
}

func serve(t *testing.T, uc UpdateBookingUseCase, body string) (*httptest.ResponseRecorder, handlers.Envelope) {
	t.Helper()

	router := mux.NewRouter()
	router.HandleFunc("/api/v1/admin/bookings/{bookingId}", NewHandler(uc, logger.NewNop()).Handle).Methods(http.MethodPatch)

	req := httptest.NewRequest(http.MethodPatch, "/api/v1/admin/bookings/"+bookingID, strings.NewReader(body))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	var env handlers.Envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	return rec, env
}

func movedBooking() *domain.Booking {
	return &domain.Booking{
		ID:                "2026-10-20_10:30",
		CustomerName:      "Иван Петров",
		Phone:             "+359888123456",
		RegistrationPlate: "CA1234AB",
		VehicleType:       domain.VehicleCar,
		AppointmentDate:   time.Date(2026, 10, 20, 0, 0, 0, 0, time.UTC),
		AppointmentTime:   types.MustTimeString("10:30"),
		Price:             70,
		Status:            domain.StatusConfirmed,
		CreatedAt:         time.Date(2026, 10, 1, 8, 0, 0, 0, time.UTC),
	}
}

func TestHandler_MoveBooking(t *testing.T) {
	uc := &mockUseCase{}
	uc.On("Execute", mock.Anything, mock.MatchedBy(func(r *updateBooking.Request) bool {
		p := r.Patch
		return r.ID == bookingID &&
			p.AppointmentDate != nil && p.AppointmentDate.Equal(time.Date(2026, 10, 20, 0, 0, 0, 0, time.UTC)) &&
			p.AppointmentTime != nil && *p.AppointmentTime == types.TimeString("10:30") &&
			p.CustomerName == nil && p.VehicleType == nil
	})).Return(&updateBooking.Response{Booking: movedBooking(), PreviousID: bookingID}, nil)

	rec, env := serve(t, uc, `{"appointmentDate":"2026-10-20","appointmentTime":"10:30"}`)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, env.Success)
	data := env.Data.(map[string]interface{})
	assert.Equal(t, bookingID, data["previousId"])
	booking := data["booking"].(map[string]interface{})
	assert.Equal(t, "2026-10-20_10:30", booking["id"])
	assert.Equal(t, "10:30", booking["appointmentTime"])
	uc.AssertExpectations(t)
}

func TestHandler_PatchFields(t *testing.T) {
	uc := &mockUseCase{}
	uc.On("Execute", mock.Anything, mock.MatchedBy(func(r *updateBooking.Request) bool {
		p := r.Patch
		return p.VehicleType != nil && *p.VehicleType == domain.VehicleBus &&
			p.Notes != nil && *p.Notes == "с ремарке" &&
			!p.ChangesSlot()
	})).Return(&updateBooking.Response{Booking: movedBooking()}, nil)

	rec, env := serve(t, uc, `{"vehicleType":"bus","notes":"с ремарке"}`)

	assert.Equal(t, http.StatusOK, rec.Code)
	data := env.Data.(map[string]interface{})
	_, hasPrevious := data["previousId"]
	assert.False(t, hasPrevious)
	uc.AssertExpectations(t)
}

func TestHandler_BadRequestBeforeUseCase(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		wantErr string
	}{
		{name: "bad date format", body: `{"appointmentDate":"20.10.2026"}`, wantErr: msgInvalidDate},
		{name: "impossible date", body: `{"appointmentDate":"2026-02-30"}`, wantErr: msgInvalidDate},
		{name: "bad time format", body: `{"appointmentTime":"9.30"}`, wantErr: msgInvalidTime},
		{name: "unknown field", body: `{"status":"cancelled"}`, wantErr: msgInvalidRequestBody},
		{name: "broken json", body: `{`, wantErr: msgInvalidRequestBody},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			uc := &mockUseCase{}

			rec, env := serve(t, uc, tt.body)

			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.False(t, env.Success)
			assert.Equal(t, tt.wantErr, env.Error)
			uc.AssertNotCalled(t, "Execute", mock.Anything, mock.Anything)
		})
	}
}

func TestHandler_UseCaseErrors(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		wantCode int
		wantErr  string
	}{
		{name: "not found", err: updateBooking.ErrBookingNotFound, wantCode: http.StatusNotFound, wantErr: msgNotFound},
		{name: "slot taken", err: updateBooking.ErrSlotNotAvailable, wantCode: http.StatusConflict, wantErr: msgSlotNotAvailable},
		{name: "invalid input", err: fmt.Errorf("%w: phone", updateBooking.ErrInvalidInput), wantCode: http.StatusBadRequest, wantErr: msgInvalidInput},
		{name: "past date", err: updateBooking.ErrInvalidDate, wantCode: http.StatusBadRequest, wantErr: msgDateInPast},
		{name: "closed day", err: updateBooking.ErrDateNotBookable, wantCode: http.StatusBadRequest, wantErr: msgDateNotBookable},
		{name: "off grid", err: updateBooking.ErrInvalidTimeSlot, wantCode: http.StatusBadRequest, wantErr: msgInvalidTimeSlot},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			uc := &mockUseCase{}
			uc.On("Execute", mock.Anything, mock.Anything).Return(nil, tt.err)

			rec, env := serve(t, uc, `{"appointmentTime":"10:30"}`)

			assert.Equal(t, tt.wantCode, rec.Code)
			assert.False(t, env.Success)
			assert.Equal(t, tt.wantErr, env.Error)
		})
	}
}

func TestHandler_InternalErrorIsNotLeaked(t *testing.T) {
	uc := &mockUseCase{}
	uc.On("Execute", mock.Anything, mock.Anything).Return(nil, errors.New("pq: connection refused"))

	rec, env := serve(t, uc, `{"notes":"x"}`)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.NotContains(t, env.Error, "pq:")
}
