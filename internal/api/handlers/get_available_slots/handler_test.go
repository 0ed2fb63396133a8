package get_available_slots

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/KKKircheff/Auto-Bosch-GTP/internal/api/handlers"
	"github.com/KKKircheff/Auto-Bosch-GTP/internal/domain"
	getAvailableSlots "github.com/KKKircheff/Auto-Bosch-GTP/internal/usecase/get_available_slots"
	"github.com/KKKircheff/Auto-Bosch-GTP/pkg/logger"
)

type mockUseCase struct {
	mock.Mock
}

func (m *mockUseCase) Execute(ctx context.Context, req *getAvailableSlots.Request) (*getAvailableSlots.Response, error) {
	args := m.Called(ctx, req)
	resp, _ := args.Get(0).(*getAvailableSlots.Response)
	return resp, args.Error(1)
}

func (m *mockUseCase) NextAvailableDate(ctx context.Context) (time.Time, error) {
	args := m.Called(ctx)
	return args.Get(0).(time.Time), args.Error(1)
}

var monday = time.Date(2026, 10, 19, 0, 0, 0, 0, time.UTC)

func decode(t *testing.T, rec *httptest.ResponseRecorder) handlers.Envelope {
	t.Helper()
	var env handlers.Envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	return env
}

func TestHandler_PublicHidesBookingDetails(t *testing.T) {
	uc := &mockUseCase{}
	uc.On("Execute", mock.Anything, &getAvailableSlots.Request{Date: monday}).Return(&getAvailableSlots.Response{
		Date: monday,
		Slots: []domain.Slot{
			{Date: monday, Time: "08:30", Available: true},
			{Date: monday, Time: "09:00", Available: false},
		},
	}, nil)

	rec := httptest.NewRecorder()
	NewHandler(uc, logger.NewNop()).Handle(rec, httptest.NewRequest(http.MethodGet, "/api/v1/slots?date=2026-10-19", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	env := decode(t, rec)
	assert.True(t, env.Success)

	slots, ok := env.Data.([]interface{})
	require.True(t, ok, "data must be a bare slot array")
	require.Len(t, slots, 2)
	assert.Equal(t, map[string]interface{}{"time": "08:30", "available": true}, slots[0])
	assert.Equal(t, map[string]interface{}{"time": "09:00", "available": false}, slots[1])
	uc.AssertExpectations(t)
}

func TestHandler_AdminRequestsDetails(t *testing.T) {
	uc := &mockUseCase{}
	uc.On("Execute", mock.Anything, &getAvailableSlots.Request{Date: monday, IncludeBookingDetails: true}).Return(&getAvailableSlots.Response{
		Date: monday,
		Slots: []domain.Slot{{
			Date:      monday,
			Time:      "09:00",
			BookingID: "2026-10-19_09:00",
			Booking:   &domain.SlotBooking{CustomerName: "Иван", RegistrationPlate: "CA1234AB", VehicleType: domain.VehicleCar},
		}},
	}, nil)

	rec := httptest.NewRecorder()
	NewAdminHandler(uc, logger.NewNop()).Handle(rec, httptest.NewRequest(http.MethodGet, "/api/v1/admin/slots?date=2026-10-19", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	slot := decode(t, rec).Data.([]interface{})[0].(map[string]interface{})
	assert.Equal(t, "2026-10-19_09:00", slot["bookingId"])
	assert.Equal(t, "CA1234AB", slot["booking"].(map[string]interface{})["registrationPlate"])
}

func TestHandler_StoreFailureReturnsEmptySlots(t *testing.T) {
	uc := &mockUseCase{}
	uc.On("Execute", mock.Anything, mock.Anything).Return(&getAvailableSlots.Response{Date: monday}, getAvailableSlots.ErrInternal)

	rec := httptest.NewRecorder()
	NewHandler(uc, logger.NewNop()).Handle(rec, httptest.NewRequest(http.MethodGet, "/api/v1/slots?date=2026-10-19", nil))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	env := decode(t, rec)
	assert.False(t, env.Success)
	assert.Equal(t, msgSlotsFailed, env.Error)
	assert.Equal(t, []interface{}{}, env.Data)
}

func TestHandler_ClosedDayReturnsEmptyArray(t *testing.T) {
	uc := &mockUseCase{}
	uc.On("Execute", mock.Anything, mock.Anything).Return(&getAvailableSlots.Response{Date: monday}, nil)

	rec := httptest.NewRecorder()
	NewHandler(uc, logger.NewNop()).Handle(rec, httptest.NewRequest(http.MethodGet, "/api/v1/slots?date=2026-10-19", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"success":true,"data":[]}`, rec.Body.String())
}

func TestHandler_InvalidDate(t *testing.T) {
	for _, url := range []string{"/api/v1/slots", "/api/v1/slots?date=tomorrow"} {
		rec := httptest.NewRecorder()
		NewHandler(&mockUseCase{}, logger.NewNop()).Handle(rec, httptest.NewRequest(http.MethodGet, url, nil))

		assert.Equal(t, http.StatusBadRequest, rec.Code, url)
		assert.Equal(t, msgInvalidDate, decode(t, rec).Error, url)
	}
}

func TestHandler_NextAvailableDate(t *testing.T) {
	uc := &mockUseCase{}
	uc.On("NextAvailableDate", mock.Anything).Return(monday, nil).Once()
	uc.On("NextAvailableDate", mock.Anything).Return(time.Time{}, errors.New("boom")).Once()
	h := NewHandler(uc, logger.NewNop())

	rec := httptest.NewRecorder()
	h.HandleNextAvailableDate(rec, httptest.NewRequest(http.MethodGet, "/api/v1/slots/next-available-date", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, map[string]interface{}{"date": "2026-10-19"}, decode(t, rec).Data)

	rec = httptest.NewRecorder()
	h.HandleNextAvailableDate(rec, httptest.NewRequest(http.MethodGet, "/api/v1/slots/next-available-date", nil))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}
