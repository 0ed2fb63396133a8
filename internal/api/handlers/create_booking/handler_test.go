package create_booking

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/KKKircheff/Auto-Bosch-GTP/internal/api/handlers"
	createBooking "github.com/KKKircheff/Auto-Bosch-GTP/internal/usecase/create_booking"
	"github.com/KKKircheff/Auto-Bosch-GTP/pkg/logger"
	"github.com/KKKircheff/Auto-Bosch-GTP/pkg/types"
)

type mockUseCase struct {
	mock.Mock
}

func (m *mockUseCase) Execute(ctx context.Context, req *createBooking.Request) (*createBooking.Response, error) {
	args := m.Called(ctx, req)
	resp, _ := args.Get(0).(*createBooking.Response)
	return resp, args.Error(1)
}

const validBody = `{
	"customerName": "Иван Петров",
	"phone": "+359 888 123 456",
	"registrationPlate": "CA1234AB",
	"vehicleType": "car",
	"appointmentDate": "2026-10-19",
	"appointmentTime": "09:00"
}`

func do(t *testing.T, uc CreateBookingUseCase, body string) (*httptest.ResponseRecorder, handlers.Envelope) {
	t.Helper()

	req := httptest.NewRequest(http.MethodPost, "/api/v1/bookings", strings.NewReader(body))
	rec := httptest.NewRecorder()
	NewHandler(uc, logger.NewNop()).Handle(rec, req)

	var env handlers.Envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	return rec, env
}

func TestHandler_Created(t *testing.T) {
	uc := &mockUseCase{}
	uc.On("Execute", mock.Anything, mock.MatchedBy(func(r *createBooking.Request) bool {
		return r.IsOnline && r.AppointmentTime == types.TimeString("09:00") && r.AppointmentDate.Day() == 19
	})).Return(&createBooking.Response{
		BookingID:          "2026-10-19_09:00",
		ConfirmationNumber: "GTP-20261019-0900",
		Price:              66.5,
	}, nil)

	rec, env := do(t, uc, validBody)

	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.True(t, env.Success)
	data := env.Data.(map[string]interface{})
	assert.Equal(t, "2026-10-19_09:00", data["bookingId"])
	assert.Equal(t, "GTP-20261019-0900", data["confirmationNumber"])
	assert.Equal(t, 66.5, data["price"])
	uc.AssertExpectations(t)
}

func TestHandler_Errors(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		ucErr      error
		wantStatus int
		wantMsg    string
	}{
		{name: "broken json", body: `{`, wantStatus: http.StatusBadRequest, wantMsg: msgInvalidRequestBody},
		{name: "unknown field", body: `{"foo": 1}`, wantStatus: http.StatusBadRequest, wantMsg: msgInvalidRequestBody},
		{
			name:       "bad date",
			body:       strings.Replace(validBody, "2026-10-19", "19.10.2026", 1),
			wantStatus: http.StatusBadRequest,
			wantMsg:    msgInvalidDate,
		},
		{
			name:       "bad time",
			body:       strings.Replace(validBody, `"09:00"`, `"9am"`, 1),
			wantStatus: http.StatusBadRequest,
			wantMsg:    msgInvalidTime,
		},
		{name: "slot taken", body: validBody, ucErr: createBooking.ErrSlotNotAvailable, wantStatus: http.StatusConflict, wantMsg: msgSlotNotAvailable},
		{name: "validation", body: validBody, ucErr: createBooking.ErrInvalidInput, wantStatus: http.StatusBadRequest, wantMsg: msgInvalidInput},
		{name: "weekend", body: validBody, ucErr: createBooking.ErrDateNotBookable, wantStatus: http.StatusBadRequest, wantMsg: msgDateNotBookable},
		{name: "store down", body: validBody, ucErr: fmt.Errorf("%w: boom", createBooking.ErrInternal), wantStatus: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			uc := &mockUseCase{}
			uc.On("Execute", mock.Anything, mock.Anything).Return(nil, tt.ucErr).Maybe()

			rec, env := do(t, uc, tt.body)

			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.False(t, env.Success)
			if tt.wantMsg != "" {
				assert.Equal(t, tt.wantMsg, env.Error)
			}
			assert.NotContains(t, env.Error, "boom")
		})
	}
}
