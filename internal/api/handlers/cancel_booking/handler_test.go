package cancel_booking

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/KKKircheff/Auto-Bosch-GTP/internal/api/handlers"
	"github.com/KKKircheff/Auto-Bosch-GTP/internal/service/bookings"
	"github.com/KKKircheff/Auto-Bosch-GTP/internal/service/bookings/models"
	"github.com/KKKircheff/Auto-Bosch-GTP/pkg/logger"
)

type mockService struct {
	mock.Mock
}

func (m *mockService) Cancel(ctx context.Context, id string, req *models.CancelBookingRequest) error {
	return m.Called(ctx, id, req).Error(0)
}

func serve(t *testing.T, svc BookingService, body string) (*httptest.ResponseRecorder, handlers.Envelope) {
	t.Helper()

	router := mux.NewRouter()
	router.HandleFunc("/api/v1/admin/bookings/{bookingId}/cancel", NewHandler(svc, logger.NewNop()).Handle).Methods(http.MethodPatch)

	req := httptest.NewRequest(http.MethodPatch, "/api/v1/admin/bookings/2026-10-19_09:00/cancel", strings.NewReader(body))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	var env handlers.Envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	return rec, env
}

func TestHandler_CancelWithReason(t *testing.T) {
	svc := &mockService{}
	svc.On("Cancel", mock.Anything, "2026-10-19_09:00", &models.CancelBookingRequest{CancellationReason: "по телефона"}).Return(nil)

	rec, env := serve(t, svc, `{"cancellationReason":"по телефона"}`)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, env.Success)
	assert.Equal(t, msgCancelled, env.Message)
	svc.AssertExpectations(t)
}

func TestHandler_CancelWithoutBody(t *testing.T) {
	svc := &mockService{}
	svc.On("Cancel", mock.Anything, "2026-10-19_09:00", &models.CancelBookingRequest{}).Return(nil)

	rec, _ := serve(t, svc, "")

	assert.Equal(t, http.StatusOK, rec.Code)
	svc.AssertExpectations(t)
}

func TestHandler_Errors(t *testing.T) {
	svc := &mockService{}
	svc.On("Cancel", mock.Anything, mock.Anything, mock.Anything).Return(bookings.ErrInvalidInput).Once()
	svc.On("Cancel", mock.Anything, mock.Anything, mock.Anything).Return(errors.New("db down")).Once()

	rec, env := serve(t, svc, `{}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, msgInvalidRequest, env.Error)

	rec, env = serve(t, svc, `{}`)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.NotContains(t, env.Error, "db down")

	rec, _ = serve(t, svc, `{"reason": 1}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
