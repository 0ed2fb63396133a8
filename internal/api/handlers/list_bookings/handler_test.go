package list_bookings

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/KKKircheff/Auto-Bosch-GTP/internal/api/handlers"
	"github.com/KKKircheff/Auto-Bosch-GTP/internal/service/bookings"
	"github.com/KKKircheff/Auto-Bosch-GTP/internal/service/bookings/models"
	"github.com/KKKircheff/Auto-Bosch-GTP/pkg/logger"
	"github.com/KKKircheff/Auto-Bosch-GTP/pkg/ptr"
)

type mockService struct {
	mock.Mock
}

func (m *mockService) List(ctx context.Context, req *models.ListBookingsRequest) (*models.BookingListResponse, error) {
	args := m.Called(ctx, req)
	resp, _ := args.Get(0).(*models.BookingListResponse)
	return resp, args.Error(1)
}

func get(t *testing.T, svc BookingService, url string) (*httptest.ResponseRecorder, handlers.Envelope) {
	t.Helper()

	rec := httptest.NewRecorder()
	NewHandler(svc, logger.NewNop()).Handle(rec, httptest.NewRequest(http.MethodGet, url, nil))

	var env handlers.Envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	return rec, env
}

func TestHandler_List(t *testing.T) {
	svc := &mockService{}
	svc.On("List", mock.Anything, &models.ListBookingsRequest{
		StartDate: time.Date(2026, 10, 19, 0, 0, 0, 0, time.UTC),
		EndDate:   time.Date(2026, 10, 23, 0, 0, 0, 0, time.UTC),
		Status:    ptr.Ptr("confirmed"),
	}).Return(&models.BookingListResponse{Bookings: []models.BookingResponse{{ID: "2026-10-19_09:00"}}}, nil)

	rec, env := get(t, svc, "/api/v1/admin/bookings?from=2026-10-19&to=2026-10-23&status=confirmed")

	assert.Equal(t, http.StatusOK, rec.Code)
	items := env.Data.(map[string]interface{})["bookings"].([]interface{})
	require.Len(t, items, 1)
	assert.Equal(t, "2026-10-19_09:00", items[0].(map[string]interface{})["id"])
}

func TestHandler_BadRequests(t *testing.T) {
	svc := &mockService{}
	svc.On("List", mock.Anything, mock.Anything).Return(nil, bookings.ErrInvalidTimeRange)

	rec, env := get(t, svc, "/api/v1/admin/bookings?from=2026-10-19")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, msgInvalidParams, env.Error)

	rec, env = get(t, svc, "/api/v1/admin/bookings?from=2026-10-23&to=2026-10-19")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, msgInvalidRange, env.Error)
}
