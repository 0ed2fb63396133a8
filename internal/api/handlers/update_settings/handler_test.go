package update_settings

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
	"github.com/KKKircheff/Auto-Bosch-GTP/internal/domain"
	"github.com/KKKircheff/Auto-Bosch-GTP/internal/service/settings"
	"github.com/KKKircheff/Auto-Bosch-GTP/internal/service/settings/models"
	"github.com/KKKircheff/Auto-Bosch-GTP/pkg/logger"
)

type mockService struct {
	mock.Mock
}

func (m *mockService) Update(ctx context.Context, req *models.UpdateSettingsRequest) (*domain.BusinessSettings, error) {
	args := m.Called(ctx, req)
	s, _ := args.Get(0).(*domain.BusinessSettings)
	return s, args.Error(1)
}

func put(t *testing.T, svc SettingsService, body string) (*httptest.ResponseRecorder, handlers.Envelope) {
	t.Helper()

	rec := httptest.NewRecorder()
	NewHandler(svc, logger.NewNop()).Handle(rec, httptest.NewRequest(http.MethodPut, "/api/v1/admin/settings", strings.NewReader(body)))

	var env handlers.Envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	return rec, env
}

func TestHandler_PassesPartialUpdate(t *testing.T) {
	svc := &mockService{}
	svc.On("Update", mock.Anything, mock.MatchedBy(func(r *models.UpdateSettingsRequest) bool {
		return r.WorkingHoursStart != nil && *r.WorkingHoursStart == "09:00" &&
			r.WorkingHoursEnd == nil &&
			r.ClosedDays != nil && len(r.ClosedDays) == 0 &&
			r.WorkingDays == nil
	})).Return(domain.DefaultBusinessSettings(), nil)

	rec, env := put(t, svc, `{"workingHours":{"start":"09:00"},"closedDays":[]}`)

	assert.Equal(t, http.StatusOK, rec.Code)
	data := env.Data.(map[string]interface{})
	assert.Equal(t, float64(30), data["appointmentDuration"])
	assert.Equal(t, []interface{}{}, data["closedDays"])
	svc.AssertExpectations(t)
}

func TestHandler_InvalidSettings(t *testing.T) {
	svc := &mockService{}
	svc.On("Update", mock.Anything, mock.Anything).Return(nil, fmt.Errorf("%w: start after end", settings.ErrInvalidInput))

	rec, env := put(t, svc, `{"appointmentDuration": 1000}`)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, msgInvalidData, env.Error)
}
