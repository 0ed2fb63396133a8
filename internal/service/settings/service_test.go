package settings

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/KKKircheff/Auto-Bosch-GTP/internal/domain"
	"github.com/KKKircheff/Auto-Bosch-GTP/internal/infra/storage/memory"
	"github.com/KKKircheff/Auto-Bosch-GTP/internal/service/settings/models"
	"github.com/KKKircheff/Auto-Bosch-GTP/pkg/clock"
	"github.com/KKKircheff/Auto-Bosch-GTP/pkg/logger"
	"github.com/KKKircheff/Auto-Bosch-GTP/pkg/ptr"
)

var now = time.Date(2026, 10, 15, 10, 0, 0, 0, time.UTC)

func newService() *Service {
	return NewService(memory.NewSettingsRepository(memory.NewStore()), clock.Fixed{T: now}, logger.NewNop())
}

type failingRepo struct{}

func (failingRepo) Get(context.Context) (*domain.BusinessSettings, error) {
	return nil, errors.New("connection refused")
}

func (failingRepo) Save(context.Context, *domain.BusinessSettings) (*domain.BusinessSettings, error) {
	return nil, errors.New("connection refused")
}

func TestService_Get_DefaultsWhenAbsent(t *testing.T) {
	got, err := newService().Get(context.Background())

	require.NoError(t, err)
	assert.Equal(t, domain.DefaultBusinessSettings(), got)
}

func TestService_Get_RepositoryError(t *testing.T) {
	svc := NewService(failingRepo{}, clock.Fixed{T: now}, logger.NewNop())

	_, err := svc.Get(context.Background())

	assert.ErrorIs(t, err, ErrInternal)
}

func TestService_Update(t *testing.T) {
	svc := newService()
	ctx := context.Background()

	updated, err := svc.Update(ctx, &models.UpdateSettingsRequest{
		WorkingHoursStart: ptr.Ptr("09:00"),
		ClosedDays:        []string{"2026-12-24"},
		Prices:            map[string]float64{"car": 75},
	})
	require.NoError(t, err)
	assert.Equal(t, "09:00", updated.WorkingHours.Start.String())
	require.NotNil(t, updated.UpdatedAt)
	assert.Equal(t, now, *updated.UpdatedAt)

	got, err := svc.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, 75.0, got.Prices[domain.VehicleCar])
	assert.Equal(t, 100.0, got.Prices[domain.VehicleBus])
	require.Len(t, got.ClosedDays, 1)
	assert.Equal(t, "2026-12-24", got.ClosedDays[0].Format(domain.DateFormat))
}

func TestService_Update_Invalid(t *testing.T) {
	tests := []struct {
		name string
		req  *models.UpdateSettingsRequest
	}{
		{"end before start", &models.UpdateSettingsRequest{WorkingHoursEnd: ptr.Ptr("08:00")}},
		{"bad time", &models.UpdateSettingsRequest{WorkingHoursStart: ptr.Ptr("8 am")}},
		{"bad closed day", &models.UpdateSettingsRequest{ClosedDays: []string{"24.12.2026"}}},
		{"unknown vehicle", &models.UpdateSettingsRequest{Prices: map[string]float64{"tractor": 10}}},
		{"window too long", &models.UpdateSettingsRequest{BookingWindowWeeks: ptr.Ptr(60)}},
		{"no working days", &models.UpdateSettingsRequest{WorkingDays: []int{}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := newService().Update(context.Background(), tt.req)
			assert.ErrorIs(t, err, ErrInvalidInput)
		})
	}
}
