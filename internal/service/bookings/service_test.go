package bookings

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/KKKircheff/Auto-Bosch-GTP/internal/domain"
	"github.com/KKKircheff/Auto-Bosch-GTP/internal/infra/cache/counts"
	"github.com/KKKircheff/Auto-Bosch-GTP/internal/infra/storage/memory"
	"github.com/KKKircheff/Auto-Bosch-GTP/internal/integrations/notifier"
	"github.com/KKKircheff/Auto-Bosch-GTP/internal/service/bookings/models"
	"github.com/KKKircheff/Auto-Bosch-GTP/pkg/clock"
	"github.com/KKKircheff/Auto-Bosch-GTP/pkg/logger"
	"github.com/KKKircheff/Auto-Bosch-GTP/pkg/ptr"
	"github.com/KKKircheff/Auto-Bosch-GTP/pkg/types"
)

var sofia = time.FixedZone("EEST", 3*60*60)

// Четверг 15.10.2026, 10:00
var now = time.Date(2026, 10, 15, 10, 0, 0, 0, sofia)

var monday = time.Date(2026, 10, 19, 0, 0, 0, 0, time.UTC)

type defaultSettings struct{}

func (defaultSettings) Get(context.Context) (*domain.BusinessSettings, error) {
	return domain.DefaultBusinessSettings(), nil
}

type mockPublisher struct {
	mock.Mock
}

func (m *mockPublisher) Publish(ctx context.Context, event notifier.Event) error {
	return m.Called(ctx, event).Error(0)
}

type mockCounts struct {
	mock.Mock
}

func (m *mockCounts) Get(ctx context.Context, from, to string) (map[string]int, int64, bool, error) {
	args := m.Called(ctx, from, to)
	c, _ := args.Get(0).(map[string]int)
	return c, args.Get(1).(int64), args.Bool(2), args.Error(3)
}

func (m *mockCounts) Set(ctx context.Context, from, to string, version int64, c map[string]int) error {
	return m.Called(ctx, from, to, version, c).Error(0)
}

func (m *mockCounts) Invalidate(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

// brokenRepo хранилище, которое всегда отвечает ошибкой
type brokenRepo struct {
	*memory.BookingRepository
}

func (brokenRepo) GetByDateRange(context.Context, domain.BookingsFilter) ([]*domain.Booking, error) {
	return nil, errors.New("connection refused")
}

func (brokenRepo) GetByID(context.Context, string) (*domain.Booking, error) {
	return nil, errors.New("connection refused")
}

type fixture struct {
	store     *memory.Store
	repo      *memory.BookingRepository
	publisher *mockPublisher
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	store := memory.NewStore()
	publisher := &mockPublisher{}
	publisher.On("Publish", mock.Anything, mock.Anything).Return(nil).Maybe()

	return &fixture{
		store:     store,
		repo:      memory.NewBookingRepository(store),
		publisher: publisher,
	}
}

func (f *fixture) service(repo BookingRepository, cache CountsCache) *Service {
	return NewService(
		repo,
		defaultSettings{},
		memory.NewTxManager(f.store),
		f.publisher,
		cache,
		clock.Fixed{T: now},
		logger.NewNop(),
	)
}

func (f *fixture) seed(t *testing.T, date time.Time, tm string, status domain.BookingStatus) *domain.Booking {
	t.Helper()

	ts := types.MustTimeString(tm)
	b, err := f.repo.Create(context.Background(), &domain.Booking{
		ID:                domain.BookingIdentity(date, ts),
		CustomerName:      "Иван Петров",
		Phone:             "+359888123456",
		RegistrationPlate: "CA1234AB",
		VehicleType:       domain.VehicleCar,
		AppointmentDate:   date,
		AppointmentTime:   ts,
		Price:             66.5,
		Status:            status,
		CreatedAt:         now.UTC(),
	})
	require.NoError(t, err)
	return b
}

func TestService_GetByID(t *testing.T) {
	f := newFixture(t)
	b := f.seed(t, monday, "09:00", domain.StatusConfirmed)
	svc := f.service(f.repo, counts.Noop{})

	resp, err := svc.GetByID(context.Background(), b.ID)
	require.NoError(t, err)
	assert.Equal(t, "2026-10-19", resp.AppointmentDate)
	assert.Equal(t, "09:00", resp.AppointmentTime)
	assert.Equal(t, "GTP-20261019-0900", resp.ConfirmationNumber)

	_, err = svc.GetByID(context.Background(), "2026-10-19_10:00")
	assert.ErrorIs(t, err, ErrBookingNotFound)

	_, err = svc.GetByID(context.Background(), "not-an-id")
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestService_List(t *testing.T) {
	f := newFixture(t)
	f.seed(t, monday.AddDate(0, 0, 1), "09:00", domain.StatusConfirmed)
	f.seed(t, monday, "11:00", domain.StatusCancelled)
	f.seed(t, monday, "09:30", domain.StatusConfirmed)
	f.seed(t, monday.AddDate(0, 0, 7), "09:00", domain.StatusConfirmed)
	svc := f.service(f.repo, counts.Noop{})

	resp, err := svc.List(context.Background(), &models.ListBookingsRequest{
		StartDate: monday,
		EndDate:   monday.AddDate(0, 0, 1),
	})
	require.NoError(t, err)
	require.Len(t, resp.Bookings, 3)
	assert.Equal(t, "2026-10-19_09:30", resp.Bookings[0].ID)
	assert.Equal(t, "2026-10-19_11:00", resp.Bookings[1].ID)
	assert.Equal(t, "2026-10-20_09:00", resp.Bookings[2].ID)

	resp, err = svc.List(context.Background(), &models.ListBookingsRequest{
		StartDate: monday,
		EndDate:   monday,
		Status:    ptr.Ptr("cancelled"),
	})
	require.NoError(t, err)
	require.Len(t, resp.Bookings, 1)
	assert.Equal(t, "cancelled", resp.Bookings[0].Status)
}

func TestService_List_InvalidRequest(t *testing.T) {
	f := newFixture(t)
	svc := f.service(f.repo, counts.Noop{})

	_, err := svc.List(context.Background(), &models.ListBookingsRequest{StartDate: monday, EndDate: monday.AddDate(0, 0, -1)})
	assert.ErrorIs(t, err, ErrInvalidTimeRange)

	_, err = svc.List(context.Background(), &models.ListBookingsRequest{StartDate: monday, EndDate: monday.AddDate(2, 0, 0)})
	assert.ErrorIs(t, err, ErrInvalidTimeRange)

	_, err = svc.List(context.Background(), &models.ListBookingsRequest{StartDate: monday, EndDate: monday, Status: ptr.Ptr("done")})
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestService_Cancel_FreesSlotAndIsIdempotent(t *testing.T) {
	f := newFixture(t)
	b := f.seed(t, monday, "09:00", domain.StatusConfirmed)

	cache := &mockCounts{}
	cache.On("Invalidate", mock.Anything).Return(nil).Once()
	svc := f.service(f.repo, cache)

	require.NoError(t, svc.Cancel(context.Background(), b.ID, &models.CancelBookingRequest{CancellationReason: " болен "}))

	stored, err := f.repo.GetByID(context.Background(), b.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusCancelled, stored.Status)
	assert.Equal(t, "болен", stored.CancellationReason)
	require.NotNil(t, stored.CancelledAt)
	assert.True(t, stored.CancelledAt.Equal(now))

	available, err := svc.IsTimeSlotAvailable(context.Background(), monday, "09:00")
	require.NoError(t, err)
	assert.True(t, available)

	// Повторная отмена ничего не меняет и не публикует событий
	require.NoError(t, svc.Cancel(context.Background(), b.ID, nil))
	again, err := f.repo.GetByID(context.Background(), b.ID)
	require.NoError(t, err)
	assert.Equal(t, "болен", again.CancellationReason)

	require.NoError(t, svc.Cancel(context.Background(), "2026-10-20_09:00", nil))

	f.publisher.AssertNumberOfCalls(t, "Publish", 1)
	cache.AssertExpectations(t)
}

func TestService_Delete_IsIdempotent(t *testing.T) {
	f := newFixture(t)
	b := f.seed(t, monday, "09:00", domain.StatusConfirmed)
	svc := f.service(f.repo, counts.Noop{})

	require.NoError(t, svc.Delete(context.Background(), b.ID))
	require.NoError(t, svc.Delete(context.Background(), b.ID))

	_, err := svc.GetByID(context.Background(), b.ID)
	assert.ErrorIs(t, err, ErrBookingNotFound)

	f.publisher.AssertNumberOfCalls(t, "Publish", 1)
	f.publisher.AssertCalled(t, "Publish", mock.Anything, mock.MatchedBy(func(e notifier.Event) bool {
		return e.Type == notifier.EventBookingDeleted && e.BookingID == b.ID && e.AppointmentTime == "09:00"
	}))

	assert.ErrorIs(t, svc.Delete(context.Background(), "bad"), ErrInvalidInput)
}

func TestService_IsTimeSlotAvailable(t *testing.T) {
	f := newFixture(t)
	f.seed(t, monday, "09:00", domain.StatusConfirmed)
	svc := f.service(f.repo, counts.Noop{})

	tests := []struct {
		name string
		date time.Time
		time types.TimeString
		want bool
	}{
		{name: "booked", date: monday, time: "09:00", want: false},
		{name: "free", date: monday, time: "09:30", want: true},
		{name: "elapsed today", date: now, time: "09:30", want: false},
		{name: "later today", date: now, time: "15:00", want: true},
		{name: "weekend", date: monday.AddDate(0, 0, -1), time: "09:00", want: false},
		{name: "off grid", date: monday, time: "09:15", want: false},
		{name: "past working hours", date: monday, time: "17:30", want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := svc.IsTimeSlotAvailable(context.Background(), tt.date, tt.time)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestService_IsTimeSlotAvailable_StoreFailure(t *testing.T) {
	f := newFixture(t)
	svc := f.service(brokenRepo{f.repo}, counts.Noop{})

	_, err := svc.IsTimeSlotAvailable(context.Background(), monday, "09:00")
	assert.ErrorIs(t, err, ErrInternal)
}

func TestService_GetAppointmentCounts(t *testing.T) {
	f := newFixture(t)
	f.seed(t, monday, "09:00", domain.StatusConfirmed)
	f.seed(t, monday, "09:30", domain.StatusConfirmed)
	f.seed(t, monday, "10:00", domain.StatusCancelled)
	f.seed(t, monday.AddDate(0, 0, 1), "09:00", domain.StatusConfirmed)

	want := map[string]int{"2026-10-19": 2, "2026-10-20": 1}

	cache := &mockCounts{}
	cache.On("Get", mock.Anything, "2026-10-19", "2026-10-23").Return(nil, int64(4), false, nil).Once()
	cache.On("Set", mock.Anything, "2026-10-19", "2026-10-23", int64(4), want).Return(nil).Once()
	svc := f.service(f.repo, cache)

	got, err := svc.GetAppointmentCounts(context.Background(), monday, monday.AddDate(0, 0, 4))
	require.NoError(t, err)
	assert.Equal(t, want, got)
	cache.AssertExpectations(t)
}

func TestService_GetAppointmentCounts_CacheHit(t *testing.T) {
	f := newFixture(t)

	cache := &mockCounts{}
	cache.On("Get", mock.Anything, "2026-10-19", "2026-10-19").Return(map[string]int{"2026-10-19": 7}, int64(0), true, nil).Once()
	svc := f.service(brokenRepo{f.repo}, cache)

	got, err := svc.GetAppointmentCounts(context.Background(), monday, monday)
	require.NoError(t, err)
	assert.Equal(t, map[string]int{"2026-10-19": 7}, got)
	cache.AssertNotCalled(t, "Set", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestService_GetAppointmentCounts_DegradesToEmpty(t *testing.T) {
	f := newFixture(t)

	cache := &mockCounts{}
	cache.On("Get", mock.Anything, mock.Anything, mock.Anything).Return(nil, int64(0), false, errors.New("redis down"))
	svc := f.service(brokenRepo{f.repo}, cache)

	got, err := svc.GetAppointmentCounts(context.Background(), monday, monday.AddDate(0, 0, 4))
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestService_GetAppointmentCounts_CacheDownSkipsSet(t *testing.T) {
	f := newFixture(t)
	f.seed(t, monday, "09:00", domain.StatusConfirmed)

	cache := &mockCounts{}
	cache.On("Get", mock.Anything, mock.Anything, mock.Anything).Return(nil, int64(0), false, errors.New("redis down"))
	svc := f.service(f.repo, cache)

	got, err := svc.GetAppointmentCounts(context.Background(), monday, monday)
	require.NoError(t, err)
	assert.Equal(t, map[string]int{"2026-10-19": 1}, got)
	cache.AssertNotCalled(t, "Set", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}
