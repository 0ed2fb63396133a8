package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/KKKircheff/Auto-Bosch-GTP/pkg/types"
)

func TestBookingIdentity_Deterministic(t *testing.T) {
	date := time.Date(2026, 10, 19, 0, 0, 0, 0, time.UTC)

	first := BookingIdentity(date, "09:00")
	second := BookingIdentity(date, "09:00")
	other := BookingIdentity(date, "09:30")

	assert.Equal(t, "2026-10-19_09:00", first)
	assert.Equal(t, first, second)
	assert.NotEqual(t, first, other)
}

func TestBookingIdentity_IgnoresClockOfDate(t *testing.T) {
	midnight := time.Date(2026, 10, 19, 0, 0, 0, 0, time.UTC)
	afternoon := time.Date(2026, 10, 19, 15, 45, 0, 0, time.UTC)

	assert.Equal(t, BookingIdentity(midnight, "10:00"), BookingIdentity(afternoon, "10:00"))
}

func TestParseBookingIdentity(t *testing.T) {
	date, tm, err := ParseBookingIdentity("2026-10-19_09:00")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2026, 10, 19, 0, 0, 0, 0, time.UTC), date)
	assert.Equal(t, types.TimeString("09:00"), tm)

	for _, bad := range []string{"", "2026-10-19", "2026-10-19_9:00", "19-10-2026_09:00", "2026-10-19_25:00"} {
		_, _, err := ParseBookingIdentity(bad)
		assert.ErrorIs(t, err, ErrInvalidIdentity, bad)
	}
}

func TestConfirmationNumber(t *testing.T) {
	date := time.Date(2026, 10, 19, 0, 0, 0, 0, time.UTC)
	id := BookingIdentity(date, "09:00")

	assert.Equal(t, "GTP-20261019-0900", ConfirmationNumber(date, id))
}
