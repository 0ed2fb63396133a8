package booking_counts

import (
	"context"
	"time"
)

type BookingService interface {
	GetAppointmentCounts(ctx context.Context, from, to time.Time) (map[string]int, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
