package validate_slot

import (
	"context"
	"time"

	"github.com/KKKircheff/Auto-Bosch-GTP/pkg/types"
)

type BookingService interface {
	IsTimeSlotAvailable(ctx context.Context, date time.Time, t types.TimeString) (bool, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
