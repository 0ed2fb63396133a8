package get_available_slots

import (
	"context"
	"time"

	getAvailableSlots "github.com/KKKircheff/Auto-Bosch-GTP/internal/usecase/get_available_slots"
)

type GetAvailableSlotsUseCase interface {
	Execute(ctx context.Context, req *getAvailableSlots.Request) (*getAvailableSlots.Response, error)
	NextAvailableDate(ctx context.Context) (time.Time, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
