package domain

import (
	"fmt"
	"strings"
	"time"

	"github.com/KKKircheff/Auto-Bosch-GTP/pkg/types"
)

const identitySeparator = "_"

// BookingIdentity детерминированный ключ записи: "YYYY-MM-DD_HH:MM"
// Ключ одновременно является первичным ключом хранилища, поэтому
// "слот занят" равносильно "документ с этим ключом существует"
func BookingIdentity(date time.Time, t types.TimeString) string {
	return date.Format(DateFormat) + identitySeparator + t.String()
}

// ParseBookingIdentity разбирает ключ записи обратно в дату и время
func ParseBookingIdentity(id string) (time.Time, types.TimeString, error) {
	datePart, timePart, ok := strings.Cut(id, identitySeparator)
	if !ok {
		return time.Time{}, "", fmt.Errorf("%w: %q", ErrInvalidIdentity, id)
	}

	date, err := time.Parse(DateFormat, datePart)
	if err != nil {
		return time.Time{}, "", fmt.Errorf("%w: %q", ErrInvalidIdentity, id)
	}

	t, err := types.NewTimeStringFromString(timePart)
	if err != nil || t.String() != timePart {
		return time.Time{}, "", fmt.Errorf("%w: %q", ErrInvalidIdentity, id)
	}

	return date, t, nil
}

// ConfirmationNumber номер подтверждения для клиента: "GTP-YYYYMMDD-HHMM"
// Хвост берется из ключа записи, поэтому номер уникален для слота
func ConfirmationNumber(date time.Time, id string) string {
	tail := id
	if i := strings.LastIndex(id, identitySeparator); i >= 0 {
		tail = id[i+1:]
	}
	tail = strings.ReplaceAll(tail, ":", "")
	return fmt.Sprintf("GTP-%s-%s", date.Format("20060102"), tail)
}
