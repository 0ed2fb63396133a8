package domain

import "errors"

var (
	// ErrInvalidIdentity возвращается при разборе некорректного ключа записи
	ErrInvalidIdentity = errors.New("domain: invalid booking identity")

	// ErrUnknownVehicleType возвращается, когда для типа транспортного средства нет цены
	ErrUnknownVehicleType = errors.New("domain: unknown vehicle type")
)
