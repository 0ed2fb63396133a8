// Package storage содержит ошибки, общие для всех реализаций хранилища
// (postgres, firestore, mongo, memory). Реализации оборачивают их через %w,
// поэтому вызывающий код проверяет errors.Is независимо от драйвера.
package storage

import "errors"

var (
	// ErrBookingNotFound возвращается, когда записи с таким ключом нет
	ErrBookingNotFound = errors.New("storage: booking not found")

	// ErrBookingExists возвращается, когда запись с таким ключом уже существует
	// (слот занят в момент вставки)
	ErrBookingExists = errors.New("storage: booking already exists")

	// ErrSettingsNotFound возвращается, когда настройки еще не сохранялись
	ErrSettingsNotFound = errors.New("storage: settings not found")

	// ErrTransaction возвращается при ошибках работы с транзакцией
	ErrTransaction = errors.New("storage: transaction error")

	// ErrBuildQuery возвращается при ошибке построения запроса
	ErrBuildQuery = errors.New("storage: failed to build query")

	// ErrExecQuery возвращается при ошибке выполнения запроса
	ErrExecQuery = errors.New("storage: failed to execute query")

	// ErrScanRow возвращается при ошибке чтения результата
	ErrScanRow = errors.New("storage: failed to scan row")
)
