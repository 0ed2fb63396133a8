package notifier

import "errors"

var (
	// ErrConnection возвращается, когда не удалось подключиться к брокеру
	ErrConnection = errors.New("notifier: broker connection failed")

	// ErrPublish возвращается, когда событие не удалось опубликовать
	ErrPublish = errors.New("notifier: publish failed")
)
