package txmanager

import "errors"

var (
	// ErrTransaction возвращается при ошибках начала/фиксации транзакции
	ErrTransaction = errors.New("txmanager: transaction error")

	// ErrRetriesExhausted возвращается, когда транзакция так и не зафиксировалась
	// из-за конфликтов сериализации после всех повторов
	ErrRetriesExhausted = errors.New("txmanager: conflict retries exhausted")

	// ErrDuplicateKey возвращается, когда уникальность ключа нарушена при фиксации
	// (хранилища, которые проверяют вставку только на commit)
	ErrDuplicateKey = errors.New("txmanager: duplicate key on commit")
)
