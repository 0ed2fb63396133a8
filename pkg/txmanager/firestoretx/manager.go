// Package firestoretx переносит транзакцию Firestore через context,
// так же как txmanager делает это для *sql.Tx
package firestoretx

import (
	"context"
	"fmt"

	"cloud.google.com/go/firestore"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/KKKircheff/Auto-Bosch-GTP/pkg/txmanager"
)

const defaultMaxAttempts = 5

type txKey struct{}

// FromContext возвращает активную транзакцию Firestore или nil
func FromContext(ctx context.Context) *firestore.Transaction {
	tx, _ := ctx.Value(txKey{}).(*firestore.Transaction)
	return tx
}

// Manager менеджер транзакций Firestore
// Транзакции Firestore всегда сериализуемы, при конфликте клиент повторяет их сам
type Manager struct {
	client      *firestore.Client
	maxAttempts int
}

// NewManager создает менеджер транзакций
func NewManager(client *firestore.Client, maxAttempts int) *Manager {
	if maxAttempts <= 0 {
		maxAttempts = defaultMaxAttempts
	}
	return &Manager{client: client, maxAttempts: maxAttempts}
}

// DoSerializable выполняет fn внутри транзакции Firestore
// Все чтения в fn должны идти до записей (ограничение Firestore)
func (m *Manager) DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error {
	if FromContext(ctx) != nil {
		return fn(ctx)
	}

	err := m.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		return fn(context.WithValue(ctx, txKey{}, tx))
	}, firestore.MaxAttempts(m.maxAttempts))

	return mapTxError(err, m.maxAttempts)
}

// mapTxError переводит gRPC коды фиксации в ошибки txmanager.
// tx.Create узнает о существующем документе только на commit, поэтому
// AlreadyExists приходит отсюда, а не из репозитория
func mapTxError(err error, attempts int) error {
	switch status.Code(err) {
	case codes.OK:
		return err
	case codes.Aborted:
		return fmt.Errorf("%w: after %d attempts: %v", txmanager.ErrRetriesExhausted, attempts, err)
	case codes.AlreadyExists:
		return fmt.Errorf("%w: %w", txmanager.ErrDuplicateKey, err)
	default:
		return err
	}
}
