// Package mongotx выполняет функцию в транзакции MongoDB.
// Сессия передается через context (mongo.SessionContext), поэтому
// репозиториям достаточно использовать полученный ctx
package mongotx

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readconcern"
	"go.mongodb.org/mongo-driver/mongo/writeconcern"
	"go.mongodb.org/mongo-driver/x/mongo/driver"

	"github.com/KKKircheff/Auto-Bosch-GTP/pkg/txmanager"
)

// Manager менеджер транзакций MongoDB (требует replica set)
type Manager struct {
	client *mongo.Client
}

// NewManager создает менеджер транзакций
func NewManager(client *mongo.Client) *Manager {
	return &Manager{client: client}
}

// DoSerializable выполняет fn в транзакции со snapshot-чтением и majority-записью
// Драйвер сам повторяет транзакцию при TransientTransactionError
func (m *Manager) DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error {
	if mongo.SessionFromContext(ctx) != nil {
		return fn(ctx)
	}

	sess, err := m.client.StartSession()
	if err != nil {
		return fmt.Errorf("%w: start session: %w", txmanager.ErrTransaction, err)
	}
	defer sess.EndSession(ctx)

	opts := options.Transaction().
		SetReadConcern(readconcern.Snapshot()).
		SetWriteConcern(writeconcern.Majority())

	_, err = sess.WithTransaction(ctx, func(sc mongo.SessionContext) (interface{}, error) {
		return nil, fn(sc)
	}, opts)
	if err == nil {
		return nil
	}

	var labeled mongo.LabeledError
	if errors.As(err, &labeled) && labeled.HasErrorLabel(driver.TransientTransactionError) {
		return fmt.Errorf("%w: %v", txmanager.ErrRetriesExhausted, err)
	}
	return err
}
