package txmanager

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"
)

const defaultMaxRetries = 5

// SQLSTATE коды, при которых транзакцию имеет смысл повторить
const (
	codeSerializationFailure = "40001"
	codeDeadlockDetected     = "40P01"
	codeUniqueViolation      = "23505"
)

// TxBeginner интерфейс для начала транзакций (*sql.DB)
type TxBeginner interface {
	BeginTx(ctx context.Context, opts *sql.TxOptions) (*sql.Tx, error)
}

// RetryObserver получает уведомление о каждом повторе транзакции
type RetryObserver interface {
	ObserveTxRetry(store string)
}

// Manager менеджер транзакций PostgreSQL
// Транзакция передается репозиториям через context
type Manager struct {
	db         TxBeginner
	maxRetries int
	observer   RetryObserver
}

// Option настройка менеджера
type Option func(*Manager)

// WithMaxRetries задает количество повторов сериализуемой транзакции
func WithMaxRetries(n int) Option {
	return func(m *Manager) {
		if n > 0 {
			m.maxRetries = n
		}
	}
}

// WithRetryObserver подключает учет повторов (метрики)
func WithRetryObserver(o RetryObserver) Option {
	return func(m *Manager) {
		m.observer = o
	}
}

// NewTransactionManager создает менеджер транзакций
func NewTransactionManager(db TxBeginner, opts ...Option) *Manager {
	m := &Manager{
		db:         db,
		maxRetries: defaultMaxRetries,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Do выполняет fn в транзакции READ COMMITTED
func (m *Manager) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	return m.run(ctx, &sql.TxOptions{Isolation: sql.LevelReadCommitted}, fn)
}

// DoSerializable выполняет fn в транзакции SERIALIZABLE
// При конфликте сериализации транзакция повторяется целиком до maxRetries раз,
// после чего возвращается ErrRetriesExhausted
func (m *Manager) DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error {
	// Вложенный вызов выполняется в уже открытой транзакции
	if IsInTransaction(ctx) {
		return fn(ctx)
	}

	var lastErr error
	for attempt := 0; attempt <= m.maxRetries; attempt++ {
		if attempt > 0 && m.observer != nil {
			m.observer.ObserveTxRetry("postgres")
		}

		err := m.run(ctx, &sql.TxOptions{Isolation: sql.LevelSerializable}, fn)
		if err == nil {
			return nil
		}
		if !IsRetryable(err) {
			return err
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
		lastErr = err
	}

	return fmt.Errorf("%w: after %d attempts: %v", ErrRetriesExhausted, m.maxRetries+1, lastErr)
}

func (m *Manager) run(ctx context.Context, opts *sql.TxOptions, fn func(ctx context.Context) error) (err error) {
	if IsInTransaction(ctx) {
		return fn(ctx)
	}

	tx, err := m.db.BeginTx(ctx, opts)
	if err != nil {
		return fmt.Errorf("%w: begin: %w", ErrTransaction, err)
	}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
	}()

	if err := fn(withTx(ctx, tx)); err != nil {
		_ = tx.Rollback()
		return err
	}

	if err := tx.Commit(); err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == codeUniqueViolation {
			return fmt.Errorf("%w: commit: %w", ErrDuplicateKey, err)
		}
		return fmt.Errorf("%w: commit: %w", ErrTransaction, err)
	}

	return nil
}

// IsRetryable возвращает true для ошибок сериализации и взаимоблокировок
func IsRetryable(err error) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == codeSerializationFailure || pqErr.Code == codeDeadlockDetected
	}
	return false
}
