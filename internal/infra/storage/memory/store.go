// Package memory хранилище записей и настроек в памяти процесса.
// Используется для локального запуска и тестов. Транзакция берет
// эксклюзивную блокировку хранилища, поэтому сериализуемость тривиальна,
// а при ошибке изменения откатываются по журналу отмены
package memory

import (
	"context"
	"sync"
)

// Store общее состояние для репозиториев и менеджера транзакций
type Store struct {
	mu       sync.Mutex
	bookings map[string]bookingRecord
	settings *settingsRecord
}

// NewStore создает пустое хранилище
func NewStore() *Store {
	return &Store{bookings: make(map[string]bookingRecord)}
}

type txKey struct{}

type txState struct {
	store *Store
	undo  []func()
}

func (s *txState) onRollback(fn func()) {
	s.undo = append(s.undo, fn)
}

func (s *Store) txFrom(ctx context.Context) *txState {
	tx, ok := ctx.Value(txKey{}).(*txState)
	if !ok || tx.store != s {
		return nil
	}
	return tx
}

// lock захватывает блокировку, если вызов не внутри транзакции этого хранилища
// Возвращает функцию освобождения и состояние транзакции (nil вне транзакции)
func (s *Store) lock(ctx context.Context) (func(), *txState) {
	if tx := s.txFrom(ctx); tx != nil {
		return func() {}, tx
	}
	s.mu.Lock()
	return s.mu.Unlock, nil
}

// TxManager менеджер транзакций хранилища в памяти
type TxManager struct {
	store *Store
}

// NewTxManager создает менеджер транзакций
func NewTxManager(store *Store) *TxManager {
	return &TxManager{store: store}
}

// DoSerializable выполняет fn под эксклюзивной блокировкой хранилища
// Если fn вернула ошибку, все изменения откатываются
func (m *TxManager) DoSerializable(ctx context.Context, fn func(ctx context.Context) error) (err error) {
	if m.store.txFrom(ctx) != nil {
		return fn(ctx)
	}

	m.store.mu.Lock()
	defer m.store.mu.Unlock()

	tx := &txState{store: m.store}
	defer func() {
		if p := recover(); p != nil {
			tx.rollback()
			panic(p)
		}
	}()

	if err := fn(context.WithValue(ctx, txKey{}, tx)); err != nil {
		tx.rollback()
		return err
	}
	return nil
}

func (s *txState) rollback() {
	for i := len(s.undo) - 1; i >= 0; i-- {
		s.undo[i]()
	}
	s.undo = nil
}
