package memstore

import (
	"context"
	"sync"
	"time"
)

type txKey struct{}

// TxManager выполняет транзакции строго по одной. При ошибке состояние Store
// откатывается к снимку, сделанному в начале транзакции.
type TxManager struct {
	store *Store
	mu    sync.Mutex

	// Fail, если задан, возвращается вместо выполнения транзакции
	Fail error
}

// NewTxManager создает менеджер транзакций над store
func NewTxManager(store *Store) *TxManager {
	return &TxManager{store: store}
}

func (m *TxManager) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	return m.run(ctx, fn)
}

func (m *TxManager) DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error {
	return m.run(ctx, fn)
}

func (m *TxManager) DoReadOnly(ctx context.Context, fn func(ctx context.Context) error) error {
	return m.run(ctx, fn)
}

func (m *TxManager) run(ctx context.Context, fn func(ctx context.Context) error) error {
	if ctx.Value(txKey{}) != nil {
		return fn(ctx)
	}
	if m.Fail != nil {
		return m.Fail
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	m.store.mu.Lock()
	snapshot := m.store.data.clone()
	m.store.mu.Unlock()

	if err := fn(context.WithValue(ctx, txKey{}, true)); err != nil {
		m.store.mu.Lock()
		m.store.data = snapshot
		m.store.mu.Unlock()
		return err
	}
	return nil
}

// Clock фиксированный источник времени
type Clock struct {
	mu  sync.Mutex
	now time.Time
}

// NewClock создает часы, показывающие now
func NewClock(now time.Time) *Clock {
	return &Clock{now: now}
}

func (c *Clock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

// Set переводит часы
func (c *Clock) Set(now time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = now
}

// WithClock подключает часы к отметкам created_at и updated_at
func (s *Store) WithClock(c *Clock) *Store {
	s.clock = c.Now
	return s
}
