package credstore

import (
	"context"
	"sync"

	"github.com/dmitrijs2005/vtvclient/internal/client/session"
)

// MemoryStore keeps the pair in process memory. It does not survive restarts
// and is meant for tests and throwaway sessions.
type MemoryStore struct {
	mu   sync.Mutex
	pair session.TokenPair
	has  bool
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (m *MemoryStore) Get(ctx context.Context) (session.TokenPair, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.pair, m.has, nil
}

func (m *MemoryStore) Set(ctx context.Context, p session.TokenPair) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.pair = session.TokenPair{AccessToken: p.AccessToken, RefreshToken: p.RefreshToken, TokenType: p.TokenType}
	m.has = p.Complete()
	return nil
}

func (m *MemoryStore) Clear(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.pair, m.has = session.TokenPair{}, false
	return nil
}

func (m *MemoryStore) Close() error { return nil }
