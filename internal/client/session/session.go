// Package session owns the client's authenticated state: the current token
// pair held in memory and written through to a durable Store.
//
// A Session is the single source of truth for the access token. Other
// components hold a reference and read through the accessors; only Commit and
// Reset mutate it. Store failures never reach callers: an unreadable store
// loads as anonymous and failed writes are logged while the in-memory state
// still changes.
package session

import (
	"context"
	"sync"
	"time"

	"github.com/dmitrijs2005/vtvclient/internal/logging"
)

// State is the externally observable session state.
type State string

const (
	StateAnonymous     State = "anonymous"
	StateAuthenticated State = "authenticated"
)

type snapshot struct {
	accessToken  string
	refreshToken string
	tokenType    string
	expiresAt    time.Time
}

type Session struct {
	store  Store
	logger logging.Logger
	now    func() time.Time

	// writeMu serializes Commit and Reset, store I/O included.
	writeMu sync.Mutex

	mu  sync.RWMutex
	cur snapshot

	watchMu  sync.Mutex
	watchers map[int]chan State
	nextID   int
}

// New returns an anonymous session backed by store. Call Load to restore a
// previously persisted pair.
func New(store Store, logger logging.Logger) *Session {
	if logger == nil {
		logger = logging.Nop()
	}
	return &Session{
		store:    store,
		logger:   logger.With("component", "session"),
		now:      time.Now,
		watchers: make(map[int]chan State),
	}
}

// Load initializes the in-memory state from the store.
func (s *Session) Load(ctx context.Context) {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	pair, ok, err := s.store.Get(ctx)
	if err != nil {
		s.logger.Warn(ctx, "credential store unavailable, starting anonymous", "err", err)
		ok = false
	}
	if !ok || !pair.Complete() {
		s.swap(snapshot{})
		return
	}
	s.swap(s.snapshotOf(pair))
	s.logger.Debug(ctx, "session restored from store")
}

func (s *Session) AccessToken() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cur.accessToken
}

func (s *Session) RefreshToken() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cur.refreshToken
}

func (s *Session) TokenType() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cur.tokenType
}

// ExpiresAt returns the expected expiry of the access token, zero if unknown.
func (s *Session) ExpiresAt() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cur.expiresAt
}

// Pair returns the current pair read in one step; ok is false when anonymous.
// ExpiresIn is not tracked and is always zero.
func (s *Session) Pair() (p TokenPair, ok bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.cur.accessToken == "" {
		return TokenPair{}, false
	}
	return TokenPair{
		AccessToken:  s.cur.accessToken,
		RefreshToken: s.cur.refreshToken,
		TokenType:    s.cur.tokenType,
	}, true
}

func (s *Session) IsAuthenticated() bool {
	return s.AccessToken() != ""
}

func (s *Session) State() State {
	if s.IsAuthenticated() {
		return StateAuthenticated
	}
	return StateAnonymous
}

// Commit replaces the current pair with p and writes it through to the store.
// Reads issued after Commit returns observe p.
func (s *Session) Commit(ctx context.Context, p TokenPair) error {
	if !p.Complete() {
		return ErrIncompletePair
	}

	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	if err := s.store.Set(ctx, p); err != nil {
		s.logger.Error(ctx, "failed to persist token pair", "err", err)
	}
	s.swap(s.snapshotOf(p))
	s.publish(StateAuthenticated)
	return nil
}

// Reset clears the in-memory pair and the store.
func (s *Session) Reset(ctx context.Context) {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	if err := s.store.Clear(ctx); err != nil {
		s.logger.Error(ctx, "failed to clear credential store", "err", err)
	}
	s.swap(snapshot{})
	s.publish(StateAnonymous)
}

// ResetIf clears the session only while it still holds refreshToken, so a
// pair committed after the caller read its token survives. It reports whether
// the session was cleared. An already empty session is left alone.
func (s *Session) ResetIf(ctx context.Context, refreshToken string) bool {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	s.mu.RLock()
	cur := s.cur
	s.mu.RUnlock()
	if cur == (snapshot{}) || cur.refreshToken != refreshToken {
		return false
	}

	if err := s.store.Clear(ctx); err != nil {
		s.logger.Error(ctx, "failed to clear credential store", "err", err)
	}
	s.swap(snapshot{})
	s.publish(StateAnonymous)
	return true
}

// Watch subscribes to state changes. The channel receives the new state after
// every Commit and Reset; a slow reader only sees the latest value. The
// returned func unsubscribes and closes the channel.
func (s *Session) Watch() (<-chan State, func()) {
	ch := make(chan State, 1)

	s.watchMu.Lock()
	id := s.nextID
	s.nextID++
	s.watchers[id] = ch
	s.watchMu.Unlock()

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			s.watchMu.Lock()
			delete(s.watchers, id)
			s.watchMu.Unlock()
			close(ch)
		})
	}
	return ch, cancel
}

func (s *Session) publish(st State) {
	s.watchMu.Lock()
	defer s.watchMu.Unlock()

	for _, ch := range s.watchers {
		// drop a stale undelivered value so the latest state wins
		select {
		case <-ch:
		default:
		}
		select {
		case ch <- st:
		default:
		}
	}
}

func (s *Session) swap(next snapshot) {
	s.mu.Lock()
	s.cur = next
	s.mu.Unlock()
}

func (s *Session) snapshotOf(p TokenPair) snapshot {
	return snapshot{
		accessToken:  p.AccessToken,
		refreshToken: p.RefreshToken,
		tokenType:    p.TokenType,
		expiresAt:    expiresAt(p, s.now()),
	}
}
