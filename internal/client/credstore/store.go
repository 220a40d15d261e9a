// Package credstore implements durable persistence of the session token pair.
//
// All backends store the same layout: the opaque access and refresh tokens
// (and the token type) under stable keys, written and cleared together.
// Backends report failures as errors; turning those into fail-open behavior is
// the session layer's job.
package credstore

import (
	"context"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/vtvclient/internal/client/session"
)

// Stable keys of the persisted layout.
const (
	KeyAccessToken  = "accessToken"
	KeyRefreshToken = "refreshToken"
	KeyTokenType    = "tokenType"
)

// Drivers accepted by New.
const (
	DriverSQLite = "sqlite"
	DriverRedis  = "redis"
	DriverMemory = "memory"
)

var ErrUnknownDriver = errors.New("unknown credential store driver")

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
	Prefix   string
}

type Config struct {
	Driver string
	// Path is the SQLite database file.
	Path  string
	Redis RedisConfig
}

// New opens the store selected by cfg.Driver.
func New(ctx context.Context, cfg Config) (session.Store, error) {
	switch cfg.Driver {
	case "", DriverSQLite:
		return OpenSQLite(ctx, cfg.Path)
	case DriverRedis:
		return OpenRedis(ctx, cfg.Redis)
	case DriverMemory:
		return NewMemoryStore(), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownDriver, cfg.Driver)
	}
}

// pairFromValues assembles a pair from raw key values; ok is false unless
// both tokens are present.
func pairFromValues(values map[string][]byte) (session.TokenPair, bool) {
	p := session.TokenPair{
		AccessToken:  string(values[KeyAccessToken]),
		RefreshToken: string(values[KeyRefreshToken]),
		TokenType:    string(values[KeyTokenType]),
	}
	if !p.Complete() {
		return session.TokenPair{}, false
	}
	return p, true
}
