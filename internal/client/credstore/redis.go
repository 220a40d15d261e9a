package credstore

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/dmitrijs2005/vtvclient/internal/client/session"
)

const defaultRedisPrefix = "vtv:session:"

// RedisStore keeps the pair as plain string keys under a prefix. Writes go
// through MULTI/EXEC so both tokens change together.
type RedisStore struct {
	client *redis.Client
	prefix string
}

// OpenRedis connects to cfg.Addr and verifies the connection with PING.
func OpenRedis(ctx context.Context, cfg RedisConfig) (*RedisStore, error) {
	if cfg.Addr == "" {
		return nil, fmt.Errorf("redis address required")
	}
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis ping failed: %w", err)
	}
	return NewRedisStore(client, cfg.Prefix), nil
}

func NewRedisStore(client *redis.Client, prefix string) *RedisStore {
	if prefix == "" {
		prefix = defaultRedisPrefix
	}
	return &RedisStore{client: client, prefix: prefix}
}

func (s *RedisStore) key(name string) string {
	return s.prefix + name
}

func (s *RedisStore) keys() []string {
	return []string{s.key(KeyAccessToken), s.key(KeyRefreshToken), s.key(KeyTokenType)}
}

func (s *RedisStore) Get(ctx context.Context) (session.TokenPair, bool, error) {
	vals, err := s.client.MGet(ctx, s.keys()...).Result()
	if err != nil {
		return session.TokenPair{}, false, fmt.Errorf("failed to read credentials: %w", err)
	}

	values := make(map[string][]byte, len(vals))
	for i, name := range []string{KeyAccessToken, KeyRefreshToken, KeyTokenType} {
		if str, ok := vals[i].(string); ok {
			values[name] = []byte(str)
		}
	}

	p, ok := pairFromValues(values)
	return p, ok, nil
}

func (s *RedisStore) Set(ctx context.Context, p session.TokenPair) error {
	_, err := s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Set(ctx, s.key(KeyAccessToken), p.AccessToken, 0)
		pipe.Set(ctx, s.key(KeyRefreshToken), p.RefreshToken, 0)
		pipe.Set(ctx, s.key(KeyTokenType), p.TokenType, 0)
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to write credentials: %w", err)
	}
	return nil
}

func (s *RedisStore) Clear(ctx context.Context) error {
	if err := s.client.Del(ctx, s.keys()...).Err(); err != nil {
		return fmt.Errorf("failed to clear credentials: %w", err)
	}
	return nil
}

func (s *RedisStore) Close() error {
	return s.client.Close()
}
