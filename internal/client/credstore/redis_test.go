package credstore

import (
	"context"
	"testing"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/vtvclient/internal/client/session"
)

func startRedis(t *testing.T) *miniredis.Miniredis {
	t.Helper()
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)
	return mr
}

func TestRedisStore_Lifecycle(t *testing.T) {
	mr := startRedis(t)
	ctx := context.Background()

	s, err := OpenRedis(ctx, RedisConfig{Addr: mr.Addr(), Prefix: "test:"})
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })

	_, ok, err := s.Get(ctx)
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, s.Set(ctx, samplePair))
	assert.Equal(t, "access-1", mustGet(t, mr, "test:accessToken"))
	assert.Equal(t, "refresh-1", mustGet(t, mr, "test:refreshToken"))

	p, ok, err := s.Get(ctx)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, session.TokenPair{AccessToken: "access-1", RefreshToken: "refresh-1", TokenType: "Bearer"}, p)

	require.NoError(t, s.Clear(ctx))
	assert.False(t, mr.Exists("test:accessToken"))
	assert.False(t, mr.Exists("test:refreshToken"))

	_, ok, err = s.Get(ctx)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestRedisStore_HalfPairReadsAsAbsent(t *testing.T) {
	mr := startRedis(t)
	require.NoError(t, mr.Set(defaultRedisPrefix+KeyRefreshToken, "orphan"))

	s, err := OpenRedis(context.Background(), RedisConfig{Addr: mr.Addr()})
	require.NoError(t, err)
	defer s.Close()

	_, ok, err := s.Get(context.Background())
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestRedisStore_ServerGoneReturnsError(t *testing.T) {
	mr := startRedis(t)
	s, err := OpenRedis(context.Background(), RedisConfig{Addr: mr.Addr()})
	require.NoError(t, err)
	defer s.Close()

	mr.Close()

	_, _, err = s.Get(context.Background())
	require.Error(t, err)
}

func TestOpenRedis_Validation(t *testing.T) {
	_, err := OpenRedis(context.Background(), RedisConfig{})
	require.Error(t, err)

	_, err = OpenRedis(context.Background(), RedisConfig{Addr: "127.0.0.1:1"})
	require.ErrorContains(t, err, "redis ping failed")
}

func mustGet(t *testing.T, mr *miniredis.Miniredis, key string) string {
	t.Helper()
	v, err := mr.Get(key)
	require.NoError(t, err)
	return v
}
