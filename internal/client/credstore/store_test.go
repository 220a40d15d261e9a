package credstore

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/vtvclient/internal/client/session"
)

func TestNew_Drivers(t *testing.T) {
	ctx := context.Background()

	t.Run("sqlite", func(t *testing.T) {
		s, err := New(ctx, Config{Driver: DriverSQLite, Path: filepath.Join(t.TempDir(), "s.db")})
		require.NoError(t, err)
		defer s.Close()
		assert.IsType(t, &SQLiteStore{}, s)
	})

	t.Run("default is sqlite", func(t *testing.T) {
		s, err := New(ctx, Config{Path: filepath.Join(t.TempDir(), "s.db")})
		require.NoError(t, err)
		defer s.Close()
		assert.IsType(t, &SQLiteStore{}, s)
	})

	t.Run("redis", func(t *testing.T) {
		mr := startRedis(t)
		s, err := New(ctx, Config{Driver: DriverRedis, Redis: RedisConfig{Addr: mr.Addr()}})
		require.NoError(t, err)
		defer s.Close()
		assert.IsType(t, &RedisStore{}, s)
	})

	t.Run("memory", func(t *testing.T) {
		s, err := New(ctx, Config{Driver: DriverMemory})
		require.NoError(t, err)
		assert.IsType(t, &MemoryStore{}, s)
	})

	t.Run("unknown", func(t *testing.T) {
		_, err := New(ctx, Config{Driver: "etcd"})
		require.ErrorIs(t, err, ErrUnknownDriver)
	})
}

func TestMemoryStore_Lifecycle(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	_, ok, err := s.Get(ctx)
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, s.Set(ctx, samplePair))
	p, ok, err := s.Get(ctx)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "access-1", p.AccessToken)
	assert.Zero(t, p.ExpiresIn)

	require.NoError(t, s.Clear(ctx))
	_, ok, _ = s.Get(ctx)
	assert.False(t, ok)
}

func TestStore_WorksWithSession(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "s.db")

	st, err := OpenSQLite(ctx, path)
	require.NoError(t, err)
	sess := session.New(st, nil)
	require.NoError(t, sess.Commit(ctx, samplePair))
	require.NoError(t, st.Close())

	st, err = OpenSQLite(ctx, path)
	require.NoError(t, err)
	defer st.Close()

	restored := session.New(st, nil)
	restored.Load(ctx)
	assert.True(t, restored.IsAuthenticated())
	assert.Equal(t, "access-1", restored.AccessToken())

	restored.Reset(ctx)
	_, ok, err := st.Get(ctx)
	require.NoError(t, err)
	assert.False(t, ok)
}
