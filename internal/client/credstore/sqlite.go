package credstore

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/pressly/goose/v3"

	"github.com/dmitrijs2005/vtvclient/internal/client/migrations"
	"github.com/dmitrijs2005/vtvclient/internal/client/session"
	"github.com/dmitrijs2005/vtvclient/internal/dbx"

	_ "modernc.org/sqlite" // pure-Go SQLite driver
)

// SQLiteStore keeps the pair in the credentials table of a local SQLite file.
type SQLiteStore struct {
	db *sql.DB
}

// RunMigrations applies the embedded goose migrations to db.
func RunMigrations(ctx context.Context, db *sql.DB) error {
	provider, err := goose.NewProvider(goose.DialectSQLite3, db, migrations.FS)
	if err != nil {
		return fmt.Errorf("init migrations: %w", err)
	}
	if _, err := provider.Up(ctx); err != nil {
		return fmt.Errorf("apply migrations: %w", err)
	}
	return nil
}

// OpenSQLite opens (creating if needed) the database at dsn and migrates it.
func OpenSQLite(ctx context.Context, dsn string) (*SQLiteStore, error) {
	if dsn == "" {
		return nil, fmt.Errorf("sqlite store: empty path")
	}
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite %s: %w", dsn, err)
	}
	// SQLite has a single writer; one connection also keeps ":memory:" databases intact.
	db.SetMaxOpenConns(1)

	if err := RunMigrations(ctx, db); err != nil {
		_ = db.Close()
		return nil, err
	}
	return NewSQLiteStore(db), nil
}

// NewSQLiteStore wraps an already migrated database.
func NewSQLiteStore(db *sql.DB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

func (s *SQLiteStore) Get(ctx context.Context) (session.TokenPair, bool, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT key, value FROM credentials WHERE key IN (?, ?, ?)`,
		KeyAccessToken, KeyRefreshToken, KeyTokenType)
	if err != nil {
		return session.TokenPair{}, false, fmt.Errorf("failed to read credentials: %w", err)
	}
	defer rows.Close()

	values := make(map[string][]byte, 3)
	for rows.Next() {
		var key string
		var value []byte
		if err := rows.Scan(&key, &value); err != nil {
			return session.TokenPair{}, false, fmt.Errorf("failed to scan credentials row: %w", err)
		}
		values[key] = value
	}
	if err := rows.Err(); err != nil {
		return session.TokenPair{}, false, fmt.Errorf("failed to iterate credentials rows: %w", err)
	}

	p, ok := pairFromValues(values)
	return p, ok, nil
}

func (s *SQLiteStore) Set(ctx context.Context, p session.TokenPair) error {
	err := dbx.WithTx(ctx, s.db, func(ctx context.Context, tx dbx.DBTX) error {
		for _, kv := range [][2]string{
			{KeyAccessToken, p.AccessToken},
			{KeyRefreshToken, p.RefreshToken},
			{KeyTokenType, p.TokenType},
		} {
			if _, err := tx.ExecContext(ctx, `
				INSERT INTO credentials (key, value, updated_at) VALUES (?, ?, strftime('%s', 'now'))
				ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at
			`, kv[0], kv[1]); err != nil {
				return fmt.Errorf("failed to set credentials[%s]: %w", kv[0], err)
			}
		}
		return nil
	})
	return err
}

func (s *SQLiteStore) Clear(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx,
		`DELETE FROM credentials WHERE key IN (?, ?, ?)`,
		KeyAccessToken, KeyRefreshToken, KeyTokenType)
	if err != nil {
		return fmt.Errorf("failed to clear credentials: %w", err)
	}
	return nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
