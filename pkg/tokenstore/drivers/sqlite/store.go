package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/aussiebroadwan/petsit/pkg/cryptox"
	"github.com/aussiebroadwan/petsit/pkg/tokenstore"
	_ "modernc.org/sqlite"
)

// Store keeps sealed tokens in a SQLite database.
type Store struct {
	db     *sql.DB
	sealer *cryptox.Sealer
	dsn    string

	// Now is replaceable in tests.
	Now func() time.Time
}

var _ tokenstore.Store = (*Store)(nil)
var _ tokenstore.Expirer = (*Store)(nil)

func NewStore(dsn string, sealer *cryptox.Sealer) (*Store, error) {
	if sealer == nil {
		return nil, errors.New("sqlite token store: sealer is required")
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}

	// modernc sqlite serialises writers; one connection avoids SQLITE_BUSY churn.
	db.SetMaxOpenConns(1)

	if err := db.PingContext(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}

	return &Store{db: db, sealer: sealer, dsn: dsn, Now: time.Now}, nil
}

func (s *Store) Close() error { return s.db.Close() }

// Ping verifies the database connection is still alive.
func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *Store) Get(ctx context.Context, key string) (string, error) {
	var (
		sealed    []byte
		expiresAt sql.NullInt64
	)

	err := s.db.QueryRowContext(ctx,
		`SELECT value, expires_at FROM tokens WHERE key = ?`, key,
	).Scan(&sealed, &expiresAt)
	if errors.Is(err, sql.ErrNoRows) {
		return "", tokenstore.ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("select token: %w", err)
	}

	if expiresAt.Valid && s.Now().Unix() >= expiresAt.Int64 {
		if err := s.Delete(ctx, key); err != nil {
			return "", err
		}
		return "", tokenstore.ErrNotFound
	}

	plain, err := s.sealer.Open(sealed)
	if err != nil {
		// Sealed under a previous key; treat as absent so the user logs in again.
		if errors.Is(err, cryptox.ErrCiphertext) {
			_ = s.Delete(ctx, key)
			return "", tokenstore.ErrNotFound
		}
		return "", err
	}

	return string(plain), nil
}

func (s *Store) Set(ctx context.Context, key, value string, expiresAt time.Time) error {
	sealed, err := s.sealer.Seal([]byte(value))
	if err != nil {
		return err
	}

	var exp sql.NullInt64
	if !expiresAt.IsZero() {
		exp = sql.NullInt64{Int64: expiresAt.Unix(), Valid: true}
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO tokens (key, value, expires_at, updated_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT (key) DO UPDATE SET
			value = excluded.value,
			expires_at = excluded.expires_at,
			updated_at = excluded.updated_at`,
		key, sealed, exp, s.Now().Unix(),
	)
	if err != nil {
		return fmt.Errorf("upsert token: %w", err)
	}
	return nil
}

func (s *Store) Delete(ctx context.Context, key string) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM tokens WHERE key = ?`, key); err != nil {
		return fmt.Errorf("delete token: %w", err)
	}
	return nil
}

func (s *Store) DeleteExpired(ctx context.Context) (int64, error) {
	res, err := s.db.ExecContext(ctx,
		`DELETE FROM tokens WHERE expires_at IS NOT NULL AND expires_at <= ?`, s.Now().Unix(),
	)
	if err != nil {
		return 0, fmt.Errorf("delete expired tokens: %w", err)
	}
	return res.RowsAffected()
}
