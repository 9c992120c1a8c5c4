// Package redis stores sealed tokens in Redis, letting Redis expire them.
package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/aussiebroadwan/petsit/pkg/cryptox"
	"github.com/aussiebroadwan/petsit/pkg/tokenstore"
	goredis "github.com/redis/go-redis/v9"
)

// DefaultPrefix namespaces every key this store writes.
const DefaultPrefix = "petsit:token:"

type Options struct {
	Addr     string
	Username string
	Password string
	DB       int
	Prefix   string
}

type Store struct {
	client *goredis.Client
	sealer *cryptox.Sealer
	prefix string
}

var _ tokenstore.Store = (*Store)(nil)

// NewStore connects and pings Redis.
func NewStore(ctx context.Context, opts Options, sealer *cryptox.Sealer) (*Store, error) {
	if sealer == nil {
		return nil, errors.New("redis token store: sealer is required")
	}

	client := goredis.NewClient(&goredis.Options{
		Addr:     opts.Addr,
		Username: opts.Username,
		Password: opts.Password,
		DB:       opts.DB,
	})

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}

	prefix := opts.Prefix
	if prefix == "" {
		prefix = DefaultPrefix
	}

	return &Store{client: client, sealer: sealer, prefix: prefix}, nil
}

func (s *Store) Get(ctx context.Context, key string) (string, error) {
	sealed, err := s.client.Get(ctx, s.prefix+key).Bytes()
	if errors.Is(err, goredis.Nil) {
		return "", tokenstore.ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("redis get: %w", err)
	}

	plain, err := s.sealer.Open(sealed)
	if errors.Is(err, cryptox.ErrCiphertext) {
		_ = s.Delete(ctx, key)
		return "", tokenstore.ErrNotFound
	}
	if err != nil {
		return "", err
	}
	return string(plain), nil
}

func (s *Store) Set(ctx context.Context, key, value string, expiresAt time.Time) error {
	var ttl time.Duration
	if !expiresAt.IsZero() {
		ttl = time.Until(expiresAt)
		if ttl <= 0 {
			return s.Delete(ctx, key)
		}
	}

	sealed, err := s.sealer.Seal([]byte(value))
	if err != nil {
		return err
	}

	if err := s.client.Set(ctx, s.prefix+key, sealed, ttl).Err(); err != nil {
		return fmt.Errorf("redis set: %w", err)
	}
	return nil
}

func (s *Store) Delete(ctx context.Context, key string) error {
	if err := s.client.Del(ctx, s.prefix+key).Err(); err != nil {
		return fmt.Errorf("redis del: %w", err)
	}
	return nil
}

// Ping verifies the server is reachable.
func (s *Store) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

func (s *Store) Close() error { return s.client.Close() }
