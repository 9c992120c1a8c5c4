package tokenstore_test

import (
	"context"
	"testing"
	"time"

	"github.com/aussiebroadwan/petsit/pkg/tokenstore"
	"github.com/stretchr/testify/require"
)

func TestKeyNamespacesTheFixedKey(t *testing.T) {
	t.Parallel()

	require.Equal(t, "01HQ7T3Z1MZ0JQ3M6MZQ1FQ3ZV/accessToken", tokenstore.Key("01HQ7T3Z1MZ0JQ3M6MZQ1FQ3ZV"))
}

func TestMemoryStore(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	m := tokenstore.NewMemory()
	m.Now = func() time.Time { return now }

	_, err := m.Get(ctx, "a")
	require.ErrorIs(t, err, tokenstore.ErrNotFound)

	require.NoError(t, m.Set(ctx, "a", "tok-a", time.Time{}))
	require.NoError(t, m.Set(ctx, "b", "tok-b", now.Add(time.Minute)))

	got, err := m.Get(ctx, "a")
	require.NoError(t, err)
	require.Equal(t, "tok-a", got)

	now = now.Add(2 * time.Minute)
	_, err = m.Get(ctx, "b")
	require.ErrorIs(t, err, tokenstore.ErrNotFound, "expired entries read as absent")

	require.NoError(t, m.Delete(ctx, "a"))
	require.NoError(t, m.Delete(ctx, "a"), "deleting twice is fine")
	_, err = m.Get(ctx, "a")
	require.ErrorIs(t, err, tokenstore.ErrNotFound)
}

func TestMemoryDeleteExpired(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	now := time.Now()
	m := tokenstore.NewMemory()
	m.Now = func() time.Time { return now }

	require.NoError(t, m.Set(ctx, "old", "x", now.Add(-time.Second)))
	require.NoError(t, m.Set(ctx, "live", "y", now.Add(time.Hour)))
	require.NoError(t, m.Set(ctx, "forever", "z", time.Time{}))

	n, err := m.DeleteExpired(ctx)
	require.NoError(t, err)
	require.EqualValues(t, 1, n)

	_, err = m.Get(ctx, "live")
	require.NoError(t, err)
	_, err = m.Get(ctx, "forever")
	require.NoError(t, err)
}
