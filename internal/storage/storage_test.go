package storage

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/prezadito/data-detective-sub001/internal/models"
)

func exerciseStorage(t *testing.T, s Storage) {
	t.Helper()
	ctx := context.Background()

	_, ok, err := s.Get(ctx, models.AccessTokenKey)
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, s.Set(ctx, models.AccessTokenKey, "first"))
	require.NoError(t, s.Set(ctx, models.AccessTokenKey, "second"))
	require.NoError(t, s.Set(ctx, models.RefreshTokenKey, "refresh"))

	value, ok, err := s.Get(ctx, models.AccessTokenKey)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "second", value)

	require.NoError(t, s.Remove(ctx, models.AccessTokenKey))
	_, ok, err = s.Get(ctx, models.AccessTokenKey)
	require.NoError(t, err)
	assert.False(t, ok)

	value, ok, err = s.Get(ctx, models.RefreshTokenKey)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "refresh", value)

	require.NoError(t, s.Remove(ctx, "missing"))
}

func TestMemoryStorage(t *testing.T) {
	exerciseStorage(t, NewMemoryStorage())
}

func TestSQLiteStorage(t *testing.T) {
	s, err := NewSQLiteStorage(filepath.Join(t.TempDir(), "data", "local.db"), zerolog.Nop())
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })

	exerciseStorage(t, s)
}

func TestSQLiteStorage_PersistsAcrossReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "local.db")
	ctx := context.Background()

	s, err := NewSQLiteStorage(path, zerolog.Nop())
	require.NoError(t, err)
	require.NoError(t, s.Set(ctx, models.AccessTokenKey, "token"))
	require.NoError(t, s.Close())

	s, err = NewSQLiteStorage(path, zerolog.Nop())
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })

	value, ok, err := s.Get(ctx, models.AccessTokenKey)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "token", value)
}

func TestMigrator_DownDropsSchema(t *testing.T) {
	path := filepath.Join(t.TempDir(), "local.db")

	m, err := NewMigrator(path)
	require.NoError(t, err)
	require.NoError(t, m.Up())

	m, err = NewMigrator(path)
	require.NoError(t, err)
	require.NoError(t, m.Down())

	// A fresh open re-applies the schema.
	s, err := NewSQLiteStorage(path, zerolog.Nop())
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	require.NoError(t, s.Set(context.Background(), "k", "v"))
}
