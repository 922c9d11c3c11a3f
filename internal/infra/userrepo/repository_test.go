package userrepo

import (
	"context"
	"io"
	"log/slog"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/yanqian/faq-system/internal/domain/auth"
	"github.com/yanqian/faq-system/internal/infra/config"
	"github.com/yanqian/faq-system/internal/infra/database"
)

func newSQLiteRepository(t *testing.T) *SQLiteRepository {
	t.Helper()
	ctx := context.Background()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	cfg := config.DatabaseConfig{SQLite: config.SQLiteConfig{Path: filepath.Join(t.TempDir(), "users.sqlite3")}}

	h, err := database.Open(ctx, cfg, logger)
	require.NoError(t, err)
	t.Cleanup(h.Close)
	require.NoError(t, database.Migrate(ctx, h, logger))
	return NewSQLiteRepository(h.SQLite)
}

func TestRepositories(t *testing.T) {
	backends := map[string]func(t *testing.T) auth.Repository{
		"memory": func(*testing.T) auth.Repository { return NewMemoryRepository() },
		"sqlite": func(t *testing.T) auth.Repository { return newSQLiteRepository(t) },
	}
	for name, build := range backends {
		t.Run(name, func(t *testing.T) {
			repo := build(t)
			ctx := context.Background()
			now := time.Now().UTC().Truncate(time.Microsecond)

			user, err := repo.Create(ctx, auth.NewUser{Username: "alice", Email: "alice@example.com", PasswordHash: "hash", CreatedAt: now})
			require.NoError(t, err)
			require.NotZero(t, user.ID)

			_, err = repo.Create(ctx, auth.NewUser{Username: "alice2", Email: "alice@example.com", PasswordHash: "hash", CreatedAt: now})
			require.ErrorIs(t, err, auth.ErrEmailExists)
			_, err = repo.Create(ctx, auth.NewUser{Username: "alice", Email: "other@example.com", PasswordHash: "hash", CreatedAt: now})
			require.ErrorIs(t, err, auth.ErrUsernameExists)

			got, found, err := repo.GetByEmail(ctx, "alice@example.com")
			require.NoError(t, err)
			require.True(t, found)
			require.Equal(t, user.ID, got.ID)
			require.Equal(t, "hash", got.PasswordHash)
			require.True(t, got.CreatedAt.Equal(now))

			got, found, err = repo.GetByUsername(ctx, "alice")
			require.NoError(t, err)
			require.True(t, found)
			require.Equal(t, "alice@example.com", got.Email)

			_, found, err = repo.GetByUsername(ctx, "bob")
			require.NoError(t, err)
			require.False(t, found)

			deleted, err := repo.Delete(ctx, user.ID)
			require.NoError(t, err)
			require.True(t, deleted)
			_, found, err = repo.GetByID(ctx, user.ID)
			require.NoError(t, err)
			require.False(t, found)
			deleted, err = repo.Delete(ctx, user.ID)
			require.NoError(t, err)
			require.False(t, deleted)
		})
	}
}
