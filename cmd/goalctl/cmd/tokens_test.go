package cmd

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/templui/goalkeeper/internal/db"
	"github.com/templui/goalkeeper/internal/model"
	"github.com/templui/goalkeeper/internal/repository"
)

func TestTokensPrune(t *testing.T) {
	ctx := context.Background()
	dsn := filepath.Join(t.TempDir(), "cli.db") + "?_pragma=foreign_keys(1)&_time_format=sqlite"

	_, err := run(t, "migrate", "up", "--db", dsn)
	require.NoError(t, err)

	database, err := db.Init("sqlite", dsn)
	require.NoError(t, err)
	require.NoError(t, repository.NewUserRepository(database).Create(ctx, &model.User{
		ID: "user-1", Email: "ada@example.com", PasswordHash: "hash", CreatedAt: time.Now(),
	}))
	tokens := repository.NewTokenRepository(database)
	require.NoError(t, tokens.Create(ctx, &model.Token{
		UserID: "user-1", Type: model.TokenTypePasswordReset, Hash: model.HashToken("old"),
		ExpiresAt: time.Now().Add(-48 * time.Hour), CreatedAt: time.Now().Add(-49 * time.Hour),
	}))
	require.NoError(t, tokens.Create(ctx, &model.Token{
		UserID: "user-1", Type: model.TokenTypePasswordReset, Hash: model.HashToken("live"),
		ExpiresAt: time.Now().Add(time.Hour),
	}))
	database.Close()

	out, err := run(t, "tokens", "prune", "--db", dsn, "--older-than", "24h")
	require.NoError(t, err)
	assert.Contains(t, out, "removed 1 tokens")
}
