// Package testutil provides shared helpers for integration tests.
package testutil

import (
	"context"
	"os"
	"testing"

	"github.com/bookshelf/bookshelf/internal/repository"
)

// TestDatabase is the database name used by integration tests. It is
// dropped between tests, never share it with real data.
const TestDatabase = "bookshelf_test"

// RequireEnv returns an environment variable or skips the test if
// missing.
func RequireEnv(t testing.TB, key string) string {
	t.Helper()
	value := os.Getenv(key)
	if value == "" {
		t.Skipf("%s not set", key)
	}
	return value
}

// NewTestRepository connects to MONGO_URL (skipping the test when it is
// unset), drops the test database for a clean slate, and registers a
// cleanup that drops it again and disconnects.
func NewTestRepository(t testing.TB, ctx context.Context) *repository.Repository {
	t.Helper()

	mongoURL := RequireEnv(t, "MONGO_URL")

	repo, err := repository.New(ctx, mongoURL, TestDatabase)
	if err != nil {
		t.Fatalf("failed to connect to test database: %v", err)
	}

	if err := repo.Database().Drop(ctx); err != nil {
		repo.Close()
		t.Fatalf("failed to drop test database: %v", err)
	}

	if err := repo.EnsureIndexes(ctx); err != nil {
		repo.Close()
		t.Fatalf("failed to ensure indexes: %v", err)
	}

	t.Cleanup(func() {
		_ = repo.Database().Drop(context.Background())
		repo.Close()
	})

	return repo
}
