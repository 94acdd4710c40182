// Package testutil provides helpers shared by integration and e2e tests.
package testutil

import (
	"context"
	"fmt"
	"math/rand"
	"os"
	"path/filepath"
	"runtime"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/oklog/ulid/v2"
	"github.com/redis/go-redis/v9"

	"github.com/dailydiet/dailydiet/internal/model"
)

// RequireEnv returns an environment variable or skips the test if missing.
func RequireEnv(t testing.TB, key string) string {
	t.Helper()
	value := os.Getenv(key)
	if value == "" {
		t.Skipf("%s not set", key)
	}
	return value
}

const advisoryLockID int64 = 580580

// AcquireDBLock grabs a global advisory lock to serialize DB tests.
func AcquireDBLock(ctx context.Context, pool *pgxpool.Pool) (func() error, error) {
	conn, err := pool.Acquire(ctx)
	if err != nil {
		return nil, fmt.Errorf("acquire connection: %w", err)
	}

	if _, err := conn.Exec(ctx, "SELECT pg_advisory_lock($1)", advisoryLockID); err != nil {
		conn.Release()
		return nil, fmt.Errorf("acquire advisory lock: %w", err)
	}

	unlock := func() error {
		defer conn.Release()
		if _, err := conn.Exec(ctx, "SELECT pg_advisory_unlock($1)", advisoryLockID); err != nil {
			return fmt.Errorf("release advisory lock: %w", err)
		}
		return nil
	}

	return unlock, nil
}

// resetSchema applies a down migration followed by its up migration.
func resetSchema(ctx context.Context, pool *pgxpool.Pool, name string) error {
	root, err := ProjectRoot()
	if err != nil {
		return err
	}

	downSQL, err := os.ReadFile(filepath.Join(root, "migrations", name+".down.sql"))
	if err != nil {
		return fmt.Errorf("read %s down migration: %w", name, err)
	}
	if _, err := pool.Exec(ctx, string(downSQL)); err != nil {
		return fmt.Errorf("apply %s down migration: %w", name, err)
	}

	upSQL, err := os.ReadFile(filepath.Join(root, "migrations", name+".up.sql"))
	if err != nil {
		return fmt.Errorf("read %s up migration: %w", name, err)
	}
	if _, err := pool.Exec(ctx, string(upSQL)); err != nil {
		return fmt.Errorf("apply %s up migration: %w", name, err)
	}

	return nil
}

// ResetUsersSchema drops and recreates the users schema for tests.
// Meals cascade with it, so drop meals first.
func ResetUsersSchema(ctx context.Context, pool *pgxpool.Pool) error {
	if err := resetSchema(ctx, pool, "000002_meals"); err != nil {
		return err
	}
	return resetSchema(ctx, pool, "000001_users")
}

// ResetMealsSchema drops and recreates the meals schema for tests.
func ResetMealsSchema(ctx context.Context, pool *pgxpool.Pool) error {
	return resetSchema(ctx, pool, "000002_meals")
}

// ResetAllSchemas rebuilds every table in dependency order.
func ResetAllSchemas(ctx context.Context, pool *pgxpool.Pool) error {
	if err := resetSchema(ctx, pool, "000002_meals"); err != nil {
		return err
	}
	if err := resetSchema(ctx, pool, "000001_users"); err != nil {
		return err
	}
	return resetSchema(ctx, pool, "000002_meals")
}

// FlushRedis clears the current Redis database.
func FlushRedis(ctx context.Context, client *redis.Client) error {
	return client.FlushDB(ctx).Err()
}

// ProjectRoot returns the project root directory.
func ProjectRoot() (string, error) {
	_, filename, _, ok := runtime.Caller(0)
	if !ok {
		return "", fmt.Errorf("failed to resolve testutil path")
	}
	root := filepath.Clean(filepath.Join(filepath.Dir(filename), "..", ".."))
	return root, nil
}

// ============================================================================
// Test Data Factories
// ============================================================================

var entropy = ulid.Monotonic(rand.New(rand.NewSource(time.Now().UnixNano())), 0)

// UniqueEmail generates a collision-free email so tests never trip the
// unique index on each other.
func UniqueEmail(prefix string) string {
	return fmt.Sprintf("%s-%s@test.local", prefix, ulid.MustNew(ulid.Timestamp(time.Now()), entropy).String())
}

// UniqueToken generates a unique session token for tests.
func UniqueToken(prefix string) string {
	return fmt.Sprintf("%s-%s", prefix, ulid.MustNew(ulid.Timestamp(time.Now()), entropy).String())
}

// NewTestUser creates a test user with sensible defaults.
func NewTestUser(t testing.TB, id string) *model.User {
	t.Helper()
	return &model.User{
		ID:           id,
		Name:         "Test User",
		Email:        UniqueEmail("user"),
		SessionToken: UniqueToken("tok"),
	}
}

// NewTestMeal creates a test meal owned by ownerID.
func NewTestMeal(t testing.TB, id, ownerID string, onDiet bool, eatenAt int64) *model.Meal {
	t.Helper()
	return &model.Meal{
		ID:          id,
		OwnerID:     ownerID,
		Name:        "Test Meal",
		Description: "test meal description",
		IsOnDiet:    onDiet,
		EatenAt:     eatenAt,
	}
}
