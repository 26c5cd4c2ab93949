package helpers

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

// SetupTestDB connects to the test database, skipping the test when no
// database is configured.
func SetupTestDB(t *testing.T) *pgxpool.Pool {
	dbURL := os.Getenv("TEST_DATABASE_URL")
	if dbURL == "" {
		dbURL = os.Getenv("DATABASE_URL")
	}
	if dbURL == "" {
		t.Skip("TEST_DATABASE_URL or DATABASE_URL not set; skipping integration test")
	}

	ctx := context.Background()
	pool, err := pgxpool.New(ctx, dbURL)
	if err != nil {
		t.Fatalf("Failed to connect to test database: %v", err)
	}

	if err := pool.Ping(ctx); err != nil {
		t.Fatalf("Failed to ping test database: %v", err)
	}

	EnsureSchema(t, pool)
	return pool
}

// EnsureSchema creates the tables the recovery core reads and writes.
func EnsureSchema(t *testing.T, pool *pgxpool.Pool) {
	ctx := context.Background()
	statements := []string{
		`CREATE TABLE IF NOT EXISTS users (
			id UUID PRIMARY KEY,
			clerk_id TEXT UNIQUE NOT NULL,
			email TEXT NOT NULL,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,
		`CREATE TABLE IF NOT EXISTS recovery_profiles (
			user_id UUID PRIMARY KEY REFERENCES users(id) ON DELETE CASCADE,
			sobriety_date DATE,
			timezone TEXT,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,
		`CREATE TABLE IF NOT EXISTS slip_ups (
			id UUID PRIMARY KEY,
			user_id UUID NOT NULL REFERENCES users(id) ON DELETE CASCADE,
			slip_up_date DATE NOT NULL,
			recovery_restart_date DATE NOT NULL,
			notes TEXT,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,
	}
	for _, stmt := range statements {
		if _, err := pool.Exec(ctx, stmt); err != nil {
			t.Fatalf("Failed to ensure schema: %v", err)
		}
	}
}

// SeedTestUser inserts a user row and returns its internal ID. The
// email is recognizable so CleanupTestDB can sweep it.
func SeedTestUser(t *testing.T, pool *pgxpool.Pool, clerkID string) uuid.UUID {
	ctx := context.Background()
	userID := uuid.New()
	email := fmt.Sprintf("test+%s@example.com", clerkID)

	_, err := pool.Exec(ctx,
		`INSERT INTO users (id, clerk_id, email) VALUES ($1, $2, $3)`,
		userID, clerkID, email)
	if err != nil {
		t.Fatalf("Failed to seed test user: %v", err)
	}
	return userID
}

// CleanupTestDB removes seeded test users (cascading to profiles and
// slip-ups) and closes the pool.
func CleanupTestDB(t *testing.T, pool *pgxpool.Pool) {
	ctx := context.Background()
	_, err := pool.Exec(ctx, "DELETE FROM users WHERE email LIKE 'test+%@example.com'")
	if err != nil {
		t.Logf("Warning: failed to cleanup test data: %v", err)
	}
	pool.Close()
}

// GenerateMockClerkJWT builds a signed token with the shape the Clerk
// middleware expects. It will not pass real verification; use it for
// request plumbing tests only.
func GenerateMockClerkJWT(clerkID string) (string, error) {
	secretKey := []byte("test-secret-key-for-testing-only")

	claims := jwt.MapClaims{
		"sub": clerkID,
		"iss": "https://clerk.test",
		"iat": time.Now().Unix(),
		"exp": time.Now().Add(time.Hour * 24).Unix(),
		"azp": "test-app-id",
		"sid": "sess_test123",
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString(secretKey)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}

	return tokenString, nil
}
