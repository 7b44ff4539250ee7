//go:build unit || e2e

package dbtest

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	sqlc "bookstore-backoffice/internal/infra/sqlc/generated"
	"bookstore-backoffice/internal/pkg/password"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

const DefaultPassword = "password123"

var (
	hashOnce    sync.Once
	defaultHash string
)

func defaultPasswordHash(t *testing.T) string {
	t.Helper()
	hashOnce.Do(func() {
		h, err := password.HashPasswordMinCost(DefaultPassword)
		require.NoError(t, err)
		defaultHash = h
	})
	return defaultHash
}

// CreateTestUser inserts an active user whose password is DefaultPassword.
// An existing user with the same email is reused.
func CreateTestUser(t *testing.T, db sqlc.DBTX, email, role string) uuid.UUID {
	t.Helper()

	userID := uuid.New()
	ctx := context.Background()

	tag, err := db.Exec(ctx,
		`INSERT INTO users (id, email, password_hash, full_name, role, is_active)
		 VALUES ($1, $2, $3, $4, $5, true) ON CONFLICT (email) DO NOTHING`,
		userID, email, defaultPasswordHash(t), "Test "+role, role)
	require.NoError(t, err)

	if tag.RowsAffected() == 0 {
		require.NoError(t, db.QueryRow(ctx, "SELECT id FROM users WHERE email = $1", email).Scan(&userID))
	}
	return userID
}

func DeactivateUser(t *testing.T, db sqlc.DBTX, userID uuid.UUID) {
	t.Helper()
	_, err := db.Exec(context.Background(), "UPDATE users SET is_active = false WHERE id = $1", userID)
	require.NoError(t, err)
}

func CreateTestBook(t *testing.T, db sqlc.DBTX, title, price string, stock int32) uuid.UUID {
	t.Helper()

	id := uuid.New()
	_, err := db.Exec(context.Background(),
		`INSERT INTO books (id, title, author, price, stock) VALUES ($1, $2, $3, $4, $5)`,
		id, title, "Test Author", decimal.RequireFromString(price), stock)
	require.NoError(t, err)
	return id
}

func CreateTestCustomer(t *testing.T, db sqlc.DBTX, name string) uuid.UUID {
	t.Helper()

	id := uuid.New()
	_, err := db.Exec(context.Background(),
		`INSERT INTO customers (id, name) VALUES ($1, $2)`, id, name)
	require.NoError(t, err)
	return id
}

func BookStock(t *testing.T, db sqlc.DBTX, bookID uuid.UUID) int32 {
	t.Helper()

	var stock int32
	require.NoError(t, db.QueryRow(context.Background(), "SELECT stock FROM books WHERE id = $1", bookID).Scan(&stock))
	return stock
}

func CountSales(t *testing.T, db sqlc.DBTX) int {
	t.Helper()

	var n int
	require.NoError(t, db.QueryRow(context.Background(), "SELECT count(*) FROM sales").Scan(&n))
	return n
}

// SeedReferenceData inserts the categories every test database starts with.
func SeedReferenceData(pool *pgxpool.Pool) error {
	_, err := pool.Exec(context.Background(), `
		INSERT INTO categories (id, name) VALUES
		    (gen_random_uuid(), 'Fiction'),
		    (gen_random_uuid(), 'Non-fiction')
		ON CONFLICT (name) DO NOTHING;
	`)
	return err
}

var (
	buildTruncateOnce sync.Once
	truncateSQL       atomic.Value // string
)

// ResetDB truncates every public table and reseeds reference data.
func ResetDB(pool *pgxpool.Pool) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	buildTruncateOnce.Do(func() {
		truncateSQL.Store(buildTruncate(ctx, pool))
	})
	stmt, _ := truncateSQL.Load().(string)
	if stmt == "" {
		return fmt.Errorf("failed to build TRUNCATE SQL")
	}
	if _, err := pool.Exec(ctx, stmt); err != nil {
		return err
	}
	return SeedReferenceData(pool)
}

func buildTruncate(ctx context.Context, pool *pgxpool.Pool) string {
	rows, err := pool.Query(ctx, `
	  SELECT 'public.' || quote_ident(tablename)
	  FROM pg_tables
	  WHERE schemaname = 'public'`)
	if err != nil {
		return ""
	}
	defer rows.Close()

	var tables []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return ""
		}
		tables = append(tables, name)
	}
	if rows.Err() != nil {
		return ""
	}
	if len(tables) == 0 {
		return "SELECT 1"
	}
	return "TRUNCATE " + strings.Join(tables, ", ") + " CASCADE;"
}
