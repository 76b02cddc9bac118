package repository

import (
	"context"
	"testing"
	"time"

	"promo-admin/internal/database"
	"promo-admin/internal/model"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
)

// setupTestDB creates a PostgreSQL testcontainer with the promotions schema
// and returns a connection pool.
func setupTestDB(t *testing.T) (*pgxpool.Pool, func()) {
	ctx := context.Background()

	pgContainer, err := postgres.Run(ctx,
		"postgres:16-alpine",
		postgres.WithDatabase("testdb"),
		postgres.WithUsername("postgres"),
		postgres.WithPassword("postgres"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second)),
	)
	require.NoError(t, err)

	connStr, err := pgContainer.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	pool, err := pgxpool.New(ctx, connStr)
	require.NoError(t, err)

	require.NoError(t, database.Migrate(ctx, pool, zerolog.Nop()))

	cleanup := func() {
		pool.Close()
		_ = pgContainer.Terminate(ctx)
	}

	return pool, cleanup
}

func TestOrderBy(t *testing.T) {
	tests := []struct {
		sort     string
		desc     bool
		expected string
	}{
		{sort: model.SortByName, expected: "lower(name) ASC, id ASC"},
		{sort: model.SortByDate, desc: true, expected: "date DESC, id ASC"},
		{sort: model.SortBySentGifts, expected: "sent_gifts ASC, id ASC"},
		{sort: model.SortByID, desc: true, expected: "id DESC"},
		{sort: "name; DROP TABLE promotions", expected: "lower(name) ASC, id ASC"},
	}

	for _, tt := range tests {
		t.Run(tt.sort, func(t *testing.T) {
			assert.Equal(t, tt.expected, orderBy(tt.sort, tt.desc))
		})
	}
}
