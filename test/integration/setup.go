package integration

import (
	"context"
	"testing"
	"time"

	"promo-admin/internal/config"
	"promo-admin/internal/database"
	"promo-admin/internal/model"
	"promo-admin/internal/repository"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
)

// TestDB represents a test database instance.
type TestDB struct {
	Container *postgres.PostgresContainer
	Pool      *pgxpool.Pool
}

// SetupTestDB creates a PostgreSQL test container, a connection pool and
// the promotions schema.
func SetupTestDB(t *testing.T) *TestDB {
	t.Helper()

	ctx := context.Background()

	postgresContainer, err := postgres.Run(ctx,
		"postgres:16-alpine",
		postgres.WithDatabase("testdb"),
		postgres.WithUsername("testuser"),
		postgres.WithPassword("testpass"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second)),
	)
	if err != nil {
		t.Fatalf("failed to start postgres container: %v", err)
	}

	host, err := postgresContainer.Host(ctx)
	if err != nil {
		t.Fatalf("failed to get container host: %v", err)
	}
	port, err := postgresContainer.MappedPort(ctx, "5432/tcp")
	if err != nil {
		t.Fatalf("failed to get container port: %v", err)
	}

	dbConfig := config.DatabaseConfig{
		Host:            host,
		Port:            port.Int(),
		User:            "testuser",
		Password:        "testpass",
		Database:        "testdb",
		MaxConnections:  10,
		MinConnections:  2,
		MaxConnLifetime: 300,
	}

	logger := zerolog.Nop()
	pool, err := database.NewPool(ctx, dbConfig, logger)
	if err != nil {
		t.Fatalf("failed to create connection pool: %v", err)
	}

	if err := database.Migrate(ctx, pool, logger); err != nil {
		t.Fatalf("failed to create schema: %v", err)
	}

	t.Cleanup(func() {
		pool.Close()
		if err := postgresContainer.Terminate(ctx); err != nil {
			t.Logf("failed to terminate container: %v", err)
		}
	})

	return &TestDB{
		Container: postgresContainer,
		Pool:      pool,
	}
}

// SeedPromotions inserts five promotions and returns them with their IDs.
// By name they sort Autumn, Black Friday, Spring, Summer, Winter.
func SeedPromotions(t *testing.T, pool *pgxpool.Pool) []model.Promotion {
	t.Helper()

	ctx := context.Background()
	repo := repository.NewPromotionRepository(pool, zerolog.Nop())

	promotions := []model.Promotion{
		{Name: "Summer", Date: model.NewDate(2024, time.June, 21), SentGifts: 200, DaysToTakeGift: 3, DaysToReceiveGift: 10},
		{Name: "Winter", Date: model.NewDate(2024, time.December, 20), SentGifts: 300, DaysToTakeGift: 10, DaysToReceiveGift: 21, Description: "Loyalty card holders"},
		{Name: "Spring", Date: model.NewDate(2024, time.March, 1), SentGifts: 50, DaysToTakeGift: 7, DaysToReceiveGift: 14},
		{Name: "Autumn", Date: model.NewDate(2024, time.September, 1), SentGifts: 75, DaysToTakeGift: 5, DaysToReceiveGift: 7, CardNumbers: "4000,4001"},
		{Name: "Black Friday", Date: model.NewDate(2024, time.November, 29), SentGifts: 500, DaysToTakeGift: 2, DaysToReceiveGift: 5},
	}

	seeded := make([]model.Promotion, 0, len(promotions))
	for _, p := range promotions {
		created, err := repo.Create(ctx, p)
		if err != nil {
			t.Fatalf("failed to seed promotion %s: %v", p.Name, err)
		}
		seeded = append(seeded, *created)
	}
	return seeded
}

// CleanupDB removes all promotions and resets the ID sequence.
func CleanupDB(t *testing.T, pool *pgxpool.Pool) {
	t.Helper()

	if _, err := pool.Exec(context.Background(), "TRUNCATE promotions RESTART IDENTITY"); err != nil {
		t.Fatalf("failed to clean promotions: %v", err)
	}
}
