//go:build integration

package postgres_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/grafline/tracking/internal/database"
	"github.com/grafline/tracking/internal/orders/adapters/postgres"
	"github.com/grafline/tracking/internal/orders/domain"
	"github.com/grafline/tracking/internal/orders/ports"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/testcontainers/testcontainers-go"
	testpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
)

func setupTestDB(t *testing.T) *pgxpool.Pool {
	t.Helper()
	ctx := context.Background()

	pgContainer, err := testpostgres.Run(ctx,
		"postgres:16-alpine",
		testpostgres.WithDatabase("test"),
		testpostgres.WithUsername("test"),
		testpostgres.WithPassword("test"),
		testpostgres.BasicWaitStrategies(),
		testcontainers.WithWaitStrategy(wait.ForLog("database system is ready to accept connections").WithOccurrence(2)),
	)
	if err != nil {
		t.Fatalf("failed to start postgres container: %v", err)
	}

	t.Cleanup(func() {
		if err := pgContainer.Terminate(ctx); err != nil {
			t.Logf("failed to terminate container: %v", err)
		}
	})

	connStr, err := pgContainer.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		t.Fatalf("failed to get connection string: %v", err)
	}

	projectRoot := findProjectRoot(t)
	migrationsPath := filepath.Join(projectRoot, "migrations")

	if err := database.RunMigrations(connStr, migrationsPath); err != nil {
		t.Fatalf("failed to run migrations: %v", err)
	}

	pool, err := database.NewPool(ctx, connStr)
	if err != nil {
		t.Fatalf("failed to create pool: %v", err)
	}

	t.Cleanup(func() {
		pool.Close()
	})

	return pool
}

func findProjectRoot(t *testing.T) string {
	t.Helper()
	dir, err := os.Getwd()
	if err != nil {
		t.Fatalf("failed to get working directory: %v", err)
	}

	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			t.Fatal("could not find project root (go.mod)")
		}
		dir = parent
	}
}

func TestRepositoryInsertAndGet(t *testing.T) {
	pool := setupTestDB(t)
	repo := postgres.NewRepository(pool)
	ctx := context.Background()

	details := "two coats, matte finish"
	created, err := repo.Insert(ctx, domain.Order{
		Title:   "Paint cabinet",
		Details: &details,
		Status:  domain.StatusNew,
	})
	if err != nil {
		t.Fatalf("failed to insert order: %v", err)
	}

	if created.ID == 0 {
		t.Error("expected database to assign an ID")
	}
	if created.CreatedAt.IsZero() {
		t.Error("expected database to assign created_at")
	}

	retrieved, err := repo.GetByID(ctx, created.ID)
	if err != nil {
		t.Fatalf("failed to get order: %v", err)
	}

	if retrieved.Title != "Paint cabinet" {
		t.Errorf("expected title %q, got %q", "Paint cabinet", retrieved.Title)
	}
	if retrieved.Details == nil || *retrieved.Details != details {
		t.Errorf("expected details %q, got %v", details, retrieved.Details)
	}
	if retrieved.Status != domain.StatusNew {
		t.Errorf("expected status %s, got %s", domain.StatusNew, retrieved.Status)
	}
}

func TestRepositoryInsert_NullDetails(t *testing.T) {
	pool := setupTestDB(t)
	repo := postgres.NewRepository(pool)
	ctx := context.Background()

	created, err := repo.Insert(ctx, domain.Order{
		Title:  "Check rigging",
		Status: domain.StatusNew,
	})
	if err != nil {
		t.Fatalf("failed to insert order: %v", err)
	}

	retrieved, err := repo.GetByID(ctx, created.ID)
	if err != nil {
		t.Fatalf("failed to get order: %v", err)
	}

	if retrieved.Details != nil {
		t.Errorf("expected nil details, got %q", *retrieved.Details)
	}
}

func TestRepositoryGetByID_NotFound(t *testing.T) {
	pool := setupTestDB(t)
	repo := postgres.NewRepository(pool)

	_, err := repo.GetByID(context.Background(), 9999)
	if !errors.Is(err, ports.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got: %v", err)
	}
}

func TestRepositoryList(t *testing.T) {
	pool := setupTestDB(t)
	repo := postgres.NewRepository(pool)
	ctx := context.Background()

	titles := []string{"Oldest", "Middle", "Newest"}
	for _, title := range titles {
		if _, err := repo.Insert(ctx, domain.Order{Title: title, Status: domain.StatusNew}); err != nil {
			t.Fatalf("failed to insert order: %v", err)
		}
		// Keep created_at strictly increasing across rows.
		time.Sleep(10 * time.Millisecond)
	}

	orders, err := repo.List(ctx, ports.ListFilter{})
	if err != nil {
		t.Fatalf("failed to list orders: %v", err)
	}

	if len(orders) != 3 {
		t.Fatalf("expected 3 orders, got %d", len(orders))
	}

	wantTitles := []string{"Newest", "Middle", "Oldest"}
	for i, want := range wantTitles {
		if orders[i].Title != want {
			t.Errorf("orders[%d].Title = %q, want %q", i, orders[i].Title, want)
		}
	}
}

func TestRepositoryList_StatusFilter(t *testing.T) {
	pool := setupTestDB(t)
	repo := postgres.NewRepository(pool)
	ctx := context.Background()

	if _, err := repo.Insert(ctx, domain.Order{Title: "Waiting", Status: domain.StatusNew}); err != nil {
		t.Fatalf("failed to insert order: %v", err)
	}
	if _, err := repo.Insert(ctx, domain.Order{Title: "Billing", Status: domain.StatusInvoiced}); err != nil {
		t.Fatalf("failed to insert order: %v", err)
	}

	status := domain.StatusInvoiced
	orders, err := repo.List(ctx, ports.ListFilter{Status: &status})
	if err != nil {
		t.Fatalf("failed to list orders: %v", err)
	}

	if len(orders) != 1 {
		t.Fatalf("expected 1 order, got %d", len(orders))
	}
	if orders[0].Title != "Billing" {
		t.Errorf("expected the INVOICED order, got %q", orders[0].Title)
	}
}

func TestRepositoryUpdateStatus(t *testing.T) {
	pool := setupTestDB(t)
	repo := postgres.NewRepository(pool)
	ctx := context.Background()

	created, err := repo.Insert(ctx, domain.Order{Title: "Fit windows", Status: domain.StatusNew})
	if err != nil {
		t.Fatalf("failed to insert order: %v", err)
	}

	updated, err := repo.UpdateStatus(ctx, created.ID, domain.StatusInProgress)
	if err != nil {
		t.Fatalf("failed to update status: %v", err)
	}

	if updated.Status != domain.StatusInProgress {
		t.Errorf("expected status %s, got %s", domain.StatusInProgress, updated.Status)
	}
	if updated.Title != created.Title {
		t.Errorf("expected title unchanged, got %q", updated.Title)
	}
	if !updated.CreatedAt.Equal(created.CreatedAt) {
		t.Errorf("expected created_at unchanged, got %v", updated.CreatedAt)
	}
}

func TestRepositoryUpdateStatus_NotFound(t *testing.T) {
	pool := setupTestDB(t)
	repo := postgres.NewRepository(pool)

	_, err := repo.UpdateStatus(context.Background(), 9999, domain.StatusInvoiced)
	if !errors.Is(err, ports.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got: %v", err)
	}
}

func TestRepositoryUpdateStatus_RejectedByConstraint(t *testing.T) {
	pool := setupTestDB(t)
	repo := postgres.NewRepository(pool)
	ctx := context.Background()

	created, err := repo.Insert(ctx, domain.Order{Title: "Fit windows", Status: domain.StatusNew})
	if err != nil {
		t.Fatalf("failed to insert order: %v", err)
	}

	if _, err := repo.UpdateStatus(ctx, created.ID, domain.Status("SHIPPED")); err == nil {
		t.Fatal("expected check constraint violation, got nil")
	}
}
