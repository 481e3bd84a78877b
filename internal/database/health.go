package database

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

// pingTimeout caps the readiness ping so a wedged database cannot stall
// /readyz responses.
const pingTimeout = 2 * time.Second

// CheckHealth reports whether the pool can reach the database. Backs the
// readiness probe; liveness stays independent of the database.
func CheckHealth(ctx context.Context, pool *pgxpool.Pool) error {
	ctx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()

	return pool.Ping(ctx)
}
