package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/grafline/tracking/internal/orders/domain"
	"github.com/grafline/tracking/internal/orders/ports"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Repository struct {
	pool *pgxpool.Pool
}

func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

func (r *Repository) Insert(ctx context.Context, order domain.Order) (*domain.Order, error) {
	query := `
		INSERT INTO orders (title, details, status)
		VALUES ($1, $2, $3)
		RETURNING id, created_at
	`

	created := order
	err := r.pool.QueryRow(ctx, query,
		order.Title,
		order.Details,
		order.Status,
	).Scan(&created.ID, &created.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("insert order: %w", err)
	}

	return &created, nil
}

func (r *Repository) GetByID(ctx context.Context, id int64) (*domain.Order, error) {
	query := `
		SELECT id, title, details, status, created_at
		FROM orders
		WHERE id = $1
	`

	var order domain.Order
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&order.ID,
		&order.Title,
		&order.Details,
		&order.Status,
		&order.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ports.ErrNotFound
		}
		return nil, fmt.Errorf("select order: %w", err)
	}

	return &order, nil
}

func (r *Repository) List(ctx context.Context, filter ports.ListFilter) ([]domain.Order, error) {
	// Descending creation order is part of the API contract; id breaks ties
	// so the ordering stays deterministic within a single timestamp.
	query := `
		SELECT id, title, details, status, created_at
		FROM orders
		WHERE ($1::text IS NULL OR status = $1)
		ORDER BY created_at DESC, id DESC
	`

	var statusFilter *string
	if filter.Status != nil {
		s := string(*filter.Status)
		statusFilter = &s
	}

	rows, err := r.pool.Query(ctx, query, statusFilter)
	if err != nil {
		return nil, fmt.Errorf("query orders: %w", err)
	}
	defer rows.Close()

	var orders []domain.Order
	for rows.Next() {
		var order domain.Order
		if err := rows.Scan(
			&order.ID,
			&order.Title,
			&order.Details,
			&order.Status,
			&order.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan order: %w", err)
		}
		orders = append(orders, order)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate orders: %w", err)
	}

	return orders, nil
}

func (r *Repository) UpdateStatus(ctx context.Context, id int64, status domain.Status) (*domain.Order, error) {
	query := `
		UPDATE orders
		SET status = $1
		WHERE id = $2
		RETURNING id, title, details, status, created_at
	`

	var order domain.Order
	err := r.pool.QueryRow(ctx, query, status, id).Scan(
		&order.ID,
		&order.Title,
		&order.Details,
		&order.Status,
		&order.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ports.ErrNotFound
		}
		return nil, fmt.Errorf("update order status: %w", err)
	}

	return &order, nil
}
