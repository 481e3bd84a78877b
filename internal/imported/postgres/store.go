package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/grafline/tracking/internal/orders/ports"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Store struct {
	pool *pgxpool.Pool
}

func NewStore(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool}
}

func (s *Store) Get(ctx context.Context, messageID string) (*ports.ImportedMessage, error) {
	query := `
		SELECT message_id, order_id
		FROM imported_messages
		WHERE message_id = $1
	`

	var record ports.ImportedMessage
	err := s.pool.QueryRow(ctx, query, messageID).Scan(
		&record.MessageID,
		&record.OrderID,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("select imported message: %w", err)
	}

	return &record, nil
}

func (s *Store) Record(ctx context.Context, record ports.ImportedMessage) error {
	query := `
		INSERT INTO imported_messages (message_id, order_id)
		VALUES ($1, $2)
		ON CONFLICT (message_id) DO NOTHING
	`

	_, err := s.pool.Exec(ctx, query, record.MessageID, record.OrderID)
	if err != nil {
		return fmt.Errorf("insert imported message: %w", err)
	}

	return nil
}
