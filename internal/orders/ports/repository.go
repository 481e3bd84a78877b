package ports

import (
	"context"
	"errors"

	"github.com/grafline/tracking/internal/orders/domain"
)

// OrderRepository exposes persistence operations required by the application layer.
// Insert assigns the identity and creation timestamp; the returned order carries
// both. List returns orders most recent first, which is a user-facing contract.
type OrderRepository interface {
	Insert(ctx context.Context, order domain.Order) (*domain.Order, error)
	GetByID(ctx context.Context, id int64) (*domain.Order, error)
	List(ctx context.Context, filter ListFilter) ([]domain.Order, error)
	UpdateStatus(ctx context.Context, id int64, status domain.Status) (*domain.Order, error)
}

// ListFilter optionally narrows list queries by status. There is no
// pagination: the board always renders the full set.
type ListFilter struct {
	Status *domain.Status
}

var (
	// ErrNotFound is returned when the requested order does not exist.
	ErrNotFound = errors.New("order not found")
)
