package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/grafline/tracking/internal/orders/domain"
	"github.com/grafline/tracking/internal/orders/ports"
)

// Repository provides an in-memory store useful for local development and tests.
type Repository struct {
	mu     sync.RWMutex
	nextID int64
	orders map[int64]domain.Order
}

// NewRepository constructs a new in-memory repository.
func NewRepository() *Repository {
	return &Repository{orders: make(map[int64]domain.Order)}
}

// Insert stores a new order, assigning the next identity and stamping the
// creation time, mirroring what the database does with bigserial + default.
func (r *Repository) Insert(_ context.Context, order domain.Order) (*domain.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.nextID++
	order.ID = r.nextID
	if order.CreatedAt.IsZero() {
		order.CreatedAt = time.Now().UTC()
	}
	r.orders[order.ID] = order

	stored := order
	return &stored, nil
}

// GetByID fetches a single order by identifier.
func (r *Repository) GetByID(_ context.Context, id int64) (*domain.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	order, ok := r.orders[id]
	if !ok {
		return nil, ports.ErrNotFound
	}
	found := order
	return &found, nil
}

// List returns orders most recent first, respecting the optional status filter.
func (r *Repository) List(_ context.Context, filter ports.ListFilter) ([]domain.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]domain.Order, 0, len(r.orders))
	for _, order := range r.orders {
		if filter.Status != nil && order.Status != *filter.Status {
			continue
		}
		result = append(result, order)
	}

	sort.Slice(result, func(i, j int) bool {
		if result[i].CreatedAt.Equal(result[j].CreatedAt) {
			return result[i].ID > result[j].ID
		}
		return result[i].CreatedAt.After(result[j].CreatedAt)
	})

	return result, nil
}

// UpdateStatus sets the status for an order, leaving every other field untouched.
func (r *Repository) UpdateStatus(_ context.Context, id int64, status domain.Status) (*domain.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	order, ok := r.orders[id]
	if !ok {
		return nil, ports.ErrNotFound
	}

	order.Status = status
	r.orders[id] = order

	updated := order
	return &updated, nil
}
