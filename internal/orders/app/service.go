package app

import (
	"context"
	"log/slog"

	"github.com/grafline/tracking/internal/orders/app/commands"
	"github.com/grafline/tracking/internal/orders/app/queries"
	"github.com/grafline/tracking/internal/orders/domain"
	"github.com/grafline/tracking/internal/orders/metrics"
	"github.com/grafline/tracking/internal/orders/ports"
)

// Service bundles use cases for handling orders. Both the API process and
// the email importer create orders through it, so status vocabulary and
// title rules are enforced in exactly one place.
type Service struct {
	createHandler       commands.CreateOrderHandler
	updateStatusHandler commands.UpdateOrderStatusHandler
	getHandler          *queries.GetOrderQueryHandler
	listHandler         *queries.ListOrdersQueryHandler
}

// NewService wires required dependencies.
func NewService(
	repo ports.OrderRepository,
	events ports.EventBus,
	logger *slog.Logger,
	metrics *metrics.Metrics,
) *Service {
	createHandler := commands.NewObservableCreateOrderHandler(
		commands.NewCreateOrderHandler(repo, events), logger, metrics,
	)
	updateStatusHandler := commands.NewObservableUpdateStatusHandler(
		commands.NewUpdateOrderStatusHandler(repo, events), logger, metrics,
	)

	return &Service{
		createHandler:       createHandler,
		updateStatusHandler: updateStatusHandler,
		getHandler:          queries.NewGetOrderQueryHandler(repo),
		listHandler:         queries.NewListOrdersQueryHandler(repo),
	}
}

// CreateOrderInput captures payload for creating an order.
type CreateOrderInput struct {
	Title   string  `json:"title"`
	Details *string `json:"details"`
}

// CreateOrder validates the title and persists a new order in status NEW.
func (s *Service) CreateOrder(ctx context.Context, input CreateOrderInput) (*domain.Order, error) {
	cmd := commands.CreateOrderCommand{
		Title:   input.Title,
		Details: input.Details,
	}
	return s.createHandler.Handle(ctx, cmd)
}

// GetOrder retrieves an order by ID.
func (s *Service) GetOrder(ctx context.Context, id int64) (*domain.Order, error) {
	return s.getHandler.Handle(ctx, queries.GetOrderQuery{OrderID: id})
}

// ListOrders returns orders ordered by creation time descending.
func (s *Service) ListOrders(ctx context.Context, status *domain.Status) ([]domain.Order, error) {
	return s.listHandler.Handle(ctx, queries.ListOrdersQuery{Status: status})
}

// UpdateOrderStatus moves an order to another stage. Transitions are
// unrestricted beyond membership in the status set.
func (s *Service) UpdateOrderStatus(ctx context.Context, id int64, status string) (*domain.Order, error) {
	cmd := commands.UpdateOrderStatusCommand{
		OrderID: id,
		Status:  status,
	}
	return s.updateStatusHandler.Handle(ctx, cmd)
}
