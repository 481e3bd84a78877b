package commands

import (
	"context"
	"fmt"

	"github.com/grafline/tracking/internal/orders/domain"
	"github.com/grafline/tracking/internal/orders/ports"
)

// UpdateOrderStatusCommand moves an order to another pipeline stage. Any
// status may follow any other; only membership in the closed set is checked.
type UpdateOrderStatusCommand struct {
	OrderID int64
	Status  string
}

func (c UpdateOrderStatusCommand) Validate() error {
	if _, err := domain.ParseStatus(c.Status); err != nil {
		return err
	}
	return nil
}

// UpdateOrderStatusHandler handles UpdateOrderStatusCommand.
type UpdateOrderStatusHandler interface {
	Handle(ctx context.Context, cmd UpdateOrderStatusCommand) (*domain.Order, error)
}

type updateOrderStatusHandler struct {
	repo   ports.OrderRepository
	events ports.EventBus
}

func NewUpdateOrderStatusHandler(
	repo ports.OrderRepository,
	events ports.EventBus,
) UpdateOrderStatusHandler {
	return &updateOrderStatusHandler{
		repo:   repo,
		events: events,
	}
}

func (h *updateOrderStatusHandler) Handle(ctx context.Context, cmd UpdateOrderStatusCommand) (*domain.Order, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	status, _ := domain.ParseStatus(cmd.Status)

	order, err := h.repo.UpdateStatus(ctx, cmd.OrderID, status)
	if err != nil {
		return nil, err
	}

	if err := h.events.PublishOrderStatusChanged(ctx, order.ID, string(order.Status)); err != nil {
		return order, fmt.Errorf("status saved but failed to publish event: %w", err)
	}

	return order, nil
}
