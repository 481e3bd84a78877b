package commands

import (
	"context"
	"fmt"
	"strings"

	"github.com/grafline/tracking/internal/orders/domain"
	"github.com/grafline/tracking/internal/orders/ports"
)

// CreateOrderCommand captures the payload for creating an order. Details is
// optional; nil means the order has none, which is distinct from empty text.
type CreateOrderCommand struct {
	Title   string
	Details *string
}

func (c CreateOrderCommand) Validate() error {
	if strings.TrimSpace(c.Title) == "" {
		return domain.ErrEmptyTitle
	}
	return nil
}

// CreateOrderHandler handles CreateOrderCommand.
type CreateOrderHandler interface {
	Handle(ctx context.Context, cmd CreateOrderCommand) (*domain.Order, error)
}

type createOrderHandler struct {
	repo   ports.OrderRepository
	events ports.EventBus
}

func NewCreateOrderHandler(
	repo ports.OrderRepository,
	events ports.EventBus,
) CreateOrderHandler {
	return &createOrderHandler{
		repo:   repo,
		events: events,
	}
}

func (h *createOrderHandler) Handle(ctx context.Context, cmd CreateOrderCommand) (*domain.Order, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	// Every order enters the pipeline as NEW; the store assigns identity
	// and the creation timestamp.
	order := domain.Order{
		Title:   cmd.Title,
		Details: cmd.Details,
		Status:  domain.StatusNew,
	}

	created, err := h.repo.Insert(ctx, order)
	if err != nil {
		return nil, err
	}

	if err := h.events.PublishOrderCreated(ctx, created.ID); err != nil {
		return created, fmt.Errorf("order saved but failed to publish event: %w", err)
	}

	return created, nil
}
