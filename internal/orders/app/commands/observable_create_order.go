package commands

import (
	"context"
	"log/slog"
	"time"

	"github.com/grafline/tracking/internal/orders/domain"
	"github.com/grafline/tracking/internal/orders/metrics"
	"github.com/grafline/tracking/internal/telemetry"
	"go.opentelemetry.io/otel/attribute"
)

type observableCreateOrderHandler struct {
	handler CreateOrderHandler
	logger  *slog.Logger
	metrics *metrics.Metrics
}

func NewObservableCreateOrderHandler(handler CreateOrderHandler, logger *slog.Logger, metrics *metrics.Metrics) CreateOrderHandler {
	return &observableCreateOrderHandler{
		handler: handler,
		logger:  logger,
		metrics: metrics,
	}
}

func (o *observableCreateOrderHandler) Handle(ctx context.Context, cmd CreateOrderCommand) (*domain.Order, error) {
	ctx, span := telemetry.StartSpan(ctx, "CreateOrderCommand.Handle")
	defer span.End()

	start := time.Now()
	var success bool
	defer func() {
		duration := time.Since(start).Seconds()
		o.metrics.RecordOrderCreationDuration(ctx, duration)
		o.metrics.RecordOrderCreated(ctx, success)
	}()

	o.logger.InfoContext(ctx, "creating order", "title", cmd.Title)

	order, err := o.handler.Handle(ctx, cmd)

	if err != nil {
		telemetry.RecordSpanError(span, err)
		o.logger.ErrorContext(ctx, "failed to create order",
			"error", err,
			"title", cmd.Title,
		)
		return nil, err
	}

	telemetry.AddSpanAttributes(span,
		attribute.Int64("order.id", order.ID),
		attribute.String("order.status", string(order.Status)),
	)

	o.logger.InfoContext(ctx, "order created",
		"order_id", order.ID,
		"title", order.Title,
	)

	success = true
	telemetry.SetSpanSuccess(span)

	return order, nil
}
