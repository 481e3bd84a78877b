package commands

import (
	"context"
	"log/slog"

	"github.com/grafline/tracking/internal/orders/domain"
	"github.com/grafline/tracking/internal/orders/metrics"
	"github.com/grafline/tracking/internal/telemetry"
	"go.opentelemetry.io/otel/attribute"
)

type observableUpdateStatusHandler struct {
	handler UpdateOrderStatusHandler
	logger  *slog.Logger
	metrics *metrics.Metrics
}

func NewObservableUpdateStatusHandler(handler UpdateOrderStatusHandler, logger *slog.Logger, metrics *metrics.Metrics) UpdateOrderStatusHandler {
	return &observableUpdateStatusHandler{
		handler: handler,
		logger:  logger,
		metrics: metrics,
	}
}

func (o *observableUpdateStatusHandler) Handle(ctx context.Context, cmd UpdateOrderStatusCommand) (*domain.Order, error) {
	ctx, span := telemetry.StartSpan(ctx, "UpdateOrderStatusCommand.Handle")
	defer span.End()

	telemetry.AddSpanAttributes(span,
		attribute.Int64("order.id", cmd.OrderID),
		attribute.String("order.status", cmd.Status),
	)

	order, err := o.handler.Handle(ctx, cmd)

	o.metrics.RecordStatusChange(ctx, cmd.Status, err == nil)

	if err != nil {
		telemetry.RecordSpanError(span, err)
		o.logger.ErrorContext(ctx, "failed to update order status",
			"error", err,
			"order_id", cmd.OrderID,
			"status", cmd.Status,
		)
		return nil, err
	}

	o.logger.InfoContext(ctx, "order status updated",
		"order_id", order.ID,
		"status", order.Status,
	)

	telemetry.SetSpanSuccess(span)
	return order, nil
}
