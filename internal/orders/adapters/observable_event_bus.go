package adapters

import (
	"context"
	"time"

	"github.com/grafline/tracking/internal/events"
	"github.com/grafline/tracking/internal/orders/ports"
	"github.com/grafline/tracking/internal/telemetry"
	"go.opentelemetry.io/otel/attribute"
)

type ObservableEventBus struct {
	bus     ports.EventBus
	metrics *events.Metrics
}

func NewObservableEventBus(bus ports.EventBus, metrics *events.Metrics) *ObservableEventBus {
	return &ObservableEventBus{
		bus:     bus,
		metrics: metrics,
	}
}

func (e *ObservableEventBus) PublishOrderCreated(ctx context.Context, orderID int64) error {
	ctx, span := telemetry.StartSpan(ctx, "EventBus.PublishOrderCreated")
	defer span.End()

	telemetry.AddSpanAttributes(span,
		attribute.Int64("order.id", orderID),
		attribute.String("event.type", "order.created"),
	)

	start := time.Now()
	err := e.bus.PublishOrderCreated(ctx, orderID)
	duration := time.Since(start).Seconds()

	e.metrics.RecordPublish(ctx, "order.created", duration, err == nil)

	if err != nil {
		telemetry.RecordSpanError(span, err)
		return err
	}

	telemetry.SetSpanSuccess(span)
	return nil
}

func (e *ObservableEventBus) PublishOrderStatusChanged(ctx context.Context, orderID int64, status string) error {
	ctx, span := telemetry.StartSpan(ctx, "EventBus.PublishOrderStatusChanged")
	defer span.End()

	telemetry.AddSpanAttributes(span,
		attribute.Int64("order.id", orderID),
		attribute.String("event.type", "order.status_changed"),
		attribute.String("order.status", status),
	)

	start := time.Now()
	err := e.bus.PublishOrderStatusChanged(ctx, orderID, status)
	duration := time.Since(start).Seconds()

	e.metrics.RecordPublish(ctx, "order.status_changed", duration, err == nil)

	if err != nil {
		telemetry.RecordSpanError(span, err)
		return err
	}

	telemetry.SetSpanSuccess(span)
	return nil
}

func (e *ObservableEventBus) PublishOrderImported(ctx context.Context, orderID int64, messageID string) error {
	ctx, span := telemetry.StartSpan(ctx, "EventBus.PublishOrderImported")
	defer span.End()

	telemetry.AddSpanAttributes(span,
		attribute.Int64("order.id", orderID),
		attribute.String("event.type", "order.imported"),
		attribute.String("mail.message_id", messageID),
	)

	start := time.Now()
	err := e.bus.PublishOrderImported(ctx, orderID, messageID)
	duration := time.Since(start).Seconds()

	e.metrics.RecordPublish(ctx, "order.imported", duration, err == nil)

	if err != nil {
		telemetry.RecordSpanError(span, err)
		return err
	}

	telemetry.SetSpanSuccess(span)
	return nil
}
