package importer

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

type Metrics struct {
	messagesProcessedTotal metric.Int64Counter
	runDuration            metric.Float64Histogram
}

func NewMetrics(meter metric.Meter) (*Metrics, error) {
	m := &Metrics{}

	var err error

	m.messagesProcessedTotal, err = meter.Int64Counter(
		"importer_messages_processed_total",
		metric.WithDescription("Mailbox messages handled per outcome"),
		metric.WithUnit("{message}"),
	)
	if err != nil {
		return nil, fmt.Errorf("create importer_messages_processed_total counter: %w", err)
	}

	m.runDuration, err = meter.Float64Histogram(
		"importer_run_duration_seconds",
		metric.WithDescription("Duration of full importer runs"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, fmt.Errorf("create importer_run_duration histogram: %w", err)
	}

	return m, nil
}

func (m *Metrics) RecordMessage(ctx context.Context, outcome string) {
	m.messagesProcessedTotal.Add(ctx, 1, metric.WithAttributes(
		attribute.String("outcome", outcome),
	))
}

func (m *Metrics) RecordRunDuration(ctx context.Context, durationSeconds float64) {
	m.runDuration.Record(ctx, durationSeconds)
}
