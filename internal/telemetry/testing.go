package telemetry

import (
	"context"

	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
)

// Discarding exporters let tests run Initialize without an OTLP endpoint.
// Production code never touches these; Initialize builds real exporters when
// no override is supplied.

type discardSpanExporter struct{}

func (discardSpanExporter) ExportSpans(context.Context, []sdktrace.ReadOnlySpan) error { return nil }
func (discardSpanExporter) Shutdown(context.Context) error                             { return nil }

type discardMetricExporter struct{}

func (discardMetricExporter) Temporality(sdkmetric.InstrumentKind) metricdata.Temporality {
	return metricdata.CumulativeTemporality
}

func (discardMetricExporter) Aggregation(sdkmetric.InstrumentKind) sdkmetric.Aggregation {
	return sdkmetric.AggregationDefault{}
}

func (discardMetricExporter) Export(context.Context, *metricdata.ResourceMetrics) error { return nil }
func (discardMetricExporter) ForceFlush(context.Context) error                          { return nil }
func (discardMetricExporter) Shutdown(context.Context) error                            { return nil }

// NewNoopTraceExporter returns a span exporter that drops everything.
func NewNoopTraceExporter() sdktrace.SpanExporter {
	return discardSpanExporter{}
}

// NewNoopMetricExporter returns a metric exporter that drops everything.
func NewNoopMetricExporter() sdkmetric.Exporter {
	return discardMetricExporter{}
}
