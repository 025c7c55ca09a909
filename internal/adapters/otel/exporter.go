// Package otel exports pipeline metrics to an OTEL Collector over OTLP/gRPC.
package otel

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetricgrpc"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	semconv "go.opentelemetry.io/otel/semconv/v1.24.0"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
)

const (
	serviceName    = "replywatch"
	serviceVersion = "1.0.0"
)

// Exporter implements detailedstats.Metrics over an OTEL meter provider.
type Exporter struct {
	provider            *sdkmetric.MeterProvider
	meter               metric.Meter
	pagesFetched        metric.Int64Counter
	recordsFetched      metric.Int64Counter
	dialogBatchFailures metric.Int64Counter
	pipelineDuration    metric.Float64Histogram
}

// NewExporter creates a new OTEL metrics exporter.
func NewExporter(ctx context.Context, cfg Config) (*Exporter, error) {
	if !cfg.Enabled || cfg.Endpoint == "" {
		return nil, fmt.Errorf("OTEL exporter is disabled or endpoint not configured")
	}

	opts := []otlpmetricgrpc.Option{
		otlpmetricgrpc.WithEndpoint(cfg.Endpoint),
	}
	if cfg.Insecure {
		opts = append(opts, otlpmetricgrpc.WithDialOption(grpc.WithTransportCredentials(insecure.NewCredentials())))
		opts = append(opts, otlpmetricgrpc.WithInsecure())
	}

	exp, err := otlpmetricgrpc.New(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("creating OTLP exporter: %w", err)
	}

	res, err := resource.New(ctx,
		resource.WithAttributes(
			semconv.ServiceName(serviceName),
			semconv.ServiceVersion(serviceVersion),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("creating resource: %w", err)
	}

	provider := sdkmetric.NewMeterProvider(
		sdkmetric.WithReader(sdkmetric.NewPeriodicReader(exp)),
		sdkmetric.WithResource(res),
	)
	otel.SetMeterProvider(provider)

	meter := provider.Meter(serviceName)

	pagesFetched, err := meter.Int64Counter(
		"replywatch_comparison_pages_total",
		metric.WithDescription("Comparison pages fetched from the remote store"),
		metric.WithUnit("{page}"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating pages counter: %w", err)
	}

	recordsFetched, err := meter.Int64Counter(
		"replywatch_comparison_records_total",
		metric.WithDescription("Comparison records fetched from the remote store"),
		metric.WithUnit("{record}"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating records counter: %w", err)
	}

	dialogBatchFailures, err := meter.Int64Counter(
		"replywatch_dialog_batch_failures_total",
		metric.WithDescription("Dialog sub-batches that failed and degraded to empty results"),
		metric.WithUnit("{batch}"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating dialog failures counter: %w", err)
	}

	pipelineDuration, err := meter.Float64Histogram(
		"replywatch_pipeline_duration_seconds",
		metric.WithDescription("Wall time of a full detailed-statistics pipeline run"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating duration histogram: %w", err)
	}

	return &Exporter{
		provider:            provider,
		meter:               meter,
		pagesFetched:        pagesFetched,
		recordsFetched:      recordsFetched,
		dialogBatchFailures: dialogBatchFailures,
		pipelineDuration:    pipelineDuration,
	}, nil
}

func (e *Exporter) ComparisonPagesFetched(ctx context.Context, pages int) {
	e.pagesFetched.Add(ctx, int64(pages))
}

func (e *Exporter) ComparisonRecordsFetched(ctx context.Context, records int) {
	e.recordsFetched.Add(ctx, int64(records))
}

func (e *Exporter) DialogBatchFailed(ctx context.Context) {
	e.dialogBatchFailures.Add(ctx, 1)
}

func (e *Exporter) PipelineCompleted(ctx context.Context, d time.Duration) {
	e.pipelineDuration.Record(ctx, d.Seconds())
}

// Close shuts down the exporter and flushes any pending metrics.
func (e *Exporter) Close(ctx context.Context) error {
	if e.provider == nil {
		return nil
	}
	return e.provider.Shutdown(ctx)
}
