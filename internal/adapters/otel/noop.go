package otel

import (
	"context"

	"github.com/replywatch/replywatch/internal/detailedstats"
)

// NoOpExporter is a metrics sink that does nothing, for graceful
// degradation when the collector is not configured.
type NoOpExporter struct {
	detailedstats.NopMetrics
}

// NewNoOpExporter creates a new no-op exporter.
func NewNoOpExporter() *NoOpExporter {
	return &NoOpExporter{}
}

func (e *NoOpExporter) Close(ctx context.Context) error { return nil }
