package detailedstats

import (
	"context"
	"time"

	"github.com/replywatch/replywatch/internal/domain"
)

// DateField selects which timestamp drives range filtering and week
// bucketing.
type DateField string

const (
	DateFieldCreated    DateField = "created"
	DateFieldHumanReply DateField = "human_reply"
)

// Filter narrows the comparison records a report is computed over. The date
// range is half-open: [From, To).
type Filter struct {
	From time.Time
	To   time.Time

	Versions   []string
	Categories []string
	Agents     []string
	ThreadIDs  []string

	DateField            DateField
	MergeMultiCategories bool
}

// RecordSource is the pipeline's view of the remote record store. Reads are
// range-filtered, projected and offset/limit paginated; implementations cap
// a single read at MaxPageSize rows.
type RecordSource interface {
	// CountComparisons returns the exact number of comparison records
	// matching the filter.
	CountComparisons(ctx context.Context, f Filter) (int64, error)

	// ListComparisons returns one page of matching comparison records.
	ListComparisons(ctx context.Context, f Filter, offset, limit int) ([]domain.ComparisonRecord, error)

	// ListDialogEvents returns all dialog events for the given tickets,
	// ordered by timestamp ascending.
	ListDialogEvents(ctx context.Context, ticketIDs []string) ([]domain.DialogEvent, error)
}

// MaxPageSize is the remote store's page size ceiling.
const MaxPageSize = 1000

// Logger is the minimal logging surface the pipeline needs.
type Logger interface {
	Debug(msg string)
	Error(msg string)
}

// NopLogger discards everything.
type NopLogger struct{}

func (NopLogger) Debug(string) {}
func (NopLogger) Error(string) {}

// Metrics receives pipeline instrumentation events.
type Metrics interface {
	ComparisonPagesFetched(ctx context.Context, pages int)
	ComparisonRecordsFetched(ctx context.Context, records int)
	DialogBatchFailed(ctx context.Context)
	PipelineCompleted(ctx context.Context, d time.Duration)
}

// NopMetrics drops all instrumentation events.
type NopMetrics struct{}

func (NopMetrics) ComparisonPagesFetched(context.Context, int)        {}
func (NopMetrics) ComparisonRecordsFetched(context.Context, int)      {}
func (NopMetrics) DialogBatchFailed(context.Context)                  {}
func (NopMetrics) PipelineCompleted(context.Context, time.Duration)   {}
