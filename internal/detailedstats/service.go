// Package detailedstats implements the detailed-statistics aggregation
// pipeline: a paginated batch fetch of comparison records from the remote
// store, dialog pattern detection over the referenced tickets, two-level
// (category+version, then calendar week) aggregation across both
// classification taxonomies, and a deterministic final ordering.
package detailedstats

import (
	"context"
	"fmt"
	"time"

	"github.com/replywatch/replywatch/internal/domain"
)

const (
	defaultTimeout     = 60 * time.Second
	defaultDialogPause = 150 * time.Millisecond
)

// Service runs the pipeline. It holds no state between invocations; every
// call computes a fresh report from the store.
type Service struct {
	source      RecordSource
	log         Logger
	metrics     Metrics
	timeout     time.Duration
	dialogPause time.Duration
	now         func() time.Time
}

// Options tunes a Service. Zero values fall back to defaults.
type Options struct {
	Metrics Metrics
	// Timeout is the whole-pipeline deadline. On expiry the report fails;
	// in-flight reads are abandoned to their own contexts.
	Timeout time.Duration
	// DialogBatchPause is the pause between concurrent dialog read groups.
	// Zero falls back to the 150ms default; a negative value disables the
	// pause entirely.
	DialogBatchPause time.Duration
	// Now overrides the clock, used by tests and by the null-date week
	// bucketing fallback.
	Now func() time.Time
}

// NewService creates a pipeline service over the given record source.
func NewService(source RecordSource, log Logger, opts Options) *Service {
	if log == nil {
		log = NopLogger{}
	}
	if opts.Metrics == nil {
		opts.Metrics = NopMetrics{}
	}
	if opts.Timeout <= 0 {
		opts.Timeout = defaultTimeout
	}
	if opts.DialogBatchPause < 0 {
		opts.DialogBatchPause = 0
	} else if opts.DialogBatchPause == 0 {
		opts.DialogBatchPause = defaultDialogPause
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &Service{
		source:      source,
		log:         log,
		metrics:     opts.Metrics,
		timeout:     opts.Timeout,
		dialogPause: opts.DialogBatchPause,
		now:         opts.Now,
	}
}

// Result is the single-shot report envelope. The aggregated rows are always
// returned in one page; any further pagination is the caller's concern.
type Result struct {
	Data            []domain.DetailedStatsRow `json:"data"`
	TotalCount      int64                     `json:"totalCount"`
	TotalPages      int                       `json:"totalPages"`
	CurrentPage     int                       `json:"currentPage"`
	HasNextPage     bool                      `json:"hasNextPage"`
	HasPreviousPage bool                      `json:"hasPreviousPage"`
}

func emptyResult() *Result {
	return &Result{
		Data:        []domain.DetailedStatsRow{},
		TotalPages:  1,
		CurrentPage: 1,
	}
}

// DetailedStats computes the full report for the filter. Count and batch
// fetch failures are fatal; dialog pattern detection degrades gracefully.
// The operation is read-only and idempotent given stable source data, so
// callers may retry it wholesale.
func (s *Service) DetailedStats(ctx context.Context, f Filter) (*Result, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	started := s.now()
	if f.DateField == "" {
		f.DateField = DateFieldCreated
	}

	queryFilter, threadAllow := splitThreadFilter(f)

	total, err := s.source.CountComparisons(ctx, queryFilter)
	if err != nil {
		return nil, fmt.Errorf("counting comparison records: %w", err)
	}
	if total == 0 {
		return emptyResult(), nil
	}

	records, err := s.fetchAll(ctx, queryFilter, total)
	if err != nil {
		return nil, fmt.Errorf("fetching comparison records: %w", err)
	}
	records = filterThreads(records, threadAllow)
	if len(records) == 0 {
		return emptyResult(), nil
	}

	patterns := s.detectPatterns(ctx, ticketIDs(records))

	rows := aggregate(records, patterns, f.DateField, f.MergeMultiCategories, s.now())
	sortRows(rows)

	s.metrics.PipelineCompleted(ctx, s.now().Sub(started))
	s.log.Debug(fmt.Sprintf("detailed stats: %d records into %d rows", len(records), len(rows)))

	return &Result{
		Data:        rows,
		TotalCount:  int64(len(records)),
		TotalPages:  1,
		CurrentPage: 1,
	}, nil
}

func ticketIDs(records []domain.ComparisonRecord) []string {
	ids := make([]string, 0, len(records))
	for _, rec := range records {
		if rec.TicketID != nil {
			ids = append(ids, *rec.TicketID)
		}
	}
	return ids
}
