package detailedstats

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/replywatch/replywatch/internal/domain"
)

const (
	// fetchGroupSize bounds how many pages are requested concurrently.
	// Groups are awaited to completion before the next group starts, so at
	// most this many reads are in flight against the store at once.
	fetchGroupSize = 3

	// maxThreadIDsInQuery is the largest thread-ID allow-list pushed into
	// the remote predicate. Longer lists are applied client-side instead,
	// to keep query predicates bounded.
	maxThreadIDsInQuery = 100
)

// PageError reports which page of a batch fetch failed. A single failed page
// aborts the whole fetch: partial comparison data would silently skew every
// aggregate downstream.
type PageError struct {
	Page int
	Err  error
}

func (e *PageError) Error() string {
	return fmt.Sprintf("fetching comparison page %d: %v", e.Page, e.Err)
}

func (e *PageError) Unwrap() error { return e.Err }

// fetchAll pulls every comparison record matching the filter, in pages of
// MaxPageSize issued fetchGroupSize at a time. Each page writes to its own
// slot of the result slice, so no locking is needed. A zero total issues no
// reads at all.
func (s *Service) fetchAll(ctx context.Context, f Filter, total int64) ([]domain.ComparisonRecord, error) {
	if total == 0 {
		return nil, nil
	}

	pages := int((total + MaxPageSize - 1) / MaxPageSize)
	results := make([][]domain.ComparisonRecord, pages)

	for start := 0; start < pages; start += fetchGroupSize {
		end := min(start+fetchGroupSize, pages)
		g, gctx := errgroup.WithContext(ctx)
		for page := start; page < end; page++ {
			g.Go(func() error {
				recs, err := s.source.ListComparisons(gctx, f, page*MaxPageSize, MaxPageSize)
				if err != nil {
					return &PageError{Page: page, Err: err}
				}
				results[page] = recs
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			return nil, err
		}
	}

	all := make([]domain.ComparisonRecord, 0, total)
	for _, page := range results {
		all = append(all, page...)
	}
	s.metrics.ComparisonPagesFetched(ctx, pages)
	s.metrics.ComparisonRecordsFetched(ctx, len(all))
	return all, nil
}

// splitThreadFilter decides whether the thread-ID allow-list travels with
// the remote predicate or is applied here after fetching. Returns the filter
// to query with and the client-side allow-list, if any.
func splitThreadFilter(f Filter) (Filter, map[string]struct{}) {
	if len(f.ThreadIDs) <= maxThreadIDsInQuery {
		return f, nil
	}
	allow := make(map[string]struct{}, len(f.ThreadIDs))
	for _, id := range f.ThreadIDs {
		allow[id] = struct{}{}
	}
	f.ThreadIDs = nil
	return f, allow
}

// filterThreads keeps only records whose thread is in the allow-list.
func filterThreads(records []domain.ComparisonRecord, allow map[string]struct{}) []domain.ComparisonRecord {
	if allow == nil {
		return records
	}
	kept := records[:0]
	for _, rec := range records {
		if _, ok := allow[rec.ThreadID]; ok {
			kept = append(kept, rec)
		}
	}
	return kept
}
