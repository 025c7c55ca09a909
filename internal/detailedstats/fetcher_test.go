package detailedstats

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/replywatch/replywatch/internal/domain"
)

func TestFetchAll_ZeroTotalIssuesNoReads(t *testing.T) {
	calls := 0
	src := &mockSource{
		ListComparisonsFunc: func(ctx context.Context, f Filter, offset, limit int) ([]domain.ComparisonRecord, error) {
			calls++
			return nil, nil
		},
	}

	recs, err := newTestService(src).fetchAll(context.Background(), Filter{}, 0)
	if err != nil {
		t.Fatalf("fetchAll() error: %v", err)
	}
	if len(recs) != 0 {
		t.Errorf("fetchAll() returned %d records, want 0", len(recs))
	}
	if calls != 0 {
		t.Errorf("fetchAll() issued %d page reads, want 0", calls)
	}
}

func TestFetchAll_PaginatesAndPreservesPageOrder(t *testing.T) {
	var mu sync.Mutex
	var offsets []int

	src := &mockSource{
		ListComparisonsFunc: func(ctx context.Context, f Filter, offset, limit int) ([]domain.ComparisonRecord, error) {
			mu.Lock()
			offsets = append(offsets, offset)
			mu.Unlock()

			if limit != MaxPageSize {
				t.Errorf("limit = %d, want %d", limit, MaxPageSize)
			}
			// One marker record per page, tagged with its offset.
			return []domain.ComparisonRecord{{ThreadID: fmt.Sprintf("page-%d", offset/MaxPageSize)}}, nil
		},
	}

	// 2500 records -> 3 pages.
	recs, err := newTestService(src).fetchAll(context.Background(), Filter{}, 2500)
	if err != nil {
		t.Fatalf("fetchAll() error: %v", err)
	}
	if len(offsets) != 3 {
		t.Fatalf("fetchAll() issued %d page reads, want 3", len(offsets))
	}

	seen := make(map[int]bool)
	for _, off := range offsets {
		seen[off] = true
	}
	for _, want := range []int{0, 1000, 2000} {
		if !seen[want] {
			t.Errorf("missing page read at offset %d (got %v)", want, offsets)
		}
	}

	// Concatenation follows page order regardless of arrival order.
	for i, rec := range recs {
		if want := fmt.Sprintf("page-%d", i); rec.ThreadID != want {
			t.Errorf("record %d from %q, want %q", i, rec.ThreadID, want)
		}
	}
}

func TestFetchAll_BoundsConcurrency(t *testing.T) {
	var inFlight, peak atomic.Int32

	src := &mockSource{
		ListComparisonsFunc: func(ctx context.Context, f Filter, offset, limit int) ([]domain.ComparisonRecord, error) {
			n := inFlight.Add(1)
			for {
				p := peak.Load()
				if n <= p || peak.CompareAndSwap(p, n) {
					break
				}
			}
			defer inFlight.Add(-1)
			return nil, nil
		},
	}

	// 10 pages.
	if _, err := newTestService(src).fetchAll(context.Background(), Filter{}, 10*MaxPageSize); err != nil {
		t.Fatalf("fetchAll() error: %v", err)
	}
	if p := peak.Load(); p > fetchGroupSize {
		t.Errorf("peak concurrent page reads = %d, want <= %d", p, fetchGroupSize)
	}
}

func TestFetchAll_FailedPageAbortsWholeFetch(t *testing.T) {
	boom := errors.New("boom")
	src := &mockSource{
		ListComparisonsFunc: func(ctx context.Context, f Filter, offset, limit int) ([]domain.ComparisonRecord, error) {
			if offset == 1000 {
				return nil, boom
			}
			return []domain.ComparisonRecord{{ThreadID: "x"}}, nil
		},
	}

	_, err := newTestService(src).fetchAll(context.Background(), Filter{}, 2500)
	if err == nil {
		t.Fatal("fetchAll() expected error")
	}
	var pageErr *PageError
	if !errors.As(err, &pageErr) {
		t.Fatalf("fetchAll() error = %v, want *PageError", err)
	}
	if pageErr.Page != 1 {
		t.Errorf("PageError.Page = %d, want 1", pageErr.Page)
	}
	if !errors.Is(err, boom) {
		t.Errorf("PageError does not wrap the underlying error")
	}
}

func TestSplitThreadFilter(t *testing.T) {
	small := make([]string, maxThreadIDsInQuery)
	for i := range small {
		small[i] = fmt.Sprintf("t%d", i)
	}
	f, allow := splitThreadFilter(Filter{ThreadIDs: small})
	if allow != nil {
		t.Errorf("small allow-list should stay in the query predicate")
	}
	if len(f.ThreadIDs) != maxThreadIDsInQuery {
		t.Errorf("query filter lost thread IDs")
	}

	big := append(small, "t-extra")
	f, allow = splitThreadFilter(Filter{ThreadIDs: big})
	if f.ThreadIDs != nil {
		t.Errorf("oversized allow-list must not reach the query predicate")
	}
	if len(allow) != len(big) {
		t.Errorf("client-side allow-list has %d entries, want %d", len(allow), len(big))
	}

	records := []domain.ComparisonRecord{{ThreadID: "t1"}, {ThreadID: "nope"}, {ThreadID: "t-extra"}}
	kept := filterThreads(records, allow)
	if len(kept) != 2 {
		t.Fatalf("filterThreads() kept %d records, want 2", len(kept))
	}
	if kept[0].ThreadID != "t1" || kept[1].ThreadID != "t-extra" {
		t.Errorf("filterThreads() kept wrong records: %v", kept)
	}
}
