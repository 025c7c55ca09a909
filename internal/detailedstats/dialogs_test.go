package detailedstats

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/replywatch/replywatch/internal/domain"
)

func at(minute int) time.Time {
	return time.Date(2025, 6, 16, 10, minute, 0, 0, time.UTC)
}

func TestDetectPatterns_Scenarios(t *testing.T) {
	tests := []struct {
		name              string
		events            []domain.DialogEvent
		wantSecondRequest bool
		wantNotResponded  bool
	}{
		{
			name: "second in before any out, answered at the end",
			events: []domain.DialogEvent{
				{TicketID: "T1", Direction: domain.DirectionIn, Timestamp: at(1)},
				{TicketID: "T1", Direction: domain.DirectionIn, Timestamp: at(2)},
				{TicketID: "T1", Direction: domain.DirectionOut, Timestamp: at(3)},
			},
			wantSecondRequest: true,
			wantNotResponded:  false,
		},
		{
			name: "single unanswered inbound",
			events: []domain.DialogEvent{
				{TicketID: "T1", Direction: domain.DirectionIn, Timestamp: at(1)},
			},
			wantSecondRequest: false,
			wantNotResponded:  true,
		},
		{
			name: "answered then a new unanswered inbound",
			events: []domain.DialogEvent{
				{TicketID: "T1", Direction: domain.DirectionIn, Timestamp: at(1)},
				{TicketID: "T1", Direction: domain.DirectionOut, Timestamp: at(2)},
				{TicketID: "T1", Direction: domain.DirectionIn, Timestamp: at(3)},
			},
			wantSecondRequest: false,
			wantNotResponded:  true,
		},
		{
			name: "out-of-order input is sorted before scanning",
			events: []domain.DialogEvent{
				{TicketID: "T1", Direction: domain.DirectionOut, Timestamp: at(3)},
				{TicketID: "T1", Direction: domain.DirectionIn, Timestamp: at(2)},
				{TicketID: "T1", Direction: domain.DirectionIn, Timestamp: at(1)},
			},
			wantSecondRequest: true,
			wantNotResponded:  false,
		},
		{
			name: "only outbound",
			events: []domain.DialogEvent{
				{TicketID: "T1", Direction: domain.DirectionOut, Timestamp: at(1)},
			},
			wantSecondRequest: false,
			wantNotResponded:  false,
		},
		{
			name: "three inbound mark second-request once and stay unanswered",
			events: []domain.DialogEvent{
				{TicketID: "T1", Direction: domain.DirectionIn, Timestamp: at(1)},
				{TicketID: "T1", Direction: domain.DirectionIn, Timestamp: at(2)},
				{TicketID: "T1", Direction: domain.DirectionIn, Timestamp: at(3)},
			},
			wantSecondRequest: true,
			wantNotResponded:  true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			src := &mockSource{
				ListDialogEventsFunc: func(ctx context.Context, ticketIDs []string) ([]domain.DialogEvent, error) {
					return tt.events, nil
				},
			}
			patterns := newTestService(src).detectPatterns(context.Background(), []string{"T1"})

			_, second := patterns.SecondRequest["T1"]
			if second != tt.wantSecondRequest {
				t.Errorf("secondRequest = %v, want %v", second, tt.wantSecondRequest)
			}
			_, notResp := patterns.NotResponded["T1"]
			if notResp != tt.wantNotResponded {
				t.Errorf("notResponded = %v, want %v", notResp, tt.wantNotResponded)
			}
		})
	}
}

func TestDetectPatterns_EmptyInputMakesNoCalls(t *testing.T) {
	calls := 0
	src := &mockSource{
		ListDialogEventsFunc: func(ctx context.Context, ticketIDs []string) ([]domain.DialogEvent, error) {
			calls++
			return nil, nil
		},
	}

	patterns := newTestService(src).detectPatterns(context.Background(), nil)
	if calls != 0 {
		t.Errorf("detectPatterns() issued %d reads for empty input, want 0", calls)
	}
	if len(patterns.SecondRequest) != 0 || len(patterns.NotResponded) != 0 {
		t.Errorf("detectPatterns() on empty input = %v, want empty sets", patterns)
	}
}

func TestDetectPatterns_DeduplicatesAndBatches(t *testing.T) {
	var mu sync.Mutex
	var batchSizes []int
	total := 0

	src := &mockSource{
		ListDialogEventsFunc: func(ctx context.Context, ticketIDs []string) ([]domain.DialogEvent, error) {
			mu.Lock()
			defer mu.Unlock()
			batchSizes = append(batchSizes, len(ticketIDs))
			total += len(ticketIDs)
			return nil, nil
		},
	}

	// 700 unique IDs, each duplicated -> 3 batches of 300/300/100.
	ids := make([]string, 0, 1400)
	for i := 0; i < 700; i++ {
		id := fmt.Sprintf("T%d", i)
		ids = append(ids, id, id)
	}

	newTestService(src).detectPatterns(context.Background(), ids)

	if total != 700 {
		t.Errorf("fetched %d IDs total, want 700 after dedup", total)
	}
	if len(batchSizes) != 3 {
		t.Fatalf("issued %d sub-batches, want 3 (sizes %v)", len(batchSizes), batchSizes)
	}
	for _, size := range batchSizes {
		if size > dialogBatchSize {
			t.Errorf("sub-batch of %d IDs exceeds limit %d", size, dialogBatchSize)
		}
	}
}

func TestDetectPatterns_FailedBatchDegradesGracefully(t *testing.T) {
	src := &mockSource{
		ListDialogEventsFunc: func(ctx context.Context, ticketIDs []string) ([]domain.DialogEvent, error) {
			for _, id := range ticketIDs {
				if id == "T-bad" {
					return nil, errors.New("rate limited")
				}
			}
			return []domain.DialogEvent{
				{TicketID: ticketIDs[0], Direction: domain.DirectionIn, Timestamp: at(1)},
			}, nil
		},
	}

	// Two batches: the first 300 IDs (containing T-bad) fail, the rest succeed.
	ids := []string{"T-bad"}
	for i := 1; i < 301; i++ {
		ids = append(ids, fmt.Sprintf("T%d", i))
	}

	log := &spyLogger{}
	svc := NewService(src, log, Options{DialogBatchPause: -1})
	patterns := svc.detectPatterns(context.Background(), ids)

	if len(log.errors) != 1 {
		t.Errorf("expected one logged sub-batch failure, got %v", log.errors)
	}
	// The surviving batch still contributes its pattern.
	if _, ok := patterns.NotResponded["T300"]; !ok {
		t.Errorf("surviving sub-batch did not contribute patterns: %v", patterns.NotResponded)
	}
}

func TestChunk(t *testing.T) {
	got := chunk([]string{"a", "b", "c", "d", "e"}, 2)
	if len(got) != 3 || len(got[0]) != 2 || len(got[2]) != 1 {
		t.Errorf("chunk() = %v, want [[a b] [c d] [e]]", got)
	}
	if got := chunk(nil, 2); got != nil {
		t.Errorf("chunk(nil) = %v, want nil", got)
	}
}
