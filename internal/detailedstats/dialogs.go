package detailedstats

import (
	"context"
	"fmt"
	"sort"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/replywatch/replywatch/internal/domain"
)

const (
	// dialogBatchSize is how many ticket IDs go into one dialog read.
	dialogBatchSize = 300

	// dialogGroupSize bounds concurrent dialog reads, mirroring the
	// comparison fetcher's group size.
	dialogGroupSize = 3
)

// detectPatterns classifies each ticket as second-request and/or
// not-responded by scanning its dialog events in chronological order.
//
// Pattern detection is an enrichment, not core data: a failed sub-batch is
// logged and contributes nothing, rather than aborting the report the way a
// failed comparison page does.
func (s *Service) detectPatterns(ctx context.Context, ticketIDs []string) domain.DialogPatterns {
	patterns := domain.NewDialogPatterns()

	ids := dedupe(ticketIDs)
	if len(ids) == 0 {
		return patterns
	}

	batches := chunk(ids, dialogBatchSize)
	events := make([][]domain.DialogEvent, len(batches))

	for start := 0; start < len(batches); start += dialogGroupSize {
		// A short pause between groups keeps the store's rate limiter
		// out of the picture on large ticket sets.
		if start > 0 && s.dialogPause > 0 {
			select {
			case <-ctx.Done():
				s.log.Error(fmt.Sprintf("dialog pattern detection cancelled: %v", ctx.Err()))
				return patterns
			case <-time.After(s.dialogPause):
			}
		}

		end := min(start+dialogGroupSize, len(batches))
		var g errgroup.Group
		for i := start; i < end; i++ {
			g.Go(func() error {
				evs, err := s.source.ListDialogEvents(ctx, batches[i])
				if err != nil {
					s.log.Error(fmt.Sprintf("dialog batch %d of %d failed, skipping: %v", i+1, len(batches), err))
					s.metrics.DialogBatchFailed(ctx)
					return nil
				}
				events[i] = evs
				return nil
			})
		}
		_ = g.Wait()
	}

	byTicket := make(map[string][]domain.DialogEvent)
	for _, batch := range events {
		for _, ev := range batch {
			byTicket[ev.TicketID] = append(byTicket[ev.TicketID], ev)
		}
	}

	for ticketID, evs := range byTicket {
		scanTicket(ticketID, evs, &patterns)
	}
	return patterns
}

// scanTicket runs the waiting-state scan over one ticket's events.
// An inbound message while a previous inbound is still unanswered marks the
// ticket second-request; an unanswered inbound at the end of the history
// marks it not-responded.
func scanTicket(ticketID string, events []domain.DialogEvent, patterns *domain.DialogPatterns) {
	sort.SliceStable(events, func(i, j int) bool {
		return events[i].Timestamp.Before(events[j].Timestamp)
	})

	var lastIncoming *domain.DialogEvent
	sawSecondRequest := false

	for i := range events {
		ev := &events[i]
		switch ev.Direction {
		case domain.DirectionIn:
			if lastIncoming != nil && !sawSecondRequest {
				patterns.SecondRequest[ticketID] = struct{}{}
				sawSecondRequest = true
			}
			lastIncoming = ev
		case domain.DirectionOut:
			lastIncoming = nil
		}
	}

	if lastIncoming != nil {
		patterns.NotResponded[ticketID] = struct{}{}
	}
}

// dedupe returns the unique IDs in first-seen order.
func dedupe(ids []string) []string {
	seen := make(map[string]struct{}, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if id == "" {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}

// chunk splits ids into slices of at most size elements.
func chunk(ids []string, size int) [][]string {
	var out [][]string
	for len(ids) > size {
		out = append(out, ids[:size])
		ids = ids[size:]
	}
	if len(ids) > 0 {
		out = append(out, ids)
	}
	return out
}
