package detailedstats

import (
	"context"

	"github.com/replywatch/replywatch/internal/domain"
)

// mockSource is a RecordSource for tests, in the Func-field style.
type mockSource struct {
	CountComparisonsFunc func(ctx context.Context, f Filter) (int64, error)
	ListComparisonsFunc  func(ctx context.Context, f Filter, offset, limit int) ([]domain.ComparisonRecord, error)
	ListDialogEventsFunc func(ctx context.Context, ticketIDs []string) ([]domain.DialogEvent, error)
}

func (m *mockSource) CountComparisons(ctx context.Context, f Filter) (int64, error) {
	if m.CountComparisonsFunc != nil {
		return m.CountComparisonsFunc(ctx, f)
	}
	return 0, nil
}

func (m *mockSource) ListComparisons(ctx context.Context, f Filter, offset, limit int) ([]domain.ComparisonRecord, error) {
	if m.ListComparisonsFunc != nil {
		return m.ListComparisonsFunc(ctx, f, offset, limit)
	}
	return nil, nil
}

func (m *mockSource) ListDialogEvents(ctx context.Context, ticketIDs []string) ([]domain.DialogEvent, error) {
	if m.ListDialogEventsFunc != nil {
		return m.ListDialogEventsFunc(ctx, ticketIDs)
	}
	return nil, nil
}

// spyLogger records error lines for assertions.
type spyLogger struct {
	debugs []string
	errors []string
}

func (l *spyLogger) Debug(msg string) { l.debugs = append(l.debugs, msg) }
func (l *spyLogger) Error(msg string) { l.errors = append(l.errors, msg) }

func newTestService(src RecordSource) *Service {
	return NewService(src, &spyLogger{}, Options{DialogBatchPause: -1})
}
