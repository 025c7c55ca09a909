// Package turso implements the pipeline's record source over a hosted
// libsql database.
package turso

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/replywatch/replywatch/internal/detailedstats"
	"github.com/replywatch/replywatch/internal/domain"
	"github.com/replywatch/replywatch/internal/infrastructure/database"
	"github.com/replywatch/replywatch/internal/util"
)

// streamRetries is how many times a read is retried on Turso stream errors
// before the failure propagates to the pipeline.
const streamRetries = 2

const comparisonColumns = "thread_id, ticket_id, agent_id, created_at, human_reply_date, category, prompt_version, classification, human_reply_text, ai_approved"

// RecordStore reads comparison records and dialog events from the remote
// store. It owns no schema: the tables belong to the surrounding product and
// are read-only from here.
type RecordStore struct {
	db *sql.DB
	// serviceAgentID, when set, is excluded from every comparison query so
	// system-generated replies never skew the statistics.
	serviceAgentID string
}

// NewRecordStore creates a record store over the given connection.
func NewRecordStore(db *sql.DB, serviceAgentID string) *RecordStore {
	return &RecordStore{db: db, serviceAgentID: serviceAgentID}
}

// CountComparisons returns the exact number of comparison records matching
// the filter.
func (s *RecordStore) CountComparisons(ctx context.Context, f detailedstats.Filter) (int64, error) {
	where, args := s.comparisonWhere(f)
	count, err := database.WithRetry(ctx, streamRetries, func() (int64, error) {
		var n int64
		err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM reply_comparisons"+where, args...).Scan(&n)
		return n, err
	})
	if err != nil {
		return 0, fmt.Errorf("failed to count comparisons: %w", err)
	}
	return count, nil
}

// ListComparisons returns one page of matching comparison records. The limit
// is clamped to the store's page size ceiling.
func (s *RecordStore) ListComparisons(ctx context.Context, f detailedstats.Filter, offset, limit int) ([]domain.ComparisonRecord, error) {
	if limit <= 0 || limit > detailedstats.MaxPageSize {
		limit = detailedstats.MaxPageSize
	}
	where, args := s.comparisonWhere(f)
	query := "SELECT " + comparisonColumns + " FROM reply_comparisons" + where +
		" ORDER BY created_at, thread_id LIMIT ? OFFSET ?"
	args = append(args, limit, offset)

	records, err := database.WithRetry(ctx, streamRetries, func() ([]domain.ComparisonRecord, error) {
		rows, err := s.db.QueryContext(ctx, query, args...)
		if err != nil {
			return nil, err
		}
		defer rows.Close()

		var records []domain.ComparisonRecord
		for rows.Next() {
			rec, err := scanComparison(rows)
			if err != nil {
				return nil, err
			}
			records = append(records, rec)
		}
		return records, rows.Err()
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list comparisons: %w", err)
	}
	return records, nil
}

// ListDialogEvents returns all dialog events for the given tickets, ordered
// by timestamp ascending.
func (s *RecordStore) ListDialogEvents(ctx context.Context, ticketIDs []string) ([]domain.DialogEvent, error) {
	if len(ticketIDs) == 0 {
		return nil, nil
	}
	args := make([]any, len(ticketIDs))
	for i, id := range ticketIDs {
		args[i] = id
	}
	query := "SELECT ticket_id, direction, created_at FROM dialog_messages WHERE ticket_id IN (" +
		placeholders(len(ticketIDs)) + ") ORDER BY created_at"

	events, err := database.WithRetry(ctx, streamRetries, func() ([]domain.DialogEvent, error) {
		rows, err := s.db.QueryContext(ctx, query, args...)
		if err != nil {
			return nil, err
		}
		defer rows.Close()

		var events []domain.DialogEvent
		for rows.Next() {
			var ev domain.DialogEvent
			var direction, createdAt string
			if err := rows.Scan(&ev.TicketID, &direction, &createdAt); err != nil {
				return nil, err
			}
			ev.Direction = domain.DialogDirection(direction)
			ev.Timestamp = util.ParseTimeSQLite(createdAt)
			events = append(events, ev)
		}
		return events, rows.Err()
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list dialog events: %w", err)
	}
	return events, nil
}

// comparisonWhere builds the WHERE clause for the filter: half-open date
// range on the selected date column, inclusion lists, and the service-agent
// exclusion.
func (s *RecordStore) comparisonWhere(f detailedstats.Filter) (string, []any) {
	var conds []string
	var args []any

	dateCol := "created_at"
	if f.DateField == detailedstats.DateFieldHumanReply {
		// Nothing to range-filter on without a human reply.
		dateCol = "human_reply_date"
		conds = append(conds, "human_reply_date IS NOT NULL")
	}
	if !f.From.IsZero() {
		conds = append(conds, dateCol+" >= ?")
		args = append(args, f.From.UTC().Format(time.RFC3339))
	}
	if !f.To.IsZero() {
		conds = append(conds, dateCol+" < ?")
		args = append(args, f.To.UTC().Format(time.RFC3339))
	}

	conds, args = appendInList(conds, args, "prompt_version", f.Versions)
	conds, args = appendInList(conds, args, "category", f.Categories)
	conds, args = appendInList(conds, args, "agent_id", f.Agents)
	conds, args = appendInList(conds, args, "thread_id", f.ThreadIDs)

	if s.serviceAgentID != "" {
		conds = append(conds, "(agent_id IS NULL OR agent_id != ?)")
		args = append(args, s.serviceAgentID)
	}

	if len(conds) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}

func appendInList(conds []string, args []any, column string, values []string) ([]string, []any) {
	if len(values) == 0 {
		return conds, args
	}
	conds = append(conds, column+" IN ("+placeholders(len(values))+")")
	for _, v := range values {
		args = append(args, v)
	}
	return conds, args
}

func placeholders(n int) string {
	return strings.TrimSuffix(strings.Repeat("?,", n), ",")
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanComparison(row rowScanner) (domain.ComparisonRecord, error) {
	var rec domain.ComparisonRecord
	var (
		ticketID       sql.NullString
		agentID        sql.NullString
		createdAt      string
		humanReplyDate sql.NullString
		category       sql.NullString
		promptVersion  sql.NullString
		classification sql.NullString
		humanReplyText sql.NullString
		aiApproved     sql.NullInt64
	)

	err := row.Scan(&rec.ThreadID, &ticketID, &agentID, &createdAt, &humanReplyDate,
		&category, &promptVersion, &classification, &humanReplyText, &aiApproved)
	if err != nil {
		return rec, err
	}

	rec.TicketID = util.NullStringToPtr(ticketID)
	rec.AgentID = util.NullStringToPtr(agentID)
	rec.CreatedAt = util.ParseTimeSQLite(createdAt)
	rec.Category = util.NullStringToPtr(category)
	rec.PromptVersion = util.NullStringToPtr(promptVersion)
	rec.Classification = util.NullStringToPtr(classification)
	rec.HumanReplyText = util.NullStringToPtr(humanReplyText)
	if humanReplyDate.Valid {
		t := util.ParseTimeSQLite(humanReplyDate.String)
		rec.HumanReplyDate = &t
	}
	if aiApproved.Valid {
		b := aiApproved.Int64 != 0
		rec.AIApproved = &b
	}
	return rec, nil
}
