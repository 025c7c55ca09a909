package domain

import "time"

// ComparisonRecord is one evaluated AI-vs-human reply pair, as stored in the
// reply_comparisons table. It is a read-only snapshot; the pipeline never
// mutates it.
type ComparisonRecord struct {
	ThreadID       string
	TicketID       *string
	AgentID        *string
	CreatedAt      time.Time
	HumanReplyDate *time.Time
	Category       *string
	PromptVersion  *string
	Classification *string
	HumanReplyText *string
	AIApproved     *bool
}

// Approved reports whether a human explicitly signed off on the AI reply.
func (r *ComparisonRecord) Approved() bool {
	return r.AIApproved != nil && *r.AIApproved
}

// DialogDirection distinguishes inbound customer messages from outbound
// agent replies.
type DialogDirection string

const (
	DirectionIn  DialogDirection = "in"
	DirectionOut DialogDirection = "out"
)

// DialogEvent is one inbound or outbound message tied to a ticket.
type DialogEvent struct {
	TicketID  string
	Direction DialogDirection
	Timestamp time.Time
}

// DialogPatterns holds the ticket sets produced by dialog pattern detection.
type DialogPatterns struct {
	// SecondRequest contains tickets where the customer sent a second
	// message before the agent answered the first.
	SecondRequest map[string]struct{}
	// NotResponded contains tickets whose most recent inbound message was
	// never followed by an outbound one.
	NotResponded map[string]struct{}
}

// NewDialogPatterns returns an empty pattern set.
func NewDialogPatterns() DialogPatterns {
	return DialogPatterns{
		SecondRequest: make(map[string]struct{}),
		NotResponded:  make(map[string]struct{}),
	}
}
