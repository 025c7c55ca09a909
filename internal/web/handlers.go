package web

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/replywatch/replywatch/internal/detailedstats"
)

// handleDetailedStats runs the pipeline for the query's filter and returns
// the single-page report envelope.
func (s *Server) handleDetailedStats(w http.ResponseWriter, r *http.Request) {
	filter, err := parseFilter(r.URL.Query())
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	res, err := s.stats.DetailedStats(r.Context(), filter)
	if err != nil {
		s.log.Error(fmt.Sprintf("detailed stats failed: %v", err))
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(res)
}

// parseFilter maps query parameters onto a pipeline filter. from/to accept
// RFC3339 or plain dates; list parameters repeat (?version=v1&version=v2).
func parseFilter(q url.Values) (detailedstats.Filter, error) {
	var f detailedstats.Filter

	from, err := parseDate(q.Get("from"))
	if err != nil {
		return f, fmt.Errorf("invalid from: %w", err)
	}
	if from.IsZero() {
		return f, fmt.Errorf("from is required")
	}
	to, err := parseDate(q.Get("to"))
	if err != nil {
		return f, fmt.Errorf("invalid to: %w", err)
	}
	if to.IsZero() {
		return f, fmt.Errorf("to is required")
	}

	f.From = from
	f.To = to
	f.Versions = q["version"]
	f.Categories = q["category"]
	f.Agents = q["agent"]
	f.ThreadIDs = q["thread_id"]

	switch mode := q.Get("date_field"); mode {
	case "", string(detailedstats.DateFieldCreated):
		f.DateField = detailedstats.DateFieldCreated
	case string(detailedstats.DateFieldHumanReply):
		f.DateField = detailedstats.DateFieldHumanReply
	default:
		return f, fmt.Errorf("invalid date_field %q", mode)
	}

	if v := q.Get("merge_multi_categories"); v != "" {
		merge, err := strconv.ParseBool(v)
		if err != nil {
			return f, fmt.Errorf("invalid merge_multi_categories: %w", err)
		}
		f.MergeMultiCategories = merge
	}

	return f, nil
}

func parseDate(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return time.Time{}, fmt.Errorf("expected RFC3339 or YYYY-MM-DD, got %q", s)
	}
	return t, nil
}
