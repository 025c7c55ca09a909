package detailedstats

import (
	"regexp"
	"sort"
	"strconv"
	"time"

	"github.com/replywatch/replywatch/internal/domain"
)

var versionNumberRe = regexp.MustCompile(`\d+`)

// versionRank extracts the first embedded integer of a version string.
// Non-numeric versions rank as 0 and therefore sort last among versions.
func versionRank(version string) int {
	m := versionNumberRe.FindString(version)
	if m == "" {
		return 0
	}
	n, err := strconv.Atoi(m)
	if err != nil {
		return 0
	}
	return n
}

// sortRows imposes the report's deterministic display order: category
// ascending, version descending by embedded number (newest first), the
// version summary before its week children, and week rows most recent first.
// The order is independent of how batches arrived from the store.
func sortRows(rows []domain.DetailedStatsRow) {
	sort.SliceStable(rows, func(i, j int) bool {
		a, b := &rows[i], &rows[j]

		if a.Category != b.Category {
			return a.Category < b.Category
		}
		ra, rb := versionRank(a.Version), versionRank(b.Version)
		if ra != rb {
			return ra > rb
		}
		if a.Version != b.Version {
			return a.Version > b.Version
		}
		if a.SortOrder != b.SortOrder {
			return a.SortOrder < b.SortOrder
		}
		return weekStartOf(a).After(weekStartOf(b))
	})
}

func weekStartOf(row *domain.DetailedStatsRow) time.Time {
	if row.Dates == nil {
		return time.Time{}
	}
	start, err := domain.ParseWeekLabelStart(*row.Dates)
	if err != nil {
		return time.Time{}
	}
	return start
}
