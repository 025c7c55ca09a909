package domain

import (
	"fmt"
	"strings"
	"time"
)

// DateLayout is the display format for week range labels.
const DateLayout = "02.01.2006"

// weekLabelSeparator joins the start and end dates of a week label.
const weekLabelSeparator = " — "

// WeekStart returns Monday 00:00 of the week containing t, in t's location.
func WeekStart(t time.Time) time.Time {
	weekday := int(t.Weekday())
	if weekday == 0 {
		weekday = 7
	}
	return time.Date(t.Year(), t.Month(), t.Day()-weekday+1, 0, 0, 0, 0, t.Location())
}

// WeekLabel renders a week as "DD.MM.YYYY — DD.MM.YYYY" (Monday through
// Sunday of the week starting at start).
func WeekLabel(start time.Time) string {
	end := start.AddDate(0, 0, 6)
	return fmt.Sprintf("%s%s%s", start.Format(DateLayout), weekLabelSeparator, end.Format(DateLayout))
}

// ParseWeekLabelStart extracts the first date of a week label. Sorting week
// rows parses the label instead of carrying a separate timestamp, matching
// what the display layer receives.
func ParseWeekLabelStart(label string) (time.Time, error) {
	first, _, ok := strings.Cut(label, weekLabelSeparator)
	if !ok {
		first = label
	}
	t, err := time.Parse(DateLayout, strings.TrimSpace(first))
	if err != nil {
		return time.Time{}, fmt.Errorf("parsing week label %q: %w", label, err)
	}
	return t, nil
}
