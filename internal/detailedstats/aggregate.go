package detailedstats

import (
	"strings"
	"time"

	"github.com/replywatch/replywatch/internal/domain"
)

// multiCategoryDelimiters are the characters that mark a record as belonging
// to more than one category.
const multiCategoryDelimiters = ",;"

type groupKey struct {
	category string
	version  string
}

// aggregate groups records by (category, version) and then by calendar week,
// emitting one summary row per group at each level. It is a pure function of
// its inputs; ordering is imposed by a separate sorting pass.
func aggregate(records []domain.ComparisonRecord, patterns domain.DialogPatterns, dateField DateField, mergeMulti bool, now time.Time) []domain.DetailedStatsRow {
	if len(records) == 0 {
		return []domain.DetailedStatsRow{}
	}

	groups := make(map[groupKey][]domain.ComparisonRecord)
	for _, rec := range records {
		key := groupKey{
			category: normalizeCategory(rec.Category, mergeMulti),
			version:  normalizeGroupValue(rec.PromptVersion),
		}
		groups[key] = append(groups[key], rec)
	}

	rows := make([]domain.DetailedStatsRow, 0, len(groups)*2)
	for key, recs := range groups {
		rows = append(rows, buildRow(key, nil, domain.SortOrderVersion, recs, patterns))

		weeks := make(map[time.Time][]domain.ComparisonRecord)
		for _, rec := range recs {
			start := domain.WeekStart(relevantDate(&rec, dateField, now))
			weeks[start] = append(weeks[start], rec)
		}
		for start, weekRecs := range weeks {
			label := domain.WeekLabel(start)
			rows = append(rows, buildRow(key, &label, domain.SortOrderWeek, weekRecs, patterns))
		}
	}
	return rows
}

// relevantDate picks the record timestamp that drives week bucketing. A null
// human-reply date falls back to now rather than dropping the record.
func relevantDate(rec *domain.ComparisonRecord, dateField DateField, now time.Time) time.Time {
	if dateField == DateFieldHumanReply {
		if rec.HumanReplyDate != nil {
			return *rec.HumanReplyDate
		}
		return now
	}
	if rec.CreatedAt.IsZero() {
		return now
	}
	return rec.CreatedAt
}

func normalizeCategory(category *string, mergeMulti bool) string {
	if category == nil || *category == "" {
		return domain.UnknownGroup
	}
	if mergeMulti && strings.ContainsAny(*category, multiCategoryDelimiters) {
		return domain.MultiCategoryGroup
	}
	return *category
}

func normalizeGroupValue(v *string) string {
	if v == nil || *v == "" {
		return domain.UnknownGroup
	}
	return *v
}

// buildRow computes every counter for one group of records.
func buildRow(key groupKey, dates *string, sortOrder int, recs []domain.ComparisonRecord, patterns domain.DialogPatterns) domain.DetailedStatsRow {
	row := domain.DetailedStatsRow{
		Category:     key.category,
		Version:      key.version,
		Dates:        dates,
		SortOrder:    sortOrder,
		TotalRecords: len(recs),
	}

	legacyTallies := make(map[domain.LegacyClass]int)
	newTallies := make(map[domain.NewClass]int)

	for i := range recs {
		rec := &recs[i]
		class := domain.ParseClassification(rec.Classification)

		if domain.IsReviewed(rec) {
			row.ReviewedRecords++
		}
		if domain.IsError(rec) {
			row.AIErrors++
		}
		if domain.IsQuality(rec) {
			row.AIQuality++
		}
		if rec.HumanReplyText == nil {
			row.NotResponded++
		}
		if rec.TicketID != nil {
			if _, ok := patterns.SecondRequest[*rec.TicketID]; ok {
				row.SecondRequest++
			}
		}

		if rec.Approved() {
			// Approval takes the record out of taxonomy counting
			// entirely, even when a token is present.
			row.AIApprovedCount++
			continue
		}
		if !class.IsKnown() {
			row.Unclassified++
			continue
		}
		if col, ok := class.LegacyDisplay(); ok {
			legacyTallies[col]++
		}
		if col, ok := class.NewDisplay(); ok {
			newTallies[col]++
		}
	}

	row.CriticalErrors = legacyTallies[domain.LegacyCriticalError]
	row.MeaningfulImprovements = legacyTallies[domain.LegacyMeaningfulImprovement]
	row.StylisticPreferences = legacyTallies[domain.LegacyStylisticPreference]
	row.NoSignificantChanges = legacyTallies[domain.LegacyNoSignificantChange]
	row.ContextShifts = legacyTallies[domain.LegacyContextShift]

	row.CriticalFactErrors = newTallies[domain.NewCriticalFactError]
	row.MajorFunctionalOmissions = newTallies[domain.NewMajorFunctionalOmission]
	row.MinorInfoGaps = newTallies[domain.NewMinorInfoGap]
	row.ConfusingVerbosity = newTallies[domain.NewConfusingVerbosity]
	row.TonalMisalignments = newTallies[domain.NewTonalMisalignment]
	row.StructuralFixes = newTallies[domain.NewStructuralFix]
	row.StylisticEdits = newTallies[domain.NewStylisticEdit]
	row.PerfectMatches = newTallies[domain.NewPerfectMatch]
	row.WorkflowShifts = newTallies[domain.NewExclWorkflowShift]
	row.DataDiscrepancies = newTallies[domain.NewExclDataDiscrepancy]

	return row
}
