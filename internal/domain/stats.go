package domain

// Sort orders for DetailedStatsRow: a version summary row precedes its
// week-level children.
const (
	SortOrderVersion = 1
	SortOrderWeek    = 2
)

// UnknownGroup is the bucket label for records with a null category or
// prompt version.
const UnknownGroup = "unknown"

// MultiCategoryGroup is the bucket label that absorbs delimiter-containing
// categories when multi-category merging is on.
const MultiCategoryGroup = "Multi-category"

// DetailedStatsRow is one output row of the detailed-statistics report:
// either a (category, version) summary or one of its per-week children.
type DetailedStatsRow struct {
	Category  string  `json:"category"`
	Version   string  `json:"version"`
	Dates     *string `json:"dates"`
	SortOrder int     `json:"sortOrder"`

	TotalRecords    int `json:"totalRecords"`
	ReviewedRecords int `json:"reviewedRecords"`
	AIErrors        int `json:"aiErrors"`
	AIQuality       int `json:"aiQuality"`
	NotResponded    int `json:"notResponded"`
	SecondRequest   int `json:"secondRequest"`
	AIApprovedCount int `json:"aiApprovedCount"`
	Unclassified    int `json:"unclassifiedCount"`

	// Legacy-display tallies. Each column counts its own legacy token plus
	// the new-taxonomy tokens that fold onto it, so historical and current
	// records render correctly side by side.
	CriticalErrors         int `json:"criticalErrors"`
	MeaningfulImprovements int `json:"meaningfulImprovements"`
	StylisticPreferences   int `json:"stylisticPreferences"`
	NoSignificantChanges   int `json:"noSignificantChanges"`
	ContextShifts          int `json:"contextShifts"`

	// New-display tallies, one per new-taxonomy token, each folding in the
	// legacy token that maps onto it.
	CriticalFactErrors       int `json:"criticalFactErrors"`
	MajorFunctionalOmissions int `json:"majorFunctionalOmissions"`
	MinorInfoGaps            int `json:"minorInfoGaps"`
	ConfusingVerbosity       int `json:"confusingVerbosity"`
	TonalMisalignments       int `json:"tonalMisalignments"`
	StructuralFixes          int `json:"structuralFixes"`
	StylisticEdits           int `json:"stylisticEdits"`
	PerfectMatches           int `json:"perfectMatches"`
	WorkflowShifts           int `json:"workflowShifts"`
	DataDiscrepancies        int `json:"dataDiscrepancies"`
}
