package domain

// Two classification taxonomies coexist in the comparison data: the legacy
// 5-token scheme used by historical records and the newer penalty-scored
// 10-token scheme (plus HUMAN_INCOMPLETE, which is excluded from scoring).
// This file is the single place that maps between them; everything else goes
// through Classification and the predicates below instead of comparing raw
// strings.

// LegacyClass is a token from the legacy 5-value taxonomy.
type LegacyClass string

const (
	LegacyCriticalError         LegacyClass = "critical_error"
	LegacyMeaningfulImprovement LegacyClass = "meaningful_improvement"
	LegacyStylisticPreference   LegacyClass = "stylistic_preference"
	LegacyNoSignificantChange   LegacyClass = "no_significant_change"
	LegacyContextShift          LegacyClass = "context_shift"
)

// NewClass is a token from the newer penalty-scored taxonomy.
type NewClass string

const (
	NewCriticalFactError       NewClass = "CRITICAL_FACT_ERROR"
	NewMajorFunctionalOmission NewClass = "MAJOR_FUNCTIONAL_OMISSION"
	NewMinorInfoGap            NewClass = "MINOR_INFO_GAP"
	NewConfusingVerbosity      NewClass = "CONFUSING_VERBOSITY"
	NewTonalMisalignment       NewClass = "TONAL_MISALIGNMENT"
	NewStructuralFix           NewClass = "STRUCTURAL_FIX"
	NewStylisticEdit           NewClass = "STYLISTIC_EDIT"
	NewPerfectMatch            NewClass = "PERFECT_MATCH"
	NewExclWorkflowShift       NewClass = "EXCL_WORKFLOW_SHIFT"
	NewExclDataDiscrepancy     NewClass = "EXCL_DATA_DISCREPANCY"
	NewHumanIncomplete         NewClass = "HUMAN_INCOMPLETE"
)

// newPenalties maps each new-taxonomy token to its penalty. A nil entry means
// the token is excluded from scoring.
var newPenalties = map[NewClass]*int{
	NewCriticalFactError:       intPtr(-100),
	NewMajorFunctionalOmission: intPtr(-50),
	NewMinorInfoGap:            intPtr(-20),
	NewConfusingVerbosity:      intPtr(-15),
	NewTonalMisalignment:       intPtr(-10),
	NewStructuralFix:           intPtr(-5),
	NewStylisticEdit:           intPtr(-2),
	NewPerfectMatch:            intPtr(0),
	NewExclWorkflowShift:       nil,
	NewExclDataDiscrepancy:     nil,
	NewHumanIncomplete:         nil,
}

// legacyToNew maps each legacy token to the new-taxonomy token used for
// scoring and for the new-display tally columns.
var legacyToNew = map[LegacyClass]NewClass{
	LegacyCriticalError:         NewCriticalFactError,
	LegacyMeaningfulImprovement: NewMinorInfoGap,
	LegacyStylisticPreference:   NewStylisticEdit,
	LegacyNoSignificantChange:   NewPerfectMatch,
	LegacyContextShift:          NewExclWorkflowShift,
}

// newToLegacyDisplay maps every new token onto the legacy-display tally
// column that absorbs it. Every known token lands in exactly one column, so
// the legacy columns plus approved plus unclassified partition a bucket.
var newToLegacyDisplay = map[NewClass]LegacyClass{
	NewCriticalFactError:       LegacyCriticalError,
	NewMajorFunctionalOmission: LegacyCriticalError,
	NewMinorInfoGap:            LegacyMeaningfulImprovement,
	NewConfusingVerbosity:      LegacyMeaningfulImprovement,
	NewTonalMisalignment:       LegacyMeaningfulImprovement,
	NewStructuralFix:           LegacyStylisticPreference,
	NewStylisticEdit:           LegacyStylisticPreference,
	NewPerfectMatch:            LegacyNoSignificantChange,
	NewExclWorkflowShift:       LegacyContextShift,
	NewExclDataDiscrepancy:     LegacyContextShift,
	NewHumanIncomplete:         LegacyContextShift,
}

// errorClasses and qualityClasses define the is-error / is-quality boundary
// on the new taxonomy; legacy tokens are checked through legacyToNew.
var errorClasses = map[NewClass]struct{}{
	NewCriticalFactError:       {},
	NewMajorFunctionalOmission: {},
	NewMinorInfoGap:            {},
	NewConfusingVerbosity:      {},
	NewTonalMisalignment:       {},
}

var qualityClasses = map[NewClass]struct{}{
	NewStructuralFix: {},
	NewStylisticEdit: {},
	NewPerfectMatch:  {},
}

type classKind int

const (
	classNone classKind = iota
	classLegacy
	classNew
	classUnknown
)

// Classification is a parsed classification token: a member of one of the two
// closed taxonomies, an explicit unknown string, or absent.
type Classification struct {
	kind   classKind
	legacy LegacyClass
	newer  NewClass
}

// ParseClassification maps a raw nullable token to a Classification.
// Unrecognized strings and nil both end up unknown/absent; callers treat the
// two the same (unclassified).
func ParseClassification(raw *string) Classification {
	if raw == nil || *raw == "" {
		return Classification{kind: classNone}
	}
	if _, ok := legacyToNew[LegacyClass(*raw)]; ok {
		return Classification{kind: classLegacy, legacy: LegacyClass(*raw)}
	}
	if _, ok := newPenalties[NewClass(*raw)]; ok {
		return Classification{kind: classNew, newer: NewClass(*raw)}
	}
	return Classification{kind: classUnknown}
}

// IsKnown reports whether the token belongs to either taxonomy.
func (c Classification) IsKnown() bool {
	return c.kind == classLegacy || c.kind == classNew
}

// Legacy returns the legacy token and whether the classification is one.
func (c Classification) Legacy() (LegacyClass, bool) {
	return c.legacy, c.kind == classLegacy
}

// New returns the new-taxonomy token and whether the classification is one.
func (c Classification) New() (NewClass, bool) {
	return c.newer, c.kind == classNew
}

// scored returns the new-taxonomy token used for scoring and predicate
// checks, mapping legacy tokens through legacyToNew.
func (c Classification) scored() (NewClass, bool) {
	switch c.kind {
	case classNew:
		return c.newer, true
	case classLegacy:
		return legacyToNew[c.legacy], true
	default:
		return "", false
	}
}

// Score returns 100 plus the token's penalty, or nil for excluded and
// unknown tokens.
func (c Classification) Score() *int {
	nc, ok := c.scored()
	if !ok {
		return nil
	}
	penalty := newPenalties[nc]
	if penalty == nil {
		return nil
	}
	s := 100 + *penalty
	return &s
}

// LegacyDisplay returns the legacy-display tally column for the token.
func (c Classification) LegacyDisplay() (LegacyClass, bool) {
	switch c.kind {
	case classLegacy:
		return c.legacy, true
	case classNew:
		return newToLegacyDisplay[c.newer], true
	default:
		return "", false
	}
}

// NewDisplay returns the new-display tally column for the token.
// HUMAN_INCOMPLETE has no column of its own and reports false.
func (c Classification) NewDisplay() (NewClass, bool) {
	nc, ok := c.scored()
	if !ok || nc == NewHumanIncomplete {
		return "", false
	}
	return nc, true
}

// IsError reports whether the record counts as an AI error. An explicit
// human approval always wins over the raw token.
func IsError(rec *ComparisonRecord) bool {
	if rec.Approved() {
		return false
	}
	nc, ok := ParseClassification(rec.Classification).scored()
	if !ok {
		return false
	}
	_, isErr := errorClasses[nc]
	return isErr
}

// IsQuality reports whether the record counts as an acceptable AI reply.
// An explicit human approval always wins over the raw token.
func IsQuality(rec *ComparisonRecord) bool {
	if rec.Approved() {
		return true
	}
	nc, ok := ParseClassification(rec.Classification).scored()
	if !ok {
		return false
	}
	_, isQual := qualityClasses[nc]
	return isQual
}

// IsReviewed reports whether the record was either approved or carries a
// known classification token.
func IsReviewed(rec *ComparisonRecord) bool {
	return rec.Approved() || ParseClassification(rec.Classification).IsKnown()
}

func intPtr(i int) *int { return &i }
