package model

// Status is the closed tri-state outcome of a single rule.
type Status string

const (
	StatusPass        Status = "pass"
	StatusNeedsReview Status = "needs_review"
	StatusFail        Status = "fail"
)

// Category groups rules for checklist presentation.
type Category string

const (
	CategoryIdentity        Category = "Identity"
	CategoryAlcoholContents Category = "Alcohol & contents"
	CategoryWarning         Category = "Warning"
	CategoryOrigin          Category = "Origin"
	CategoryOther           Category = "Other"
)

// CategoryOrder is the fixed presentation order for checklist sections.
var CategoryOrder = []Category{
	CategoryIdentity,
	CategoryAlcoholContents,
	CategoryWarning,
	CategoryOrigin,
	CategoryOther,
}

// RuleResult is the outcome of comparing one extracted field against the
// application record. BBox points back at the canonical block that produced
// the candidate so a presentation layer can highlight it; nil when the field
// was not found.
type RuleResult struct {
	Rule     string    `json:"rule"`
	Field    FieldName `json:"field,omitempty"`
	Category Category  `json:"category"`
	Status   Status    `json:"status"`
	Message  string    `json:"message"`
	BBox     *Rect     `json:"bbox,omitempty"`
}

// OverallStatus is the aggregate verdict over all rule results.
type OverallStatus string

const (
	OverallReadyToApprove OverallStatus = "Ready to approve"
	OverallNeedsReview    OverallStatus = "Needs review"
	OverallCriticalIssues OverallStatus = "Critical issues"
)

// StatusCounts tallies rule results per status.
type StatusCounts struct {
	Pass        int `json:"pass"`
	NeedsReview int `json:"needs_review"`
	Fail        int `json:"fail"`
}

// Checklist is the serializable pipeline output: rule results ordered by
// category plus the aggregate verdict. It carries bbox coordinates and text
// only, never image data.
type Checklist struct {
	Results []RuleResult  `json:"results"`
	Overall OverallStatus `json:"overall_status"`
	Counts  StatusCounts  `json:"counts"`
}
