package model

// FieldName identifies a label field targeted by extraction and rules.
type FieldName string

const (
	FieldBrandName       FieldName = "brand_name"
	FieldClassType       FieldName = "class_type"
	FieldAlcoholPct      FieldName = "alcohol_pct"
	FieldProof           FieldName = "proof"
	FieldNetContents     FieldName = "net_contents"
	FieldWarning         FieldName = "government_warning"
	FieldBottler         FieldName = "bottler"
	FieldCountryOfOrigin FieldName = "country_of_origin"
)

// ReasonCode explains why an extraction strategy produced no candidate.
type ReasonCode string

const (
	ReasonNoKeywordMatch  ReasonCode = "no_keyword_match"
	ReasonNoPatternMatch  ReasonCode = "no_pattern_match"
	ReasonDisqualifierHit ReasonCode = "disqualifier_hit"
	ReasonNoBlocks        ReasonCode = "no_blocks"
)

// FieldCandidate is the typed output of one extraction strategy: either a
// value with block provenance, or an explicit miss carrying a reason code.
type FieldCandidate struct {
	Field  FieldName        `json:"field"`
	Value  string           `json:"value,omitempty"`
	Found  bool             `json:"found"`
	Reason ReasonCode       `json:"reason,omitempty"`
	Blocks []CanonicalBlock `json:"blocks,omitempty"`
	Rule   string           `json:"extraction_rule,omitempty"` // which strategy heuristic matched
}

// NotFound builds an explicit miss for the field.
func NotFound(field FieldName, reason ReasonCode) FieldCandidate {
	return FieldCandidate{Field: field, Reason: reason}
}

// BBox returns the bounding box covering the candidate's source blocks, or
// nil when the candidate has no provenance.
func (c FieldCandidate) BBox() *Rect {
	if len(c.Blocks) == 0 {
		return nil
	}
	box := c.Blocks[0].BBox
	for _, b := range c.Blocks[1:] {
		box = box.Union(b.BBox)
	}
	return &box
}
