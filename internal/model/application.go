package model

import "strings"

// BeverageType is the commodity classification from the application.
type BeverageType string

const (
	BeverageSpirits BeverageType = "spirits"
	BeverageWine    BeverageType = "wine"
	BeverageBeer    BeverageType = "beer"
)

// ApplicationRecord is the producer-submitted application data a label is
// checked against. The schema is fixed; one record pairs with one image per
// pipeline invocation.
type ApplicationRecord struct {
	BrandName       string       `json:"brand_name" yaml:"brand_name"`
	ClassType       string       `json:"class_type" yaml:"class_type"`
	AlcoholPct      string       `json:"alcohol_pct" yaml:"alcohol_pct"`
	Proof           string       `json:"proof,omitempty" yaml:"proof"`
	NetContentsML   int          `json:"net_contents_ml" yaml:"net_contents_ml"`
	BottlerName     string       `json:"bottler_name" yaml:"bottler_name"`
	BottlerCity     string       `json:"bottler_city,omitempty" yaml:"bottler_city"`
	BottlerState    string       `json:"bottler_state,omitempty" yaml:"bottler_state"`
	Imported        bool         `json:"imported" yaml:"imported"`
	CountryOfOrigin string       `json:"country_of_origin,omitempty" yaml:"country_of_origin"`
	BeverageType    BeverageType `json:"beverage_type" yaml:"beverage_type"`

	// Conditional statement flags: when set, the corresponding label
	// disclosure is required wording.
	SulfitesRequired       bool `json:"sulfites_required" yaml:"sulfites_required"`
	FDCYellow5Required     bool `json:"fd_c_yellow_5_required" yaml:"fd_c_yellow_5_required"`
	CarmineRequired        bool `json:"carmine_required" yaml:"carmine_required"`
	WoodTreatmentRequired  bool `json:"wood_treatment_required" yaml:"wood_treatment_required"`
	AgeStatementRequired   bool `json:"age_statement_required" yaml:"age_statement_required"`
	NeutralSpiritsRequired bool `json:"neutral_spirits_required" yaml:"neutral_spirits_required"`
}

// Validate checks the record against the fixed schema. A failing record is
// fatal for its invocation; the pipeline never produces a partial checklist.
func (r *ApplicationRecord) Validate() error {
	var problems []string
	if strings.TrimSpace(r.BrandName) == "" {
		problems = append(problems, "brand_name is required")
	}
	switch r.BeverageType {
	case BeverageSpirits, BeverageWine, BeverageBeer:
	case "":
		problems = append(problems, "beverage_type is required")
	default:
		problems = append(problems, "beverage_type must be one of spirits, wine, beer")
	}
	if r.NetContentsML < 0 {
		problems = append(problems, "net_contents_ml must be non-negative")
	}
	if r.Imported && strings.TrimSpace(r.CountryOfOrigin) == "" {
		problems = append(problems, "country_of_origin is required for imported products")
	}
	if len(problems) > 0 {
		return &InvalidRecordError{Problems: problems}
	}
	return nil
}
