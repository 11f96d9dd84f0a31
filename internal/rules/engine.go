// Package rules compares extracted field candidates against the application
// record, producing one explainable tri-state result per configured rule.
package rules

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/labelcheck/labelcheck/internal/extract"
	"github.com/labelcheck/labelcheck/internal/model"
)

// Engine evaluates the configured rule set. It holds only the immutable
// configuration and is safe for concurrent use.
type Engine struct {
	cfg *model.Config
}

// NewEngine creates a rule engine over the loaded configuration.
func NewEngine(cfg *model.Config) *Engine {
	return &Engine{cfg: cfg}
}

// Evaluate runs every applicable rule. Field-local extraction misses become
// Fail or NeedsReview results per the field's policy; they are never dropped
// from the checklist.
func (e *Engine) Evaluate(res *extract.Result, rec *model.ApplicationRecord) []model.RuleResult {
	var out []model.RuleResult
	out = append(out, e.identityRules(res, rec)...)
	out = append(out, e.alcoholContentsRules(res, rec)...)
	out = append(out, e.warningRules(res, rec)...)
	out = append(out, e.originRules(res, rec)...)
	out = append(out, e.conditionalRules(res, rec)...)
	return out
}

// thresholds returns the fuzzy cutoffs for the field, defaulting to the
// brand cutoffs when the field has no dedicated entry.
func (e *Engine) thresholds(field model.FieldName) model.Thresholds {
	if th, ok := e.cfg.Similarity[field]; ok {
		return th
	}
	return e.cfg.Similarity[model.FieldBrandName]
}

// fuzzyRule scores candidate text against the application value and maps the
// score through the field's thresholds. A Fail whose diff is purely
// OCR-confusable is downgraded to NeedsReview.
func (e *Engine) fuzzyRule(rule string, field model.FieldName, cat model.Category, appValue string, cand model.FieldCandidate) model.RuleResult {
	labelValue := Normalize(cand.Value)
	appValue = Normalize(appValue)

	if !cand.Found || labelValue == "" {
		return model.RuleResult{
			Rule:     rule,
			Field:    field,
			Category: cat,
			Status:   model.StatusFail,
			Message:  fmt.Sprintf("%s not found on label (%s); expected %q.", field, cand.Reason, appValue),
		}
	}
	if appValue == "" {
		return model.RuleResult{
			Rule:     rule,
			Field:    field,
			Category: cat,
			Status:   model.StatusPass,
			Message:  fmt.Sprintf("%s found on label: %q.", field, labelValue),
			BBox:     cand.BBox(),
		}
	}

	score := Similarity(appValue, labelValue)
	status := StatusForScore(score, e.thresholds(field))
	if status == model.StatusFail && IsOCRConfusable(appValue, labelValue) {
		status = model.StatusNeedsReview
	}

	var msg string
	switch status {
	case model.StatusPass:
		msg = fmt.Sprintf("%s matches application (%q, score %.2f).", field, labelValue, score)
	case model.StatusNeedsReview:
		msg = fmt.Sprintf("%s similar but not exact: label %q vs application %q (score %.2f).", field, labelValue, appValue, score)
	default:
		msg = fmt.Sprintf("%s mismatch: label %q vs application %q (score %.2f).", field, labelValue, appValue, score)
	}
	return model.RuleResult{
		Rule:     rule,
		Field:    field,
		Category: cat,
		Status:   status,
		Message:  msg,
		BBox:     cand.BBox(),
	}
}

func (e *Engine) identityRules(res *extract.Result, rec *model.ApplicationRecord) []model.RuleResult {
	return []model.RuleResult{
		e.fuzzyRule("Brand name matches", model.FieldBrandName, model.CategoryIdentity, rec.BrandName, res.Candidate(model.FieldBrandName)),
		e.fuzzyRule("Class/type matches", model.FieldClassType, model.CategoryIdentity, rec.ClassType, res.Candidate(model.FieldClassType)),
	}
}

func (e *Engine) alcoholContentsRules(res *extract.Result, rec *model.ApplicationRecord) []model.RuleResult {
	var out []model.RuleResult

	abv := res.Candidate(model.FieldAlcoholPct)
	abvApplies := e.cfg.FieldApplies(model.FieldAlcoholPct, rec.BeverageType)
	switch {
	case !abv.Found && !abvApplies:
		// Optional for this beverage type and absent: nothing to evaluate.
	case !abv.Found:
		out = append(out, model.RuleResult{
			Rule:     "Alcohol content present",
			Field:    model.FieldAlcoholPct,
			Category: model.CategoryAlcoholContents,
			Status:   model.StatusFail,
			Message:  fmt.Sprintf("Alcohol content (ABV) not found on label (%s).", abv.Reason),
		})
	case rec.AlcoholPct != "" && !numbersEqual(abv.Value, rec.AlcoholPct):
		out = append(out, model.RuleResult{
			Rule:     "Alcohol content matches",
			Field:    model.FieldAlcoholPct,
			Category: model.CategoryAlcoholContents,
			Status:   model.StatusNeedsReview,
			Message:  fmt.Sprintf("ABV on label (%s%%) does not match application (%s%%).", abv.Value, rec.AlcoholPct),
			BBox:     abv.BBox(),
		})
	default:
		out = append(out, model.RuleResult{
			Rule:     "Alcohol content",
			Field:    model.FieldAlcoholPct,
			Category: model.CategoryAlcoholContents,
			Status:   model.StatusPass,
			Message:  "Alcohol content present and matches.",
			BBox:     abv.BBox(),
		})
	}

	if e.cfg.FieldApplies(model.FieldProof, rec.BeverageType) {
		proof := res.Candidate(model.FieldProof)
		switch {
		case !proof.Found && rec.Proof != "":
			out = append(out, model.RuleResult{
				Rule:     "Proof present",
				Field:    model.FieldProof,
				Category: model.CategoryAlcoholContents,
				Status:   model.StatusNeedsReview,
				Message:  "Proof not found on label but stated in application.",
			})
		case proof.Found && rec.Proof != "" && !numbersEqual(proof.Value, rec.Proof):
			out = append(out, model.RuleResult{
				Rule:     "Proof matches",
				Field:    model.FieldProof,
				Category: model.CategoryAlcoholContents,
				Status:   model.StatusNeedsReview,
				Message:  fmt.Sprintf("Proof on label (%s) does not match application (%s).", proof.Value, rec.Proof),
				BBox:     proof.BBox(),
			})
		default:
			out = append(out, model.RuleResult{
				Rule:     "Proof",
				Field:    model.FieldProof,
				Category: model.CategoryAlcoholContents,
				Status:   model.StatusPass,
				Message:  "Proof present and matches.",
				BBox:     proof.BBox(),
			})
		}
	}

	out = append(out, e.netContentsRules(res, rec)...)
	return out
}

func (e *Engine) netContentsRules(res *extract.Result, rec *model.ApplicationRecord) []model.RuleResult {
	net := res.Candidate(model.FieldNetContents)
	if !net.Found {
		return []model.RuleResult{{
			Rule:     "Net contents present",
			Field:    model.FieldNetContents,
			Category: model.CategoryAlcoholContents,
			Status:   model.StatusFail,
			Message:  fmt.Sprintf("Net contents not found on label (%s).", net.Reason),
		}}
	}

	labelML, ok := parseML(net.Value)
	if !ok {
		return []model.RuleResult{{
			Rule:     "Net contents present",
			Field:    model.FieldNetContents,
			Category: model.CategoryAlcoholContents,
			Status:   model.StatusNeedsReview,
			Message:  fmt.Sprintf("Net contents %q could not be parsed as a volume.", net.Value),
			BBox:     net.BBox(),
		}}
	}

	var out []model.RuleResult
	tol := e.cfg.NetContents.ToleranceML
	if !withinStandardOfFill(labelML, e.cfg.NetContents.StandardOfFillML, tol) {
		out = append(out, model.RuleResult{
			Rule:     "Net contents standard of fill",
			Field:    model.FieldNetContents,
			Category: model.CategoryAlcoholContents,
			Status:   model.StatusNeedsReview,
			Message:  fmt.Sprintf("Net contents %s (%d mL) is not an authorized standard of fill.", net.Value, labelML),
			BBox:     net.BBox(),
		})
	}
	if rec.NetContentsML > 0 && abs(labelML-rec.NetContentsML) > tol {
		out = append(out, model.RuleResult{
			Rule:     "Net contents matches",
			Field:    model.FieldNetContents,
			Category: model.CategoryAlcoholContents,
			Status:   model.StatusNeedsReview,
			Message:  fmt.Sprintf("Net contents on label (%d mL) does not match application (%d mL).", labelML, rec.NetContentsML),
			BBox:     net.BBox(),
		})
	}
	if len(out) == 0 {
		out = append(out, model.RuleResult{
			Rule:     "Net contents",
			Field:    model.FieldNetContents,
			Category: model.CategoryAlcoholContents,
			Status:   model.StatusPass,
			Message:  fmt.Sprintf("Net contents found: %s.", net.Value),
			BBox:     net.BBox(),
		})
	}
	return out
}

func (e *Engine) warningRules(res *extract.Result, rec *model.ApplicationRecord) []model.RuleResult {
	cand := res.Candidate(model.FieldWarning)
	if !cand.Found || strings.TrimSpace(cand.Value) == "" {
		return []model.RuleResult{{
			Rule:     "Government warning present",
			Field:    model.FieldWarning,
			Category: model.CategoryWarning,
			Status:   model.StatusFail,
			Message:  fmt.Sprintf("Government warning statement not found on label (%s).", cand.Reason),
		}}
	}

	var out []model.RuleResult
	full := Normalize(cand.Value)

	// The header must appear in caps exactly; similarity scoring is
	// case-folded, so this check reads the raw value.
	if strings.Contains(full, strings.TrimSuffix(e.cfg.Warning.Lead, ":")) {
		out = append(out, model.RuleResult{
			Rule:     "GOVERNMENT WARNING in caps",
			Field:    model.FieldWarning,
			Category: model.CategoryWarning,
			Status:   model.StatusPass,
			Message:  "GOVERNMENT WARNING appears in the required form.",
			BBox:     cand.BBox(),
		})
	} else {
		out = append(out, model.RuleResult{
			Rule:     "GOVERNMENT WARNING in caps",
			Field:    model.FieldWarning,
			Category: model.CategoryWarning,
			Status:   model.StatusFail,
			Message:  "The phrase GOVERNMENT WARNING must appear in capital letters.",
			BBox:     cand.BBox(),
		})
	}

	required := Normalize(e.cfg.Warning.FullStatement)
	score := Similarity(required, full)
	status := StatusForScore(score, e.thresholds(model.FieldWarning))
	var msg string
	switch status {
	case model.StatusPass:
		msg = "Warning statement present and matches the required wording."
	case model.StatusNeedsReview:
		msg = fmt.Sprintf("Warning text may not match the required wording exactly (score %.2f); please verify.", score)
	default:
		msg = fmt.Sprintf("Warning text incomplete or incorrect (score %.2f).", score)
	}
	out = append(out, model.RuleResult{
		Rule:     "Warning wording",
		Field:    model.FieldWarning,
		Category: model.CategoryWarning,
		Status:   status,
		Message:  msg,
		BBox:     cand.BBox(),
	})
	return out
}

func (e *Engine) originRules(res *extract.Result, rec *model.ApplicationRecord) []model.RuleResult {
	var out []model.RuleResult

	bottler := res.Candidate(model.FieldBottler)
	if !bottler.Found {
		out = append(out, model.RuleResult{
			Rule:     "Bottler/producer statement",
			Field:    model.FieldBottler,
			Category: model.CategoryOrigin,
			Status:   model.StatusFail,
			Message:  fmt.Sprintf("Bottler/producer name and address not found on label (%s).", bottler.Reason),
		})
	} else {
		out = append(out, e.fuzzyRule("Bottler matches", model.FieldBottler, model.CategoryOrigin, bottlerAppValue(rec), bottler))
	}

	if rec.Imported {
		country := res.Candidate(model.FieldCountryOfOrigin)
		if !country.Found {
			out = append(out, model.RuleResult{
				Rule:     "Country of origin",
				Field:    model.FieldCountryOfOrigin,
				Category: model.CategoryOrigin,
				Status:   model.StatusFail,
				Message:  "Imported product must show country of origin.",
			})
		} else {
			out = append(out, model.RuleResult{
				Rule:     "Country of origin",
				Field:    model.FieldCountryOfOrigin,
				Category: model.CategoryOrigin,
				Status:   model.StatusPass,
				Message:  fmt.Sprintf("Country of origin found: %s.", country.Value),
				BBox:     country.BBox(),
			})
		}
	}
	return out
}

// bottlerAppValue assembles the application-side bottler string for fuzzy
// comparison against the label's responsibility statement.
func bottlerAppValue(rec *model.ApplicationRecord) string {
	parts := []string{rec.BottlerName}
	if rec.BottlerCity != "" {
		parts = append(parts, rec.BottlerCity)
	}
	if rec.BottlerState != "" {
		parts = append(parts, rec.BottlerState)
	}
	return strings.Join(parts, ", ")
}

// conditionalRule ids in evaluation order, so checklists stay stable.
var conditionalOrder = []struct {
	id       string
	rule     string
	required func(*model.ApplicationRecord) bool
}{
	{"sulfites", "Sulfites statement", func(r *model.ApplicationRecord) bool { return r.SulfitesRequired }},
	{"fd_c_yellow_5", "FD&C Yellow No. 5 statement", func(r *model.ApplicationRecord) bool { return r.FDCYellow5Required }},
	{"carmine", "Carmine statement", func(r *model.ApplicationRecord) bool { return r.CarmineRequired }},
	{"wood_treatment", "Wood treatment statement", func(r *model.ApplicationRecord) bool { return r.WoodTreatmentRequired }},
	{"age_statement", "Age statement", func(r *model.ApplicationRecord) bool { return r.AgeStatementRequired }},
	{"neutral_spirits", "Neutral spirits statement", func(r *model.ApplicationRecord) bool { return r.NeutralSpiritsRequired }},
}

// conditionalRules checks each required disclosure against the full
// canonical text. Statements are evaluated only when the corresponding
// application flag is set and Fail when the configured wording is absent.
func (e *Engine) conditionalRules(res *extract.Result, rec *model.ApplicationRecord) []model.RuleResult {
	var out []model.RuleResult
	for _, c := range conditionalOrder {
		if !c.required(rec) {
			continue
		}
		pattern := strings.ToLower(e.cfg.ConditionalStatements[c.id])
		if pattern == "" {
			continue
		}
		var match *model.CanonicalBlock
		for i := range res.Blocks {
			if strings.Contains(strings.ToLower(res.Blocks[i].Text), pattern) {
				match = &res.Blocks[i]
				break
			}
		}
		if match == nil && strings.Contains(strings.ToLower(joinBlockTexts(res.Blocks)), pattern) {
			// Wording split across word blocks still counts; no single bbox.
			out = append(out, model.RuleResult{
				Rule:     c.rule,
				Category: model.CategoryOther,
				Status:   model.StatusPass,
				Message:  fmt.Sprintf("%s found.", c.rule),
			})
			continue
		}
		if match != nil {
			bbox := match.BBox
			out = append(out, model.RuleResult{
				Rule:     c.rule,
				Category: model.CategoryOther,
				Status:   model.StatusPass,
				Message:  fmt.Sprintf("%s found.", c.rule),
				BBox:     &bbox,
			})
		} else {
			out = append(out, model.RuleResult{
				Rule:     c.rule,
				Category: model.CategoryOther,
				Status:   model.StatusFail,
				Message:  fmt.Sprintf("%s required but not found.", c.rule),
			})
		}
	}
	return out
}

func joinBlockTexts(blocks []model.CanonicalBlock) string {
	parts := make([]string, 0, len(blocks))
	for _, b := range blocks {
		parts = append(parts, b.Text)
	}
	return strings.Join(parts, " ")
}

func numbersEqual(a, b string) bool {
	fa, errA := strconv.ParseFloat(strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(a), "%")), 64)
	fb, errB := strconv.ParseFloat(strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(b), "%")), 64)
	if errA != nil || errB != nil {
		return strings.TrimSpace(a) == strings.TrimSpace(b)
	}
	return math.Abs(fa-fb) < 0.01
}

// parseML reads the extractor's normalized "<n> mL" value.
func parseML(s string) (int, bool) {
	fields := strings.Fields(strings.TrimSpace(s))
	if len(fields) != 2 || !strings.EqualFold(fields[1], "mL") {
		return 0, false
	}
	v, err := strconv.Atoi(fields[0])
	if err != nil {
		return 0, false
	}
	return v, true
}

func withinStandardOfFill(ml int, allowed []int, tol int) bool {
	for _, a := range allowed {
		if abs(ml-a) <= tol {
			return true
		}
	}
	return false
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
