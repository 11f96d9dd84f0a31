package rules

import (
	"strings"
	"testing"

	"github.com/labelcheck/labelcheck/internal/extract"
	"github.com/labelcheck/labelcheck/internal/model"
)

func testRecord() *model.ApplicationRecord {
	return &model.ApplicationRecord{
		BrandName:     "Stone's Throw",
		ClassType:     "Kentucky Straight Bourbon Whiskey",
		AlcoholPct:    "45",
		Proof:         "90",
		NetContentsML: 750,
		BottlerName:   "Stone's Throw Distillery",
		BottlerCity:   "Louisville",
		BottlerState:  "KY",
		BeverageType:  model.BeverageSpirits,
	}
}

func foundCandidate(field model.FieldName, value string) model.FieldCandidate {
	return model.FieldCandidate{
		Field: field,
		Value: value,
		Found: true,
		Blocks: []model.CanonicalBlock{{
			TextBlock: model.TextBlock{Text: value, BBox: model.Rect{X: 10, Y: 10, W: 100, H: 20}},
		}},
		Rule: "test",
	}
}

func fullResult(cfg *model.Config) *extract.Result {
	return &extract.Result{
		Candidates: map[model.FieldName]model.FieldCandidate{
			model.FieldBrandName:   foundCandidate(model.FieldBrandName, "STONES THROW"),
			model.FieldClassType:   foundCandidate(model.FieldClassType, "KENTUCKY STRAIGHT BOURBON WHISKEY"),
			model.FieldAlcoholPct:  foundCandidate(model.FieldAlcoholPct, "45"),
			model.FieldProof:       foundCandidate(model.FieldProof, "90"),
			model.FieldNetContents: foundCandidate(model.FieldNetContents, "750 mL"),
			model.FieldWarning:     foundCandidate(model.FieldWarning, cfg.Warning.FullStatement),
			model.FieldBottler:     foundCandidate(model.FieldBottler, "Stone's Throw Distillery, Louisville, KY"),
		},
	}
}

func resultFor(t *testing.T, results []model.RuleResult, rule string) *model.RuleResult {
	t.Helper()
	for i := range results {
		if results[i].Rule == rule {
			return &results[i]
		}
	}
	return nil
}

func hasField(results []model.RuleResult, field model.FieldName) bool {
	for _, r := range results {
		if r.Field == field {
			return true
		}
	}
	return false
}

func TestEvaluate_CleanLabelAllPass(t *testing.T) {
	cfg := model.DefaultConfig()
	engine := NewEngine(cfg)

	results := engine.Evaluate(fullResult(cfg), testRecord())
	if len(results) == 0 {
		t.Fatal("expected rule results")
	}
	for _, r := range results {
		if r.Status != model.StatusPass {
			t.Errorf("rule %q: expected pass, got %s (%s)", r.Rule, r.Status, r.Message)
		}
	}
}

func TestEvaluate_BrandApostropheVariantPasses(t *testing.T) {
	cfg := model.DefaultConfig()
	engine := NewEngine(cfg)

	results := engine.Evaluate(fullResult(cfg), testRecord())
	brand := resultFor(t, results, "Brand name matches")
	if brand == nil {
		t.Fatal("brand rule missing")
	}
	if brand.Status != model.StatusPass {
		t.Errorf("expected STONES THROW vs Stone's Throw to pass, got %s: %s", brand.Status, brand.Message)
	}
	if brand.BBox == nil {
		t.Error("expected brand result to carry a bbox")
	}
}

func TestEvaluate_MissingBrandFails(t *testing.T) {
	cfg := model.DefaultConfig()
	engine := NewEngine(cfg)

	res := fullResult(cfg)
	res.Candidates[model.FieldBrandName] = model.NotFound(model.FieldBrandName, model.ReasonNoKeywordMatch)

	results := engine.Evaluate(res, testRecord())
	brand := resultFor(t, results, "Brand name matches")
	if brand == nil {
		t.Fatal("brand rule missing")
	}
	if brand.Status != model.StatusFail {
		t.Errorf("expected fail for missing brand, got %s", brand.Status)
	}
	if brand.BBox != nil {
		t.Error("missing field must not carry a bbox")
	}
	if !strings.Contains(brand.Message, string(model.ReasonNoKeywordMatch)) {
		t.Errorf("expected reason code in message, got %q", brand.Message)
	}
}

func TestEvaluate_ConfusableMismatchDowngraded(t *testing.T) {
	cfg := model.DefaultConfig()
	engine := NewEngine(cfg)

	// Two confusable substitutions over four runes score 0.50, below the
	// review floor, but the diff is pure OCR confusion.
	rec := testRecord()
	rec.BrandName = "BOLO"
	res := fullResult(cfg)
	res.Candidates[model.FieldBrandName] = foundCandidate(model.FieldBrandName, "B0L0")

	results := engine.Evaluate(res, rec)
	brand := resultFor(t, results, "Brand name matches")
	if brand == nil {
		t.Fatal("brand rule missing")
	}
	if brand.Status != model.StatusNeedsReview {
		t.Errorf("expected confusable fail downgraded to needs_review, got %s", brand.Status)
	}
}

func TestEvaluate_MissingWarningFailsWithoutBBox(t *testing.T) {
	cfg := model.DefaultConfig()
	engine := NewEngine(cfg)

	res := fullResult(cfg)
	res.Candidates[model.FieldWarning] = model.NotFound(model.FieldWarning, model.ReasonNoKeywordMatch)

	results := engine.Evaluate(res, testRecord())
	warn := resultFor(t, results, "Government warning present")
	if warn == nil {
		t.Fatal("warning rule missing")
	}
	if warn.Status != model.StatusFail {
		t.Errorf("expected fail, got %s", warn.Status)
	}
	if warn.BBox != nil {
		t.Error("missing warning must not carry a bbox")
	}
	if warn.Category != model.CategoryWarning {
		t.Errorf("expected Warning category, got %s", warn.Category)
	}
}

func TestEvaluate_LowercaseWarningLeadFails(t *testing.T) {
	cfg := model.DefaultConfig()
	engine := NewEngine(cfg)

	res := fullResult(cfg)
	lowered := strings.Replace(cfg.Warning.FullStatement, "GOVERNMENT WARNING:", "Government Warning:", 1)
	res.Candidates[model.FieldWarning] = foundCandidate(model.FieldWarning, lowered)

	results := engine.Evaluate(res, testRecord())
	caps := resultFor(t, results, "GOVERNMENT WARNING in caps")
	if caps == nil {
		t.Fatal("caps rule missing")
	}
	if caps.Status != model.StatusFail {
		t.Errorf("expected fail for lowercase lead, got %s", caps.Status)
	}

	// Wording similarity is case-folded and should still pass.
	wording := resultFor(t, results, "Warning wording")
	if wording == nil {
		t.Fatal("wording rule missing")
	}
	if wording.Status != model.StatusPass {
		t.Errorf("expected wording pass despite casing, got %s: %s", wording.Status, wording.Message)
	}
}

func TestEvaluate_TruncatedWarningFlagged(t *testing.T) {
	cfg := model.DefaultConfig()
	engine := NewEngine(cfg)

	res := fullResult(cfg)
	half := cfg.Warning.FullStatement[:len(cfg.Warning.FullStatement)/2]
	res.Candidates[model.FieldWarning] = foundCandidate(model.FieldWarning, half)

	results := engine.Evaluate(res, testRecord())
	wording := resultFor(t, results, "Warning wording")
	if wording == nil {
		t.Fatal("wording rule missing")
	}
	if wording.Status == model.StatusPass {
		t.Errorf("expected truncated warning to be flagged, got pass")
	}
}

func TestEvaluate_ProofSkippedForBeerAndWine(t *testing.T) {
	cfg := model.DefaultConfig()
	engine := NewEngine(cfg)

	for _, bt := range []model.BeverageType{model.BeverageBeer, model.BeverageWine} {
		rec := testRecord()
		rec.BeverageType = bt
		rec.Proof = ""
		results := engine.Evaluate(fullResult(cfg), rec)
		if hasField(results, model.FieldProof) {
			t.Errorf("%s: proof must not be evaluated", bt)
		}
	}
}

func TestEvaluate_ABVOptionalForBeer(t *testing.T) {
	cfg := model.DefaultConfig()
	engine := NewEngine(cfg)

	rec := testRecord()
	rec.BeverageType = model.BeverageBeer
	rec.Proof = ""
	res := fullResult(cfg)
	res.Candidates[model.FieldAlcoholPct] = model.NotFound(model.FieldAlcoholPct, model.ReasonNoPatternMatch)

	results := engine.Evaluate(res, rec)
	if hasField(results, model.FieldAlcoholPct) {
		t.Error("absent ABV on beer must not produce a result")
	}

	// Spirits with missing ABV is a hard fail.
	spirits := testRecord()
	results = engine.Evaluate(res, spirits)
	abv := resultFor(t, results, "Alcohol content present")
	if abv == nil || abv.Status != model.StatusFail {
		t.Error("expected missing ABV on spirits to fail")
	}
}

func TestEvaluate_ABVMismatchNeedsReview(t *testing.T) {
	cfg := model.DefaultConfig()
	engine := NewEngine(cfg)

	res := fullResult(cfg)
	res.Candidates[model.FieldAlcoholPct] = foundCandidate(model.FieldAlcoholPct, "40")

	results := engine.Evaluate(res, testRecord())
	abv := resultFor(t, results, "Alcohol content matches")
	if abv == nil {
		t.Fatal("abv rule missing")
	}
	if abv.Status != model.StatusNeedsReview {
		t.Errorf("expected needs_review for ABV mismatch, got %s", abv.Status)
	}
}

func TestEvaluate_NetContents(t *testing.T) {
	cfg := model.DefaultConfig()
	engine := NewEngine(cfg)

	// Missing: hard fail.
	res := fullResult(cfg)
	res.Candidates[model.FieldNetContents] = model.NotFound(model.FieldNetContents, model.ReasonNoPatternMatch)
	results := engine.Evaluate(res, testRecord())
	if r := resultFor(t, results, "Net contents present"); r == nil || r.Status != model.StatusFail {
		t.Error("expected missing net contents to fail")
	}

	// Non-standard volume: review.
	res = fullResult(cfg)
	res.Candidates[model.FieldNetContents] = foundCandidate(model.FieldNetContents, "600 mL")
	rec := testRecord()
	rec.NetContentsML = 600
	results = engine.Evaluate(res, rec)
	if r := resultFor(t, results, "Net contents standard of fill"); r == nil || r.Status != model.StatusNeedsReview {
		t.Error("expected non-standard fill to need review")
	}

	// Application mismatch beyond tolerance: review.
	res = fullResult(cfg)
	res.Candidates[model.FieldNetContents] = foundCandidate(model.FieldNetContents, "375 mL")
	results = engine.Evaluate(res, testRecord())
	if r := resultFor(t, results, "Net contents matches"); r == nil || r.Status != model.StatusNeedsReview {
		t.Error("expected 375 vs 750 application mismatch to need review")
	}

	// Within tolerance of both the standard and the application: pass.
	res = fullResult(cfg)
	res.Candidates[model.FieldNetContents] = foundCandidate(model.FieldNetContents, "753 mL")
	results = engine.Evaluate(res, testRecord())
	if r := resultFor(t, results, "Net contents"); r == nil || r.Status != model.StatusPass {
		t.Error("expected 753 mL to pass within tolerance")
	}
}

func TestEvaluate_CountryOnlyWhenImported(t *testing.T) {
	cfg := model.DefaultConfig()
	engine := NewEngine(cfg)

	domestic := testRecord()
	results := engine.Evaluate(fullResult(cfg), domestic)
	if hasField(results, model.FieldCountryOfOrigin) {
		t.Error("domestic product must not get a country rule")
	}

	imported := testRecord()
	imported.Imported = true
	imported.CountryOfOrigin = "Scotland"

	// Found: pass.
	res := fullResult(cfg)
	res.Candidates[model.FieldCountryOfOrigin] = foundCandidate(model.FieldCountryOfOrigin, "PRODUCT OF SCOTLAND")
	results = engine.Evaluate(res, imported)
	if r := resultFor(t, results, "Country of origin"); r == nil || r.Status != model.StatusPass {
		t.Error("expected found country of origin to pass")
	}

	// Missing: fail.
	results = engine.Evaluate(fullResult(cfg), imported)
	if r := resultFor(t, results, "Country of origin"); r == nil || r.Status != model.StatusFail {
		t.Error("expected missing country of origin to fail for import")
	}
}

func TestEvaluate_ConditionalStatements(t *testing.T) {
	cfg := model.DefaultConfig()
	engine := NewEngine(cfg)

	rec := testRecord()
	rec.SulfitesRequired = true

	// Present in a block: pass with that block's bbox.
	res := fullResult(cfg)
	res.Blocks = []model.CanonicalBlock{{
		TextBlock: model.TextBlock{Text: "CONTAINS SULFITES", BBox: model.Rect{X: 5, Y: 400, W: 120, H: 14}},
	}}
	results := engine.Evaluate(res, rec)
	sulf := resultFor(t, results, "Sulfites statement")
	if sulf == nil {
		t.Fatal("sulfites rule missing")
	}
	if sulf.Status != model.StatusPass {
		t.Errorf("expected pass, got %s", sulf.Status)
	}
	if sulf.BBox == nil || sulf.BBox.Y != 400 {
		t.Errorf("expected matching block bbox, got %+v", sulf.BBox)
	}

	// Absent: fail.
	res = fullResult(cfg)
	res.Blocks = nil
	results = engine.Evaluate(res, rec)
	sulf = resultFor(t, results, "Sulfites statement")
	if sulf == nil || sulf.Status != model.StatusFail {
		t.Error("expected fail when required statement missing")
	}

	// Flag unset: no rule at all.
	results = engine.Evaluate(fullResult(cfg), testRecord())
	if resultFor(t, results, "Sulfites statement") != nil {
		t.Error("unset flag must not produce a rule")
	}
}
