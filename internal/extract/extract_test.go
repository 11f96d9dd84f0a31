package extract

import (
	"strings"
	"testing"

	"github.com/labelcheck/labelcheck/internal/model"
)

func cblock(text string, x, y, w, h int) model.CanonicalBlock {
	return model.CanonicalBlock{TextBlock: model.TextBlock{
		Text:       text,
		BBox:       model.Rect{X: x, Y: y, W: w, H: h},
		Confidence: 90,
	}}
}

func extractAll(blocks []model.CanonicalBlock) *Result {
	return NewExtractor().Extract(blocks, model.DefaultConfig())
}

func TestBrand_DomainSuffix(t *testing.T) {
	res := extractAll([]model.CanonicalBlock{
		cblock("STONES THROW DISTILLERY RESERVE", 50, 20, 400, 40),
		cblock("KENTUCKY STRAIGHT BOURBON WHISKEY", 50, 120, 400, 20),
	})

	brand := res.Candidate(model.FieldBrandName)
	if !brand.Found {
		t.Fatalf("expected brand found, got miss (%s)", brand.Reason)
	}
	if brand.Value != "STONES THROW DISTILLERY" {
		t.Errorf("expected cut after domain suffix, got %q", brand.Value)
	}
	if brand.Rule != "domain_suffix" {
		t.Errorf("expected domain_suffix rule, got %s", brand.Rule)
	}
}

func TestBrand_CorporateSuffixStripped(t *testing.T) {
	res := extractAll([]model.CanonicalBlock{
		cblock("ACME TRADING CO", 50, 20, 300, 40),
	})

	brand := res.Candidate(model.FieldBrandName)
	if !brand.Found {
		t.Fatalf("expected brand found, got miss (%s)", brand.Reason)
	}
	if brand.Value != "ACME TRADING" {
		t.Errorf("expected corporate suffix stripped, got %q", brand.Value)
	}
	if brand.Rule != "corp_suffix_strip" {
		t.Errorf("expected corp_suffix_strip rule, got %s", brand.Rule)
	}
}

func TestBrand_ProminentFallback(t *testing.T) {
	res := extractAll([]model.CanonicalBlock{
		cblock("EAGLE PEAK", 50, 20, 300, 50), // tall top block
		cblock("est. 1922", 50, 90, 100, 10),
		cblock("750 mL", 50, 900, 80, 12),
	})

	brand := res.Candidate(model.FieldBrandName)
	if !brand.Found {
		t.Fatalf("expected brand found, got miss (%s)", brand.Reason)
	}
	if brand.Value != "EAGLE PEAK" {
		t.Errorf("expected most prominent top block, got %q", brand.Value)
	}
	if brand.Rule != "prominent_top_block" {
		t.Errorf("expected prominent_top_block rule, got %s", brand.Rule)
	}
}

func TestBrand_NoBlocks(t *testing.T) {
	res := extractAll(nil)
	brand := res.Candidate(model.FieldBrandName)
	if brand.Found {
		t.Fatal("expected miss on empty input")
	}
	if brand.Reason != model.ReasonNoBlocks {
		t.Errorf("expected no_blocks reason, got %s", brand.Reason)
	}
}

func TestClassType_AnchorExpansion(t *testing.T) {
	res := extractAll([]model.CanonicalBlock{
		cblock("EAGLE PEAK", 50, 20, 300, 40),
		cblock("KENTUCKY STRAIGHT", 50, 120, 300, 20),
		cblock("BOURBON WHISKEY", 50, 145, 300, 20),
		cblock("45% ALC/VOL", 50, 600, 120, 14),
	})

	class := res.Candidate(model.FieldClassType)
	if !class.Found {
		t.Fatalf("expected class found, got miss (%s)", class.Reason)
	}
	if class.Value != "KENTUCKY STRAIGHT BOURBON WHISKEY" {
		t.Errorf("expected expanded class designation, got %q", class.Value)
	}
}

func TestClassType_ExpansionStopsAtABV(t *testing.T) {
	res := extractAll([]model.CanonicalBlock{
		cblock("STRAIGHT RYE WHISKEY", 50, 120, 300, 20),
		cblock("45% ALC/VOL", 50, 145, 120, 20),
	})

	class := res.Candidate(model.FieldClassType)
	if !class.Found {
		t.Fatalf("expected class found, got miss (%s)", class.Reason)
	}
	if strings.Contains(class.Value, "%") {
		t.Errorf("expansion crossed into the ABV line: %q", class.Value)
	}
}

func TestAlcohol_QualifiedBeatsFragment(t *testing.T) {
	res := extractAll([]model.CanonicalBlock{
		cblock("2%", 400, 800, 30, 10), // misread fragment
		cblock("45% Alc./Vol.", 50, 600, 150, 14),
	})

	abv := res.Candidate(model.FieldAlcoholPct)
	if !abv.Found {
		t.Fatalf("expected ABV found, got miss (%s)", abv.Reason)
	}
	if abv.Value != "45" {
		t.Errorf("expected qualified 45, got %q", abv.Value)
	}
	if abv.Rule != "abv_qualified" {
		t.Errorf("expected abv_qualified rule, got %s", abv.Rule)
	}
}

func TestAlcohol_LooseFallback(t *testing.T) {
	res := extractAll([]model.CanonicalBlock{
		cblock("40%", 50, 600, 60, 14),
	})

	abv := res.Candidate(model.FieldAlcoholPct)
	if !abv.Found {
		t.Fatalf("expected ABV found, got miss (%s)", abv.Reason)
	}
	if abv.Value != "40" {
		t.Errorf("expected 40, got %q", abv.Value)
	}
	if abv.Rule != "abv_loose" {
		t.Errorf("expected abv_loose rule, got %s", abv.Rule)
	}
}

func TestProof(t *testing.T) {
	res := extractAll([]model.CanonicalBlock{
		cblock("90 PROOF", 50, 630, 100, 14),
	})

	proof := res.Candidate(model.FieldProof)
	if !proof.Found {
		t.Fatalf("expected proof found, got miss (%s)", proof.Reason)
	}
	if proof.Value != "90" {
		t.Errorf("expected sanitized 90, got %q", proof.Value)
	}
}

func TestNetContents_Metric(t *testing.T) {
	res := extractAll([]model.CanonicalBlock{
		cblock("750 mL", 50, 900, 80, 12),
	})

	net := res.Candidate(model.FieldNetContents)
	if !net.Found {
		t.Fatalf("expected net contents found, got miss (%s)", net.Reason)
	}
	if net.Value != "750 mL" {
		t.Errorf("expected 750 mL, got %q", net.Value)
	}
}

func TestNetContents_FluidOunces(t *testing.T) {
	res := extractAll([]model.CanonicalBlock{
		cblock("25.4 FL OZ", 50, 900, 100, 12),
	})

	net := res.Candidate(model.FieldNetContents)
	if !net.Found {
		t.Fatalf("expected net contents found, got miss (%s)", net.Reason)
	}
	if net.Value != "751 mL" {
		t.Errorf("expected 751 mL from 25.4 fl oz, got %q", net.Value)
	}
}

func TestNetContents_CompoundImperial(t *testing.T) {
	res := extractAll([]model.CanonicalBlock{
		cblock("1 PINT 8 FL OZ", 50, 900, 140, 12),
	})

	net := res.Candidate(model.FieldNetContents)
	if !net.Found {
		t.Fatalf("expected net contents found, got miss (%s)", net.Reason)
	}
	if net.Value != "710 mL" {
		t.Errorf("expected 1 pint 8 fl oz to normalize to 710 mL, got %q", net.Value)
	}
	if net.Rule != "compound_imperial" {
		t.Errorf("expected compound_imperial rule, got %s", net.Rule)
	}
}

func TestNetContents_Liters(t *testing.T) {
	res := extractAll([]model.CanonicalBlock{
		cblock("1.75 L", 50, 900, 80, 12),
	})

	net := res.Candidate(model.FieldNetContents)
	if !net.Found {
		t.Fatalf("expected net contents found, got miss (%s)", net.Reason)
	}
	if net.Value != "1750 mL" {
		t.Errorf("expected 1750 mL, got %q", net.Value)
	}
}

func TestWarning_ColumnIsolation(t *testing.T) {
	// Warning column on the left, serving-facts panel on the right.
	blocks := []model.CanonicalBlock{
		cblock("GOVERNMENT WARNING: (1) According to the Surgeon General,", 20, 700, 300, 14),
		cblock("women should not drink alcoholic beverages during pregnancy", 20, 718, 300, 14),
		cblock("because of the risk of birth defects. (2) Consumption of alcoholic", 20, 736, 300, 14),
		cblock("beverages impairs your ability to drive a car or operate machinery,", 20, 754, 300, 14),
		cblock("and may cause health problems.", 20, 772, 200, 14),
		cblock("SERVING SIZE 1.5 FL OZ", 600, 700, 150, 12),
		cblock("CALORIES 96", 600, 718, 100, 12),
	}

	res := extractAll(blocks)
	warn := res.Candidate(model.FieldWarning)
	if !warn.Found {
		t.Fatalf("expected warning found, got miss (%s)", warn.Reason)
	}
	if !strings.Contains(warn.Value, "GOVERNMENT WARNING") {
		t.Errorf("expected header retained, got %q", warn.Value)
	}
	if !strings.Contains(warn.Value, "health problems") {
		t.Errorf("expected full statement captured, got %q", warn.Value)
	}
	if strings.Contains(strings.ToUpper(warn.Value), "SERVING") || strings.Contains(strings.ToUpper(warn.Value), "CALORIES") {
		t.Errorf("serving-facts column leaked into warning: %q", warn.Value)
	}
}

func TestWarning_Missing(t *testing.T) {
	res := extractAll([]model.CanonicalBlock{
		cblock("EAGLE PEAK", 50, 20, 300, 40),
	})
	warn := res.Candidate(model.FieldWarning)
	if warn.Found {
		t.Fatal("expected warning miss")
	}
	if warn.Reason != model.ReasonNoKeywordMatch {
		t.Errorf("expected no_keyword_match, got %s", warn.Reason)
	}
}

func TestSanitizeWarningText(t *testing.T) {
	in := "GOVERNMENT WARNING: | Serving Size 1.5 Fl Oz alcoholic alcoholic beverages --- impairs"
	out := sanitizeWarningText(in)
	if strings.Contains(out, "|") {
		t.Errorf("pipe artifact survived: %q", out)
	}
	if strings.Contains(strings.ToUpper(out), "SERVING SIZE") {
		t.Errorf("serving fragment survived: %q", out)
	}
	if strings.Contains(out, "alcoholic alcoholic") {
		t.Errorf("doubled word survived: %q", out)
	}
	if strings.Contains(out, "---") {
		t.Errorf("dash run survived: %q", out)
	}
}

func TestBottler_HeaderCollection(t *testing.T) {
	res := extractAll([]model.CanonicalBlock{
		cblock("DISTILLED AND BOTTLED BY", 50, 500, 250, 15),
		cblock("EAGLE PEAK CELLARS", 50, 520, 250, 15),
		cblock("Louisville, KY", 50, 540, 150, 15),
	})

	bottler := res.Candidate(model.FieldBottler)
	if !bottler.Found {
		t.Fatalf("expected bottler found, got miss (%s)", bottler.Reason)
	}
	if bottler.Rule != "header_pattern" {
		t.Errorf("expected header_pattern rule, got %s", bottler.Rule)
	}
	if !strings.Contains(bottler.Value, "EAGLE PEAK CELLARS") || !strings.Contains(bottler.Value, "Louisville, KY") {
		t.Errorf("expected name and address collected, got %q", bottler.Value)
	}
}

func TestBottler_HeaderStopsAtWarning(t *testing.T) {
	res := extractAll([]model.CanonicalBlock{
		cblock("BOTTLED BY", 50, 500, 120, 15),
		cblock("EAGLE PEAK CELLARS", 50, 520, 250, 15),
		cblock("GOVERNMENT WARNING: (1) According", 50, 540, 300, 15),
	})

	bottler := res.Candidate(model.FieldBottler)
	if !bottler.Found {
		t.Fatalf("expected bottler found, got miss (%s)", bottler.Reason)
	}
	if strings.Contains(strings.ToUpper(bottler.Value), "GOVERNMENT") {
		t.Errorf("collection crossed into the warning: %q", bottler.Value)
	}
}

func TestBottler_PositionalFallback(t *testing.T) {
	res := extractAll([]model.CanonicalBlock{
		cblock("Frontier Brewing Company, Portland, OR", 50, 500, 350, 14),
	})

	bottler := res.Candidate(model.FieldBottler)
	if !bottler.Found {
		t.Fatalf("expected bottler found, got miss (%s)", bottler.Reason)
	}
	if bottler.Rule != "positional_pattern" {
		t.Errorf("expected positional_pattern rule, got %s", bottler.Rule)
	}
	if !strings.Contains(bottler.Value, "Portland") || !strings.Contains(bottler.Value, "OR") {
		t.Errorf("expected city and state captured, got %q", bottler.Value)
	}
}

func TestCountry_OriginPattern(t *testing.T) {
	res := extractAll([]model.CanonicalBlock{
		cblock("PRODUCT OF SCOTLAND", 50, 950, 200, 12),
	})

	country := res.Candidate(model.FieldCountryOfOrigin)
	if !country.Found {
		t.Fatalf("expected country found, got miss (%s)", country.Reason)
	}
	if !strings.EqualFold(country.Value, "SCOTLAND") {
		t.Errorf("expected SCOTLAND, got %q", country.Value)
	}
	if country.Rule != "origin_pattern" {
		t.Errorf("expected origin_pattern rule, got %s", country.Rule)
	}
}

func TestCountry_KeywordFallback(t *testing.T) {
	res := extractAll([]model.CanonicalBlock{
		cblock("DISTILLED IN SCOTLAND", 50, 950, 200, 12),
	})

	country := res.Candidate(model.FieldCountryOfOrigin)
	if !country.Found {
		t.Fatalf("expected country found, got miss (%s)", country.Reason)
	}
	if country.Rule != "country_keyword" {
		t.Errorf("expected country_keyword rule, got %s", country.Rule)
	}
}

func TestExtract_FullLabel(t *testing.T) {
	blocks := []model.CanonicalBlock{
		cblock("STONES THROW DISTILLERY", 150, 30, 500, 60),
		cblock("KENTUCKY STRAIGHT", 200, 150, 400, 25),
		cblock("BOURBON WHISKEY", 200, 180, 400, 25),
		cblock("45% ALC/VOL", 150, 600, 140, 16),
		cblock("90 PROOF", 450, 600, 100, 16),
		cblock("750 mL", 320, 650, 90, 16),
		cblock("DISTILLED AND BOTTLED BY", 150, 700, 260, 14),
		cblock("STONES THROW DISTILLERY", 150, 718, 260, 14),
		cblock("Louisville, KY", 150, 736, 140, 14),
		cblock("GOVERNMENT WARNING: (1) According to the Surgeon General, women", 100, 800, 600, 14),
		cblock("should not drink alcoholic beverages during pregnancy because of the", 100, 818, 600, 14),
		cblock("risk of birth defects. (2) Consumption of alcoholic beverages impairs", 100, 836, 600, 14),
		cblock("your ability to drive a car or operate machinery, and may cause health", 100, 854, 600, 14),
		cblock("problems.", 100, 872, 80, 14),
	}

	res := extractAll(blocks)
	for _, field := range []model.FieldName{
		model.FieldBrandName,
		model.FieldClassType,
		model.FieldAlcoholPct,
		model.FieldProof,
		model.FieldNetContents,
		model.FieldWarning,
		model.FieldBottler,
	} {
		c := res.Candidate(field)
		if !c.Found {
			t.Errorf("%s: expected found, got miss (%s)", field, c.Reason)
		}
	}

	if got := res.Candidate(model.FieldAlcoholPct).Value; got != "45" {
		t.Errorf("abv: expected 45, got %q", got)
	}
	if got := res.Candidate(model.FieldNetContents).Value; got != "750 mL" {
		t.Errorf("net contents: expected 750 mL, got %q", got)
	}
	if country := res.Candidate(model.FieldCountryOfOrigin); country.Found {
		t.Errorf("domestic label: unexpected country candidate %q", country.Value)
	}
}
