package extract

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/labelcheck/labelcheck/internal/model"
)

// abvStrictStrategy extracts alcohol content from blocks carrying an
// explicit ALC / VOL qualifier, preferring plausible percentages so a
// misread fragment like "2%" loses to "45% Alc./Vol.".
type abvStrictStrategy struct{}

func (s *abvStrictStrategy) Field() model.FieldName { return model.FieldAlcoholPct }

func (s *abvStrictStrategy) Extract(blocks []model.CanonicalBlock, env *Env) model.FieldCandidate {
	type candidate struct {
		pct   string
		block model.CanonicalBlock
		score float64
	}
	var candidates []candidate
	for _, b := range blocks {
		m := reABVStrict.FindStringSubmatch(b.Text)
		if m == nil {
			m = reABVQual.FindStringSubmatch(b.Text)
		}
		if m == nil {
			continue
		}
		score := 0.5
		if abvPlausible(m[1], env.Cfg) {
			score = 1.0
		}
		upper := strings.ToUpper(b.Text)
		if strings.Contains(upper, "ALC") || strings.Contains(upper, "VOL") || strings.Contains(upper, "PROOF") {
			score += 1.0
		}
		candidates = append(candidates, candidate{pct: m[1], block: b, score: score})
	}
	if len(candidates) > 0 {
		best := candidates[0]
		for _, c := range candidates[1:] {
			if c.score > best.score {
				best = c
			}
		}
		return model.FieldCandidate{
			Field:  model.FieldAlcoholPct,
			Value:  best.pct,
			Found:  true,
			Blocks: []model.CanonicalBlock{best.block},
			Rule:   "abv_qualified",
		}
	}

	// Qualifier split across blocks: retry against the combined text.
	combined := joinTexts(blocks)
	m := reABVStrict.FindStringSubmatch(combined)
	if m == nil {
		m = reABVQual.FindStringSubmatch(combined)
	}
	if m != nil {
		cand := model.FieldCandidate{
			Field: model.FieldAlcoholPct,
			Value: m[1],
			Found: true,
			Rule:  "abv_combined",
		}
		for _, b := range blocks {
			if strings.Contains(b.Text, m[1]) || strings.Contains(b.Text, "%") {
				cand.Blocks = []model.CanonicalBlock{b}
				break
			}
		}
		return cand
	}
	return model.NotFound(model.FieldAlcoholPct, model.ReasonNoPatternMatch)
}

// abvLooseStrategy is the last-resort percent scan, consulted only when the
// qualified strategy missed. Plausible values win over implausible ones.
type abvLooseStrategy struct{}

func (s *abvLooseStrategy) Field() model.FieldName { return model.FieldAlcoholPct }

func (s *abvLooseStrategy) Extract(blocks []model.CanonicalBlock, env *Env) model.FieldCandidate {
	var fallback *model.FieldCandidate
	for _, b := range blocks {
		for _, m := range reABVLoose.FindAllStringSubmatch(b.Text, -1) {
			cand := model.FieldCandidate{
				Field:  model.FieldAlcoholPct,
				Value:  m[1],
				Found:  true,
				Blocks: []model.CanonicalBlock{b},
				Rule:   "abv_loose",
			}
			if abvPlausible(m[1], env.Cfg) {
				return cand
			}
			if fallback == nil {
				fallback = &cand
			}
		}
	}
	if fallback != nil {
		return *fallback
	}
	return model.NotFound(model.FieldAlcoholPct, model.ReasonNoPatternMatch)
}

func abvPlausible(pct string, cfg *model.Config) bool {
	v, err := strconv.ParseFloat(strings.TrimSuffix(strings.TrimSpace(pct), "%"), 64)
	if err != nil {
		return false
	}
	return v >= cfg.ABV.MinPlausible && v <= cfg.ABV.MaxPlausible
}

var reProofNumeric = regexp.MustCompile(`^\d+(?:\.\d+)?$`)

// proofStrategy extracts the proof statement, sanitized to the bare number.
type proofStrategy struct{}

func (s *proofStrategy) Field() model.FieldName { return model.FieldProof }

func (s *proofStrategy) Extract(blocks []model.CanonicalBlock, env *Env) model.FieldCandidate {
	for _, b := range blocks {
		if m := reProof.FindStringSubmatch(b.Text); m != nil && reProofNumeric.MatchString(m[1]) {
			return model.FieldCandidate{
				Field:  model.FieldProof,
				Value:  m[1],
				Found:  true,
				Blocks: []model.CanonicalBlock{b},
				Rule:   "proof_pattern",
			}
		}
	}
	if m := reProof.FindStringSubmatch(joinTexts(blocks)); m != nil && reProofNumeric.MatchString(m[1]) {
		return model.FieldCandidate{
			Field: model.FieldProof,
			Value: m[1],
			Found: true,
			Rule:  "proof_combined",
		}
	}
	return model.NotFound(model.FieldProof, model.ReasonNoPatternMatch)
}
