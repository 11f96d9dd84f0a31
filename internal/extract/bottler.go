package extract

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/labelcheck/labelcheck/internal/model"
)

var rePctLead = regexp.MustCompile(`^\d+\s*%`)

// bottlerHeaderStrategy matches a responsibility header ("Distilled and
// Bottled by", "Produced by", ...) and collects the following address lines.
type bottlerHeaderStrategy struct{}

func (s *bottlerHeaderStrategy) Field() model.FieldName { return model.FieldBottler }

func (s *bottlerHeaderStrategy) Extract(blocks []model.CanonicalBlock, env *Env) model.FieldCandidate {
	for i, b := range blocks {
		if !reBottlerHeader.MatchString(b.Text) {
			continue
		}
		collected := []model.CanonicalBlock{b}
		lineH := blockHeight(b)
		// Up to 8 following blocks so the address line is usually included.
		for j := i + 1; j < len(blocks) && j <= i+8; j++ {
			nb := blocks[j]
			if yDistance(nb, b) > float64(lineH*5) {
				break
			}
			nt := strings.TrimSpace(nb.Text)
			upper := strings.ToUpper(nt)
			if env.isJunk(nt) && len(nt) < 3 {
				continue
			}
			if strings.Contains(upper, "GOVERNMENT") || strings.Contains(upper, "WARNING") {
				break
			}
			if rePctLead.MatchString(nt) || reNet.MatchString(nt) || reCountry.MatchString(nt) {
				break
			}
			if strings.HasPrefix(upper, "CONTAINS") {
				break
			}
			collected = append(collected, nb)
		}
		// The header phrase itself is not part of the bottler's name; the
		// application record carries only name and address.
		value := joinTexts(collected)
		if header := reBottlerHeader.FindString(value); header != "" {
			value = strings.Replace(value, header, "", 1)
		}
		value = strings.TrimLeft(strings.TrimSpace(value), ":,. ")
		if value == "" {
			value = joinTexts(collected)
		}
		return model.FieldCandidate{
			Field:  model.FieldBottler,
			Value:  strings.TrimSpace(value),
			Found:  true,
			Blocks: collected,
			Rule:   "header_pattern",
		}
	}
	return model.NotFound(model.FieldBottler, model.ReasonNoKeywordMatch)
}

// bottlerPositionalStrategy is the headerless fallback: a
// "CompanyName, City, ST" shape anywhere in the combined text.
type bottlerPositionalStrategy struct{}

func (s *bottlerPositionalStrategy) Field() model.FieldName { return model.FieldBottler }

func (s *bottlerPositionalStrategy) Extract(blocks []model.CanonicalBlock, env *Env) model.FieldCandidate {
	m := reBottlerFallback.FindStringSubmatch(joinTexts(blocks))
	if m == nil {
		return model.NotFound(model.FieldBottler, model.ReasonNoPatternMatch)
	}
	name := strings.TrimSpace(m[1])
	city := strings.TrimSpace(m[2])
	state := strings.TrimSpace(m[3])
	cand := model.FieldCandidate{
		Field: model.FieldBottler,
		Value: fmt.Sprintf("%s, %s, %s", name, city, state),
		Found: true,
		Rule:  "positional_pattern",
	}
	if first := strings.Fields(name); len(first) > 0 {
		for _, b := range blocks {
			if strings.Contains(b.Text, first[0]) {
				cand.Blocks = []model.CanonicalBlock{b}
				break
			}
		}
	}
	return cand
}

// bottlerSealStrategy covers spirits labels carrying a DSP permit or
// distillery seal but no responsibility header.
type bottlerSealStrategy struct{}

func (s *bottlerSealStrategy) Field() model.FieldName { return model.FieldBottler }

func (s *bottlerSealStrategy) Extract(blocks []model.CanonicalBlock, env *Env) model.FieldCandidate {
	for _, b := range blocks {
		upper := strings.ToUpper(strings.TrimSpace(b.Text))
		if !strings.Contains(upper, "DSP") && !strings.Contains(upper, "DISTILLERY") {
			continue
		}
		if strings.Contains(upper, "GOVERNMENT") && strings.Contains(upper, "WARNING") {
			continue
		}
		if val := strings.TrimSpace(b.Text); len(val) >= 4 {
			return model.FieldCandidate{
				Field:  model.FieldBottler,
				Value:  val,
				Found:  true,
				Blocks: []model.CanonicalBlock{b},
				Rule:   "dsp_seal",
			}
		}
	}
	return model.NotFound(model.FieldBottler, model.ReasonNoKeywordMatch)
}
