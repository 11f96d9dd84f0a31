package extract

import (
	"strings"

	"github.com/labelcheck/labelcheck/internal/model"
)

// countryStrategy finds a country-of-origin statement by pattern ("Product
// of X", "Made in X", ...) and falls back to scanning short blocks for a
// known country name. The rule engine only requires the field when the
// application marks the product imported.
type countryStrategy struct{}

func (s *countryStrategy) Field() model.FieldName { return model.FieldCountryOfOrigin }

func (s *countryStrategy) Extract(blocks []model.CanonicalBlock, env *Env) model.FieldCandidate {
	for _, b := range blocks {
		m := reCountry.FindStringSubmatch(b.Text)
		if m == nil {
			continue
		}
		value := ""
		for _, g := range m[1:] {
			if g != "" {
				value = g
				break
			}
		}
		if value == "" {
			value = m[0]
		}
		return model.FieldCandidate{
			Field:  model.FieldCountryOfOrigin,
			Value:  strings.TrimSpace(value),
			Found:  true,
			Blocks: []model.CanonicalBlock{b},
			Rule:   "origin_pattern",
		}
	}

	for _, b := range blocks {
		lower := strings.ToLower(strings.TrimSpace(b.Text))
		if len(lower) >= 40 {
			continue
		}
		for _, country := range env.countries {
			if strings.Contains(lower, country) {
				return model.FieldCandidate{
					Field:  model.FieldCountryOfOrigin,
					Value:  strings.TrimSpace(b.Text),
					Found:  true,
					Blocks: []model.CanonicalBlock{b},
					Rule:   "country_keyword",
				}
			}
		}
	}
	return model.NotFound(model.FieldCountryOfOrigin, model.ReasonNoKeywordMatch)
}
