package extract

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/labelcheck/labelcheck/internal/model"
)

// netContentsStrategy parses the net contents statement, metric or imperial,
// and normalizes it to a single milliliter value via the configured
// conversion factors. Compound imperial expressions ("1 PINT 8 FL OZ") are
// summed before conversion.
type netContentsStrategy struct{}

func (s *netContentsStrategy) Field() model.FieldName { return model.FieldNetContents }

func (s *netContentsStrategy) Extract(blocks []model.CanonicalBlock, env *Env) model.FieldCandidate {
	combined := joinTexts(blocks)

	if m := reCompoundNet.FindStringSubmatch(combined); m != nil {
		pints, _ := strconv.Atoi(m[1])
		oz, _ := strconv.Atoi(m[2])
		totalOz := float64(pints)*env.Cfg.NetContents.FlOzPerPint + float64(oz)
		ml := int(math.Round(totalOz * env.Cfg.NetContents.MLPerFlOz))
		cand := model.FieldCandidate{
			Field: model.FieldNetContents,
			Value: fmt.Sprintf("%d mL", ml),
			Found: true,
			Rule:  "compound_imperial",
		}
		for _, b := range blocks {
			upper := strings.ToUpper(b.Text)
			if strings.Contains(upper, "PINT") || strings.Contains(upper, "PT") || strings.Contains(upper, "FL") {
				cand.Blocks = []model.CanonicalBlock{b}
				break
			}
		}
		return cand
	}

	for _, b := range blocks {
		if m := reNet.FindStringSubmatch(b.Text); m != nil {
			return s.fromMatch(m, []model.CanonicalBlock{b}, env)
		}
	}
	if m := reNet.FindStringSubmatch(combined); m != nil {
		var src []model.CanonicalBlock
		for _, b := range blocks {
			lower := strings.ToLower(b.Text)
			if strings.Contains(b.Text, m[1]) || strings.Contains(lower, "ml") ||
				strings.Contains(lower, "oz") || strings.Contains(lower, "qt") {
				src = []model.CanonicalBlock{b}
				break
			}
		}
		return s.fromMatch(m, src, env)
	}
	return model.NotFound(model.FieldNetContents, model.ReasonNoPatternMatch)
}

func (s *netContentsStrategy) fromMatch(m []string, src []model.CanonicalBlock, env *Env) model.FieldCandidate {
	num, err := strconv.ParseFloat(m[1], 64)
	if err != nil {
		return model.NotFound(model.FieldNetContents, model.ReasonNoPatternMatch)
	}
	unit := strings.ToLower(strings.TrimRight(strings.TrimSpace(m[2]), "."))
	unit = strings.Join(strings.Fields(unit), " ")

	nc := env.Cfg.NetContents
	var ml float64
	switch {
	case unit == "ml":
		ml = num
	case unit == "l" || unit == "litre" || unit == "liter":
		ml = num * 1000
	case strings.Contains(unit, "fl") || strings.Contains(unit, "fluid"):
		ml = num * nc.MLPerFlOz
	case unit == "qt" || unit == "quart":
		ml = num * nc.FlOzPerQuart * nc.MLPerFlOz
	case unit == "pt" || unit == "pint":
		ml = num * nc.FlOzPerPint * nc.MLPerFlOz
	case unit == "gal" || unit == "gallon":
		ml = num * nc.FlOzPerGallon * nc.MLPerFlOz
	default:
		ml = num
	}
	return model.FieldCandidate{
		Field:  model.FieldNetContents,
		Value:  fmt.Sprintf("%d mL", int(math.Round(ml))),
		Found:  true,
		Blocks: src,
		Rule:   "unit_pattern",
	}
}
