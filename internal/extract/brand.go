package extract

import (
	"strings"

	"github.com/labelcheck/labelcheck/internal/model"
)

// brandStrategy anchors the brand on domain-suffix keywords (Distillery,
// Brewery, Winery, ...): the text through a domain suffix is the brand, a
// corporate suffix (Inc, LLC, Co, ...) is stripped along with everything
// after it. Falls back to the most prominent top-half block.
type brandStrategy struct{}

func (s *brandStrategy) Field() model.FieldName { return model.FieldBrandName }

func (s *brandStrategy) Extract(blocks []model.CanonicalBlock, env *Env) model.FieldCandidate {
	if len(blocks) == 0 {
		return model.NotFound(model.FieldBrandName, model.ReasonNoBlocks)
	}

	for i, b := range blocks {
		upper := strings.ToUpper(strings.TrimSpace(b.Text))
		for _, word := range strings.Fields(upper) {
			if !env.allSuffixes[word] {
				continue
			}
			if env.brandSuffixes[word] {
				// Domain suffix stays in the brand: cut after it.
				full := strings.TrimSpace(b.Text)
				if idx := strings.Index(strings.ToUpper(full), word); idx >= 0 {
					full = strings.TrimSpace(full[:idx+len(word)])
				}
				if len(full) >= 3 {
					return model.FieldCandidate{
						Field:  model.FieldBrandName,
						Value:  full,
						Found:  true,
						Blocks: []model.CanonicalBlock{b},
						Rule:   "domain_suffix",
					}
				}
			} else {
				// Corporate suffix: the brand is what precedes it.
				prefix := strings.TrimSpace(strings.SplitN(upper, word, 2)[0])
				if len(prefix) >= 2 {
					return model.FieldCandidate{
						Field:  model.FieldBrandName,
						Value:  prefix,
						Found:  true,
						Blocks: []model.CanonicalBlock{b},
						Rule:   "corp_suffix_strip",
					}
				}
				if i > 0 {
					prev := blocks[i-1]
					if t := strings.TrimSpace(prev.Text); t != "" && !env.isJunk(t) && len(t) >= 2 {
						return model.FieldCandidate{
							Field:  model.FieldBrandName,
							Value:  t,
							Found:  true,
							Blocks: []model.CanonicalBlock{prev},
							Rule:   "corp_suffix_prev_block",
						}
					}
				}
			}
			break // one suffix per block
		}
	}

	return s.prominentFallback(blocks, env)
}

// prominentFallback scores top-half blocks by height x text length; the
// biggest non-junk, non-class, non-numeric block is the likely brand.
func (s *brandStrategy) prominentFallback(blocks []model.CanonicalBlock, env *Env) model.FieldCandidate {
	maxY := 0
	for _, b := range blocks {
		if bottom := b.BBox.Y + b.BBox.H; bottom > maxY {
			maxY = bottom
		}
	}
	topHalf := make([]model.CanonicalBlock, 0, len(blocks))
	for _, b := range blocks {
		if b.BBox.CenterY() < float64(maxY)*0.55 {
			topHalf = append(topHalf, b)
		}
	}
	if len(topHalf) == 0 {
		topHalf = blocks[:max(1, len(blocks)/2)]
	}

	bestScore := 0
	var best *model.CanonicalBlock
	for i := range topHalf {
		t := strings.TrimSpace(topHalf[i].Text)
		if env.isJunk(t) || env.classRe.MatchString(t) || reLeadingDigit.MatchString(t) {
			continue
		}
		score := blockHeight(topHalf[i]) * len(t)
		if score > bestScore {
			bestScore = score
			best = &topHalf[i]
		}
	}
	if best == nil {
		return model.NotFound(model.FieldBrandName, model.ReasonNoKeywordMatch)
	}
	return model.FieldCandidate{
		Field:  model.FieldBrandName,
		Value:  strings.TrimSpace(best.Text),
		Found:  true,
		Blocks: []model.CanonicalBlock{*best},
		Rule:   "prominent_top_block",
	}
}
