package extract

import (
	"regexp"
	"strings"

	"github.com/labelcheck/labelcheck/internal/model"
)

var reWord = regexp.MustCompile(`\w+`)

// classTypeStrategy finds the class/type designation: an anchor block
// matching the configured keyword list, expanded to adjacent lines of class
// adjectives. Expansion stops at the first disqualifying block (ABV marker,
// bottler header, net contents) to avoid over-capture.
type classTypeStrategy struct{}

func (s *classTypeStrategy) Field() model.FieldName { return model.FieldClassType }

func (s *classTypeStrategy) Extract(blocks []model.CanonicalBlock, env *Env) model.FieldCandidate {
	if len(blocks) == 0 {
		return model.NotFound(model.FieldClassType, model.ReasonNoBlocks)
	}

	anchorIdx := -1
	sawDisqualified := false
	for i, b := range blocks {
		t := b.Text
		if !env.classRe.MatchString(t) {
			continue
		}
		if env.isStopContent(t) || reABVQual.MatchString(t) {
			sawDisqualified = true
			continue
		}
		// Reject brand-like blocks: only a weak word (e.g. RESERVE) and short.
		words := upperSet(reWord.FindAllString(t, -1))
		hasStrong := false
		for w := range words {
			if env.strongClass[w] {
				hasStrong = true
				break
			}
		}
		if !hasStrong && len(words) <= 3 {
			continue
		}
		anchorIdx = i
		break
	}

	if anchorIdx < 0 {
		if m := env.classRe.FindString(joinTexts(blocks)); m != "" && !sawDisqualified {
			return model.FieldCandidate{
				Field: model.FieldClassType,
				Value: strings.TrimSpace(m),
				Found: true,
				Rule:  "combined_text",
			}
		}
		if sawDisqualified {
			return model.NotFound(model.FieldClassType, model.ReasonDisqualifierHit)
		}
		return model.NotFound(model.FieldClassType, model.ReasonNoKeywordMatch)
	}

	anchor := blocks[anchorIdx]
	yThresh := float64(blockHeight(anchor)) * 3
	collected := []model.CanonicalBlock{anchor}

	expand := func(b model.CanonicalBlock) bool {
		t := strings.TrimSpace(b.Text)
		return env.classRe.MatchString(t) || env.classAdj[strings.ToUpper(t)]
	}

	for j := anchorIdx - 1; j >= 0 && j >= anchorIdx-3; j-- {
		b := blocks[j]
		if yDistance(b, anchor) > yThresh || env.isStopContent(b.Text) {
			break
		}
		if !expand(b) {
			break
		}
		collected = append([]model.CanonicalBlock{b}, collected...)
	}
	for j := anchorIdx + 1; j < len(blocks) && j <= anchorIdx+3; j++ {
		b := blocks[j]
		if yDistance(b, anchor) > yThresh || env.isStopContent(b.Text) {
			break
		}
		if !expand(b) {
			break
		}
		collected = append(collected, b)
	}

	return model.FieldCandidate{
		Field:  model.FieldClassType,
		Value:  joinTexts(collected),
		Found:  true,
		Blocks: collected,
		Rule:   "keyword_anchor",
	}
}
