package rules

import (
	"strings"

	"github.com/agnivade/levenshtein"

	"github.com/labelcheck/labelcheck/internal/model"
)

// Similarity returns the fuzzy similarity score of two strings in [0,1]:
// one minus the normalized edit distance over the normalized, case-folded
// inputs. Tolerant of the minor character substitutions OCR introduces.
func Similarity(a, b string) float64 {
	a = strings.ToLower(Normalize(a))
	b = strings.ToLower(Normalize(b))
	if a == b {
		if a == "" {
			return 0
		}
		return 1
	}
	if a == "" || b == "" {
		return 0
	}
	dist := levenshtein.ComputeDistance(a, b)
	longest := max(len([]rune(a)), len([]rune(b)))
	return 1 - float64(dist)/float64(longest)
}

// StatusForScore maps a similarity score onto the tri-state outcome. The
// cutoffs are inclusive: a score exactly at the pass cutoff passes, exactly
// at the review floor needs review.
func StatusForScore(score float64, th model.Thresholds) model.Status {
	switch {
	case score >= th.Pass:
		return model.StatusPass
	case score >= th.Review:
		return model.StatusNeedsReview
	default:
		return model.StatusFail
	}
}
