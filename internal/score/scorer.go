// Package score aggregates rule results into the final checklist verdict.
package score

import (
	"sort"

	"github.com/labelcheck/labelcheck/internal/model"
)

// Scorer rolls individual rule outcomes up to an overall verdict.
type Scorer struct{}

// NewScorer creates a new scorer
func NewScorer() *Scorer {
	return &Scorer{}
}

// Aggregate orders results by category and derives the overall status. The
// verdict depends only on the multiset of statuses: any Fail is critical,
// otherwise any NeedsReview needs review, otherwise ready to approve.
func (s *Scorer) Aggregate(results []model.RuleResult) model.Checklist {
	ordered := make([]model.RuleResult, len(results))
	copy(ordered, results)

	rank := make(map[model.Category]int, len(model.CategoryOrder))
	for i, c := range model.CategoryOrder {
		rank[c] = i
	}
	sort.SliceStable(ordered, func(i, j int) bool {
		return rank[ordered[i].Category] < rank[ordered[j].Category]
	})

	var counts model.StatusCounts
	for _, r := range ordered {
		switch r.Status {
		case model.StatusPass:
			counts.Pass++
		case model.StatusNeedsReview:
			counts.NeedsReview++
		case model.StatusFail:
			counts.Fail++
		}
	}

	overall := model.OverallReadyToApprove
	if counts.NeedsReview > 0 {
		overall = model.OverallNeedsReview
	}
	if counts.Fail > 0 {
		overall = model.OverallCriticalIssues
	}

	return model.Checklist{
		Results: ordered,
		Overall: overall,
		Counts:  counts,
	}
}
