// Package extract infers typed field candidates from canonical OCR blocks
// using spatial and keyword heuristics. One or more strategies target each
// field behind a common interface; strategies run in a fixed priority order
// and the first non-miss per field wins — there is no voting.
package extract

import (
	"sort"

	"github.com/labelcheck/labelcheck/internal/model"
)

// Strategy is one extraction heuristic for a single field.
type Strategy interface {
	Field() model.FieldName
	Extract(blocks []model.CanonicalBlock, env *Env) model.FieldCandidate
}

// Result carries the per-field candidates plus the reading-ordered block set
// the rule engine scans for conditional statements.
type Result struct {
	Candidates map[model.FieldName]model.FieldCandidate
	Blocks     []model.CanonicalBlock
}

// Candidate returns the candidate for the field, or an explicit no-blocks
// miss when no strategy targeted it.
func (r *Result) Candidate(field model.FieldName) model.FieldCandidate {
	if c, ok := r.Candidates[field]; ok {
		return c
	}
	return model.NotFound(field, model.ReasonNoBlocks)
}

// Extractor dispatches the registered strategies.
type Extractor struct {
	strategies []Strategy
}

// NewExtractor builds the registry in priority order. Strategies for the
// same field are consulted top to bottom; the first that finds a candidate
// wins for that field.
func NewExtractor() *Extractor {
	return &Extractor{strategies: []Strategy{
		&brandStrategy{},
		&classTypeStrategy{},
		&abvStrictStrategy{},
		&abvLooseStrategy{},
		&proofStrategy{},
		&netContentsStrategy{},
		&warningStrategy{},
		&bottlerHeaderStrategy{},
		&bottlerPositionalStrategy{},
		&bottlerSealStrategy{},
		&countryStrategy{},
	}}
}

// Extract runs every strategy over the blocks. Misses are recorded with
// their reason codes so downstream Fail messages stay explainable; a field
// whose strategies all miss keeps the first miss's reason.
func (e *Extractor) Extract(blocks []model.CanonicalBlock, cfg *model.Config) *Result {
	sorted := append([]model.CanonicalBlock(nil), blocks...)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].BBox.Y != sorted[j].BBox.Y {
			return sorted[i].BBox.Y < sorted[j].BBox.Y
		}
		return sorted[i].BBox.X < sorted[j].BBox.X
	})

	env := newEnv(cfg)
	res := &Result{
		Candidates: make(map[model.FieldName]model.FieldCandidate),
		Blocks:     sorted,
	}
	for _, s := range e.strategies {
		if prev, ok := res.Candidates[s.Field()]; ok && prev.Found {
			continue
		}
		cand := s.Extract(sorted, env)
		if _, ok := res.Candidates[s.Field()]; ok && !cand.Found {
			// Keep the first miss's reason.
			continue
		}
		res.Candidates[s.Field()] = cand
	}
	return res
}
