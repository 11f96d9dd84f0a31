// Package pipeline orchestrates the complete label check: preprocess,
// recognition, deduplication, extraction, rule evaluation, scoring.
package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/labelcheck/labelcheck/internal/cache"
	"github.com/labelcheck/labelcheck/internal/dedupe"
	"github.com/labelcheck/labelcheck/internal/extract"
	"github.com/labelcheck/labelcheck/internal/model"
	"github.com/labelcheck/labelcheck/internal/ocr"
	"github.com/labelcheck/labelcheck/internal/preprocess"
	"github.com/labelcheck/labelcheck/internal/rules"
	"github.com/labelcheck/labelcheck/internal/score"
)

// Checker runs the full verification pipeline for one label image against
// one application record.
type Checker struct {
	runner    *ocr.Runner
	deduper   *dedupe.Deduper
	extractor *extract.Extractor
	engine    *rules.Engine
	scorer    *score.Scorer
	blocks    cache.BlockCache
	config    *model.Config
}

// NewChecker creates a checker over the given recognition engine and
// configuration. Pass a nil cache to disable block caching.
func NewChecker(engine ocr.Engine, blockCache cache.BlockCache, cfg *model.Config) *Checker {
	return &Checker{
		runner:    ocr.NewRunner(engine, cfg),
		deduper:   dedupe.New(cfg),
		extractor: extract.NewExtractor(),
		engine:    rules.NewEngine(cfg),
		scorer:    score.NewScorer(),
		blocks:    blockCache,
		config:    cfg,
	}
}

// Check verifies a label image against the application record and returns the
// checklist. Recognition failures surface as errors; a field missing from the
// label is a checklist Fail, never an error.
func (c *Checker) Check(ctx context.Context, image []byte, rec *model.ApplicationRecord) (*model.Checklist, error) {
	if err := rec.Validate(); err != nil {
		return nil, err
	}

	canonical, err := c.canonicalBlocks(ctx, image)
	if err != nil {
		return nil, err
	}

	extracted := c.extractor.Extract(canonical, c.config)
	results := c.engine.Evaluate(extracted, rec)
	checklist := c.scorer.Aggregate(results)
	return &checklist, nil
}

// canonicalBlocks produces the deduplicated block set for the image, serving
// from cache when the identical image was processed recently.
func (c *Checker) canonicalBlocks(ctx context.Context, image []byte) ([]model.CanonicalBlock, error) {
	key := cache.ImageKey(image)
	if c.blocks != nil {
		if cached, ok := c.blocks.Get(key); ok {
			return cached, nil
		}
	}

	variants, err := preprocess.Variants(ctx, image, c.config)
	if err != nil {
		return nil, err
	}

	raw, err := c.runner.Run(ctx, variants)
	if err != nil {
		return nil, fmt.Errorf("recognition: %w", err)
	}

	canonical := c.deduper.Cluster(raw)

	if c.blocks != nil {
		ttl := time.Duration(c.config.CacheTTLSeconds) * time.Second
		_ = c.blocks.Set(key, canonical, ttl)
	}
	return canonical, nil
}
