// Package dedupe merges near-duplicate OCR detections from multiple
// recognition passes into canonical blocks.
package dedupe

import (
	"sort"
	"strings"

	"github.com/agnivade/levenshtein"

	"github.com/labelcheck/labelcheck/internal/model"
)

// Deduper clusters raw blocks by bounding-box overlap and text similarity.
type Deduper struct {
	iouThreshold  float64
	textThreshold float64
	unionBBox     bool
}

// New creates a deduper from the configured thresholds.
func New(cfg *model.Config) *Deduper {
	return &Deduper{
		iouThreshold:  cfg.Dedupe.IoUThreshold,
		textThreshold: cfg.Dedupe.TextThreshold,
		unionBBox:     cfg.Dedupe.CanonicalBBox == "union",
	}
}

// TextSimilarity returns a normalized edit-distance score in [0,1] between
// the two block texts, whitespace-collapsed and case-folded.
func TextSimilarity(a, b string) float64 {
	a = foldText(a)
	b = foldText(b)
	if a == b {
		return 1
	}
	if a == "" || b == "" {
		return 0
	}
	dist := levenshtein.ComputeDistance(a, b)
	longest := max(len([]rune(a)), len([]rune(b)))
	return 1 - float64(dist)/float64(longest)
}

func foldText(s string) string {
	return strings.ToLower(strings.Join(strings.Fields(s), " "))
}

// Cluster groups the blocks transitively: two blocks join the same cluster
// iff their IoU and text similarity both meet the thresholds, and duplicate
// chains across three or more passes collapse through union-find. One
// canonical block per cluster is returned, in reading order, each retaining
// its constituent detections. The operation is idempotent and independent of
// pass execution order.
func (d *Deduper) Cluster(blocks []model.TextBlock) []model.CanonicalBlock {
	if len(blocks) == 0 {
		return nil
	}

	parent := make([]int, len(blocks))
	for i := range parent {
		parent[i] = i
	}
	var find func(int) int
	find = func(i int) int {
		if parent[i] != i {
			parent[i] = find(parent[i])
		}
		return parent[i]
	}
	union := func(a, b int) {
		ra, rb := find(a), find(b)
		if ra != rb {
			parent[rb] = ra
		}
	}

	for i := 0; i < len(blocks); i++ {
		for j := i + 1; j < len(blocks); j++ {
			if blocks[i].BBox.IoU(blocks[j].BBox) < d.iouThreshold {
				continue
			}
			if TextSimilarity(blocks[i].Text, blocks[j].Text) < d.textThreshold {
				continue
			}
			union(i, j)
		}
	}

	clusters := make(map[int][]model.TextBlock)
	for i, b := range blocks {
		root := find(i)
		clusters[root] = append(clusters[root], b)
	}

	out := make([]model.CanonicalBlock, 0, len(clusters))
	for _, members := range clusters {
		out = append(out, d.canonical(members))
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].BBox.Y != out[j].BBox.Y {
			return out[i].BBox.Y < out[j].BBox.Y
		}
		if out[i].BBox.X != out[j].BBox.X {
			return out[i].BBox.X < out[j].BBox.X
		}
		return out[i].Text < out[j].Text
	})
	return out
}

// canonical picks the cluster representative: highest confidence, ties broken
// by larger bbox area, then lexicographically smallest source pass. The total
// ordering makes the pick independent of pass completion order.
func (d *Deduper) canonical(members []model.TextBlock) model.CanonicalBlock {
	rep := members[0]
	for _, b := range members[1:] {
		if better(b, rep) {
			rep = b
		}
	}

	sources := append([]model.TextBlock(nil), members...)
	sort.Slice(sources, func(i, j int) bool {
		if sources[i].SourcePass != sources[j].SourcePass {
			return sources[i].SourcePass < sources[j].SourcePass
		}
		if sources[i].BBox.Y != sources[j].BBox.Y {
			return sources[i].BBox.Y < sources[j].BBox.Y
		}
		return sources[i].BBox.X < sources[j].BBox.X
	})

	cb := model.CanonicalBlock{TextBlock: rep, Sources: sources}
	if d.unionBBox {
		box := sources[0].BBox
		for _, s := range sources[1:] {
			box = box.Union(s.BBox)
		}
		cb.BBox = box
	}
	return cb
}

func better(a, b model.TextBlock) bool {
	if a.Confidence != b.Confidence {
		return a.Confidence > b.Confidence
	}
	if a.BBox.Area() != b.BBox.Area() {
		return a.BBox.Area() > b.BBox.Area()
	}
	if a.SourcePass != b.SourcePass {
		return a.SourcePass < b.SourcePass
	}
	return a.Text < b.Text
}
