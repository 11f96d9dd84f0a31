package extract

import (
	"regexp"
	"strings"

	"github.com/labelcheck/labelcheck/internal/model"
)

var (
	reServingFragment = regexp.MustCompile(`(?i)(?:Serying|Serving)\s+Size\s+[\d.]+\s*(?:Fl\s*Oz|ml)?\s*`)
	reNutrientRow     = regexp.MustCompile(`(?i)\|\s*(?:Protein|Calories|Carbohydrate|Fat)\s*[\d.]*g?\s*`)
	rePipes           = regexp.MustCompile(`[|}]\s*`)
	reLongDashes      = regexp.MustCompile(`[—\-]{3,}`)
	reDoubledWord     = regexp.MustCompile(`(?i)\b(alcoholic)\s+(?i:alcoholic)\s+`)
	reSpaces          = regexp.MustCompile(`\s+`)
	reWarningHeader   = regexp.MustCompile(`^[^a-z]*GOVERNMENT\s+WARNING`)
)

// warningStrategy isolates the government warning statement: it anchors on
// the GOVERNMENT WARNING header, then collects column-aligned blocks below
// it, excluding the nutrition/serving-facts panel that often sits alongside.
type warningStrategy struct{}

func (s *warningStrategy) Field() model.FieldName { return model.FieldWarning }

func (s *warningStrategy) Extract(blocks []model.CanonicalBlock, env *Env) model.FieldCandidate {
	anchorIdx := -1
	for i, b := range blocks {
		upper := strings.ToUpper(b.Text)
		if strings.Contains(upper, "GOVERNMENT") && strings.Contains(upper, "WARNING") {
			anchorIdx = i
			break
		}
		// Header split across word blocks.
		if strings.Contains(upper, "GOVERNMENT") && i+1 < len(blocks) &&
			strings.Contains(strings.ToUpper(blocks[i+1].Text), "WARNING") {
			anchorIdx = i
			break
		}
	}
	if anchorIdx < 0 {
		return model.NotFound(model.FieldWarning, model.ReasonNoKeywordMatch)
	}

	anchor := blocks[anchorIdx]
	xMin := anchor.BBox.X
	xMax := anchor.BBox.X + anchor.BBox.W
	xMargin := max(int(float64(anchor.BBox.W)*0.3), 30)
	lastY := anchor.BBox.Y + anchor.BBox.H
	maxGap := blockHeight(anchor) * 3

	var collected []model.CanonicalBlock
	for _, b := range blocks[anchorIdx:] {
		// Column separation: skip blocks outside the anchor's x band.
		if b.BBox.X > xMax+xMargin || b.BBox.X+b.BBox.W < xMin-xMargin {
			continue
		}
		if b.BBox.Y > lastY+maxGap && len(collected) > 0 {
			break
		}

		t := strings.TrimSpace(b.Text)
		upper := strings.ToUpper(t)

		if strings.HasPrefix(upper, "CONTAINS") {
			break
		}
		if containsAny(upper, env.servingFacts) {
			break // nutrition panel starts here
		}
		if reNet.MatchString(t) && !strings.Contains(upper, "GOVERNMENT") {
			break
		}
		if reABVQual.MatchString(t) && !strings.Contains(upper, "GOVERNMENT") {
			break
		}
		if env.classRe.MatchString(t) && !containsAny(upper, []string{"ALCOHOLIC", "BEVERAGES", "HEALTH", "PROBLEMS"}) {
			break
		}
		// Repeated short header from a second pass or column: drop it.
		if len(collected) > 0 && strings.Contains(upper, "GOVERNMENT") && strings.Contains(upper, "WARNING") &&
			len(t) < 55 && reWarningHeader.MatchString(upper) {
			continue
		}
		if len(t) < 2 && !isDigits(t) {
			continue
		}

		collected = append(collected, b)
		if bottom := b.BBox.Y + b.BBox.H; bottom > lastY {
			lastY = bottom
		}
	}

	value := sanitizeWarningText(joinTexts(collected))
	if value == "" {
		return model.NotFound(model.FieldWarning, model.ReasonNoKeywordMatch)
	}
	return model.FieldCandidate{
		Field:  model.FieldWarning,
		Value:  value,
		Found:  true,
		Blocks: collected,
		Rule:   "column_anchor",
	}
}

// sanitizeWarningText strips serving-facts fragments, barcode artifacts, and
// the repetition a side-by-side column merge introduces.
func sanitizeWarningText(s string) string {
	if s == "" {
		return s
	}
	s = reServingFragment.ReplaceAllString(s, " ")
	s = reNutrientRow.ReplaceAllString(s, " ")
	s = rePipes.ReplaceAllString(s, " ")
	s = reLongDashes.ReplaceAllString(s, " ")
	s = reDoubledWord.ReplaceAllString(s, "$1 ")
	return strings.TrimSpace(reSpaces.ReplaceAllString(s, " "))
}

func containsAny(s string, subs []string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
