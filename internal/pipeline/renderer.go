package pipeline

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/labelcheck/labelcheck/internal/model"
)

// Renderer writes checklists as JSON files and human-readable summaries.
type Renderer struct{}

// NewRenderer creates a new renderer
func NewRenderer() *Renderer {
	return &Renderer{}
}

// RenderJSON writes the checklist to the given path as indented JSON.
func (r *Renderer) RenderJSON(checklist *model.Checklist, path string) error {
	data, err := json.MarshalIndent(checklist, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal checklist: %w", err)
	}
	if err := os.WriteFile(path, append(data, '\n'), 0644); err != nil {
		return fmt.Errorf("write checklist: %w", err)
	}
	return nil
}

var statusMarks = map[model.Status]string{
	model.StatusPass:        "✓",
	model.StatusNeedsReview: "?",
	model.StatusFail:        "✗",
}

// RenderSummary prints the checklist grouped by category. Results arrive
// already category-ordered from the scorer.
func (r *Renderer) RenderSummary(w io.Writer, checklist *model.Checklist) {
	var current model.Category
	for _, res := range checklist.Results {
		if res.Category != current {
			current = res.Category
			fmt.Fprintf(w, "\n%s\n", current)
		}
		fmt.Fprintf(w, "  %s %s: %s\n", statusMarks[res.Status], res.Rule, res.Message)
	}
	fmt.Fprintf(w, "\nOverall: %s (%d pass, %d review, %d fail)\n",
		checklist.Overall, checklist.Counts.Pass, checklist.Counts.NeedsReview, checklist.Counts.Fail)
}
