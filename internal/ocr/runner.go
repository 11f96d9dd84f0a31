package ocr

import (
	"context"
	"fmt"
	"sort"

	"github.com/labelcheck/labelcheck/internal/model"
	"github.com/labelcheck/labelcheck/internal/preprocess"
	"github.com/labelcheck/labelcheck/internal/worker"
)

// Runner fans the configured variant x segmentation-mode matrix out over the
// engine. Passes are independent and run concurrently on the worker pool; the
// deduplicator's pass-order-independent tie-break makes the overall result
// deterministic regardless of scheduling.
type Runner struct {
	engine Engine
	cfg    *model.Config
}

// NewRunner creates a runner for the given engine and configuration.
func NewRunner(engine Engine, cfg *model.Config) *Runner {
	return &Runner{engine: engine, cfg: cfg}
}

type passJob struct {
	engine Engine
	input  Input
}

type passResult struct {
	pass   string
	blocks []model.TextBlock
	err    error
}

func (r passResult) GetError() error { return r.err }

func (j passJob) Execute(ctx context.Context) worker.Result {
	blocks, err := j.engine.Recognize(ctx, j.input)
	return passResult{pass: j.input.Pass, blocks: blocks, err: err}
}

// Run executes every pass of the matrix and returns the combined raw blocks.
// Any failing pass fails the whole invocation: partial recognition output is
// indistinguishable from a sparse label and must not leak into the checklist.
func (r *Runner) Run(ctx context.Context, variants []preprocess.Variant) ([]model.TextBlock, error) {
	byName := make(map[string]preprocess.Variant, len(variants))
	for _, v := range variants {
		byName[v.Name] = v
	}

	var jobs []passJob
	for _, name := range r.cfg.OCR.Variants {
		v, ok := byName[name]
		if !ok {
			continue
		}
		for _, psm := range r.cfg.OCR.PSMs {
			jobs = append(jobs, passJob{
				engine: r.engine,
				input: Input{
					Image:     v.PNG,
					PSM:       psm,
					Languages: r.cfg.OCR.Languages,
					Pass:      fmt.Sprintf("%s/psm%d", v.Name, psm),
				},
			})
		}
	}
	if len(jobs) == 0 {
		return nil, &model.OCRUnavailableError{Err: fmt.Errorf("empty pass matrix")}
	}

	pool := worker.NewPool(ctx, r.cfg.OCR.Workers)
	pool.Start()
	for _, j := range jobs {
		pool.Submit(j)
	}
	results := pool.Wait()

	var all []model.TextBlock
	for _, res := range results {
		pr := res.(passResult)
		if pr.err != nil {
			return nil, pr.err
		}
		all = append(all, pr.blocks...)
	}

	// Stable order for reproducible logs; dedupe does not rely on it.
	sort.SliceStable(all, func(i, j int) bool {
		if all[i].SourcePass != all[j].SourcePass {
			return all[i].SourcePass < all[j].SourcePass
		}
		if all[i].BBox.Y != all[j].BBox.Y {
			return all[i].BBox.Y < all[j].BBox.Y
		}
		return all[i].BBox.X < all[j].BBox.X
	})
	return all, nil
}
