// Package ocr defines the boundary contract for the external text
// recognition capability and the pass runner that fans the variant/mode
// matrix out over it. Engines are consumed as black boxes; a failing engine
// is surfaced as an operational error, never papered over with fabricated
// output.
package ocr

import (
	"context"

	"github.com/labelcheck/labelcheck/internal/model"
)

// Input is one recognition request: an encoded image variant plus the
// segmentation mode for this pass.
type Input struct {
	// Image is the PNG-encoded variant payload.
	Image []byte
	// PSM is the page segmentation mode for this pass.
	PSM int
	// Languages are trained-data hints (e.g. "eng").
	Languages []string
	// Pass identifies the (variant, mode) combination; it is stamped onto
	// every returned block as SourcePass.
	Pass string
}

// Engine is the recognition capability contract: one image in, word-level
// text blocks out. Implementations must fail explicitly rather than return
// silent empty results when the capability is unavailable.
type Engine interface {
	Name() string
	Recognize(ctx context.Context, in Input) ([]model.TextBlock, error)
}
