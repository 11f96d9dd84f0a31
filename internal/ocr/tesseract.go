package ocr

import (
	"context"
	"fmt"
	"strings"

	"github.com/otiai10/gosseract/v2"

	"github.com/labelcheck/labelcheck/internal/model"
)

// TesseractEngine implements Engine on top of the gosseract client.
type TesseractEngine struct {
	clientFactory func() *gosseract.Client
}

// NewTesseractEngine constructs a Tesseract-backed OCR engine.
func NewTesseractEngine() *TesseractEngine {
	return &TesseractEngine{clientFactory: gosseract.NewClient}
}

func (e *TesseractEngine) Name() string { return "tesseract" }

// Recognize runs one pass and returns word-level blocks tagged with the pass
// identifier. Any client failure is an OCRUnavailableError: the engine is a
// boundary capability and its absence must stay distinguishable from a label
// with no text.
func (e *TesseractEngine) Recognize(ctx context.Context, in Input) ([]model.TextBlock, error) {
	select {
	case <-ctx.Done():
		return nil, &model.OCRUnavailableError{Pass: in.Pass, Err: ctx.Err()}
	default:
	}

	c := e.clientFactory()
	defer c.Close()

	if err := c.SetImageFromBytes(in.Image); err != nil {
		return nil, &model.OCRUnavailableError{Pass: in.Pass, Err: fmt.Errorf("set image: %w", err)}
	}
	if len(in.Languages) > 0 {
		if err := c.SetLanguage(in.Languages...); err != nil {
			return nil, &model.OCRUnavailableError{Pass: in.Pass, Err: fmt.Errorf("set languages: %w", err)}
		}
	}
	if in.PSM > 0 {
		if err := c.SetPageSegMode(gosseract.PageSegMode(in.PSM)); err != nil {
			return nil, &model.OCRUnavailableError{Pass: in.Pass, Err: fmt.Errorf("set psm: %w", err)}
		}
	}

	boxes, err := c.GetBoundingBoxes(gosseract.RIL_WORD)
	if err != nil {
		return nil, &model.OCRUnavailableError{Pass: in.Pass, Err: fmt.Errorf("bounding boxes: %w", err)}
	}

	blocks := make([]model.TextBlock, 0, len(boxes))
	for _, b := range boxes {
		text := strings.TrimSpace(b.Word)
		if text == "" {
			continue
		}
		conf := b.Confidence
		if conf < 0 {
			conf = 0
		}
		blocks = append(blocks, model.TextBlock{
			Text: text,
			BBox: model.Rect{
				X: b.Box.Min.X,
				Y: b.Box.Min.Y,
				W: b.Box.Dx(),
				H: b.Box.Dy(),
			},
			Confidence: conf,
			SourcePass: in.Pass,
		})
	}
	return blocks, nil
}
