// Package preprocess turns raw label image bytes into the fixed set of
// enhanced variants the recognition passes run over. It has no field or text
// awareness and is deterministic for identical input bytes.
package preprocess

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/png"
	"sync"

	_ "image/gif"
	_ "image/jpeg"

	xdraw "golang.org/x/image/draw"
	"golang.org/x/sync/errgroup"

	"github.com/labelcheck/labelcheck/internal/model"
)

// Variant names produced by Variants.
const (
	VariantNormalized = "normalized"
	VariantContrast   = "contrast"
	VariantBinarized  = "binarized"
)

// Variant is one enhanced rendition of the input image, PNG-encoded for the
// OCR engine.
type Variant struct {
	Name string
	PNG  []byte
}

// Variants decodes the image and produces the variants named in the config's
// OCR pass matrix. Undecodable input is fatal for the invocation.
func Variants(ctx context.Context, data []byte, cfg *model.Config) ([]Variant, error) {
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, &model.DecodeError{Err: err}
	}

	normalized := normalize(img, cfg.Preprocess.MaxDim)
	gray := toGray(normalized)

	wanted := make(map[string]bool, len(cfg.OCR.Variants))
	for _, name := range cfg.OCR.Variants {
		wanted[name] = true
	}

	var (
		mu  sync.Mutex
		out []Variant
	)
	add := func(name string, img image.Image) error {
		buf, err := encodePNG(img)
		if err != nil {
			return err
		}
		mu.Lock()
		out = append(out, Variant{Name: name, PNG: buf})
		mu.Unlock()
		return nil
	}

	// The enhanced variants derive independently from the normalized gray
	// image, so they can be built in parallel.
	g, _ := errgroup.WithContext(ctx)
	if wanted[VariantNormalized] {
		g.Go(func() error { return add(VariantNormalized, normalized) })
	}
	if wanted[VariantContrast] {
		g.Go(func() error { return add(VariantContrast, sharpen(stretchContrast(gray))) })
	}
	if wanted[VariantBinarized] {
		g.Go(func() error { return add(VariantBinarized, binarize(gray)) })
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	// Deterministic order regardless of goroutine completion.
	orderVariants(out)
	return out, nil
}

func orderVariants(vs []Variant) {
	rank := map[string]int{VariantNormalized: 0, VariantContrast: 1, VariantBinarized: 2}
	for i := 0; i < len(vs); i++ {
		for j := i + 1; j < len(vs); j++ {
			if rank[vs[j].Name] < rank[vs[i].Name] {
				vs[i], vs[j] = vs[j], vs[i]
			}
		}
	}
}

// normalize caps the longest side at maxDim using Catmull-Rom resampling.
func normalize(img image.Image, maxDim int) image.Image {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	longest := max(w, h)
	if longest <= maxDim {
		rgba := image.NewRGBA(image.Rect(0, 0, w, h))
		xdraw.Draw(rgba, rgba.Bounds(), img, b.Min, xdraw.Src)
		return rgba
	}
	scale := float64(maxDim) / float64(longest)
	nw, nh := int(float64(w)*scale), int(float64(h)*scale)
	dst := image.NewRGBA(image.Rect(0, 0, nw, nh))
	xdraw.CatmullRom.Scale(dst, dst.Bounds(), img, b, xdraw.Src, nil)
	return dst
}

func toGray(img image.Image) *image.Gray {
	b := img.Bounds()
	gray := image.NewGray(image.Rect(0, 0, b.Dx(), b.Dy()))
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			gray.Set(x-b.Min.X, y-b.Min.Y, color.GrayModel.Convert(img.At(x, y)))
		}
	}
	return gray
}

// stretchContrast remaps the gray range [lo,hi] linearly onto [0,255].
func stretchContrast(src *image.Gray) *image.Gray {
	lo, hi := uint8(255), uint8(0)
	for _, p := range src.Pix {
		if p < lo {
			lo = p
		}
		if p > hi {
			hi = p
		}
	}
	if hi <= lo {
		out := image.NewGray(src.Bounds())
		copy(out.Pix, src.Pix)
		return out
	}
	span := float64(hi - lo)
	out := image.NewGray(src.Bounds())
	for i, p := range src.Pix {
		out.Pix[i] = uint8(float64(p-lo) / span * 255)
	}
	return out
}

// sharpen applies a 3x3 unsharp kernel.
func sharpen(src *image.Gray) *image.Gray {
	b := src.Bounds()
	w, h := b.Dx(), b.Dy()
	out := image.NewGray(b)
	copy(out.Pix, src.Pix)
	for y := 1; y < h-1; y++ {
		for x := 1; x < w-1; x++ {
			c := int(src.GrayAt(x, y).Y) * 5
			c -= int(src.GrayAt(x-1, y).Y)
			c -= int(src.GrayAt(x+1, y).Y)
			c -= int(src.GrayAt(x, y-1).Y)
			c -= int(src.GrayAt(x, y+1).Y)
			if c < 0 {
				c = 0
			}
			if c > 255 {
				c = 255
			}
			out.SetGray(x, y, color.Gray{Y: uint8(c)})
		}
	}
	return out
}

// binarize thresholds the image with Otsu's method.
func binarize(src *image.Gray) *image.Gray {
	var hist [256]int
	for _, p := range src.Pix {
		hist[p]++
	}
	total := len(src.Pix)
	if total == 0 {
		return image.NewGray(src.Bounds())
	}

	var sum float64
	for i, n := range hist {
		sum += float64(i) * float64(n)
	}
	var sumB, wB float64
	var maxVar float64
	threshold := 127
	for t := 0; t < 256; t++ {
		wB += float64(hist[t])
		if wB == 0 {
			continue
		}
		wF := float64(total) - wB
		if wF == 0 {
			break
		}
		sumB += float64(t) * float64(hist[t])
		mB := sumB / wB
		mF := (sum - sumB) / wF
		between := wB * wF * (mB - mF) * (mB - mF)
		if between > maxVar {
			maxVar = between
			threshold = t
		}
	}

	out := image.NewGray(src.Bounds())
	for i, p := range src.Pix {
		if int(p) > threshold {
			out.Pix[i] = 255
		}
	}
	return out
}

func encodePNG(img image.Image) ([]byte, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
