package model

// Rect is an axis-aligned bounding box in image pixel coordinates with the
// origin in the upper-left corner.
type Rect struct {
	X int `json:"x"`
	Y int `json:"y"`
	W int `json:"w"`
	H int `json:"h"`
}

// Empty reports whether the rectangle has non-positive dimensions.
func (r Rect) Empty() bool { return r.W <= 0 || r.H <= 0 }

// Area returns the rectangle area in square pixels.
func (r Rect) Area() int {
	if r.Empty() {
		return 0
	}
	return r.W * r.H
}

// CenterX returns the horizontal center of the rectangle.
func (r Rect) CenterX() float64 { return float64(r.X) + float64(r.W)/2 }

// CenterY returns the vertical center of the rectangle.
func (r Rect) CenterY() float64 { return float64(r.Y) + float64(r.H)/2 }

// Union returns the smallest rectangle covering both r and o.
func (r Rect) Union(o Rect) Rect {
	if r.Empty() {
		return o
	}
	if o.Empty() {
		return r
	}
	x0 := min(r.X, o.X)
	y0 := min(r.Y, o.Y)
	x1 := max(r.X+r.W, o.X+o.W)
	y1 := max(r.Y+r.H, o.Y+o.H)
	return Rect{X: x0, Y: y0, W: x1 - x0, H: y1 - y0}
}

// Intersect returns the overlapping rectangle of r and o, or an empty Rect.
func (r Rect) Intersect(o Rect) Rect {
	x0 := max(r.X, o.X)
	y0 := max(r.Y, o.Y)
	x1 := min(r.X+r.W, o.X+o.W)
	y1 := min(r.Y+r.H, o.Y+o.H)
	if x1 <= x0 || y1 <= y0 {
		return Rect{}
	}
	return Rect{X: x0, Y: y0, W: x1 - x0, H: y1 - y0}
}

// IoU returns the intersection-over-union overlap ratio of r and o in [0,1].
func (r Rect) IoU(o Rect) float64 {
	inter := r.Intersect(o).Area()
	if inter == 0 {
		return 0
	}
	union := r.Area() + o.Area() - inter
	if union <= 0 {
		return 0
	}
	return float64(inter) / float64(union)
}

// TextBlock is a single raw OCR detection from one recognition pass.
type TextBlock struct {
	Text       string  `json:"text"`
	BBox       Rect    `json:"bbox"`
	Confidence float64 `json:"confidence"`  // 0-100
	SourcePass string  `json:"source_pass"` // e.g. "binarized/psm6"
}

// CanonicalBlock is the representative detection chosen for a cluster of
// near-duplicate TextBlocks across recognition passes. Sources retains the
// full cluster for audit and downstream highlighting.
type CanonicalBlock struct {
	TextBlock
	Sources []TextBlock `json:"sources,omitempty"`
}
