// Package common provides the shared geometric primitives used across the
// motion pipeline: axis-aligned rectangles in frame coordinates and the
// measurements (overlap, edge distance, expansion) the clustering and region
// consolidation stages are built on.
package common

import (
	"fmt"
	"image"

	"github.com/chewxy/math32"
)

// Rect is an axis-aligned rectangle in frame coordinates, stored as the
// top-left and bottom-right corners. The zero value is an empty rectangle
// at the origin.
type Rect struct {
	X1, Y1, X2, Y2 float32
}

// NewRect creates a Rect from an origin and size, the (x, y, w, h) form
// motion boxes are reported in.
func NewRect(x, y, w, h float32) Rect {
	return Rect{X1: x, Y1: y, X2: x + w, Y2: y + h}
}

// RectFromImage converts an image.Rectangle into a Rect.
func RectFromImage(r image.Rectangle) Rect {
	r = r.Canon()
	return Rect{
		X1: float32(r.Min.X),
		Y1: float32(r.Min.Y),
		X2: float32(r.Max.X),
		Y2: float32(r.Max.Y),
	}
}

func (r Rect) String() string {
	return fmt.Sprintf("(%.1f, %.1f)-(%.1f, %.1f)", r.X1, r.Y1, r.X2, r.Y2)
}

// Width returns the horizontal extent of the rectangle.
func (r Rect) Width() float32 { return r.X2 - r.X1 }

// Height returns the vertical extent of the rectangle.
func (r Rect) Height() float32 { return r.Y2 - r.Y1 }

// Area returns the rectangle area in square pixels. Degenerate rectangles
// report zero rather than a negative area.
func (r Rect) Area() float32 {
	w := r.Width()
	h := r.Height()
	if w <= 0 || h <= 0 {
		return 0
	}
	return w * h
}

// Empty reports whether the rectangle covers no pixels.
func (r Rect) Empty() bool { return r.Area() == 0 }

// ToImageRect converts the rectangle to an image.Rectangle, truncating
// coordinates to integers.
//
// This won't be entirely precise due to conversion to the integral
// rectangles from the image library, but overlap tests only need to
// estimate which boxes intersect, so some imprecision is OK.
func (r Rect) ToImageRect() image.Rectangle {
	return image.Rect(int(r.X1), int(r.Y1), int(r.X2), int(r.Y2)).Canon()
}

// Intersects reports whether the two rectangles share any area.
func (r Rect) Intersects(other Rect) bool {
	return r.X1 < other.X2 && other.X1 < r.X2 &&
		r.Y1 < other.Y2 && other.Y1 < r.Y2
}

// Intersection calculates the intersection area between two rectangles.
//
// Arguments:
//   - other: The rectangle to intersect with.
//
// Returns:
//   - The area of overlap in square pixels, 0 when the rectangles are disjoint.
func (r Rect) Intersection(other Rect) float32 {
	w := math32.Min(r.X2, other.X2) - math32.Max(r.X1, other.X1)
	h := math32.Min(r.Y2, other.Y2) - math32.Max(r.Y1, other.Y1)
	if w <= 0 || h <= 0 {
		return 0
	}
	return w * h
}

// Union returns the smallest rectangle containing both rectangles.
func (r Rect) Union(other Rect) Rect {
	return Rect{
		X1: math32.Min(r.X1, other.X1),
		Y1: math32.Min(r.Y1, other.Y1),
		X2: math32.Max(r.X2, other.X2),
		Y2: math32.Max(r.Y2, other.Y2),
	}
}

// EdgeDistance returns the minimum Euclidean distance between the boundaries
// of the two rectangles.
//
// Intersecting rectangles have distance 0. When the rectangles are separated
// along a single axis the gap on that axis is the boundary distance; when
// they are separated along both axes the nearest corners determine it.
func (r Rect) EdgeDistance(other Rect) float32 {
	dx := axisGap(r.X1, r.X2, other.X1, other.X2)
	dy := axisGap(r.Y1, r.Y2, other.Y1, other.Y2)
	switch {
	case dx > 0 && dy > 0:
		return math32.Sqrt(dx*dx + dy*dy)
	case dx > 0:
		return dx
	default:
		return dy
	}
}

// axisGap returns the separation between intervals [a1,a2] and [b1,b2] on a
// single axis, or 0 when they overlap.
func axisGap(a1, a2, b1, b2 float32) float32 {
	if a2 < b1 {
		return b1 - a2
	}
	if b2 < a1 {
		return a1 - b2
	}
	return 0
}

// Expand grows the rectangle symmetrically about its center by the given
// factor. A factor of 1.2 adds 10% on every side; factors below 1 shrink.
func (r Rect) Expand(factor float32) Rect {
	cx := (r.X1 + r.X2) / 2
	cy := (r.Y1 + r.Y2) / 2
	halfW := r.Width() * factor / 2
	halfH := r.Height() * factor / 2
	return Rect{X1: cx - halfW, Y1: cy - halfH, X2: cx + halfW, Y2: cy + halfH}
}

// ClampTo restricts the rectangle to the frame [0, width) x [0, height).
func (r Rect) ClampTo(width, height int) Rect {
	return Rect{
		X1: math32.Max(r.X1, 0),
		Y1: math32.Max(r.Y1, 0),
		X2: math32.Min(r.X2, float32(width)),
		Y2: math32.Min(r.Y2, float32(height)),
	}
}
