package geo

import "math"

// Point is a position in pixel space.
type Point struct {
	X float64 `yaml:"x"`
	Y float64 `yaml:"y"`
}

// Add returns p shifted by (dx, dy).
func (p Point) Add(dx, dy float64) Point {
	return Point{X: p.X + dx, Y: p.Y + dy}
}

// Rect is an axis-aligned box in pixel space.
type Rect struct {
	X      float64 `yaml:"x"`
	Y      float64 `yaml:"y"`
	Width  float64 `yaml:"width"`
	Height float64 `yaml:"height"`
}

// NewRect builds a Rect from its top-left corner and size.
func NewRect(x, y, w, h float64) Rect {
	return Rect{X: x, Y: y, Width: w, Height: h}
}

func (r Rect) Left() float64   { return r.X }
func (r Rect) Right() float64  { return r.X + r.Width }
func (r Rect) Top() float64    { return r.Y }
func (r Rect) Bottom() float64 { return r.Y + r.Height }

// Center returns the midpoint of the rectangle.
func (r Rect) Center() Point {
	return Point{X: r.X + r.Width/2, Y: r.Y + r.Height/2}
}

// Empty reports whether the rectangle has no area.
func (r Rect) Empty() bool {
	return r.Width <= 0 || r.Height <= 0
}

// Overlaps reports whether both the horizontal and vertical projections of
// r and o intersect with positive length. Rectangles sharing only an edge do
// not overlap.
func (r Rect) Overlaps(o Rect) bool {
	return math.Max(r.Left(), o.Left()) < math.Min(r.Right(), o.Right()) &&
		math.Max(r.Top(), o.Top()) < math.Min(r.Bottom(), o.Bottom())
}

// Contains reports whether p lies inside r (left/top edges inclusive).
func (r Rect) Contains(p Point) bool {
	return p.X >= r.Left() && p.X < r.Right() && p.Y >= r.Top() && p.Y < r.Bottom()
}

// Pad grows the rectangle by dx on the left and right and dy on the top and
// bottom.
func (r Rect) Pad(dx, dy float64) Rect {
	return Rect{X: r.X - dx, Y: r.Y - dy, Width: r.Width + 2*dx, Height: r.Height + 2*dy}
}

// Translate returns r moved by (dx, dy).
func (r Rect) Translate(dx, dy float64) Rect {
	return Rect{X: r.X + dx, Y: r.Y + dy, Width: r.Width, Height: r.Height}
}
