package area

import (
	"log/slog"
	"math"

	"github.com/udisondev/pf2egrid/internal/geo"
)

// angleEpsilon absorbs float noise on the edges of a cone.
const angleEpsilon = 1e-6

// HighlightGrid computes the cells covered by an area and classifies each
// as reachable or blocked.
//
// Cone angles are measured from the cone's border origin. A cone with a
// zero angle keeps every cell whose center lies on the facing ray, up to
// its distance.
//
// Areas without an ID that are not previews produce an empty highlight, as
// do non-square grids. A grid without dimensions yields
// geo.ErrGridUnavailable.
func HighlightGrid(env Env, a Area) (Highlight, error) {
	h := Highlight{AreaID: a.ID, Shape: a.Shape, Colors: a.Colors.OrDefault()}

	if a.ID == "" && !a.Preview {
		slog.Debug("skip highlight: area not placed", "shape", a.Shape)
		return h, nil
	}

	g := env.Grid
	if !g.Ready() {
		return h, geo.ErrGridUnavailable
	}
	if !g.IsSquare() {
		slog.Debug("skip highlight: grid is not square", "grid", g.Type)
		return h, nil
	}

	col, row := g.CellAt(a.Origin)
	span := candidateSpan(g, a)

	offset := coneOffset(g, a)
	minAngle := a.Direction - a.Angle/2
	maxAngle := a.Direction + a.Angle/2
	collision := a.CollisionType()

	for dc := -span; dc <= span; dc++ {
		for dr := -span; dr <= span; dr++ {
			cell := g.CellRect(col+dc, row+dr)
			dest := cell.Center()
			if dest.X < 0 || dest.Y < 0 {
				continue
			}

			from := a.Origin.Add(offset.X, offset.Y)
			if a.Shape == ShapeCone && dest != from {
				if !withinAngle(minAngle, maxAngle, rayAngle(from, dest)) {
					continue
				}
			}

			if a.Shape == ShapeEmanation && a.Source != nil {
				from = nearestOrigin(g, *a.Source, dest)
			}

			d, err := geo.MeasureDistance(g, from, dest, geo.MeasureOptions{Fallback: env.Measurer})
			if err != nil {
				return h, err
			}
			if float64(d) > a.Distance {
				continue
			}

			blocked := geo.Blocked(env.Collider, a.Origin, dest, collision)
			h.Squares = append(h.Squares, NewSquare(cell, !blocked))
		}
	}

	return h, nil
}

// candidateSpan is the number of cells to scan on each side of the origin
// cell.
func candidateSpan(g geo.Grid, a Area) int {
	padding := clamp(a.Width, 1.5, 2)
	span := int(math.Ceil(a.Distance * padding / g.Distance))
	if a.Shape == ShapeEmanation && a.Source != nil {
		cells := math.Max(a.Source.Width, a.Source.Height) / g.Size
		span += int(math.Ceil(cells / 2))
	}
	return max(span, 1)
}

// coneOffset moves the measuring point of a cone from inside a cell to the
// cell border it faces, so the first row of the cone counts as 5 feet.
func coneOffset(g geo.Grid, a Area) geo.Point {
	if a.Shape != ShapeCone {
		return geo.Point{}
	}
	rad := a.Direction * math.Pi / 180
	half := g.Size / 2

	var off geo.Point
	if !g.OnGridLine(a.Origin.X) {
		off.X = sign(roundTo(math.Cos(rad), 2)) * half
	}
	if !g.OnGridLine(a.Origin.Y) {
		off.Y = sign(roundTo(math.Sin(rad), 2)) * half
	}
	return off
}

// nearestOrigin returns the center of the source cell closest to dest, so
// large creatures emanate from their edges rather than their center.
func nearestOrigin(g geo.Grid, src geo.Rect, dest geo.Point) geo.Point {
	c := src.Center()
	half := g.Size / 2
	if src.Width > g.Size {
		c.X = clamp(dest.X, src.Left()+half, src.Right()-half)
	}
	if src.Height > g.Size {
		c.Y = clamp(dest.Y, src.Top()+half, src.Bottom()-half)
	}
	return c
}

// rayAngle returns the direction from a to b in degrees within [0, 360).
func rayAngle(a, b geo.Point) float64 {
	return normalizeDegrees(math.Atan2(b.Y-a.Y, b.X-a.X) * 180 / math.Pi)
}

// withinAngle reports whether v lies in the window [lo, hi], which may wrap
// through 0.
func withinAngle(lo, hi, v float64) bool {
	if hi-lo >= 360 {
		return true
	}
	lo, hi, v = normalizeDegrees(lo), normalizeDegrees(hi), normalizeDegrees(v)
	if lo <= hi {
		return v >= lo-angleEpsilon && v <= hi+angleEpsilon
	}
	return v >= lo-angleEpsilon || v <= hi+angleEpsilon
}

func normalizeDegrees(d float64) float64 {
	d = math.Mod(d, 360)
	if d < 0 {
		d += 360
	}
	return d
}

func sign(v float64) float64 {
	switch {
	case v > 0:
		return 1
	case v < 0:
		return -1
	}
	return 0
}

func roundTo(v float64, places int) float64 {
	p := math.Pow(10, float64(places))
	return math.Round(v*p) / p
}
