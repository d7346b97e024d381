package scene

import (
	"github.com/udisondev/pf2egrid/internal/geo"
)

// Token is a placed creature or object.
type Token struct {
	ID     string
	Name   string
	Bounds geo.Rect // pixels
	// Elevation of the token's base in distance units.
	Elevation float64
	// Vertical is the creature height in distance units; nil when unknown.
	Vertical *float64
	Hidden   bool
}

// Center returns the pixel center of the token.
func (t Token) Center() geo.Point {
	return t.Bounds.Center()
}

// Band returns the vertical extent used for elevation-aware measurement.
func (t Token) Band() *geo.Band {
	return &geo.Band{Elevation: t.Elevation, Height: t.Vertical}
}

// Cells returns the footprint size in cells.
func (t Token) Cells(g geo.Grid) (w, h float64) {
	return t.Bounds.Width / g.Size, t.Bounds.Height / g.Size
}

// DistanceTo measures the PF2e distance from t to other, taking elevation
// into account when both tokens have a known height.
func (t Token) DistanceTo(g geo.Grid, other Token, reach int, m geo.Measurer) (int, error) {
	return geo.MeasureDistanceCuboid(g, t.Bounds, other.Bounds, geo.MeasureOptions{
		Reach:      reach,
		SameObject: t.ID != "" && t.ID == other.ID,
		From:       t.Band(),
		To:         other.Band(),
		Fallback:   m,
	})
}
