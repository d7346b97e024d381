// Package area computes PF2e effect areas on a square grid: which cells a
// burst, cone or emanation covers, and which of them the effect can reach.
package area

import (
	"fmt"
	"math"

	"github.com/udisondev/pf2egrid/internal/geo"
)

// Shape is a PF2e area kind.
type Shape string

const (
	ShapeBurst     Shape = "burst"
	ShapeCone      Shape = "cone"
	ShapeEmanation Shape = "emanation"
)

// ParseShape parses an area shape name. "circle" is accepted as a burst.
func ParseShape(s string) (Shape, error) {
	switch Shape(s) {
	case ShapeBurst, "circle":
		return ShapeBurst, nil
	case ShapeCone:
		return ShapeCone, nil
	case ShapeEmanation:
		return ShapeEmanation, nil
	}
	return "", fmt.Errorf("unknown area shape %q", s)
}

// Env is the host state an area computation reads: the scene grid, its
// collision backend and the measurer for grids this package does not
// handle.
type Env struct {
	Grid     geo.Grid
	Collider geo.Collider
	Measurer geo.Measurer
}

// Colors of a highlighted area, as hex strings.
type Colors struct {
	Border string `yaml:"border"`
	Fill   string `yaml:"fill"`
}

// DefaultColors is used when an area carries no colors of its own.
var DefaultColors = Colors{Border: "#ff9900", Fill: "#ff9900"}

// OrDefault returns c, or DefaultColors for any missing channel.
func (c Colors) OrDefault() Colors {
	if c.Border == "" {
		c.Border = DefaultColors.Border
	}
	if c.Fill == "" {
		c.Fill = DefaultColors.Fill
	}
	return c
}

// Area is a placed (or previewed) effect area.
type Area struct {
	// ID is empty for areas that have not been placed yet.
	ID string
	// Preview marks an area under interactive placement.
	Preview bool
	Shape   Shape
	// Origin of the area in pixels.
	Origin geo.Point
	// Direction of a cone in degrees, clockwise from east.
	Direction float64
	// Angle is the total opening of a cone in degrees.
	Angle float64
	// Distance is the radius or length in distance units.
	Distance float64
	// Width of the originating footprint in cells. Clamped to [1.5, 2] when
	// sizing the candidate window.
	Width  float64
	Traits []string
	// Collision overrides the trait-derived collision type when set.
	Collision geo.CollisionType
	Colors    Colors
	// Source is the footprint an emanation radiates from.
	Source *geo.Rect
}

// CollisionType returns the restriction used for line-of-effect tests.
func (a Area) CollisionType() geo.CollisionType {
	if a.Collision != "" {
		return a.Collision
	}
	return geo.CollisionTypeForTraits(a.Traits)
}

// Square is one grid cell of an effect area. Active squares are part of
// the area and reachable from its origin; inactive ones are blocked.
type Square struct {
	rect   geo.Rect
	active bool
}

// NewSquare builds a classified square.
func NewSquare(r geo.Rect, active bool) Square {
	return Square{rect: r, active: active}
}

// Rect returns the pixel rectangle of the square.
func (s Square) Rect() geo.Rect { return s.rect }

// Center returns the pixel center of the square.
func (s Square) Center() geo.Point { return s.rect.Center() }

// Active reports whether the square is an unobstructed part of the area.
func (s Square) Active() bool { return s.active }

// Highlight is the classified cell set of one area.
type Highlight struct {
	AreaID  string
	Shape   Shape
	Colors  Colors
	Squares []Square
}

// Active returns only the active squares.
func (h Highlight) Active() []Square {
	var out []Square
	for _, s := range h.Squares {
		if s.active {
			out = append(out, s)
		}
	}
	return out
}

// Blocked returns only the squares excluded by collision.
func (h Highlight) Blocked() []Square {
	var out []Square
	for _, s := range h.Squares {
		if !s.active {
			out = append(out, s)
		}
	}
	return out
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}
