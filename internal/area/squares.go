package area

import (
	"math"

	"github.com/udisondev/pf2egrid/internal/geo"
)

// Sampling selects the points on the reference footprint used for
// line-of-effect tests.
type Sampling int

const (
	// SampleConstellation tests from the reference center and four points
	// pulled toward each side. A square is reachable if any point sees it.
	SampleConstellation Sampling = iota
	// SampleCenter tests from the reference center only.
	SampleCenter
	// SampleNone skips line-of-effect: every square in range is active.
	SampleNone
)

// Request describes a square enumeration.
type Request struct {
	// Bounds is the box to tile with grid squares.
	Bounds geo.Rect
	// Radius in distance units, measured from Reference.
	Radius float64
	// Reference is the footprint distances are measured from, usually a
	// token's bounds.
	Reference geo.Rect
	Traits    []string
	// Collision overrides the trait-derived collision type when set.
	Collision geo.CollisionType
	Sampling  Sampling
}

func (r Request) collisionType() geo.CollisionType {
	if r.Collision != "" {
		return r.Collision
	}
	return geo.CollisionTypeForTraits(r.Traits)
}

// Tile covers bounds with cell-sized squares in column-major order. Each
// column grows downward from the square above it; each new column starts
// one cell right of the previous column's top square.
func Tile(bounds geo.Rect, size float64) []geo.Rect {
	if size <= 0 || bounds.Empty() {
		return nil
	}
	cols := int(math.Ceil(bounds.Width / size))
	rows := int(math.Ceil(bounds.Height / size))

	column := func(top geo.Rect) []geo.Rect {
		squares := make([]geo.Rect, 0, rows)
		squares = append(squares, top)
		for range rows - 1 {
			above := squares[len(squares)-1]
			squares = append(squares, geo.NewRect(above.X, above.Y+size, size, size))
		}
		return squares
	}

	lattice := make([]geo.Rect, 0, cols*rows)
	top := geo.NewRect(bounds.X, bounds.Y, size, size)
	for range cols {
		lattice = append(lattice, column(top)...)
		top = geo.NewRect(top.X+size, bounds.Y, size, size)
	}
	return lattice
}

// Squares tiles req.Bounds, keeps the squares within req.Radius of
// req.Reference and marks each active when the reference has line of
// effect to it.
//
// Non-square grids yield no squares; a grid without dimensions yields
// geo.ErrGridUnavailable.
func Squares(env Env, req Request) ([]Square, error) {
	g := env.Grid
	if !g.Ready() {
		return nil, geo.ErrGridUnavailable
	}
	if !g.IsSquare() {
		return nil, nil
	}

	collision := req.collisionType()
	points := samplePoints(req.Reference, req.Sampling)

	var out []Square
	for _, r := range Tile(req.Bounds, g.Size) {
		d, err := geo.MeasureDistanceCuboid(g, req.Reference, r, geo.MeasureOptions{})
		if err != nil {
			return nil, err
		}
		if float64(d) > req.Radius {
			continue
		}
		out = append(out, NewSquare(r, reachable(env.Collider, points, r.Center(), collision)))
	}
	return out, nil
}

// AuraBounds returns the grid-aligned box enclosing every square within
// radius units of ref.
func AuraBounds(g geo.Grid, ref geo.Rect, radius float64) geo.Rect {
	pad := g.ToPixels(radius)
	r := ref.Pad(pad, pad)
	left := math.Floor(r.Left()/g.Size) * g.Size
	top := math.Floor(r.Top()/g.Size) * g.Size
	right := math.Ceil(r.Right()/g.Size) * g.Size
	bottom := math.Ceil(r.Bottom()/g.Size) * g.Size
	return geo.NewRect(left, top, right-left, bottom-top)
}

func samplePoints(ref geo.Rect, s Sampling) []geo.Point {
	c := ref.Center()
	switch s {
	case SampleNone:
		return nil
	case SampleCenter:
		return []geo.Point{c}
	}
	dx, dy := ref.Width/8, ref.Height/8
	return []geo.Point{
		c,
		c.Add(-dx, 0),
		c.Add(dx, 0),
		c.Add(0, -dy),
		c.Add(0, dy),
	}
}

func reachable(c geo.Collider, points []geo.Point, dest geo.Point, t geo.CollisionType) bool {
	if len(points) == 0 {
		return true
	}
	for _, p := range points {
		if !geo.Blocked(c, p, dest, t) {
			return true
		}
	}
	return false
}
