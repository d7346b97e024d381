package geo

import (
	"errors"
	"math"
	"slices"
)

// ErrGridUnavailable is returned when the grid has no usable dimensions,
// e.g. the scene has not finished loading.
var ErrGridUnavailable = errors.New("grid dimensions unavailable")

// Segment holds per-axis pixel distances between two positions.
type Segment struct {
	DX, DY, DZ float64
}

// Band is the vertical extent of a token: its elevation and height in
// distance units. A nil Height means the vertical size is unknown.
type Band struct {
	Elevation float64
	Height    *float64
}

// MeasureOptions tunes a distance measurement.
type MeasureOptions struct {
	// Reach in distance units. A reach of 10 can cover two diagonal squares.
	Reach int
	// SameObject short-circuits the measurement to zero.
	SameObject bool
	// From and To are the vertical bands of the measured objects. When both
	// carry a height and elevations differ, a z-axis count is added.
	From, To *Band
	// Fallback measures non-square grids. Defaults to EuclideanMeasurer.
	Fallback Measurer
}

// Measurer measures distances on grids this package does not handle.
type Measurer interface {
	MeasurePath(g Grid, a, b Point) float64
}

// EuclideanMeasurer measures straight-line distance in grid units.
type EuclideanMeasurer struct{}

// MeasurePath implements Measurer.
func (EuclideanMeasurer) MeasurePath(g Grid, a, b Point) float64 {
	return math.Hypot(b.X-a.X, b.Y-a.Y) / g.Size * g.Distance
}

// MeasureDistanceOnGrid converts a pixel segment into a PF2e grid distance
// in whole units. Each axis is counted in cells; the smallest count is
// taken as triple-axis diagonals, the next as two-axis diagonals and the
// remainder as straight moves.
func MeasureDistanceOnGrid(g Grid, seg Segment, opts MeasureOptions) (int, error) {
	if !g.Ready() {
		return 0, ErrGridUnavailable
	}

	counts := []int{
		cellCount(seg.DX, g.Size),
		cellCount(seg.DY, g.Size),
		cellCount(seg.DZ, g.Size),
	}
	slices.Sort(counts)

	doubleDiagonal := counts[0]
	diagonal := counts[1] - counts[0]
	straight := counts[2] - counts[1]

	reduction := 0
	if opts.Reach == ReachDiagonalException && diagonal+doubleDiagonal > 1 {
		reduction = 1
	}

	cells := int(math.Floor(float64(doubleDiagonal)*WeightDoubleDiagonal +
		float64(diagonal)*WeightDiagonal +
		float64(straight)*WeightStraight))
	cells -= reduction
	if cells < 0 {
		cells = 0
	}

	return int(float64(cells) * g.Distance), nil
}

// MeasureDistance measures the grid distance between two points.
func MeasureDistance(g Grid, p0, p1 Point, opts MeasureOptions) (int, error) {
	if opts.SameObject {
		return 0, nil
	}
	if !g.Ready() {
		return 0, ErrGridUnavailable
	}
	if !g.IsSquare() {
		return fallback(g, p0, p1, opts), nil
	}
	return MeasureDistanceOnGrid(g, Segment{DX: p1.X - p0.X, DY: p1.Y - p0.Y}, opts)
}

// MeasureDistanceCuboid measures the grid distance between two footprints.
// Each rectangle is first snapped outward onto the grid toward the other,
// so partially covered cells count as occupied. When both bands carry a
// height and the elevations differ, the vertical gap is counted with the
// same snap and gap rule, so any elevation change costs at least one cell.
func MeasureDistanceCuboid(g Grid, r0, r1 Rect, opts MeasureOptions) (int, error) {
	if opts.SameObject {
		return 0, nil
	}
	if !g.Ready() {
		return 0, ErrGridUnavailable
	}
	if !g.IsSquare() {
		return fallback(g, r0.Center(), r1.Center(), opts), nil
	}

	var seg Segment
	if !r0.Overlaps(r1) {
		s0 := snapBounds(g, r0, r1)
		s1 := snapBounds(g, r1, r0)
		seg.DX = math.Max(math.Max(s1.Left()-s0.Right(), s0.Left()-s1.Right()), 0) + g.Size
		seg.DY = math.Max(math.Max(s1.Top()-s0.Bottom(), s0.Top()-s1.Bottom()), 0) + g.Size
	}

	if v0, v1, ok := verticalBands(g, r0, r1, opts); ok {
		s0 := snapBounds(g, v0, v1)
		s1 := snapBounds(g, v1, v0)
		seg.DZ = math.Max(math.Max(s1.Top()-s0.Bottom(), s0.Top()-s1.Bottom()), 0) + g.Size
	}

	return MeasureDistanceOnGrid(g, seg, opts)
}

// verticalBands builds side-view rectangles for two bands: the y axis
// carries elevation, the extent carries height.
func verticalBands(g Grid, r0, r1 Rect, opts MeasureOptions) (Rect, Rect, bool) {
	from, to := opts.From, opts.To
	if from == nil || to == nil || from.Height == nil || to.Height == nil {
		return Rect{}, Rect{}, false
	}
	if from.Elevation == to.Elevation {
		return Rect{}, Rect{}, false
	}
	v0 := Rect{X: r0.X, Y: g.ToPixels(from.Elevation), Width: r0.Width, Height: g.ToPixels(*from.Height)}
	v1 := Rect{X: r1.X, Y: g.ToPixels(to.Elevation), Width: r1.Width, Height: g.ToPixels(*to.Height)}
	return v0, v1, true
}

// snapBounds snaps r onto cell boundaries, rounding each leading edge in
// the direction of toward. The snapped box is never smaller than one cell.
func snapBounds(g Grid, r, toward Rect) Rect {
	roundX := math.Floor
	if r.Left() < toward.Left() {
		roundX = math.Ceil
	}
	roundY := math.Floor
	if r.Top() < toward.Top() {
		roundY = math.Ceil
	}

	return Rect{
		X:      roundX(r.X/g.Size) * g.Size,
		Y:      roundY(r.Y/g.Size) * g.Size,
		Width:  math.Max(g.Size, roundX(r.Width/g.Size)*g.Size),
		Height: math.Max(g.Size, roundY(r.Height/g.Size)*g.Size),
	}
}

func cellCount(d, size float64) int {
	return int(math.Ceil(math.Abs(d) / size))
}

func fallback(g Grid, a, b Point, opts MeasureOptions) int {
	m := opts.Fallback
	if m == nil {
		m = EuclideanMeasurer{}
	}
	d := math.Round(m.MeasurePath(g, a, b))
	if d < 0 || math.IsNaN(d) {
		return 0
	}
	return int(d)
}
