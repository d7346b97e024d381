package geo

import (
	"fmt"
	"math"
)

// GridType identifies the grid shape of a scene.
type GridType string

const (
	GridSquare   GridType = "square"
	GridHex      GridType = "hex"
	GridGridless GridType = "gridless"
)

// ParseGridType parses a grid type name. An empty name means square.
func ParseGridType(s string) (GridType, error) {
	switch GridType(s) {
	case "", GridSquare:
		return GridSquare, nil
	case GridHex:
		return GridHex, nil
	case GridGridless:
		return GridGridless, nil
	}
	return "", fmt.Errorf("unknown grid type %q", s)
}

// Grid describes the cell lattice of a scene.
type Grid struct {
	Type     GridType `yaml:"type"`
	Size     float64  `yaml:"size"`     // pixels per cell
	Distance float64  `yaml:"distance"` // units per cell
	Units    string   `yaml:"units"`
}

// DefaultGrid returns a square 100px / 5ft grid.
func DefaultGrid() Grid {
	return Grid{
		Type:     GridSquare,
		Size:     DefaultCellSize,
		Distance: DefaultDistance,
		Units:    DefaultUnits,
	}
}

// Ready reports whether the grid has usable dimensions.
func (g Grid) Ready() bool {
	return g.Size > 0 && g.Distance > 0
}

// IsSquare reports whether the grid is a square grid.
func (g Grid) IsSquare() bool {
	return g.Type == GridSquare || g.Type == ""
}

// CellAt returns the column and row of the cell containing p.
func (g Grid) CellAt(p Point) (col, row int) {
	return int(math.Floor(p.X / g.Size)), int(math.Floor(p.Y / g.Size))
}

// CellRect returns the pixel rectangle of cell (col, row).
func (g Grid) CellRect(col, row int) Rect {
	return Rect{X: float64(col) * g.Size, Y: float64(row) * g.Size, Width: g.Size, Height: g.Size}
}

// CellCenter returns the pixel center of cell (col, row).
func (g Grid) CellCenter(col, row int) Point {
	return Point{X: (float64(col) + 0.5) * g.Size, Y: (float64(row) + 0.5) * g.Size}
}

// TopLeft returns the top-left corner of the cell containing p.
func (g Grid) TopLeft(p Point) Point {
	col, row := g.CellAt(p)
	return Point{X: float64(col) * g.Size, Y: float64(row) * g.Size}
}

// ToPixels converts a distance in units to pixels.
func (g Grid) ToPixels(units float64) float64 {
	return units / g.Distance * g.Size
}

// OnGridLine reports whether v lies on a cell boundary.
func (g Grid) OnGridLine(v float64) bool {
	return math.Mod(v, g.Size) == 0
}
