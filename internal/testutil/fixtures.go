package testutil

import (
	"testing"

	"github.com/udisondev/pf2egrid/internal/geo"
	"github.com/udisondev/pf2egrid/internal/scene"
)

// Grid is the 100px / 5ft square grid every fixture uses.
var Grid = geo.DefaultGrid()

// NewScene returns an empty 20x20 cell scene.
func NewScene(t testing.TB) *scene.Scene {
	t.Helper()
	s := scene.New("test", "Test Scene", Grid)
	s.Width, s.Height = 20*Grid.Size, 20*Grid.Size
	return s
}

// Token builds a token occupying size x size cells with its top-left cell
// at (col, row).
func Token(id string, col, row int, size float64) scene.Token {
	return scene.Token{
		ID:     id,
		Name:   id,
		Bounds: geo.NewRect(float64(col)*Grid.Size, float64(row)*Grid.Size, size*Grid.Size, size*Grid.Size),
	}
}

// AddToken registers a token on the scene and fails the test on error.
func AddToken(t testing.TB, s *scene.Scene, id string, col, row int, size float64) scene.Token {
	t.Helper()
	tok := Token(id, col, row, size)
	if err := s.Tokens.Add(tok); err != nil {
		t.Fatalf("adding token %s: %v", id, err)
	}
	return tok
}

// VerticalWall returns a solid wall along x = col*cellSize spanning rows
// [fromRow, toRow).
func VerticalWall(col, fromRow, toRow int) geo.Wall {
	x := float64(col) * Grid.Size
	return geo.SolidWall(
		geo.Point{X: x, Y: float64(fromRow) * Grid.Size},
		geo.Point{X: x, Y: float64(toRow) * Grid.Size},
	)
}

// Cell returns the (col, row) of the cell containing p.
func Cell(p geo.Point) [2]int {
	col, row := Grid.CellAt(p)
	return [2]int{col, row}
}
