package geo

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGridCells(t *testing.T) {
	g := DefaultGrid()

	col, row := g.CellAt(Point{X: 250, Y: 99})
	assert.Equal(t, 2, col)
	assert.Equal(t, 0, row)

	col, row = g.CellAt(Point{X: -1, Y: -150})
	assert.Equal(t, -1, col)
	assert.Equal(t, -2, row)

	assert.Equal(t, NewRect(200, 300, 100, 100), g.CellRect(2, 3))
	assert.Equal(t, Point{X: 250, Y: 350}, g.CellCenter(2, 3))
	assert.Equal(t, Point{X: 200, Y: 300}, g.TopLeft(Point{X: 299, Y: 301}))
	assert.Equal(t, 300.0, g.ToPixels(15))
	assert.True(t, g.OnGridLine(400))
	assert.False(t, g.OnGridLine(450))
}

func TestGridState(t *testing.T) {
	assert.True(t, DefaultGrid().Ready())
	assert.False(t, Grid{Size: 100}.Ready())
	assert.True(t, Grid{}.IsSquare())
	assert.False(t, Grid{Type: GridGridless}.IsSquare())

	gt, err := ParseGridType("hex")
	assert.NoError(t, err)
	assert.Equal(t, GridHex, gt)
	_, err = ParseGridType("triangle")
	assert.Error(t, err)
}

func TestRect(t *testing.T) {
	r := NewRect(100, 200, 300, 100)

	assert.Equal(t, 100.0, r.Left())
	assert.Equal(t, 400.0, r.Right())
	assert.Equal(t, 200.0, r.Top())
	assert.Equal(t, 300.0, r.Bottom())
	assert.Equal(t, Point{X: 250, Y: 250}, r.Center())
	assert.True(t, r.Contains(Point{X: 100, Y: 200}))
	assert.False(t, r.Contains(Point{X: 400, Y: 250}))
	assert.Equal(t, NewRect(90, 180, 320, 140), r.Pad(10, 20))
	assert.Equal(t, NewRect(110, 190, 300, 100), r.Translate(10, -10))

	assert.True(t, r.Overlaps(NewRect(399, 299, 10, 10)))
	assert.False(t, r.Overlaps(NewRect(400, 200, 10, 10)), "shared edge is not overlap")
	assert.True(t, Rect{}.Empty())
}
