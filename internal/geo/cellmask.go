package geo

import (
	"fmt"
	"strings"
)

// Cell restriction bits.
const (
	CellBlocksMove byte = 1 << iota
	CellBlocksSight
	CellBlocksSound
	CellBlocksLight

	CellBlocksAll = CellBlocksMove | CellBlocksSight | CellBlocksSound | CellBlocksLight
)

// CellMask is a cell-based collision backend: each cell carries a bitmask of
// the collision types it blocks. Lines are traced through cells with a
// Bresenham iterator; the start and end cells never block.
type CellMask struct {
	grid Grid
	cols int
	rows int
	mask []byte
}

// NewCellMask creates an empty mask of cols x rows cells.
func NewCellMask(g Grid, cols, rows int) *CellMask {
	return &CellMask{grid: g, cols: cols, rows: rows, mask: make([]byte, cols*rows)}
}

// ParseCellMask builds a mask from text rows. '#' blocks everything,
// '~' blocks sight and light only (fog, foliage), '=' blocks movement only
// (glass, railings), any other rune is open.
func ParseCellMask(g Grid, rows []string) (*CellMask, error) {
	cols := 0
	for _, r := range rows {
		cols = max(cols, len([]rune(r)))
	}
	m := NewCellMask(g, cols, len(rows))
	for y, r := range rows {
		for x, c := range []rune(r) {
			switch c {
			case '#':
				m.Set(x, y, CellBlocksAll)
			case '~':
				m.Set(x, y, CellBlocksSight|CellBlocksLight)
			case '=':
				m.Set(x, y, CellBlocksMove)
			case '.', ' ':
			default:
				return nil, fmt.Errorf("cell mask row %d col %d: unknown cell %q", y, x, c)
			}
		}
	}
	return m, nil
}

// Set assigns the restriction bits of a cell. Out-of-range cells are ignored.
func (m *CellMask) Set(col, row int, bits byte) {
	if !m.inBounds(col, row) {
		return
	}
	m.mask[row*m.cols+col] = bits
}

// Bits returns the restriction bits of a cell; out-of-range cells are open.
func (m *CellMask) Bits(col, row int) byte {
	if !m.inBounds(col, row) {
		return 0
	}
	return m.mask[row*m.cols+col]
}

// Size returns the mask dimensions in cells.
func (m *CellMask) Size() (cols, rows int) {
	return m.cols, m.rows
}

// TestCollision implements Collider.
func (m *CellMask) TestCollision(a, b Point, t CollisionType) bool {
	bit := collisionBit(t)
	if bit == 0 {
		return false
	}

	sx, sy := m.grid.CellAt(a)
	ex, ey := m.grid.CellAt(b)
	if sx == ex && sy == ey {
		return false
	}

	it := NewLineIterator(sx, sy, ex, ey)
	it.Next() // Skip start

	for it.Next() {
		cx, cy := it.X(), it.Y()
		if cx == ex && cy == ey {
			break
		}
		if m.Bits(cx, cy)&bit != 0 {
			return true
		}
	}
	return false
}

// String renders the mask with the same runes ParseCellMask accepts.
func (m *CellMask) String() string {
	var b strings.Builder
	for y := range m.rows {
		for x := range m.cols {
			switch bits := m.Bits(x, y); {
			case bits == 0:
				b.WriteByte('.')
			case bits == CellBlocksMove:
				b.WriteByte('=')
			case bits&CellBlocksMove == 0:
				b.WriteByte('~')
			default:
				b.WriteByte('#')
			}
		}
		b.WriteByte('\n')
	}
	return b.String()
}

func (m *CellMask) inBounds(col, row int) bool {
	return col >= 0 && col < m.cols && row >= 0 && row < m.rows
}

func collisionBit(t CollisionType) byte {
	switch t {
	case CollisionMove:
		return CellBlocksMove
	case CollisionSight:
		return CellBlocksSight
	case CollisionSound:
		return CellBlocksSound
	case CollisionLight:
		return CellBlocksLight
	}
	return 0
}
