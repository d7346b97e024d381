package geo

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCellMaskTestCollision(t *testing.T) {
	g := DefaultGrid()
	m, err := ParseCellMask(g, []string{
		".....",
		"..#..",
		"..~..",
		"..=..",
		".....",
	})
	require.NoError(t, err)

	cols, rows := m.Size()
	assert.Equal(t, 5, cols)
	assert.Equal(t, 5, rows)

	center := func(col, row int) Point { return g.CellCenter(col, row) }

	tests := []struct {
		name string
		a, b Point
		ct   CollisionType
		want bool
	}{
		{"through stone", center(0, 1), center(4, 1), CollisionMove, true},
		{"fog blocks sight", center(0, 2), center(4, 2), CollisionSight, true},
		{"fog lets movement through", center(0, 2), center(4, 2), CollisionMove, false},
		{"railing blocks movement", center(0, 3), center(4, 3), CollisionMove, true},
		{"railing lets sound through", center(0, 3), center(4, 3), CollisionSound, false},
		{"open row", center(0, 0), center(4, 0), CollisionMove, false},
		{"same cell", center(2, 1), center(2, 1), CollisionMove, false},
		{"endpoint inside blocked cell", center(0, 1), center(2, 1), CollisionMove, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, m.TestCollision(tt.a, tt.b, tt.ct))
		})
	}
}

func TestParseCellMaskErrors(t *testing.T) {
	_, err := ParseCellMask(DefaultGrid(), []string{"..?"})
	assert.Error(t, err)
}

func TestCellMaskString(t *testing.T) {
	rows := []string{"#.~", "=.."}
	m, err := ParseCellMask(DefaultGrid(), rows)
	require.NoError(t, err)
	assert.Equal(t, "#.~\n=..\n", m.String())
	assert.Zero(t, m.Bits(-1, 0))
	m.Set(99, 99, CellBlocksAll) // ignored
}
