package party

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/udisondev/pf2egrid/internal/geo"
	"github.com/udisondev/pf2egrid/internal/scene"
	"github.com/udisondev/pf2egrid/internal/testutil"
)

func cells(rects []geo.Rect) [][2]int {
	out := make([][2]int, 0, len(rects))
	for _, r := range rects {
		out = append(out, testutil.Cell(r.Center()))
	}
	return out
}

func TestDepositSquares(t *testing.T) {
	tests := []struct {
		name     string
		setup    func(t *testing.T, s *scene.Scene)
		count    int
		maxRings int
		want     [][2]int
	}{
		{
			name:  "first ring ordered by row then column",
			count: 4,
			want:  [][2]int{{4, 4}, {5, 4}, {6, 4}, {4, 5}},
		},
		{
			name: "occupied squares are skipped",
			setup: func(t *testing.T, s *scene.Scene) {
				testutil.AddToken(t, s, "npc", 5, 4, 1)
			},
			count: 4,
			want:  [][2]int{{4, 4}, {6, 4}, {4, 5}, {6, 5}},
		},
		{
			name:  "grows into the second ring",
			count: 10,
			want: [][2]int{
				{4, 4}, {5, 4}, {6, 4}, {4, 5}, {6, 5}, {4, 6}, {5, 6}, {6, 6},
				{4, 3}, {5, 3},
			},
		},
		{
			name: "walls block movement",
			setup: func(t *testing.T, s *scene.Scene) {
				s.Walls = geo.Walls{testutil.VerticalWall(6, 0, 20)}
			},
			count: 3,
			want:  [][2]int{{4, 4}, {5, 4}, {4, 5}},
		},
		{
			name: "ring limit caps the result",
			setup: func(t *testing.T, s *scene.Scene) {
				for i, c := range [][2]int{{4, 4}, {5, 4}, {6, 4}, {4, 5}, {6, 5}, {4, 6}, {5, 6}} {
					testutil.AddToken(t, s, fmt.Sprintf("npc%d", i), c[0], c[1], 1)
				}
			},
			count:    3,
			maxRings: 1,
			want:     [][2]int{{6, 6}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := testutil.NewScene(t)
			testutil.AddToken(t, s, "party", 5, 5, 1)
			if tt.setup != nil {
				tt.setup(t, s)
			}

			got, err := DepositSquares(s, "party", tt.count, tt.maxRings)
			require.NoError(t, err)
			assert.Equal(t, tt.want, cells(got))
		})
	}
}

func TestDepositSquaresCanvasEdge(t *testing.T) {
	s := testutil.NewScene(t)
	testutil.AddToken(t, s, "party", 0, 0, 1)

	got, err := DepositSquares(s, "party", 8, 1)
	require.NoError(t, err)
	assert.Equal(t, [][2]int{{1, 0}, {0, 1}, {1, 1}}, cells(got))
}

func TestDepositSquaresLargeParty(t *testing.T) {
	s := testutil.NewScene(t)
	testutil.AddToken(t, s, "party", 4, 4, 2)

	got, err := DepositSquares(s, "party", 20, 1)
	require.NoError(t, err)
	assert.Len(t, got, 12)
	for _, r := range got {
		assert.Empty(t, s.Tokens.Overlapping(r))
	}
}

func TestDepositSquaresErrors(t *testing.T) {
	s := testutil.NewScene(t)
	testutil.AddToken(t, s, "party", 5, 5, 1)

	got, err := DepositSquares(s, "party", 0, 1)
	require.NoError(t, err)
	assert.Empty(t, got)

	_, err = DepositSquares(s, "ghost", 1, 1)
	assert.ErrorIs(t, err, scene.ErrTokenNotFound)

	s.Grid.Size = 0
	_, err = DepositSquares(s, "party", 1, 1)
	assert.ErrorIs(t, err, geo.ErrGridUnavailable)
}
