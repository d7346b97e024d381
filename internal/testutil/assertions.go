package testutil

import (
	"testing"

	"github.com/udisondev/pf2egrid/internal/area"
)

// CellSet maps (col, row) to the activity of each square.
func CellSet(squares []area.Square) map[[2]int]bool {
	out := make(map[[2]int]bool, len(squares))
	for _, s := range squares {
		out[Cell(s.Center())] = s.Active()
	}
	return out
}

// AssertActive fails the test unless every listed cell is present and
// active.
func AssertActive(t testing.TB, squares []area.Square, cells ...[2]int) {
	t.Helper()
	set := CellSet(squares)
	for _, c := range cells {
		active, ok := set[c]
		if !ok {
			t.Errorf("cell %v is not part of the area", c)
			continue
		}
		if !active {
			t.Errorf("cell %v is blocked, want active", c)
		}
	}
}

// AssertBlocked fails the test unless every listed cell is present and
// blocked.
func AssertBlocked(t testing.TB, squares []area.Square, cells ...[2]int) {
	t.Helper()
	set := CellSet(squares)
	for _, c := range cells {
		active, ok := set[c]
		if !ok {
			t.Errorf("cell %v is not part of the area", c)
			continue
		}
		if active {
			t.Errorf("cell %v is active, want blocked", c)
		}
	}
}

// AssertAbsent fails the test if any listed cell is part of the area.
func AssertAbsent(t testing.TB, squares []area.Square, cells ...[2]int) {
	t.Helper()
	set := CellSet(squares)
	for _, c := range cells {
		if _, ok := set[c]; ok {
			t.Errorf("cell %v should not be part of the area", c)
		}
	}
}
