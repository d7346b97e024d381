// Package party finds free squares next to a party token where its members
// can be placed.
package party

import (
	"cmp"
	"fmt"
	"slices"

	"github.com/udisondev/pf2egrid/internal/area"
	"github.com/udisondev/pf2egrid/internal/geo"
	"github.com/udisondev/pf2egrid/internal/scene"
)

// DefaultMaxRings bounds the search when the caller passes no limit.
const DefaultMaxRings = 3

// DepositSquares returns up to count free squares around the party token.
// The search grows one grid distance per ring until enough squares are
// found or maxRings is reached. A square is free when the party token can
// move to it and no token occupies it. Squares are ordered by distance
// from the party token, then by row, then by column.
func DepositSquares(sc *scene.Scene, partyID string, count, maxRings int) ([]geo.Rect, error) {
	if count <= 0 {
		return nil, nil
	}
	if maxRings <= 0 {
		maxRings = DefaultMaxRings
	}
	if !sc.Ready() {
		return nil, geo.ErrGridUnavailable
	}
	p, ok := sc.Tokens.Get(partyID)
	if !ok {
		return nil, fmt.Errorf("depositing party %q: %w", partyID, scene.ErrTokenNotFound)
	}

	g := sc.Grid
	env := sc.Env()
	var free []candidate
	for ring := 1; ring <= maxRings; ring++ {
		radius := float64(ring) * g.Distance
		squares, err := area.Squares(env, area.Request{
			Bounds:    area.AuraBounds(g, p.Bounds, radius),
			Radius:    radius,
			Reference: p.Bounds,
			Collision: geo.CollisionMove,
			Sampling:  area.SampleCenter,
		})
		if err != nil {
			return nil, fmt.Errorf("depositing party %q: %w", partyID, err)
		}

		free = free[:0]
		for _, sq := range squares {
			if !sq.Active() || !onCanvas(sc, sq.Rect()) || len(sc.Tokens.Overlapping(sq.Rect())) > 0 {
				continue
			}
			d, err := geo.MeasureDistanceCuboid(g, p.Bounds, sq.Rect(), geo.MeasureOptions{})
			if err != nil {
				return nil, err
			}
			col, row := g.CellAt(sq.Center())
			free = append(free, candidate{rect: sq.Rect(), distance: d, col: col, row: row})
		}
		if len(free) >= count {
			break
		}
	}

	slices.SortFunc(free, func(a, b candidate) int {
		return cmp.Or(
			cmp.Compare(a.distance, b.distance),
			cmp.Compare(a.row, b.row),
			cmp.Compare(a.col, b.col),
		)
	})

	out := make([]geo.Rect, 0, min(count, len(free)))
	for _, c := range free[:min(count, len(free))] {
		out = append(out, c.rect)
	}
	return out, nil
}

type candidate struct {
	rect     geo.Rect
	distance int
	col, row int
}

func onCanvas(sc *scene.Scene, r geo.Rect) bool {
	if r.Left() < 0 || r.Top() < 0 {
		return false
	}
	if sc.Width > 0 && r.Right() > sc.Width {
		return false
	}
	if sc.Height > 0 && r.Bottom() > sc.Height {
		return false
	}
	return true
}
