// Package scene holds the host state that grid geometry needs: the grid,
// the collision backends and the token registry of one map.
package scene

import (
	"github.com/udisondev/pf2egrid/internal/area"
	"github.com/udisondev/pf2egrid/internal/geo"
)

// Scene is one map with its grid, obstacles, tokens and placed areas.
type Scene struct {
	ID   string
	Name string
	Grid geo.Grid
	// Width and Height of the canvas in pixels. Zero means unbounded.
	Width, Height float64

	Walls geo.Walls
	Cells *geo.CellMask
	// Extra collision backends consulted after walls and cells.
	Extra geo.Colliders

	Tokens    *Registry
	Measurer  geo.Measurer
	Templates []area.Template
	Auras     []AuraDoc
}

// New creates an empty scene on the given grid.
func New(id, name string, g geo.Grid) *Scene {
	return &Scene{ID: id, Name: name, Grid: g, Tokens: NewRegistry()}
}

// Ready reports whether the scene has usable grid dimensions.
func (s *Scene) Ready() bool {
	return s != nil && s.Grid.Ready()
}

// Collider returns the combined collision backend of the scene.
func (s *Scene) Collider() geo.Collider {
	cs := make(geo.Colliders, 0, 2+len(s.Extra))
	if len(s.Walls) > 0 {
		cs = append(cs, s.Walls)
	}
	if s.Cells != nil {
		cs = append(cs, s.Cells)
	}
	cs = append(cs, s.Extra...)
	return cs
}

// Env returns the geometry environment of the scene.
func (s *Scene) Env() area.Env {
	return area.Env{Grid: s.Grid, Collider: s.Collider(), Measurer: s.Measurer}
}

// Distance measures between two registered tokens.
func (s *Scene) Distance(fromID, toID string, reach int) (int, error) {
	from, ok := s.Tokens.Get(fromID)
	if !ok {
		return 0, errTokenNotFound(fromID)
	}
	to, ok := s.Tokens.Get(toID)
	if !ok {
		return 0, errTokenNotFound(toID)
	}
	return from.DistanceTo(s.Grid, to, reach, s.Measurer)
}

// Highlights computes the highlight of every template on the scene,
// stopping at the first template that cannot be converted.
func (s *Scene) Highlights() ([]area.Highlight, error) {
	env := s.Env()
	out := make([]area.Highlight, 0, len(s.Templates))
	for _, t := range s.Templates {
		h, err := t.Highlight(env)
		if err != nil {
			return out, err
		}
		out = append(out, h)
	}
	return out, nil
}
