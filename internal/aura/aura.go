// Package aura implements token auras: emanations that follow a token,
// and the tracking of which tokens stand inside them.
package aura

import (
	"fmt"

	"github.com/udisondev/pf2egrid/internal/area"
	"github.com/udisondev/pf2egrid/internal/geo"
	"github.com/udisondev/pf2egrid/internal/scene"
)

// Aura is an emanation attached to a token.
type Aura struct {
	Slug    string
	TokenID string
	// Radius in distance units.
	Radius float64
	Traits []string
	Colors area.Colors
}

// FromDoc converts the scene file form of an aura.
func FromDoc(d scene.AuraDoc) Aura {
	return Aura{Slug: d.Slug, TokenID: d.Token, Radius: d.Radius, Traits: d.Traits, Colors: d.Colors}
}

// FromScene returns every aura declared on a scene.
func FromScene(s *scene.Scene) []Aura {
	out := make([]Aura, 0, len(s.Auras))
	for _, d := range s.Auras {
		out = append(out, FromDoc(d))
	}
	return out
}

// Key identifies an aura within a scene.
func (a Aura) Key() string {
	return a.TokenID + "/" + a.Slug
}

func (a Aura) token(s *scene.Scene) (scene.Token, error) {
	tok, ok := s.Tokens.Get(a.TokenID)
	if !ok {
		return scene.Token{}, fmt.Errorf("aura %s: token %q: %w", a.Slug, a.TokenID, scene.ErrTokenNotFound)
	}
	return tok, nil
}

// Squares returns the grid squares the aura covers, each active when the
// aura token has line of effect to it.
func (a Aura) Squares(s *scene.Scene) ([]area.Square, error) {
	tok, err := a.token(s)
	if err != nil {
		return nil, err
	}
	return a.squaresFor(s, tok)
}

func (a Aura) squaresFor(s *scene.Scene, tok scene.Token) ([]area.Square, error) {
	return area.Squares(s.Env(), area.Request{
		Bounds:    area.AuraBounds(s.Grid, tok.Bounds, a.Radius),
		Radius:    a.Radius,
		Reference: tok.Bounds,
		Traits:    a.Traits,
		Sampling:  area.SampleConstellation,
	})
}

// Area returns the aura as an emanation area from its token.
func (a Aura) Area(s *scene.Scene) (area.Area, error) {
	tok, err := a.token(s)
	if err != nil {
		return area.Area{}, err
	}
	w, _ := tok.Cells(s.Grid)
	bounds := tok.Bounds
	return area.Area{
		ID:       a.Key(),
		Shape:    area.ShapeEmanation,
		Origin:   tok.Center(),
		Distance: a.Radius,
		Width:    w,
		Traits:   a.Traits,
		Colors:   a.Colors,
		Source:   &bounds,
	}, nil
}

// Highlight returns the highlighted cell set of the aura.
func (a Aura) Highlight(s *scene.Scene) (area.Highlight, error) {
	ar, err := a.Area(s)
	if err != nil {
		return area.Highlight{AreaID: a.Key()}, err
	}
	return area.HighlightGrid(s.Env(), ar)
}

// Contains reports whether tok stands inside the aura: within radius of
// the aura token and overlapping at least one active square. The aura
// token is always inside its own aura.
func (a Aura) Contains(s *scene.Scene, tok scene.Token) (bool, error) {
	owner, err := a.token(s)
	if err != nil {
		return false, err
	}
	squares, err := a.squaresFor(s, owner)
	if err != nil {
		return false, err
	}
	return a.contains(s, owner, squares, tok)
}

func (a Aura) contains(s *scene.Scene, owner scene.Token, squares []area.Square, tok scene.Token) (bool, error) {
	if tok.ID == owner.ID {
		return true, nil
	}
	d, err := owner.DistanceTo(s.Grid, tok, 0, s.Measurer)
	if err != nil {
		return false, err
	}
	if float64(d) > a.Radius {
		return false, nil
	}
	for _, sq := range squares {
		if sq.Active() && overlapsOrInside(sq.Rect(), tok.Bounds) {
			return true, nil
		}
	}
	return false, nil
}

// overlapsOrInside treats a token smaller than a cell as inside the square
// holding its center.
func overlapsOrInside(square, bounds geo.Rect) bool {
	return square.Overlaps(bounds) || square.Contains(bounds.Center())
}
