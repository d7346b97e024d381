package area

import (
	"fmt"

	"github.com/udisondev/pf2egrid/internal/geo"
)

// Template defaults for fields left unset in a template document.
const (
	DefaultDirection = 45
	DefaultAngle     = 90
	DefaultDistance  = 5
)

// Template is the stored form of a measured template.
type Template struct {
	ID        string   `yaml:"id"`
	Shape     string   `yaml:"shape"`
	X         float64  `yaml:"x"`
	Y         float64  `yaml:"y"`
	Direction *float64 `yaml:"direction,omitempty"`
	Angle     *float64 `yaml:"angle,omitempty"`
	Distance  *float64 `yaml:"distance,omitempty"`
	Width     float64  `yaml:"width,omitempty"`
	Traits    []string `yaml:"traits,omitempty"`
	Collision string   `yaml:"collision,omitempty"`
	Colors    Colors   `yaml:"colors,omitempty"`
	Preview   bool     `yaml:"preview,omitempty"`
}

// Area converts the template into an Area, filling defaults.
func (t Template) Area() (Area, error) {
	shape, err := ParseShape(t.Shape)
	if err != nil {
		return Area{}, fmt.Errorf("template %q: %w", t.ID, err)
	}
	var collision geo.CollisionType
	if t.Collision != "" {
		if collision, err = geo.ParseCollisionType(t.Collision); err != nil {
			return Area{}, fmt.Errorf("template %q: %w", t.ID, err)
		}
	}

	a := Area{
		ID:        t.ID,
		Preview:   t.Preview,
		Shape:     shape,
		Origin:    geo.Point{X: t.X, Y: t.Y},
		Direction: orDefault(t.Direction, DefaultDirection),
		Angle:     orDefault(t.Angle, DefaultAngle),
		Distance:  orDefault(t.Distance, DefaultDistance),
		Width:     t.Width,
		Traits:    t.Traits,
		Collision: collision,
		Colors:    t.Colors,
	}
	if a.Distance < 0 {
		return Area{}, fmt.Errorf("template %q: negative distance %g", t.ID, a.Distance)
	}
	return a, nil
}

// Highlight computes the template's highlighted cells.
func (t Template) Highlight(env Env) (Highlight, error) {
	a, err := t.Area()
	if err != nil {
		return Highlight{AreaID: t.ID}, err
	}
	return HighlightGrid(env, a)
}

func orDefault(v *float64, def float64) float64 {
	if v == nil {
		return def
	}
	return *v
}
