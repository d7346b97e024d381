package scene

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/udisondev/pf2egrid/internal/area"
	"github.com/udisondev/pf2egrid/internal/geo"
)

// Document is the file form of a scene.
type Document struct {
	ID        string          `yaml:"id"`
	Name      string          `yaml:"name"`
	Grid      geo.Grid        `yaml:"grid"`
	Width     float64         `yaml:"width,omitempty"`
	Height    float64         `yaml:"height,omitempty"`
	Walls     []geo.Wall      `yaml:"walls,omitempty"`
	Cells     []string        `yaml:"cells,omitempty"`
	Tokens    []TokenDoc      `yaml:"tokens,omitempty"`
	Templates []area.Template `yaml:"templates,omitempty"`
	Auras     []AuraDoc       `yaml:"auras,omitempty"`
}

// TokenDoc is the file form of a token. Position is in pixels, footprint
// in cells.
type TokenDoc struct {
	ID        string   `yaml:"id"`
	Name      string   `yaml:"name,omitempty"`
	X         float64  `yaml:"x"`
	Y         float64  `yaml:"y"`
	Width     float64  `yaml:"width,omitempty"`
	Height    float64  `yaml:"height,omitempty"`
	Elevation float64  `yaml:"elevation,omitempty"`
	Vertical  *float64 `yaml:"vertical,omitempty"`
	Hidden    bool     `yaml:"hidden,omitempty"`
}

// AuraDoc is the file form of a token aura.
type AuraDoc struct {
	Slug   string      `yaml:"slug"`
	Token  string      `yaml:"token"`
	Radius float64     `yaml:"radius"`
	Traits []string    `yaml:"traits,omitempty"`
	Colors area.Colors `yaml:"colors,omitempty"`
}

// LoadFile reads and decodes a YAML scene file.
func LoadFile(path string) (*Scene, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading scene %s: %w", path, err)
	}
	s, err := Decode(data)
	if err != nil {
		return nil, fmt.Errorf("parsing scene %s: %w", path, err)
	}
	return s, nil
}

// SaveFile encodes a scene to a YAML file.
func SaveFile(path string, s *Scene) error {
	data, err := Encode(s.Document())
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing scene %s: %w", path, err)
	}
	return nil
}

// Decode parses a YAML scene document and builds the scene.
func Decode(data []byte) (*Scene, error) {
	var doc Document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("decoding scene: %w", err)
	}
	return FromDocument(doc)
}

// Encode renders a document as YAML.
func Encode(doc Document) ([]byte, error) {
	data, err := yaml.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("encoding scene %q: %w", doc.ID, err)
	}
	return data, nil
}

// FromDocument validates a document and builds the scene. Missing grid
// fields fall back to geo.DefaultGrid.
func FromDocument(doc Document) (*Scene, error) {
	g, err := normalizeGrid(doc.Grid)
	if err != nil {
		return nil, err
	}

	s := New(doc.ID, doc.Name, g)
	s.Width, s.Height = doc.Width, doc.Height

	var errs []error
	for i, w := range doc.Walls {
		if err := w.Validate(); err != nil {
			errs = append(errs, fmt.Errorf("walls[%d]: %w", i, err))
		}
	}
	s.Walls = doc.Walls

	if len(doc.Cells) > 0 {
		cells, err := geo.ParseCellMask(g, doc.Cells)
		if err != nil {
			errs = append(errs, fmt.Errorf("cells: %w", err))
		}
		s.Cells = cells
	}

	for i, td := range doc.Tokens {
		if err := s.Tokens.Add(td.token(g)); err != nil {
			errs = append(errs, fmt.Errorf("tokens[%d]: %w", i, err))
		}
	}

	for i, t := range doc.Templates {
		if _, err := t.Area(); err != nil {
			errs = append(errs, fmt.Errorf("templates[%d]: %w", i, err))
		}
	}
	s.Templates = doc.Templates

	for i, a := range doc.Auras {
		switch {
		case a.Slug == "":
			errs = append(errs, fmt.Errorf("auras[%d]: slug is empty", i))
		case a.Radius < 0:
			errs = append(errs, fmt.Errorf("auras[%d]: negative radius %g", i, a.Radius))
		default:
			if _, ok := s.Tokens.Get(a.Token); !ok {
				errs = append(errs, fmt.Errorf("auras[%d]: %w", i, errTokenNotFound(a.Token)))
			}
		}
	}
	s.Auras = doc.Auras

	if err := errors.Join(errs...); err != nil {
		return nil, fmt.Errorf("scene %q: %w", doc.ID, err)
	}
	return s, nil
}

// Document returns the file form of the scene.
func (s *Scene) Document() Document {
	doc := Document{
		ID:        s.ID,
		Name:      s.Name,
		Grid:      s.Grid,
		Width:     s.Width,
		Height:    s.Height,
		Walls:     s.Walls,
		Templates: s.Templates,
		Auras:     s.Auras,
	}
	if s.Cells != nil {
		doc.Cells = strings.Split(strings.TrimSuffix(s.Cells.String(), "\n"), "\n")
	}
	for _, t := range s.Tokens.All() {
		w, h := t.Cells(s.Grid)
		doc.Tokens = append(doc.Tokens, TokenDoc{
			ID:        t.ID,
			Name:      t.Name,
			X:         t.Bounds.X,
			Y:         t.Bounds.Y,
			Width:     w,
			Height:    h,
			Elevation: t.Elevation,
			Vertical:  t.Vertical,
			Hidden:    t.Hidden,
		})
	}
	return doc
}

func (td TokenDoc) token(g geo.Grid) Token {
	w, h := td.Width, td.Height
	if w <= 0 {
		w = 1
	}
	if h <= 0 {
		h = w
	}
	return Token{
		ID:        td.ID,
		Name:      td.Name,
		Bounds:    geo.NewRect(td.X, td.Y, w*g.Size, h*g.Size),
		Elevation: td.Elevation,
		Vertical:  td.Vertical,
		Hidden:    td.Hidden,
	}
}

func normalizeGrid(g geo.Grid) (geo.Grid, error) {
	def := geo.DefaultGrid()
	t, err := geo.ParseGridType(string(g.Type))
	if err != nil {
		return g, err
	}
	g.Type = t
	if g.Size == 0 {
		g.Size = def.Size
	}
	if g.Distance == 0 {
		g.Distance = def.Distance
	}
	if g.Units == "" {
		g.Units = def.Units
	}
	if g.Size < 0 || g.Distance < 0 {
		return g, fmt.Errorf("grid size %g and distance %g must be positive", g.Size, g.Distance)
	}
	return g, nil
}
