package render

import (
	"errors"
	"fmt"
	"math"

	"github.com/gogpu/gg"

	"github.com/udisondev/pf2egrid/internal/area"
	"github.com/udisondev/pf2egrid/internal/scene"
)

// ErrEmptyCanvas is returned when a scene has no drawable size.
var ErrEmptyCanvas = errors.New("scene canvas has no size")

// RenderScene draws the scene grid, walls, tokens and highlights.
func RenderScene(sc *scene.Scene, highlights []area.Highlight, opts Options) (*gg.Context, error) {
	opts = opts.normalized()
	w := int(math.Ceil(sc.Width * opts.Scale))
	h := int(math.Ceil(sc.Height * opts.Scale))
	if w <= 0 || h <= 0 {
		return nil, fmt.Errorf("rendering scene %s: %w", sc.ID, ErrEmptyCanvas)
	}

	dc := gg.NewContext(w, h)
	dc.ClearWithColor(gg.Hex(opts.Background))

	if opts.GridLines && sc.Ready() && sc.Grid.IsSquare() {
		if err := drawGrid(dc, sc, opts); err != nil {
			return nil, err
		}
	}
	for _, hl := range highlights {
		if err := NewLayer(hl, opts).Draw(dc); err != nil {
			return nil, err
		}
	}
	if opts.Walls {
		if err := drawWalls(dc, sc, opts); err != nil {
			return nil, err
		}
	}
	if opts.Tokens {
		if err := drawTokens(dc, sc, opts); err != nil {
			return nil, err
		}
	}
	return dc, nil
}

// SavePNG renders the scene and writes it to path.
func SavePNG(path string, sc *scene.Scene, highlights []area.Highlight, opts Options) error {
	dc, err := RenderScene(sc, highlights, opts)
	if err != nil {
		return err
	}
	defer dc.Close()
	if err := dc.SavePNG(path); err != nil {
		return fmt.Errorf("saving %s: %w", path, err)
	}
	return nil
}

func drawGrid(dc *gg.Context, sc *scene.Scene, opts Options) error {
	step := sc.Grid.Size * opts.Scale
	w, h := float64(dc.Width()), float64(dc.Height())

	setColor(dc, gg.Hex(opts.GridColor))
	dc.SetLineWidth(1)
	for x := 0.0; x <= w; x += step {
		dc.DrawLine(x, 0, x, h)
	}
	for y := 0.0; y <= h; y += step {
		dc.DrawLine(0, y, w, y)
	}
	if err := dc.Stroke(); err != nil {
		return fmt.Errorf("drawing grid: %w", err)
	}
	return nil
}

func drawWalls(dc *gg.Context, sc *scene.Scene, opts Options) error {
	if len(sc.Walls) == 0 {
		return nil
	}
	setColor(dc, gg.Hex(opts.WallColor))
	dc.SetLineWidth(3)
	for _, wall := range sc.Walls {
		dc.DrawLine(wall.A.X*opts.Scale, wall.A.Y*opts.Scale, wall.B.X*opts.Scale, wall.B.Y*opts.Scale)
	}
	if err := dc.Stroke(); err != nil {
		return fmt.Errorf("drawing walls: %w", err)
	}
	return nil
}

func drawTokens(dc *gg.Context, sc *scene.Scene, opts Options) error {
	tokens := sc.Tokens.All()
	if len(tokens) == 0 {
		return nil
	}
	setColor(dc, gg.Hex(opts.TokenColor))
	dc.SetLineWidth(2)
	for _, tok := range tokens {
		if tok.Hidden {
			continue
		}
		r := scaleRect(tok.Bounds, opts.Scale)
		c := r.Center()
		dc.DrawCircle(c.X, c.Y, math.Min(r.Width, r.Height)/2*0.8)
	}
	if err := dc.Stroke(); err != nil {
		return fmt.Errorf("drawing tokens: %w", err)
	}
	return nil
}
