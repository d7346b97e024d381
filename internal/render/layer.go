// Package render draws scenes and highlighted areas to raster images.
package render

import (
	"fmt"

	"github.com/gogpu/gg"

	"github.com/udisondev/pf2egrid/internal/area"
	"github.com/udisondev/pf2egrid/internal/geo"
)

// Options controls how a scene is drawn.
type Options struct {
	// Scale converts scene pixels to image pixels.
	Scale      float64
	Background string
	GridLines  bool
	GridColor  string
	Walls      bool
	WallColor  string
	Tokens     bool
	TokenColor string
	// FillAlpha is the opacity of active square fills.
	FillAlpha float64
	// BlockedAlpha is the opacity of blocked square fills and borders.
	BlockedAlpha float64
}

// DefaultOptions returns the options used when none are configured.
func DefaultOptions() Options {
	return Options{
		Scale:        1,
		Background:   "#ffffff",
		GridLines:    true,
		GridColor:    "#cccccc",
		Walls:        true,
		WallColor:    "#3366cc",
		Tokens:       true,
		TokenColor:   "#222222",
		FillAlpha:    0.25,
		BlockedAlpha: 0.5,
	}
}

func (o Options) normalized() Options {
	def := DefaultOptions()
	if o.Scale <= 0 {
		o.Scale = def.Scale
	}
	if o.Background == "" {
		o.Background = def.Background
	}
	if o.GridColor == "" {
		o.GridColor = def.GridColor
	}
	if o.WallColor == "" {
		o.WallColor = def.WallColor
	}
	if o.TokenColor == "" {
		o.TokenColor = def.TokenColor
	}
	if o.FillAlpha <= 0 {
		o.FillAlpha = def.FillAlpha
	}
	if o.BlockedAlpha <= 0 {
		o.BlockedAlpha = def.BlockedAlpha
	}
	return o
}

// Layer draws one highlight: active squares in the area colors, blocked
// squares dimmed and struck through.
type Layer struct {
	highlight area.Highlight
	opts      Options
}

// NewLayer creates a layer for h.
func NewLayer(h area.Highlight, opts Options) *Layer {
	return &Layer{highlight: h, opts: opts.normalized()}
}

// Draw paints the layer onto dc.
func (l *Layer) Draw(dc *gg.Context) error {
	colors := l.highlight.Colors.OrDefault()
	fill := gg.Hex(colors.Fill)
	border := gg.Hex(colors.Border)
	black := gg.RGBA{A: 1}

	for _, sq := range l.highlight.Squares {
		r := l.scaled(sq.Rect())
		if sq.Active() {
			if err := l.square(dc, r, withAlpha(fill, l.opts.FillAlpha), withAlpha(border, 1)); err != nil {
				return fmt.Errorf("drawing square of %s: %w", l.highlight.AreaID, err)
			}
			continue
		}
		if err := l.square(dc, r, withAlpha(black, l.opts.BlockedAlpha), withAlpha(black, l.opts.BlockedAlpha)); err != nil {
			return fmt.Errorf("drawing blocked square of %s: %w", l.highlight.AreaID, err)
		}
		setColor(dc, withAlpha(black, l.opts.BlockedAlpha))
		dc.SetLineWidth(1)
		dc.DrawLine(r.Left(), r.Top(), r.Right(), r.Bottom())
		if err := dc.Stroke(); err != nil {
			return fmt.Errorf("striking square of %s: %w", l.highlight.AreaID, err)
		}
	}
	return nil
}

func (l *Layer) square(dc *gg.Context, r geo.Rect, fill, border gg.RGBA) error {
	setColor(dc, fill)
	dc.DrawRectangle(r.X, r.Y, r.Width, r.Height)
	if err := dc.Fill(); err != nil {
		return err
	}
	setColor(dc, border)
	dc.SetLineWidth(1)
	dc.DrawRectangle(r.X, r.Y, r.Width, r.Height)
	return dc.Stroke()
}

func (l *Layer) scaled(r geo.Rect) geo.Rect {
	return scaleRect(r, l.opts.Scale)
}

func scaleRect(r geo.Rect, s float64) geo.Rect {
	return geo.NewRect(r.X*s, r.Y*s, r.Width*s, r.Height*s)
}

func withAlpha(c gg.RGBA, a float64) gg.RGBA {
	c.A = a
	return c
}

func setColor(dc *gg.Context, c gg.RGBA) {
	dc.SetRGBA(c.R, c.G, c.B, c.A)
}
