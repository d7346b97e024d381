// Package tui previews area templates on a scene in the terminal.
package tui

import (
	"context"
	"fmt"
	"math"
	"unicode"

	"github.com/gdamore/tcell/v2"

	"github.com/udisondev/pf2egrid/internal/area"
	"github.com/udisondev/pf2egrid/internal/geo"
	"github.com/udisondev/pf2egrid/internal/scene"
)

const (
	glyphEmpty   = '.'
	glyphActive  = '*'
	glyphBlocked = 'x'
	glyphWall    = '#'

	rotateStep = 45.0
)

var shapes = []area.Shape{area.ShapeBurst, area.ShapeCone, area.ShapeEmanation}

var (
	styleEmpty   = tcell.StyleDefault.Foreground(tcell.ColorGray)
	styleActive  = tcell.StyleDefault.Foreground(tcell.ColorOrange)
	styleBlocked = tcell.StyleDefault.Foreground(tcell.ColorRed)
	styleWall    = tcell.StyleDefault.Foreground(tcell.ColorBlue)
	styleToken   = tcell.StyleDefault.Foreground(tcell.ColorWhite).Bold(true)
	styleStatus  = tcell.StyleDefault.Reverse(true)
)

// Viewer draws one scene with a previewed area, one character per cell.
type Viewer struct {
	scene *scene.Scene
	area  area.Area
	err   error
}

// NewViewer creates a viewer previewing a on sc.
func NewViewer(sc *scene.Scene, a area.Area) *Viewer {
	a.Preview = true
	return &Viewer{scene: sc, area: a}
}

// Area returns the previewed area.
func (v *Viewer) Area() area.Area {
	return v.area
}

// HandleKey applies a key press and reports whether the viewer should quit.
func (v *Viewer) HandleKey(ev *tcell.EventKey) bool {
	g := v.scene.Grid
	switch ev.Key() {
	case tcell.KeyEscape, tcell.KeyCtrlC:
		return true
	case tcell.KeyLeft:
		v.moveOrigin(-g.Size, 0)
	case tcell.KeyRight:
		v.moveOrigin(g.Size, 0)
	case tcell.KeyUp:
		v.moveOrigin(0, -g.Size)
	case tcell.KeyDown:
		v.moveOrigin(0, g.Size)
	case tcell.KeyRune:
		switch ev.Rune() {
		case 'q':
			return true
		case ']':
			v.area.Direction = math.Mod(v.area.Direction+rotateStep, 360)
		case '[':
			v.area.Direction = math.Mod(v.area.Direction-rotateStep+360, 360)
		case '+', '=':
			v.area.Distance += g.Distance
		case '-':
			v.area.Distance = math.Max(0, v.area.Distance-g.Distance)
		case 's':
			v.nextShape()
		}
	}
	return false
}

func (v *Viewer) moveOrigin(dx, dy float64) {
	o := v.area.Origin.Add(dx, dy)
	if o.X < 0 || o.Y < 0 || (v.scene.Width > 0 && o.X > v.scene.Width) || (v.scene.Height > 0 && o.Y > v.scene.Height) {
		return
	}
	v.area.Origin = o
	if v.area.Source != nil {
		src := v.area.Source.Translate(dx, dy)
		v.area.Source = &src
	}
}

func (v *Viewer) nextShape() {
	for i, s := range shapes {
		if s == v.area.Shape {
			v.area.Shape = shapes[(i+1)%len(shapes)]
			return
		}
	}
	v.area.Shape = shapes[0]
}

// Draw renders the scene and the previewed area onto screen. The last row
// holds a status line.
func (v *Viewer) Draw(screen tcell.Screen) {
	screen.Clear()
	w, h := screen.Size()
	if h < 2 {
		return
	}

	g := v.scene.Grid
	hl, err := area.HighlightGrid(v.scene.Env(), v.area)
	v.err = err

	cols, rows := v.sceneCells()
	originCol, originRow := g.CellAt(v.area.Origin)
	startCol := viewportStart(originCol, cols, w)
	startRow := viewportStart(originRow, rows, h-1)

	put := func(col, row int, r rune, st tcell.Style) {
		x, y := col-startCol, row-startRow
		if x < 0 || y < 0 || x >= w || y >= h-1 || col >= cols || row >= rows {
			return
		}
		screen.SetContent(x, y, r, nil, st)
	}

	for row := startRow; row < startRow+h-1; row++ {
		for col := startCol; col < startCol+w; col++ {
			put(col, row, glyphEmpty, styleEmpty)
		}
	}
	if v.scene.Cells != nil {
		for row := startRow; row < startRow+h-1; row++ {
			for col := startCol; col < startCol+w; col++ {
				if v.scene.Cells.Bits(col, row)&geo.CellBlocksMove != 0 {
					put(col, row, glyphWall, styleWall)
				}
			}
		}
	}
	for _, sq := range hl.Squares {
		col, row := g.CellAt(sq.Center())
		if sq.Active() {
			put(col, row, glyphActive, styleActive)
		} else {
			put(col, row, glyphBlocked, styleBlocked)
		}
	}
	for _, tok := range v.scene.Tokens.All() {
		if tok.Hidden {
			continue
		}
		r := tokenGlyph(tok)
		c0, r0 := g.CellAt(geo.Point{X: tok.Bounds.X, Y: tok.Bounds.Y})
		tw, th := tok.Cells(g)
		for dc := 0; dc < max(1, int(math.Ceil(tw))); dc++ {
			for dr := 0; dr < max(1, int(math.Ceil(th))); dr++ {
				put(c0+dc, r0+dr, r, styleToken)
			}
		}
	}

	status := v.status()
	for x := 0; x < w; x++ {
		r := ' '
		if x < len(status) {
			r = rune(status[x])
		}
		screen.SetContent(x, h-1, r, nil, styleStatus)
	}
}

func (v *Viewer) status() string {
	a := v.area
	s := fmt.Sprintf(" %s %g%s", a.Shape, a.Distance, v.scene.Grid.Units)
	if a.Shape == area.ShapeCone {
		s += fmt.Sprintf(" dir %g angle %g", a.Direction, a.Angle)
	}
	s += fmt.Sprintf(" at (%g,%g)", a.Origin.X, a.Origin.Y)
	if v.err != nil {
		s += " error: " + v.err.Error()
	}
	return s
}

func (v *Viewer) sceneCells() (cols, rows int) {
	g := v.scene.Grid
	if !g.Ready() {
		return 0, 0
	}
	return int(math.Ceil(v.scene.Width / g.Size)), int(math.Ceil(v.scene.Height / g.Size))
}

// viewportStart scrolls so that focus stays visible when the scene does
// not fit on screen.
func viewportStart(focus, total, visible int) int {
	if total <= visible {
		return 0
	}
	return min(max(focus-visible/2, 0), total-visible)
}

func tokenGlyph(tok scene.Token) rune {
	name := tok.Name
	if name == "" {
		name = tok.ID
	}
	for _, r := range name {
		return unicode.ToUpper(r)
	}
	return '@'
}

// Run draws the viewer and handles key presses until the user quits or
// ctx is done.
func Run(ctx context.Context, screen tcell.Screen, v *Viewer) error {
	events := make(chan tcell.Event, 16)
	done := make(chan struct{})
	defer close(done)

	go func() {
		for {
			ev := screen.PollEvent()
			if ev == nil {
				return
			}
			select {
			case events <- ev:
			case <-done:
				return
			}
		}
	}()

	v.Draw(screen)
	screen.Show()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case ev := <-events:
			switch ev := ev.(type) {
			case *tcell.EventKey:
				if v.HandleKey(ev) {
					return nil
				}
			case *tcell.EventResize:
				screen.Sync()
			}
			v.Draw(screen)
			screen.Show()
		}
	}
}
