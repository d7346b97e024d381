// Command pf2eview previews an area template on a scene in the terminal.
//
// Keys: arrows move the origin, [ and ] rotate, + and - change the
// distance, s switches shape, q or Esc quits.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/gdamore/tcell/v2"

	"github.com/udisondev/pf2egrid/internal/area"
	"github.com/udisondev/pf2egrid/internal/config"
	"github.com/udisondev/pf2egrid/internal/geo"
	"github.com/udisondev/pf2egrid/internal/scene"
	"github.com/udisondev/pf2egrid/internal/tui"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		slog.Error("fatal", "err", err)
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	cfgPath := flag.String("config", "", "config file")
	scenePath := flag.String("scene", "", "scene YAML file")
	shape := flag.String("shape", string(area.ShapeBurst), "burst, cone or emanation")
	distance := flag.Float64("distance", 10, "area distance")
	x := flag.Float64("x", -1, "origin x in pixels (default scene center)")
	y := flag.Float64("y", -1, "origin y in pixels (default scene center)")
	direction := flag.Float64("direction", area.DefaultDirection, "cone direction in degrees")
	angle := flag.Float64("angle", area.DefaultAngle, "cone angle in degrees")
	flag.Parse()

	cfg, err := config.Load(config.ResolvePath(*cfgPath))
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	// The terminal belongs to the viewer; log to stderr above warnings only.
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: max(cfg.SlogLevel(), slog.LevelWarn),
	})))

	if *scenePath == "" {
		return errors.New("-scene is required")
	}
	sc, err := scene.LoadFile(*scenePath)
	if err != nil {
		return err
	}
	s, err := area.ParseShape(*shape)
	if err != nil {
		return err
	}

	origin := geo.Point{X: *x, Y: *y}
	if origin.X < 0 || origin.Y < 0 {
		origin = sc.Grid.TopLeft(geo.Point{X: sc.Width / 2, Y: sc.Height / 2})
	}
	a := area.Area{
		ID:        "preview",
		Shape:     s,
		Origin:    origin,
		Direction: *direction,
		Angle:     *angle,
		Distance:  *distance,
	}

	screen, err := tcell.NewScreen()
	if err != nil {
		return fmt.Errorf("opening terminal: %w", err)
	}
	if err := screen.Init(); err != nil {
		return fmt.Errorf("initializing terminal: %w", err)
	}
	defer screen.Fini()

	return tui.Run(ctx, screen, tui.NewViewer(sc, a))
}
