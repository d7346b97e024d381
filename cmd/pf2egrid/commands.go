package main

import (
	"context"
	"flag"
	"fmt"
	"strings"

	"github.com/udisondev/pf2egrid/internal/aura"
	"github.com/udisondev/pf2egrid/internal/party"
	"github.com/udisondev/pf2egrid/internal/render"
)

func runMeasure(ctx context.Context, a *app, args []string) error {
	fs := flag.NewFlagSet("measure", flag.ContinueOnError)
	sf := addSceneFlags(fs)
	from := fs.String("from", "", "token measured from")
	to := fs.String("to", "", "token measured to")
	reach := fs.Int("reach", 0, "reach in distance units (10 applies the diagonal exception)")
	if err := parseFlags(fs, args); err != nil {
		return err
	}
	if *from == "" || *to == "" {
		return fmt.Errorf("%w: measure needs -from and -to", errUsage)
	}

	s, err := sf.load(ctx, a)
	if err != nil {
		return err
	}
	d, err := s.Distance(*from, *to, *reach)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "%s -> %s: %d %s\n", *from, *to, d, s.Grid.Units)
	return nil
}

func runHighlight(ctx context.Context, a *app, args []string) error {
	fs := flag.NewFlagSet("highlight", flag.ContinueOnError)
	sf := addSceneFlags(fs)
	only := fs.String("template", "", "only this template ID")
	png := fs.String("png", "", "write a PNG rendering to this path")
	withAuras := fs.Bool("auras", false, "include token auras")
	if err := parseFlags(fs, args); err != nil {
		return err
	}

	s, err := sf.load(ctx, a)
	if err != nil {
		return err
	}
	highlights, err := s.Highlights()
	if err != nil {
		return err
	}
	if *withAuras {
		for _, au := range aura.FromScene(s) {
			h, err := au.Highlight(s)
			if err != nil {
				return err
			}
			highlights = append(highlights, h)
		}
	}
	if *only != "" {
		kept := highlights[:0]
		for _, h := range highlights {
			if h.AreaID == *only {
				kept = append(kept, h)
			}
		}
		highlights = kept
	}

	for _, h := range highlights {
		fmt.Fprintf(a.out, "%s: %d active, %d blocked\n", h.AreaID, len(h.Active()), len(h.Blocked()))
	}
	if *png != "" {
		if err := render.SavePNG(*png, s, highlights, renderOptions(a)); err != nil {
			return err
		}
		fmt.Fprintf(a.out, "wrote %s\n", *png)
	}
	return nil
}

func renderOptions(a *app) render.Options {
	rc := a.cfg.Render
	o := render.DefaultOptions()
	o.Scale = rc.Scale
	o.Background = rc.Background
	o.GridLines = rc.GridLines
	o.Walls = rc.Walls
	o.Tokens = rc.Tokens
	o.FillAlpha = rc.FillAlpha
	o.BlockedAlpha = rc.BlockedAlpha
	return o
}

func runAuras(ctx context.Context, a *app, args []string) error {
	fs := flag.NewFlagSet("auras", flag.ContinueOnError)
	sf := addSceneFlags(fs)
	if err := parseFlags(fs, args); err != nil {
		return err
	}

	s, err := sf.load(ctx, a)
	if err != nil {
		return err
	}
	tr := aura.NewTracker(s, aura.FromScene(s))
	if _, err := tr.Refresh(ctx); err != nil {
		return err
	}
	for _, au := range tr.Auras() {
		fmt.Fprintf(a.out, "%s: %s\n", au.Key(), strings.Join(tr.Members(au.Key()), ", "))
	}
	return nil
}

func runDeposit(ctx context.Context, a *app, args []string) error {
	fs := flag.NewFlagSet("deposit", flag.ContinueOnError)
	sf := addSceneFlags(fs)
	partyID := fs.String("party", "", "party token ID")
	count := fs.Int("count", 4, "number of squares")
	rings := fs.Int("rings", party.DefaultMaxRings, "maximum search rings")
	if err := parseFlags(fs, args); err != nil {
		return err
	}
	if *partyID == "" {
		return fmt.Errorf("%w: deposit needs -party", errUsage)
	}

	s, err := sf.load(ctx, a)
	if err != nil {
		return err
	}
	squares, err := party.DepositSquares(s, *partyID, *count, *rings)
	if err != nil {
		return err
	}
	for _, r := range squares {
		col, row := s.Grid.CellAt(r.Center())
		fmt.Fprintf(a.out, "%d,%d\n", col, row)
	}
	if len(squares) < *count {
		fmt.Fprintf(a.out, "only %d of %d squares free\n", len(squares), *count)
	}
	return nil
}
