package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/udisondev/pf2egrid/internal/scene"
)

// importWorkers bounds concurrent scene imports.
const importWorkers = 4

func runImport(ctx context.Context, a *app, args []string) error {
	fs := flag.NewFlagSet("import", flag.ContinueOnError)
	if err := parseFlags(fs, args); err != nil {
		return err
	}
	if fs.NArg() == 0 {
		return fmt.Errorf("%w: import needs scene files", errUsage)
	}

	docs := make([]scene.Document, 0, fs.NArg())
	for _, path := range fs.Args() {
		doc, err := a.readDocument(path)
		if err != nil {
			return err
		}
		if _, err := scene.FromDocument(doc); err != nil {
			return fmt.Errorf("validating %s: %w", path, err)
		}
		docs = append(docs, doc)
	}

	d, err := a.database(ctx)
	if err != nil {
		return err
	}
	repo := d.Scenes()

	var mu sync.Mutex
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(importWorkers)
	for _, doc := range docs {
		g.Go(func() error {
			saved, err := repo.Save(gctx, doc)
			if err != nil {
				return err
			}
			status := "unchanged"
			if saved {
				status = "saved"
			}
			slog.Debug("scene imported", "scene", doc.ID, "status", status)
			mu.Lock()
			defer mu.Unlock()
			fmt.Fprintf(a.out, "%s: %s\n", doc.ID, status)
			return nil
		})
	}
	return g.Wait()
}

func runList(ctx context.Context, a *app, args []string) error {
	fs := flag.NewFlagSet("list", flag.ContinueOnError)
	if err := parseFlags(fs, args); err != nil {
		return err
	}
	d, err := a.database(ctx)
	if err != nil {
		return err
	}
	scenes, err := d.Scenes().List(ctx)
	if err != nil {
		return err
	}
	for _, s := range scenes {
		fmt.Fprintf(a.out, "%s\t%s\t%s\n", s.ID, s.Name, s.UpdatedAt.Format("2006-01-02 15:04:05"))
	}
	return nil
}

func runDelete(ctx context.Context, a *app, args []string) error {
	fs := flag.NewFlagSet("delete", flag.ContinueOnError)
	id := fs.String("scene-id", "", "ID of the scene to delete")
	if err := parseFlags(fs, args); err != nil {
		return err
	}
	if *id == "" {
		return fmt.Errorf("%w: delete needs -scene-id", errUsage)
	}
	d, err := a.database(ctx)
	if err != nil {
		return err
	}
	deleted, err := d.Scenes().Delete(ctx, *id)
	if err != nil {
		return err
	}
	if !deleted {
		return fmt.Errorf("scene %q not found", *id)
	}
	fmt.Fprintf(a.out, "%s: deleted\n", *id)
	return nil
}
