// Command pf2egrid measures distances and highlights areas on PF2e scenes.
//
// Usage:
//
//	pf2egrid measure   -scene crypt.yaml -from fighter -to dragon
//	pf2egrid highlight -scene crypt.yaml -png out.png
//	pf2egrid auras     -scene crypt.yaml
//	pf2egrid deposit   -scene crypt.yaml -party fighter -count 4
//	pf2egrid import    crypt.yaml tomb.yaml
//	pf2egrid list
//	pf2egrid delete    -scene-id crypt
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"sort"
	"syscall"

	"gopkg.in/yaml.v3"

	"github.com/udisondev/pf2egrid/internal/config"
	"github.com/udisondev/pf2egrid/internal/db"
	"github.com/udisondev/pf2egrid/internal/scene"
)

// errUsage is returned for malformed command lines.
var errUsage = errors.New("usage")

type command struct {
	name string
	desc string
	run  func(ctx context.Context, a *app, args []string) error
}

var commands []command

func registerCommand(name, desc string, fn func(ctx context.Context, a *app, args []string) error) {
	commands = append(commands, command{name: name, desc: desc, run: fn})
}

func init() {
	registerCommand("measure", "Distance between two tokens", runMeasure)
	registerCommand("highlight", "Highlighted cells of the scene templates", runHighlight)
	registerCommand("auras", "Tokens inside each aura", runAuras)
	registerCommand("deposit", "Free squares around a party token", runDeposit)
	registerCommand("import", "Store scene files in the database", runImport)
	registerCommand("list", "List stored scenes", runList)
	registerCommand("delete", "Delete a stored scene", runDelete)
}

// app is the state shared by every command.
type app struct {
	cfg config.Config
	out io.Writer
	db  *db.DB
}

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		slog.Info("shutting down", "signal", sig)
		cancel()
	}()

	if err := run(ctx, os.Args[1:], os.Stdout); err != nil {
		if errors.Is(err, errUsage) {
			printUsage(os.Stderr)
			os.Exit(2)
		}
		slog.Error("fatal", "err", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string, out io.Writer) error {
	root := flag.NewFlagSet("pf2egrid", flag.ContinueOnError)
	root.SetOutput(io.Discard)
	cfgPath := root.String("config", "", "config file (default $"+config.EnvPath+" or "+config.DefaultPath+")")
	if err := root.Parse(args); err != nil {
		return fmt.Errorf("%w: %v", errUsage, err)
	}
	if root.NArg() == 0 {
		return errUsage
	}

	cfg, err := config.Load(config.ResolvePath(*cfgPath))
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: cfg.SlogLevel(),
	})))

	name := root.Arg(0)
	for _, c := range commands {
		if c.name != name {
			continue
		}
		a := &app{cfg: cfg, out: out}
		defer a.close()
		slog.Debug("running command", "command", name)
		return c.run(ctx, a, root.Args()[1:])
	}
	return fmt.Errorf("%w: unknown command %q", errUsage, name)
}

func printUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: pf2egrid [-config file] <command> [flags]")
	fmt.Fprintln(w)
	sorted := append([]command(nil), commands...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].name < sorted[j].name })
	for _, c := range sorted {
		fmt.Fprintf(w, "  %-10s %s\n", c.name, c.desc)
	}
}

// database connects lazily and runs migrations on first use.
func (a *app) database(ctx context.Context) (*db.DB, error) {
	if a.db != nil {
		return a.db, nil
	}
	dsn := a.cfg.Database.DSN()
	if err := db.RunMigrations(ctx, dsn); err != nil {
		return nil, err
	}
	d, err := db.New(ctx, dsn, a.cfg.Database.MaxConns)
	if err != nil {
		return nil, err
	}
	slog.Info("database connected", "host", a.cfg.Database.Host, "dbname", a.cfg.Database.DBName)
	a.db = d
	return d, nil
}

func (a *app) close() {
	if a.db != nil {
		a.db.Close()
	}
}

// sceneFlags adds the flags selecting a scene to fs.
type sceneFlags struct {
	file string
	id   string
}

func addSceneFlags(fs *flag.FlagSet) *sceneFlags {
	sf := &sceneFlags{}
	fs.StringVar(&sf.file, "scene", "", "scene YAML file")
	fs.StringVar(&sf.id, "scene-id", "", "ID of a scene stored in the database")
	return sf
}

// load returns the selected scene from a file or the database.
func (sf *sceneFlags) load(ctx context.Context, a *app) (*scene.Scene, error) {
	switch {
	case sf.file != "":
		doc, err := a.readDocument(sf.file)
		if err != nil {
			return nil, err
		}
		return scene.FromDocument(doc)
	case sf.id != "":
		d, err := a.database(ctx)
		if err != nil {
			return nil, err
		}
		s, err := d.Scenes().LoadScene(ctx, sf.id)
		if err != nil {
			return nil, err
		}
		if s == nil {
			return nil, fmt.Errorf("scene %q not found", sf.id)
		}
		return s, nil
	}
	return nil, fmt.Errorf("%w: -scene or -scene-id is required", errUsage)
}

// readDocument decodes a scene file, taking the configured grid for scenes
// that declare none.
func (a *app) readDocument(path string) (scene.Document, error) {
	var doc scene.Document
	data, err := os.ReadFile(path)
	if err != nil {
		return doc, fmt.Errorf("reading scene %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return doc, fmt.Errorf("parsing scene %s: %w", path, err)
	}
	if doc.Grid.Size == 0 && doc.Grid.Distance == 0 {
		doc.Grid = a.cfg.Grid
	}
	return doc, nil
}

func parseFlags(fs *flag.FlagSet, args []string) error {
	fs.SetOutput(io.Discard)
	if err := fs.Parse(args); err != nil {
		return fmt.Errorf("%w: %s: %v", errUsage, fs.Name(), err)
	}
	return nil
}
