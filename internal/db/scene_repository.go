package db

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"golang.org/x/crypto/blake2b"
	"gopkg.in/yaml.v3"

	"github.com/udisondev/pf2egrid/internal/area"
	"github.com/udisondev/pf2egrid/internal/geo"
	"github.com/udisondev/pf2egrid/internal/scene"
)

// SceneSummary is one row of the scene listing.
type SceneSummary struct {
	ID        string
	Name      string
	UpdatedAt time.Time
}

// SceneRepository stores scene documents in PostgreSQL.
type SceneRepository struct {
	pool *pgxpool.Pool
}

// NewSceneRepository creates a new scene repository.
func NewSceneRepository(pool *pgxpool.Pool) *SceneRepository {
	return &SceneRepository{pool: pool}
}

// Digest returns the content digest of a scene document.
func Digest(doc scene.Document) ([]byte, error) {
	data, err := scene.Encode(doc)
	if err != nil {
		return nil, fmt.Errorf("encoding scene %q: %w", doc.ID, err)
	}
	sum := blake2b.Sum256(data)
	return sum[:], nil
}

// Save stores doc in a single transaction, replacing its tokens, walls,
// templates and auras. It reports false without writing when the stored
// scene already has the same content.
func (r *SceneRepository) Save(ctx context.Context, doc scene.Document) (bool, error) {
	digest, err := Digest(doc)
	if err != nil {
		return false, err
	}

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return false, fmt.Errorf("begin transaction for scene %q: %w", doc.ID, err)
	}
	defer func() {
		if err := tx.Rollback(ctx); err != nil && !errors.Is(err, pgx.ErrTxClosed) {
			slog.Error("rollback failed", "scene", doc.ID, "error", err)
		}
	}()

	var stored []byte
	err = tx.QueryRow(ctx, `SELECT digest FROM scenes WHERE id = $1 FOR UPDATE`, doc.ID).Scan(&stored)
	switch {
	case errors.Is(err, pgx.ErrNoRows):
	case err != nil:
		return false, fmt.Errorf("querying digest of scene %q: %w", doc.ID, err)
	case bytes.Equal(stored, digest):
		slog.Debug("scene unchanged", "scene", doc.ID)
		return false, nil
	}

	if _, err := tx.Exec(ctx, `
		INSERT INTO scenes (id, name, grid_type, grid_size, grid_distance, grid_units, width, height, cells, digest, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, now())
		ON CONFLICT (id) DO UPDATE SET
			name = EXCLUDED.name,
			grid_type = EXCLUDED.grid_type,
			grid_size = EXCLUDED.grid_size,
			grid_distance = EXCLUDED.grid_distance,
			grid_units = EXCLUDED.grid_units,
			width = EXCLUDED.width,
			height = EXCLUDED.height,
			cells = EXCLUDED.cells,
			digest = EXCLUDED.digest,
			updated_at = now()`,
		doc.ID, doc.Name, string(doc.Grid.Type), doc.Grid.Size, doc.Grid.Distance, doc.Grid.Units,
		doc.Width, doc.Height, doc.Cells, digest,
	); err != nil {
		return false, fmt.Errorf("upserting scene %q: %w", doc.ID, err)
	}

	if err := saveChildrenTx(ctx, tx, doc); err != nil {
		return false, fmt.Errorf("saving scene %q: %w", doc.ID, err)
	}

	if err := tx.Commit(ctx); err != nil {
		return false, fmt.Errorf("committing scene %q: %w", doc.ID, err)
	}
	slog.Info("scene saved", "scene", doc.ID, "tokens", len(doc.Tokens), "walls", len(doc.Walls))
	return true, nil
}

func saveChildrenTx(ctx context.Context, tx pgx.Tx, doc scene.Document) error {
	for _, table := range []string{"scene_tokens", "scene_walls", "scene_templates", "scene_auras"} {
		if _, err := tx.Exec(ctx, `DELETE FROM `+table+` WHERE scene_id = $1`, doc.ID); err != nil {
			return fmt.Errorf("clearing %s: %w", table, err)
		}
	}

	b := &pgx.Batch{}
	for i, t := range doc.Tokens {
		b.Queue(`INSERT INTO scene_tokens (scene_id, idx, token_id, name, x, y, width, height, elevation, vertical, hidden)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`,
			doc.ID, i, t.ID, t.Name, t.X, t.Y, t.Width, t.Height, t.Elevation, t.Vertical, t.Hidden)
	}
	for i, w := range doc.Walls {
		b.Queue(`INSERT INTO scene_walls (scene_id, idx, a_x, a_y, b_x, b_y, move, sight, sound, light, door)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`,
			doc.ID, i, w.A.X, w.A.Y, w.B.X, w.B.Y, w.Move, w.Sight, w.Sound, w.Light, string(w.Door))
	}
	for i, t := range doc.Templates {
		body, err := yaml.Marshal(t)
		if err != nil {
			return fmt.Errorf("encoding template %q: %w", t.ID, err)
		}
		b.Queue(`INSERT INTO scene_templates (scene_id, idx, body) VALUES ($1, $2, $3)`, doc.ID, i, string(body))
	}
	for i, a := range doc.Auras {
		b.Queue(`INSERT INTO scene_auras (scene_id, idx, slug, token_id, radius, traits, border_color, fill_color)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
			doc.ID, i, a.Slug, a.Token, a.Radius, a.Traits, a.Colors.Border, a.Colors.Fill)
	}
	if b.Len() == 0 {
		return nil
	}
	if err := tx.SendBatch(ctx, b).Close(); err != nil {
		return fmt.Errorf("inserting scene contents: %w", err)
	}
	return nil
}

// Load returns a stored scene document.
// Returns nil, nil if the scene does not exist.
func (r *SceneRepository) Load(ctx context.Context, id string) (*scene.Document, error) {
	var (
		doc      scene.Document
		gridType string
	)
	err := r.pool.QueryRow(ctx, `
		SELECT id, name, grid_type, grid_size, grid_distance, grid_units, width, height, cells
		FROM scenes WHERE id = $1`, id,
	).Scan(&doc.ID, &doc.Name, &gridType, &doc.Grid.Size, &doc.Grid.Distance, &doc.Grid.Units,
		&doc.Width, &doc.Height, &doc.Cells)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("querying scene %q: %w", id, err)
	}
	doc.Grid.Type = geo.GridType(gridType)

	if doc.Tokens, err = r.loadTokens(ctx, id); err != nil {
		return nil, err
	}
	if doc.Walls, err = r.loadWalls(ctx, id); err != nil {
		return nil, err
	}
	if doc.Templates, err = r.loadTemplates(ctx, id); err != nil {
		return nil, err
	}
	if doc.Auras, err = r.loadAuras(ctx, id); err != nil {
		return nil, err
	}
	return &doc, nil
}

func (r *SceneRepository) loadTokens(ctx context.Context, id string) ([]scene.TokenDoc, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT token_id, name, x, y, width, height, elevation, vertical, hidden
		FROM scene_tokens WHERE scene_id = $1 ORDER BY idx`, id)
	if err != nil {
		return nil, fmt.Errorf("querying tokens of scene %q: %w", id, err)
	}
	defer rows.Close()

	var out []scene.TokenDoc
	for rows.Next() {
		var t scene.TokenDoc
		if err := rows.Scan(&t.ID, &t.Name, &t.X, &t.Y, &t.Width, &t.Height, &t.Elevation, &t.Vertical, &t.Hidden); err != nil {
			return nil, fmt.Errorf("scanning token row: %w", err)
		}
		out = append(out, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating tokens of scene %q: %w", id, err)
	}
	return out, nil
}

func (r *SceneRepository) loadWalls(ctx context.Context, id string) ([]geo.Wall, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT a_x, a_y, b_x, b_y, move, sight, sound, light, door
		FROM scene_walls WHERE scene_id = $1 ORDER BY idx`, id)
	if err != nil {
		return nil, fmt.Errorf("querying walls of scene %q: %w", id, err)
	}
	defer rows.Close()

	var out []geo.Wall
	for rows.Next() {
		var (
			w    geo.Wall
			door string
		)
		if err := rows.Scan(&w.A.X, &w.A.Y, &w.B.X, &w.B.Y, &w.Move, &w.Sight, &w.Sound, &w.Light, &door); err != nil {
			return nil, fmt.Errorf("scanning wall row: %w", err)
		}
		w.Door = geo.DoorState(door)
		out = append(out, w)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating walls of scene %q: %w", id, err)
	}
	return out, nil
}

func (r *SceneRepository) loadTemplates(ctx context.Context, id string) ([]area.Template, error) {
	rows, err := r.pool.Query(ctx, `SELECT body FROM scene_templates WHERE scene_id = $1 ORDER BY idx`, id)
	if err != nil {
		return nil, fmt.Errorf("querying templates of scene %q: %w", id, err)
	}
	defer rows.Close()

	var out []area.Template
	for rows.Next() {
		var body string
		if err := rows.Scan(&body); err != nil {
			return nil, fmt.Errorf("scanning template row: %w", err)
		}
		var t area.Template
		if err := yaml.Unmarshal([]byte(body), &t); err != nil {
			return nil, fmt.Errorf("decoding template of scene %q: %w", id, err)
		}
		out = append(out, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating templates of scene %q: %w", id, err)
	}
	return out, nil
}

func (r *SceneRepository) loadAuras(ctx context.Context, id string) ([]scene.AuraDoc, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT slug, token_id, radius, traits, border_color, fill_color
		FROM scene_auras WHERE scene_id = $1 ORDER BY idx`, id)
	if err != nil {
		return nil, fmt.Errorf("querying auras of scene %q: %w", id, err)
	}
	defer rows.Close()

	var out []scene.AuraDoc
	for rows.Next() {
		var a scene.AuraDoc
		if err := rows.Scan(&a.Slug, &a.Token, &a.Radius, &a.Traits, &a.Colors.Border, &a.Colors.Fill); err != nil {
			return nil, fmt.Errorf("scanning aura row: %w", err)
		}
		out = append(out, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating auras of scene %q: %w", id, err)
	}
	return out, nil
}

// List returns all stored scenes ordered by ID.
func (r *SceneRepository) List(ctx context.Context) ([]SceneSummary, error) {
	rows, err := r.pool.Query(ctx, `SELECT id, name, updated_at FROM scenes ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("querying scenes: %w", err)
	}
	defer rows.Close()

	var out []SceneSummary
	for rows.Next() {
		var s SceneSummary
		if err := rows.Scan(&s.ID, &s.Name, &s.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scanning scene row: %w", err)
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

// Delete removes a scene and its contents, reporting whether it existed.
func (r *SceneRepository) Delete(ctx context.Context, id string) (bool, error) {
	tag, err := r.pool.Exec(ctx, `DELETE FROM scenes WHERE id = $1`, id)
	if err != nil {
		return false, fmt.Errorf("deleting scene %q: %w", id, err)
	}
	return tag.RowsAffected() > 0, nil
}

// LoadScene loads a stored scene and builds it for geometry queries.
// Returns nil, nil if the scene does not exist.
func (r *SceneRepository) LoadScene(ctx context.Context, id string) (*scene.Scene, error) {
	doc, err := r.Load(ctx, id)
	if err != nil || doc == nil {
		return nil, err
	}
	return scene.FromDocument(*doc)
}
