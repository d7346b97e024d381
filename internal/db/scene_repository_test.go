package db

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/udisondev/pf2egrid/internal/area"
	"github.com/udisondev/pf2egrid/internal/geo"
	"github.com/udisondev/pf2egrid/internal/scene"
	"github.com/udisondev/pf2egrid/internal/testutil"
)

func ptr(v float64) *float64 { return &v }

func sampleDoc() scene.Document {
	return scene.Document{
		ID:     "crypt",
		Name:   "Crypt",
		Grid:   geo.DefaultGrid(),
		Width:  1000,
		Height: 800,
		Walls: []geo.Wall{
			geo.SolidWall(geo.Point{X: 600, Y: 0}, geo.Point{X: 600, Y: 500}),
			{A: geo.Point{X: 600, Y: 500}, B: geo.Point{X: 600, Y: 600}, Move: true, Sight: true, Door: geo.DoorClosed},
		},
		Cells: []string{"..#", "...", "~~."},
		Tokens: []scene.TokenDoc{
			{ID: "fighter", Name: "Fighter", X: 100, Y: 100, Width: 1, Height: 1},
			{ID: "dragon", Name: "Dragon", X: 300, Y: 300, Width: 3, Height: 3, Elevation: 10, Vertical: ptr(30)},
		},
		Templates: []area.Template{
			{ID: "cone", Shape: "cone", X: 500, Y: 500, Direction: ptr(90), Distance: ptr(15), Traits: []string{geo.TraitVisual}},
		},
		Auras: []scene.AuraDoc{
			{Slug: "frightful-presence", Token: "dragon", Radius: 30, Traits: []string{geo.TraitVisual}, Colors: area.Colors{Fill: "#990000"}},
		},
	}
}

func TestSceneRepositorySaveLoad(t *testing.T) {
	repo := setupTestDB(t)
	ctx := testutil.ContextWithTimeout(t, testutil.DefaultTimeout)
	doc := sampleDoc()

	saved, err := repo.Save(ctx, doc)
	require.NoError(t, err)
	assert.True(t, saved)

	got, err := repo.Load(ctx, doc.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, doc, *got)

	sc, err := repo.LoadScene(ctx, doc.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, sc.Tokens.Len())
}

func TestSceneRepositorySkipsUnchanged(t *testing.T) {
	repo := setupTestDB(t)
	ctx := testutil.ContextWithTimeout(t, testutil.DefaultTimeout)
	doc := sampleDoc()

	_, err := repo.Save(ctx, doc)
	require.NoError(t, err)

	saved, err := repo.Save(ctx, doc)
	require.NoError(t, err)
	assert.False(t, saved, "identical content is not rewritten")

	doc.Tokens = doc.Tokens[:1]
	doc.Walls = nil
	saved, err = repo.Save(ctx, doc)
	require.NoError(t, err)
	assert.True(t, saved)

	got, err := repo.Load(ctx, doc.ID)
	require.NoError(t, err)
	assert.Len(t, got.Tokens, 1)
	assert.Empty(t, got.Walls)
}

func TestSceneRepositoryMissing(t *testing.T) {
	repo := setupTestDB(t)
	ctx := testutil.ContextWithTimeout(t, testutil.DefaultTimeout)

	got, err := repo.Load(ctx, "nowhere")
	require.NoError(t, err)
	assert.Nil(t, got)

	sc, err := repo.LoadScene(ctx, "nowhere")
	require.NoError(t, err)
	assert.Nil(t, sc)

	deleted, err := repo.Delete(ctx, "nowhere")
	require.NoError(t, err)
	assert.False(t, deleted)
}

func TestSceneRepositoryListDelete(t *testing.T) {
	repo := setupTestDB(t)
	ctx := testutil.ContextWithTimeout(t, testutil.DefaultTimeout)

	for _, id := range []string{"b", "a"} {
		doc := sampleDoc()
		doc.ID = id
		_, err := repo.Save(ctx, doc)
		require.NoError(t, err)
	}

	list, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "a", list[0].ID)
	assert.Equal(t, "b", list[1].ID)
	assert.False(t, list[0].UpdatedAt.IsZero())

	deleted, err := repo.Delete(ctx, "a")
	require.NoError(t, err)
	assert.True(t, deleted)

	var tokens int
	require.NoError(t, testDB.Pool().QueryRow(ctx, `SELECT count(*) FROM scene_tokens WHERE scene_id = 'a'`).Scan(&tokens))
	assert.Zero(t, tokens, "contents are deleted with the scene")
}

func TestDigest(t *testing.T) {
	a, err := Digest(sampleDoc())
	require.NoError(t, err)
	assert.Len(t, a, 32)

	b, err := Digest(sampleDoc())
	require.NoError(t, err)
	assert.Equal(t, a, b)

	changed := sampleDoc()
	changed.Tokens[0].X = 200
	c, err := Digest(changed)
	require.NoError(t, err)
	assert.NotEqual(t, a, c)
}
