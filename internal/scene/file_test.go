package scene

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/udisondev/pf2egrid/internal/geo"
)

const sampleScene = `
id: crypt
name: Sunken Crypt
grid:
  size: 100
  distance: 5
width: 1000
height: 800
walls:
  - a: {x: 600, y: 0}
    b: {x: 600, y: 800}
    move: true
    sight: true
    sound: true
    light: true
  - a: {x: 600, y: 300}
    b: {x: 600, y: 400}
    move: true
    door: open
cells:
  - ".........."
  - "....#....."
tokens:
  - id: fighter
    name: Valeros
    x: 100
    y: 100
  - id: ogre
    x: 300
    y: 300
    width: 2
    vertical: 10
templates:
  - id: fireball
    shape: burst
    x: 500
    y: 500
    distance: 20
    traits: [fire]
auras:
  - slug: frightful-presence
    token: ogre
    radius: 30
    traits: [visual, emotion]
`

func TestDecode(t *testing.T) {
	s, err := Decode([]byte(sampleScene))
	require.NoError(t, err)

	assert.Equal(t, "crypt", s.ID)
	assert.Equal(t, "Sunken Crypt", s.Name)
	assert.Equal(t, geo.GridSquare, s.Grid.Type)
	assert.Equal(t, "ft", s.Grid.Units)
	assert.Equal(t, 1000.0, s.Width)
	assert.Len(t, s.Walls, 2)
	assert.Equal(t, geo.DoorOpen, s.Walls[1].Door)
	require.NotNil(t, s.Cells)
	assert.Equal(t, byte(geo.CellBlocksAll), s.Cells.Bits(4, 1))

	ogre, ok := s.Tokens.Get("ogre")
	require.True(t, ok)
	assert.Equal(t, geo.NewRect(300, 300, 200, 200), ogre.Bounds)
	require.NotNil(t, ogre.Vertical)
	assert.Equal(t, 10.0, *ogre.Vertical)

	require.Len(t, s.Templates, 1)
	require.Len(t, s.Auras, 1)
	assert.Equal(t, "ogre", s.Auras[0].Token)

	hs, err := s.Highlights()
	require.NoError(t, err)
	require.Len(t, hs, 1)
	assert.NotEmpty(t, hs[0].Squares)
}

func TestDecodeValidation(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{"bad grid type", "id: x\ngrid: {type: triangle}\n"},
		{"negative grid", "id: x\ngrid: {size: -1}\n"},
		{"zero length wall", "id: x\nwalls:\n  - {a: {x: 1, y: 1}, b: {x: 1, y: 1}}\n"},
		{"bad cell", "id: x\ncells: [\"..?\"]\n"},
		{"duplicate token", "id: x\ntokens:\n  - {id: a, x: 0, y: 0}\n  - {id: a, x: 100, y: 0}\n"},
		{"bad template", "id: x\ntemplates:\n  - {id: t, shape: square}\n"},
		{"aura on missing token", "id: x\nauras:\n  - {slug: a, token: nobody, radius: 5}\n"},
		{"aura without slug", "id: x\ntokens:\n  - {id: a, x: 0, y: 0}\nauras:\n  - {token: a, radius: 5}\n"},
		{"negative aura", "id: x\ntokens:\n  - {id: a, x: 0, y: 0}\nauras:\n  - {slug: a, token: a, radius: -5}\n"},
		{"not yaml", "id: [\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decode([]byte(tt.doc))
			assert.Error(t, err)
		})
	}
}

func TestSaveAndLoadFile(t *testing.T) {
	s, err := Decode([]byte(sampleScene))
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "scene.yaml")
	require.NoError(t, SaveFile(path, s))

	loaded, err := LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, s.Document(), loaded.Document())

	_, err = LoadFile(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}
