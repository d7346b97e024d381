package area

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/udisondev/pf2egrid/internal/geo"
)

func TestTemplateArea(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		a, err := Template{ID: "t1", Shape: "cone", X: 100, Y: 200}.Area()
		require.NoError(t, err)
		assert.Equal(t, ShapeCone, a.Shape)
		assert.Equal(t, geo.Point{X: 100, Y: 200}, a.Origin)
		assert.Equal(t, 45.0, a.Direction)
		assert.Equal(t, 90.0, a.Angle)
		assert.Equal(t, 5.0, a.Distance)
		assert.Equal(t, geo.CollisionMove, a.CollisionType())
	})

	t.Run("explicit zero angle is kept", func(t *testing.T) {
		zero := 0.0
		a, err := Template{ID: "t1", Shape: "cone", Angle: &zero}.Area()
		require.NoError(t, err)
		assert.Zero(t, a.Angle)
	})

	t.Run("circle is a burst", func(t *testing.T) {
		a, err := Template{ID: "t1", Shape: "circle"}.Area()
		require.NoError(t, err)
		assert.Equal(t, ShapeBurst, a.Shape)
	})

	t.Run("collision override", func(t *testing.T) {
		a, err := Template{ID: "t1", Shape: "burst", Collision: "sound", Traits: []string{geo.TraitVisual}}.Area()
		require.NoError(t, err)
		assert.Equal(t, geo.CollisionSound, a.CollisionType())
	})

	t.Run("invalid", func(t *testing.T) {
		_, err := Template{ID: "t1", Shape: "line"}.Area()
		assert.Error(t, err)

		_, err = Template{ID: "t1", Shape: "burst", Collision: "smell"}.Area()
		assert.Error(t, err)

		neg := -5.0
		_, err = Template{ID: "t1", Shape: "burst", Distance: &neg}.Area()
		assert.Error(t, err)
	})
}

func TestTemplateHighlight(t *testing.T) {
	ten := 10.0
	h, err := Template{ID: "fireball", Shape: "burst", X: 500, Y: 500, Distance: &ten}.Highlight(testEnv(nil))
	require.NoError(t, err)
	assert.Equal(t, "fireball", h.AreaID)
	assert.Len(t, h.Squares, 12)

	_, err = Template{ID: "bad", Shape: "hexagon"}.Highlight(testEnv(nil))
	assert.Error(t, err)
}
