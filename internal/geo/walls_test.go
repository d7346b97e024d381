package geo

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWallsTestCollision(t *testing.T) {
	vertical := Wall{A: Point{X: 200, Y: 0}, B: Point{X: 200, Y: 400}, Move: true, Sight: true}

	tests := []struct {
		name  string
		walls Walls
		a, b  Point
		ct    CollisionType
		want  bool
	}{
		{"crossing a solid wall", Walls{vertical}, Point{X: 50, Y: 50}, Point{X: 350, Y: 50}, CollisionMove, true},
		{"parallel to the wall", Walls{vertical}, Point{X: 50, Y: 50}, Point{X: 150, Y: 350}, CollisionMove, false},
		{"sound passes a sight wall", Walls{vertical}, Point{X: 50, Y: 50}, Point{X: 350, Y: 50}, CollisionSound, false},
		{"ending on the wall", Walls{vertical}, Point{X: 50, Y: 50}, Point{X: 200, Y: 50}, CollisionSight, true},
		{"beyond the wall end", Walls{vertical}, Point{X: 50, Y: 450}, Point{X: 350, Y: 450}, CollisionMove, false},
		{"no walls", nil, Point{}, Point{X: 999, Y: 999}, CollisionMove, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.walls.TestCollision(tt.a, tt.b, tt.ct))
		})
	}
}

func TestWallDoors(t *testing.T) {
	door := SolidWall(Point{X: 100, Y: 0}, Point{X: 100, Y: 100})
	a, b := Point{X: 50, Y: 50}, Point{X: 150, Y: 50}

	door.Door = DoorClosed
	assert.True(t, Walls{door}.TestCollision(a, b, CollisionMove))

	door.Door = DoorLocked
	assert.True(t, Walls{door}.TestCollision(a, b, CollisionLight))

	door.Door = DoorOpen
	assert.False(t, Walls{door}.TestCollision(a, b, CollisionMove))
}

func TestWallValidate(t *testing.T) {
	assert.NoError(t, SolidWall(Point{}, Point{X: 1}).Validate())
	assert.Error(t, SolidWall(Point{X: 3, Y: 3}, Point{X: 3, Y: 3}).Validate())

	w := SolidWall(Point{}, Point{X: 1})
	w.Door = "ajar"
	assert.Error(t, w.Validate())
}

func TestColliders(t *testing.T) {
	wall := Walls{SolidWall(Point{X: 100, Y: 0}, Point{X: 100, Y: 100})}
	a, b := Point{X: 50, Y: 50}, Point{X: 150, Y: 50}

	assert.True(t, Colliders{nil, wall}.TestCollision(a, b, CollisionMove))
	assert.False(t, Colliders{}.TestCollision(a, b, CollisionMove))
	assert.False(t, Blocked(nil, a, b, CollisionMove))
	assert.True(t, Blocked(wall, a, b, CollisionMove))
}

func TestCollisionTypeForTraits(t *testing.T) {
	tests := []struct {
		traits []string
		want   CollisionType
	}{
		{nil, CollisionMove},
		{[]string{"fire", "evocation"}, CollisionMove},
		{[]string{TraitAuditory, "emotion"}, CollisionSound},
		{[]string{TraitVisual}, CollisionSight},
		{[]string{TraitAuditory, TraitVisual}, CollisionMove},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, CollisionTypeForTraits(tt.traits), "traits %v", tt.traits)
	}
}

func TestParseCollisionType(t *testing.T) {
	ct, err := ParseCollisionType("")
	assert.NoError(t, err)
	assert.Equal(t, CollisionMove, ct)

	ct, err = ParseCollisionType("sound")
	assert.NoError(t, err)
	assert.Equal(t, CollisionSound, ct)

	_, err = ParseCollisionType("smell")
	assert.Error(t, err)
}
