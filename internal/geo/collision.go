package geo

import (
	"fmt"
	"slices"
)

// CollisionType selects which restriction a line-of-effect test uses.
type CollisionType string

const (
	CollisionMove  CollisionType = "move"
	CollisionSight CollisionType = "sight"
	CollisionSound CollisionType = "sound"
	CollisionLight CollisionType = "light"
)

// ParseCollisionType parses a collision type name. An empty name means move.
func ParseCollisionType(s string) (CollisionType, error) {
	switch CollisionType(s) {
	case "", CollisionMove:
		return CollisionMove, nil
	case CollisionSight, CollisionSound, CollisionLight:
		return CollisionType(s), nil
	}
	return "", fmt.Errorf("unknown collision type %q", s)
}

// Effect traits that change which walls block an area.
const (
	TraitAuditory = "auditory"
	TraitVisual   = "visual"
)

// CollisionTypeForTraits picks the restriction for an effect with the given
// traits: auditory-only effects are stopped by sound barriers, visual-only
// effects by sight barriers, everything else by movement barriers.
func CollisionTypeForTraits(traits []string) CollisionType {
	auditory := slices.Contains(traits, TraitAuditory)
	visual := slices.Contains(traits, TraitVisual)
	switch {
	case auditory && !visual:
		return CollisionSound
	case visual && !auditory:
		return CollisionSight
	default:
		return CollisionMove
	}
}

// Collider tests whether the straight line a-b is obstructed.
type Collider interface {
	TestCollision(a, b Point, t CollisionType) bool
}

// Colliders combines several colliders. The line is blocked if any of them
// blocks it.
type Colliders []Collider

// TestCollision implements Collider.
func (cs Colliders) TestCollision(a, b Point, t CollisionType) bool {
	for _, c := range cs {
		if c != nil && c.TestCollision(a, b, t) {
			return true
		}
	}
	return false
}

// Blocked reports whether c blocks a-b. A nil collider blocks nothing.
func Blocked(c Collider, a, b Point, t CollisionType) bool {
	if c == nil {
		return false
	}
	return c.TestCollision(a, b, t)
}
