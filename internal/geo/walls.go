package geo

import "fmt"

// DoorState of a wall segment.
type DoorState string

const (
	DoorNone   DoorState = ""
	DoorClosed DoorState = "closed"
	DoorOpen   DoorState = "open"
	DoorLocked DoorState = "locked"
)

// Wall is an obstacle segment. Each flag says whether the wall restricts
// that collision type.
type Wall struct {
	A     Point     `yaml:"a"`
	B     Point     `yaml:"b"`
	Move  bool      `yaml:"move"`
	Sight bool      `yaml:"sight"`
	Sound bool      `yaml:"sound"`
	Light bool      `yaml:"light"`
	Door  DoorState `yaml:"door,omitempty"`
}

// SolidWall returns a wall restricting every collision type.
func SolidWall(a, b Point) Wall {
	return Wall{A: a, B: b, Move: true, Sight: true, Sound: true, Light: true}
}

// Restricts reports whether the wall blocks t in its current door state.
func (w Wall) Restricts(t CollisionType) bool {
	if w.Door == DoorOpen {
		return false
	}
	switch t {
	case CollisionMove:
		return w.Move
	case CollisionSight:
		return w.Sight
	case CollisionSound:
		return w.Sound
	case CollisionLight:
		return w.Light
	}
	return false
}

// Validate checks the wall has two distinct endpoints.
func (w Wall) Validate() error {
	if w.A == w.B {
		return fmt.Errorf("wall at (%g, %g) has zero length", w.A.X, w.A.Y)
	}
	switch w.Door {
	case DoorNone, DoorClosed, DoorOpen, DoorLocked:
	default:
		return fmt.Errorf("wall at (%g, %g): unknown door state %q", w.A.X, w.A.Y, w.Door)
	}
	return nil
}

// Walls is a segment-based collision backend.
type Walls []Wall

// TestCollision implements Collider.
func (ws Walls) TestCollision(a, b Point, t CollisionType) bool {
	for _, w := range ws {
		if w.Restricts(t) && segmentsIntersect(a, b, w.A, w.B) {
			return true
		}
	}
	return false
}

// segmentsIntersect reports whether p1-p2 and q1-q2 share at least one
// point. Touching and collinear overlap count as intersection.
func segmentsIntersect(p1, p2, q1, q2 Point) bool {
	d1 := orientation(q1, q2, p1)
	d2 := orientation(q1, q2, p2)
	d3 := orientation(p1, p2, q1)
	d4 := orientation(p1, p2, q2)

	if ((d1 > 0 && d2 < 0) || (d1 < 0 && d2 > 0)) &&
		((d3 > 0 && d4 < 0) || (d3 < 0 && d4 > 0)) {
		return true
	}

	switch {
	case d1 == 0 && onSegment(q1, q2, p1):
		return true
	case d2 == 0 && onSegment(q1, q2, p2):
		return true
	case d3 == 0 && onSegment(p1, p2, q1):
		return true
	case d4 == 0 && onSegment(p1, p2, q2):
		return true
	}
	return false
}

// orientation is the cross product of (b-a) and (c-a).
func orientation(a, b, c Point) float64 {
	return (b.X-a.X)*(c.Y-a.Y) - (b.Y-a.Y)*(c.X-a.X)
}

// onSegment reports whether collinear point p lies within the box of a-b.
func onSegment(a, b, p Point) bool {
	return min(a.X, b.X) <= p.X && p.X <= max(a.X, b.X) &&
		min(a.Y, b.Y) <= p.Y && p.Y <= max(a.Y, b.Y)
}
