package scene

import (
	"math"

	"github.com/udisondev/pf2egrid/internal/geo"
)

// regionShift sets the index region size: 2^10 = 1024 pixels per side.
const regionShift = 10

// regionKey identifies one square region of the token index.
type regionKey struct {
	rx, ry int
}

func regionOf(x, y float64) regionKey {
	return regionKey{
		rx: int(math.Floor(x)) >> regionShift,
		ry: int(math.Floor(y)) >> regionShift,
	}
}

// regionIndex buckets token IDs by the regions their bounds touch, so
// spatial queries only visit nearby tokens.
type regionIndex map[regionKey]map[string]struct{}

// covering calls fn for every region touched by r.
func covering(r geo.Rect, fn func(regionKey)) {
	lo := regionOf(r.Left(), r.Top())
	hi := regionOf(r.Right(), r.Bottom())
	for rx := lo.rx; rx <= hi.rx; rx++ {
		for ry := lo.ry; ry <= hi.ry; ry++ {
			fn(regionKey{rx, ry})
		}
	}
}

func (ix regionIndex) add(t Token) {
	covering(t.Bounds, func(k regionKey) {
		ids, ok := ix[k]
		if !ok {
			ids = make(map[string]struct{})
			ix[k] = ids
		}
		ids[t.ID] = struct{}{}
	})
}

func (ix regionIndex) remove(t Token) {
	covering(t.Bounds, func(k regionKey) {
		ids := ix[k]
		delete(ids, t.ID)
		if len(ids) == 0 {
			delete(ix, k)
		}
	})
}

// candidates returns the IDs of tokens sharing a region with r, each once.
func (ix regionIndex) candidates(r geo.Rect) map[string]struct{} {
	out := make(map[string]struct{})
	covering(r, func(k regionKey) {
		for id := range ix[k] {
			out[id] = struct{}{}
		}
	})
	return out
}
