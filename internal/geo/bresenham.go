package geo

// LineIterator walks the cells of a Bresenham line from start to end,
// both included.
type LineIterator struct {
	currentX, currentY int
	targetX, targetY   int
	deltaX, deltaY     int
	stepX, stepY       int
	err                int
	started            bool
}

// NewLineIterator creates a line iterator between two cells.
func NewLineIterator(sx, sy, ex, ey int) *LineIterator {
	it := &LineIterator{
		currentX: sx, currentY: sy,
		targetX: ex, targetY: ey,
		deltaX: absInt(ex - sx),
		deltaY: -absInt(ey - sy),
		stepX:  1,
		stepY:  1,
	}
	if sx > ex {
		it.stepX = -1
	}
	if sy > ey {
		it.stepY = -1
	}
	it.err = it.deltaX + it.deltaY
	return it
}

// Next advances to the next cell. The first call yields the start cell.
// Returns false once the target has been yielded.
func (it *LineIterator) Next() bool {
	if !it.started {
		it.started = true
		return true
	}

	if it.currentX == it.targetX && it.currentY == it.targetY {
		return false
	}

	e2 := 2 * it.err
	if e2 >= it.deltaY {
		it.err += it.deltaY
		it.currentX += it.stepX
	}
	if e2 <= it.deltaX {
		it.err += it.deltaX
		it.currentY += it.stepY
	}
	return true
}

// X returns the current column.
func (it *LineIterator) X() int { return it.currentX }

// Y returns the current row.
func (it *LineIterator) Y() int { return it.currentY }

func absInt(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
