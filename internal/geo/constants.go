package geo

// Grid defaults for a standard PF2e map.
const (
	DefaultCellSize = 100 // pixels per cell
	DefaultDistance = 5   // feet per cell
	DefaultUnits    = "ft"
)

// Move weights per grid step. A move changing all three axes costs 1.75
// straight moves, a move changing two axes costs 1.5.
const (
	WeightDoubleDiagonal = 1.75
	WeightDiagonal       = 1.5
	WeightStraight       = 1.0
)

// ReachDiagonalException is the reach (in units) that may cover two
// diagonal squares.
const ReachDiagonalException = 10
