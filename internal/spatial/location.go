package spatial

// Location is a 3-tuple (x, y, z) of non-negative grid coordinates.
// z is the floor level (0 = ground, 1 = upper). Value type, compared
// by value.
type Location struct {
	X, Y, Z int32
}

// Direction is derived from a movement delta between two locations.
type Direction int

const (
	South Direction = iota
	North
	East
	West
)

func (d Direction) String() string {
	switch d {
	case North:
		return "North"
	case South:
		return "South"
	case East:
		return "East"
	case West:
		return "West"
	default:
		return "Unknown"
	}
}

// DirectionFromDelta derives a Direction from a move between prev and
// target, tie-breaking horizontally first: x-greater → East, x-less →
// West, otherwise (equal x) y-less → South, y-greater-or-equal → North.
//
// This is the same tie-break rule as objects.CalculateNewDirection
// (spec.md §4.3); both C3's per-move reorientation and C7's
// player-direction-on-move derivation must agree, so the rule lives
// once here and objects.CalculateNewDirection delegates to it.
func DirectionFromDelta(prev, target Location) Direction {
	if target.X > prev.X {
		return East
	}
	if target.X < prev.X {
		return West
	}
	if target.Y < prev.Y {
		return South
	}
	// Equal x, y >= prev.Y (including the no-op case) collapses to
	// North. This is the source quirk spec.md §4.3/§9 item 2 locks in
	// verbatim rather than "fixing".
	return North
}
