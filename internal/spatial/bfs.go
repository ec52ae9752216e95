package spatial

// neighborDeltas enumerates the 4-neighborhood in the tie-break order
// spec.md §4.2 mandates: left, right, up, down. "Left"/"right" are
// -X/+X, "up"/"down" are -Y/+Y — this makes shortest_path deterministic
// across runs, which is exactly what the spec's property tests (§8)
// check it against a reference BFS for.
var neighborDeltas = [4]struct{ dx, dy int32 }{
	{-1, 0}, // left
	{1, 0},  // right
	{0, -1}, // up
	{0, 1},  // down
}

// bfsNode is one visited cell in ShortestPath's search order.
type bfsNode struct {
	loc  Location
	prev int // index into the visited order, -1 for the start node
}

// ShortestPath performs a breadth-first search over the 4-neighborhood,
// treating only Empty cells as traversable (the endpoints themselves
// are not required to be Empty — from/to are typically occupied by the
// searching monster and its target player). Returns the full path
// including both endpoints, or nil if unreachable.
func (m *MmoMap) ShortestPath(from, to Location) []Location {
	if from == to {
		return []Location{from}
	}
	if !m.inBounds(from) || !m.inBounds(to) {
		return nil
	}

	visited := map[Location]int{from: 0}
	order := []bfsNode{{loc: from, prev: -1}}
	queue := []int{0}

	for len(queue) > 0 {
		idx := queue[0]
		queue = queue[1:]
		cur := order[idx]

		for _, d := range neighborDeltas {
			next := Location{X: cur.loc.X + d.dx, Y: cur.loc.Y + d.dy, Z: cur.loc.Z}
			if next == to {
				order = append(order, bfsNode{loc: next, prev: idx})
				return reconstructPath(order, len(order)-1)
			}
			if _, seen := visited[next]; seen {
				continue
			}
			if !m.IsEmpty(next) {
				continue
			}
			visited[next] = len(order)
			order = append(order, bfsNode{loc: next, prev: idx})
			queue = append(queue, len(order)-1)
		}
	}
	return nil
}

func reconstructPath(order []bfsNode, end int) []Location {
	var rev []Location
	for i := end; i >= 0; {
		rev = append(rev, order[i].loc)
		if order[i].prev < 0 {
			break
		}
		i = order[i].prev
	}
	path := make([]Location, len(rev))
	for i, loc := range rev {
		path[len(rev)-1-i] = loc
	}
	return path
}
