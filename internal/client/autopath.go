package client

import (
	"time"

	"github.com/tilemmo/core/internal/spatial"
	"github.com/tilemmo/core/internal/worldconfig"
)

// pathNode is one visited cell in findPath's search order. Hoisted to
// package scope (rather than declared inside findPath) because Go
// treats a locally-named struct type and a structurally identical
// anonymous struct type as distinct — reconstruct must share this
// exact type to accept findPath's slice.
type pathNode struct {
	loc  spatial.Location
	prev int
}

// neighborDeltas mirrors spatial's left/right/up/down tie-break order
// (spec.md §4.2/§4.12) so the client's own route-finding agrees with
// the server's MmoMap.ShortestPath on which of several equal-length
// paths gets picked.
var neighborDeltas = [4]struct{ dx, dy int32 }{
	{-1, 0},
	{1, 0},
	{0, -1},
	{0, 1},
}

// AutoPather (component C12, spec.md §4.12) consumes a destination,
// computes a route over the client's local walkability view, and
// yields one step at a time gated by worldconfig.MoveCooldown — it
// never sends two moves faster than the server would accept the
// second one.
type AutoPather struct {
	recon    *Reconciler
	route    []spatial.Location
	cursor   int
	lastMove time.Time
}

// NewAutoPather creates an AutoPather bound to recon's walkability
// view.
func NewAutoPather(recon *Reconciler) *AutoPather {
	return &AutoPather{recon: recon}
}

// SetDestination computes a fresh BFS route from the reconciler's
// current location to dest over the local walkability mask, replacing
// any route in progress. Returns false if dest is unreachable.
func (a *AutoPather) SetDestination(dest spatial.Location) bool {
	route := a.findPath(a.recon.Location(), dest)
	if route == nil {
		return false
	}
	a.route = route
	a.cursor = 0
	return true
}

// HasRoute reports whether a route is still being walked.
func (a *AutoPather) HasRoute() bool { return a.cursor < len(a.route)-1 }

// NextStep returns the next grid cell to move into if the move
// cooldown has elapsed and a route is in progress, consuming that step
// from the queue. Returns false if there's nothing to do yet.
func (a *AutoPather) NextStep(now time.Time) (spatial.Location, bool) {
	if !a.HasRoute() {
		return spatial.Location{}, false
	}
	if now.Sub(a.lastMove) < worldconfig.MoveCooldown {
		return spatial.Location{}, false
	}
	a.cursor++
	a.lastMove = now
	return a.route[a.cursor], true
}

// Reroute recomputes the route from the current location to the
// queued route's destination over the current walkability mask. If
// no route is in progress it does nothing; if the destination is now
// unreachable, the previous route is kept unchanged.
func (a *AutoPather) Reroute() {
	if !a.HasRoute() {
		return
	}
	dest := a.route[len(a.route)-1]
	a.SetDestination(dest)
}

// findPath runs the same 4-neighborhood BFS as spatial.MmoMap.ShortestPath,
// but against the client's own Objects-derived walkability view instead
// of the server's dense grid, since the client has no access to
// MmoMap (spec.md §1: the client never holds authoritative state).
func (a *AutoPather) findPath(from, to spatial.Location) []spatial.Location {
	if from == to {
		return []spatial.Location{from}
	}
	if !inBounds(from) || !inBounds(to) {
		return nil
	}

	visited := map[spatial.Location]int{from: 0}
	order := []pathNode{{loc: from, prev: -1}}
	queue := []int{0}

	for len(queue) > 0 {
		idx := queue[0]
		queue = queue[1:]
		cur := order[idx]

		for _, d := range neighborDeltas {
			next := spatial.Location{X: cur.loc.X + d.dx, Y: cur.loc.Y + d.dy, Z: cur.loc.Z}
			if next == to {
				order = append(order, pathNode{loc: next, prev: idx})
				return reconstruct(order, len(order)-1)
			}
			if _, seen := visited[next]; seen {
				continue
			}
			if !inBounds(next) || !a.recon.IsWalkable(next) {
				continue
			}
			visited[next] = len(order)
			order = append(order, pathNode{loc: next, prev: idx})
			queue = append(queue, len(order)-1)
		}
	}
	return nil
}

func reconstruct(order []pathNode, end int) []spatial.Location {
	var rev []spatial.Location
	for i := end; i >= 0; {
		rev = append(rev, order[i].loc)
		if order[i].prev < 0 {
			break
		}
		i = order[i].prev
	}
	path := make([]spatial.Location, len(rev))
	for i, loc := range rev {
		path[len(rev)-1-i] = loc
	}
	return path
}

func inBounds(loc spatial.Location) bool {
	return loc.X >= 0 && int(loc.X) < worldconfig.MapWidth &&
		loc.Y >= 0 && int(loc.Y) < worldconfig.MapHeight &&
		loc.Z >= 0 && int(loc.Z) < worldconfig.ZLevels
}
