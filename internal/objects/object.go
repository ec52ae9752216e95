// Package objects implements the GameObjects store (spec.md §3/§4.3,
// component C3): an ordered-irrelevant mapping from grid cell to a
// tagged GameObject variant, with move/insert/remove operations that
// keep an orc's facing direction in sync with its last move.
package objects

import (
	"fmt"
	"sync"

	"github.com/tilemmo/core/internal/spatial"
)

// Kind tags which GameObject variant a cell holds.
type Kind int

const (
	KindFlowerPot Kind = iota
	KindOrc
	KindLadder
)

// GameObject is the tagged variant described in spec.md §3. Only
// Orc.Direction is mutated post-creation by the server; everything
// else is read-only after insertion.
type GameObject struct {
	Kind       Kind
	TileID     int32
	TilesetRef string

	// Orc fields.
	HP        int32
	Direction spatial.Direction

	// Ladder field.
	TargetZ int32
}

// NewFlowerPot constructs a corpse-marker/decorative FlowerPot.
func NewFlowerPot(tileID int32, tilesetRef string) GameObject {
	return GameObject{Kind: KindFlowerPot, TileID: tileID, TilesetRef: tilesetRef}
}

// NewOrc constructs a monster GameObject.
func NewOrc(tileID int32, tilesetRef string, hp int32, dir spatial.Direction) GameObject {
	return GameObject{Kind: KindOrc, TileID: tileID, TilesetRef: tilesetRef, HP: hp, Direction: dir}
}

// NewLadder constructs a floor-transition GameObject.
func NewLadder(tileID int32, tilesetRef string, targetZ int32) GameObject {
	return GameObject{Kind: KindLadder, TileID: tileID, TilesetRef: tilesetRef, TargetZ: targetZ}
}

// CalculateNewDirection derives the orientation an orc should face
// after moving from prev to target. Tie-break order (spec.md §4.3,
// locked verbatim including the noted equal-x-collapses-to-North
// quirk): horizontal first (x-greater → East, x-less → West), then
// vertical (y-less → South, otherwise → North). Delegates to
// spatial.DirectionFromDelta so C3's reorientation and C7's
// player-direction derivation can never drift apart.
func CalculateNewDirection(prev, target spatial.Location) spatial.Direction {
	return spatial.DirectionFromDelta(prev, target)
}

// Store is the GameObjects map: Location → GameObject, keys unique,
// insertion order irrelevant. Safe for concurrent use; callers that
// need atomicity across a Store mutation and an MmoMap/session mutation
// must hold the world lock externally (spec.md §5 lock order).
type Store struct {
	mu      sync.RWMutex
	objects map[spatial.Location]GameObject
}

// NewStore creates an empty GameObjects store.
func NewStore() *Store {
	return &Store{objects: make(map[spatial.Location]GameObject)}
}

// Insert adds obj at loc. Returns an error if loc is already occupied
// (GameObjects store invariant: no two objects occupy the same cell).
func (s *Store) Insert(loc spatial.Location, obj GameObject) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.objects[loc]; exists {
		return fmt.Errorf("objects: cell %+v already occupied", loc)
	}
	s.objects[loc] = obj
	return nil
}

// Remove deletes whatever occupies loc, if anything.
func (s *Store) Remove(loc spatial.Location) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.objects, loc)
}

// Get returns the object at loc, if any.
func (s *Store) Get(loc spatial.Location) (GameObject, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	obj, ok := s.objects[loc]
	return obj, ok
}

// MoveObject removes the entry at from, rewrites its Direction if it's
// an orc (derived from the move delta), and inserts it at to. Returns
// an error if from is empty or to is already occupied (spec.md §4.3,
// §8 round-trip count invariant).
func (s *Store) MoveObject(from, to spatial.Location) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	obj, ok := s.objects[from]
	if !ok {
		return fmt.Errorf("objects: MoveObject: no object at %+v", from)
	}
	if _, occupied := s.objects[to]; occupied {
		return fmt.Errorf("objects: MoveObject: destination %+v already occupied", to)
	}

	if obj.Kind == KindOrc {
		obj.Direction = CalculateNewDirection(from, to)
	}

	delete(s.objects, from)
	s.objects[to] = obj
	return nil
}

// Snapshot returns a copy of the full map, suitable for the per-tick
// Objects(full GameObjects) broadcast (spec.md §4.8).
func (s *Store) Snapshot() map[spatial.Location]GameObject {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make(map[spatial.Location]GameObject, len(s.objects))
	for loc, obj := range s.objects {
		out[loc] = obj
	}
	return out
}

// Len returns the number of tracked objects.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.objects)
}

// ForEach calls fn for every (location, object) pair. fn must not
// mutate the store; iteration order is unspecified (Go map order).
// The store's read lock is held while fn runs. Used by Server.LoadMap
// to mark every loaded object's cell on the MmoMap.
func (s *Store) ForEach(fn func(loc spatial.Location, obj GameObject)) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for loc, obj := range s.objects {
		fn(loc, obj)
	}
}
