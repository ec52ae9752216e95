// Package gameserver implements the server-side core: C5 (TCP
// listener/authenticator), C6 (reader tasks), C7 (event dispatcher),
// C8 (tick loop), C9 (monster AI), C10 (damage & respawn), and chat
// fan-out.
package gameserver

import (
	"sync"

	"github.com/tilemmo/core/internal/objects"
	"github.com/tilemmo/core/internal/session"
	"github.com/tilemmo/core/internal/spatial"
	"github.com/tilemmo/core/internal/worldconfig"
)

// World owns the four shared resources named in spec.md §5: players
// (+ address_map, merged into session.Registry — they are never
// mutated independently of one another, the way the teacher's
// ClientManager keeps its conn/account maps in one structure,
// internal/gameserver/clients.go), game_objects, and mmo_map.
//
// World.mu is the single coarse "world lock" spec.md §5 describes:
// the C7 dispatcher holds it per-event and the C8 tick loop holds it
// for the whole tick, so AI processing within a tick is atomic with
// respect to player-originated mutations. Lock order when a caller
// also needs a component's own finer-grained lock (Registry/Store
// already guard themselves) is: World.mu outermost, then
// players → game_objects → mmo_map → address_map as spec.md §5
// mandates; Monster AI releases World.mu before calling into damage
// handling only conceptually — in this single-coarse-lock design that
// means C9 finishes its MmoMap/Store reads before invoking C10, never
// re-entering World.mu recursively.
type World struct {
	mu sync.Mutex

	Registry *session.Registry
	Objects  *objects.Store
	Map      *spatial.MmoMap
}

// NewWorld constructs a World sized from worldconfig dimensions.
func NewWorld() *World {
	return &World{
		Registry: session.NewRegistry(),
		Objects:  objects.NewStore(),
		Map:      spatial.NewMmoMap(worldconfig.MapWidth, worldconfig.MapHeight, worldconfig.ZLevels),
	}
}

// Lock/Unlock expose the coarse world lock to the dispatcher (per
// event) and the tick loop (per tick).
func (w *World) Lock()   { w.mu.Lock() }
func (w *World) Unlock() { w.mu.Unlock() }
