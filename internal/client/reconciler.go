// Package client implements the reference client core (spec.md §1:
// "a minimal reference client... no rendering, no input handling"):
// component C11 (state reconciler) and C12 (auto-pather). Both operate
// purely on decoded protocol messages and an in-memory world view —
// anything involving a screen or a keyboard is out of scope.
package client

import (
	"sync"

	"github.com/tilemmo/core/internal/protocol"
	"github.com/tilemmo/core/internal/spatial"
)

// OtherPlayerView is the reconciler's local copy of another connected
// player (spec.md §4.11 OtherPlayers table).
type OtherPlayerView struct {
	Username  string
	Location  spatial.Location
	Direction spatial.Direction
}

// Reconciler holds the client's view of itself and the rest of the
// world, updated exclusively by applying decoded UDP server messages
// (spec.md §4.11). Grounded on the teacher's own "apply authoritative
// server state, never predict" client-side model — the closest analog
// in the pack is rustyguts-bken/client/transport.go's single-writer
// state application loop, generalized here from audio frames to game
// state deltas.
type Reconciler struct {
	mu sync.RWMutex

	selfID        [16]byte
	location      spatial.Location
	direction     spatial.Direction
	hp            int32
	isDead        bool
	lastAckedMove int64

	otherPlayers map[string]OtherPlayerView
	objects      map[spatial.Location]protocol.ObjectEntry

	lastPingRTTNanos int64
}

// NewReconciler creates an empty Reconciler, seeded with the player's
// initial state from InitOk/ReconnectOk.
func NewReconciler(initial spatial.Location) *Reconciler {
	return &Reconciler{
		location:     initial,
		otherPlayers: make(map[string]OtherPlayerView),
		objects:      make(map[spatial.Location]protocol.ObjectEntry),
	}
}

// ApplyUDPServer applies one decoded server→client UDP message,
// returning true if it was a recognized variant.
func (r *Reconciler) ApplyUDPServer(msg any) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	switch m := msg.(type) {
	case protocol.Pong:
		// Reconciler keeps no state for Pong and computes no RTT; it
		// only reports the message as recognized.
		return true
	case protocol.PlayerMoveServer:
		// Monotonic request-id rule (spec.md §3 invariant 3): a
		// server ack for a request id we've already superseded is
		// stale and must not roll our position backward.
		if m.RequestID < r.lastAckedMove {
			return true
		}
		r.location = m.Location
		r.lastAckedMove = m.RequestID
		return true
	case protocol.OtherPlayer:
		r.otherPlayers[m.Username] = OtherPlayerView{Username: m.Username, Location: m.Location, Direction: m.Direction}
		return true
	case protocol.Objects:
		next := make(map[spatial.Location]protocol.ObjectEntry, len(m.Entries))
		for _, e := range m.Entries {
			next[e.Location] = e
		}
		r.objects = next
		return true
	case protocol.PlayerHealthUpdate:
		r.hp = m.HP
		return true
	case protocol.PlayerDeath:
		r.isDead = true
		return true
	case protocol.DamageNumber:
		return true
	default:
		return false
	}
}

// ApplyRespawnOk clears death state. The location is not changed here
// (the server does not echo a location in RespawnOk; the subsequent
// PlayerMoveServer broadcast converges it), but is_dead is cleared
// immediately so auto-pathing can resume.
func (r *Reconciler) ApplyRespawnOk() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.isDead = false
	r.hp = 0 // corrected by the next PlayerHealthUpdate
}

func (r *Reconciler) Location() spatial.Location {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.location
}

func (r *Reconciler) Direction() spatial.Direction {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.direction
}

func (r *Reconciler) HP() int32 {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.hp
}

func (r *Reconciler) IsDead() bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.isDead
}

func (r *Reconciler) OtherPlayers() []OtherPlayerView {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]OtherPlayerView, 0, len(r.otherPlayers))
	for _, v := range r.otherPlayers {
		out = append(out, v)
	}
	return out
}

// IsWalkable reports whether loc is currently known to be free of any
// tracked object (spec.md §4.12: the auto-pather's own walkability
// mask, independent of the server's authoritative MmoMap).
func (r *Reconciler) IsWalkable(loc spatial.Location) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, occupied := r.objects[loc]
	return !occupied
}
