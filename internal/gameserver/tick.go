// Fixed-rate tick loop (component C8, spec.md §4.8): advances monster
// AI and broadcasts world state to every connected player at
// worldconfig.TickRate, holding World.mu for the whole tick so AI
// processing is atomic with respect to dispatcher-driven mutations.
//
// Grounded on the teacher's fixed-interval game loop
// (udisondev-la2go/internal/gameserver/gameloop.go ticks via
// time.Ticker and a single world-state lock per iteration).
package gameserver

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/tilemmo/core/internal/objects"
	"github.com/tilemmo/core/internal/protocol"
	"github.com/tilemmo/core/internal/worldconfig"
)

// RunTickLoop blocks until ctx is canceled, firing one tick every
// worldconfig.TickRate. Server.Run runs it under an errgroup alongside
// the listener, reader and dispatcher tasks.
func RunTickLoop(ctx context.Context, log *slog.Logger, w *World, conn UDPSender) error {
	ticker := time.NewTicker(worldconfig.TickRate)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case now := <-ticker.C:
			tick(log, w, conn, now.UnixMilli())
		}
	}
}

func tick(log *slog.Logger, w *World, conn UDPSender, nowMillis int64) {
	w.Lock()
	defer w.Unlock()

	runMonsterAI(log, w, conn, nowMillis)
	broadcastWorldState(log, w, conn)
}

// broadcastWorldState pushes, to every connected player: an Objects
// snapshot, every other *alive* player's OtherPlayer row (spec.md
// §4.8 step 3), and its own authoritative PlayerMove resync (spec.md
// §4.8 step 2) if it has a bound UDP peer and is alive. Built once per
// tick and reused across recipients — only the excluded "self" row and
// the self-resync payload differ per player.
func broadcastWorldState(log *slog.Logger, w *World, conn UDPSender) {
	objectsPayload := protocol.Objects{Entries: objectEntries(w.Objects)}.Encode()

	ids := w.Registry.IDs()

	type row struct {
		id      uuid.UUID
		payload []byte
	}
	otherRows := make([]row, 0, len(ids))
	for _, id := range ids {
		p, ok := w.Registry.Get(id)
		if !ok || p.IsDead() {
			continue
		}
		msg := protocol.OtherPlayer{Username: p.Username(), Location: p.Location(), Direction: p.Direction()}.Encode()
		otherRows = append(otherRows, row{id: id, payload: msg})
	}

	for _, id := range ids {
		recipient, ok := w.Registry.Get(id)
		if !ok {
			continue
		}
		sendUDP(log, conn, recipient, objectsPayload)
		for _, r := range otherRows {
			if r.id == id {
				continue
			}
			sendUDP(log, conn, recipient, r.payload)
		}

		if recipient.UDPPeer() != nil && !recipient.IsDead() {
			self := protocol.PlayerMoveServer{Location: recipient.Location(), RequestID: recipient.ClientRequestID()}.Encode()
			sendUDP(log, conn, recipient, self)
		}
	}
}

func objectEntries(store *objects.Store) []protocol.ObjectEntry {
	snap := store.Snapshot()
	entries := make([]protocol.ObjectEntry, 0, len(snap))
	for loc, obj := range snap {
		entries = append(entries, protocol.ObjectEntry{
			Location:   loc,
			Kind:       byte(obj.Kind),
			TileID:     obj.TileID,
			TilesetRef: obj.TilesetRef,
			HP:         obj.HP,
			Direction:  obj.Direction,
			TargetZ:    obj.TargetZ,
		})
	}
	return entries
}
