package gameserver

import (
	"log/slog"

	"github.com/tilemmo/core/internal/objects"
	"github.com/tilemmo/core/internal/protocol"
	"github.com/tilemmo/core/internal/session"
	"github.com/tilemmo/core/internal/spatial"
	"github.com/tilemmo/core/internal/worldconfig"
)

// applyDamage applies dmg to target (spec.md §4.10), pushing a
// PlayerHealthUpdate always and, on death, clearing the occupied map
// cell, dropping a flower-pot corpse marker (spec.md §4.9: death
// leaves a decorative/corpse object behind) and a PlayerDeath message.
// Caller must already hold World.mu.
func applyDamage(log *slog.Logger, w *World, conn UDPSender, target *session.Player, dmg int32) {
	result := target.TakeDamage(dmg)

	sendUDP(log, conn, target, protocol.PlayerHealthUpdate{HP: target.HP()}.Encode())
	sendUDP(log, conn, target, protocol.DamageNumber{Damage: dmg}.Encode())

	if result != session.Died {
		return
	}

	loc := target.Location()
	w.Map.Clear(loc)
	if err := w.Objects.Insert(loc, objects.NewFlowerPot(worldconfig.TileIDFlowerPot, "overworld")); err != nil {
		log.Debug("could not place corpse marker, cell already occupied", "loc", loc, "err", err)
	}

	sendUDP(log, conn, target, protocol.PlayerDeath{Message: "You have died."}.Encode())
	log.Info("player died", "player", target.ID(), "username", target.Username())
}

// respawnPlayer moves target back to life at a free spawn cell
// (spec.md §4.7 Respawn event) and notifies it with RespawnOk. Caller
// must already hold World.mu.
func respawnPlayer(log *slog.Logger, w *World, target *session.Player) error {
	spawn, ok := findSpawnCell(w.Map)
	if !ok {
		return errNoSpawnCell
	}
	if !target.Respawn(spawn) {
		return nil // was not dead; nothing to do
	}

	el := spatial.MapElement{Kind: spatial.PlayerOccupant, PlayerID: target.ID()}
	if err := w.Map.Set(spawn, el); err != nil {
		return err
	}

	sendTCP(log, target, protocol.RespawnOk{}.Encode())
	log.Info("player respawned", "player", target.ID(), "at", spawn)
	return nil
}

// findSpawnCell scans ground level (Z=0) in row-major order for the
// first empty cell. A real deployment would maintain a curated list of
// spawn points; spec.md does not define one, so this is the simplest
// policy that satisfies "respawn somewhere walkable" (spec.md §9).
func findSpawnCell(m *spatial.MmoMap) (spatial.Location, bool) {
	for y := 0; y < m.Height(); y++ {
		for x := 0; x < m.Width(); x++ {
			loc := spatial.Location{X: int32(x), Y: int32(y), Z: 0}
			if m.IsEmpty(loc) {
				return loc, true
			}
		}
	}
	return spatial.Location{}, false
}

var errNoSpawnCell = spawnCellError{}

type spawnCellError struct{}

func (spawnCellError) Error() string { return "gameserver: no empty spawn cell available" }
