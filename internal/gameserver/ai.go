// Monster AI (component C9, spec.md §4.9): perceive, pursue, attack.
//
// spec.md describes an explicit Idle/Perceived/Attacking/Moving/Cooling
// state machine. This implementation derives the same behavior from
// the two cooldown timestamps MmoMap already carries per monster cell
// (LastMove, LastAttack) rather than storing a separate state enum —
// grounded on the teacher's own cooldown-gated AI tick
// (udisondev-la2go/internal/game/ai/*, which checks "time since last
// action" rather than tracking discrete state names). The externally
// observable behavior is identical: a perceived, adjacent player is
// attacked at most once per MonsterAttackCooldown; otherwise the
// monster advances one step toward its target at most once per
// MonsterMoveCooldown.
package gameserver

import (
	"log/slog"

	"github.com/tilemmo/core/internal/session"
	"github.com/tilemmo/core/internal/spatial"
	"github.com/tilemmo/core/internal/worldconfig"
)

// perceptionHalfWidth/Height derive the monster's perception box from
// the shared camera box (spec.md §4.9: "same box the client uses for
// its own camera").
const (
	perceptionHalfWidth  = worldconfig.CameraWidth / 2
	perceptionHalfHeight = worldconfig.CameraHeight / 2
)

// runMonsterAI drives one AI tick, iterating *players* in registry
// order and running monster AI against each in turn (spec.md §4.8:
// "for each id: 1. Run monster AI (C9) against this player"). Each
// monster acts at most once per tick, against whichever perceiving
// player is reached first in iteration order — spec.md §4.9 states
// targeting ties resolve "by player-iteration order within the tick
// (no explicit targeting)", so this deliberately does not rank
// candidates by distance.
//
// Caller must already hold World.mu (spec.md §5: AI runs under the
// world lock so it never races player-originated mutations within a
// tick).
func runMonsterAI(log *slog.Logger, w *World, conn UDPSender, nowMillis int64) {
	type monster struct {
		loc spatial.Location
		el  spatial.MapElement
	}
	var monsters []monster
	w.Map.ForEach(func(loc spatial.Location, el spatial.MapElement) {
		if el.Kind == spatial.MonsterOccupant {
			monsters = append(monsters, monster{loc: loc, el: el})
		}
	})

	acted := make(map[spatial.Location]bool, len(monsters))

	for _, id := range w.Registry.IDs() {
		p, ok := w.Registry.Get(id)
		if !ok || p.IsDead() {
			continue
		}
		playerLoc := p.Location()

		for _, mo := range monsters {
			if acted[mo.loc] {
				continue // already acted against an earlier player this tick
			}
			if !inPerceptionBox(mo.loc, playerLoc) {
				continue // Idle: this monster hasn't perceived this player
			}
			acted[mo.loc] = true

			if chebyshev(mo.loc, playerLoc) <= 1 {
				attackIfReady(log, w, conn, mo.loc, mo.el, p, nowMillis)
				continue
			}
			moveTowardIfReady(log, w, mo.loc, mo.el, playerLoc, nowMillis)
		}
	}
}

// inPerceptionBox reports whether playerLoc falls within the
// perception box centered on a monster at monsterLoc (spec.md §4.9:
// "same box the client uses for its own camera").
func inPerceptionBox(monsterLoc, playerLoc spatial.Location) bool {
	if monsterLoc.Z != playerLoc.Z {
		return false
	}
	dx, dy := absInt32(playerLoc.X-monsterLoc.X), absInt32(playerLoc.Y-monsterLoc.Y)
	return dx <= perceptionHalfWidth && dy <= perceptionHalfHeight
}

func attackIfReady(log *slog.Logger, w *World, conn UDPSender, loc spatial.Location, el spatial.MapElement, target *session.Player, nowMillis int64) {
	if nowMillis-el.LastAttack < worldconfig.MonsterAttackCooldown.Milliseconds() {
		return // Cooling
	}
	el.LastAttack = nowMillis
	if err := w.Map.Set(loc, el); err != nil {
		log.Debug("ai: could not update monster attack cooldown", "loc", loc, "err", err)
		return
	}
	applyDamage(log, w, conn, target, worldconfig.MonsterAttackDmg)
}

func moveTowardIfReady(log *slog.Logger, w *World, loc spatial.Location, el spatial.MapElement, targetLoc spatial.Location, nowMillis int64) {
	if nowMillis-el.LastMove < worldconfig.MonsterMoveCooldown.Milliseconds() {
		return // Cooling
	}
	path := w.Map.ShortestPath(loc, targetLoc)
	if len(path) < 2 {
		return // unreachable (nil); adjacent targets take the attack branch instead
	}
	next := path[1]

	if err := w.Map.MoveMonster(loc, next, nowMillis); err != nil {
		log.Debug("ai: monster move rejected", "from", loc, "to", next, "err", err)
		return
	}
	if err := w.Objects.MoveObject(loc, next); err != nil {
		log.Debug("ai: monster object move rejected", "from", loc, "to", next, "err", err)
	}
}

func chebyshev(a, b spatial.Location) int32 {
	dx, dy := absInt32(a.X-b.X), absInt32(a.Y-b.Y)
	if dx > dy {
		return dx
	}
	return dy
}

func absInt32(v int32) int32 {
	if v < 0 {
		return -v
	}
	return v
}
