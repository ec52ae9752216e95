// Package worldconfig holds the fixed world-tuning constants shared by
// the server and the client: grid dimensions, camera box, tick rate
// and the various movement/attack cooldowns. Values follow spec.md §6.
package worldconfig

import "time"

const (
	// MapWidth and MapHeight bound the flat 2-D grid at every Z level.
	MapWidth  = 30
	MapHeight = 20
	// ZLevels is the number of floor levels (0 = ground, 1 = upper).
	ZLevels = 2

	// CameraWidth and CameraHeight define the perception/render box
	// centered on an entity.
	CameraWidth  = 19
	CameraHeight = 15

	// TileSize is the visual tile size in pixels. Neither the server
	// nor the headless reference client in this tree uses it.
	TileSize = 32
)

// Tick and cooldown timings (spec.md §6).
const (
	TickRate = 16 * time.Millisecond

	MoveCooldown         = 200 * time.Millisecond
	DiagonalMoveCooldown = 2 * MoveCooldown

	MonsterAttackCooldown = 2000 * time.Millisecond
	MonsterMoveCooldown   = 200 * time.Millisecond
)

// Damage & player defaults (spec.md §4.5, §4.9, §9 item 4).
const (
	DefaultMaxHP     = 100
	DefaultLevel     = 1
	MonsterAttackDmg = 50
)

// Tile ids populated from the map loader (spec.md §6).
const (
	TileIDOrc       = 63
	TileIDFlowerPot = 149
	TileIDLadder    = 83
)

// MaxConnectionRetries bounds the client's reconnect loop (spec.md §5).
const MaxConnectionRetries = 5

// ReconnectInterval is the delay between client reconnect attempts.
const ReconnectInterval = 5 * time.Second

// MinUsernameLength is the minimum accepted username length (spec.md §3).
const MinUsernameLength = 4
