// Package mapload defines the boundary to the out-of-scope TMX map
// loader (spec.md §1: "TMX map file parsing (treated as an opaque
// loader yielding layer/object data)") and performs the in-scope
// tile-id dispatch that turns loaded object rows into GameObjects
// (spec.md §6, §9 item 6).
//
// Grounded on the teacher's id→template dispatch shape
// (udisondev-la2go/internal/model/npc_template.go) and its fail-fast
// load-time validation pattern (formerly internal/data, removed from
// this tree as DB-backed and out of spec scope — see DESIGN.md).
package mapload

import (
	"fmt"

	"github.com/tilemmo/core/internal/objects"
	"github.com/tilemmo/core/internal/spatial"
	"github.com/tilemmo/core/internal/worldconfig"
)

// ObjectRow is one object-layer entry yielded by the external loader:
// a tile id at a grid cell, grouped per z-level by the loader itself.
type ObjectRow struct {
	Location   spatial.Location
	TileID     int32
	TilesetRef string
}

// Loader is the opaque external TMX loader interface. The real
// implementation (parsing .tmx XML, resolving tileset references) is
// out of scope per spec.md §1; this interface is what a concrete
// loader must satisfy to feed PopulateObjects.
type Loader interface {
	// LoadObjectRows returns every object-layer entry across all
	// z-level groups in load order.
	LoadObjectRows() ([]ObjectRow, error)
}

// PopulateObjects dispatches each loaded row to its GameObject variant
// by tile id (spec.md §6: 63=orc, 149=pot, 83=ladder) and inserts it
// into store. An unknown tile id aborts the load per spec.md §9 item
// 6 — this is the one place in the system that fails fast rather than
// logging and continuing.
func PopulateObjects(loader Loader, store *objects.Store) error {
	rows, err := loader.LoadObjectRows()
	if err != nil {
		return fmt.Errorf("mapload: loading object rows: %w", err)
	}

	for _, row := range rows {
		obj, err := dispatchTile(row)
		if err != nil {
			return fmt.Errorf("mapload: %w", err)
		}
		if err := store.Insert(row.Location, obj); err != nil {
			return fmt.Errorf("mapload: inserting object at %+v: %w", row.Location, err)
		}
	}
	return nil
}

func dispatchTile(row ObjectRow) (objects.GameObject, error) {
	switch row.TileID {
	case worldconfig.TileIDOrc:
		return objects.NewOrc(row.TileID, row.TilesetRef, worldconfig.DefaultMaxHP, spatial.South), nil
	case worldconfig.TileIDFlowerPot:
		return objects.NewFlowerPot(row.TileID, row.TilesetRef), nil
	case worldconfig.TileIDLadder:
		// target_z: the loader's z-level grouping already carries
		// source/destination floor; a real TMX loader would encode
		// the target floor in an object property read here. Without
		// that property the ladder still installs, just flat (targetZ
		// equal to its own Location.Z) — flagged rather than guessed.
		return objects.NewLadder(row.TileID, row.TilesetRef, row.Location.Z), nil
	default:
		return objects.GameObject{}, fmt.Errorf("unknown tile id %d at %+v", row.TileID, row.Location)
	}
}
