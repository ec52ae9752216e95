package mapload

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tilemmo/core/internal/objects"
	"github.com/tilemmo/core/internal/spatial"
)

type fakeLoader struct {
	rows []ObjectRow
	err  error
}

func (f *fakeLoader) LoadObjectRows() ([]ObjectRow, error) {
	return f.rows, f.err
}

func TestPopulateObjects_DispatchesKnownTiles(t *testing.T) {
	loader := &fakeLoader{rows: []ObjectRow{
		{Location: spatial.Location{X: 1, Y: 1, Z: 0}, TileID: 63, TilesetRef: "overworld"},
		{Location: spatial.Location{X: 2, Y: 2, Z: 0}, TileID: 149, TilesetRef: "overworld"},
		{Location: spatial.Location{X: 3, Y: 3, Z: 0}, TileID: 83, TilesetRef: "overworld"},
	}}
	store := objects.NewStore()

	require.NoError(t, PopulateObjects(loader, store))
	assert.Equal(t, 3, store.Len())

	orc, ok := store.Get(spatial.Location{X: 1, Y: 1, Z: 0})
	require.True(t, ok)
	assert.Equal(t, objects.KindOrc, orc.Kind)

	pot, ok := store.Get(spatial.Location{X: 2, Y: 2, Z: 0})
	require.True(t, ok)
	assert.Equal(t, objects.KindFlowerPot, pot.Kind)

	ladder, ok := store.Get(spatial.Location{X: 3, Y: 3, Z: 0})
	require.True(t, ok)
	assert.Equal(t, objects.KindLadder, ladder.Kind)
}

func TestPopulateObjects_UnknownTileAborts(t *testing.T) {
	loader := &fakeLoader{rows: []ObjectRow{
		{Location: spatial.Location{X: 1, Y: 1, Z: 0}, TileID: 255, TilesetRef: "overworld"},
	}}
	store := objects.NewStore()

	err := PopulateObjects(loader, store)
	assert.Error(t, err)
	assert.Equal(t, 0, store.Len(), "a failed load must not leave a partially populated store state the caller treats as ready")
}

func TestPopulateObjects_LoaderError(t *testing.T) {
	loader := &fakeLoader{err: assert.AnError}
	store := objects.NewStore()

	err := PopulateObjects(loader, store)
	assert.Error(t, err)
}
