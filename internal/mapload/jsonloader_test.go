package mapload

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tilemmo/core/internal/spatial"
)

func TestJSONLoader_LoadObjectRows(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "world.json")
	require.NoError(t, os.WriteFile(path, []byte(`[
		{"x":1,"y":2,"z":0,"tile_id":63,"tileset_ref":"overworld"},
		{"x":3,"y":4,"z":1,"tile_id":149,"tileset_ref":"overworld"}
	]`), 0o644))

	loader, err := NewTMXLoader(path)
	require.NoError(t, err)

	rows, err := loader.LoadObjectRows()
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, spatial.Location{X: 1, Y: 2, Z: 0}, rows[0].Location)
	assert.Equal(t, int32(63), rows[0].TileID)
}

func TestJSONLoader_MissingFile(t *testing.T) {
	_, err := NewTMXLoader("/nonexistent/world.json")
	assert.Error(t, err)
}
