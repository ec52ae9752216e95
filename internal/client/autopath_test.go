package client

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tilemmo/core/internal/protocol"
	"github.com/tilemmo/core/internal/spatial"
	"github.com/tilemmo/core/internal/worldconfig"
)

func TestAutoPather_StraightPath(t *testing.T) {
	r := NewReconciler(spatial.Location{X: 0, Y: 0, Z: 0})
	p := NewAutoPather(r)
	ok := p.SetDestination(spatial.Location{X: 3, Y: 0, Z: 0})
	require.True(t, ok)
	assert.True(t, p.HasRoute())
}

func TestAutoPather_UnreachableDestination(t *testing.T) {
	r := NewReconciler(spatial.Location{X: 0, Y: 0, Z: 0})
	// Wall off the entire column at x=1 next to the start, trapping it.
	entries := make([]protocol.ObjectEntry, 0, worldconfig.MapHeight)
	for y := 0; y < worldconfig.MapHeight; y++ {
		entries = append(entries, protocol.ObjectEntry{Location: spatial.Location{X: 1, Y: int32(y), Z: 0}})
	}
	r.ApplyUDPServer(protocol.Objects{Entries: entries})

	p := NewAutoPather(r)
	ok := p.SetDestination(spatial.Location{X: 5, Y: 0, Z: 0})
	assert.False(t, ok)
}

func TestAutoPather_RespectsMoveCooldown(t *testing.T) {
	r := NewReconciler(spatial.Location{X: 0, Y: 0, Z: 0})
	p := NewAutoPather(r)
	require.True(t, p.SetDestination(spatial.Location{X: 2, Y: 0, Z: 0}))

	now := time.Now()
	_, ok := p.NextStep(now)
	assert.True(t, ok)

	_, ok = p.NextStep(now.Add(1 * time.Millisecond))
	assert.False(t, ok, "a second step before the cooldown elapses must be rejected")

	_, ok = p.NextStep(now.Add(worldconfig.MoveCooldown + time.Millisecond))
	assert.True(t, ok)
}

func TestAutoPather_SameCellDestination(t *testing.T) {
	r := NewReconciler(spatial.Location{X: 4, Y: 4, Z: 0})
	p := NewAutoPather(r)
	ok := p.SetDestination(spatial.Location{X: 4, Y: 4, Z: 0})
	assert.True(t, ok)
	assert.False(t, p.HasRoute())
}
