package objects

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tilemmo/core/internal/spatial"
)

func TestStore_InsertGetRemove(t *testing.T) {
	s := NewStore()
	loc := spatial.Location{X: 1, Y: 1, Z: 0}

	require.NoError(t, s.Insert(loc, NewFlowerPot(149, "overworld")))
	obj, ok := s.Get(loc)
	require.True(t, ok)
	assert.Equal(t, KindFlowerPot, obj.Kind)

	s.Remove(loc)
	_, ok = s.Get(loc)
	assert.False(t, ok)
}

func TestStore_Insert_RejectsOccupiedCell(t *testing.T) {
	s := NewStore()
	loc := spatial.Location{X: 1, Y: 1, Z: 0}
	require.NoError(t, s.Insert(loc, NewFlowerPot(149, "overworld")))
	err := s.Insert(loc, NewLadder(83, "overworld", 1))
	assert.Error(t, err)
}

func TestStore_MoveObject_CountUnchanged(t *testing.T) {
	s := NewStore()
	from := spatial.Location{X: 0, Y: 0, Z: 0}
	to := spatial.Location{X: 5, Y: 0, Z: 0}

	require.NoError(t, s.Insert(from, NewOrc(63, "overworld", 50, spatial.South)))
	before := s.Len()

	require.NoError(t, s.MoveObject(from, to))

	assert.Equal(t, before, s.Len())
	_, ok := s.Get(from)
	assert.False(t, ok)
	moved, ok := s.Get(to)
	require.True(t, ok)
	assert.Equal(t, KindOrc, moved.Kind)
}

func TestStore_MoveObject_ReorientsOrc(t *testing.T) {
	s := NewStore()
	from := spatial.Location{X: 5, Y: 5, Z: 0}
	to := spatial.Location{X: 6, Y: 5, Z: 0} // x-greater -> East

	require.NoError(t, s.Insert(from, NewOrc(63, "overworld", 50, spatial.South)))
	require.NoError(t, s.MoveObject(from, to))

	moved, _ := s.Get(to)
	assert.Equal(t, spatial.East, moved.Direction)
}

func TestStore_MoveObject_NonOrcDoesNotReorient(t *testing.T) {
	s := NewStore()
	from := spatial.Location{X: 5, Y: 5, Z: 0}
	to := spatial.Location{X: 4, Y: 5, Z: 0}

	require.NoError(t, s.Insert(from, NewLadder(83, "overworld", 1)))
	require.NoError(t, s.MoveObject(from, to))

	moved, _ := s.Get(to)
	assert.Equal(t, spatial.Direction(0), moved.Direction) // zero value, never set
}

func TestStore_MoveObject_ErrorsOnMissingSource(t *testing.T) {
	s := NewStore()
	err := s.MoveObject(spatial.Location{X: 0, Y: 0, Z: 0}, spatial.Location{X: 1, Y: 0, Z: 0})
	assert.Error(t, err)
}

func TestStore_MoveObject_ErrorsOnOccupiedDestination(t *testing.T) {
	s := NewStore()
	from := spatial.Location{X: 0, Y: 0, Z: 0}
	to := spatial.Location{X: 1, Y: 0, Z: 0}
	require.NoError(t, s.Insert(from, NewOrc(63, "overworld", 50, spatial.South)))
	require.NoError(t, s.Insert(to, NewLadder(83, "overworld", 1)))

	err := s.MoveObject(from, to)
	assert.Error(t, err)
}

func TestCalculateNewDirection_Total(t *testing.T) {
	prev := spatial.Location{X: 10, Y: 10, Z: 0}
	seen := map[spatial.Direction]bool{}
	for dx := int32(-1); dx <= 1; dx++ {
		for dy := int32(-1); dy <= 1; dy++ {
			target := spatial.Location{X: 10 + dx, Y: 10 + dy, Z: 0}
			seen[CalculateNewDirection(prev, target)] = true
		}
	}
	assert.True(t, seen[spatial.North])
	assert.True(t, seen[spatial.South])
	assert.True(t, seen[spatial.East])
	assert.True(t, seen[spatial.West])
}

func TestStore_Snapshot_IsACopy(t *testing.T) {
	s := NewStore()
	loc := spatial.Location{X: 0, Y: 0, Z: 0}
	require.NoError(t, s.Insert(loc, NewFlowerPot(149, "overworld")))

	snap := s.Snapshot()
	delete(snap, loc)

	_, ok := s.Get(loc)
	assert.True(t, ok, "mutating the snapshot must not affect the store")
}
