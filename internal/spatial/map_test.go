package spatial

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMmoMap_SetGetClear(t *testing.T) {
	m := NewMmoMap(10, 10, 2)

	loc := Location{3, 4, 1}
	require.NoError(t, m.Set(loc, MapElement{Kind: MonsterOccupant, LastMove: 42}))

	el, ok := m.Get(loc)
	require.True(t, ok)
	assert.Equal(t, MonsterOccupant, el.Kind)
	assert.Equal(t, int64(42), el.LastMove)

	m.Clear(loc)
	el, ok = m.Get(loc)
	require.True(t, ok)
	assert.Equal(t, Empty, el.Kind)
}

func TestMmoMap_OutOfBounds(t *testing.T) {
	m := NewMmoMap(5, 5, 1)

	_, ok := m.Get(Location{5, 0, 0})
	assert.False(t, ok)

	err := m.Set(Location{-1, 0, 0}, MapElement{Kind: PlayerOccupant})
	assert.Error(t, err)
}

func TestMmoMap_MoveMonster(t *testing.T) {
	m := NewMmoMap(10, 10, 1)
	from := Location{1, 1, 0}
	to := Location{1, 2, 0}

	require.NoError(t, m.Set(from, MapElement{Kind: MonsterOccupant, LastMove: 0}))

	require.NoError(t, m.MoveMonster(from, to, 1000))

	assert.True(t, m.IsEmpty(from))
	el, ok := m.Get(to)
	require.True(t, ok)
	assert.Equal(t, MonsterOccupant, el.Kind)
	assert.Equal(t, int64(1000), el.LastMove)
}

func TestMmoMap_MoveMonster_NoOpSameCell(t *testing.T) {
	m := NewMmoMap(10, 10, 1)
	loc := Location{1, 1, 0}
	require.NoError(t, m.Set(loc, MapElement{Kind: MonsterOccupant, LastMove: 5}))

	require.NoError(t, m.MoveMonster(loc, loc, 999))

	el, _ := m.Get(loc)
	assert.Equal(t, int64(5), el.LastMove, "no-op move must not update LastMove")
}

func TestMmoMap_MoveMonster_RejectsNonMonster(t *testing.T) {
	m := NewMmoMap(10, 10, 1)
	from := Location{1, 1, 0}
	to := Location{1, 2, 0}
	require.NoError(t, m.Set(from, MapElement{Kind: PlayerOccupant}))

	err := m.MoveMonster(from, to, 1)
	assert.Error(t, err)
}
