package world

import (
	"context"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type staticEntity struct {
	id  uuid.UUID
	pos mgl64.Vec3
}

func (e *staticEntity) ID() uuid.UUID        { return e.id }
func (e *staticEntity) Position() mgl64.Vec3 { return e.pos }

func newEntity(x, y, z float64) *staticEntity {
	return &staticEntity{id: uuid.New(), pos: mgl64.Vec3{x, y, z}}
}

func collect(s *MemoryShard, pos mgl64.Vec3, radiusSquared float64) map[uuid.UUID]bool {
	out := make(map[uuid.UUID]bool)
	for e := range s.NearbyEntities(pos, radiusSquared) {
		out[e.ID()] = true
	}
	return out
}

func TestMemoryShard_AddRemoveEntity(t *testing.T) {
	s := NewMemoryShard(uuid.New(), "lobby")
	e := newEntity(1, 2, 3)

	require.NoError(t, s.AddEntity(context.Background(), e))
	assert.True(t, s.HasEntity(e.ID()))
	assert.Equal(t, 1, s.EntityCount())

	err := s.AddEntity(context.Background(), e)
	assert.ErrorIs(t, err, ErrEntityExists)

	s.RemoveEntity(e.ID())
	assert.False(t, s.HasEntity(e.ID()))
	assert.Equal(t, 0, s.EntityCount())

	// unknown id is ignored
	s.RemoveEntity(uuid.New())
}

func TestMemoryShard_AddEntity_Closed(t *testing.T) {
	s := NewMemoryShard(uuid.New(), "lobby")
	s.Close()

	err := s.AddEntity(context.Background(), newEntity(0, 0, 0))
	assert.ErrorIs(t, err, ErrShardClosed)
}

func TestMemoryShard_AddEntity_CanceledContext(t *testing.T) {
	s := NewMemoryShard(uuid.New(), "lobby")
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := s.AddEntity(ctx, newEntity(0, 0, 0))
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 0, s.EntityCount())
}

func TestMemoryShard_NearbyEntities(t *testing.T) {
	s := NewMemoryShard(uuid.New(), "lobby")
	ctx := context.Background()

	near := newEntity(3, 0, 4)        // d² = 25
	edge := newEntity(0, 0, 10)       // d² = 100
	far := newEntity(0, 0, 11)        // d² = 121
	otherCell := newEntity(-6, 0, -8) // d² = 100, different cell
	high := newEntity(0, 20, 0)       // d² = 400
	for _, e := range []*staticEntity{near, edge, far, otherCell, high} {
		require.NoError(t, s.AddEntity(ctx, e))
	}

	got := collect(s, mgl64.Vec3{0, 0, 0}, 100)

	assert.True(t, got[near.ID()])
	assert.True(t, got[edge.ID()], "radius is inclusive")
	assert.True(t, got[otherCell.ID()])
	assert.False(t, got[far.ID()])
	assert.False(t, got[high.ID()])
	assert.Len(t, got, 3)
}

func TestMemoryShard_NearbyEntities_Empty(t *testing.T) {
	s := NewMemoryShard(uuid.New(), "lobby")

	assert.Empty(t, collect(s, mgl64.Vec3{}, 100))
	assert.Empty(t, collect(s, mgl64.Vec3{}, -1))
}

func TestMemoryShard_NearbyEntities_EarlyStop(t *testing.T) {
	s := NewMemoryShard(uuid.New(), "lobby")
	for i := range 10 {
		require.NoError(t, s.AddEntity(context.Background(), newEntity(float64(i), 0, 0)))
	}

	count := 0
	for range s.NearbyEntities(mgl64.Vec3{}, 1000) {
		count++
		if count == 3 {
			break
		}
	}
	assert.Equal(t, 3, count)
}

func TestMemoryShard_MoveEntity(t *testing.T) {
	s := NewMemoryShard(uuid.New(), "lobby")
	e := newEntity(0, 0, 0)
	require.NoError(t, s.AddEntity(context.Background(), e))

	e.pos = mgl64.Vec3{100, 0, 100}
	s.MoveEntity(e.ID(), e.pos)

	assert.Empty(t, collect(s, mgl64.Vec3{}, 25))
	assert.True(t, collect(s, mgl64.Vec3{100, 0, 100}, 25)[e.ID()])

	// unknown id is ignored
	s.MoveEntity(uuid.New(), mgl64.Vec3{})
}

func TestMemoryShard_PlayersAreEntities(t *testing.T) {
	s := NewMemoryShard(uuid.New(), "lobby")
	p := NewMemoryPlayer(uuid.New(), "Steve", mgl64.Vec3{1, 0, 1})

	assert.True(t, s.addPlayer(p))
	assert.False(t, s.addPlayer(p), "second add is rejected")
	assert.True(t, s.HasPlayer(p.ID()))
	assert.Len(t, s.Players(), 1)
	assert.True(t, collect(s, mgl64.Vec3{}, 9)[p.ID()])

	assert.True(t, s.removePlayer(p.ID()))
	assert.False(t, s.removePlayer(p.ID()))
	assert.Equal(t, 0, s.PlayerCount())
	assert.Equal(t, 0, s.EntityCount())
}
