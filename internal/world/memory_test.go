package world

import (
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Auriosi/AuriNPC/internal/model"
)

func TestMemoryWorld_CreateShard(t *testing.T) {
	w := NewMemoryWorld()

	lobby := w.CreateShard("lobby")
	again := w.CreateShard("lobby")
	assert.Same(t, lobby, again)
	assert.Equal(t, 1, w.ShardCount())

	got, err := w.ShardByName("lobby")
	require.NoError(t, err)
	assert.Same(t, lobby, got)

	byID, ok := w.Shard(lobby.ID())
	assert.True(t, ok)
	assert.Same(t, lobby, byID)

	_, err = w.ShardByName("missing")
	assert.ErrorIs(t, err, ErrShardNotFound)
}

func TestMemoryWorld_JoinLeaveEvents(t *testing.T) {
	w := NewMemoryWorld()
	lobby := w.CreateShard("lobby")
	arena := w.CreateShard("arena")
	p := NewMemoryPlayer(uuid.New(), "Alex", mgl64.Vec3{})

	var joins, leaves []string
	w.OnPlayerJoin(func(pl Player, s Shard) {
		// player must already be present when listeners run
		assert.True(t, s.(*MemoryShard).HasPlayer(pl.ID()))
		joins = append(joins, s.Name())
	})
	w.OnPlayerLeave(func(pl Player, s Shard) {
		assert.False(t, s.(*MemoryShard).HasPlayer(pl.ID()))
		leaves = append(leaves, s.Name())
	})

	require.NoError(t, w.Join(p, lobby))
	require.NoError(t, w.Join(p, lobby)) // same shard: no event
	require.NoError(t, w.Transfer(p, arena))
	w.Leave(p)
	w.Leave(p) // not in any shard: no event

	assert.Equal(t, []string{"lobby", "arena"}, joins)
	assert.Equal(t, []string{"lobby", "arena"}, leaves)

	_, ok := w.PlayerShard(p.ID())
	assert.False(t, ok)
}

func TestMemoryWorld_Join_NilShard(t *testing.T) {
	w := NewMemoryWorld()
	err := w.Join(NewMemoryPlayer(uuid.New(), "Alex", mgl64.Vec3{}), nil)
	assert.ErrorIs(t, err, ErrNilShard)
}

func TestMemoryWorld_MovePlayer(t *testing.T) {
	w := NewMemoryWorld()
	lobby := w.CreateShard("lobby")
	p := NewMemoryPlayer(uuid.New(), "Alex", mgl64.Vec3{})
	require.NoError(t, w.Join(p, lobby))

	w.MovePlayer(p, mgl64.Vec3{500, 0, 500})

	assert.Equal(t, mgl64.Vec3{500, 0, 500}, p.Position())
	assert.Empty(t, collect(lobby, mgl64.Vec3{}, 100))
	assert.True(t, collect(lobby, mgl64.Vec3{500, 0, 500}, 1)[p.ID()])
}

func TestMemoryWorld_Interact(t *testing.T) {
	w := NewMemoryWorld()
	target := uuid.New()

	var got []model.InteractEvent
	w.OnInteract(func(ev model.InteractEvent) { got = append(got, ev) })

	w.Interact(model.InteractEvent{TargetID: target, Action: model.InteractActionAttack})

	require.Len(t, got, 1)
	assert.Equal(t, target, got[0].TargetID)
}

func TestMemoryPlayer_Disconnect(t *testing.T) {
	p := NewMemoryPlayer(uuid.New(), "Alex", mgl64.Vec3{})
	id := uuid.New()

	require.NoError(t, p.SpawnEntity(model.EntitySnapshot{ID: id}))
	assert.True(t, p.Sees(id))

	p.Disconnect()
	assert.False(t, p.Connected())
	assert.ErrorIs(t, p.SendPresentation(model.PresentationRecord{}), ErrDisconnected)
	assert.ErrorIs(t, p.SpawnEntity(model.EntitySnapshot{ID: uuid.New()}), ErrDisconnected)
	assert.ErrorIs(t, p.UpdateEntity(model.EntitySnapshot{ID: id}), ErrDisconnected)
	assert.ErrorIs(t, p.DestroyEntity(id), ErrDisconnected)
	assert.True(t, p.Sees(id), "failed destroy leaves state untouched")
}

func TestMemoryPlayer_LastPresentation(t *testing.T) {
	p := NewMemoryPlayer(uuid.New(), "Alex", mgl64.Vec3{})
	id := uuid.New()

	_, ok := p.LastPresentation(id)
	assert.False(t, ok)

	require.NoError(t, p.SendPresentation(model.PresentationRecord{Entry: model.PresentationEntry{ID: id, Username: "old"}}))
	require.NoError(t, p.SendPresentation(model.PresentationRecord{Entry: model.PresentationEntry{ID: uuid.New(), Username: "other"}}))
	require.NoError(t, p.SendPresentation(model.PresentationRecord{Entry: model.PresentationEntry{ID: id, Username: "new"}}))

	rec, ok := p.LastPresentation(id)
	require.True(t, ok)
	assert.Equal(t, "new", rec.Entry.Username)
	assert.Len(t, p.Presentations(), 3)
}
