package npc

import (
	"testing"
	"time"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Auriosi/AuriNPC/internal/model"
)

func TestNPC_LooksAtNearestPlayer(t *testing.T) {
	f := newFixture(t)
	origin := mgl64.Vec3{0, 64, 0}

	// squared distances 80 and 50; the closer one must win
	far := f.join(t, "far", origin.Add(mgl64.Vec3{4, 0, 8}), f.shard)
	near := f.join(t, "near", origin.Add(mgl64.Vec3{5, 0, 5}), f.shard)

	n := f.spawn(t, f.staticConfig())
	require.Equal(t, int64(100), n.LookRangeSquared())

	n.Tick(time.Now())

	want := model.Location{Position: origin}.Facing(near.Position())
	assert.InDelta(t, want.Yaw, n.Location().Yaw, 1e-9)
	assert.InDelta(t, want.Pitch, n.Location().Pitch, 1e-9)
	assert.NotEqual(t, model.Location{Position: origin}.Facing(far.Position()).Yaw, n.Location().Yaw)

	// viewers see the new orientation
	snap, ok := near.Visible(n.ID())
	require.True(t, ok)
	assert.Equal(t, n.Location(), snap.Location)
}

func TestNPC_LookAtNobodyInRange(t *testing.T) {
	f := newFixture(t)
	f.join(t, "distant", mgl64.Vec3{20, 64, 0}, f.shard)

	cfg := f.staticConfig()
	cfg.Location = model.NewLocation(0, 64, 0, 33, 12)
	n := f.spawn(t, cfg)

	n.Tick(time.Now())

	assert.Equal(t, cfg.Location, n.Location())
}

func TestNPC_LookAtDisabled(t *testing.T) {
	f := newFixture(t)
	f.join(t, "close", mgl64.Vec3{1, 64, 1}, f.shard)

	cfg := f.staticConfig()
	cfg.LookAtPlayers = false
	n := f.spawn(t, cfg)

	n.Tick(time.Now())
	assert.Equal(t, cfg.Location, n.Location())

	n.SetLookAtPlayers(true)
	n.Tick(time.Now())
	assert.NotEqual(t, cfg.Location.Yaw, n.Location().Yaw)
}

func TestNPC_SetLookRange(t *testing.T) {
	f := newFixture(t)
	f.join(t, "p", mgl64.Vec3{6, 64, 0}, f.shard)
	n := f.spawn(t, f.staticConfig())

	require.NoError(t, n.SetLookRange(5))
	assert.Equal(t, int64(5), n.LookRange())
	assert.Equal(t, int64(25), n.LookRangeSquared())

	n.Tick(time.Now())
	assert.Zero(t, n.Location().Yaw)

	assert.ErrorIs(t, n.SetLookRange(-1), ErrNegativeLookRange)
	assert.ErrorIs(t, n.SetLookRange(MaxLookRange+1), ErrLookRangeTooLarge)
	assert.ErrorIs(t, n.SetLookRange(4_000_000_000), ErrLookRangeTooLarge)
	assert.Equal(t, int64(5), n.LookRange())
	assert.Equal(t, int64(25), n.LookRangeSquared())

	require.NoError(t, n.SetLookRange(MaxLookRange))
	assert.Positive(t, n.LookRangeSquared(), "largest range must not overflow")
}

func TestNearestPlayer_IgnoresNonPlayers(t *testing.T) {
	f := newFixture(t)
	other := f.spawn(t, f.staticConfig())
	_ = other

	_, ok := nearestPlayer(f.shard, mgl64.Vec3{0, 64, 0}, 100)
	assert.False(t, ok)
}
