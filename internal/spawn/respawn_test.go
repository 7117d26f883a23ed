package spawn

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Auriosi/AuriNPC/internal/model"
	"github.com/Auriosi/AuriNPC/internal/npc"
	"github.com/Auriosi/AuriNPC/internal/registry"
	"github.com/Auriosi/AuriNPC/internal/world"
)

func TestRespawnTaskManager_Schedule(t *testing.T) {
	m := NewRespawnTaskManager(0)
	id := uuid.New()

	m.Schedule(id, 5*time.Second, func() {})

	require.Equal(t, 1, m.TaskCount())
	task, ok := m.GetTask(id)
	require.True(t, ok)
	assert.Equal(t, id, task.NpcID)

	expected := time.Now().Add(5 * time.Second)
	assert.Less(t, task.RespawnTime.Sub(expected).Abs(), 100*time.Millisecond)
}

func TestRespawnTaskManager_Cancel(t *testing.T) {
	m := NewRespawnTaskManager(0)
	id := uuid.New()

	m.Schedule(id, 10*time.Second, func() { t.Error("cancelled task ran") })
	m.Cancel(id)
	m.Cancel(id)

	assert.Zero(t, m.TaskCount())
	_, ok := m.GetTask(id)
	assert.False(t, ok)
	assert.Zero(t, m.RunDue(time.Now().Add(time.Minute)))
}

func TestRespawnTaskManager_RunDueHonorsDeadline(t *testing.T) {
	m := NewRespawnTaskManager(0)
	base := time.Now()
	m.now = func() time.Time { return base }

	var early, late atomic.Int32
	m.Schedule(uuid.New(), 100*time.Millisecond, func() { early.Add(1) })
	m.Schedule(uuid.New(), time.Second, func() { late.Add(1) })

	assert.Zero(t, m.RunDue(base.Add(99*time.Millisecond)))
	assert.Equal(t, 1, m.RunDue(base.Add(100*time.Millisecond)))
	assert.Equal(t, int32(1), early.Load())
	assert.Zero(t, late.Load())
	assert.Equal(t, 1, m.TaskCount())

	assert.Equal(t, 1, m.RunDue(base.Add(2*time.Second)))
	assert.Equal(t, int32(1), late.Load())
	assert.Zero(t, m.TaskCount())
}

func TestRespawnTaskManager_ReplaceTask(t *testing.T) {
	m := NewRespawnTaskManager(0)
	id := uuid.New()

	var first, second atomic.Int32
	m.Schedule(id, time.Millisecond, func() { first.Add(1) })
	m.Schedule(id, time.Millisecond, func() { second.Add(1) })

	assert.Equal(t, 1, m.TaskCount())
	m.RunDue(time.Now().Add(time.Second))
	assert.Zero(t, first.Load())
	assert.Equal(t, int32(1), second.Load())
}

func TestRespawnTaskManager_PanicIsolated(t *testing.T) {
	m := NewRespawnTaskManager(0)

	var ran atomic.Int32
	m.Schedule(uuid.New(), 0, func() { panic("boom") })
	m.Schedule(uuid.New(), 0, func() { ran.Add(1) })

	assert.NotPanics(t, func() { m.RunDue(time.Now().Add(time.Second)) })
	assert.Equal(t, int32(1), ran.Load())
}

func TestRespawnTaskManager_StartStop(t *testing.T) {
	m := NewRespawnTaskManager(5 * time.Millisecond)

	done := make(chan error, 1)
	go func() {
		done <- m.Start(context.Background())
	}()

	var ran atomic.Int32
	m.Schedule(uuid.New(), 20*time.Millisecond, func() { ran.Add(1) })
	require.Eventually(t, func() bool { return ran.Load() == 1 }, 2*time.Second, 5*time.Millisecond)

	m.Stop()
	m.Stop()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("Start() did not stop after Stop()")
	}
}

// Full cycle through the registry: a living NPC respawns at full health no
// earlier than its delay, driven only by the task manager loop.
func TestRespawnTaskManager_NPCRespawnCycle(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping timing test in short mode")
	}

	w := world.NewMemoryWorld()
	reg := registry.New()
	require.NoError(t, reg.Attach(w))
	shard := w.CreateShard("s")
	p := world.NewMemoryPlayer(uuid.New(), "p", mgl64.Vec3{})
	require.NoError(t, w.Join(p, shard))

	m := NewRespawnTaskManager(5 * time.Millisecond)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() { _ = m.Start(ctx) }()

	cfg := npc.DefaultLivingConfig(uuid.New(), shard, model.Location{}, npc.ProfileLiving, 20)
	cfg.Respawns = true
	cfg.RespawnDelay = 500 * time.Millisecond
	n, err := reg.Create(ctx, cfg, m)
	require.NoError(t, err)

	diedAt := time.Now()
	require.True(t, n.Kill())
	require.Equal(t, 1, m.TaskCount())

	time.Sleep(300 * time.Millisecond)
	assert.True(t, n.IsDead(), "must not respawn before the delay")

	require.Eventually(t, func() bool { return !n.IsDead() }, 3*time.Second, 5*time.Millisecond)
	assert.GreaterOrEqual(t, time.Since(diedAt), 500*time.Millisecond)
	assert.Equal(t, float32(20), n.Health())
	assert.True(t, reg.IsRegistered(n.ID()))
	assert.True(t, p.Sees(n.ID()))
}
