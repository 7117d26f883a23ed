package npc

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/Auriosi/AuriNPC/internal/model"
	"github.com/Auriosi/AuriNPC/internal/world"
)

// fakeTracker grants and revokes visibility like the registry does and
// records every call as "register:<shard>" / "deregister:<shard>".
type fakeTracker struct {
	mu      sync.Mutex
	tracked map[uuid.UUID]*NPC
	calls   []string
}

func newFakeTracker() *fakeTracker {
	return &fakeTracker{tracked: make(map[uuid.UUID]*NPC)}
}

func (t *fakeTracker) Register(n *NPC) {
	shard := n.Shard()
	t.mu.Lock()
	t.tracked[n.ID()] = n
	t.calls = append(t.calls, "register:"+shard.Name())
	t.mu.Unlock()

	for _, p := range shard.Players() {
		n.AddViewer(p)
	}
}

func (t *fakeTracker) Deregister(n *NPC) {
	t.mu.Lock()
	if _, ok := t.tracked[n.ID()]; !ok {
		t.mu.Unlock()
		return
	}
	delete(t.tracked, n.ID())
	t.calls = append(t.calls, "deregister:"+n.Shard().Name())
	t.mu.Unlock()

	for _, p := range n.Viewers() {
		n.RemoveViewer(p)
	}
}

func (t *fakeTracker) isTracked(id uuid.UUID) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	_, ok := t.tracked[id]
	return ok
}

func (t *fakeTracker) history() []string {
	t.mu.Lock()
	defer t.mu.Unlock()
	return append([]string(nil), t.calls...)
}

// manualScheduler keeps scheduled actions until the test fires them.
type manualScheduler struct {
	mu     sync.Mutex
	tasks  map[uuid.UUID]func()
	delays map[uuid.UUID]time.Duration
}

func newManualScheduler() *manualScheduler {
	return &manualScheduler{
		tasks:  make(map[uuid.UUID]func()),
		delays: make(map[uuid.UUID]time.Duration),
	}
}

func (s *manualScheduler) Schedule(id uuid.UUID, delay time.Duration, fn func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tasks[id] = fn
	s.delays[id] = delay
}

func (s *manualScheduler) Cancel(id uuid.UUID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.tasks, id)
	delete(s.delays, id)
}

func (s *manualScheduler) pending(id uuid.UUID) (time.Duration, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	d, ok := s.delays[id]
	return d, ok
}

// fire runs the pending action for id. Returns false if none was scheduled.
func (s *manualScheduler) fire(id uuid.UUID) bool {
	s.mu.Lock()
	fn, ok := s.tasks[id]
	delete(s.tasks, id)
	delete(s.delays, id)
	s.mu.Unlock()
	if ok {
		fn()
	}
	return ok
}

type fixture struct {
	world   *world.MemoryWorld
	shard   *world.MemoryShard
	tracker *fakeTracker
	sched   *manualScheduler
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	w := world.NewMemoryWorld()
	return &fixture{
		world:   w,
		shard:   w.CreateShard("overworld"),
		tracker: newFakeTracker(),
		sched:   newManualScheduler(),
	}
}

func (f *fixture) join(t *testing.T, name string, pos mgl64.Vec3, s *world.MemoryShard) *world.MemoryPlayer {
	t.Helper()
	p := world.NewMemoryPlayer(uuid.New(), name, pos)
	require.NoError(t, f.world.Join(p, s))
	return p
}

func (f *fixture) spawn(t *testing.T, cfg Config) *NPC {
	t.Helper()
	n, err := New(cfg, f.tracker, f.sched)
	require.NoError(t, err)
	require.NoError(t, n.Spawn(context.Background()))
	return n
}

func (f *fixture) staticConfig() Config {
	return DefaultConfig(uuid.New(), f.shard, model.NewLocation(0, 64, 0, 0, 0))
}

// livingConfig returns a living config at full health.
func (f *fixture) livingConfig(maxHealth float32) Config {
	cfg := DefaultLivingConfig(uuid.New(), f.shard, model.NewLocation(0, 64, 0, 0, 0), ProfileLiving, maxHealth)
	cfg.Health = maxHealth
	return cfg
}
