// Package registry tracks live NPCs and keeps their viewer sets in line with
// shard membership: a player views an NPC iff both are in the same shard and
// the NPC is registered.
package registry

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"sync"
	"sync/atomic"

	"github.com/google/uuid"

	"github.com/Auriosi/AuriNPC/internal/npc"
	"github.com/Auriosi/AuriNPC/internal/world"
)

// Registry is the visibility registry. Create one per process and pass it
// to everything that spawns NPCs or delivers world events.
//
// Grants and revocations run while mu is held so a concurrent deregister
// cannot interleave with a grant for the same NPC. Joins only take the read
// lock and may proceed in parallel.
type Registry struct {
	mu    sync.RWMutex
	byID  map[uuid.UUID]*npc.NPC
	order []*npc.NPC // registration order

	attached atomic.Bool
}

var _ npc.Tracker = (*Registry)(nil)

// New creates an empty registry.
func New() *Registry {
	return &Registry{
		byID: make(map[uuid.UUID]*npc.NPC, 64),
	}
}

// Register tracks n and grants visibility to every player already in its shard.
// Registering a tracked NPC keeps a single membership and re-sends grants.
func (r *Registry) Register(n *npc.NPC) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.byID[n.ID()]; !ok {
		r.byID[n.ID()] = n
		r.order = append(r.order, n)
	}

	shard := n.Shard()
	granted := 0
	for _, p := range shard.Players() {
		if n.AddViewer(p) {
			granted++
		}
	}

	slog.Debug("npc registered",
		"npc", n.ID(),
		"shard", shard.Name(),
		"granted", granted,
		"total", len(r.order))
}

// Deregister stops tracking n and revokes visibility from all of its viewers.
// No-op if n is not tracked.
func (r *Registry) Deregister(n *npc.NPC) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.byID[n.ID()]; !ok {
		return
	}
	delete(r.byID, n.ID())
	r.order = slices.DeleteFunc(r.order, func(x *npc.NPC) bool { return x.ID() == n.ID() })

	revoked := 0
	for _, p := range n.Viewers() {
		if n.RemoveViewer(p) {
			revoked++
		}
	}

	slog.Debug("npc deregistered", "npc", n.ID(), "revoked", revoked, "remaining", len(r.order))
}

// OnPlayerJoinedShard shows every NPC tracked in s to p. This is the only
// way a newly arrived player discovers existing NPCs.
func (r *Registry) OnPlayerJoinedShard(p world.Player, s world.Shard) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, n := range r.order {
		if world.SameShard(n.Shard(), s) {
			n.AddViewer(p)
		}
	}
}

// OnPlayerLeftShard hides every NPC tracked in s from p.
func (r *Registry) OnPlayerLeftShard(p world.Player, s world.Shard) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, n := range r.order {
		if world.SameShard(n.Shard(), s) {
			n.RemoveViewer(p)
		}
	}
}

// Attach subscribes the registry to join and leave events. Only the first
// call subscribes; later calls return ErrAlreadyAttached.
func (r *Registry) Attach(src world.EventSource) error {
	if !r.attached.CompareAndSwap(false, true) {
		return ErrAlreadyAttached
	}
	src.OnPlayerJoin(r.OnPlayerJoinedShard)
	src.OnPlayerLeave(r.OnPlayerLeftShard)
	return nil
}

// Create builds an NPC tracked by this registry and spawns it.
func (r *Registry) Create(ctx context.Context, cfg npc.Config, scheduler npc.Scheduler) (*npc.NPC, error) {
	if r.IsRegistered(cfg.ID) {
		return nil, fmt.Errorf("%w: %s", ErrDuplicateID, cfg.ID)
	}

	n, err := npc.New(cfg, r, scheduler)
	if err != nil {
		return nil, err
	}
	if err := n.Spawn(ctx); err != nil {
		return nil, err
	}
	return n, nil
}

// List returns a snapshot of the tracked NPCs in registration order.
func (r *Registry) List() []*npc.NPC {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return slices.Clone(r.order)
}

// Get returns the tracked NPC with id.
func (r *Registry) Get(id uuid.UUID) (*npc.NPC, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	n, ok := r.byID[id]
	return n, ok
}

// IsRegistered reports whether an NPC with id is tracked.
func (r *Registry) IsRegistered(id uuid.UUID) bool {
	_, ok := r.Get(id)
	return ok
}

// Count returns the number of tracked NPCs.
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.order)
}

// RemoveAll removes every tracked NPC from the world. Used on shutdown.
func (r *Registry) RemoveAll() int {
	npcs := r.List()
	for _, n := range npcs {
		n.Remove()
	}
	return len(npcs)
}
