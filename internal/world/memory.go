package world

import (
	"fmt"
	"log/slog"
	"sync"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/google/uuid"

	"github.com/Auriosi/AuriNPC/internal/model"
)

// MemoryWorld is an in-memory host: a set of shards, the players in them and
// the listeners interested in world events. Events are delivered synchronously
// on the goroutine that caused them.
type MemoryWorld struct {
	mu       sync.RWMutex
	shards   map[uuid.UUID]*MemoryShard
	byName   map[string]*MemoryShard
	byPlayer map[uuid.UUID]*MemoryShard // playerID → current shard

	listenersMu sync.RWMutex
	onJoin      []JoinListener
	onLeave     []LeaveListener
	onInteract  []InteractListener
}

var _ EventSource = (*MemoryWorld)(nil)

// NewMemoryWorld creates an empty world.
func NewMemoryWorld() *MemoryWorld {
	return &MemoryWorld{
		shards:   make(map[uuid.UUID]*MemoryShard, 4),
		byName:   make(map[string]*MemoryShard, 4),
		byPlayer: make(map[uuid.UUID]*MemoryShard, 64),
	}
}

// CreateShard creates and registers a new shard. Returns the existing shard if
// the name is already taken.
func (w *MemoryWorld) CreateShard(name string) *MemoryShard {
	w.mu.Lock()
	defer w.mu.Unlock()

	if s, ok := w.byName[name]; ok {
		return s
	}
	s := NewMemoryShard(uuid.New(), name)
	w.shards[s.ID()] = s
	w.byName[name] = s

	slog.Debug("shard created", "shard", name, "id", s.ID())
	return s
}

// Shard returns a shard by ID.
func (w *MemoryWorld) Shard(id uuid.UUID) (*MemoryShard, bool) {
	w.mu.RLock()
	defer w.mu.RUnlock()
	s, ok := w.shards[id]
	return s, ok
}

// ShardByName returns a shard by name.
func (w *MemoryWorld) ShardByName(name string) (*MemoryShard, error) {
	w.mu.RLock()
	defer w.mu.RUnlock()
	s, ok := w.byName[name]
	if !ok {
		return nil, fmt.Errorf("shard %q: %w", name, ErrShardNotFound)
	}
	return s, nil
}

// ShardCount returns the number of shards.
func (w *MemoryWorld) ShardCount() int {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return len(w.shards)
}

// PlayerShard returns the shard the player is currently in.
func (w *MemoryWorld) PlayerShard(playerID uuid.UUID) (*MemoryShard, bool) {
	w.mu.RLock()
	defer w.mu.RUnlock()
	s, ok := w.byPlayer[playerID]
	return s, ok
}

// OnPlayerJoin registers a join listener.
func (w *MemoryWorld) OnPlayerJoin(l JoinListener) {
	w.listenersMu.Lock()
	w.onJoin = append(w.onJoin, l)
	w.listenersMu.Unlock()
}

// OnPlayerLeave registers a leave listener.
func (w *MemoryWorld) OnPlayerLeave(l LeaveListener) {
	w.listenersMu.Lock()
	w.onLeave = append(w.onLeave, l)
	w.listenersMu.Unlock()
}

// OnInteract registers an interaction listener.
func (w *MemoryWorld) OnInteract(l InteractListener) {
	w.listenersMu.Lock()
	w.onInteract = append(w.onInteract, l)
	w.listenersMu.Unlock()
}

// Join places a player into a shard, leaving the previous one first, and
// fires join listeners once the player is present.
func (w *MemoryWorld) Join(p Player, s *MemoryShard) error {
	if s == nil {
		return ErrNilShard
	}
	if cur, ok := w.PlayerShard(p.ID()); ok {
		if cur.ID() == s.ID() {
			return nil
		}
		w.Leave(p)
	}

	w.mu.Lock()
	w.byPlayer[p.ID()] = s
	w.mu.Unlock()
	s.addPlayer(p)

	slog.Debug("player joined shard", "player", p.Name(), "shard", s.Name())

	w.listenersMu.RLock()
	listeners := append([]JoinListener(nil), w.onJoin...)
	w.listenersMu.RUnlock()
	for _, l := range listeners {
		l(p, s)
	}
	return nil
}

// Transfer moves a player to another shard (leave then join).
func (w *MemoryWorld) Transfer(p Player, s *MemoryShard) error {
	return w.Join(p, s)
}

// Leave removes a player from its shard and fires leave listeners.
// No-op if the player is not in any shard.
func (w *MemoryWorld) Leave(p Player) {
	w.mu.Lock()
	s, ok := w.byPlayer[p.ID()]
	delete(w.byPlayer, p.ID())
	w.mu.Unlock()
	if !ok {
		return
	}
	s.removePlayer(p.ID())

	slog.Debug("player left shard", "player", p.Name(), "shard", s.Name())

	w.listenersMu.RLock()
	listeners := append([]LeaveListener(nil), w.onLeave...)
	w.listenersMu.RUnlock()
	for _, l := range listeners {
		l(p, s)
	}
}

// MovePlayer moves a player and keeps its shard's spatial index in sync.
func (w *MemoryWorld) MovePlayer(p *MemoryPlayer, pos mgl64.Vec3) {
	p.SetPosition(pos)
	if s, ok := w.PlayerShard(p.ID()); ok {
		s.MoveEntity(p.ID(), pos)
	}
}

// Interact delivers an interaction event to every listener.
func (w *MemoryWorld) Interact(ev model.InteractEvent) {
	w.listenersMu.RLock()
	listeners := append([]InteractListener(nil), w.onInteract...)
	w.listenersMu.RUnlock()
	for _, l := range listeners {
		l(ev)
	}
}
