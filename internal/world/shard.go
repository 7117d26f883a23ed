package world

import (
	"context"
	"fmt"
	"iter"
	"log/slog"
	"sync"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/google/uuid"
)

// MemoryShard is an in-memory Shard backed by a cell grid.
// Thread-safe for concurrent access.
type MemoryShard struct {
	id   uuid.UUID
	name string

	mu       sync.RWMutex
	players  map[uuid.UUID]Player
	entities map[uuid.UUID]*placed // players included
	cells    map[cellKey]*cell
	closed   bool
}

// placed tracks which cell an entity was indexed under.
type placed struct {
	entity Entity
	cell   cellKey
}

var _ Shard = (*MemoryShard)(nil)

// NewMemoryShard creates an empty shard.
func NewMemoryShard(id uuid.UUID, name string) *MemoryShard {
	return &MemoryShard{
		id:       id,
		name:     name,
		players:  make(map[uuid.UUID]Player, 16),
		entities: make(map[uuid.UUID]*placed, 64),
		cells:    make(map[cellKey]*cell, 64),
	}
}

// ID returns the shard identifier.
func (s *MemoryShard) ID() uuid.UUID { return s.id }

// Name returns the shard name.
func (s *MemoryShard) Name() string { return s.name }

// Players returns a copy of the players currently in the shard.
func (s *MemoryShard) Players() []Player {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]Player, 0, len(s.players))
	for _, p := range s.players {
		out = append(out, p)
	}
	return out
}

// PlayerCount returns the number of players in the shard.
func (s *MemoryShard) PlayerCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.players)
}

// HasPlayer returns true if the player is in this shard.
func (s *MemoryShard) HasPlayer(id uuid.UUID) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.players[id]
	return ok
}

// HasEntity returns true if an entity (player or not) with id is placed here.
func (s *MemoryShard) HasEntity(id uuid.UUID) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.entities[id]
	return ok
}

// EntityCount returns the number of placed entities, players included.
func (s *MemoryShard) EntityCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entities)
}

// NearbyEntities yields entities within radiusSquared of pos.
// Cell snapshots are collected under the read lock and iterated without it,
// so the consumer may call back into the shard.
func (s *MemoryShard) NearbyEntities(pos mgl64.Vec3, radiusSquared float64) iter.Seq[Entity] {
	return func(yield func(Entity) bool) {
		if radiusSquared < 0 {
			return
		}
		minKey, maxKey := cellRange(pos, radiusSquared)

		s.mu.RLock()
		snapshots := make([][]Entity, 0, 9)
		for x := minKey.x; x <= maxKey.x; x++ {
			for z := minKey.z; z <= maxKey.z; z++ {
				if c, ok := s.cells[cellKey{x: x, z: z}]; ok {
					snapshots = append(snapshots, c.snapshotEntities())
				}
			}
		}
		s.mu.RUnlock()

		for _, snap := range snapshots {
			for _, e := range snap {
				d := e.Position().Sub(pos)
				if d.Dot(d) > radiusSquared {
					continue
				}
				if !yield(e) {
					return
				}
			}
		}
	}
}

// AddEntity places e into the shard.
func (s *MemoryShard) AddEntity(ctx context.Context, e Entity) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("adding entity %s to shard %s: %w", e.ID(), s.name, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return fmt.Errorf("adding entity %s to shard %s: %w", e.ID(), s.name, ErrShardClosed)
	}
	if _, exists := s.entities[e.ID()]; exists {
		return fmt.Errorf("adding entity %s to shard %s: %w", e.ID(), s.name, ErrEntityExists)
	}
	s.indexLocked(e)
	return nil
}

// RemoveEntity removes an entity from the shard.
func (s *MemoryShard) RemoveEntity(id uuid.UUID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.unindexLocked(id)
}

// MoveEntity re-indexes an entity after it moved. Unknown ids are ignored.
func (s *MemoryShard) MoveEntity(id uuid.UUID, pos mgl64.Vec3) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.entities[id]
	if !ok {
		return
	}
	key := cellOf(pos)
	if key == p.cell {
		return
	}
	s.dropFromCellLocked(p.cell, id)
	p.cell = key
	s.cellLocked(key).add(p.entity)
}

// Close rejects further entity placement. Existing entities stay.
func (s *MemoryShard) Close() {
	s.mu.Lock()
	s.closed = true
	s.mu.Unlock()
	slog.Debug("shard closed", "shard", s.name)
}

// addPlayer registers a player as present. Returns false if already present.
func (s *MemoryShard) addPlayer(p Player) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.players[p.ID()]; ok {
		return false
	}
	s.players[p.ID()] = p
	s.indexLocked(p)
	return true
}

// removePlayer returns false if the player was not present.
func (s *MemoryShard) removePlayer(id uuid.UUID) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.players[id]; !ok {
		return false
	}
	delete(s.players, id)
	s.unindexLocked(id)
	return true
}

func (s *MemoryShard) indexLocked(e Entity) {
	key := cellOf(e.Position())
	s.entities[e.ID()] = &placed{entity: e, cell: key}
	s.cellLocked(key).add(e)
}

func (s *MemoryShard) unindexLocked(id uuid.UUID) {
	p, ok := s.entities[id]
	if !ok {
		return
	}
	delete(s.entities, id)
	s.dropFromCellLocked(p.cell, id)
}

func (s *MemoryShard) cellLocked(key cellKey) *cell {
	c, ok := s.cells[key]
	if !ok {
		c = newCell(key)
		s.cells[key] = c
	}
	return c
}

func (s *MemoryShard) dropFromCellLocked(key cellKey, id uuid.UUID) {
	c, ok := s.cells[key]
	if !ok {
		return
	}
	if c.remove(id) {
		delete(s.cells, key)
	}
}
