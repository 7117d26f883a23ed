package world

import (
	"sync"
	"sync/atomic"

	"github.com/google/uuid"
)

// cell holds the entities standing in one grid column.
// Snapshot cache: readers get an immutable slice rebuilt lazily after Add/Remove.
type cell struct {
	key cellKey

	mu       sync.Mutex
	entities map[uuid.UUID]Entity

	snapshot atomic.Pointer[[]Entity]
	dirty    atomic.Bool
}

func newCell(key cellKey) *cell {
	return &cell{
		key:      key,
		entities: make(map[uuid.UUID]Entity, 8),
	}
}

func (c *cell) add(e Entity) {
	c.mu.Lock()
	c.entities[e.ID()] = e
	c.dirty.Store(true)
	c.mu.Unlock()
}

// remove returns true if the cell became empty.
func (c *cell) remove(id uuid.UUID) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entities, id)
	c.dirty.Store(true)
	return len(c.entities) == 0
}

// snapshotEntities returns the cached snapshot. IMPORTANT: do not modify the slice.
func (c *cell) snapshotEntities() []Entity {
	if !c.dirty.Load() {
		if snap := c.snapshot.Load(); snap != nil {
			return *snap
		}
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	c.dirty.Store(false)
	objects := make([]Entity, 0, len(c.entities))
	for _, e := range c.entities {
		objects = append(objects, e)
	}
	c.snapshot.Store(&objects)
	return objects
}
