package npc

import (
	"sync"

	"github.com/google/uuid"

	"github.com/Auriosi/AuriNPC/internal/world"
)

// viewerSet is the set of players an NPC is currently shown to.
type viewerSet struct {
	mu      sync.RWMutex
	players map[uuid.UUID]world.Player
}

func newViewerSet() *viewerSet {
	return &viewerSet{players: make(map[uuid.UUID]world.Player, 8)}
}

// add returns false if the player was already a viewer.
func (v *viewerSet) add(p world.Player) bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	if _, ok := v.players[p.ID()]; ok {
		return false
	}
	v.players[p.ID()] = p
	return true
}

// remove returns false if the player was not a viewer.
func (v *viewerSet) remove(id uuid.UUID) bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	if _, ok := v.players[id]; !ok {
		return false
	}
	delete(v.players, id)
	return true
}

func (v *viewerSet) has(id uuid.UUID) bool {
	v.mu.RLock()
	defer v.mu.RUnlock()
	_, ok := v.players[id]
	return ok
}

func (v *viewerSet) len() int {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return len(v.players)
}

func (v *viewerSet) snapshot() []world.Player {
	v.mu.RLock()
	defer v.mu.RUnlock()
	out := make([]world.Player, 0, len(v.players))
	for _, p := range v.players {
		out = append(out, p)
	}
	return out
}
