package npc

import (
	"sync"

	"github.com/google/uuid"

	"github.com/Auriosi/AuriNPC/internal/model"
)

// BuildPresentation builds the roster record for an NPC. Empty skin fields
// are sent as-is; clients render the default skin.
func BuildPresentation(id uuid.UUID, name string, skin model.Skin, listed bool) model.PresentationRecord {
	return model.PresentationRecord{
		Action: model.ActionAddPlayer,
		Entry: model.PresentationEntry{
			ID:       id,
			Username: name,
			Properties: []model.Property{
				{Name: model.TexturesProperty, Value: skin.Textures, Signature: skin.Signature},
			},
			Listed:      listed,
			Latency:     0,
			GameMode:    model.GameModeCreative,
			DisplayName: name,
		},
	}
}

// displayCache owns the four presentation inputs and the record derived from them.
// Every mutation rebuilds the record while holding the write lock.
type displayCache struct {
	mu     sync.RWMutex
	id     uuid.UUID
	name   string
	skin   model.Skin
	listed bool
	record model.PresentationRecord
}

func newDisplayCache(id uuid.UUID, name string, skin model.Skin, listed bool) *displayCache {
	c := &displayCache{id: id, name: name, skin: skin, listed: listed}
	c.rebuildLocked()
	return c
}

func (c *displayCache) rebuildLocked() {
	c.record = BuildPresentation(c.id, c.name, c.skin, c.listed)
}

func (c *displayCache) current() model.PresentationRecord {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.record.Clone()
}

func (c *displayCache) displayName() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.name
}

func (c *displayCache) currentSkin() model.Skin {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.skin
}

func (c *displayCache) isListed() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.listed
}
