package ai

import (
	"time"

	"github.com/google/uuid"

	"github.com/Auriosi/AuriNPC/internal/npc"
)

// Controller is anything driven by the tick loop.
type Controller interface {
	ID() uuid.UUID
	// Tick performs one behavior step (look-at, navigation).
	Tick(now time.Time)
}

var _ Controller = (*npc.NPC)(nil)

// Source supplies the NPCs to tick. Implemented by *registry.Registry.
type Source interface {
	List() []*npc.NPC
}

// SourceFunc adapts a plain function to Source.
type SourceFunc func() []*npc.NPC

// List calls f.
func (f SourceFunc) List() []*npc.NPC { return f() }
