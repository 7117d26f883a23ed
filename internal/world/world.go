// Package world defines the host-side collaborators the NPC core talks to
// (players, shards, world events) and ships an in-memory host used by the
// reference server and tests.
package world

import (
	"context"
	"iter"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/google/uuid"

	"github.com/Auriosi/AuriNPC/internal/model"
)

// Entity is anything placed in a shard.
type Entity interface {
	ID() uuid.UUID
	Position() mgl64.Vec3
}

// Player is a connected client. Every send may fail with ErrDisconnected
// once the connection is gone.
type Player interface {
	Entity
	Name() string

	// SendPresentation delivers a roster record.
	SendPresentation(rec model.PresentationRecord) error
	// SpawnEntity starts showing an entity to the player.
	SpawnEntity(snap model.EntitySnapshot) error
	// UpdateEntity refreshes an entity the player already sees.
	UpdateEntity(snap model.EntitySnapshot) error
	// DestroyEntity stops showing an entity to the player.
	DestroyEntity(id uuid.UUID) error
}

// Shard is a host-managed partition of the world with its own players and entities.
type Shard interface {
	ID() uuid.UUID
	Name() string

	// Players returns a snapshot of the players currently in the shard.
	Players() []Player

	// NearbyEntities yields every entity within radiusSquared (squared
	// Euclidean distance) of pos. Order is unspecified.
	NearbyEntities(pos mgl64.Vec3, radiusSquared float64) iter.Seq[Entity]

	// AddEntity places e into the shard.
	AddEntity(ctx context.Context, e Entity) error
	// RemoveEntity takes an entity out of the shard. Unknown ids are ignored.
	RemoveEntity(id uuid.UUID)
	// MoveEntity updates the spatial index after e moved.
	MoveEntity(id uuid.UUID, pos mgl64.Vec3)
}

// JoinListener is notified after a player became present in a shard.
type JoinListener func(p Player, s Shard)

// LeaveListener is notified after a player left a shard.
type LeaveListener func(p Player, s Shard)

// InteractListener receives every entity interaction in the process.
type InteractListener func(ev model.InteractEvent)

// EventSource delivers world events. Listeners may be invoked from any goroutine.
type EventSource interface {
	OnPlayerJoin(l JoinListener)
	OnPlayerLeave(l LeaveListener)
	OnInteract(l InteractListener)
}

// SameShard reports whether a and b refer to the same shard. nil never matches.
func SameShard(a, b Shard) bool {
	if a == nil || b == nil {
		return false
	}
	return a.ID() == b.ID()
}
