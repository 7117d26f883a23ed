package world

import (
	"sync"
	"sync/atomic"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/google/uuid"

	"github.com/Auriosi/AuriNPC/internal/model"
)

// MemoryPlayer is an in-memory Player that records everything it is sent.
// Used by the reference server and tests in place of a network connection.
type MemoryPlayer struct {
	id   uuid.UUID
	name string

	disconnected atomic.Bool

	mu            sync.RWMutex
	position      mgl64.Vec3
	presentations []model.PresentationRecord
	visible       map[uuid.UUID]model.EntitySnapshot // entities currently shown
	spawns        int
	updates       int
	destroys      int
}

var _ Player = (*MemoryPlayer)(nil)

// NewMemoryPlayer creates a connected player at pos.
func NewMemoryPlayer(id uuid.UUID, name string, pos mgl64.Vec3) *MemoryPlayer {
	return &MemoryPlayer{
		id:       id,
		name:     name,
		position: pos,
		visible:  make(map[uuid.UUID]model.EntitySnapshot, 16),
	}
}

// ID returns the player identifier.
func (p *MemoryPlayer) ID() uuid.UUID { return p.id }

// Name returns the player name.
func (p *MemoryPlayer) Name() string { return p.name }

// Position returns the current position.
func (p *MemoryPlayer) Position() mgl64.Vec3 {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.position
}

// SetPosition moves the player. Use MemoryWorld.MovePlayer to keep the shard index in sync.
func (p *MemoryPlayer) SetPosition(pos mgl64.Vec3) {
	p.mu.Lock()
	p.position = pos
	p.mu.Unlock()
}

// Disconnect makes every further send fail with ErrDisconnected.
func (p *MemoryPlayer) Disconnect() {
	p.disconnected.Store(true)
}

// Connected reports whether sends still succeed.
func (p *MemoryPlayer) Connected() bool {
	return !p.disconnected.Load()
}

// SendPresentation records a roster record.
func (p *MemoryPlayer) SendPresentation(rec model.PresentationRecord) error {
	if p.disconnected.Load() {
		return ErrDisconnected
	}
	p.mu.Lock()
	p.presentations = append(p.presentations, rec)
	p.mu.Unlock()
	return nil
}

// SpawnEntity records that the entity is now shown.
func (p *MemoryPlayer) SpawnEntity(snap model.EntitySnapshot) error {
	if p.disconnected.Load() {
		return ErrDisconnected
	}
	p.mu.Lock()
	p.visible[snap.ID] = snap
	p.spawns++
	p.mu.Unlock()
	return nil
}

// UpdateEntity records a refresh of a shown entity. Updates for entities
// the player does not see are counted but not stored.
func (p *MemoryPlayer) UpdateEntity(snap model.EntitySnapshot) error {
	if p.disconnected.Load() {
		return ErrDisconnected
	}
	p.mu.Lock()
	if _, ok := p.visible[snap.ID]; ok {
		p.visible[snap.ID] = snap
	}
	p.updates++
	p.mu.Unlock()
	return nil
}

// DestroyEntity records that the entity is no longer shown.
func (p *MemoryPlayer) DestroyEntity(id uuid.UUID) error {
	if p.disconnected.Load() {
		return ErrDisconnected
	}
	p.mu.Lock()
	delete(p.visible, id)
	p.destroys++
	p.mu.Unlock()
	return nil
}

// Sees returns true if the entity is currently shown to the player.
func (p *MemoryPlayer) Sees(id uuid.UUID) bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	_, ok := p.visible[id]
	return ok
}

// Visible returns the last snapshot received for a shown entity.
func (p *MemoryPlayer) Visible(id uuid.UUID) (model.EntitySnapshot, bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	snap, ok := p.visible[id]
	return snap, ok
}

// Presentations returns a copy of every roster record received, oldest first.
func (p *MemoryPlayer) Presentations() []model.PresentationRecord {
	p.mu.RLock()
	defer p.mu.RUnlock()
	out := make([]model.PresentationRecord, len(p.presentations))
	copy(out, p.presentations)
	return out
}

// LastPresentation returns the newest roster record received for an entity.
func (p *MemoryPlayer) LastPresentation(id uuid.UUID) (model.PresentationRecord, bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	for i := len(p.presentations) - 1; i >= 0; i-- {
		if p.presentations[i].Entry.ID == id {
			return p.presentations[i], true
		}
	}
	return model.PresentationRecord{}, false
}

// Counts returns how many spawn, update and destroy messages were received.
func (p *MemoryPlayer) Counts() (spawns, updates, destroys int) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.spawns, p.updates, p.destroys
}
