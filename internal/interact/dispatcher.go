// Package interact routes world interaction events to the targeted NPC.
package interact

import (
	"errors"
	"log/slog"
	"sync/atomic"

	"github.com/google/uuid"

	"github.com/Auriosi/AuriNPC/internal/model"
	"github.com/Auriosi/AuriNPC/internal/npc"
	"github.com/Auriosi/AuriNPC/internal/world"
)

// ErrAlreadyAttached is returned when Attach is called a second time.
var ErrAlreadyAttached = errors.New("interact: already attached to an event source")

// Resolver finds a live NPC by id. Implemented by *registry.Registry.
type Resolver interface {
	Get(id uuid.UUID) (*npc.NPC, bool)
}

// Dispatcher is the single process-wide interaction listener.
type Dispatcher struct {
	npcs     Resolver
	attached atomic.Bool

	handled atomic.Uint64
	ignored atomic.Uint64
}

// NewDispatcher creates a dispatcher resolving targets through npcs.
func NewDispatcher(npcs Resolver) *Dispatcher {
	return &Dispatcher{npcs: npcs}
}

// Attach registers the dispatcher as an interaction listener on src. Only
// the first call subscribes.
func (d *Dispatcher) Attach(src world.EventSource) error {
	if !d.attached.CompareAndSwap(false, true) {
		return ErrAlreadyAttached
	}
	src.OnInteract(d.Dispatch)
	return nil
}

// Dispatch forwards ev to its target NPC. Unknown targets are ignored.
// The hook runs outside any registry lock so it may freely mutate the NPC.
func (d *Dispatcher) Dispatch(ev model.InteractEvent) {
	n, ok := d.npcs.Get(ev.TargetID)
	if !ok || !n.HandleInteract(ev) {
		d.ignored.Add(1)
		return
	}
	d.handled.Add(1)
	slog.Debug("interaction dispatched",
		"npc", n.ID(),
		"player", ev.PlayerID,
		"action", ev.Action,
		"hand", ev.Hand)
}

// Stats returns how many events reached a hook and how many were dropped.
func (d *Dispatcher) Stats() (handled, ignored uint64) {
	return d.handled.Load(), d.ignored.Load()
}
