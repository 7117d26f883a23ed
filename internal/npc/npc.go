// Package npc implements the NPC entity: placement, presentation, viewers,
// look-at and navigation ticks, vitality with a respawn cycle and shard transfer.
package npc

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/google/uuid"

	"github.com/Auriosi/AuriNPC/internal/model"
	"github.com/Auriosi/AuriNPC/internal/world"
)

// Tracker is the visibility registry as seen by an NPC.
type Tracker interface {
	// Register tracks n and grants visibility to every player in n's shard.
	Register(n *NPC)
	// Deregister stops tracking n and revokes visibility. No-op if not tracked.
	Deregister(n *NPC)
}

// NPC is a server-side entity shown to players as a roster entry plus a body.
//
// Lock order: transferMu -> (tracker) -> display.mu -> viewers.mu.
// mu guards placement and vitality and is never held while calling out.
type NPC struct {
	id         uuid.UUID
	profile    Profile
	tracker    Tracker
	scheduler  Scheduler
	navigator  Navigator
	onInteract InteractFunc

	// serializes Spawn, SetShard and Remove
	transferMu sync.Mutex

	mu                sync.RWMutex
	shard             world.Shard
	location          model.Location
	customNameVisible bool
	lookAtPlayers     bool
	lookRange         int64
	lookRangeSquared  int64
	spawned           bool
	removed           bool
	vitality          *vitality // nil for ProfileStatic

	display *displayCache
	viewers *viewerSet
}

var _ world.Entity = (*NPC)(nil)

// New validates cfg and builds an NPC. The NPC is not placed in the world until Spawn.
// A nil scheduler falls back to a TimerScheduler.
func New(cfg Config, tracker Tracker, scheduler Scheduler) (*NPC, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid npc config: %w", err)
	}
	if tracker == nil {
		return nil, ErrMissingTracker
	}
	if scheduler == nil {
		scheduler = NewTimerScheduler()
	}

	name := cfg.CustomName
	if name == "" {
		name = DefaultCustomName
	}

	n := &NPC{
		id:                cfg.ID,
		profile:           cfg.Profile,
		tracker:           tracker,
		scheduler:         scheduler,
		navigator:         cfg.Navigator,
		onInteract:        cfg.OnInteract,
		shard:             cfg.Shard,
		location:          cfg.Location,
		customNameVisible: cfg.CustomNameVisible,
		lookAtPlayers:     cfg.LookAtPlayers,
		lookRange:         cfg.LookRange,
		lookRangeSquared:  cfg.LookRange * cfg.LookRange,
		display:           newDisplayCache(cfg.ID, name, cfg.Skin, cfg.Listed),
		viewers:           newViewerSet(),
	}

	if cfg.Profile.HasVitality() {
		n.vitality = &vitality{
			health:       min(cfg.Health, cfg.MaxHealth),
			maxHealth:    cfg.MaxHealth,
			invulnerable: cfg.Invulnerable,
			respawns:     cfg.Respawns,
			respawnDelay: cfg.RespawnDelay,
			pose:         model.PoseStanding,
		}
	}

	return n, nil
}

// ID returns the NPC identifier.
func (n *NPC) ID() uuid.UUID { return n.id }

// Profile returns the capability profile.
func (n *NPC) Profile() Profile { return n.profile }

// Position returns the current position.
func (n *NPC) Position() mgl64.Vec3 {
	n.mu.RLock()
	defer n.mu.RUnlock()
	return n.location.Position
}

// Location returns position and orientation.
func (n *NPC) Location() model.Location {
	n.mu.RLock()
	defer n.mu.RUnlock()
	return n.location
}

// Shard returns the shard the NPC is attached to.
func (n *NPC) Shard() world.Shard {
	n.mu.RLock()
	defer n.mu.RUnlock()
	return n.shard
}

// IsSpawned reports whether the NPC is currently placed in its shard.
func (n *NPC) IsSpawned() bool {
	n.mu.RLock()
	defer n.mu.RUnlock()
	return n.spawned && !n.removed
}

// IsRemoved reports whether the NPC left the world for good.
func (n *NPC) IsRemoved() bool {
	n.mu.RLock()
	defer n.mu.RUnlock()
	return n.removed
}

// Spawn places the NPC into its shard and registers it with the tracker.
// Spawning twice is a no-op.
func (n *NPC) Spawn(ctx context.Context) error {
	n.transferMu.Lock()
	defer n.transferMu.Unlock()

	n.mu.RLock()
	removed, spawned, shard := n.removed, n.spawned, n.shard
	n.mu.RUnlock()

	if removed {
		return ErrRemoved
	}
	if spawned {
		return nil
	}

	if err := shard.AddEntity(ctx, n); err != nil {
		return fmt.Errorf("spawn npc %s in shard %s: %w", n.id, shard.Name(), err)
	}

	n.mu.Lock()
	n.spawned = true
	n.mu.Unlock()

	n.tracker.Register(n)
	slog.Debug("npc spawned", "npc", n.id, "shard", shard.Name(), "profile", n.profile)
	return nil
}

// SetLocation teleports the NPC. Viewers receive an update.
func (n *NPC) SetLocation(loc model.Location) error {
	if !loc.IsFinite() {
		return ErrInvalidPosition
	}

	n.mu.Lock()
	if n.removed {
		n.mu.Unlock()
		return ErrRemoved
	}
	n.location = loc
	shard, spawned := n.shard, n.spawned
	n.mu.Unlock()

	if spawned {
		shard.MoveEntity(n.id, loc.Position)
	}
	n.broadcastUpdate()
	return nil
}

// SetShard moves the NPC to another shard. Visibility in the old shard is
// revoked before the NPC is placed in the new one, and granted in the new
// shard only after placement succeeded. If placement fails the NPC is
// re-registered where it was.
//
// Transferring into the current shard is a no-op. Before Spawn it only
// changes the target shard.
func (n *NPC) SetShard(ctx context.Context, shard world.Shard) error {
	if shard == nil {
		return ErrMissingShard
	}

	n.transferMu.Lock()
	defer n.transferMu.Unlock()

	n.mu.RLock()
	removed, spawned, old := n.removed, n.spawned, n.shard
	n.mu.RUnlock()

	if removed {
		return ErrRemoved
	}
	if world.SameShard(old, shard) {
		return nil
	}
	if !spawned {
		n.mu.Lock()
		n.shard = shard
		n.mu.Unlock()
		return nil
	}

	n.tracker.Deregister(n)

	if err := shard.AddEntity(ctx, n); err != nil {
		n.tracker.Register(n)
		return fmt.Errorf("transfer npc %s from %s to %s: %w", n.id, old.Name(), shard.Name(), err)
	}
	old.RemoveEntity(n.id)

	n.mu.Lock()
	n.shard = shard
	n.mu.Unlock()

	n.tracker.Register(n)
	slog.Debug("npc transferred", "npc", n.id, "from", old.Name(), "to", shard.Name())
	return nil
}

// SetShardAsync runs SetShard on its own goroutine. The returned channel
// receives the result once and is then closed.
func (n *NPC) SetShardAsync(ctx context.Context, shard world.Shard) <-chan error {
	done := make(chan error, 1)
	go func() {
		defer close(done)
		done <- n.SetShard(ctx, shard)
	}()
	return done
}

// Remove deregisters the NPC, takes it out of its shard and cancels a
// pending respawn. Idempotent.
func (n *NPC) Remove() {
	n.transferMu.Lock()
	defer n.transferMu.Unlock()

	n.mu.Lock()
	if n.removed {
		n.mu.Unlock()
		return
	}
	n.removed = true
	shard, spawned := n.shard, n.spawned
	n.mu.Unlock()

	if n.vitality != nil {
		n.scheduler.Cancel(n.id)
	}
	n.tracker.Deregister(n)
	if spawned {
		shard.RemoveEntity(n.id)
	}
	slog.Debug("npc removed", "npc", n.id)
}

// Tick runs one behavior step: look-at for static and living NPCs,
// navigation for navigational ones. Dead, removed or unspawned NPCs do nothing.
func (n *NPC) Tick(now time.Time) {
	n.mu.RLock()
	idle := n.removed || !n.spawned || (n.vitality != nil && n.vitality.dead)
	look := n.lookAtPlayers
	n.mu.RUnlock()

	if idle {
		return
	}

	switch {
	case n.profile == ProfileNavigational:
		n.navigate(now)
	case look && n.profile.LooksAtPlayers():
		n.lookAtNearest()
	}
}

func (n *NPC) navigate(now time.Time) {
	n.mu.RLock()
	loc, shard := n.location, n.shard
	n.mu.RUnlock()

	next, ok := n.navigator.Next(loc, now)
	if !ok || next == loc || !next.IsFinite() {
		return
	}

	n.mu.Lock()
	if n.removed || n.location != loc || !world.SameShard(n.shard, shard) {
		n.mu.Unlock()
		return
	}
	n.location = next
	n.mu.Unlock()

	if next.Position != loc.Position {
		shard.MoveEntity(n.id, next.Position)
	}
	n.broadcastUpdate()
}

// HandleInteract forwards ev to the interaction hook when it targets this NPC.
// Returns true if the hook ran.
func (n *NPC) HandleInteract(ev model.InteractEvent) bool {
	if ev.TargetID != n.id || n.onInteract == nil || n.IsRemoved() {
		return false
	}
	n.onInteract(n, ev)
	return true
}

// Snapshot returns the world-facing state sent to viewers.
func (n *NPC) Snapshot() model.EntitySnapshot {
	n.mu.RLock()
	snap := model.EntitySnapshot{
		ID:                n.id,
		Location:          n.location,
		CustomNameVisible: n.customNameVisible,
		Pose:              model.PoseStanding,
	}
	if n.vitality != nil {
		snap.Pose = n.vitality.pose
		snap.Health = n.vitality.health
	}
	n.mu.RUnlock()

	snap.CustomName = n.display.displayName()
	return snap
}

// --- Viewers ---

// AddViewer sends the current presentation to p and starts showing the NPC.
// Returns false if p already was a viewer or the sends failed. An existing
// viewer still gets the presentation re-sent.
func (n *NPC) AddViewer(p world.Player) bool {
	c := n.display
	c.mu.RLock()
	if err := p.SendPresentation(c.record.Clone()); err != nil {
		c.mu.RUnlock()
		slog.Debug("send presentation failed", "npc", n.id, "player", p.ID(), "error", err)
		return false
	}
	added := n.viewers.add(p)
	c.mu.RUnlock()

	if !added {
		return false
	}

	if err := p.SpawnEntity(n.Snapshot()); err != nil {
		n.viewers.remove(p.ID())
		slog.Debug("spawn npc for viewer failed", "npc", n.id, "player", p.ID(), "error", err)
		return false
	}
	return true
}

// RemoveViewer stops showing the NPC to p. Returns false if p was not a viewer.
func (n *NPC) RemoveViewer(p world.Player) bool {
	if !n.viewers.remove(p.ID()) {
		return false
	}
	if err := p.DestroyEntity(n.id); err != nil {
		slog.Debug("destroy npc for viewer failed", "npc", n.id, "player", p.ID(), "error", err)
	}
	return true
}

// Viewers returns a snapshot of the current viewers.
func (n *NPC) Viewers() []world.Player {
	return n.viewers.snapshot()
}

// HasViewer reports whether the player with id currently sees the NPC.
func (n *NPC) HasViewer(id uuid.UUID) bool {
	return n.viewers.has(id)
}

// ViewerCount returns the number of viewers.
func (n *NPC) ViewerCount() int {
	return n.viewers.len()
}

func (n *NPC) broadcastUpdate() {
	viewers := n.viewers.snapshot()
	if len(viewers) == 0 {
		return
	}
	snap := n.Snapshot()
	for _, p := range viewers {
		if err := p.UpdateEntity(snap); err != nil {
			slog.Debug("update npc for viewer failed", "npc", n.id, "player", p.ID(), "error", err)
		}
	}
}

// --- Display ---

// Presentation returns the current roster record.
func (n *NPC) Presentation() model.PresentationRecord {
	return n.display.current()
}

// RebuildPresentation regenerates the roster record and re-sends it to every viewer.
func (n *NPC) RebuildPresentation() {
	n.updateDisplay(func(*displayCache) {})
}

// updateDisplay applies mutate, rebuilds the record and sends it to every
// viewer while holding the display lock, so a viewer added concurrently
// never receives a stale record.
func (n *NPC) updateDisplay(mutate func(c *displayCache)) {
	c := n.display
	c.mu.Lock()
	defer c.mu.Unlock()

	mutate(c)
	c.rebuildLocked()

	for _, p := range n.viewers.snapshot() {
		if err := p.SendPresentation(c.record.Clone()); err != nil {
			slog.Debug("resend presentation failed", "npc", n.id, "player", p.ID(), "error", err)
		}
	}
}

// CustomName returns the display name.
func (n *NPC) CustomName() string {
	return n.display.displayName()
}

// SetCustomName changes the display name. Empty names fall back to the default.
func (n *NPC) SetCustomName(name string) {
	if name == "" {
		name = DefaultCustomName
	}
	n.updateDisplay(func(c *displayCache) { c.name = name })
	n.broadcastUpdate()
}

// Skin returns the current skin.
func (n *NPC) Skin() model.Skin {
	return n.display.currentSkin()
}

// SetSkin changes the skin. An empty skin shows the default one.
func (n *NPC) SetSkin(skin model.Skin) {
	n.updateDisplay(func(c *displayCache) { c.skin = skin })
}

// SetSkinRaw changes the skin from its texture payload and signature.
func (n *NPC) SetSkinRaw(textures, signature string) {
	n.SetSkin(model.NewSkin(textures, signature))
}

// Listed reports whether the NPC shows up in the roster UI.
func (n *NPC) Listed() bool {
	return n.display.isListed()
}

// SetListed toggles roster visibility.
func (n *NPC) SetListed(listed bool) {
	n.updateDisplay(func(c *displayCache) { c.listed = listed })
}

// CustomNameVisible reports whether the name tag is rendered above the body.
func (n *NPC) CustomNameVisible() bool {
	n.mu.RLock()
	defer n.mu.RUnlock()
	return n.customNameVisible
}

// SetCustomNameVisible toggles the name tag.
func (n *NPC) SetCustomNameVisible(visible bool) {
	n.mu.Lock()
	n.customNameVisible = visible
	n.mu.Unlock()
	n.broadcastUpdate()
}

// --- Look-at ---

// LooksAtPlayers reports whether look-at is enabled.
func (n *NPC) LooksAtPlayers() bool {
	n.mu.RLock()
	defer n.mu.RUnlock()
	return n.lookAtPlayers
}

// SetLookAtPlayers toggles look-at. Ignored by navigational NPCs on tick.
func (n *NPC) SetLookAtPlayers(enabled bool) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.lookAtPlayers = enabled
}

// LookRange returns the look-at range.
func (n *NPC) LookRange() int64 {
	n.mu.RLock()
	defer n.mu.RUnlock()
	return n.lookRange
}

// LookRangeSquared returns the squared look-at range used by the spatial query.
func (n *NPC) LookRangeSquared() int64 {
	n.mu.RLock()
	defer n.mu.RUnlock()
	return n.lookRangeSquared
}

// SetLookRange changes the look-at range.
func (n *NPC) SetLookRange(r int64) error {
	if err := checkLookRange(r); err != nil {
		return err
	}
	n.mu.Lock()
	defer n.mu.Unlock()
	n.lookRange = r
	n.lookRangeSquared = r * r
	return nil
}
