package npc

import (
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/Auriosi/AuriNPC/internal/model"
)

// State is the lifecycle state of an NPC.
type State int32

const (
	StateAlive   State = iota // in the world, alive
	StateDead                 // dead, waiting for a scheduled respawn
	StateRemoved              // left the world (terminal)
)

// String returns a human-readable state name.
func (s State) String() string {
	switch s {
	case StateAlive:
		return "ALIVE"
	case StateDead:
		return "DEAD"
	case StateRemoved:
		return "REMOVED"
	default:
		return "UNKNOWN"
	}
}

// Scheduler runs deferred one-shot actions keyed by NPC id.
// Implementations must not block a goroutine for the length of the delay.
type Scheduler interface {
	Schedule(id uuid.UUID, delay time.Duration, fn func())
	Cancel(id uuid.UUID)
}

// TimerScheduler is a Scheduler backed by time.AfterFunc.
type TimerScheduler struct {
	mu     sync.Mutex
	timers map[uuid.UUID]*time.Timer
}

// NewTimerScheduler creates an empty TimerScheduler.
func NewTimerScheduler() *TimerScheduler {
	return &TimerScheduler{timers: make(map[uuid.UUID]*time.Timer)}
}

// Schedule runs fn once after delay. A pending action for the same id is replaced.
func (s *TimerScheduler) Schedule(id uuid.UUID, delay time.Duration, fn func()) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if t, ok := s.timers[id]; ok {
		t.Stop()
	}
	var t *time.Timer
	t = time.AfterFunc(delay, func() {
		s.mu.Lock()
		if s.timers[id] == t {
			delete(s.timers, id)
		}
		s.mu.Unlock()
		fn()
	})
	s.timers[id] = t
}

// Cancel drops a pending action. No-op if none is pending.
func (s *TimerScheduler) Cancel(id uuid.UUID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if t, ok := s.timers[id]; ok {
		t.Stop()
		delete(s.timers, id)
	}
}

// Pending returns the number of scheduled actions.
func (s *TimerScheduler) Pending() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.timers)
}

// vitality is the health block of living and navigational NPCs.
// Guarded by NPC.mu.
type vitality struct {
	health       float32
	maxHealth    float32
	invulnerable bool
	respawns     bool
	respawnDelay time.Duration
	dead         bool
	pose         model.Pose
}

// Kill kills the NPC. Static NPCs cannot die and dead or removed NPCs
// cannot die again; both return false.
//
// With respawns enabled the revival is scheduled after the respawn delay,
// otherwise the NPC is removed from the world immediately.
func (n *NPC) Kill() bool {
	if n.vitality == nil {
		return false
	}

	n.mu.Lock()
	if n.removed || n.vitality.dead {
		n.mu.Unlock()
		return false
	}
	v := n.vitality
	v.dead = true
	v.health = 0
	v.pose = model.PoseDying
	respawns, delay := v.respawns, v.respawnDelay
	n.mu.Unlock()

	slog.Debug("npc died", "npc", n.id, "respawns", respawns, "delay", delay)
	n.broadcastUpdate()

	if respawns {
		n.scheduler.Schedule(n.id, delay, n.revive)
	} else {
		n.Remove()
	}
	return true
}

// revive is the deferred respawn action. It is a no-op when the NPC was
// removed or revived in the meantime.
func (n *NPC) revive() {
	n.mu.Lock()
	if n.removed || !n.vitality.dead {
		n.mu.Unlock()
		slog.Debug("respawn skipped", "npc", n.id)
		return
	}
	v := n.vitality
	v.dead = false
	v.pose = model.PoseStanding
	v.health = v.maxHealth
	health := v.health
	n.mu.Unlock()

	slog.Debug("npc respawned", "npc", n.id, "health", health)
	n.broadcastUpdate()
}

// Damage subtracts amount from health and kills the NPC when health drops to zero.
// Returns false if the damage was ignored (no vitality, invulnerable, dead or removed).
func (n *NPC) Damage(amount float32) bool {
	if n.vitality == nil || amount <= 0 {
		return false
	}

	n.mu.Lock()
	v := n.vitality
	if n.removed || v.dead || v.invulnerable {
		n.mu.Unlock()
		return false
	}
	v.health -= amount
	lethal := v.health <= 0
	if lethal {
		v.health = 0
	}
	n.mu.Unlock()

	if lethal {
		n.Kill()
		return true
	}
	n.broadcastUpdate()
	return true
}

// Health returns current health (0 for static NPCs).
func (n *NPC) Health() float32 {
	if n.vitality == nil {
		return 0
	}
	n.mu.RLock()
	defer n.mu.RUnlock()
	return n.vitality.health
}

// SetHealth sets health clamped to [0, max]. Setting zero kills the NPC.
func (n *NPC) SetHealth(health float32) {
	if n.vitality == nil {
		return
	}

	n.mu.Lock()
	v := n.vitality
	if n.removed || v.dead {
		n.mu.Unlock()
		return
	}
	v.health = min(max(health, 0), v.maxHealth)
	lethal := v.health == 0
	n.mu.Unlock()

	if lethal {
		n.Kill()
		return
	}
	n.broadcastUpdate()
}

// MaxHealth returns max health (0 for static NPCs).
func (n *NPC) MaxHealth() float32 {
	if n.vitality == nil {
		return 0
	}
	n.mu.RLock()
	defer n.mu.RUnlock()
	return n.vitality.maxHealth
}

// SetMaxHealth changes max health. Current health is clamped to the new max.
func (n *NPC) SetMaxHealth(maxHealth float32) {
	if n.vitality == nil || maxHealth <= 0 {
		return
	}
	n.mu.Lock()
	defer n.mu.Unlock()
	n.vitality.maxHealth = maxHealth
	n.vitality.health = min(n.vitality.health, maxHealth)
}

// Invulnerable reports whether damage is ignored.
func (n *NPC) Invulnerable() bool {
	if n.vitality == nil {
		return false
	}
	n.mu.RLock()
	defer n.mu.RUnlock()
	return n.vitality.invulnerable
}

// SetInvulnerable toggles damage immunity.
func (n *NPC) SetInvulnerable(invulnerable bool) {
	if n.vitality == nil {
		return
	}
	n.mu.Lock()
	defer n.mu.Unlock()
	n.vitality.invulnerable = invulnerable
}

// Respawns reports whether the NPC comes back after death.
func (n *NPC) Respawns() bool {
	if n.vitality == nil {
		return false
	}
	n.mu.RLock()
	defer n.mu.RUnlock()
	return n.vitality.respawns
}

// SetRespawns toggles the respawn cycle. Takes effect on the next death.
func (n *NPC) SetRespawns(respawns bool) {
	if n.vitality == nil {
		return
	}
	n.mu.Lock()
	defer n.mu.Unlock()
	n.vitality.respawns = respawns
}

// RespawnDelay returns the delay between death and revival.
func (n *NPC) RespawnDelay() time.Duration {
	if n.vitality == nil {
		return 0
	}
	n.mu.RLock()
	defer n.mu.RUnlock()
	return n.vitality.respawnDelay
}

// SetRespawnDelay changes the respawn delay. Negative values are ignored.
func (n *NPC) SetRespawnDelay(delay time.Duration) {
	if n.vitality == nil || delay < 0 {
		return
	}
	n.mu.Lock()
	defer n.mu.Unlock()
	n.vitality.respawnDelay = delay
}

// IsDead reports whether the NPC is dead and waiting to respawn.
func (n *NPC) IsDead() bool {
	if n.vitality == nil {
		return false
	}
	n.mu.RLock()
	defer n.mu.RUnlock()
	return n.vitality.dead
}

// Pose returns the current body pose.
func (n *NPC) Pose() model.Pose {
	if n.vitality == nil {
		return model.PoseStanding
	}
	n.mu.RLock()
	defer n.mu.RUnlock()
	return n.vitality.pose
}

// State returns the lifecycle state.
func (n *NPC) State() State {
	n.mu.RLock()
	defer n.mu.RUnlock()
	switch {
	case n.removed:
		return StateRemoved
	case n.vitality != nil && n.vitality.dead:
		return StateDead
	default:
		return StateAlive
	}
}
