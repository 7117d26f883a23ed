package spawn

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/google/uuid"

	"github.com/Auriosi/AuriNPC/internal/model"
	"github.com/Auriosi/AuriNPC/internal/npc"
	"github.com/Auriosi/AuriNPC/internal/world"
)

// presetNamespace seeds stable NPC ids for presets without an explicit id.
var presetNamespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("aurinpc:preset"))

// PresetRepository loads declared NPC presets.
type PresetRepository interface {
	LoadAll(ctx context.Context) ([]*model.Preset, error)
}

// SkinResolver resolves a named skin. Implemented by *skin.Catalog.
type SkinResolver interface {
	Get(ctx context.Context, name string) (model.Skin, error)
}

// InteractBinder turns a script function name into an interaction hook.
// Implemented by *scripting.Engine.
type InteractBinder interface {
	Handler(fn string) (npc.InteractFunc, error)
}

// Creator builds and spawns tracked NPCs. Implemented by *registry.Registry.
type Creator interface {
	Create(ctx context.Context, cfg npc.Config, scheduler npc.Scheduler) (*npc.NPC, error)
}

// ShardLookup finds a shard by name.
type ShardLookup func(name string) (world.Shard, error)

// Manager spawns NPCs from presets.
type Manager struct {
	repo      PresetRepository
	creator   Creator
	shards    ShardLookup
	scheduler npc.Scheduler
	skins     SkinResolver   // optional
	scripts   InteractBinder // optional

	defaultShard string

	mu      sync.RWMutex
	presets map[string]*model.Preset
	spawned map[string]*npc.NPC // preset name -> live npc
}

// NewManager creates a preset spawn manager. skins and scripts may be nil.
func NewManager(
	repo PresetRepository,
	creator Creator,
	shards ShardLookup,
	scheduler npc.Scheduler,
	skins SkinResolver,
	scripts InteractBinder,
) *Manager {
	return &Manager{
		repo:      repo,
		creator:   creator,
		shards:    shards,
		scheduler: scheduler,
		skins:     skins,
		scripts:   scripts,
		presets:   make(map[string]*model.Preset),
		spawned:   make(map[string]*npc.NPC),
	}
}

// SetDefaultShard sets the shard used by presets that do not name one.
func (m *Manager) SetDefaultShard(name string) {
	m.defaultShard = name
}

// LoadPresets loads every preset from the repository, replacing what was loaded before.
func (m *Manager) LoadPresets(ctx context.Context) error {
	presets, err := m.repo.LoadAll(ctx)
	if err != nil {
		return fmt.Errorf("loading presets: %w", err)
	}

	loaded := make(map[string]*model.Preset, len(presets))
	for _, p := range presets {
		if p.Name == "" {
			return fmt.Errorf("%w: preset without name", ErrInvalidPreset)
		}
		if _, dup := loaded[p.Name]; dup {
			return fmt.Errorf("%w: duplicate preset %q", ErrInvalidPreset, p.Name)
		}
		loaded[p.Name] = p
	}

	m.mu.Lock()
	m.presets = loaded
	m.mu.Unlock()

	slog.Info("npc presets loaded", "count", len(loaded))
	return nil
}

// PresetCount returns the number of loaded presets.
func (m *Manager) PresetCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.presets)
}

// GetPreset returns a loaded preset by name.
func (m *Manager) GetPreset(name string) (*model.Preset, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	p, ok := m.presets[name]
	return p, ok
}

// Spawned returns the live NPC spawned from a preset.
func (m *Manager) Spawned(name string) (*npc.NPC, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	n, ok := m.spawned[name]
	return n, ok
}

// SpawnedCount returns how many presets currently have a live NPC.
func (m *Manager) SpawnedCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.spawned)
}

// BuildConfig turns a preset into an NPC config, resolving the shard,
// named skin and interaction script.
func (m *Manager) BuildConfig(ctx context.Context, p *model.Preset) (npc.Config, error) {
	profile, err := npc.ParseProfile(p.Profile)
	if err != nil {
		return npc.Config{}, fmt.Errorf("preset %q: %w", p.Name, err)
	}

	shardName := p.Shard
	if shardName == "" {
		shardName = m.defaultShard
	}
	shard, err := m.shards(shardName)
	if err != nil {
		return npc.Config{}, fmt.Errorf("preset %q: shard %q: %w", p.Name, shardName, err)
	}

	id := p.NpcID
	if id == uuid.Nil {
		id = uuid.NewSHA1(presetNamespace, []byte(p.Name))
	}

	cfg := npc.DefaultConfig(id, shard, p.Location())
	cfg.Profile = profile

	cfg.CustomName = p.CustomName
	if cfg.CustomName == "" {
		cfg.CustomName = p.Name
	}

	cfg.Skin = p.Skin
	if p.SkinName != "" {
		if m.skins == nil {
			return npc.Config{}, fmt.Errorf("preset %q: %w", p.Name, ErrNoSkinResolver)
		}
		skin, err := m.skins.Get(ctx, p.SkinName)
		if err != nil {
			return npc.Config{}, fmt.Errorf("preset %q: skin %q: %w", p.Name, p.SkinName, err)
		}
		cfg.Skin = skin
	}

	if p.Listed != nil {
		cfg.Listed = *p.Listed
	}
	if p.LookAtPlayers != nil {
		cfg.LookAtPlayers = *p.LookAtPlayers
	}
	if p.LookRange != nil {
		cfg.LookRange = *p.LookRange
	}

	if profile.HasVitality() {
		cfg.MaxHealth = p.MaxHealth
		if cfg.MaxHealth <= 0 {
			cfg.MaxHealth = npc.DefaultHealth
		}
		cfg.Health = p.Health
		if cfg.Health <= 0 {
			cfg.Health = npc.DefaultHealth
		}
		cfg.Health = min(cfg.Health, cfg.MaxHealth)
		cfg.Invulnerable = p.Invulnerable
		cfg.Respawns = p.Respawns
		cfg.RespawnDelay = p.RespawnDelay
	}

	if p.InteractScript != "" {
		if m.scripts == nil {
			return npc.Config{}, fmt.Errorf("preset %q: %w", p.Name, ErrNoScriptEngine)
		}
		hook, err := m.scripts.Handler(p.InteractScript)
		if err != nil {
			return npc.Config{}, fmt.Errorf("preset %q: script %q: %w", p.Name, p.InteractScript, err)
		}
		cfg.OnInteract = hook
	}

	return cfg, nil
}

// Spawn spawns the NPC for one preset. Spawning a preset that already has
// a live NPC returns ErrAlreadySpawned.
func (m *Manager) Spawn(ctx context.Context, p *model.Preset) (*npc.NPC, error) {
	if live, ok := m.Spawned(p.Name); ok && !live.IsRemoved() {
		return nil, fmt.Errorf("%w: %q", ErrAlreadySpawned, p.Name)
	}

	cfg, err := m.BuildConfig(ctx, p)
	if err != nil {
		return nil, err
	}

	n, err := m.creator.Create(ctx, cfg, m.scheduler)
	if err != nil {
		return nil, fmt.Errorf("preset %q: %w", p.Name, err)
	}

	m.mu.Lock()
	m.spawned[p.Name] = n
	m.mu.Unlock()

	slog.Info("NPC spawned",
		"preset", p.Name,
		"npc", n.ID(),
		"profile", n.Profile(),
		"shard", n.Shard().Name(),
		"location", n.Location())
	return n, nil
}

// SpawnAll spawns every loaded preset. Individual failures are logged and
// do not stop the rest; the returned error joins all of them.
func (m *Manager) SpawnAll(ctx context.Context) (int, error) {
	m.mu.RLock()
	presets := make([]*model.Preset, 0, len(m.presets))
	for _, p := range m.presets {
		presets = append(presets, p)
	}
	m.mu.RUnlock()

	count := 0
	var errs []error
	for _, p := range presets {
		if err := ctx.Err(); err != nil {
			errs = append(errs, err)
			break
		}
		if _, err := m.Spawn(ctx, p); err != nil {
			slog.Error("failed to spawn NPC", "preset", p.Name, "error", err)
			errs = append(errs, err)
			continue
		}
		count++
	}

	slog.Info("NPC spawn completed", "spawned", count, "failed", len(errs), "total", len(presets))
	return count, errors.Join(errs...)
}

// Despawn removes the live NPC of a preset. Returns false if none was live.
func (m *Manager) Despawn(name string) bool {
	m.mu.Lock()
	n, ok := m.spawned[name]
	delete(m.spawned, name)
	m.mu.Unlock()

	if !ok {
		return false
	}
	n.Remove()
	slog.Info("NPC despawned", "preset", name, "npc", n.ID())
	return true
}
