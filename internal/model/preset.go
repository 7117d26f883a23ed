package model

import (
	"time"

	"github.com/google/uuid"
)

// Preset is a declared NPC definition loaded at startup (database or YAML)
// and turned into a live NPC by the spawn manager.
type Preset struct {
	ID      int64     `yaml:"-"`
	NpcID   uuid.UUID `yaml:"npc_id"` // uuid.Nil = generate on spawn
	Name    string    `yaml:"name"`
	Shard   string    `yaml:"shard"`
	Profile string    `yaml:"profile"` // static | living | navigational

	X     float64 `yaml:"x"`
	Y     float64 `yaml:"y"`
	Z     float64 `yaml:"z"`
	Yaw   float64 `yaml:"yaw"`
	Pitch float64 `yaml:"pitch"`

	CustomName string `yaml:"custom_name"`
	SkinName   string `yaml:"skin_name"` // resolved through the skin catalog, overrides Skin
	Skin       Skin   `yaml:"skin"`
	Listed     *bool  `yaml:"listed"`

	LookAtPlayers *bool  `yaml:"look_at_players"`
	LookRange     *int64 `yaml:"look_range"`

	MaxHealth    float32       `yaml:"max_health"`
	Health       float32       `yaml:"health"`
	Invulnerable bool          `yaml:"invulnerable"`
	Respawns     bool          `yaml:"respawns"`
	RespawnDelay time.Duration `yaml:"respawn_delay"`

	InteractScript string `yaml:"interact_script"` // Lua global function name
}

// Location returns the preset spawn location.
func (p *Preset) Location() Location {
	return NewLocation(p.X, p.Y, p.Z, p.Yaw, p.Pitch)
}
