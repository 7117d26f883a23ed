package npc

import (
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"

	"github.com/Auriosi/AuriNPC/internal/model"
	"github.com/Auriosi/AuriNPC/internal/world"
)

// Defaults for unset options.
const (
	DefaultCustomName = "NPC"
	DefaultLookRange  = 10
	DefaultHealth     = 1

	// MaxLookRange keeps the squared range inside int64.
	MaxLookRange = math.MaxInt32
)

// InteractFunc is invoked when a player interacts with the NPC.
type InteractFunc func(n *NPC, ev model.InteractEvent)

// Navigator is the host pathfinding collaborator for navigational NPCs.
type Navigator interface {
	// Next returns where the NPC should be after this tick; ok=false keeps it in place.
	Next(current model.Location, now time.Time) (next model.Location, ok bool)
}

// Config holds everything needed to construct an NPC.
// Fields under "vitality" only apply to living and navigational profiles.
type Config struct {
	// Required
	ID       uuid.UUID
	Shard    world.Shard
	Location model.Location
	Profile  Profile

	// Display
	CustomName        string
	CustomNameVisible bool
	Skin              model.Skin
	Listed            bool

	// Look-at (static and living)
	LookAtPlayers bool
	LookRange     int64 // non-squared

	// Vitality
	MaxHealth    float32
	Health       float32
	Invulnerable bool
	Respawns     bool
	RespawnDelay time.Duration

	// Navigational only
	Navigator Navigator

	OnInteract InteractFunc
}

// DefaultConfig returns a static NPC config with default options.
func DefaultConfig(id uuid.UUID, shard world.Shard, loc model.Location) Config {
	return Config{
		ID:                id,
		Shard:             shard,
		Location:          loc,
		Profile:           ProfileStatic,
		CustomName:        DefaultCustomName,
		CustomNameVisible: true,
		Listed:            true,
		LookAtPlayers:     true,
		LookRange:         DefaultLookRange,
		MaxHealth:         DefaultHealth,
		Health:            DefaultHealth,
	}
}

// DefaultLivingConfig returns a config for a health-bearing profile. Health
// starts at DefaultHealth (clamped to maxHealth); set Health for anything else.
func DefaultLivingConfig(id uuid.UUID, shard world.Shard, loc model.Location, profile Profile, maxHealth float32) Config {
	cfg := DefaultConfig(id, shard, loc)
	cfg.Profile = profile
	cfg.MaxHealth = maxHealth
	cfg.Health = min(DefaultHealth, maxHealth)
	return cfg
}

// Validate reports every configuration problem at once.
func (c *Config) Validate() error {
	var errs []error

	if c.ID == uuid.Nil {
		errs = append(errs, ErrMissingID)
	}
	if c.Shard == nil {
		errs = append(errs, ErrMissingShard)
	}
	if !c.Location.IsFinite() {
		errs = append(errs, ErrInvalidPosition)
	}
	if err := checkLookRange(c.LookRange); err != nil {
		errs = append(errs, err)
	}

	switch c.Profile {
	case ProfileStatic:
	case ProfileLiving, ProfileNavigational:
		if c.MaxHealth <= 0 {
			errs = append(errs, fmt.Errorf("%w: %v", ErrInvalidMaxHealth, c.MaxHealth))
		}
		if c.Health <= 0 {
			errs = append(errs, fmt.Errorf("%w: %v", ErrInvalidHealth, c.Health))
		}
		if c.RespawnDelay < 0 {
			errs = append(errs, fmt.Errorf("%w: %v", ErrNegativeDelay, c.RespawnDelay))
		}
		if c.Profile == ProfileNavigational && c.Navigator == nil {
			errs = append(errs, ErrMissingNavigator)
		}
	default:
		errs = append(errs, fmt.Errorf("%w: %d", ErrUnknownProfile, c.Profile))
	}

	return errors.Join(errs...)
}

func checkLookRange(r int64) error {
	switch {
	case r < 0:
		return fmt.Errorf("%w: %d", ErrNegativeLookRange, r)
	case r > MaxLookRange:
		return fmt.Errorf("%w: %d", ErrLookRangeTooLarge, r)
	}
	return nil
}
