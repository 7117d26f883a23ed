package npc

import "errors"

// Configuration errors returned by Config.Validate and New.
var (
	ErrMissingID         = errors.New("npc: missing id")
	ErrMissingShard      = errors.New("npc: missing shard")
	ErrInvalidPosition   = errors.New("npc: invalid position")
	ErrNegativeLookRange = errors.New("npc: negative look range")
	ErrLookRangeTooLarge = errors.New("npc: look range too large")
	ErrInvalidMaxHealth  = errors.New("npc: max health must be positive")
	ErrInvalidHealth     = errors.New("npc: health must be positive")
	ErrNegativeDelay     = errors.New("npc: negative respawn delay")
	ErrMissingNavigator  = errors.New("npc: navigational profile requires a navigator")
	ErrUnknownProfile    = errors.New("npc: unknown profile")
	ErrMissingTracker    = errors.New("npc: missing tracker")
)

// ErrRemoved is returned when operating on an NPC that already left the world.
var ErrRemoved = errors.New("npc: removed")
