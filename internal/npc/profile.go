package npc

import (
	"fmt"
	"strings"
)

// Profile is the capability set of an NPC. Fixed at creation.
type Profile int32

const (
	// ProfileStatic has no health, cannot die and looks at players.
	ProfileStatic Profile = iota
	// ProfileLiving has health and a respawn cycle, looks at players, never moves on its own.
	ProfileLiving
	// ProfileNavigational has health and a respawn cycle and is moved by a host navigator.
	ProfileNavigational
)

// String returns the profile name used in configs and logs.
func (p Profile) String() string {
	switch p {
	case ProfileStatic:
		return "static"
	case ProfileLiving:
		return "living"
	case ProfileNavigational:
		return "navigational"
	default:
		return "unknown"
	}
}

// HasVitality reports whether the profile carries health and can die.
func (p Profile) HasVitality() bool {
	return p == ProfileLiving || p == ProfileNavigational
}

// LooksAtPlayers reports whether the profile runs the look-at controller.
// Navigational NPCs are oriented by their navigator instead.
func (p Profile) LooksAtPlayers() bool {
	return p == ProfileStatic || p == ProfileLiving
}

// ParseProfile parses a profile name. Empty string means static.
func ParseProfile(s string) (Profile, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "static":
		return ProfileStatic, nil
	case "living":
		return ProfileLiving, nil
	case "navigational":
		return ProfileNavigational, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnknownProfile, s)
	}
}
