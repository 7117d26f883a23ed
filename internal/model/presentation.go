package model

import (
	"slices"

	"github.com/google/uuid"
)

// PresentationAction is the roster operation a record asks the client to apply.
type PresentationAction int32

const (
	ActionAddPlayer PresentationAction = iota
)

// GameMode shown next to a roster entry.
type GameMode int32

const (
	GameModeSurvival GameMode = iota
	GameModeCreative
	GameModeAdventure
	GameModeSpectator
)

// TexturesProperty is the property name clients read skins from.
const TexturesProperty = "textures"

// Property is a single signed profile property.
type Property struct {
	Name      string
	Value     string
	Signature string
}

// PresentationEntry is the roster entry for one NPC.
// NPC entries never carry a chat session.
type PresentationEntry struct {
	ID          uuid.UUID
	Username    string
	Properties  []Property
	Listed      bool
	Latency     int32
	GameMode    GameMode
	DisplayName string
}

// PresentationRecord is an immutable snapshot of what a client's roster needs
// to show an NPC with a name and skin. Records are rebuilt, never mutated.
type PresentationRecord struct {
	Action PresentationAction
	Entry  PresentationEntry
}

// Skin returns the skin carried by the record's textures property.
func (r PresentationRecord) Skin() Skin {
	for _, p := range r.Entry.Properties {
		if p.Name == TexturesProperty {
			return Skin{Textures: p.Value, Signature: p.Signature}
		}
	}
	return Skin{}
}

// Clone returns a copy that shares no memory with r.
func (r PresentationRecord) Clone() PresentationRecord {
	r.Entry.Properties = slices.Clone(r.Entry.Properties)
	return r
}
