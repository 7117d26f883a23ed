package model

import "github.com/google/uuid"

// Pose of an NPC body as seen by viewers.
type Pose int32

const (
	PoseStanding Pose = iota
	PoseDying
)

// String returns a human-readable pose name.
func (p Pose) String() string {
	switch p {
	case PoseStanding:
		return "STANDING"
	case PoseDying:
		return "DYING"
	default:
		return "UNKNOWN"
	}
}

// EntitySnapshot is the world-facing state of an NPC that viewers are sent
// when they start seeing it and whenever it changes.
type EntitySnapshot struct {
	ID                uuid.UUID
	Location          Location
	CustomName        string
	CustomNameVisible bool
	Pose              Pose
	Health            float32
}
