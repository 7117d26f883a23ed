package model

import "github.com/google/uuid"

// InteractAction is the kind of interaction a player performed on an entity.
type InteractAction int32

const (
	InteractActionInteract InteractAction = iota
	InteractActionAttack
	InteractActionInteractAt
)

// String returns a human-readable action name.
func (a InteractAction) String() string {
	switch a {
	case InteractActionInteract:
		return "interact"
	case InteractActionAttack:
		return "attack"
	case InteractActionInteractAt:
		return "interact_at"
	default:
		return "unknown"
	}
}

// Hand used for an interaction.
type Hand int32

const (
	HandMain Hand = iota
	HandOff
)

// String returns a human-readable hand name.
func (h Hand) String() string {
	if h == HandOff {
		return "off"
	}
	return "main"
}

// InteractEvent is delivered system-wide whenever a player targets an entity.
type InteractEvent struct {
	TargetID uuid.UUID
	PlayerID uuid.UUID
	Action   InteractAction
	Hand     Hand
	Sneaking bool
}
