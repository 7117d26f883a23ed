package registry

import "errors"

var (
	// ErrAlreadyAttached is returned when Attach is called a second time.
	ErrAlreadyAttached = errors.New("registry: already attached to an event source")
	// ErrDuplicateID is returned by Create when an NPC with the same id is tracked.
	ErrDuplicateID = errors.New("registry: duplicate npc id")
)
