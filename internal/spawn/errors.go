package spawn

import "errors"

var (
	ErrInvalidPreset  = errors.New("invalid preset")
	ErrPresetNotFound = errors.New("preset not found")
	ErrAlreadySpawned = errors.New("preset already spawned")
	ErrNoSkinResolver = errors.New("named skin requested but no skin catalog configured")
	ErrNoScriptEngine = errors.New("interact script requested but no script engine configured")
)
