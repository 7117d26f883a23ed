package ai

import "sync/atomic"

// debugLoggingEnabled gates per-tick debug logs so the hot loop does not
// consult the slog handler level on every tick.
var debugLoggingEnabled atomic.Bool

// EnableDebugLogging turns per-tick debug logs on or off. Called from main
// after the log level is parsed.
func EnableDebugLogging(enabled bool) {
	debugLoggingEnabled.Store(enabled)
}

// IsDebugEnabled reports whether per-tick debug logs are on.
func IsDebugEnabled() bool {
	return debugLoggingEnabled.Load()
}
