// Package diag routes non-fatal advisory diagnostics through structured
// logging.
//
// Diagnostics are advisory output only: they are never promoted to errors,
// and they are suppressed entirely in production builds. Production mode is
// selected with the STATOR_ENV environment variable, or programmatically
// for tests.
package diag

import (
	"log/slog"
	"os"
)

// EnvVar selects production mode when set to "production".
const EnvVar = "STATOR_ENV"

var (
	logger *slog.Logger

	// prodOverride, when non-nil, wins over the environment variable.
	prodOverride *bool
)

// SetLogger replaces the logger used for diagnostics. A nil logger restores
// the process default.
func SetLogger(l *slog.Logger) {
	logger = l
}

// SetProduction overrides production-mode detection. Used by tests to
// exercise both modes without touching the environment.
func SetProduction(v bool) {
	prodOverride = &v
}

// ResetProduction restores environment-driven production detection.
func ResetProduction() {
	prodOverride = nil
}

// Production reports whether advisory diagnostics are suppressed.
func Production() bool {
	if prodOverride != nil {
		return *prodOverride
	}
	return os.Getenv(EnvVar) == "production"
}

// Warn emits an advisory diagnostic unless running in production mode.
// Args follow the slog key-value convention.
func Warn(msg string, args ...any) {
	if Production() {
		return
	}
	l := logger
	if l == nil {
		l = slog.Default()
	}
	l.Warn(msg, args...)
}
