package cleanup

import (
	"time"

	"github.com/magnetomarketing/magneto-web/pkg/config"
)

// Config holds cleanup worker configuration, sourced from the central config package.
type Config struct {
	CleanupInterval  time.Duration
	VerboseReporting bool
	// StaleGrace is how long an expired content entry is kept so a failed
	// reload can still serve it.
	StaleGrace time.Duration
}

// NewConfig creates a cleanup configuration from the already-initialized
// values in pkg/config.
func NewConfig() *Config {
	return &Config{
		CleanupInterval:  config.CleanupInterval,
		VerboseReporting: config.CleanupVerbose,
		StaleGrace:       config.ContentStaleGrace,
	}
}
