package config

import (
	"os"
	"strconv"
	"time"
)

// DefaultWaitTimeout bounds convergence waits when the caller gives no timeout.
const DefaultWaitTimeout = 180 * time.Second

// Timeouts holds all configurable timeout values.
// These values can be customized via environment variables.
type Timeouts struct {
	Wait              time.Duration // Default bound for waiting on pool VMs
	PollInterval      time.Duration // Delay between VM status polls
	Request           time.Duration // Per-request timeout of the engine connection
	RetryMaxAttempts  int           // Maximum number of retries for read calls
	RetryInitialDelay time.Duration // Initial delay between retries
}

// LoadTimeouts loads timeout configuration from environment variables.
// If an environment variable is not set or invalid, a default value is used.
//
// Environment Variables:
//   - OVIRT_TIMEOUT_WAIT (default: 180s)
//   - OVIRT_POLL_INTERVAL (default: 3s)
//   - OVIRT_TIMEOUT_REQUEST (default: 30s)
//   - OVIRT_RETRY_MAX_ATTEMPTS (default: 3)
//   - OVIRT_RETRY_INITIAL_DELAY (default: 1s)
func LoadTimeouts() *Timeouts {
	return &Timeouts{
		Wait:              parseDuration("OVIRT_TIMEOUT_WAIT", DefaultWaitTimeout),
		PollInterval:      parseDuration("OVIRT_POLL_INTERVAL", 3*time.Second),
		Request:           parseDuration("OVIRT_TIMEOUT_REQUEST", 30*time.Second),
		RetryMaxAttempts:  parseInt("OVIRT_RETRY_MAX_ATTEMPTS", 3),
		RetryInitialDelay: parseDuration("OVIRT_RETRY_INITIAL_DELAY", 1*time.Second),
	}
}

// parseDuration parses a duration from an environment variable.
// If the variable is not set or parsing fails, the default value is returned.
func parseDuration(envVar string, defaultVal time.Duration) time.Duration {
	val := os.Getenv(envVar)
	if val == "" {
		return defaultVal
	}

	d, err := time.ParseDuration(val)
	if err != nil || d <= 0 {
		return defaultVal
	}

	return d
}

// parseInt parses an integer from an environment variable.
// If the variable is not set or parsing fails, the default value is returned.
func parseInt(envVar string, defaultVal int) int {
	val := os.Getenv(envVar)
	if val == "" {
		return defaultVal
	}

	i, err := strconv.Atoi(val)
	if err != nil || i < 0 {
		return defaultVal
	}

	return i
}
