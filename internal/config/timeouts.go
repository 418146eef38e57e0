package config

import (
	"os"
	"strconv"
	"time"
)

// Timeouts holds all configurable timeout values.
// These values can be customized via environment variables.
type Timeouts struct {
	Create            time.Duration // Timeout for each create call
	Delete            time.Duration // Timeout for the resource group teardown
	RetryMaxAttempts  int           // Maximum attempts for provider-side delete retries
	RetryInitialDelay time.Duration // Initial delay between provider-side retries
}

// LoadTimeouts loads timeout configuration from environment variables.
// If an environment variable is not set or invalid, a default value is used.
//
// Environment Variables:
//   - VMPROVISION_TIMEOUT_CREATE (default: 10m)
//   - VMPROVISION_TIMEOUT_DELETE (default: 15m)
//   - VMPROVISION_RETRY_MAX_ATTEMPTS (default: 5)
//   - VMPROVISION_RETRY_INITIAL_DELAY (default: 1s)
func LoadTimeouts() *Timeouts {
	return &Timeouts{
		Create:            parseDuration("VMPROVISION_TIMEOUT_CREATE", 10*time.Minute),
		Delete:            parseDuration("VMPROVISION_TIMEOUT_DELETE", 15*time.Minute),
		RetryMaxAttempts:  parseInt("VMPROVISION_RETRY_MAX_ATTEMPTS", 5),
		RetryInitialDelay: parseDuration("VMPROVISION_RETRY_INITIAL_DELAY", 1*time.Second),
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
	if err != nil || d < 0 {
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
	if err != nil || i < 1 {
		return defaultVal
	}

	return i
}
