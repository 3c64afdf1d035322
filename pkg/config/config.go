package config

import (
	"os"
	"strconv"
	"time"
)

// Config holds the configuration for the memory probe.
// It's populated from environment variables.
type Config struct {
	Enabled             bool
	DebugEndpoint       string
	CheckInterval       time.Duration
	WarningThresholdMB  uint64 // 0 means derive from total physical memory
	TrackingGracePeriod time.Duration
	GrowthWindow        int
	AllowInProduction   bool
}

// Load reads configuration from environment variables and returns a Config struct.
func Load() *Config {
	return &Config{
		Enabled:             getEnvAsBool("MEMPROBE_ENABLED", true),
		DebugEndpoint:       getEnv("MEMPROBE_DEBUG_ENDPOINT", "/debug/memory"),
		CheckInterval:       getEnvAsDuration("MEMPROBE_CHECK_INTERVAL_S", 10*time.Second),
		WarningThresholdMB:  getEnvAsUint64("MEMPROBE_WARNING_THRESHOLD_MB", 0),
		TrackingGracePeriod: getEnvAsDuration("MEMPROBE_TRACKING_GRACE_PERIOD_S", 3*time.Second),
		GrowthWindow:        getEnvAsInt("MEMPROBE_GROWTH_WINDOW", 3),
		AllowInProduction:   getEnvAsBool("MEMPROBE_ALLOW_IN_PRODUCTION", false),
	}
}

// WarningThresholdBytes converts the configured megabyte threshold to bytes.
func (c *Config) WarningThresholdBytes() uint64 {
	return c.WarningThresholdMB * 1024 * 1024
}

// getEnv reads an environment variable or returns a default value.
func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

// getEnvAsBool reads a boolean environment variable or returns a default value.
func getEnvAsBool(key string, defaultValue bool) bool {
	if value, exists := os.LookupEnv(key); exists {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}

// getEnvAsInt reads an integer environment variable or returns a default value.
func getEnvAsInt(key string, defaultValue int) int {
	if value, exists := os.LookupEnv(key); exists {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

// getEnvAsUint64 reads an unsigned integer environment variable or returns a default value.
func getEnvAsUint64(key string, defaultValue uint64) uint64 {
	if value, exists := os.LookupEnv(key); exists {
		if intValue, err := strconv.ParseUint(value, 10, 64); err == nil {
			return intValue
		}
	}
	return defaultValue
}

// getEnvAsDuration reads a duration environment variable (in seconds) or returns a default value.
func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value, exists := os.LookupEnv(key); exists {
		if intValue, err := strconv.Atoi(value); err == nil {
			return time.Duration(intValue) * time.Second
		}
	}
	return defaultValue
}
