package config

// Configuration key constants to prevent typos and enable autocomplete
const (
	// Output configuration
	KeyLogLevel       = "log_level"
	KeyNonInteractive = "non_interactive"

	// Staging behavior
	KeyLock        = "lock"        // Hold a file lock on the destination while staging
	KeyParallelism = "parallelism" // Concurrent profiles during apply

	// Storage
	KeyStateDir = "state_dir" // Markers and lock files (~/.local/state/treestage)
	KeyProfiles = "profiles"
)

// Default values for configuration keys
var Defaults = map[string]string{
	KeyLogLevel:       "info",
	KeyNonInteractive: "false",
	KeyLock:           "false",
	KeyParallelism:    "1",
}
