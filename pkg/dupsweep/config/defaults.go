// Package config provides configuration management for dupsweep.
package config

// Default configuration values for dupsweep.
const (
	// DefaultPath is the default path to scan when none is specified.
	DefaultPath = "."

	// DefaultOutput is the default report format.
	DefaultOutput = "plain"

	// DefaultAlgorithm is the default digest algorithm.
	DefaultAlgorithm = "md5"

	// DefaultBatchSize is the default read size for hashing.
	DefaultBatchSize = "1MiB"

	// DefaultRetentionDays is the default number of days to retain manifests.
	DefaultRetentionDays = 30

	// EnvPrefix prefixes environment variable overrides.
	EnvPrefix = "DUPSWEEP"

	appName = "dupsweep"
)

// DefaultExclusions contains entries that are excluded from scanning by
// default. Only kernel pseudo-filesystems are listed, so counts under any
// ordinary tree cover every entry.
var DefaultExclusions = []string{
	"/proc",
	"/sys",
	"/dev",
}

// defaultComponents holds per-component log levels.
var defaultComponents = map[string]string{
	"scanner": "info",
	"cleaner": "info",
	"cache":   "warn",
}
