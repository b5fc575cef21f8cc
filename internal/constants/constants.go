// Package constants defines shared constant values for ARCHON.
package constants

// AppName is the canonical application name.
const AppName = "archon"

// ArchonHome is the default home directory name (relative to $HOME).
const ArchonHome = ".archon"

// LogsDir is the subdirectory under the archon home for log files.
const LogsDir = "logs"

// CLILogFileName is the global CLI log file name.
const CLILogFileName = "archon.log"

// Log rotation settings for the global CLI log file.
const (
	// LogMaxSizeMB is the maximum size in megabytes before rotation.
	LogMaxSizeMB = 10

	// LogMaxBackups is the maximum number of rotated files to retain.
	LogMaxBackups = 3

	// LogMaxAgeDays is the maximum age in days before rotated files are deleted.
	LogMaxAgeDays = 30

	// LogCompress enables gzip compression of rotated files.
	LogCompress = true
)

// DefaultMaxConcurrency is the default bound on in-flight plan units.
const DefaultMaxConcurrency = 4

// DefaultGlobalTimeout is the default wall-clock budget for a whole run.
const DefaultGlobalTimeout = "10m"

// DefaultAgentTimeout is the per-attempt timeout applied when a descriptor
// does not declare one.
const DefaultAgentTimeout = "2m"

// Retry backoff defaults. The delay doubles per attempt up to the cap.
const (
	DefaultRetryBaseDelay = "500ms"
	DefaultRetryMaxDelay  = "30s"
)
