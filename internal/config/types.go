// Package config loads the elf-inspect TOML configuration file.
package config

// Config is the whole configuration file.
type Config struct {
	Limits LimitsSpec `toml:"limits"`
	Output OutputSpec `toml:"output"`
	Log    LogSpec    `toml:"log"`
	Run    RunSpec    `toml:"run"`
}

// LimitsSpec bounds how much a single file may make the inspector read or
// allocate. Nil means "use the default".
type LimitsSpec struct {
	// MaxFileSize rejects larger inputs before decoding.
	MaxFileSize *int64 `toml:"max_file_size"`
	// MaxTableBytes caps the memory of one decoded header table. 0 disables
	// the cap.
	MaxTableBytes *uint64 `toml:"max_table_bytes"`
}

// OutputSpec selects the report format.
type OutputSpec struct {
	Format string `toml:"format"`
	Color  string `toml:"color"`
}

// LogSpec configures logging.
type LogSpec struct {
	Level string `toml:"level"`
	// Dir enables a per-run JSON log file in this directory.
	Dir string `toml:"dir"`
}

// RunSpec configures concurrency.
type RunSpec struct {
	// Jobs is how many files are decoded at once.
	Jobs int `toml:"jobs"`
}

// Output formats.
const (
	FormatText = "text"
	FormatJSON = "json"
)
