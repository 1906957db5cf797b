package config

// Default values for configuration fields
const (
	DefaultMaxFileSize   int64  = 1 << 30
	DefaultMaxTableBytes uint64 = 16 << 20
	DefaultFormat               = FormatText
	DefaultColor                = "auto"
	DefaultLogLevel             = "info"
	DefaultJobs                 = 4
)

// Default returns a Config with every default applied.
func Default() *Config {
	cfg := &Config{}
	ApplyDefaults(cfg)
	return cfg
}

// ApplyDefaults fills every unset field.
func ApplyDefaults(cfg *Config) {
	if cfg.Limits.MaxFileSize == nil {
		v := DefaultMaxFileSize
		cfg.Limits.MaxFileSize = &v
	}
	if cfg.Limits.MaxTableBytes == nil {
		v := DefaultMaxTableBytes
		cfg.Limits.MaxTableBytes = &v
	}
	if cfg.Output.Format == "" {
		cfg.Output.Format = DefaultFormat
	}
	if cfg.Output.Color == "" {
		cfg.Output.Color = DefaultColor
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = DefaultLogLevel
	}
	if cfg.Run.Jobs == 0 {
		cfg.Run.Jobs = DefaultJobs
	}
}
