package config

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/isseis/go-elf-inspect/internal/safefileio"
	"github.com/pelletier/go-toml/v2"
)

// Loader reads configuration files.
type Loader struct {
	fs safefileio.FileSystem
}

// NewLoader creates a new config loader
func NewLoader() *Loader {
	return NewLoaderWithFS(safefileio.DefaultFileSystem())
}

// NewLoaderWithFS creates a new config loader with a custom FileSystem
func NewLoaderWithFS(fs safefileio.FileSystem) *Loader {
	return &Loader{fs: fs}
}

// LoadFile reads path through safefileio and parses it with Parse. An empty
// path yields Default().
func (l *Loader) LoadFile(path string) (*Config, error) {
	if path == "" {
		return Default(), nil
	}
	content, err := safefileio.SafeReadFileWithFS(path, l.fs)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrInvalidConfigPath, path, err)
	}
	cfg, err := Parse(content)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Parse decodes TOML content, rejecting unknown keys, then applies defaults
// and validates.
func Parse(content []byte) (*Config, error) {
	var cfg Config
	dec := toml.NewDecoder(bytes.NewReader(content))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&cfg); err != nil {
		var strict *toml.StrictMissingError
		if errors.As(err, &strict) {
			return nil, fmt.Errorf("%w:\n%s", ErrUnknownKey, strict.String())
		}
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	ApplyDefaults(&cfg)

	if err := Validate(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}
