package terminal

import (
	"os"
	"strings"
)

// Options contains all terminal-related configuration options
type Options struct {
	Color    ColorMode
	Detector DetectorOptions
}

// Capabilities provides a unified interface for terminal capability detection
type Capabilities interface {
	IsInteractive() bool
	SupportsColor() bool
	HasExplicitUserPreference() bool
}

// DefaultCapabilities combines an InteractiveDetector, a ColorDetector and a
// UserPreference.
type DefaultCapabilities struct {
	interactiveDetector InteractiveDetector
	colorDetector       ColorDetector
	userPreference      *UserPreference
}

// NewCapabilities creates a new Capabilities instance with the given options
func NewCapabilities(options Options) Capabilities {
	return &DefaultCapabilities{
		interactiveDetector: NewInteractiveDetector(options.Detector),
		colorDetector:       NewColorDetector(),
		userPreference:      NewUserPreference(options.Color),
	}
}

// IsInteractive returns true if the current environment should be treated as interactive
func (c *DefaultCapabilities) IsInteractive() bool {
	return c.interactiveDetector.IsInteractive()
}

// SupportsColor applies, in order of priority:
//  1. -color always|never
//  2. CLICOLOR_FORCE (truthy)
//  3. NO_COLOR
//  4. CLICOLOR, interactive output only
//  5. TERM, interactive output only
func (c *DefaultCapabilities) SupportsColor() bool {
	if c.userPreference.HasExplicitPreference() {
		return c.userPreference.SupportsColor()
	}

	if !c.IsInteractive() || !c.colorDetector.SupportsColor() {
		return false
	}

	if cliColor := os.Getenv("CLICOLOR"); cliColor != "" {
		return isTruthy(cliColor)
	}

	return true
}

// isTruthy accepts "1", "true" and "yes", case insensitive.
func isTruthy(value string) bool {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "1", "true", "yes":
		return true
	default:
		return false
	}
}

// HasExplicitUserPreference returns true if the user has explicitly set
// a color preference through command line options or environment variables
func (c *DefaultCapabilities) HasExplicitUserPreference() bool {
	return c.userPreference.HasExplicitPreference()
}
