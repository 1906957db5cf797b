package terminal

import (
	"errors"
	"fmt"
	"os"
)

// ColorMode is the value of the -color flag and the output.color setting.
type ColorMode string

// Supported color modes.
const (
	ColorAuto   ColorMode = "auto"
	ColorAlways ColorMode = "always"
	ColorNever  ColorMode = "never"
)

// ErrInvalidColorMode is returned by ParseColorMode.
var ErrInvalidColorMode = errors.New("invalid color mode")

// ParseColorMode accepts "auto", "always" or "never". The empty string is
// ColorAuto.
func ParseColorMode(s string) (ColorMode, error) {
	switch ColorMode(s) {
	case "", ColorAuto:
		return ColorAuto, nil
	case ColorAlways, ColorNever:
		return ColorMode(s), nil
	default:
		return "", fmt.Errorf("%w: %q (want auto, always or never)", ErrInvalidColorMode, s)
	}
}

// UserPreference resolves an explicit color choice from the command line and
// the CLICOLOR_FORCE and NO_COLOR environment variables.
type UserPreference struct {
	mode ColorMode
}

// NewUserPreference creates a new UserPreference instance
func NewUserPreference(mode ColorMode) *UserPreference {
	return &UserPreference{mode: mode}
}

// SupportsColor returns the explicit preference, or false when there is none.
func (p *UserPreference) SupportsColor() bool {
	switch p.mode {
	case ColorAlways:
		return true
	case ColorNever:
		return false
	}

	if isTruthy(os.Getenv("CLICOLOR_FORCE")) {
		return true
	}

	// NO_COLOR disables color whatever its value, even empty.
	return false
}

// HasExplicitPreference returns true if user has explicitly set a color preference
func (p *UserPreference) HasExplicitPreference() bool {
	if p.mode == ColorAlways || p.mode == ColorNever {
		return true
	}

	// CLICOLOR_FORCE=0 is not an explicit preference.
	if isTruthy(os.Getenv("CLICOLOR_FORCE")) {
		return true
	}

	if _, exists := os.LookupEnv("NO_COLOR"); exists {
		return true
	}

	// CLICOLOR only applies to interactive output; see DefaultCapabilities.
	return false
}
