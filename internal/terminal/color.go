package terminal

import (
	"os"
	"strings"
)

// colorTerminals lists TERM values (or prefixes) that are known to support
// basic terminal colors.
var colorTerminals = []string{
	"xterm",
	"screen",
	"tmux",
	"rxvt",
	"vt100",
	"vt220",
	"ansi",
	"linux",
	"cygwin",
	"putty",
	"alacritty",
	"kitty",
}

// ColorDetector interface defines methods for detecting color support
type ColorDetector interface {
	SupportsColor() bool
}

// DefaultColorDetector decides from TERM alone.
type DefaultColorDetector struct{}

// NewColorDetector creates a new color detector
func NewColorDetector() ColorDetector {
	return &DefaultColorDetector{}
}

// SupportsColor returns true if TERM names a known color-capable terminal.
// Unknown terminals get no color.
func (d *DefaultColorDetector) SupportsColor() bool {
	name := strings.ToLower(strings.TrimSpace(os.Getenv("TERM")))
	if name == "" || name == "dumb" {
		return false
	}

	for _, colorTerm := range colorTerminals {
		if name == colorTerm || strings.HasPrefix(name, colorTerm+"-") {
			return true
		}
	}
	return false
}
