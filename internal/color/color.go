// Package color wraps report text in ANSI escape sequences.
//
//nolint:revive // package name conflicts with standard library
package color

// ANSI color codes
const (
	resetCode  = "\033[0m"
	boldCode   = "\033[1m"
	grayCode   = "\033[90m" // Bright black/gray
	greenCode  = "\033[32m"
	yellowCode = "\033[33m"
	redCode    = "\033[31m"
	cyanCode   = "\033[36m"
)

// Color represents a color function that wraps text with ANSI escape
// sequences.
type Color func(text string) string

// NewColor creates a color function with the specified ANSI code.
func NewColor(ansiCode string) Color {
	return func(text string) string {
		return ansiCode + text + resetCode
	}
}

// Plain returns text unchanged.
func Plain(text string) string { return text }

// Predefined color functions
var (
	Bold   = NewColor(boldCode)
	Gray   = NewColor(grayCode)
	Green  = NewColor(greenCode)
	Yellow = NewColor(yellowCode)
	Red    = NewColor(redCode)
	Cyan   = NewColor(cyanCode)
)

// Palette assigns a Color to each role in the report.
type Palette struct {
	Heading Color
	Label   Color
	OK      Color
	Warning Color
	Failure Color
	Muted   Color
}

// NewPalette returns the colored palette, or an all-Plain one when enabled
// is false.
func NewPalette(enabled bool) Palette {
	if !enabled {
		return Palette{Heading: Plain, Label: Plain, OK: Plain, Warning: Plain, Failure: Plain, Muted: Plain}
	}
	return Palette{
		Heading: Bold,
		Label:   Cyan,
		OK:      Green,
		Warning: Yellow,
		Failure: Red,
		Muted:   Gray,
	}
}
