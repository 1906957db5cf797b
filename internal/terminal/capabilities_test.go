package terminal

import (
	"bytes"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCapabilities_Integration(t *testing.T) {
	tests := []struct {
		name             string
		envVars          map[string]string
		options          Options
		wantInteractive  bool
		wantColor        bool
		wantExplicitPref bool
	}{
		{
			name:             "always with forced interactive",
			options:          Options{Color: ColorAlways, Detector: DetectorOptions{ForceInteractive: true}},
			wantInteractive:  true,
			wantColor:        true,
			wantExplicitPref: true,
		},
		{
			name:             "never beats an xterm",
			envVars:          map[string]string{"TERM": "xterm-256color"},
			options:          Options{Color: ColorNever, Detector: DetectorOptions{ForceInteractive: true}},
			wantInteractive:  true,
			wantColor:        false,
			wantExplicitPref: true,
		},
		{
			name:             "CLICOLOR_FORCE in CI",
			envVars:          map[string]string{"CLICOLOR_FORCE": "1", "CI": "true"},
			wantInteractive:  false,
			wantColor:        true,
			wantExplicitPref: true,
		},
		{
			name:             "NO_COLOR in interactive terminal",
			envVars:          map[string]string{"NO_COLOR": "", "TERM": "xterm"},
			options:          Options{Detector: DetectorOptions{ForceInteractive: true}},
			wantInteractive:  true,
			wantColor:        false,
			wantExplicitPref: true,
		},
		{
			name:            "interactive xterm",
			envVars:         map[string]string{"TERM": "xterm"},
			options:         Options{Detector: DetectorOptions{ForceInteractive: true}},
			wantInteractive: true,
			wantColor:       true,
		},
		{
			name:            "CLICOLOR=0 in interactive xterm",
			envVars:         map[string]string{"TERM": "xterm", "CLICOLOR": "0"},
			options:         Options{Detector: DetectorOptions{ForceInteractive: true}},
			wantInteractive: true,
			wantColor:       false,
		},
		{
			name:    "CI disables color by default",
			envVars: map[string]string{"CI": "true", "TERM": "xterm"},
		},
		{
			name:            "dumb terminal",
			envVars:         map[string]string{"TERM": "dumb"},
			options:         Options{Detector: DetectorOptions{ForceInteractive: true}},
			wantInteractive: true,
		},
		{
			name:    "buffer output is never interactive",
			envVars: map[string]string{"TERM": "xterm"},
			options: Options{Detector: DetectorOptions{Output: &bytes.Buffer{}}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			setupCleanEnv(t, tt.envVars)

			capabilities := NewCapabilities(tt.options)

			assert.Equal(t, tt.wantInteractive, capabilities.IsInteractive())
			assert.Equal(t, tt.wantColor, capabilities.SupportsColor())
			assert.Equal(t, tt.wantExplicitPref, capabilities.HasExplicitUserPreference())
		})
	}
}

func TestParseColorMode(t *testing.T) {
	for in, want := range map[string]ColorMode{"": ColorAuto, "auto": ColorAuto, "always": ColorAlways, "never": ColorNever} {
		got, err := ParseColorMode(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}

	_, err := ParseColorMode("sometimes")
	assert.ErrorIs(t, err, ErrInvalidColorMode)
}

func TestDetector_CIEnvironment(t *testing.T) {
	tests := []struct {
		name    string
		envVars map[string]string
		want    bool
	}{
		{name: "none", want: false},
		{name: "CI=true", envVars: map[string]string{"CI": "true"}, want: true},
		{name: "CI=false", envVars: map[string]string{"CI": "false"}, want: false},
		{name: "CI=0", envVars: map[string]string{"CI": "0"}, want: false},
		{name: "GITHUB_ACTIONS", envVars: map[string]string{"GITHUB_ACTIONS": "true"}, want: true},
		{name: "JENKINS_URL", envVars: map[string]string{"JENKINS_URL": "http://ci"}, want: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			setupCleanEnv(t, tt.envVars)
			d := NewInteractiveDetector(DetectorOptions{})
			assert.Equal(t, tt.want, d.IsCIEnvironment())
		})
	}
}

func TestDetector_ForceFlags(t *testing.T) {
	setupCleanEnv(t, map[string]string{"CI": "true"})

	assert.True(t, NewInteractiveDetector(DetectorOptions{ForceInteractive: true}).IsInteractive())
	assert.False(t, NewInteractiveDetector(DetectorOptions{ForceNonInteractive: true, Output: os.Stdout}).IsInteractive())
}

func TestColorDetector(t *testing.T) {
	tests := map[string]bool{
		"":                false,
		"dumb":            false,
		"xterm":           true,
		"xterm-256color":  true,
		"screen-256color": true,
		"tmux":            true,
		"vt52":            false,
		"unknown":         false,
	}

	for value, want := range tests {
		t.Run("TERM="+value, func(t *testing.T) {
			setupCleanEnv(t, map[string]string{"TERM": value})
			assert.Equal(t, want, NewColorDetector().SupportsColor())
		})
	}
}
