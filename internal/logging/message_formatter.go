package logging

import (
	"log/slog"
	"strings"
	"time"

	"github.com/isseis/go-elf-inspect/internal/color"
)

// MessageFormatter renders a record as one console line.
type MessageFormatter interface {
	FormatRecord(record slog.Record, useColor bool) string
}

// DefaultMessageFormatter prints "LEVEL message key=value ..." with the
// level marked by a symbol, and by color when enabled. Timestamps are left
// to the JSON log file.
type DefaultMessageFormatter struct{}

// NewDefaultMessageFormatter creates a new DefaultMessageFormatter.
func NewDefaultMessageFormatter() *DefaultMessageFormatter {
	return &DefaultMessageFormatter{}
}

// FormatRecord formats record, including attributes added to it.
func (f *DefaultMessageFormatter) FormatRecord(record slog.Record, useColor bool) string {
	var sb strings.Builder

	sb.WriteString(f.formatLevel(record.Level, useColor))
	sb.WriteString(" ")
	sb.WriteString(record.Message)

	record.Attrs(func(attr slog.Attr) bool {
		if attr.Equal(slog.Attr{}) {
			return true
		}
		sb.WriteString(" ")
		sb.WriteString(attr.Key)
		sb.WriteString("=")
		sb.WriteString(f.formatValue(attr.Value))
		return true
	})

	return sb.String()
}

// formatLevel formats the log level with visual distinction
func (f *DefaultMessageFormatter) formatLevel(level slog.Level, useColor bool) string {
	if useColor {
		switch level {
		case slog.LevelDebug:
			return color.Gray("* DEBUG")
		case slog.LevelInfo:
			return color.Green("+ INFO ")
		case slog.LevelWarn:
			return color.Yellow("! WARN ")
		case slog.LevelError:
			return color.Red("X ERROR")
		default:
			return color.Gray("> " + level.String())
		}
	}
	switch level {
	case slog.LevelDebug:
		return "[DEBUG]"
	case slog.LevelInfo:
		return "[INFO ]"
	case slog.LevelWarn:
		return "[WARN ]"
	case slog.LevelError:
		return "[ERROR]"
	default:
		return "[" + strings.ToUpper(level.String()) + "]"
	}
}

func (f *DefaultMessageFormatter) formatValue(value slog.Value) string {
	value = value.Resolve()
	switch value.Kind() {
	case slog.KindString:
		s := value.String()
		if s == "" || strings.ContainsAny(s, " \t\"=") {
			return `"` + strings.ReplaceAll(s, `"`, `\"`) + `"`
		}
		return s
	case slog.KindTime:
		return value.Time().Format(time.RFC3339)
	case slog.KindGroup:
		attrs := value.Group()
		if len(attrs) == 0 {
			return "{}"
		}
		parts := make([]string, 0, len(attrs))
		for _, attr := range attrs {
			parts = append(parts, attr.Key+"="+f.formatValue(attr.Value))
		}
		return "{" + strings.Join(parts, ",") + "}"
	default:
		return value.String()
	}
}
