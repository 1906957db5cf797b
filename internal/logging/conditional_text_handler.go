package logging

import (
	"context"
	"errors"
	"io"
	"log/slog"

	"github.com/isseis/go-elf-inspect/internal/terminal"
)

var (
	ErrConditionalTextHandlerCapabilitiesRequired = errors.New("ConditionalTextHandler: Capabilities is required")
	ErrConditionalTextHandlerWriterRequired       = errors.New("ConditionalTextHandler: Writer is required")
)

// ConditionalTextHandler emits logfmt lines through slog.TextHandler, but
// only when stderr is not an interactive terminal. It is the counterpart
// of InteractiveHandler: exactly one of the two writes a given record.
type ConditionalTextHandler struct {
	inner slog.Handler
	gate  func() bool
}

// ConditionalTextHandlerOptions configures NewConditionalTextHandler.
type ConditionalTextHandlerOptions struct {
	Capabilities       terminal.Capabilities
	TextHandlerOptions *slog.HandlerOptions
	Writer             io.Writer
}

// NewConditionalTextHandler requires Capabilities and Writer.
func NewConditionalTextHandler(opts ConditionalTextHandlerOptions) (*ConditionalTextHandler, error) {
	switch {
	case opts.Capabilities == nil:
		return nil, ErrConditionalTextHandlerCapabilitiesRequired
	case opts.Writer == nil:
		return nil, ErrConditionalTextHandlerWriterRequired
	}
	caps := opts.Capabilities
	return &ConditionalTextHandler{
		inner: slog.NewTextHandler(opts.Writer, opts.TextHandlerOptions),
		gate:  func() bool { return !caps.IsInteractive() },
	}, nil
}

func (h *ConditionalTextHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.gate() && h.inner.Enabled(ctx, level)
}

func (h *ConditionalTextHandler) Handle(ctx context.Context, r slog.Record) error {
	if !h.gate() {
		return nil
	}
	return h.inner.Handle(ctx, r)
}

func (h *ConditionalTextHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &ConditionalTextHandler{inner: h.inner.WithAttrs(attrs), gate: h.gate}
}

func (h *ConditionalTextHandler) WithGroup(name string) slog.Handler {
	return &ConditionalTextHandler{inner: h.inner.WithGroup(name), gate: h.gate}
}
