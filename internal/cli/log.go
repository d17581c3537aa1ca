package cli

import (
	"context"
	"io"
	"log/slog"
	"strings"
)

// newLogger returns a logger whose Warn-and-above records become IO
// warnings. Lower levels go to errOut as text when verbose is set and are
// dropped otherwise.
func newLogger(o *IO, errOut io.Writer, verbose bool) *slog.Logger {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}

	return slog.New(&ioHandler{
		io:    o,
		text:  slog.NewTextHandler(errOut, &slog.HandlerOptions{Level: level}),
		level: level,
	})
}

type ioHandler struct {
	io    *IO
	text  slog.Handler
	level slog.Level
	attrs []slog.Attr
}

func (h *ioHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.level
}

func (h *ioHandler) Handle(ctx context.Context, r slog.Record) error {
	if r.Level < slog.LevelWarn {
		return h.text.Handle(ctx, r)
	}

	var b strings.Builder

	b.WriteString(r.Message)

	write := func(a slog.Attr) bool {
		b.WriteString(" ")
		b.WriteString(a.Key)
		b.WriteString("=")
		b.WriteString(a.Value.String())

		return true
	}

	for _, a := range h.attrs {
		write(a)
	}

	r.Attrs(write)

	h.io.Warn(b.String(), "")

	return nil
}

func (h *ioHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &ioHandler{
		io:    h.io,
		text:  h.text.WithAttrs(attrs),
		level: h.level,
		attrs: append(h.attrs[:len(h.attrs):len(h.attrs)], attrs...),
	}
}

// WithGroup is flattened: warnings are one-line strings.
func (h *ioHandler) WithGroup(name string) slog.Handler {
	return &ioHandler{
		io:    h.io,
		text:  h.text.WithGroup(name),
		level: h.level,
		attrs: h.attrs,
	}
}
