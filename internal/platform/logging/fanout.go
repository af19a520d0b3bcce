package logging

import (
	"context"
	"errors"
	"log/slog"
)

// sink is one destination of a fanout handler with its own minimum level.
type sink struct {
	handler slog.Handler
	level   slog.Leveler
}

// fanoutHandler duplicates every record to each sink whose level admits it.
// The console and the rolling file are the two sinks in practice; the file
// keeps JSON even when the console is pretty-printed.
type fanoutHandler struct {
	sinks []sink
}

func newFanout(sinks ...sink) *fanoutHandler {
	return &fanoutHandler{sinks: sinks}
}

func (h *fanoutHandler) Enabled(ctx context.Context, level slog.Level) bool {
	for _, s := range h.sinks {
		if s.admits(ctx, level) {
			return true
		}
	}

	return false
}

// Handle writes r to every admitting sink and joins their errors.
func (h *fanoutHandler) Handle(ctx context.Context, r slog.Record) error { //nolint:gocritic // slog.Handler interface requires value
	var errs []error

	for _, s := range h.sinks {
		if !s.admits(ctx, r.Level) {
			continue
		}

		if err := s.handler.Handle(ctx, r.Clone()); err != nil {
			errs = append(errs, err)
		}
	}

	return errors.Join(errs...)
}

func (h *fanoutHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return h.derive(func(inner slog.Handler) slog.Handler { return inner.WithAttrs(attrs) })
}

func (h *fanoutHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}

	return h.derive(func(inner slog.Handler) slog.Handler { return inner.WithGroup(name) })
}

func (h *fanoutHandler) derive(fn func(slog.Handler) slog.Handler) *fanoutHandler {
	sinks := make([]sink, len(h.sinks))
	for i, s := range h.sinks {
		sinks[i] = sink{handler: fn(s.handler), level: s.level}
	}

	return newFanout(sinks...)
}

func (s sink) admits(ctx context.Context, level slog.Level) bool {
	if s.level != nil && level < s.level.Level() {
		return false
	}

	return s.handler.Enabled(ctx, level)
}
