package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
)

// levelRouter sends records below ERROR to out and the rest to errOut.
// Records below level are dropped.
type levelRouter struct {
	level  slog.Leveler
	out    slog.Handler
	errOut slog.Handler
}

func newLevelRouter(out, errOut io.Writer, level slog.Leveler) *levelRouter {
	opts := &slog.HandlerOptions{Level: level}
	return &levelRouter{
		level:  level,
		out:    slog.NewTextHandler(out, opts),
		errOut: slog.NewTextHandler(errOut, opts),
	}
}

func (lr *levelRouter) Enabled(_ context.Context, level slog.Level) bool {
	return level >= lr.level.Level()
}

func (lr *levelRouter) Handle(ctx context.Context, r slog.Record) error {
	h := lr.out
	if r.Level >= slog.LevelError {
		h = lr.errOut
	}
	return h.Handle(ctx, r)
}

func (lr *levelRouter) WithAttrs(attrs []slog.Attr) slog.Handler {
	return lr.derive(func(h slog.Handler) slog.Handler { return h.WithAttrs(attrs) })
}

func (lr *levelRouter) WithGroup(name string) slog.Handler {
	return lr.derive(func(h slog.Handler) slog.Handler { return h.WithGroup(name) })
}

func (lr *levelRouter) derive(f func(slog.Handler) slog.Handler) *levelRouter {
	return &levelRouter{level: lr.level, out: f(lr.out), errOut: f(lr.errOut)}
}

// setupLogger installs the default logger at level. When logPath is set,
// every record is also appended to that file; the returned func closes it.
func setupLogger(logPath string, level slog.Level) (func(), error) {
	var out, errOut io.Writer = os.Stdout, os.Stderr
	cleanup := func() {}

	if logPath != "" {
		f, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, fmt.Errorf("opening log file: %w", err)
		}
		cleanup = func() { f.Close() }
		out = io.MultiWriter(out, f)
		errOut = io.MultiWriter(errOut, f)
	}

	slog.SetDefault(slog.New(newLevelRouter(out, errOut, level)))
	return cleanup, nil
}
