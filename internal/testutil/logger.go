// Package testutil holds shared test helpers.
package testutil

import (
	"bytes"
	"log/slog"
	"testing"
)

// Logger returns a debug-level slog logger routed into t.Log, so
// library log output is attached to the test that produced it and only
// surfaces on failure or under -v.
func Logger(t testing.TB) *slog.Logger {
	t.Helper()
	return slog.New(slog.NewTextHandler(&tbWriter{tb: t}, &slog.HandlerOptions{
		Level: slog.LevelDebug,
	}))
}

// tbWriter adapts testing.TB to io.Writer. The trailing newline slog
// appends is dropped since t.Log adds its own.
type tbWriter struct {
	tb testing.TB
}

func (w *tbWriter) Write(p []byte) (int, error) {
	w.tb.Helper()
	w.tb.Log(string(bytes.TrimRight(p, "\n")))
	return len(p), nil
}
