package cli

import (
	"context"
	"io"
	"time"

	"github.com/charmbracelet/log"
)

// newLogger creates a new logger with timestamp formatting.
// Timestamps are formatted as "HH:MM:SS.ms" (e.g., "14:32:01.45").
func newLogger(w io.Writer, level log.Level) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05.00",
		Level:           level,
	})
}

// progress tracks the start time of an operation and logs completion with elapsed duration.
type progress struct {
	logger *log.Logger
	start  time.Time
}

func newProgress(l *log.Logger) *progress {
	return &progress{logger: l, start: time.Now()}
}

// done logs msg along with the elapsed time, e.g. "Rendered graph (12ms)".
func (p *progress) done(msg string) {
	p.logger.Infof("%s (%s)", msg, time.Since(p.start).Round(time.Millisecond))
}

// =============================================================================
// Observability Hooks
// =============================================================================

// logHooks writes pipeline, cache and HTTP events to the debug log.
type logHooks struct {
	logger *log.Logger
}

func (h *logHooks) OnSplitStart(_ context.Context, entities int) {
	h.logger.Debug("split started", "entities", entities)
}

func (h *logHooks) OnSplitComplete(_ context.Context, parts int, cost float64, d time.Duration, err error) {
	if err != nil {
		h.logger.Debug("split failed", "error", err, "duration", d)
		return
	}
	h.logger.Debug("split done", "parts", parts, "cost", cost, "duration", d)
}

func (h *logHooks) OnDecomposeStart(_ context.Context, entities int) {
	h.logger.Debug("decompose started", "entities", entities)
}

func (h *logHooks) OnDecomposeComplete(_ context.Context, parts, rounds int, d time.Duration, err error) {
	if err != nil {
		h.logger.Debug("decompose failed", "error", err, "duration", d)
		return
	}
	h.logger.Debug("decompose done", "parts", parts, "rounds", rounds, "duration", d)
}

func (h *logHooks) OnCacheHit(_ context.Context, keyType string) {
	h.logger.Debug("cache hit", "type", keyType)
}

func (h *logHooks) OnCacheMiss(_ context.Context, keyType string) {
	h.logger.Debug("cache miss", "type", keyType)
}

func (h *logHooks) OnCacheSet(_ context.Context, keyType string, size int) {
	h.logger.Debug("cache set", "type", keyType, "bytes", size)
}

func (h *logHooks) OnRequest(_ context.Context, method, path string) {
	h.logger.Debug("request", "method", method, "path", path)
}

func (h *logHooks) OnResponse(_ context.Context, method, path string, status int, d time.Duration) {
	h.logger.Info("response", "method", method, "path", path, "status", status, "duration", d)
}
