package log

import (
	"context"
	"io"
	"log/slog"
	"sync"
)

// DefaultMaxRepeats is how many times an identical warning message is
// emitted before further repeats are suppressed.
const DefaultMaxRepeats = 5

// ThrottleHandler wraps an slog.Handler and suppresses repeats of the same
// warning message beyond a threshold. Messages at other levels pass through
// untouched: errors are always worth seeing, and debug output is only on
// when the user asked for all of it.
//
// Design decision: We use a handler wrapper rather than a custom logger
// because:
//  1. It integrates seamlessly with standard slog APIs
//  2. It works with any underlying handler (text, JSON, etc.)
//  3. Call sites keep logging naturally; suppression is a presentation
//     concern, not a call-site concern
type ThrottleHandler struct {
	// handler is the underlying slog handler that receives passed records.
	handler slog.Handler

	// maxRepeats is the per-message emission budget.
	maxRepeats int

	// mu protects seen.
	mu *sync.Mutex

	// seen counts emissions per warning message.
	seen map[string]int
}

// NewThrottleHandler creates a ThrottleHandler wrapping the given handler.
// If handler is nil, slog.Default().Handler() is used.
func NewThrottleHandler(handler slog.Handler, maxRepeats int) *ThrottleHandler {
	if handler == nil {
		handler = slog.Default().Handler()
	}
	if maxRepeats <= 0 {
		maxRepeats = DefaultMaxRepeats
	}
	return &ThrottleHandler{
		handler:    handler,
		maxRepeats: maxRepeats,
		mu:         &sync.Mutex{},
		seen:       make(map[string]int),
	}
}

// Enabled reports whether the handler handles records at the given level.
// It delegates to the underlying handler.
func (h *ThrottleHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.handler.Enabled(ctx, level)
}

// Handle passes the record through unless it is a warning whose message has
// already been emitted maxRepeats times. The final allowed repeat is
// annotated so the reader knows suppression kicked in.
func (h *ThrottleHandler) Handle(ctx context.Context, r slog.Record) error {
	if r.Level != slog.LevelWarn {
		return h.handler.Handle(ctx, r)
	}

	h.mu.Lock()
	count := h.seen[r.Message]
	if count >= h.maxRepeats {
		h.mu.Unlock()
		return nil
	}
	h.seen[r.Message] = count + 1
	h.mu.Unlock()

	if count == h.maxRepeats-1 {
		r.AddAttrs(slog.Bool("furtherRepeatsSuppressed", true))
	}
	return h.handler.Handle(ctx, r)
}

// WithAttrs returns a new handler with the given attributes added.
// The repeat counter is shared so attribute-scoped loggers do not reset
// the suppression budget.
func (h *ThrottleHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &ThrottleHandler{
		handler:    h.handler.WithAttrs(attrs),
		maxRepeats: h.maxRepeats,
		mu:         h.mu,
		seen:       h.seen,
	}
}

// WithGroup returns a new handler with the given group name.
func (h *ThrottleHandler) WithGroup(name string) slog.Handler {
	return &ThrottleHandler{
		handler:    h.handler.WithGroup(name),
		maxRepeats: h.maxRepeats,
		mu:         h.mu,
		seen:       h.seen,
	}
}

// NewLogger creates the scraper's logger: a text handler on w wrapped with
// warning throttling. Verbose selects debug level, otherwise info (the run
// summary and per-page skips should be visible by default).
func NewLogger(w io.Writer, verbose bool) *slog.Logger {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}

	textHandler := slog.NewTextHandler(w, &slog.HandlerOptions{Level: level})
	return slog.New(NewThrottleHandler(textHandler, DefaultMaxRepeats))
}
