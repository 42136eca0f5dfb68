// Package logs builds the structured logger shared by the cadence hosts.
package logs

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/google/uuid"
	slogmulti "github.com/samber/slog-multi"
)

// Level is shared by every handler New builds, so a level change applies to
// all outputs at once.
var Level = new(slog.LevelVar)

type Logger = *slog.Logger

// Options selects the log outputs. Nil writers are skipped.
type Options struct {
	// Text receives human-readable key=value lines
	Text io.Writer
	// JSON receives one JSON object per record
	JSON io.Writer
}

// New returns a logger fanning out to every configured writer. With no
// writers it returns a logger that discards everything.
func New(opts Options) Logger {
	var handlers []slog.Handler

	if opts.Text != nil {
		handlers = append(handlers, slog.NewTextHandler(opts.Text, &slog.HandlerOptions{
			Level: Level,
		}))
	}
	if opts.JSON != nil {
		handlers = append(handlers, slog.NewJSONHandler(opts.JSON, &slog.HandlerOptions{
			Level: Level,
		}))
	}
	if len(handlers) == 0 {
		handlers = append(handlers, slog.NewTextHandler(io.Discard, nil))
	}

	return slog.New(&Handler{
		Handler: slogmulti.Fanout(handlers...),
	})
}

// SetLevel parses debug, info, warn or error and applies it to Level.
func SetLevel(name string) error {
	switch strings.ToLower(name) {
	case "debug":
		Level.Set(slog.LevelDebug)
	case "info", "":
		Level.Set(slog.LevelInfo)
	case "warn", "warning":
		Level.Set(slog.LevelWarn)
	case "error":
		Level.Set(slog.LevelError)
	default:
		return fmt.Errorf("unknown log level %q", name)
	}
	return nil
}

// Run identifies one host session, film reel or trace.
type Run string

type runKey struct{}

// RunKey is the attribute key Handler adds for the context's run.
const RunKey = "cadence.run"

// NewRun returns a context carrying a fresh run ID.
func NewRun(ctx context.Context) (context.Context, Run) {
	run := Run(uuid.NewString())
	return context.WithValue(ctx, runKey{}, run), run
}

// RunFrom returns the run carried by ctx, if any.
func RunFrom(ctx context.Context) (Run, bool) {
	run, ok := ctx.Value(runKey{}).(Run)
	return run, ok
}
