// Package cli implements the cargometa command-line interface.
//
// The commands run cargo metadata through pkg/cargo and present the
// result: the decoded report as JSON, tables of targets and dependencies, the
// resolve graph as DOT, SVG, PDF or PNG, and an interactive package picker.
// The CLI is built using cobra and logs via the charmbracelet/log library.
//
// # Commands
//
//   - metadata: Print the decoded report as JSON
//   - targets: List the build targets of workspace members
//   - deps: List declared dependencies, optionally checking a version
//   - graph: Render the resolved dependency graph
//   - browse: Pick a workspace member interactively
//
// # Configuration
//
// Defaults for the cargo invocation are read from cargometa.toml in the
// working directory or from the user config dir. Flags override them.
//
// # Logging
//
// All commands support --verbose (-v) for debug-level logging. Loggers are
// passed through context.Context to allow structured progress tracking.
package cli

import (
	"context"
	"io"
	"time"

	"github.com/charmbracelet/log"
)

// newLogger returns a logger writing to w with "15:04:05.00" timestamps.
func newLogger(w io.Writer, level log.Level) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05.00",
		Level:           level,
	})
}

// progress times one cargo run.
type progress struct {
	logger *log.Logger
	start  time.Time
}

func newProgress(l *log.Logger) *progress {
	return &progress{logger: l, start: time.Now()}
}

// done logs msg at info level with keyvals and the elapsed time, e.g.
//
//	INFO loaded metadata packages=5 members=1 elapsed=412ms
func (p *progress) done(msg string, keyvals ...any) {
	keyvals = append(keyvals, "elapsed", time.Since(p.start).Round(time.Millisecond))
	p.logger.Info(msg, keyvals...)
}

type ctxKey int

const loggerKey ctxKey = 0

// withLogger attaches l to ctx for loggerFromContext.
func withLogger(ctx context.Context, l *log.Logger) context.Context {
	return context.WithValue(ctx, loggerKey, l)
}

// loggerFromContext returns the logger attached by withLogger, or
// log.Default() when there is none.
func loggerFromContext(ctx context.Context) *log.Logger {
	if l, ok := ctx.Value(loggerKey).(*log.Logger); ok {
		return l
	}
	return log.Default()
}
