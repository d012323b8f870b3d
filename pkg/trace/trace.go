// Package trace provides the interpreter's logging surface, used by the
// CLI's verbose instruction trace and single-step debug mode. It wraps
// the standard log package the same way the teacher's command-line tools
// do: no timestamp prefix, fatal errors go straight to stderr and exit.
package trace

import (
	"log"
	"os"
)

// Logger is a thin, swappable wrapper over *log.Logger so the CLI can
// silence tracing entirely when -v/-d are not set, without sprinkling
// conditionals at every call site.
type Logger struct {
	enabled bool
	std     *log.Logger
}

// New returns a Logger writing to stderr with no timestamp, matching the
// teacher's log.SetFlags(0) convention. Tracing is off by default.
func New() *Logger {
	return &Logger{std: log.New(os.Stderr, "", 0)}
}

// SetEnabled turns instruction tracing on or off.
func (l *Logger) SetEnabled(v bool) {
	l.enabled = v
}

// Enabled reports whether tracing is currently on.
func (l *Logger) Enabled() bool {
	return l.enabled
}

// Tracef logs a trace line when tracing is enabled; it is a no-op
// otherwise.
func (l *Logger) Tracef(format string, args ...any) {
	if !l.enabled {
		return
	}
	l.std.Printf(format, args...)
}

// Printf logs unconditionally, regardless of tracing being enabled — for
// one-off status lines (e.g. a tty console attaching) that should show up
// whether or not -v/-d was passed.
func (l *Logger) Printf(format string, args ...any) {
	l.std.Printf(format, args...)
}

// Fatalf logs and exits the process, matching log.Fatal's behavior in
// the teacher's cmd/asm, cmd/vm, and cmd/interp entry points.
func (l *Logger) Fatalf(format string, args ...any) {
	l.std.Fatalf(format, args...)
}
