// Package corelog is the diagnostic hook used across the execution core.
// It follows the engine's own minimal logging convention: a package-level
// function variable that a host process can set during init() to capture
// diagnostics, rather than a logging framework dependency. Nothing in the
// core requires a logger to be installed; by default log lines are
// dropped.
package corelog

import "fmt"

// Level orders log severity from most to least chatty.
type Level int

const (
	Debug Level = iota
	Info
	Warn
	Error
)

func (l Level) String() string {
	switch l {
	case Debug:
		return "debug"
	case Info:
		return "info"
	case Warn:
		return "warn"
	case Error:
		return "error"
	default:
		return "log"
	}
}

// Sink receives a formatted log line tagged with its level and the
// component that emitted it.
type Sink func(level Level, component, msg string)

// Install sets the process-wide log sink. Passing nil disables logging.
var sink Sink

func Install(s Sink) { sink = s }

// MinLevel gates which levels reach the installed Sink. Default is Info,
// so Debug-level merge-pass chatter is silent unless explicitly enabled.
var MinLevel = Info

// Logger is a small per-component wrapper, mirroring how the engine scopes
// its diagnostic calls to the subsystem that produced them (sort, buffer
// manager, aggregator, ...).
type Logger struct {
	component string
}

// New returns a Logger tagged with component, e.g. "sortcore" or
// "pagestore".
func New(component string) Logger {
	return Logger{component: component}
}

func (l Logger) log(level Level, format string, args ...any) {
	if sink == nil || level < MinLevel {
		return
	}
	sink(level, l.component, fmt.Sprintf(format, args...))
}

func (l Logger) Debugf(format string, args ...any) { l.log(Debug, format, args...) }
func (l Logger) Infof(format string, args ...any)  { l.log(Info, format, args...) }
func (l Logger) Warnf(format string, args ...any)  { l.log(Warn, format, args...) }
func (l Logger) Errorf(format string, args ...any) { l.log(Error, format, args...) }
