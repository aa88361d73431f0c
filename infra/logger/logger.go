package logger

import (
	"sync/atomic"

	corelogger "github.com/kilianp07/skyops/core/logger"
)

// Logger mirrors the core logger interface.
type Logger = corelogger.Logger

// NopLogger discards everything.
type NopLogger = corelogger.Nop

var (
	level   atomic.Value
	console atomic.Bool
)

func init() { level.Store("info") }

// SetLevel sets the level used by loggers created afterwards. Unknown
// levels fall back to info.
func SetLevel(l string) { level.Store(l) }

// SetConsole switches loggers created afterwards to console output.
func SetConsole(on bool) { console.Store(on) }

// New returns a Logger for the given component. APP_ENV=dev also switches
// to console output.
func New(component string) Logger {
	return NewZerologLogger(component, Options{Level: level.Load().(string), Console: console.Load()})
}
