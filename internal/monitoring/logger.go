// Package monitoring holds the ambient diagnostic logging layer for
// the push environment. Control code logs through it so tests and
// tools can redirect or mute output.
package monitoring

import "log"

// Logf is the package-level diagnostic logger. It defaults to
// log.Printf but may be replaced by SetLogger.
var Logf func(format string, v ...interface{}) = log.Printf

// verbose gates Debugf; the episode loop emits per-tick detail only
// when enabled.
var verbose bool

// SetLogger replaces the package logger. Passing nil installs a no-op
// logger.
func SetLogger(f func(format string, v ...interface{})) {
	if f == nil {
		Logf = func(string, ...interface{}) {}
		return
	}
	Logf = f
}

// SetVerbose toggles debug-level output.
func SetVerbose(v bool) { verbose = v }

// Debugf logs through Logf only when verbose output is enabled.
func Debugf(format string, v ...interface{}) {
	if verbose {
		Logf(format, v...)
	}
}
