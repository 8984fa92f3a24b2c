// Package logging implements the three error severities from rofi's error
// handling design: user-input warnings accumulated in a Buffer,
// recoverable runtime errors that degrade a mode, and fatal errors that
// terminate the process.
package logging

import (
	"fmt"
	"log"
	"os"
	"sync"

	"github.com/pkg/errors"
)

// Severity classifies an error the way the core's error handling design
// does: Warn accumulates into a Buffer (no error-dialog view shows it),
// Recoverable is logged and the caller degrades gracefully, Fatal prints to
// stderr and the process exits.
type Severity int

const (
	Warn Severity = iota
	Recoverable
	Fatal
)

func (s Severity) String() string {
	switch s {
	case Warn:
		return "warning"
	case Recoverable:
		return "error"
	case Fatal:
		return "fatal"
	default:
		return "unknown"
	}
}

// Event pairs a severity with its wrapped cause, mirroring the way
// tcell's EventError carries an error payload.
type Event struct {
	Severity Severity
	Err      error
}

func (e *Event) Error() string {
	return fmt.Sprintf("%s: %v", e.Severity, e.Err)
}

// Unwrap lets errors.Is/As see through Event to the wrapped cause.
func (e *Event) Unwrap() error {
	return e.Err
}

// Buffer accumulates user-input warnings. cmd/rofi prints the warnings
// recorded while loading the config to stderr and then opens the normal
// view; no error-dialog view is pushed.
type Buffer struct {
	mu     sync.Mutex
	events []*Event
}

// Warn records a warning (bad regex, bad key binding, bad config value).
func (b *Buffer) Warn(format string, args ...interface{}) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.events = append(b.events, &Event{Severity: Warn, Err: errors.Errorf(format, args...)})
}

// WarnErr records a warning that wraps an existing error.
func (b *Buffer) WarnErr(err error, context string) {
	if err == nil {
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	b.events = append(b.events, &Event{Severity: Warn, Err: errors.Wrap(err, context)})
}

// Events returns a snapshot of the accumulated warnings.
func (b *Buffer) Events() []*Event {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]*Event, len(b.events))
	copy(out, b.events)
	return out
}

// Empty reports whether no warnings have been recorded.
func (b *Buffer) Empty() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.events) == 0
}

// Reset clears the buffer.
func (b *Buffer) Reset() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.events = nil
}

// Recover logs a recoverable runtime error: script exec failed, a display
// property was missing, etc. The caller is expected to degrade (empty
// list, skip the feature) rather than abort.
func Recover(context string, err error) {
	if err == nil {
		return
	}
	log.Printf("%s: %+v", Recoverable, errors.Wrap(err, context))
}

// Die logs a fatal error (cannot connect to display, cannot allocate a
// surface, worker pool creation failed) and terminates the process with
// exit code 1.
func Die(context string, err error) {
	log.Printf("%s: %+v", Fatal, errors.Wrap(err, context))
	os.Exit(1)
}
