// Package panicerr turns panics into ordinary error values, so that a bug
// surfacing deep inside some computation can be reported alongside normal
// failures instead of taking down the process.
package panicerr

import (
	"errors"
	"fmt"
	"runtime/debug"
)

// panicError records a recovered panic value, the name of the computation it
// came from, and the stack at the point of recovery.
type panicError struct {
	name  string
	value interface{}
	stack []byte
}

func newPanicError(name string, value interface{}) error {
	return panicError{name, value, debug.Stack()}
}

func (pe panicError) Error() string { return fmt.Sprint(pe) }

// Format prints "name paniced: value"; the %+v verb appends the stack.
func (pe panicError) Format(f fmt.State, c rune) {
	if pe.name != "" {
		fmt.Fprintf(f, "%v ", pe.name)
	}
	fmt.Fprintf(f, "paniced: %v", pe.value)
	if c == 'v' && f.Flag('+') {
		fmt.Fprintf(f, "\nPanic stack: %s", pe.stack)
	}
}

// Unwrap exposes a panic(err) value to errors.Is and errors.As.
func (pe panicError) Unwrap() error {
	err, _ := pe.value.(error)
	return err
}

// IsPanic reports whether err came from a recovered panic rather than a
// normal error return.
func IsPanic(err error) bool {
	var pe panicError
	return errors.As(err, &pe)
}

// PanicStack returns the stack captured when err was recovered, or "" if err
// is not a recovered panic.
func PanicStack(err error) string {
	var pe panicError
	if errors.As(err, &pe) {
		return string(pe.stack)
	}
	return ""
}
