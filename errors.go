package rpn

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrEmpty              = errors.New("empty expression")
	ErrIncomplete         = errors.New("incomplete expression")
	ErrStackUnderflow     = errors.New("stack underflow")
	ErrUnknownToken       = errors.New("unknown token")
	ErrDomain             = errors.New("domain error")
	ErrInvalidStoreTarget = errors.New("invalid store target")
	ErrMalformedNumber    = errors.New("malformed number")

	ErrDivisionByZero = fmt.Errorf("%w: division by zero", ErrDomain)
	ErrNegativeSqrt   = fmt.Errorf("%w: square root of negative number", ErrDomain)
)

// TokenError records the operator and token involved in an evaluation
// failure. Err is always one of, or wraps one of, the package Err* values.
type TokenError struct {
	Op    string
	Token string
	Err   error
}

func (te *TokenError) Error() string {
	var sb strings.Builder
	if te.Op != "" {
		sb.WriteString(te.Op)
		sb.WriteString(": ")
	}
	sb.WriteString(te.Err.Error())
	if te.Token != "" {
		fmt.Fprintf(&sb, " %q", te.Token)
	}
	return sb.String()
}

func (te *TokenError) Unwrap() error { return te.Err }

// haltError carries a failure out of the evaluation loop by panic.
type haltError struct{ error }

func (err haltError) Error() string {
	if err.error != nil {
		return fmt.Sprintf("halted: %v", err.error)
	}
	return "halted"
}
func (err haltError) Unwrap() error { return err.error }

var errKinds = []struct {
	err  error
	kind string
}{
	{ErrEmpty, "empty"},
	{ErrIncomplete, "incomplete"},
	{ErrStackUnderflow, "stack_underflow"},
	{ErrUnknownToken, "unknown_token"},
	{ErrDomain, "domain"},
	{ErrInvalidStoreTarget, "invalid_store_target"},
	{ErrMalformedNumber, "malformed_number"},
}

// ErrorKind returns a short stable name for the class of err, as used in
// metric attributes; "" for a nil error and "internal" for anything that is
// not an evaluation failure.
func ErrorKind(err error) string {
	if err == nil {
		return ""
	}
	for _, ek := range errKinds {
		if errors.Is(err, ek.err) {
			return ek.kind
		}
	}
	return "internal"
}

// Diagnostic is a non-fatal notice about an evaluation problem, delivered to
// the sink given by WithDiagnostics before the evaluation reports failure.
type Diagnostic struct {
	Op    string
	Token string
	Err   error
}

func (d Diagnostic) String() string {
	return (&TokenError{Op: d.Op, Token: d.Token, Err: d.Err}).Error()
}
