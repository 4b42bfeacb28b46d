package rpn

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"unicode"
)

// Expr is an RPN expression together with the variables bound while solving
// it. The zero value is an empty expression; use New.
type Expr struct {
	logging

	delim   string
	diag    func(Diagnostic)
	metrics Metrics

	// normalized tokens in expression order, never consumed
	tokens []string

	// bindings made by sto, kept across Solve calls
	vars map[string]float64

	// The remaining expression: a stack whose top is the leftmost token not
	// yet consumed. Operator results are pushed back on top of it.
	rest []string

	// The work stack holds operands awaiting an operator.
	work []float64
}

func tokenize(expr, delim string) []string {
	expr = strings.ToLower(expr)
	if delim == "" {
		return strings.Fields(expr)
	}
	var tokens []string
	for _, token := range strings.Split(expr, strings.ToLower(delim)) {
		if token = strings.TrimSpace(token); token != "" {
			tokens = append(tokens, token)
		}
	}
	return tokens
}

func (e *Expr) halt(err error) {
	e.logf("#", "halt: %v", err)
	panic(haltError{err})
}

func (e *Expr) reset() {
	e.rest = e.rest[:0]
	for i := len(e.tokens) - 1; i >= 0; i-- {
		e.rest = append(e.rest, e.tokens[i])
	}
	e.work = e.work[:0]
}

func (e *Expr) next() (token string, ok bool) {
	i := len(e.rest) - 1
	if i < 0 {
		return "", false
	}
	token, e.rest = e.rest[i], e.rest[:i]
	return token, true
}

func (e *Expr) unshift(v float64) {
	e.rest = append(e.rest, formatNumber(v))
}

// emit pushes the result of op back onto the remaining expression, unless op
// produces nothing.
func (e *Expr) emit(op operator, v float64) {
	if op.out > 0 {
		e.unshift(v)
	}
}

func (e *Expr) push(v float64) {
	e.work = append(e.work, v)
}

// popN pops n operands for op, returning them in expression order.
func (e *Expr) popN(op string, n int) []float64 {
	i := len(e.work) - n
	if i < 0 {
		e.halt(&TokenError{Op: op, Err: ErrStackUnderflow})
	}
	args := append([]float64(nil), e.work[i:]...)
	e.work = e.work[:i]
	return args
}

func (e *Expr) solve() float64 {
	if len(e.tokens) == 0 {
		e.halt(ErrEmpty)
	}
	e.reset()
	for {
		if len(e.rest) == 1 && len(e.work) == 0 {
			if _, isOp := lookupOperator(e.rest[0]); !isOp {
				token, _ := e.next()
				return e.value(token)
			}
		}

		token, ok := e.next()
		if !ok && len(e.work) == 1 {
			return e.work[0]
		} else if !ok {
			e.halt(fmt.Errorf("%w: %d operands left unused", ErrIncomplete, len(e.work)))
		}
		if e.logfn != nil {
			e.logf(">", "%v -- rest:%v work:%v", token, e.restView(), e.work)
		}
		if op, isOp := lookupOperator(token); isOp {
			e.apply(op)
		} else {
			e.push(e.value(token))
		}
	}
}

func (e *Expr) apply(op operator) {
	switch op.kind {
	case opCompute:
		args := e.popN(op.name, op.in)
		v, err := op.compute(args)
		if err != nil {
			e.reject(op.name, formatNumber(args[len(args)-1]), err)
		}
		e.emit(op, v)

	case opDiscard:
		e.popN(op.name, op.in)

	case opSwap:
		args := e.popN(op.name, op.in)
		e.push(args[1])
		e.push(args[0])

	case opStore:
		args := e.popN(op.name, op.in)
		name, ok := e.next()
		if !ok {
			e.reject(op.name, "", fmt.Errorf("%w: missing name", ErrInvalidStoreTarget))
		}
		if !e.storable(name) {
			e.reject(op.name, name, ErrInvalidStoreTarget)
		}
		if e.vars == nil {
			e.vars = make(map[string]float64)
		}
		e.vars[name] = args[0]
		if e.metrics != nil {
			e.metrics.RecordStore()
		}
		e.logf("$", "%v = %v", name, formatNumber(args[0]))
		e.emit(op, args[0])

	default:
		e.halt(fmt.Errorf("invalid operator kind %d for %q", op.kind, op.name))
	}
}

// reject reports a diagnostic before halting with the same failure.
func (e *Expr) reject(op, token string, err error) {
	if e.diag != nil {
		e.diag(Diagnostic{Op: op, Token: token, Err: err})
	}
	e.halt(&TokenError{Op: op, Token: token, Err: err})
}

// value resolves an operand token: a bound variable, a named constant, or a
// numeric literal.
func (e *Expr) value(token string) float64 {
	if v, ok := e.vars[token]; ok {
		return v
	}
	if v, ok := constants[token]; ok {
		return v
	}
	v, err := strconv.ParseFloat(token, 64)
	if err == nil {
		return v
	}
	if looksNumeric(token) {
		var numErr *strconv.NumError
		if errors.As(err, &numErr) {
			err = numErr.Err
		}
		e.halt(&TokenError{Token: token, Err: fmt.Errorf("%w: %v", ErrMalformedNumber, err)})
	}
	e.halt(&TokenError{Token: token, Err: ErrUnknownToken})
	return 0
}

// storable returns true if name may be bound by sto: an identifier that is
// neither an operator, a constant, nor a number.
func (e *Expr) storable(name string) bool {
	if _, isOp := lookupOperator(name); isOp {
		return false
	}
	if _, isConst := constants[name]; isConst {
		return false
	}
	if _, err := strconv.ParseFloat(name, 64); err == nil {
		return false
	}
	return isIdentifier(name)
}

func isIdentifier(s string) bool {
	for i, r := range s {
		switch {
		case r == '_' || unicode.IsLetter(r):
		case i > 0 && unicode.IsDigit(r):
		default:
			return false
		}
	}
	return s != ""
}

func looksNumeric(token string) bool {
	token = strings.TrimLeft(token, "+-")
	return token != "" && (token[0] == '.' || token[0] >= '0' && token[0] <= '9')
}

// restView returns the remaining expression in expression order.
func (e *Expr) restView() []string {
	view := make([]string, len(e.rest))
	for i, token := range e.rest {
		view[len(view)-1-i] = token
	}
	return view
}

func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}

type logging struct {
	logfn func(mess string, args ...interface{})
}

func (log logging) logf(mark, mess string, args ...interface{}) {
	if log.logfn == nil {
		return
	}
	if len(args) > 0 {
		mess = fmt.Sprintf(mess, args...)
	}
	log.logfn("%v %v", mark, mess)
}
