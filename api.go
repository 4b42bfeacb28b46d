package rpn

import (
	"errors"
	"strings"

	"github.com/jcorbin/gorpn/internal/panicerr"
)

// New returns an evaluator for expr. Construction never fails: an empty or
// otherwise unusable expression is reported when it is solved.
func New(expr string, opts ...Option) *Expr {
	var e Expr
	defaultOptions.apply(&e)
	Options(opts).apply(&e)
	e.tokens = tokenize(expr, e.delim)
	return &e
}

// Solve evaluates expr with a fresh evaluator; ok is false if there is no
// result.
func Solve(expr string, opts ...Option) (v float64, ok bool) {
	return New(expr, opts...).Solve()
}

// Solve evaluates the expression; ok is false if there is no result.
func (e *Expr) Solve() (v float64, ok bool) {
	v, err := e.Eval()
	return v, err == nil
}

// Eval evaluates the expression, returning a non-nil error if there is no
// result. Any evaluation failure matches one of the Err* values under
// errors.Is.
func (e *Expr) Eval() (float64, error) {
	var v float64
	err := panicerr.Recover("rpn", func() error {
		v = e.solve()
		return nil
	})
	var halt haltError
	if errors.As(err, &halt) {
		err = halt.error
	}
	if e.metrics != nil {
		e.metrics.RecordSolve(len(e.tokens), err)
	}
	if err != nil {
		e.logf("!", "no result: %v", err)
		return 0, err
	}
	e.logf("=", "%v", formatNumber(v))
	return v, nil
}

// String returns the normalized expression, tokens joined by single spaces.
func (e *Expr) String() string { return strings.Join(e.tokens, " ") }

// Tokens returns a copy of the normalized expression tokens.
func (e *Expr) Tokens() []string { return append([]string(nil), e.tokens...) }

// Lookup returns the value last bound to name by sto.
func (e *Expr) Lookup(name string) (float64, bool) {
	v, ok := e.vars[strings.ToLower(name)]
	return v, ok
}

// Vars returns a copy of every binding made by sto.
func (e *Expr) Vars() map[string]float64 {
	vars := make(map[string]float64, len(e.vars))
	for name, v := range e.vars {
		vars[name] = v
	}
	return vars
}

// WithDelimiter splits expressions on delim rather than on runs of
// whitespace; each piece is trimmed of surrounding space and empty pieces are
// ignored.
func WithDelimiter(delim string) Option { return withDelimiter(delim) }

// WithDiagnostics sets a sink for non-fatal notices about domain errors and
// invalid sto targets.
func WithDiagnostics(sink func(Diagnostic)) Option { return withDiagnostics(sink) }

// WithMetrics records evaluation outcomes into m.
func WithMetrics(m Metrics) Option { return withMetrics{m} }

// WithLogf enables step-by-step trace logging.
func WithLogf(logfn func(mess string, args ...interface{})) Option { return withLogfn(logfn) }
