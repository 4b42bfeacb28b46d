package rpn

// Option customizes an Expr at construction.
type Option interface{ apply(e *Expr) }

// Options combines any number of options into one, applied in order.
type Options []Option

func (opts Options) apply(e *Expr) {
	for _, opt := range opts {
		if opt != nil {
			opt.apply(e)
		}
	}
}

var defaultOptions = Options{
	withDelimiter(""),
	withMetrics{NoopMetrics{}},
}

type withLogfn func(mess string, args ...interface{})
type withDiagnostics func(Diagnostic)
type withDelimiter string
type withMetrics struct{ Metrics }

func (logfn withLogfn) apply(e *Expr) { e.logfn = logfn }

func (sink withDiagnostics) apply(e *Expr) { e.diag = sink }

func (delim withDelimiter) apply(e *Expr) { e.delim = string(delim) }

func (m withMetrics) apply(e *Expr) {
	if m.Metrics == nil {
		e.metrics = NoopMetrics{}
	} else {
		e.metrics = m.Metrics
	}
}
