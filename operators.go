package rpn

import "math"

type opKind int

const (
	opCompute opKind = iota // pop in operands, push the result onto the remaining expression
	opDiscard               // pop in operands, push nothing
	opSwap                  // exchange the top two operands in place
	opStore                 // bind the top operand to the next expression token
)

// operator describes one registered name: how many operands it takes from
// the work stack (in) and how many results it produces (out).
type operator struct {
	name    string
	kind    opKind
	in, out int

	// compute receives its operands in expression order, so for "a b -" it
	// is called with [a b].
	compute func(args []float64) (float64, error)
}

var operators = map[string]operator{}

func init() {
	for _, op := range []operator{
		binary("+", func(a, b float64) (float64, error) { return a + b, nil }),
		binary("-", func(a, b float64) (float64, error) { return a - b, nil }),
		binary("*", func(a, b float64) (float64, error) { return a * b, nil }),
		binary("/", func(a, b float64) (float64, error) {
			if b == 0 {
				return 0, ErrDivisionByZero
			}
			return a / b, nil
		}),
		unary("sin", pure(math.Sin)),
		unary("cos", pure(math.Cos)),
		unary("tan", pure(math.Tan)),
		unary("sqrt", func(a float64) (float64, error) {
			if a < 0 {
				return 0, ErrNegativeSqrt
			}
			return math.Sqrt(a), nil
		}),
		{name: "pop", kind: opDiscard, in: 1},
		{name: "swap", kind: opSwap, in: 2, out: 2},
		{name: "sto", kind: opStore, in: 1, out: 1},
	} {
		operators[op.name] = op
	}
}

func binary(name string, f func(a, b float64) (float64, error)) operator {
	return operator{name: name, kind: opCompute, in: 2, out: 1, compute: func(args []float64) (float64, error) {
		return f(args[0], args[1])
	}}
}

func unary(name string, f func(a float64) (float64, error)) operator {
	return operator{name: name, kind: opCompute, in: 1, out: 1, compute: func(args []float64) (float64, error) {
		return f(args[0])
	}}
}

func pure(f func(float64) float64) func(float64) (float64, error) {
	return func(a float64) (float64, error) { return f(a), nil }
}

func lookupOperator(name string) (operator, bool) {
	op, ok := operators[name]
	return op, ok
}

var constants = map[string]float64{
	"pi": math.Pi,
}
