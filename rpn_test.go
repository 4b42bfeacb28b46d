package rpn

import (
	"errors"
	"fmt"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jcorbin/gorpn/internal/panicerr"
)

const tolerance = 1e-12

func TestSolve(t *testing.T) {
	for _, tc := range []struct {
		name  string
		expr  string
		opts  []Option
		want  float64
		exact bool
	}{
		{name: "add", expr: "1 1 +", want: 2, exact: true},
		{name: "mul of sum", expr: "0.5 1 2 + *", want: 1.5, exact: true},
		{name: "sin", expr: "1 2 + 3 * sin", want: math.Sin(9), exact: true},
		{name: "cos", expr: "2 cos", want: math.Cos(2), exact: true},
		{name: "tan", expr: "10 3 1 2 / * - tan", want: math.Tan(10 - 3*0.5), exact: true},
		{
			name: "comma delimited",
			expr: "10,3,1,2,/,*,-,tan",
			opts: []Option{WithDelimiter(",")},
			want: math.Tan(10 - 3*0.5),
		},
		{
			name: "spaced delimiter",
			expr: "10 ; 3;1;2 ;/;*;-;;tan",
			opts: []Option{WithDelimiter(";")},
			want: math.Tan(10 - 3*0.5),
		},
		{
			name: "complex",
			expr: "0.2 10.24 pi * 180 / * 10.24 pi * 180 / sin /",
			want: 0.2 * (10.24 * math.Pi) / 180 / math.Sin(10.24*math.Pi/180),
		},
		{name: "pi", expr: "1 pi *", want: math.Pi, exact: true},
		{name: "PI", expr: "1 PI *", want: math.Pi, exact: true},
		{name: "bare pi", expr: "Pi", want: math.Pi, exact: true},
		{name: "sqrt", expr: "4.0 sqrt", want: 2, exact: true},
		{name: "sqrt 2", expr: "2.0 sqrt", want: math.Sqrt2, exact: true},
		{name: "single number", expr: "  42  ", want: 42, exact: true},
		{name: "sub order", expr: "10 4 -", want: 6, exact: true},
		{name: "div order", expr: "1 4 /", want: 0.25, exact: true},
		{name: "swap", expr: "4 10 swap -", want: 6, exact: true},
		{name: "pop", expr: "1 2 pop 3 +", want: 4, exact: true},
		{name: "sto", expr: "1 2 + sto three", want: 3, exact: true},
		{name: "sto then recall", expr: "1 2 + sto three pop three sin", want: math.Sin(3), exact: true},
		{name: "sto case", expr: "5 STO Five pop FIVE five *", want: 25, exact: true},
		{name: "sto overwrite", expr: "1 sto x pop 2 sto x pop x", want: 2, exact: true},
		{name: "sto mid expression", expr: "2 sto two 3 *", want: 6, exact: true},
		{name: "negative literal", expr: "-1.5 2 *", want: -3, exact: true},
		{name: "exponent literal", expr: "1e3 1E-3 *", want: 1},
		{name: "trailing pop", expr: "1 2 pop", want: 1, exact: true},
		{name: "trailing swap", expr: "1 2 swap pop", want: 2, exact: true},
		{name: "third", expr: "1 3 /", want: 1.0 / 3, exact: true},
	} {
		t.Run(tc.name, func(t *testing.T) {
			v, ok := Solve(tc.expr, tc.opts...)
			require.True(t, ok, "expected a result")
			if tc.exact {
				assert.Equal(t, tc.want, v)
			} else {
				assert.InDelta(t, tc.want, v, tolerance)
			}
		})
	}
}

func TestEval_failures(t *testing.T) {
	for _, tc := range []struct {
		name   string
		expr   string
		is     error
		errStr string
	}{
		{name: "empty", expr: "", is: ErrEmpty, errStr: "empty expression"},
		{name: "blank", expr: " \t\n", is: ErrEmpty},
		{name: "div by zero", expr: "1 0 /", is: ErrDivisionByZero, errStr: `/: domain error: division by zero "0"`},
		{name: "negative sqrt", expr: "-1.0 sqrt", is: ErrNegativeSqrt, errStr: `sqrt: domain error: square root of negative number "-1"`},
		{name: "domain kind", expr: "0 0 /", is: ErrDomain},
		{name: "underflow binary", expr: "1 +", is: ErrStackUnderflow, errStr: "+: stack underflow"},
		{name: "underflow operator only", expr: "sin", is: ErrStackUnderflow, errStr: "sin: stack underflow"},
		{name: "underflow pop", expr: "pop", is: ErrStackUnderflow},
		{name: "underflow swap", expr: "1 swap", is: ErrStackUnderflow, errStr: "swap: stack underflow"},
		{name: "leftover operands", expr: "1 2", is: ErrIncomplete, errStr: "incomplete expression: 2 operands left unused"},
		{name: "all popped", expr: "1 pop", is: ErrIncomplete},
		{name: "unknown token", expr: "1 foo +", is: ErrUnknownToken, errStr: `unknown token "foo"`},
		{name: "unknown final", expr: "bar", is: ErrUnknownToken},
		{name: "malformed", expr: "1.2.3 1 +", is: ErrMalformedNumber, errStr: `malformed number: invalid syntax "1.2.3"`},
		{name: "out of range", expr: "1e999", is: ErrMalformedNumber, errStr: `malformed number: value out of range "1e999"`},
		{name: "sto number", expr: "1 sto 2", is: ErrInvalidStoreTarget, errStr: `sto: invalid store target "2"`},
		{name: "sto operator", expr: "1 sto sin", is: ErrInvalidStoreTarget},
		{name: "sto constant", expr: "1 sto pi", is: ErrInvalidStoreTarget},
		{name: "sto punctuation", expr: "1 sto a-b", is: ErrInvalidStoreTarget},
		{name: "sto missing name", expr: "1 sto", is: ErrInvalidStoreTarget, errStr: "sto: invalid store target: missing name"},
		{name: "sto underflow", expr: "sto x", is: ErrStackUnderflow},
	} {
		t.Run(tc.name, func(t *testing.T) {
			e := New(tc.expr)
			v, err := e.Eval()
			require.Error(t, err)
			assert.True(t, errors.Is(err, tc.is), "expected %v to match %v", err, tc.is)
			assert.Equal(t, 0.0, v)
			if tc.errStr != "" {
				assert.EqualError(t, err, tc.errStr)
			}

			_, ok := e.Solve()
			assert.False(t, ok, "expected no result")
		})
	}
}

func TestSolve_binaryOrder(t *testing.T) {
	for _, pair := range [][2]float64{{1, 2}, {7.5, -3}, {0.1, 0.2}, {-4, 16}} {
		a, b := pair[0], pair[1]
		lit := formatNumber(a) + " " + formatNumber(b)
		for op, want := range map[string]float64{
			"+": a + b,
			"-": a - b,
			"*": a * b,
			"/": a / b,
		} {
			v, ok := Solve(lit + " " + op)
			if assert.True(t, ok, "%v %v", lit, op) {
				assert.Equal(t, want, v, "%v %v", lit, op)
			}
		}
	}
}

func TestExpr_String(t *testing.T) {
	for _, tc := range []struct {
		expr string
		opts []Option
		want string
	}{
		{expr: "1 2 + 3 * sin", want: "1 2 + 3 * sin"},
		{expr: "  1\t2   +\n", want: "1 2 +"},
		{expr: "1 PI * Sto X", want: "1 pi * sto x"},
		{expr: "10,3,1,2,/,*,-,tan", opts: []Option{WithDelimiter(",")}, want: "10 3 1 2 / * - tan"},
		{expr: "", want: ""},
	} {
		t.Run(tc.expr, func(t *testing.T) {
			e := New(tc.expr, tc.opts...)
			assert.Equal(t, tc.want, e.String())
			e.Solve()
			assert.Equal(t, tc.want, e.String(), "expected solving to leave the expression intact")
		})
	}
}

func TestExpr_resolve(t *testing.T) {
	e := New("1 2 + sto three pop three sin")
	assert.Equal(t, []string{"1", "2", "+", "sto", "three", "pop", "three", "sin"}, e.Tokens())

	first, ok := e.Solve()
	require.True(t, ok)
	second, ok := e.Solve()
	require.True(t, ok)
	assert.Equal(t, first, second, "expected repeated solving to agree")

	v, ok := e.Lookup("THREE")
	assert.True(t, ok)
	assert.Equal(t, 3.0, v)
	assert.Equal(t, map[string]float64{"three": 3}, e.Vars())

	vars := e.Vars()
	vars["three"] = 4
	v, _ = e.Lookup("three")
	assert.Equal(t, 3.0, v, "expected Vars to return a copy")

	_, ok = New("1").Lookup("three")
	assert.False(t, ok, "expected variables to be scoped to one evaluator")
}

func TestSolve_idempotent(t *testing.T) {
	for _, expr := range []string{
		"10,3,1,2,/,*,-,tan",
		"0.2,10.24,pi,*,180,/,*",
		"1,0,/",
	} {
		a, aok := New(expr, WithDelimiter(",")).Solve()
		b, bok := New(expr, WithDelimiter(",")).Solve()
		assert.Equal(t, aok, bok, expr)
		assert.Equal(t, a, b, expr)
	}
}

func TestWithDiagnostics(t *testing.T) {
	for _, tc := range []struct {
		expr string
		want []string
	}{
		{expr: "1 0 /", want: []string{`/: domain error: division by zero "0"`}},
		{expr: "-4 sqrt", want: []string{`sqrt: domain error: square root of negative number "-4"`}},
		{expr: "3 sto 3x", want: []string{`sto: invalid store target "3x"`}},
		{expr: "1 +"},
		{expr: "nope"},
		{expr: "1 1 +"},
	} {
		t.Run(tc.expr, func(t *testing.T) {
			var got []string
			New(tc.expr, WithDiagnostics(func(d Diagnostic) {
				got = append(got, d.String())
			})).Solve()
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestWithLogf(t *testing.T) {
	var lines []string
	logf := func(mess string, args ...interface{}) {
		lines = append(lines, fmt.Sprintf(mess, args...))
	}

	v, ok := Solve("1 2 + sto x", WithLogf(logf))
	require.True(t, ok)
	assert.Equal(t, 3.0, v)
	assert.Equal(t, []string{
		"> 1 -- rest:[2 + sto x] work:[]",
		"> 2 -- rest:[+ sto x] work:[1]",
		"> + -- rest:[sto x] work:[1 2]",
		"> 3 -- rest:[sto x] work:[]",
		"> sto -- rest:[x] work:[3]",
		"$ x = 3",
		"= 3",
	}, lines)

	lines = nil
	_, ok = Solve("1 +", WithLogf(logf))
	require.False(t, ok)
	assert.Equal(t, []string{
		"> 1 -- rest:[+] work:[]",
		"> + -- rest:[] work:[1]",
		"# halt: +: stack underflow",
		"! no result: +: stack underflow",
	}, lines)
}

func TestExpr_zero(t *testing.T) {
	var e Expr
	_, err := e.Eval()
	assert.True(t, errors.Is(err, ErrEmpty))
	assert.Equal(t, "", e.String())
}

func TestErrorKind(t *testing.T) {
	assert.Equal(t, "", ErrorKind(nil))
	assert.Equal(t, "domain", ErrorKind(&TokenError{Op: "/", Err: ErrDivisionByZero}))
	assert.Equal(t, "stack_underflow", ErrorKind(&TokenError{Op: "+", Err: ErrStackUnderflow}))
	assert.Equal(t, "incomplete", ErrorKind(ErrIncomplete))
	assert.Equal(t, "internal", ErrorKind(errors.New("other")))
}

func TestEval_internalPanic(t *testing.T) {
	e := New("1 0 /", WithDiagnostics(func(Diagnostic) {
		panic("sink exploded")
	}))
	_, err := e.Eval()
	require.Error(t, err)
	assert.EqualError(t, err, "rpn paniced: sink exploded")
	assert.True(t, panicerr.IsPanic(err), "expected a recovered panic")
	assert.Equal(t, "internal", ErrorKind(err))

	_, err = New("1 0 /").Eval()
	assert.False(t, panicerr.IsPanic(err), "expected evaluation failures to not look like panics")
}
