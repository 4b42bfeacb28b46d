/*
Package rpn evaluates arithmetic expressions written in Reverse Polish
Notation: operands come before the operator that consumes them, so no
parentheses or precedence rules are needed.

	v, ok := rpn.Solve("10 1 2 + sin *")

Evaluation works over two stacks. The remaining expression holds tokens not
yet consumed, with the leftmost token on top. The work stack holds operands
waiting for an operator. Each token is taken from the remaining expression
in turn: operands are pushed onto the work stack, while an operator pops its
operands off the work stack and pushes its result back onto the remaining
expression, where it is taken up again as the next operand. Evaluation ends
when a single operand remains and the work stack is empty, or when the
expression runs out with exactly one operand left on the work stack.

Operators

	Name   Stack effect   Function
	+      a b -- a+b     addition
	-      a b -- a-b     subtraction
	*      a b -- a*b     multiplication
	/      a b -- a/b     division; b must not be zero
	sin    a -- sin(a)    sine, radians
	cos    a -- cos(a)    cosine, radians
	tan    a -- tan(a)    tangent, radians
	sqrt   a -- sqrt(a)   square root; a must not be negative
	pop    a --           discard the top operand
	swap   a b -- b a     exchange the top two operands
	sto    a -- a         bind a to the name that follows sto

Names are case insensitive. The constant pi may appear wherever a number
may, as may any name previously bound by sto:

	rpn.Solve("1 2 + sto three pop three sin") // sin(3)

Failures never panic out of the evaluator. Solve reports them as a missing
result; Eval returns an error that matches one of the Err* values under
errors.Is. Domain errors, and sto targets that are not names, are also
reported to any sink given by WithDiagnostics.

An Expr is not safe for concurrent use; its variables and scratch stacks
belong to whoever is calling Solve.
*/
package rpn
