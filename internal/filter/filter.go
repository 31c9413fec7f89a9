// Package filter compiles small boolean/comparison expressions over a
// single free variable x into a stack bytecode program, grounded on the
// double_filter / slack_filter bytecode machines: values are either numeric
// literals or the pipeline's current metric (delta delay, length, slack),
// combined with <, <=, >, >=, ==, &&, ||, ! and grouping parens.
package filter

// FilterParseError wraps a syntax error produced while compiling an
// expression, giving callers a stable type to match on independent of the
// underlying parser's error text.
type FilterParseError struct {
	Expr string
	Err  error
}

func (e *FilterParseError) Error() string {
	return "filter: " + e.Expr + ": " + e.Err.Error()
}

func (e *FilterParseError) Unwrap() error { return e.Err }

// Compile parses and compiles expr into a Program. expr's free variable is
// written as x, e.g. "x > 0 && x < 10 || x == 100".
func Compile(expr string) (*Program, error) {
	node, err := parse(expr)
	if err != nil {
		return nil, &FilterParseError{Expr: expr, Err: err}
	}

	code, err := compile(node)
	if err != nil {
		return nil, &FilterParseError{Expr: expr, Err: err}
	}

	return &Program{code: code, src: expr}, nil
}

// MustCompile is like Compile but panics on error; intended for expressions
// known at compile time (e.g. built into config defaults).
func MustCompile(expr string) *Program {
	prog, err := Compile(expr)
	if err != nil {
		panic(err)
	}

	return prog
}
