package calculus

// Expression owns the root of one expression tree in the variable x.
//
// Example, the tree for ln(4) - 3*x^3:
//
//	      -
//	     / \
//	   ln   *
//	   |   / \
//	   4  3   ^
//	         / \
//	        x   3
//
// An Expression is not safe for concurrent mutation: Simplify replaces the
// root in place. Distinct expressions may be used from different goroutines.
type Expression struct {
	root Node
}

// Parse builds an Expression from RPN wire tokens such as "(VAL:2.0)".
func Parse(tokens []string) (*Expression, error) {
	decoded, err := TokenizeAll(tokens)
	if err != nil {
		return nil, err
	}
	root, err := Build(decoded)
	if err != nil {
		return nil, err
	}
	return &Expression{root: root}, nil
}

// NewExpression wraps a programmatically built tree.
func NewExpression(root Node) *Expression { return &Expression{root: root} }

func (e *Expression) Root() Node { return e.root }

// Evaluate computes the expression with x substituted by value.
func (e *Expression) Evaluate(x float64) (float64, error) {
	v, err := e.root.Eval(x)
	if err != nil {
		return 0, err
	}
	return checkFinite("evaluate", x, v, "result is not finite")
}

// Diff returns the derivative with respect to x as a new Expression. The
// receiver is not modified.
func (e *Expression) Diff(simplify bool) (*Expression, error) {
	d, err := e.root.Diff()
	if err != nil {
		return nil, err
	}
	out := &Expression{root: d}
	if simplify {
		if _, err := out.Simplify(); err != nil {
			return nil, err
		}
	}
	return out, nil
}

// Derivative is Diff(true).
func (e *Expression) Derivative() (*Expression, error) { return e.Diff(true) }

// Simplify rewrites the tree in place and returns e for chaining. On error the
// tree is left untouched.
func (e *Expression) Simplify() (*Expression, error) {
	s, err := e.root.Simplify()
	if err != nil {
		return nil, err
	}
	e.root = s
	return e, nil
}

// String renders the fully parenthesised infix form.
func (e *Expression) String() string { return e.root.String() }
func (e *Expression) LaTeX() string  { return e.root.LaTeX() }

// Equal reports structural equality of the two trees.
func (e *Expression) Equal(o *Expression) bool {
	if e == nil || o == nil {
		return e == o
	}
	return e.root.Equal(o.root)
}
