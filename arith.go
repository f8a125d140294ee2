package calculus

import "math"

// ============================================================
// Neg: unary minus
// ============================================================

type Neg struct{ arg Node }

func NegOf(arg Node) *Neg { return &Neg{arg: arg} }

func (n *Neg) Arg() Node { return n.arg }

func (n *Neg) Eval(x float64) (float64, error) {
	v, err := n.arg.Eval(x)
	if err != nil {
		return 0, err
	}
	return -v, nil
}

func (n *Neg) Diff() (Node, error) {
	da, err := n.arg.Diff()
	if err != nil {
		return nil, err
	}
	return NegOf(da), nil
}

func (n *Neg) Simplify() (Node, error) {
	arg, err := n.arg.Simplify()
	if err != nil {
		return nil, err
	}
	if inner, ok := arg.(*Neg); ok {
		return inner.arg, nil
	}
	if isZero(arg) {
		return N(0), nil
	}
	return NegOf(arg), nil
}

func (n *Neg) String() string { return "(-" + n.arg.String() + ")" }
func (n *Neg) LaTeX() string  { return "-" + latexGroup(n.arg) }
func (n *Neg) Equal(other Node) bool {
	o, ok := other.(*Neg)
	return ok && n.arg.Equal(o.arg)
}
func (n *Neg) nodeType() string { return "neg" }
func (n *Neg) toJSON() map[string]interface{} {
	return map[string]interface{}{"type": "neg", "arg": n.arg.toJSON()}
}

// ============================================================
// Add: left + right
// ============================================================

type Add struct{ left, right Node }

func AddOf(left, right Node) *Add { return &Add{left: left, right: right} }

func (a *Add) Left() Node  { return a.left }
func (a *Add) Right() Node { return a.right }

func (a *Add) Eval(x float64) (float64, error) {
	l, r, err := evalBoth(a.left, a.right, x)
	if err != nil {
		return 0, err
	}
	return l + r, nil
}

func (a *Add) Diff() (Node, error) {
	dl, dr, err := diffBoth(a.left, a.right)
	if err != nil {
		return nil, err
	}
	return AddOf(dl, dr), nil
}

func (a *Add) Simplify() (Node, error) {
	l, r, err := simplifyBoth(a.left, a.right)
	if err != nil {
		return nil, err
	}
	if lv, rv, ok := bothNums(l, r); ok {
		return N(lv + rv), nil
	}
	if isZero(r) {
		return l, nil
	}
	if isZero(l) {
		return r, nil
	}
	return AddOf(l, r), nil
}

func (a *Add) String() string { return "(" + a.left.String() + " + " + a.right.String() + ")" }
func (a *Add) LaTeX() string  { return a.left.LaTeX() + " + " + a.right.LaTeX() }
func (a *Add) Equal(other Node) bool {
	o, ok := other.(*Add)
	return ok && a.left.Equal(o.left) && a.right.Equal(o.right)
}
func (a *Add) nodeType() string { return "add" }
func (a *Add) toJSON() map[string]interface{} {
	return binaryJSON("add", a.left, a.right)
}

// ============================================================
// Sub: left - right
// ============================================================

type Sub struct{ left, right Node }

func SubOf(left, right Node) *Sub { return &Sub{left: left, right: right} }

func (s *Sub) Left() Node  { return s.left }
func (s *Sub) Right() Node { return s.right }

func (s *Sub) Eval(x float64) (float64, error) {
	l, r, err := evalBoth(s.left, s.right, x)
	if err != nil {
		return 0, err
	}
	return l - r, nil
}

func (s *Sub) Diff() (Node, error) {
	dl, dr, err := diffBoth(s.left, s.right)
	if err != nil {
		return nil, err
	}
	return SubOf(dl, dr), nil
}

func (s *Sub) Simplify() (Node, error) {
	l, r, err := simplifyBoth(s.left, s.right)
	if err != nil {
		return nil, err
	}
	if lv, rv, ok := bothNums(l, r); ok {
		return N(lv - rv), nil
	}
	if isZero(r) {
		return l, nil
	}
	if isZero(l) {
		// r may itself be a negation; let Neg collapse it.
		return NegOf(r).Simplify()
	}
	return SubOf(l, r), nil
}

func (s *Sub) String() string { return "(" + s.left.String() + " - " + s.right.String() + ")" }
func (s *Sub) LaTeX() string  { return s.left.LaTeX() + " - " + latexGroup(s.right) }
func (s *Sub) Equal(other Node) bool {
	o, ok := other.(*Sub)
	return ok && s.left.Equal(o.left) && s.right.Equal(o.right)
}
func (s *Sub) nodeType() string { return "sub" }
func (s *Sub) toJSON() map[string]interface{} {
	return binaryJSON("sub", s.left, s.right)
}

// ============================================================
// Mul: left * right
// ============================================================

type Mul struct{ left, right Node }

func MulOf(left, right Node) *Mul { return &Mul{left: left, right: right} }

func (m *Mul) Left() Node  { return m.left }
func (m *Mul) Right() Node { return m.right }

func (m *Mul) Eval(x float64) (float64, error) {
	l, r, err := evalBoth(m.left, m.right, x)
	if err != nil {
		return 0, err
	}
	return l * r, nil
}

// Diff applies the product rule: l'·r + l·r'.
func (m *Mul) Diff() (Node, error) {
	dl, dr, err := diffBoth(m.left, m.right)
	if err != nil {
		return nil, err
	}
	return AddOf(MulOf(dl, m.right), MulOf(m.left, dr)), nil
}

func (m *Mul) Simplify() (Node, error) {
	l, r, err := simplifyBoth(m.left, m.right)
	if err != nil {
		return nil, err
	}
	if lv, rv, ok := bothNums(l, r); ok {
		return N(lv * rv), nil
	}
	if isZero(l) || isZero(r) {
		return N(0), nil
	}
	if isOne(r) {
		return l, nil
	}
	if isOne(l) {
		return r, nil
	}
	// (y/z)·x -> (y·x)/z and x·(y/z) -> (x·y)/z
	if d, ok := l.(*Div); ok {
		return DivOf(MulOf(d.left, r), d.right).Simplify()
	}
	if d, ok := r.(*Div); ok {
		return DivOf(MulOf(l, d.left), d.right).Simplify()
	}
	return MulOf(l, r), nil
}

func (m *Mul) String() string { return "(" + m.left.String() + " * " + m.right.String() + ")" }
func (m *Mul) LaTeX() string {
	return latexGroup(m.left) + ` \cdot ` + latexGroup(m.right)
}
func (m *Mul) Equal(other Node) bool {
	o, ok := other.(*Mul)
	return ok && m.left.Equal(o.left) && m.right.Equal(o.right)
}
func (m *Mul) nodeType() string { return "mul" }
func (m *Mul) toJSON() map[string]interface{} {
	return binaryJSON("mul", m.left, m.right)
}

// ============================================================
// Div: left / right
// ============================================================

type Div struct{ left, right Node }

func DivOf(left, right Node) *Div { return &Div{left: left, right: right} }

func (d *Div) Left() Node  { return d.left }
func (d *Div) Right() Node { return d.right }

func (d *Div) Eval(x float64) (float64, error) {
	l, r, err := evalBoth(d.left, d.right, x)
	if err != nil {
		return 0, err
	}
	if r == 0 {
		return 0, &EvalError{Op: "div", Value: r, Reason: "division by zero"}
	}
	return l / r, nil
}

// Diff applies the quotient rule: (l'·r - l·r') / r^2.
func (d *Div) Diff() (Node, error) {
	dl, dr, err := diffBoth(d.left, d.right)
	if err != nil {
		return nil, err
	}
	return DivOf(
		SubOf(MulOf(dl, d.right), MulOf(d.left, dr)),
		PowOf(d.right, N(2)),
	), nil
}

func (d *Div) Simplify() (Node, error) {
	l, r, err := simplifyBoth(d.left, d.right)
	if err != nil {
		return nil, err
	}
	// Fold only whole quotients so no floating artifacts enter the tree.
	if lv, rv, ok := bothNums(l, r); ok && rv != 0 && isWhole(lv/rv) {
		return N(lv / rv), nil
	}
	if isZero(l) {
		return N(0), nil
	}
	if isZero(r) {
		return nil, &DivisionByZeroError{Expr: DivOf(l, r).String()}
	}
	if isOne(r) {
		return l, nil
	}
	return DivOf(l, r), nil
}

func (d *Div) String() string { return "(" + d.left.String() + " / " + d.right.String() + ")" }
func (d *Div) LaTeX() string  { return `\frac{` + d.left.LaTeX() + "}{" + d.right.LaTeX() + "}" }
func (d *Div) Equal(other Node) bool {
	o, ok := other.(*Div)
	return ok && d.left.Equal(o.left) && d.right.Equal(o.right)
}
func (d *Div) nodeType() string { return "div" }
func (d *Div) toJSON() map[string]interface{} {
	return binaryJSON("div", d.left, d.right)
}

// ============================================================
// Pow: left ^ right
// ============================================================

type Pow struct{ left, right Node }

func PowOf(base, exp Node) *Pow { return &Pow{left: base, right: exp} }

func (p *Pow) Left() Node  { return p.left }
func (p *Pow) Right() Node { return p.right }

func (p *Pow) Eval(x float64) (float64, error) {
	l, r, err := evalBoth(p.left, p.right, x)
	if err != nil {
		return 0, err
	}
	return checkFinite("pow", l, math.Pow(l, r), "result is not a real number")
}

// Diff picks, in order: the elementary power rule for x^n, the exponential
// rule for e^g, and logarithmic differentiation for everything else.
func (p *Pow) Diff() (Node, error) {
	if _, isVar := p.left.(*Var); isVar {
		if n, isNum := p.right.(*Num); isNum {
			return MulOf(n, PowOf(p.left, N(n.val-1))), nil
		}
	}
	if isConst(p.left, "e") {
		dr, err := p.right.Diff()
		if err != nil {
			return nil, err
		}
		return MulOf(dr, PowOf(p.left, p.right)), nil
	}
	inner, err := MulOf(LnOf(p.left), p.right).Diff()
	if err != nil {
		return nil, err
	}
	return MulOf(PowOf(p.left, p.right), inner), nil
}

func (p *Pow) Simplify() (Node, error) {
	l, r, err := simplifyBoth(p.left, p.right)
	if err != nil {
		return nil, err
	}
	if lv, rv, ok := bothNums(l, r); ok {
		if v := math.Pow(lv, rv); isFinite(v) {
			return N(v), nil
		}
	}
	if isZero(r) {
		return N(1), nil
	}
	if isZero(l) {
		return N(0), nil
	}
	if isOne(r) {
		return l, nil
	}
	return PowOf(l, r), nil
}

func (p *Pow) String() string { return "(" + p.left.String() + " ^ " + p.right.String() + ")" }
func (p *Pow) LaTeX() string {
	base := p.left.LaTeX()
	switch p.left.(type) {
	case *Num, *Const, *Var:
	default:
		base = `\left(` + base + `\right)`
	}
	return base + "^{" + p.right.LaTeX() + "}"
}
func (p *Pow) Equal(other Node) bool {
	o, ok := other.(*Pow)
	return ok && p.left.Equal(o.left) && p.right.Equal(o.right)
}
func (p *Pow) nodeType() string { return "pow" }
func (p *Pow) toJSON() map[string]interface{} {
	return binaryJSON("pow", p.left, p.right)
}

func binaryJSON(typ string, l, r Node) map[string]interface{} {
	return map[string]interface{}{"type": typ, "left": l.toJSON(), "right": r.toJSON()}
}

// latexGroup parenthesises sums and differences so products and negations
// keep their meaning.
func latexGroup(n Node) string {
	switch n.(type) {
	case *Add, *Sub, *Neg:
		return `\left(` + n.LaTeX() + `\right)`
	}
	return n.LaTeX()
}
