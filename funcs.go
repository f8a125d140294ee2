package calculus

import "math"

// ============================================================
// Trigonometric functions
// ============================================================

type Sin struct{ arg Node }

func SinOf(arg Node) *Sin { return &Sin{arg: arg} }

func (s *Sin) Arg() Node { return s.arg }
func (s *Sin) Eval(x float64) (float64, error) {
	v, err := s.arg.Eval(x)
	if err != nil {
		return 0, err
	}
	return math.Sin(v), nil
}
func (s *Sin) Diff() (Node, error) {
	return chain(s.arg, func() Node { return CosOf(s.arg) })
}
func (s *Sin) Simplify() (Node, error) {
	arg, err := s.arg.Simplify()
	if err != nil {
		return nil, err
	}
	if isZero(arg) {
		return N(0), nil
	}
	return SinOf(arg), nil
}
func (s *Sin) String() string { return "sin(" + s.arg.String() + ")" }
func (s *Sin) LaTeX() string  { return latexFunc(`\sin`, s.arg) }
func (s *Sin) Equal(other Node) bool {
	o, ok := other.(*Sin)
	return ok && s.arg.Equal(o.arg)
}
func (s *Sin) nodeType() string               { return "sin" }
func (s *Sin) toJSON() map[string]interface{} { return unaryJSON("sin", s.arg) }

type Cos struct{ arg Node }

func CosOf(arg Node) *Cos { return &Cos{arg: arg} }

func (c *Cos) Arg() Node { return c.arg }
func (c *Cos) Eval(x float64) (float64, error) {
	v, err := c.arg.Eval(x)
	if err != nil {
		return 0, err
	}
	return math.Cos(v), nil
}
func (c *Cos) Diff() (Node, error) {
	return chain(c.arg, func() Node { return NegOf(SinOf(c.arg)) })
}
func (c *Cos) Simplify() (Node, error) {
	arg, err := c.arg.Simplify()
	if err != nil {
		return nil, err
	}
	if isZero(arg) {
		return N(1), nil
	}
	return CosOf(arg), nil
}
func (c *Cos) String() string { return "cos(" + c.arg.String() + ")" }
func (c *Cos) LaTeX() string  { return latexFunc(`\cos`, c.arg) }
func (c *Cos) Equal(other Node) bool {
	o, ok := other.(*Cos)
	return ok && c.arg.Equal(o.arg)
}
func (c *Cos) nodeType() string               { return "cos" }
func (c *Cos) toJSON() map[string]interface{} { return unaryJSON("cos", c.arg) }

type Tan struct{ arg Node }

func TanOf(arg Node) *Tan { return &Tan{arg: arg} }

func (t *Tan) Arg() Node { return t.arg }
func (t *Tan) Eval(x float64) (float64, error) {
	v, err := t.arg.Eval(x)
	if err != nil {
		return 0, err
	}
	return math.Tan(v), nil
}

// Diff uses d/dx tan(g) = g' · (1/cos(g))^2.
func (t *Tan) Diff() (Node, error) {
	return chain(t.arg, func() Node { return PowOf(DivOf(N(1), CosOf(t.arg)), N(2)) })
}
func (t *Tan) Simplify() (Node, error) {
	arg, err := t.arg.Simplify()
	if err != nil {
		return nil, err
	}
	if isZero(arg) {
		return N(0), nil
	}
	return TanOf(arg), nil
}
func (t *Tan) String() string { return "tan(" + t.arg.String() + ")" }
func (t *Tan) LaTeX() string  { return latexFunc(`\tan`, t.arg) }
func (t *Tan) Equal(other Node) bool {
	o, ok := other.(*Tan)
	return ok && t.arg.Equal(o.arg)
}
func (t *Tan) nodeType() string               { return "tan" }
func (t *Tan) toJSON() map[string]interface{} { return unaryJSON("tan", t.arg) }

// ============================================================
// Inverse trigonometric functions
// ============================================================

type Asin struct{ arg Node }

func AsinOf(arg Node) *Asin { return &Asin{arg: arg} }

func (a *Asin) Arg() Node { return a.arg }
func (a *Asin) Eval(x float64) (float64, error) {
	v, err := a.arg.Eval(x)
	if err != nil {
		return 0, err
	}
	if v < -1 || v > 1 {
		return 0, &EvalError{Op: "arcsin", Value: v, Reason: "argument outside [-1, 1]"}
	}
	return math.Asin(v), nil
}
func (a *Asin) Diff() (Node, error) {
	return chain(a.arg, func() Node { return DivOf(N(1), SqrtOf(SubOf(N(1), PowOf(a.arg, N(2))))) })
}
func (a *Asin) Simplify() (Node, error) {
	arg, err := a.arg.Simplify()
	if err != nil {
		return nil, err
	}
	return AsinOf(arg), nil
}
func (a *Asin) String() string { return "arcsin(" + a.arg.String() + ")" }
func (a *Asin) LaTeX() string  { return latexFunc(`\arcsin`, a.arg) }
func (a *Asin) Equal(other Node) bool {
	o, ok := other.(*Asin)
	return ok && a.arg.Equal(o.arg)
}
func (a *Asin) nodeType() string               { return "asin" }
func (a *Asin) toJSON() map[string]interface{} { return unaryJSON("asin", a.arg) }

type Acos struct{ arg Node }

func AcosOf(arg Node) *Acos { return &Acos{arg: arg} }

func (a *Acos) Arg() Node { return a.arg }
func (a *Acos) Eval(x float64) (float64, error) {
	v, err := a.arg.Eval(x)
	if err != nil {
		return 0, err
	}
	if v < -1 || v > 1 {
		return 0, &EvalError{Op: "arccos", Value: v, Reason: "argument outside [-1, 1]"}
	}
	return math.Acos(v), nil
}
func (a *Acos) Diff() (Node, error) {
	return chain(a.arg, func() Node {
		return NegOf(DivOf(N(1), SqrtOf(SubOf(N(1), PowOf(a.arg, N(2))))))
	})
}
func (a *Acos) Simplify() (Node, error) {
	arg, err := a.arg.Simplify()
	if err != nil {
		return nil, err
	}
	return AcosOf(arg), nil
}
func (a *Acos) String() string { return "arccos(" + a.arg.String() + ")" }
func (a *Acos) LaTeX() string  { return latexFunc(`\arccos`, a.arg) }
func (a *Acos) Equal(other Node) bool {
	o, ok := other.(*Acos)
	return ok && a.arg.Equal(o.arg)
}
func (a *Acos) nodeType() string               { return "acos" }
func (a *Acos) toJSON() map[string]interface{} { return unaryJSON("acos", a.arg) }

type Atan struct{ arg Node }

func AtanOf(arg Node) *Atan { return &Atan{arg: arg} }

func (a *Atan) Arg() Node { return a.arg }
func (a *Atan) Eval(x float64) (float64, error) {
	v, err := a.arg.Eval(x)
	if err != nil {
		return 0, err
	}
	return math.Atan(v), nil
}
func (a *Atan) Diff() (Node, error) {
	return chain(a.arg, func() Node { return DivOf(N(1), AddOf(PowOf(a.arg, N(2)), N(1))) })
}
func (a *Atan) Simplify() (Node, error) {
	arg, err := a.arg.Simplify()
	if err != nil {
		return nil, err
	}
	return AtanOf(arg), nil
}
func (a *Atan) String() string { return "arctan(" + a.arg.String() + ")" }
func (a *Atan) LaTeX() string  { return latexFunc(`\arctan`, a.arg) }
func (a *Atan) Equal(other Node) bool {
	o, ok := other.(*Atan)
	return ok && a.arg.Equal(o.arg)
}
func (a *Atan) nodeType() string               { return "atan" }
func (a *Atan) toJSON() map[string]interface{} { return unaryJSON("atan", a.arg) }

// ============================================================
// Logarithms
// ============================================================

type Ln struct{ arg Node }

func LnOf(arg Node) *Ln { return &Ln{arg: arg} }

func (l *Ln) Arg() Node { return l.arg }
func (l *Ln) Eval(x float64) (float64, error) {
	v, err := l.arg.Eval(x)
	if err != nil {
		return 0, err
	}
	if v <= 0 {
		return 0, &EvalError{Op: "ln", Value: v, Reason: "argument must be positive"}
	}
	return math.Log(v), nil
}
func (l *Ln) Diff() (Node, error) {
	da, err := l.arg.Diff()
	if err != nil {
		return nil, err
	}
	return DivOf(da, l.arg), nil
}
func (l *Ln) Simplify() (Node, error) {
	arg, err := l.arg.Simplify()
	if err != nil {
		return nil, err
	}
	if isOne(arg) {
		return N(0), nil
	}
	return LnOf(arg), nil
}
func (l *Ln) String() string { return "ln(" + l.arg.String() + ")" }
func (l *Ln) LaTeX() string  { return latexFunc(`\ln`, l.arg) }
func (l *Ln) Equal(other Node) bool {
	o, ok := other.(*Ln)
	return ok && l.arg.Equal(o.arg)
}
func (l *Ln) nodeType() string               { return "ln" }
func (l *Ln) toJSON() map[string]interface{} { return unaryJSON("ln", l.arg) }

// Log is the logarithm of arg to an arbitrary base.
type Log struct{ base, arg Node }

func LogOf(base, arg Node) *Log { return &Log{base: base, arg: arg} }

func (l *Log) Base() Node { return l.base }
func (l *Log) Arg() Node  { return l.arg }

// naturalLog rewrites log_b(a) as ln(a)/ln(b).
func (l *Log) naturalLog() Node { return DivOf(LnOf(l.arg), LnOf(l.base)) }

func (l *Log) Eval(x float64) (float64, error) {
	b, a, err := evalBoth(l.base, l.arg, x)
	if err != nil {
		return 0, err
	}
	switch {
	case a <= 0:
		return 0, &EvalError{Op: "log", Value: a, Reason: "argument must be positive"}
	case b <= 0:
		return 0, &EvalError{Op: "log", Value: b, Reason: "base must be positive"}
	case b == 1:
		return 0, &EvalError{Op: "log", Value: b, Reason: "base must not be 1"}
	}
	return math.Log(a) / math.Log(b), nil
}
func (l *Log) Diff() (Node, error) { return l.naturalLog().Diff() }
func (l *Log) Simplify() (Node, error) {
	b, a, err := simplifyBoth(l.base, l.arg)
	if err != nil {
		return nil, err
	}
	return LogOf(b, a), nil
}
func (l *Log) String() string { return "log_" + l.base.String() + "(" + l.arg.String() + ")" }
func (l *Log) LaTeX() string {
	return `\log_{` + l.base.LaTeX() + `}\left(` + l.arg.LaTeX() + `\right)`
}
func (l *Log) Equal(other Node) bool {
	o, ok := other.(*Log)
	return ok && l.base.Equal(o.base) && l.arg.Equal(o.arg)
}
func (l *Log) nodeType() string { return "log" }
func (l *Log) toJSON() map[string]interface{} {
	return map[string]interface{}{"type": "log", "base": l.base.toJSON(), "arg": l.arg.toJSON()}
}

// ============================================================
// Roots
// ============================================================

type Sqrt struct{ arg Node }

func SqrtOf(arg Node) *Sqrt { return &Sqrt{arg: arg} }

func (s *Sqrt) Arg() Node { return s.arg }
func (s *Sqrt) Eval(x float64) (float64, error) {
	v, err := s.arg.Eval(x)
	if err != nil {
		return 0, err
	}
	if v < 0 {
		return 0, &EvalError{Op: "sqrt", Value: v, Reason: "argument must not be negative"}
	}
	return math.Sqrt(v), nil
}

// Diff differentiates the power form a^(1/2).
func (s *Sqrt) Diff() (Node, error) { return PowOf(s.arg, DivOf(N(1), N(2))).Diff() }

func (s *Sqrt) Simplify() (Node, error) {
	arg, err := s.arg.Simplify()
	if err != nil {
		return nil, err
	}
	if p, ok := arg.(*Pow); ok && isNum(p.right, 2) {
		return p.left, nil
	}
	if isZero(arg) {
		return N(0), nil
	}
	if isOne(arg) {
		return N(1), nil
	}
	return SqrtOf(arg), nil
}
func (s *Sqrt) String() string { return "sqrt(" + s.arg.String() + ")" }
func (s *Sqrt) LaTeX() string  { return `\sqrt{` + s.arg.LaTeX() + "}" }
func (s *Sqrt) Equal(other Node) bool {
	o, ok := other.(*Sqrt)
	return ok && s.arg.Equal(o.arg)
}
func (s *Sqrt) nodeType() string               { return "sqrt" }
func (s *Sqrt) toJSON() map[string]interface{} { return unaryJSON("sqrt", s.arg) }

// Root is the degree-th root of radicand.
type Root struct{ degree, radicand Node }

func RootOf(degree, radicand Node) *Root { return &Root{degree: degree, radicand: radicand} }

func (r *Root) Degree() Node   { return r.degree }
func (r *Root) Radicand() Node { return r.radicand }

// power rewrites the root as radicand^(1/degree).
func (r *Root) power() Node { return PowOf(r.radicand, DivOf(N(1), r.degree)) }

func (r *Root) Eval(x float64) (float64, error) {
	n, a, err := evalBoth(r.degree, r.radicand, x)
	if err != nil {
		return 0, err
	}
	if n == 0 {
		return 0, &EvalError{Op: "root", Value: n, Reason: "degree must not be zero"}
	}
	return checkFinite("root", a, math.Pow(a, 1/n), "result is not a real number")
}
func (r *Root) Diff() (Node, error) { return r.power().Diff() }
func (r *Root) Simplify() (Node, error) {
	n, a, err := simplifyBoth(r.degree, r.radicand)
	if err != nil {
		return nil, err
	}
	return RootOf(n, a), nil
}
func (r *Root) String() string { return "nrt(" + r.degree.String() + "," + r.radicand.String() + ")" }
func (r *Root) LaTeX() string {
	return `\sqrt[` + r.degree.LaTeX() + `]{` + r.radicand.LaTeX() + "}"
}
func (r *Root) Equal(other Node) bool {
	o, ok := other.(*Root)
	return ok && r.degree.Equal(o.degree) && r.radicand.Equal(o.radicand)
}
func (r *Root) nodeType() string { return "root" }
func (r *Root) toJSON() map[string]interface{} {
	return map[string]interface{}{"type": "root", "degree": r.degree.toJSON(), "radicand": r.radicand.toJSON()}
}

// ============================================================
// Shared helpers
// ============================================================

// chain builds g' · outer for a function applied to g.
func chain(arg Node, outer func() Node) (Node, error) {
	da, err := arg.Diff()
	if err != nil {
		return nil, err
	}
	return MulOf(da, outer()), nil
}

func unaryJSON(typ string, arg Node) map[string]interface{} {
	return map[string]interface{}{"type": typ, "arg": arg.toJSON()}
}

func latexFunc(name string, arg Node) string {
	return name + `\left(` + arg.LaTeX() + `\right)`
}
