// Package calculus is a small single-variable symbolic math engine.
//
// Expressions arrive as Reverse-Polish token sequences such as
//
//	(VAL:2.0) (VAR:x) (TIMES:*) (VAL:5.0) (PLUS:+)
//
// and are built into an immutable expression tree. A tree can be evaluated
// at a point, differentiated with respect to its single variable, simplified
// and rendered back to a fully parenthesised infix string or LaTeX.
//
// Design goals:
//   - Closed set of node types, every operation implemented by every node
//   - Immutable trees: Diff and Simplify always build new nodes
//   - Float64 evaluation with explicit domain errors instead of NaN
//   - No logging and no global mutable state in the engine
package calculus

import (
	"math"
	"strconv"
)

// ============================================================
// Core Interface
// ============================================================

// Node is one operator or leaf of an expression tree. The unexported methods
// seal the set of implementations to this package.
type Node interface {
	Eval(x float64) (float64, error)
	Diff() (Node, error)
	Simplify() (Node, error)
	String() string
	LaTeX() string
	Equal(other Node) bool
	nodeType() string
	toJSON() map[string]interface{}
}

// ============================================================
// Num: float literal
// ============================================================

type Num struct{ val float64 }

func N(v float64) *Num { return &Num{val: v} }

func (n *Num) Value() float64                { return n.val }
func (n *Num) Eval(float64) (float64, error) { return n.val, nil }
func (n *Num) Diff() (Node, error)           { return N(0), nil }
func (n *Num) Simplify() (Node, error)       { return n, nil }
func (n *Num) String() string                { return formatNum(n.val) }
func (n *Num) LaTeX() string                 { return formatNum(n.val) }
func (n *Num) Equal(other Node) bool         { o, ok := other.(*Num); return ok && n.val == o.val }
func (n *Num) nodeType() string              { return "num" }
func (n *Num) toJSON() map[string]interface{} {
	return map[string]interface{}{"type": "num", "value": n.val}
}

func formatNum(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// ============================================================
// Const: named constant
// ============================================================

type Const struct{ name string }

func C(name string) *Const { return &Const{name: name} }
func E() *Const            { return C("e") }
func Pi() *Const           { return C("pi") }

func (c *Const) Name() string { return c.name }

func (c *Const) Eval(float64) (float64, error) {
	v, ok := constantValues[c.name]
	if !ok {
		return 0, &UnknownConstantError{Name: c.name}
	}
	return v, nil
}

func (c *Const) Diff() (Node, error)     { return N(0), nil }
func (c *Const) Simplify() (Node, error) { return c, nil }
func (c *Const) String() string          { return c.name }

func (c *Const) LaTeX() string {
	switch c.name {
	case "pi":
		return `\pi`
	case "tau":
		return `\tau`
	}
	return c.name
}

func (c *Const) Equal(other Node) bool { o, ok := other.(*Const); return ok && c.name == o.name }
func (c *Const) nodeType() string      { return "const" }
func (c *Const) toJSON() map[string]interface{} {
	return map[string]interface{}{"type": "const", "name": c.name}
}

// ============================================================
// Var: the free variable x
// ============================================================

type Var struct{}

func X() *Var { return &Var{} }

func (v *Var) Eval(x float64) (float64, error) { return x, nil }
func (v *Var) Diff() (Node, error)             { return N(1), nil }
func (v *Var) Simplify() (Node, error)         { return v, nil }
func (v *Var) String() string                  { return "x" }
func (v *Var) LaTeX() string                   { return "x" }
func (v *Var) Equal(other Node) bool           { _, ok := other.(*Var); return ok }
func (v *Var) nodeType() string                { return "var" }
func (v *Var) toJSON() map[string]interface{} {
	return map[string]interface{}{"type": "var"}
}

// ============================================================
// Shared helpers
// ============================================================

// evalBoth evaluates two operands left to right.
func evalBoth(l, r Node, x float64) (float64, float64, error) {
	a, err := l.Eval(x)
	if err != nil {
		return 0, 0, err
	}
	b, err := r.Eval(x)
	if err != nil {
		return 0, 0, err
	}
	return a, b, nil
}

func diffBoth(l, r Node) (Node, Node, error) {
	dl, err := l.Diff()
	if err != nil {
		return nil, nil, err
	}
	dr, err := r.Diff()
	if err != nil {
		return nil, nil, err
	}
	return dl, dr, nil
}

func simplifyBoth(l, r Node) (Node, Node, error) {
	sl, err := l.Simplify()
	if err != nil {
		return nil, nil, err
	}
	sr, err := r.Simplify()
	if err != nil {
		return nil, nil, err
	}
	return sl, sr, nil
}

// checkFinite turns a NaN or infinite result into an EvalError.
func checkFinite(op string, operand, result float64, reason string) (float64, error) {
	if math.IsNaN(result) || math.IsInf(result, 0) {
		return 0, &EvalError{Op: op, Value: operand, Reason: reason}
	}
	return result, nil
}
