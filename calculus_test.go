package calculus_test

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"

	calculus "github.com/njchilds90/gocalculus"
)

func mustParse(t *testing.T, tokens ...string) *calculus.Expression {
	t.Helper()
	e, err := calculus.Parse(tokens)
	if err != nil {
		t.Fatalf("parse %v: %v", tokens, err)
	}
	return e
}

// ============================================================
// Leaf tests
// ============================================================

func TestNum_String(t *testing.T) {
	if s := calculus.N(2).String(); s != "2" {
		t.Errorf("want 2, got %s", s)
	}
	if s := calculus.N(2.5).String(); s != "2.5" {
		t.Errorf("want 2.5, got %s", s)
	}
}

func TestNum_EvalIgnoresX(t *testing.T) {
	for _, x := range []float64{-3, 0, 42} {
		v, err := calculus.N(7).Eval(x)
		if err != nil || v != 7 {
			t.Errorf("want 7 at x=%v, got %v (%v)", x, v, err)
		}
	}
}

func TestVar_DiffIsOne(t *testing.T) {
	d, err := calculus.X().Diff()
	if err != nil {
		t.Fatal(err)
	}
	if !d.Equal(calculus.N(1)) {
		t.Errorf("d/dx(x) should be 1, got %s", d)
	}
}

func TestConst_Tau_Unknown(t *testing.T) {
	_, err := calculus.C("tau").Eval(1)
	if !errors.Is(err, calculus.ErrUnknownConstant) {
		t.Fatalf("want ErrUnknownConstant, got %v", err)
	}
	var uc *calculus.UnknownConstantError
	if !errors.As(err, &uc) || uc.Name != "tau" {
		t.Errorf("want UnknownConstantError for tau, got %#v", err)
	}
}

func TestConst_Pi(t *testing.T) {
	v, err := calculus.Pi().Eval(0)
	if err != nil || v < 3.14159 || v > 3.1416 {
		t.Errorf("want pi, got %v (%v)", v, err)
	}
	if calculus.Pi().LaTeX() != `\pi` {
		t.Errorf("want \\pi, got %s", calculus.Pi().LaTeX())
	}
}

// ============================================================
// Builder tests
// ============================================================

func TestParse_LinearEval(t *testing.T) {
	e := mustParse(t, "(VAL:2.0)", "(VAR:x)", "(TIMES:*)", "(VAL:5.0)", "(PLUS:+)")
	v, err := e.Evaluate(2)
	if err != nil {
		t.Fatal(err)
	}
	if v != 9 {
		t.Errorf("want 9, got %v", v)
	}
	if e.String() != "((2 * x) + 5)" {
		t.Errorf("want ((2 * x) + 5), got %s", e.String())
	}
}

func TestParse_OperatorWithoutOperands(t *testing.T) {
	_, err := calculus.Parse([]string{"(PLUS:+)"})
	if !errors.Is(err, calculus.ErrParsing) {
		t.Errorf("want ErrParsing, got %v", err)
	}
}

func TestParse_LeftoverOperands(t *testing.T) {
	_, err := calculus.Parse([]string{"(VAL:1.0)", "(VAL:2.0)"})
	if !errors.Is(err, calculus.ErrParsing) {
		t.Errorf("want ErrParsing, got %v", err)
	}
}

func TestParse_Empty(t *testing.T) {
	_, err := calculus.Parse(nil)
	if !errors.Is(err, calculus.ErrParsing) {
		t.Errorf("want ErrParsing, got %v", err)
	}
}

func TestParse_MalformedTokens(t *testing.T) {
	for _, raw := range []string{"VAL:1", "(VAL1)", "(FOO:1)", "(VAL:abc)", "", "(VAL:NaN)", "(VAL:inf)", "(VAL:-Infinity)", "(VAL:0x1p1)", "(VAL:1e400)"} {
		_, err := calculus.Parse([]string{raw})
		if !errors.Is(err, calculus.ErrTokenizing) {
			t.Errorf("%q: want ErrTokenizing, got %v", raw, err)
		}
	}
}

func TestParse_RightOperandPoppedFirst(t *testing.T) {
	e := mustParse(t, "(VAL:8.0)", "(VAL:2.0)", "(DIV:/)")
	v, err := e.Evaluate(0)
	if err != nil || v != 4 {
		t.Errorf("want 4, got %v (%v)", v, err)
	}
	lg := mustParse(t, "(VAL:2.0)", "(VAL:8.0)", "(LOG:log)")
	if lg.String() != "log_2(8)" {
		t.Errorf("want log_2(8), got %s", lg.String())
	}
}

func TestParse_EulerSentinel(t *testing.T) {
	e := mustParse(t, "(VAL:2.718281828459045)")
	c, ok := e.Root().(*calculus.Const)
	if !ok || c.Name() != "e" {
		t.Fatalf("want Const e, got %#v", e.Root())
	}
	if e.String() != "e" {
		t.Errorf("want e, got %s", e.String())
	}
	near := mustParse(t, "(VAL:2.718281828)")
	if _, ok := near.Root().(*calculus.Num); !ok {
		t.Errorf("only the exact sentinel should become e, got %#v", near.Root())
	}
}

// ============================================================
// Evaluation tests
// ============================================================

func TestLn_DomainError(t *testing.T) {
	e := mustParse(t, "(VAR:x)", "(LN:ln)")
	_, err := e.Evaluate(-1)
	if !errors.Is(err, calculus.ErrEvaluation) {
		t.Fatalf("want ErrEvaluation, got %v", err)
	}
	var ee *calculus.EvalError
	if !errors.As(err, &ee) || ee.Op != "ln" {
		t.Errorf("want EvalError from ln, got %#v", err)
	}
}

func TestDiv_RuntimeZero(t *testing.T) {
	e := mustParse(t, "(VAL:1.0)", "(VAR:x)", "(DIV:/)")
	_, err := e.Evaluate(0)
	if !errors.Is(err, calculus.ErrEvaluation) {
		t.Errorf("want ErrEvaluation, got %v", err)
	}
}

func TestDomainErrors(t *testing.T) {
	cases := map[string]struct {
		node calculus.Node
		x    float64
	}{
		"sqrt":   {calculus.SqrtOf(calculus.X()), -4},
		"arcsin": {calculus.AsinOf(calculus.X()), 2},
		"arccos": {calculus.AcosOf(calculus.X()), -1.5},
		"log":    {calculus.LogOf(calculus.N(1), calculus.X()), 3},
		"root":   {calculus.RootOf(calculus.N(0), calculus.X()), 3},
		"pow":    {calculus.PowOf(calculus.X(), calculus.N(0.5)), -1},
	}
	for op, c := range cases {
		_, err := c.node.Eval(c.x)
		var ee *calculus.EvalError
		if !errors.As(err, &ee) || ee.Op != op {
			t.Errorf("%s: want EvalError, got %v", op, err)
		}
	}
}

// ============================================================
// Differentiation tests
// ============================================================

func TestDiff_Cube(t *testing.T) {
	e := mustParse(t, "(VAR:x)", "(VAL:3.0)", "(POW:^)")
	d, err := e.Derivative()
	if err != nil {
		t.Fatal(err)
	}
	if d.String() != "(3 * (x ^ 2))" {
		t.Errorf("want (3 * (x ^ 2)), got %s", d.String())
	}
	for x, want := range map[float64]float64{2: 12, -1: 3} {
		v, err := d.Evaluate(x)
		if err != nil || v != want {
			t.Errorf("at %v: want %v, got %v (%v)", x, want, v, err)
		}
	}
}

func TestDiff_Sin(t *testing.T) {
	e := mustParse(t, "(VAR:x)", "(SIN:sin)")
	d, err := e.Diff(true)
	if err != nil {
		t.Fatal(err)
	}
	if d.String() != "cos(x)" {
		t.Errorf("want cos(x), got %s", d.String())
	}
	v, _ := d.Evaluate(0)
	if v != 1 {
		t.Errorf("want 1, got %v", v)
	}
}

func TestDiff_Unsimplified(t *testing.T) {
	e := mustParse(t, "(VAR:x)", "(SIN:sin)")
	d, err := e.Diff(false)
	if err != nil {
		t.Fatal(err)
	}
	if d.String() != "(1 * cos(x))" {
		t.Errorf("want (1 * cos(x)), got %s", d.String())
	}
}

func TestDiff_ConstantFunction(t *testing.T) {
	e := mustParse(t, "(VAL:2.0)", "(VAL:3.141592653589793)", "(TIMES:*)", "(LN:ln)")
	d, err := e.Derivative()
	if err != nil {
		t.Fatal(err)
	}
	for _, x := range []float64{-2, 0, 5} {
		v, err := d.Evaluate(x)
		if err != nil || v != 0 {
			t.Errorf("want 0 at %v, got %v (%v)", x, v, err)
		}
	}
}

func TestDiff_Exponential(t *testing.T) {
	e := mustParse(t, "(VAL:2.718281828459045)", "(VAR:x)", "(POW:^)")
	d, err := e.Derivative()
	if err != nil {
		t.Fatal(err)
	}
	if d.String() != "(e ^ x)" {
		t.Errorf("want (e ^ x), got %s", d.String())
	}
}

func TestDiff_LeavesReceiverAlone(t *testing.T) {
	e := mustParse(t, "(VAR:x)", "(VAL:2.0)", "(POW:^)")
	before := e.String()
	if _, err := e.Derivative(); err != nil {
		t.Fatal(err)
	}
	if e.String() != before {
		t.Errorf("want %s, got %s", before, e.String())
	}
}

// ============================================================
// Simplification tests
// ============================================================

func TestSimplify_Rules(t *testing.T) {
	x := calculus.X()
	cases := []struct {
		in   calculus.Node
		want string
	}{
		{calculus.AddOf(x, calculus.N(0)), "x"},
		{calculus.AddOf(calculus.N(2), calculus.N(3)), "5"},
		{calculus.SubOf(x, calculus.N(0)), "x"},
		{calculus.SubOf(calculus.N(0), x), "(-x)"},
		{calculus.SubOf(calculus.N(0), calculus.NegOf(x)), "x"},
		{calculus.MulOf(calculus.N(0), x), "0"},
		{calculus.MulOf(x, calculus.N(1)), "x"},
		{calculus.MulOf(calculus.N(2), calculus.DivOf(x, calculus.N(3))), "((2 * x) / 3)"},
		{calculus.DivOf(calculus.N(6), calculus.N(3)), "2"},
		{calculus.DivOf(calculus.N(1), calculus.N(3)), "(1 / 3)"},
		{calculus.DivOf(x, calculus.N(1)), "x"},
		{calculus.DivOf(calculus.N(0), x), "0"},
		{calculus.PowOf(x, calculus.N(0)), "1"},
		{calculus.PowOf(x, calculus.N(1)), "x"},
		{calculus.PowOf(calculus.N(2), calculus.N(3)), "8"},
		{calculus.NegOf(calculus.NegOf(x)), "x"},
		{calculus.LnOf(calculus.N(1)), "0"},
		{calculus.SinOf(calculus.N(0)), "0"},
		{calculus.CosOf(calculus.N(0)), "1"},
		{calculus.SqrtOf(calculus.PowOf(x, calculus.N(2))), "x"},
	}
	for _, c := range cases {
		got, err := c.in.Simplify()
		if err != nil {
			t.Errorf("%s: %v", c.in, err)
			continue
		}
		if got.String() != c.want {
			t.Errorf("simplify %s: want %s, got %s", c.in, c.want, got)
		}
	}
}

func TestSimplify_DivisionByZero(t *testing.T) {
	e := calculus.NewExpression(calculus.DivOf(calculus.X(), calculus.SubOf(calculus.N(2), calculus.N(2))))
	before := e.String()
	_, err := e.Simplify()
	if !errors.Is(err, calculus.ErrDivisionByZero) {
		t.Fatalf("want ErrDivisionByZero, got %v", err)
	}
	if e.String() != before {
		t.Errorf("failed simplify should keep the tree, got %s", e.String())
	}
}

func TestSimplify_InPlace(t *testing.T) {
	e := calculus.NewExpression(calculus.AddOf(calculus.X(), calculus.N(0)))
	if _, err := e.Simplify(); err != nil {
		t.Fatal(err)
	}
	if e.String() != "x" {
		t.Errorf("want x, got %s", e.String())
	}
}

// ============================================================
// Rendering tests
// ============================================================

func TestRender_Functions(t *testing.T) {
	x := calculus.X()
	cases := map[string]calculus.Node{
		"arcsin(x)":    calculus.AsinOf(x),
		"arccos(x)":    calculus.AcosOf(x),
		"arctan(x)":    calculus.AtanOf(x),
		"tan(x)":       calculus.TanOf(x),
		"sqrt(x)":      calculus.SqrtOf(x),
		"log_2(x)":     calculus.LogOf(calculus.N(2), x),
		"nrt(3,x)":     calculus.RootOf(calculus.N(3), x),
		"(-ln(x))":     calculus.NegOf(calculus.LnOf(x)),
		"(x ^ 0.5)":    calculus.PowOf(x, calculus.N(0.5)),
		"(pi - x)":     calculus.SubOf(calculus.Pi(), x),
		"(x / tau)":    calculus.DivOf(x, calculus.C("tau")),
		"cos((x + 1))": calculus.CosOf(calculus.AddOf(x, calculus.N(1))),
	}
	for want, n := range cases {
		if n.String() != want {
			t.Errorf("want %s, got %s", want, n.String())
		}
	}
}

func TestLaTeX(t *testing.T) {
	x := calculus.X()
	cases := map[string]calculus.Node{
		`\frac{x}{2}`:                calculus.DivOf(x, calculus.N(2)),
		`x^{2}`:                      calculus.PowOf(x, calculus.N(2)),
		`\left(x + 1\right)^{2}`:     calculus.PowOf(calculus.AddOf(x, calculus.N(1)), calculus.N(2)),
		`\sin\left(x\right)`:         calculus.SinOf(x),
		`\sqrt[3]{x}`:                calculus.RootOf(calculus.N(3), x),
		`2 \cdot \left(x - 1\right)`: calculus.MulOf(calculus.N(2), calculus.SubOf(x, calculus.N(1))),
		`\log_{2}\left(x\right)`:     calculus.LogOf(calculus.N(2), x),
	}
	for want, n := range cases {
		if n.LaTeX() != want {
			t.Errorf("want %s, got %s", want, n.LaTeX())
		}
	}
}

// ============================================================
// JSON tests
// ============================================================

func TestToJSON(t *testing.T) {
	s, err := calculus.ToJSON(calculus.AddOf(calculus.X(), calculus.N(2)))
	if err != nil {
		t.Fatal(err)
	}
	want := `{"left":{"type":"var"},"right":{"type":"num","value":2},"type":"add"}`
	if s != want {
		t.Errorf("want %s, got %s", want, s)
	}
}

func TestFromJSON_RoundTrip(t *testing.T) {
	e := mustParse(t,
		"(VAL:2.0)", "(VAR:x)", "(LOG:log)",
		"(VAL:3.0)", "(VAR:x)", "(SIN:sin)", "(ROOT:root)",
		"(TIMES:*)", "(VAL:2.718281828459045)", "(UNMINUS:-)", "(PLUS:+)",
	)
	s, err := calculus.ToJSON(e.Root())
	if err != nil {
		t.Fatal(err)
	}
	var m map[string]interface{}
	if err := json.Unmarshal([]byte(s), &m); err != nil {
		t.Fatal(err)
	}
	back, err := calculus.FromJSON(m)
	if err != nil {
		t.Fatal(err)
	}
	if !back.Equal(e.Root()) {
		t.Errorf("want %s, got %s", e.String(), back)
	}
}

func TestFromJSON_Unknown(t *testing.T) {
	_, err := calculus.FromJSON(map[string]interface{}{"type": "sec"})
	if err == nil || !strings.Contains(err.Error(), "unknown expression type") {
		t.Errorf("want unknown type error, got %v", err)
	}
}

// ============================================================
// Tool tests
// ============================================================

func linearTokens() []interface{} {
	return []interface{}{"(VAL:2.0)", "(VAR:x)", "(TIMES:*)", "(VAL:5.0)", "(PLUS:+)"}
}

func TestTool_Evaluate(t *testing.T) {
	resp := calculus.HandleToolCall(calculus.ToolRequest{
		Tool:   "evaluate",
		Params: map[string]interface{}{"tokens": linearTokens(), "x": 2.0},
	})
	if resp.Error != "" {
		t.Fatalf("unexpected error: %s", resp.Error)
	}
	if resp.Result != 9.0 {
		t.Errorf("want 9, got %v", resp.Result)
	}
}

func TestTool_Diff(t *testing.T) {
	resp := calculus.HandleToolCall(calculus.ToolRequest{
		Tool:   "diff",
		Params: map[string]interface{}{"tokens": linearTokens()},
	})
	if resp.Error != "" {
		t.Fatalf("unexpected error: %s", resp.Error)
	}
	if resp.String != "2" {
		t.Errorf("want 2, got %s", resp.String)
	}
}

func TestTool_ExprParam(t *testing.T) {
	resp := calculus.HandleToolCall(calculus.ToolRequest{
		Tool: "render",
		Params: map[string]interface{}{"expr": map[string]interface{}{
			"type": "sin", "arg": map[string]interface{}{"type": "var"},
		}},
	})
	if resp.String != "sin(x)" {
		t.Errorf("want sin(x), got %q (%s)", resp.String, resp.Error)
	}
}

func TestTool_ErrorKinds(t *testing.T) {
	cases := []struct {
		req  calculus.ToolRequest
		kind string
	}{
		{calculus.ToolRequest{Tool: "render", Params: map[string]interface{}{"tokens": []interface{}{"(PLUS:+)"}}}, "parsing"},
		{calculus.ToolRequest{Tool: "render", Params: map[string]interface{}{"tokens": []interface{}{"PLUS"}}}, "tokenizing"},
		{calculus.ToolRequest{Tool: "evaluate", Params: map[string]interface{}{"tokens": []interface{}{"(VAR:x)", "(LN:ln)"}, "x": -1.0}}, "evaluation"},
		{calculus.ToolRequest{Tool: "evaluate", Params: map[string]interface{}{"tokens": linearTokens()}}, "invalid_request"},
		{calculus.ToolRequest{Tool: "integrate", Params: map[string]interface{}{"tokens": linearTokens()}}, "invalid_request"},
		{calculus.ToolRequest{Tool: "render", Params: map[string]interface{}{}}, "invalid_request"},
		{calculus.ToolRequest{Tool: "sample", Params: map[string]interface{}{"tokens": linearTokens(), "from": 1.0, "to": 0.0}}, "invalid_request"},
		{calculus.ToolRequest{Tool: "sample", Params: map[string]interface{}{"tokens": linearTokens(), "from": 0.0, "to": 1.0, "steps": 3e6}}, "invalid_request"},
		{calculus.ToolRequest{Tool: "sample", Params: map[string]interface{}{"tokens": linearTokens(), "from": 0.0, "to": 1.0, "steps": 2.5}}, "invalid_request"},
		{calculus.ToolRequest{Tool: "evaluate", Params: map[string]interface{}{"tokens": []interface{}{"(VAR:x)", "(VAR:x)", "(TIMES:*)"}, "x": 1e200}}, "evaluation"},
	}
	for _, c := range cases {
		resp := calculus.HandleToolCall(c.req)
		if resp.Kind != c.kind {
			t.Errorf("%s %v: want kind %s, got %s (%s)", c.req.Tool, c.req.Params, c.kind, resp.Kind, resp.Error)
		}
	}
}

func TestSample_StepLimit(t *testing.T) {
	e := mustParse(t, "(VAR:x)")
	if _, err := calculus.Sample(e, 0, 1, calculus.MaxSampleSteps+1); !errors.Is(err, calculus.ErrInvalidRange) {
		t.Errorf("want ErrInvalidRange, got %v", err)
	}
	s, err := calculus.Sample(e, 0, 1, calculus.MaxSampleSteps)
	if err != nil || len(s.Points) != calculus.MaxSampleSteps+1 {
		t.Errorf("want %d points, got %d (%v)", calculus.MaxSampleSteps+1, len(s.Points), err)
	}
}

func TestEvaluate_NonFinite(t *testing.T) {
	e := mustParse(t, "(VAR:x)", "(VAR:x)", "(TIMES:*)")
	if _, err := e.Evaluate(1e200); !errors.Is(err, calculus.ErrEvaluation) {
		t.Errorf("want ErrEvaluation, got %v", err)
	}
	s, err := calculus.Sample(e, 1e199, 1e200, 2)
	if err != nil {
		t.Fatal(err)
	}
	if p := s.Points[2]; p.Defined {
		t.Errorf("want undefined point at %v, got %+v", p.X, p)
	}
}

func TestToolSpec(t *testing.T) {
	var spec map[string]interface{}
	if err := json.Unmarshal([]byte(calculus.ToolSpec()), &spec); err != nil {
		t.Fatal(err)
	}
	tools, ok := spec["tools"].([]interface{})
	if !ok || len(tools) != 7 {
		t.Errorf("want 7 tools, got %v", spec["tools"])
	}
}
