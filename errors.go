package calculus

import (
	"errors"
	"fmt"
)

// Sentinel errors, one per failure kind. Typed errors below unwrap to them.
var (
	// ErrTokenizing indicates a token string is not of the form "(TYPE:value)".
	ErrTokenizing = errors.New("tokenizing error")

	// ErrParsing indicates the RPN token sequence does not describe one expression.
	ErrParsing = errors.New("parsing error")

	// ErrUnknownConstant indicates evaluation reached a constant with no defined value.
	ErrUnknownConstant = errors.New("unknown constant")

	// ErrEvaluation indicates an operation was applied outside its mathematical domain.
	ErrEvaluation = errors.New("evaluation error")

	// ErrDivisionByZero indicates simplification found a literal zero denominator.
	ErrDivisionByZero = errors.New("division by zero")

	// ErrDifferentiation indicates a differentiation rule could not be applied.
	ErrDifferentiation = errors.New("differentiation error")
)

// TokenError reports a malformed token.
type TokenError struct {
	Pos    int
	Token  string
	Reason string
}

func (e *TokenError) Error() string {
	return fmt.Sprintf("tokenizing error at token %d %q: %s", e.Pos, e.Token, e.Reason)
}

func (e *TokenError) Unwrap() error { return ErrTokenizing }

// ParseError reports an RPN sequence that does not reduce to a single tree.
// Pos is -1 when the failure is detected after the last token.
type ParseError struct {
	Pos    int
	Token  string
	Reason string
}

func (e *ParseError) Error() string {
	if e.Pos < 0 {
		return "parsing error: " + e.Reason
	}
	return fmt.Sprintf("parsing error at token %d %q: %s", e.Pos, e.Token, e.Reason)
}

func (e *ParseError) Unwrap() error { return ErrParsing }

// UnknownConstantError reports a Const node whose name has no value.
type UnknownConstantError struct {
	Name string
}

func (e *UnknownConstantError) Error() string {
	return fmt.Sprintf("constant %s is unknown", e.Name)
}

func (e *UnknownConstantError) Unwrap() error { return ErrUnknownConstant }

// EvalError reports a domain violation. Op names the node that raised it and
// Value is the offending operand.
type EvalError struct {
	Op     string
	Value  float64
	Reason string
}

func (e *EvalError) Error() string {
	return fmt.Sprintf("evaluation error in %s: %s (got %v)", e.Op, e.Reason, e.Value)
}

func (e *EvalError) Unwrap() error { return ErrEvaluation }

// DivisionByZeroError is raised by Simplify when a Div node has the literal 0
// as its denominator.
type DivisionByZeroError struct {
	Expr string
}

func (e *DivisionByZeroError) Error() string {
	return "division by zero in " + e.Expr
}

func (e *DivisionByZeroError) Unwrap() error { return ErrDivisionByZero }

// DiffError is reserved for node variants without a derivative rule.
type DiffError struct {
	Op     string
	Reason string
}

func (e *DiffError) Error() string {
	return fmt.Sprintf("cannot differentiate %s: %s", e.Op, e.Reason)
}

func (e *DiffError) Unwrap() error { return ErrDifferentiation }

// ErrorKind maps an engine error to a short stable name used by the tool
// dispatcher and the HTTP server. Unknown errors map to "internal".
func ErrorKind(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrTokenizing):
		return "tokenizing"
	case errors.Is(err, ErrParsing):
		return "parsing"
	case errors.Is(err, ErrUnknownConstant):
		return "unknown_constant"
	case errors.Is(err, ErrEvaluation):
		return "evaluation"
	case errors.Is(err, ErrDivisionByZero):
		return "division_by_zero"
	case errors.Is(err, ErrDifferentiation):
		return "differentiation"
	case errors.Is(err, ErrInvalidRange), errors.Is(err, errInvalidRequest):
		return "invalid_request"
	}
	return "internal"
}
