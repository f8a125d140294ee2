package calculus

import (
	"math"
	"strconv"
	"strings"
)

// Build turns an RPN token sequence into a tree with a single left-to-right
// pass over an operand stack. Binary operators pop the right operand first.
func Build(tokens []Token) (Node, error) {
	stack := make([]Node, 0, len(tokens))

	pop := func(t Token) (Node, error) {
		if len(stack) == 0 {
			return nil, &ParseError{Pos: t.Pos, Token: t.String(), Reason: "not enough operands for operator " + string(t.Type)}
		}
		n := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		return n, nil
	}

	for _, t := range tokens {
		n, known := t.Type.Arity()
		if !known {
			return nil, &TokenError{Pos: t.Pos, Token: t.String(), Reason: "unknown token type " + string(t.Type)}
		}
		var node Node
		switch n {
		case 0:
			leaf, err := leafNode(t)
			if err != nil {
				return nil, err
			}
			node = leaf
		case 1:
			arg, err := pop(t)
			if err != nil {
				return nil, err
			}
			node = unaryNode(t.Type, arg)
		case 2:
			right, err := pop(t)
			if err != nil {
				return nil, err
			}
			left, err := pop(t)
			if err != nil {
				return nil, err
			}
			node = binaryNode(t.Type, left, right)
		}
		stack = append(stack, node)
	}

	if len(stack) != 1 {
		return nil, &ParseError{Pos: -1, Reason: "the input is not a valid expression (" + strconv.Itoa(len(stack)) + " operands left)"}
	}
	return stack[0], nil
}

func leafNode(t Token) (Node, error) {
	if t.Type == VAR {
		return X(), nil
	}
	raw := strings.TrimSpace(t.Value)
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) || strings.ContainsAny(raw, "xX") {
		return nil, &TokenError{Pos: t.Pos, Token: t.String(), Reason: "invalid number " + strconv.Quote(t.Value)}
	}
	if v == eulerSentinel {
		return E(), nil
	}
	return N(v), nil
}

func unaryNode(t TokenType, arg Node) Node {
	switch t {
	case UNMINUS:
		return NegOf(arg)
	case SIN:
		return SinOf(arg)
	case ASIN:
		return AsinOf(arg)
	case COS:
		return CosOf(arg)
	case ACOS:
		return AcosOf(arg)
	case TAN:
		return TanOf(arg)
	case ATAN:
		return AtanOf(arg)
	case SQRT:
		return SqrtOf(arg)
	case LN:
		return LnOf(arg)
	}
	return nil
}

func binaryNode(t TokenType, left, right Node) Node {
	switch t {
	case PLUS:
		return AddOf(left, right)
	case MINUS:
		return SubOf(left, right)
	case TIMES:
		return MulOf(left, right)
	case DIV:
		return DivOf(left, right)
	case POW:
		return PowOf(left, right)
	case LOG:
		return LogOf(left, right)
	case ROOT:
		return RootOf(left, right)
	}
	return nil
}
