package calculus

import "strings"

// TokenType is the tag in front of the colon of a wire token.
type TokenType string

const (
	VAL     TokenType = "VAL"
	VAR     TokenType = "VAR"
	PLUS    TokenType = "PLUS"
	MINUS   TokenType = "MINUS"
	TIMES   TokenType = "TIMES"
	DIV     TokenType = "DIV"
	POW     TokenType = "POW"
	UNMINUS TokenType = "UNMINUS"

	SIN  TokenType = "SIN"
	ASIN TokenType = "ASIN"
	COS  TokenType = "COS"
	ACOS TokenType = "ACOS"
	TAN  TokenType = "TAN"
	ATAN TokenType = "ATAN"

	ROOT TokenType = "ROOT"
	SQRT TokenType = "SQRT"

	LN  TokenType = "LN"
	LOG TokenType = "LOG"
)

// arity is the number of operands each token type pops. Leaves pop none.
var arity = map[TokenType]int{
	VAL: 0, VAR: 0,
	PLUS: 2, MINUS: 2, TIMES: 2, DIV: 2, POW: 2, ROOT: 2, LOG: 2,
	UNMINUS: 1, SIN: 1, ASIN: 1, COS: 1, ACOS: 1, TAN: 1, ATAN: 1, SQRT: 1, LN: 1,
}

// Arity reports how many operands t pops and whether t is a known type.
func (t TokenType) Arity() (int, bool) {
	n, ok := arity[t]
	return n, ok
}

// Token is one decoded "(TYPE:value)" string. Pos is its index in the input.
type Token struct {
	Type  TokenType
	Value string
	Pos   int
}

func (t Token) String() string { return "(" + string(t.Type) + ":" + t.Value + ")" }

// Tokenize decodes a single wire token.
func Tokenize(raw string, pos int) (Token, error) {
	if len(raw) < 2 || raw[0] != '(' || raw[len(raw)-1] != ')' {
		return Token{}, &TokenError{Pos: pos, Token: raw, Reason: "token must be enclosed in parentheses"}
	}
	typ, value, ok := strings.Cut(raw[1:len(raw)-1], ":")
	if !ok {
		return Token{}, &TokenError{Pos: pos, Token: raw, Reason: "missing ':' separator"}
	}
	t := TokenType(typ)
	if _, known := arity[t]; !known {
		return Token{}, &TokenError{Pos: pos, Token: raw, Reason: "unknown token type " + typ}
	}
	return Token{Type: t, Value: value, Pos: pos}, nil
}

// TokenizeAll decodes every token, stopping at the first malformed one.
func TokenizeAll(raw []string) ([]Token, error) {
	tokens := make([]Token, len(raw))
	for i, r := range raw {
		t, err := Tokenize(r, i)
		if err != nil {
			return nil, err
		}
		tokens[i] = t
	}
	return tokens, nil
}
