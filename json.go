package calculus

import (
	"encoding/json"
	"fmt"
)

// ============================================================
// JSON Serialization
// ============================================================

func ToJSON(n Node) (string, error) {
	b, err := json.Marshal(n.toJSON())
	return string(b), err
}

// ToMap returns the tree in the generic form accepted by FromJSON.
func ToMap(n Node) map[string]interface{} { return n.toJSON() }

func FromJSON(data map[string]interface{}) (Node, error) {
	if data == nil {
		return nil, fmt.Errorf("expression must be an object")
	}
	typAny, ok := data["type"]
	if !ok {
		return nil, fmt.Errorf("missing 'type' field")
	}
	typ, ok := typAny.(string)
	if !ok || typ == "" {
		return nil, fmt.Errorf("field 'type' must be a non-empty string")
	}

	sub := func(field string) (Node, error) {
		v, ok := data[field]
		if !ok {
			return nil, fmt.Errorf("%s: missing %q", typ, field)
		}
		m, ok := v.(map[string]interface{})
		if !ok {
			return nil, fmt.Errorf("%s: %q must be an object", typ, field)
		}
		n, err := FromJSON(m)
		if err != nil {
			return nil, fmt.Errorf("%s: %s: %w", typ, field, err)
		}
		return n, nil
	}
	pair := func(a, b string) (Node, Node, error) {
		l, err := sub(a)
		if err != nil {
			return nil, nil, err
		}
		r, err := sub(b)
		if err != nil {
			return nil, nil, err
		}
		return l, r, nil
	}

	switch typ {
	case "num":
		v, ok := data["value"].(float64)
		if !ok {
			return nil, fmt.Errorf("num: 'value' must be a number")
		}
		return N(v), nil

	case "const":
		name, ok := data["name"].(string)
		if !ok || name == "" {
			return nil, fmt.Errorf("const: 'name' must be a non-empty string")
		}
		return C(name), nil

	case "var":
		return X(), nil

	case "neg", "sin", "cos", "tan", "asin", "acos", "atan", "ln", "sqrt":
		arg, err := sub("arg")
		if err != nil {
			return nil, err
		}
		return unaryNode(jsonUnary[typ], arg), nil

	case "add", "sub", "mul", "div", "pow":
		l, r, err := pair("left", "right")
		if err != nil {
			return nil, err
		}
		return binaryNode(jsonBinary[typ], l, r), nil

	case "log":
		b, a, err := pair("base", "arg")
		if err != nil {
			return nil, err
		}
		return LogOf(b, a), nil

	case "root":
		n, a, err := pair("degree", "radicand")
		if err != nil {
			return nil, err
		}
		return RootOf(n, a), nil
	}
	return nil, fmt.Errorf("unknown expression type: %s", typ)
}

var jsonUnary = map[string]TokenType{
	"neg": UNMINUS, "sin": SIN, "cos": COS, "tan": TAN,
	"asin": ASIN, "acos": ACOS, "atan": ATAN, "ln": LN, "sqrt": SQRT,
}

var jsonBinary = map[string]TokenType{
	"add": PLUS, "sub": MINUS, "mul": TIMES, "div": DIV, "pow": POW,
}
