package calculus

import (
	"encoding/json"
	"errors"
	"fmt"
)

// ============================================================
// Tool Interface
// ============================================================

var errInvalidRequest = errors.New("invalid request")

type ToolRequest struct {
	Tool   string                 `json:"tool"`
	Params map[string]interface{} `json:"params"`
}

type ToolResponse struct {
	Result interface{} `json:"result,omitempty"`
	LaTeX  string      `json:"latex,omitempty"`
	String string      `json:"string,omitempty"`
	Error  string      `json:"error,omitempty"`
	Kind   string      `json:"kind,omitempty"`
}

func errorResponse(err error) ToolResponse {
	return ToolResponse{Error: err.Error(), Kind: ErrorKind(err)}
}

func invalid(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", errInvalidRequest, fmt.Sprintf(format, args...))
}

// RequestExpression extracts the expression of a tool request. It accepts
// either "tokens" (an array of RPN wire tokens) or "expr" (a JSON tree).
func RequestExpression(params map[string]interface{}) (*Expression, error) {
	if raw, ok := params["tokens"]; ok {
		tokens, err := stringList(raw)
		if err != nil {
			return nil, invalid("param tokens: %v", err)
		}
		return Parse(tokens)
	}
	if raw, ok := params["expr"]; ok {
		m, ok := raw.(map[string]interface{})
		if !ok {
			return nil, invalid("param expr must be an expression object")
		}
		root, err := FromJSON(m)
		if err != nil {
			return nil, invalid("param expr: %v", err)
		}
		return NewExpression(root), nil
	}
	return nil, invalid("missing param: tokens or expr")
}

func stringList(v interface{}) ([]string, error) {
	switch raw := v.(type) {
	case []string:
		return raw, nil
	case []interface{}:
		out := make([]string, len(raw))
		for i, r := range raw {
			s, ok := r.(string)
			if !ok {
				return nil, fmt.Errorf("element %d must be a string", i)
			}
			out[i] = s
		}
		return out, nil
	}
	return nil, fmt.Errorf("must be an array of strings")
}

func HandleToolCall(req ToolRequest) ToolResponse {
	getNumber := func(key string, def float64, required bool) (float64, error) {
		v, ok := req.Params[key]
		if !ok {
			if required {
				return 0, invalid("missing param: %s", key)
			}
			return def, nil
		}
		f, ok := v.(float64)
		if !ok {
			return 0, invalid("param %s must be a number", key)
		}
		return f, nil
	}
	getBool := func(key string, def bool) (bool, error) {
		v, ok := req.Params[key]
		if !ok {
			return def, nil
		}
		b, ok := v.(bool)
		if !ok {
			return false, invalid("param %s must be a boolean", key)
		}
		return b, nil
	}
	treeResponse := func(e *Expression) ToolResponse {
		return ToolResponse{Result: ToMap(e.Root()), String: e.String(), LaTeX: e.LaTeX()}
	}

	if req.Tool == "tool_spec" {
		return ToolResponse{Result: json.RawMessage(ToolSpec())}
	}

	e, err := RequestExpression(req.Params)
	if err != nil {
		if _, known := toolNames[req.Tool]; !known {
			return errorResponse(invalid("unknown tool: %s", req.Tool))
		}
		return errorResponse(err)
	}

	switch req.Tool {
	case "evaluate":
		x, err := getNumber("x", 0, true)
		if err != nil {
			return errorResponse(err)
		}
		v, err := e.Evaluate(x)
		if err != nil {
			return errorResponse(err)
		}
		return ToolResponse{Result: v, String: e.String()}

	case "diff":
		simplify, err := getBool("simplify", true)
		if err != nil {
			return errorResponse(err)
		}
		d, err := e.Diff(simplify)
		if err != nil {
			return errorResponse(err)
		}
		return treeResponse(d)

	case "simplify":
		if _, err := e.Simplify(); err != nil {
			return errorResponse(err)
		}
		return treeResponse(e)

	case "render":
		return ToolResponse{String: e.String()}

	case "latex":
		return ToolResponse{LaTeX: e.LaTeX()}

	case "sample":
		from, err := getNumber("from", 0, true)
		if err != nil {
			return errorResponse(err)
		}
		to, err := getNumber("to", 0, true)
		if err != nil {
			return errorResponse(err)
		}
		steps, err := getNumber("steps", 100, false)
		if err != nil {
			return errorResponse(err)
		}
		if !isWhole(steps) || steps > MaxSampleSteps {
			return errorResponse(fmt.Errorf("%w: steps must be a whole number up to %d, got %v", ErrInvalidRange, MaxSampleSteps, steps))
		}
		s, err := Sample(e, from, to, int(steps))
		if err != nil {
			return errorResponse(err)
		}
		return ToolResponse{Result: s, String: e.String()}
	}
	return errorResponse(invalid("unknown tool: %s", req.Tool))
}

var toolNames = map[string]struct{}{
	"evaluate": {}, "diff": {}, "simplify": {}, "render": {}, "latex": {}, "sample": {}, "tool_spec": {},
}

// ToolSpec describes the tools accepted by HandleToolCall as JSON.
func ToolSpec() string {
	source := map[string]string{"tokens": "array", "expr": "object"}
	with := func(extra map[string]string) map[string]string {
		out := map[string]string{}
		for k, v := range source {
			out[k] = v
		}
		for k, v := range extra {
			out[k] = v
		}
		return out
	}
	tools := []map[string]interface{}{
		ts("evaluate", "Evaluate the expression at x", []string{"x"}, with(map[string]string{"x": "number"})),
		ts("diff", "Derivative d/dx, simplified unless simplify=false", []string{}, with(map[string]string{"simplify": "boolean"})),
		ts("simplify", "Single-pass algebraic simplification", []string{}, source),
		ts("render", "Fully parenthesised infix form", []string{}, source),
		ts("latex", "LaTeX form", []string{}, source),
		ts("sample", "Sample f and f' over [from, to]", []string{"from", "to"}, with(map[string]string{"from": "number", "to": "number", "steps": "integer"})),
		ts("tool_spec", "Return this tool schema", []string{}, map[string]string{}),
	}
	spec := map[string]interface{}{"tools": tools}
	b, _ := json.MarshalIndent(spec, "", "  ")
	return string(b)
}

func ts(name, description string, required []string, props map[string]string) map[string]interface{} {
	properties := map[string]interface{}{}
	for k, typ := range props {
		properties[k] = map[string]interface{}{"type": typ}
	}
	return map[string]interface{}{
		"name":        name,
		"description": description,
		"inputSchema": map[string]interface{}{
			"type":       "object",
			"properties": properties,
			"required":   required,
		},
	}
}
