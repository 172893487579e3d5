package workload

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/dop251/goja"
)

// exprEnv is the set of variables visible to a generator expression.
type exprEnv struct {
	Index int
	Count int
}

// evaluator runs generator field expressions in a goja runtime.
// Supported forms:
//   - literals: "7", "P1"
//   - interpolation: "G$(index + 1)"
//   - code blocks: "${ return 2 + index % 3; }"
type evaluator struct {
	vm *goja.Runtime
}

func newEvaluator() *evaluator {
	return &evaluator{vm: goja.New()}
}

func (e *evaluator) bind(env exprEnv) error {
	if err := e.vm.Set("index", env.Index); err != nil {
		return fmt.Errorf("set index: %w", err)
	}
	if err := e.vm.Set("count", env.Count); err != nil {
		return fmt.Errorf("set count: %w", err)
	}
	return nil
}

// evaluate returns the typed value of expr. A sole expression keeps its
// JavaScript type; mixed text is interpolated into a string.
func (e *evaluator) evaluate(expr string, env exprEnv) (any, error) {
	if !containsExpression(expr) {
		return unescape(expr), nil
	}
	if err := e.bind(env); err != nil {
		return nil, err
	}

	trimmed := strings.TrimSpace(expr)
	if strings.HasPrefix(trimmed, "${") {
		idx := findMatchingBrace(trimmed)
		if idx < 0 {
			return nil, fmt.Errorf("unterminated code block in %q", expr)
		}
		val, err := e.codeBlock(trimmed[:idx+1])
		if err != nil {
			return nil, err
		}
		if rest := trimmed[idx+1:]; rest != "" {
			return toString(val) + rest, nil
		}
		return val, nil
	}
	return e.interpolate(expr)
}

// evaluateInt evaluates expr and requires a whole number.
func (e *evaluator) evaluateInt(expr string, env exprEnv) (int, error) {
	val, err := e.evaluate(expr, env)
	if err != nil {
		return 0, err
	}
	switch v := val.(type) {
	case int64:
		return int(v), nil
	case int:
		return v, nil
	case float64:
		if v != float64(int64(v)) {
			return 0, fmt.Errorf("%q evaluated to %v, want a whole number", expr, v)
		}
		return int(v), nil
	case string:
		n, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return 0, fmt.Errorf("%q evaluated to %q, want a whole number", expr, v)
		}
		return n, nil
	default:
		return 0, fmt.Errorf("%q evaluated to %T, want a whole number", expr, val)
	}
}

// evaluateString evaluates expr and formats the result as text.
func (e *evaluator) evaluateString(expr string, env exprEnv) (string, error) {
	val, err := e.evaluate(expr, env)
	if err != nil {
		return "", err
	}
	return toString(val), nil
}

func (e *evaluator) codeBlock(block string) (any, error) {
	code := strings.TrimSpace(strings.TrimSuffix(strings.TrimPrefix(block, "${"), "}"))
	val, err := e.vm.RunString(fmt.Sprintf("(function() { %s })()", code))
	if err != nil {
		return nil, fmt.Errorf("javascript error: %w", err)
	}
	if goja.IsUndefined(val) || goja.IsNull(val) {
		return nil, fmt.Errorf("code block %s returned no value", block)
	}
	return val.Export(), nil
}

func (e *evaluator) interpolate(expr string) (any, error) {
	matches := findExpressions(expr)
	if len(matches) == 0 {
		return unescape(expr), nil
	}

	if len(matches) == 1 && matches[0].start == 0 && matches[0].end == len(expr) {
		return e.run(matches[0].expr)
	}

	var b strings.Builder
	last := 0
	for _, m := range matches {
		b.WriteString(expr[last:m.start])
		val, err := e.run(m.expr)
		if err != nil {
			return nil, err
		}
		b.WriteString(toString(val))
		last = m.end
	}
	b.WriteString(expr[last:])
	return unescape(b.String()), nil
}

func (e *evaluator) run(code string) (any, error) {
	val, err := e.vm.RunString(code)
	if err != nil {
		return nil, fmt.Errorf("expression error in $(%s): %w", code, err)
	}
	if goja.IsUndefined(val) {
		return nil, fmt.Errorf("expression $(%s) is undefined", code)
	}
	return val.Export(), nil
}

type exprMatch struct {
	start int // index of "$("
	end   int // index after ")"
	expr  string
}

// findExpressions returns every unescaped $(...) in s, with nested
// parentheses balanced.
func findExpressions(s string) []exprMatch {
	var matches []exprMatch
	for i := 0; i < len(s)-1; i++ {
		if s[i] != '$' || s[i+1] != '(' || (i > 0 && s[i-1] == '\\') {
			continue
		}
		depth := 1
		j := i + 2
		for j < len(s) && depth > 0 {
			switch s[j] {
			case '(':
				depth++
			case ')':
				depth--
			}
			j++
		}
		if depth != 0 {
			break
		}
		matches = append(matches, exprMatch{start: i, end: j, expr: s[i+2 : j-1]})
		i = j - 1
	}
	return matches
}

func findMatchingBrace(s string) int {
	depth := 0
	for i, c := range s {
		switch c {
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return i
			}
		}
	}
	return -1
}

func containsExpression(s string) bool {
	if strings.HasPrefix(strings.TrimSpace(s), "${") {
		return true
	}
	for i := 0; i < len(s)-1; i++ {
		if s[i] == '$' && s[i+1] == '(' && (i == 0 || s[i-1] != '\\') {
			return true
		}
	}
	return false
}

func unescape(s string) string {
	s = strings.ReplaceAll(s, "\\$(", "$(")
	return strings.ReplaceAll(s, "\\${", "${")
}

func toString(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case int64:
		return strconv.FormatInt(val, 10)
	case int:
		return strconv.Itoa(val)
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	default:
		return fmt.Sprintf("%v", val)
	}
}
