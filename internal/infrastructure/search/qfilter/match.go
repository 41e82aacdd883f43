package qfilter

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
	"sync"

	"github.com/google/cel-go/cel"

	"linkarchive/internal/domain/omnisearch"
)

// Record is one element of an in-memory collection.
type Record = map[string]any

const rowVar = "row"

var celEnv = sync.OnceValues(func() (*cel.Env, error) {
	return cel.NewEnv(
		cel.Variable(rowVar, cel.MapType(cel.StringType, cel.DynType)),
	)
})

// Program is a Q compiled for evaluation against records.
type Program struct {
	source string
	prg    cel.Program
}

// Compile translates q into a CEL program.
func Compile(q Q) (*Program, error) {
	src, err := Expression(q)
	if err != nil {
		return nil, err
	}

	env, err := celEnv()
	if err != nil {
		return nil, fmt.Errorf("cel env: %w", err)
	}

	ast, iss := env.Compile(src)
	if iss != nil && iss.Err() != nil {
		return nil, fmt.Errorf("compile %q: %w", src, iss.Err())
	}

	prg, err := env.Program(ast)
	if err != nil {
		return nil, fmt.Errorf("program %q: %w", src, err)
	}

	return &Program{source: src, prg: prg}, nil
}

// Source returns the CEL expression.
func (p *Program) Source() string {
	return p.source
}

// Match reports whether r satisfies the program. Records whose values cannot
// be compared (missing nested maps, non-convertible types) do not match.
func (p *Program) Match(r Record) bool {
	out, _, err := p.prg.Eval(map[string]any{rowVar: r})
	if err != nil {
		return false
	}
	b, ok := out.Value().(bool)
	return ok && b
}

// Expression renders q as a CEL boolean expression over the row variable.
func Expression(q Q) (string, error) {
	if q.IsEmpty() {
		return "true", nil
	}

	parts := make([]string, 0, len(q.Children))
	for _, child := range q.Children {
		var (
			expr string
			err  error
		)
		switch c := child.(type) {
		case Lookup:
			expr, err = lookupExpression(c)
		case Q:
			expr, err = Expression(c)
		default:
			err = fmt.Errorf("unexpected Q child %T", child)
		}
		if err != nil {
			return "", err
		}
		parts = append(parts, expr)
	}

	sep := " && "
	if q.connector() == OR {
		sep = " || "
	}
	expr := "(" + strings.Join(parts, sep) + ")"
	if q.Negated {
		expr = "!" + expr
	}
	return expr, nil
}

func lookupExpression(l Lookup) (string, error) {
	path, lookup := splitKey(l.Key)
	acc := accessor(path)
	guard := guardExpression(path)
	str := "string(" + acc + ")"

	var cmp string
	switch lookup {
	case "isnull":
		if truthy(l.Value) {
			return "(!(" + guard + ") || " + acc + " == null)", nil
		}
		return "(" + guard + " && " + acc + " != null)", nil
	case "exact":
		cmp = equalExpression(acc, l.Value)
	case "iexact":
		cmp = str + ".matches(" + foldPattern(`\A`, l.Value, `\z`) + ")"
	case "contains":
		cmp = str + ".contains(" + quote(l.Value) + ")"
	case "icontains":
		cmp = str + ".matches(" + foldPattern("", l.Value, "") + ")"
	case "startswith":
		cmp = str + ".startsWith(" + quote(l.Value) + ")"
	case "istartswith":
		cmp = str + ".matches(" + foldPattern(`\A`, l.Value, "") + ")"
	case "endswith":
		cmp = str + ".endsWith(" + quote(l.Value) + ")"
	case "iendswith":
		cmp = str + ".matches(" + foldPattern("", l.Value, `\z`) + ")"
	case "gt":
		cmp = orderExpression(acc, ">", l.Value)
	case "gte":
		cmp = orderExpression(acc, ">=", l.Value)
	case "lt":
		cmp = orderExpression(acc, "<", l.Value)
	case "lte":
		cmp = orderExpression(acc, "<=", l.Value)
	case "in":
		values := listValues(l.Value)
		if len(values) == 0 {
			return "false", nil
		}
		quoted := make([]string, len(values))
		for i, v := range values {
			quoted[i] = strconv.Quote(v)
		}
		cmp = str + " in [" + strings.Join(quoted, ", ") + "]"
	case "regex":
		cmp = str + ".matches(" + quote(l.Value) + ")"
	case "iregex":
		cmp = str + ".matches(" + strconv.Quote("(?i)"+fmt.Sprint(l.Value)) + ")"
	default:
		return "", fmt.Errorf("unsupported lookup %q", lookup)
	}

	return "(" + guard + " && " + cmp + ")", nil
}

// splitKey splits "a__b__icontains" into the path [a b] and the lookup.
func splitKey(key string) ([]string, string) {
	segments := strings.Split(key, omnisearch.LookupSeparator)
	if len(segments) > 1 {
		last := segments[len(segments)-1]
		if _, ok := omnisearch.KnownLookups[last]; ok {
			return segments[:len(segments)-1], last
		}
	}
	return segments, "exact"
}

func accessor(path []string) string {
	var b strings.Builder
	b.WriteString(rowVar)
	for _, seg := range path {
		b.WriteString("[")
		b.WriteString(strconv.Quote(seg))
		b.WriteString("]")
	}
	return b.String()
}

func guardExpression(path []string) string {
	parts := make([]string, len(path))
	for i, seg := range path {
		parts[i] = strconv.Quote(seg) + " in " + accessor(path[:i])
	}
	return strings.Join(parts, " && ")
}

func equalExpression(acc string, value any) string {
	switch v := value.(type) {
	case nil:
		return acc + " == null"
	case bool:
		return acc + " == " + strconv.FormatBool(v)
	case int:
		return "double(" + acc + ") == " + doubleLiteral(float64(v))
	case float64:
		return "double(" + acc + ") == " + doubleLiteral(v)
	default:
		return "string(" + acc + ") == " + quote(v)
	}
}

// orderExpression compares numerically when the value is a number and
// lexicographically otherwise.
func orderExpression(acc, op string, value any) string {
	if f, ok := number(value); ok {
		return "double(" + acc + ") " + op + " " + doubleLiteral(f)
	}
	return "string(" + acc + ") " + op + " " + quote(value)
}

func number(value any) (float64, bool) {
	switch v := value.(type) {
	case int:
		return float64(v), true
	case float64:
		return v, true
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil || math.IsInf(f, 0) || math.IsNaN(f) {
			return 0, false
		}
		return f, true
	default:
		return 0, false
	}
}

func doubleLiteral(f float64) string {
	s := strconv.FormatFloat(f, 'f', -1, 64)
	if !strings.Contains(s, ".") {
		s += ".0"
	}
	return s
}

// foldPattern quotes a regular expression matching value literally under
// Unicode case folding, anchored by prefix and suffix.
func foldPattern(prefix string, value any, suffix string) string {
	return strconv.Quote("(?i)" + prefix + regexp.QuoteMeta(fmt.Sprint(value)) + suffix)
}

func quote(value any) string {
	return strconv.Quote(fmt.Sprint(value))
}

func truthy(value any) bool {
	switch v := value.(type) {
	case bool:
		return v
	case string:
		b, err := strconv.ParseBool(strings.TrimSpace(v))
		return err == nil && b
	default:
		return false
	}
}

func listValues(value any) []string {
	switch v := value.(type) {
	case []string:
		return v
	case string:
		var out []string
		for _, part := range strings.Split(v, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
		return out
	default:
		return []string{fmt.Sprint(v)}
	}
}
