// Package tablesearch is the SQL backend of the search engine. Predicates are
// squirrel expressions rendered into the WHERE clause of a table select.
package tablesearch

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/Masterminds/squirrel"

	"linkarchive/internal/domain/omnisearch"
)

// Compile-time checks that the evaluators implement the engine contracts.
var (
	_ omnisearch.SymbolEvaluator[squirrel.Sqlizer]   = SymbolEvaluator{}
	_ omnisearch.EquationEvaluator[squirrel.Sqlizer] = EquationEvaluator{}
)

// DefaultSearchColumns are matched by bare search terms when no default
// fields are configured.
var DefaultSearchColumns = []string{"link", "title", "description"}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// escapeLike escapes LIKE metacharacters so value matches literally.
func escapeLike(value string) string {
	return likeEscaper.Replace(value)
}

// containsPattern wraps value in % unless it carries its own * wildcards.
func containsPattern(value string) string {
	escaped := escapeLike(value)
	if strings.Contains(value, "*") {
		return strings.ReplaceAll(escaped, "*", "%")
	}
	return "%" + escaped + "%"
}

// SymbolEvaluator turns leaves into column conditions.
type SymbolEvaluator struct {
	IgnoreCase bool
}

func (e SymbolEvaluator) like(col, pattern string) squirrel.Sqlizer {
	return textLike(col, pattern, e.IgnoreCase)
}

// textLike matches the text form of col, so pattern lookups also work on
// numeric, boolean and timestamp columns.
func textLike(col, pattern string, ignoreCase bool) squirrel.Sqlizer {
	col += "::text"
	if ignoreCase {
		return squirrel.ILike{col: pattern}
	}
	return squirrel.Like{col: pattern}
}

// EvaluateComplexSymbol translates one comparison.
func (e SymbolEvaluator) EvaluateComplexSymbol(scope omnisearch.Scope, c omnisearch.Comparison) (squirrel.Sqlizer, error) {
	if c.Operator == omnisearch.OpRawSuffix {
		col, ok := scope.Mapping.Translate(c.BaseField())
		if !ok {
			return nil, omnisearch.UnknownField(c)
		}
		return e.rawLookup(col, c)
	}

	col, ok := scope.Mapping.Translate(c.Field)
	if !ok {
		return nil, omnisearch.UnknownField(c)
	}
	value := fmt.Sprint(c.Value)

	switch c.Operator {
	case omnisearch.OpEq:
		return squirrel.Eq{col: c.Value}, nil
	case omnisearch.OpExact:
		if e.IgnoreCase {
			return textLike(col, escapeLike(value), true), nil
		}
		return squirrel.Eq{col: c.Value}, nil
	case omnisearch.OpContains:
		return e.like(col, containsPattern(value)), nil
	case omnisearch.OpGt:
		return squirrel.Gt{col: c.Value}, nil
	case omnisearch.OpGte:
		return squirrel.GtOrEq{col: c.Value}, nil
	case omnisearch.OpLt:
		return squirrel.Lt{col: c.Value}, nil
	case omnisearch.OpLte:
		return squirrel.LtOrEq{col: c.Value}, nil
	default:
		return nil, omnisearch.UnsupportedOperator(c, c.Operator.String())
	}
}

func (e SymbolEvaluator) rawLookup(col string, c omnisearch.Comparison) (squirrel.Sqlizer, error) {
	value := fmt.Sprint(c.Value)

	switch c.Lookup {
	case "exact":
		return squirrel.Eq{col: c.Value}, nil
	case "iexact":
		return textLike(col, escapeLike(value), true), nil
	case "contains":
		return textLike(col, "%" + escapeLike(value) + "%", false), nil
	case "icontains":
		return textLike(col, "%" + escapeLike(value) + "%", true), nil
	case "startswith":
		return textLike(col, escapeLike(value) + "%", false), nil
	case "istartswith":
		return textLike(col, escapeLike(value) + "%", true), nil
	case "endswith":
		return textLike(col, "%" + escapeLike(value), false), nil
	case "iendswith":
		return textLike(col, "%" + escapeLike(value), true), nil
	case "gt":
		return squirrel.Gt{col: c.Value}, nil
	case "gte":
		return squirrel.GtOrEq{col: c.Value}, nil
	case "lt":
		return squirrel.Lt{col: c.Value}, nil
	case "lte":
		return squirrel.LtOrEq{col: c.Value}, nil
	case "isnull":
		if isTrue(c.Value) {
			return squirrel.Eq{col: nil}, nil
		}
		return squirrel.NotEq{col: nil}, nil
	case "in":
		return squirrel.Eq{col: splitList(value)}, nil
	default:
		return nil, omnisearch.UnsupportedOperator(c, c.Lookup)
	}
}

// EvaluateSimpleSymbol matches a bare term against the default columns.
func (e SymbolEvaluator) EvaluateSimpleSymbol(scope omnisearch.Scope, term string) (squirrel.Sqlizer, error) {
	if len(scope.DefaultFields) == 0 {
		return nil, omnisearch.NoSearchFields(term)
	}

	pattern := containsPattern(term)
	or := make(squirrel.Or, 0, len(scope.DefaultFields))
	for _, col := range scope.DefaultFields {
		or = append(or, e.like(col, pattern))
	}
	if len(or) == 1 {
		return or[0], nil
	}
	return or, nil
}

func isTrue(v any) bool {
	switch v := v.(type) {
	case bool:
		return v
	case string:
		b, err := strconv.ParseBool(strings.TrimSpace(v))
		return err == nil && b
	}
	return false
}

func splitList(value string) []string {
	out := []string{}
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// EquationEvaluator combines conditions with AND, OR and NOT.
type EquationEvaluator struct{}

// EvaluateFunction applies op to the operands. Nested conjunctions of the same
// kind are flattened.
func (EquationEvaluator) EvaluateFunction(op omnisearch.BoolOp, operands ...squirrel.Sqlizer) (squirrel.Sqlizer, error) {
	switch {
	case op == omnisearch.BoolAnd && len(operands) == 2:
		out := squirrel.And{}
		for _, o := range operands {
			if inner, ok := o.(squirrel.And); ok {
				out = append(out, inner...)
				continue
			}
			out = append(out, o)
		}
		return out, nil
	case op == omnisearch.BoolOr && len(operands) == 2:
		out := squirrel.Or{}
		for _, o := range operands {
			if inner, ok := o.(squirrel.Or); ok {
				out = append(out, inner...)
				continue
			}
			out = append(out, o)
		}
		return out, nil
	case op == omnisearch.BoolNot && len(operands) == 1:
		return Not(operands[0]), nil
	default:
		return nil, omnisearch.ErrUnsupportedFunction
	}
}

// NewEngine returns a search engine producing SQL conditions.
func NewEngine(mapping *omnisearch.Mapping, defaultColumns []string, ignoreCase bool) *omnisearch.Engine[squirrel.Sqlizer] {
	return omnisearch.NewWithDefault[squirrel.Sqlizer](
		SymbolEvaluator{IgnoreCase: ignoreCase},
		EquationEvaluator{},
		mapping,
		defaultColumns,
	)
}
