package qfilter

import (
	"strings"

	"linkarchive/internal/domain/omnisearch"
)

// Compile-time checks that the evaluators implement the engine contracts.
var (
	_ omnisearch.SymbolEvaluator[Q]   = SymbolEvaluator{}
	_ omnisearch.EquationEvaluator[Q] = EquationEvaluator{}
)

// lookupSuffixes maps query operators to lookup suffixes. OpEq has none:
// a bare field name is an exact match.
var lookupSuffixes = map[omnisearch.Operator]string{
	omnisearch.OpEq:       "",
	omnisearch.OpExact:    "iexact",
	omnisearch.OpContains: "icontains",
	omnisearch.OpGt:       "gt",
	omnisearch.OpGte:      "gte",
	omnisearch.OpLt:       "lt",
	omnisearch.OpLte:      "lte",
}

// SymbolEvaluator turns leaves into single-lookup Q values.
type SymbolEvaluator struct{}

// EvaluateComplexSymbol translates one comparison.
func (SymbolEvaluator) EvaluateComplexSymbol(scope omnisearch.Scope, c omnisearch.Comparison) (Q, error) {
	field, ok := scope.Mapping.Resolve(c)
	if !ok {
		return Q{}, omnisearch.UnknownField(c)
	}

	if c.Operator == omnisearch.OpRawSuffix {
		return NewQ(field, c.Value), nil
	}

	suffix, ok := lookupSuffixes[c.Operator]
	if !ok {
		return Q{}, omnisearch.UnsupportedOperator(c, c.Operator.String())
	}
	if suffix == "" {
		return NewQ(field, c.Value), nil
	}
	return NewQ(field+omnisearch.LookupSeparator+suffix, c.Value), nil
}

// EvaluateSimpleSymbol matches a bare term against every default field.
// Default fields may carry their own lookup ("title__icontains"); plain names
// get icontains.
func (SymbolEvaluator) EvaluateSimpleSymbol(scope omnisearch.Scope, term string) (Q, error) {
	if len(scope.DefaultFields) == 0 {
		return Q{}, omnisearch.NoSearchFields(term)
	}

	out := Q{Connector: OR}
	for _, field := range scope.DefaultFields {
		key := field
		if !hasLookup(field) {
			key = field + omnisearch.LookupSeparator + "icontains"
		}
		out = out.Or(NewQ(key, term))
	}
	return out, nil
}

func hasLookup(field string) bool {
	i := strings.LastIndex(field, omnisearch.LookupSeparator)
	if i <= 0 {
		return false
	}
	_, ok := omnisearch.KnownLookups[field[i+len(omnisearch.LookupSeparator):]]
	return ok
}

// EquationEvaluator combines Q values with &, | and ~.
type EquationEvaluator struct{}

// EvaluateFunction applies op to the operands.
func (EquationEvaluator) EvaluateFunction(op omnisearch.BoolOp, operands ...Q) (Q, error) {
	switch {
	case op == omnisearch.BoolAnd && len(operands) == 2:
		return operands[0].And(operands[1]), nil
	case op == omnisearch.BoolOr && len(operands) == 2:
		return operands[0].Or(operands[1]), nil
	case op == omnisearch.BoolNot && len(operands) == 1:
		return operands[0].Not(), nil
	default:
		return Q{}, omnisearch.ErrUnsupportedFunction
	}
}

// NewEngine returns a search engine producing Q predicates.
func NewEngine(mapping *omnisearch.Mapping, defaultFields []string) *omnisearch.Engine[Q] {
	return omnisearch.NewWithDefault[Q](SymbolEvaluator{}, EquationEvaluator{}, mapping, defaultFields)
}
