package omnisearch

import (
	"errors"
	"fmt"
)

// BoolOp is a boolean combinator applied by an EquationEvaluator.
type BoolOp int

const (
	BoolAnd BoolOp = iota
	BoolOr
	BoolNot
)

func (o BoolOp) String() string {
	switch o {
	case BoolAnd:
		return "AND"
	case BoolOr:
		return "OR"
	case BoolNot:
		return "NOT"
	default:
		return fmt.Sprintf("BoolOp(%d)", int(o))
	}
}

// Scope is the per-engine configuration handed to symbol evaluators.
type Scope struct {
	Mapping       *Mapping
	DefaultFields []string
}

// SymbolEvaluator turns one leaf into a backend predicate of type P.
// Implementations resolve fields through scope.Mapping and report failures
// as *SymbolError; they must not keep per-query state.
type SymbolEvaluator[P any] interface {
	EvaluateComplexSymbol(scope Scope, c Comparison) (P, error)
	EvaluateSimpleSymbol(scope Scope, term string) (P, error)
}

// EquationEvaluator combines already evaluated predicates. BoolNot receives
// exactly one operand, BoolAnd and BoolOr exactly two.
type EquationEvaluator[P any] interface {
	EvaluateFunction(op BoolOp, operands ...P) (P, error)
}

// ErrUnsupportedFunction is returned by an EquationEvaluator that has no
// implementation for a BoolOp. It is a configuration error and aborts the
// evaluation.
var ErrUnsupportedFunction = errors.New("omnisearch: unsupported boolean function")

// Reason classifies why a symbol produced no predicate.
type Reason int

const (
	ReasonUnknownField Reason = iota + 1
	ReasonUnsupportedOperator
	ReasonNoSearchFields
)

func (r Reason) String() string {
	switch r {
	case ReasonUnknownField:
		return "unknown field"
	case ReasonUnsupportedOperator:
		return "unsupported operator"
	case ReasonNoSearchFields:
		return "no search fields"
	default:
		return "unknown reason"
	}
}

// SymbolError reports a leaf that contributes nothing to the query.
type SymbolError struct {
	Reason Reason
	Field  string
	Value  any
	Detail string
}

func (e *SymbolError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("%s %q: %s", e.Reason, e.Field, e.Detail)
	}
	return fmt.Sprintf("%s %q", e.Reason, e.Field)
}

// UnknownField builds the error for a field missing from the mapping.
func UnknownField(c Comparison) *SymbolError {
	return &SymbolError{Reason: ReasonUnknownField, Field: c.Field, Value: c.Value}
}

// UnsupportedOperator builds the error for an operator or lookup the backend
// cannot express.
func UnsupportedOperator(c Comparison, detail string) *SymbolError {
	return &SymbolError{Reason: ReasonUnsupportedOperator, Field: c.Field, Value: c.Value, Detail: detail}
}

// NoSearchFields builds the error for a bare term with nothing to search.
func NoSearchFields(term string) *SymbolError {
	return &SymbolError{Reason: ReasonNoSearchFields, Value: term}
}
