package omnisearch

import (
	"errors"
	"fmt"
	"strings"
)

// Diagnostic messages produced by the engine.
const (
	MsgCannotEvaluateSymbol = "Cannot evaluate symbol:"
	MsgCouldNotCalculate    = "Could not calculate query"
)

// Engine evaluates query strings into predicates of type P.
//
// Configure the engine once (options or setters) and share it; Evaluate does
// not modify it and may run concurrently.
type Engine[P any] struct {
	symbols   SymbolEvaluator[P]
	equations EquationEvaluator[P]
	scope     Scope
}

// Option configures an Engine.
type Option func(*Scope)

// WithTranslationMapping sets the field mapping.
func WithTranslationMapping(m *Mapping) Option {
	return func(s *Scope) { s.Mapping = m }
}

// WithDefaultSearchSymbols sets the fields a bare term is matched against.
func WithDefaultSearchSymbols(fields ...string) Option {
	return func(s *Scope) { s.DefaultFields = append([]string(nil), fields...) }
}

// New creates an engine for one backend.
func New[P any](symbols SymbolEvaluator[P], equations EquationEvaluator[P], opts ...Option) *Engine[P] {
	e := &Engine[P]{symbols: symbols, equations: equations}
	for _, opt := range opts {
		opt(&e.scope)
	}
	return e
}

// NewWithDefault creates an engine whose bare terms search defaults.
func NewWithDefault[P any](symbols SymbolEvaluator[P], equations EquationEvaluator[P], mapping *Mapping, defaults []string) *Engine[P] {
	return New(symbols, equations, WithTranslationMapping(mapping), WithDefaultSearchSymbols(defaults...))
}

// SetTranslationMapping replaces the field mapping. Call before Evaluate.
func (e *Engine[P]) SetTranslationMapping(m *Mapping) {
	e.scope.Mapping = m
}

// SetDefaultSearchSymbols replaces the default search fields. Call before Evaluate.
func (e *Engine[P]) SetDefaultSearchSymbols(fields []string) {
	e.scope.DefaultFields = append([]string(nil), fields...)
}

// Scope returns the engine configuration.
func (e *Engine[P]) Scope() Scope {
	return e.scope
}

// Result is the outcome of evaluating one query.
type Result[P any] struct {
	Query string
	Tree  Node

	predicate     P
	ok            bool
	errors        []string
	notTranslated map[string][]any
}

// QueryResult returns the combined predicate; ok is false when nothing in the
// query could be translated.
func (r *Result[P]) QueryResult() (P, bool) {
	return r.predicate, r.ok
}

// Errors returns the diagnostics in the order they were produced.
func (r *Result[P]) Errors() []string {
	return r.errors
}

// NotTranslatedConditions returns field -> values of comparisons whose field
// did not resolve, one value per occurrence.
func (r *Result[P]) NotTranslatedConditions() map[string][]any {
	return r.notTranslated
}

// Evaluate parses and evaluates query. The error is non-nil only when the
// equation evaluator is misconfigured; problems in the query text itself end
// up in Result.Errors.
func (e *Engine[P]) Evaluate(query string) (*Result[P], error) {
	tree, parseErrors := Parse(query, e.scope.Mapping)

	r := &Result[P]{
		Query:         query,
		Tree:          tree,
		errors:        append([]string(nil), parseErrors...),
		notTranslated: make(map[string][]any),
	}

	if tree != nil {
		pred, ok, err := e.walk(r, tree)
		if err != nil {
			return nil, err
		}
		r.predicate, r.ok = pred, ok
	}

	if !r.ok {
		r.errors = append(r.errors, MsgCouldNotCalculate)
	}
	return r, nil
}

func (e *Engine[P]) walk(r *Result[P], n Node) (P, bool, error) {
	var zero P

	switch n := n.(type) {
	case *Leaf:
		pred, err := e.evaluateLeaf(n)
		if err != nil {
			e.reject(r, n, err)
			return zero, false, nil
		}
		return pred, true, nil

	case *And:
		return e.walkBinary(r, BoolAnd, n.Left, n.Right)

	case *Or:
		return e.walkBinary(r, BoolOr, n.Left, n.Right)

	case *Not:
		child, ok, err := e.walk(r, n.Child)
		if err != nil || !ok {
			return zero, false, err
		}
		pred, err := e.equations.EvaluateFunction(BoolNot, child)
		if err != nil {
			return zero, false, fmt.Errorf("evaluate %s: %w", BoolNot, err)
		}
		return pred, true, nil

	default:
		return zero, false, fmt.Errorf("omnisearch: unexpected node %T", n)
	}
}

// walkBinary drops an operand that produced nothing instead of failing the
// whole node.
func (e *Engine[P]) walkBinary(r *Result[P], op BoolOp, left, right Node) (P, bool, error) {
	var zero P

	l, lok, err := e.walk(r, left)
	if err != nil {
		return zero, false, err
	}
	rp, rok, err := e.walk(r, right)
	if err != nil {
		return zero, false, err
	}

	switch {
	case lok && rok:
		pred, err := e.equations.EvaluateFunction(op, l, rp)
		if err != nil {
			return zero, false, fmt.Errorf("evaluate %s: %w", op, err)
		}
		return pred, true, nil
	case lok:
		return l, true, nil
	case rok:
		return rp, true, nil
	default:
		return zero, false, nil
	}
}

func (e *Engine[P]) evaluateLeaf(l *Leaf) (P, error) {
	if l.IsTerm() {
		return e.symbols.EvaluateSimpleSymbol(e.scope, l.Term)
	}
	return e.symbols.EvaluateComplexSymbol(e.scope, *l.Comparison)
}

func (e *Engine[P]) reject(r *Result[P], l *Leaf, err error) {
	r.errors = append(r.errors, MsgCannotEvaluateSymbol+l.Text)

	var symErr *SymbolError
	if errors.As(err, &symErr) && symErr.Reason == ReasonUnknownField {
		r.notTranslated[symErr.Field] = append(r.notTranslated[symErr.Field], symErr.Value)
	}
}

// IsBlank reports whether a query has nothing to evaluate.
func IsBlank(query string) bool {
	return strings.TrimSpace(query) == ""
}
