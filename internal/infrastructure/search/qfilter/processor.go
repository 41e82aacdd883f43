package qfilter

import (
	"linkarchive/internal/domain/omnisearch"
)

// MatchNone returns a Q that no record satisfies.
func MatchNone() Q {
	return NewQ("pk__in", []string{})
}

// EquationProcessor turns one query string into Q conditions.
type EquationProcessor struct {
	query  string
	engine *omnisearch.Engine[Q]

	done   bool
	result *omnisearch.Result[Q]
	err    error
}

// NewEquationProcessor creates a processor for query. The engine carries the
// translation mapping and default search fields.
func NewEquationProcessor(query string, engine *omnisearch.Engine[Q]) *EquationProcessor {
	return &EquationProcessor{query: query, engine: engine}
}

// Conditions returns the Q for the query: the empty Q (everything) for a
// blank query, MatchNone when nothing could be translated.
func (p *EquationProcessor) Conditions() (Q, error) {
	if omnisearch.IsBlank(p.query) {
		return Q{}, nil
	}

	p.evaluate()
	if p.err != nil {
		return Q{}, p.err
	}

	q, ok := p.result.QueryResult()
	if !ok {
		return MatchNone(), nil
	}
	return q, nil
}

// Errors returns the diagnostics of the last evaluation.
func (p *EquationProcessor) Errors() []string {
	if omnisearch.IsBlank(p.query) {
		return nil
	}
	p.evaluate()
	if p.result == nil {
		return nil
	}
	return p.result.Errors()
}

// NotTranslatedConditions returns comparisons whose field did not resolve.
func (p *EquationProcessor) NotTranslatedConditions() map[string][]any {
	if omnisearch.IsBlank(p.query) {
		return nil
	}
	p.evaluate()
	if p.result == nil {
		return nil
	}
	return p.result.NotTranslatedConditions()
}

func (p *EquationProcessor) evaluate() {
	if p.done {
		return
	}
	p.done = true
	p.result, p.err = p.engine.Evaluate(p.query)
}
