package qfilter

import (
	"fmt"
	"net/url"

	"linkarchive/internal/domain/omnisearch"
)

// SearchParam is the request argument holding the search query.
const SearchParam = "search"

// Filter narrows an in-memory collection by the "search" argument.
// Any diagnostic makes the result empty.
type Filter struct {
	args    url.Values
	objects []Record
	engine  *omnisearch.Engine[Q]

	processor *EquationProcessor
}

// NewFilter creates a filter over objects.
func NewFilter(args url.Values, objects []Record, engine *omnisearch.Engine[Q]) *Filter {
	return &Filter{
		args:      args,
		objects:   objects,
		engine:    engine,
		processor: NewEquationProcessor(args.Get(SearchParam), engine),
	}
}

// Query returns the raw search text.
func (f *Filter) Query() string {
	return f.args.Get(SearchParam)
}

// Conditions returns the Q derived from the search text.
func (f *Filter) Conditions() (Q, error) {
	return f.processor.Conditions()
}

// FilteredObjects returns the records matching the search. A blank search
// returns the collection unchanged.
func (f *Filter) FilteredObjects() ([]Record, error) {
	if omnisearch.IsBlank(f.Query()) {
		return f.objects, nil
	}

	q, err := f.processor.Conditions()
	if err != nil {
		return nil, err
	}
	if len(f.processor.Errors()) > 0 {
		return []Record{}, nil
	}

	prg, err := Compile(q)
	if err != nil {
		return nil, fmt.Errorf("compile conditions: %w", err)
	}

	out := make([]Record, 0, len(f.objects))
	for _, obj := range f.objects {
		if prg.Match(obj) {
			out = append(out, obj)
		}
	}
	return out, nil
}

// Errors returns the diagnostics produced for the search text.
func (f *Filter) Errors() []string {
	return f.processor.Errors()
}

// NotTranslatedConditions returns comparisons on unknown fields.
func (f *Filter) NotTranslatedConditions() map[string][]any {
	return f.processor.NotTranslatedConditions()
}
