package omnisearch

import "sort"

// Mapping translates caller-facing field names into backend field paths and
// doubles as the set of queryable fields. A field that is not in the mapping
// never resolves.
//
// A Mapping is built once per adapter and must not be modified afterwards;
// a nil *Mapping resolves nothing.
type Mapping struct {
	fields map[string]string
}

// NewFieldSet returns a pass-through mapping accepting exactly the given names.
func NewFieldSet(fields ...string) *Mapping {
	m := &Mapping{fields: make(map[string]string, len(fields))}
	for _, f := range fields {
		m.fields[f] = f
	}
	return m
}

// NewTranslationMapping returns a mapping from caller field to backend field.
// Keys may contain dots ("source.title").
func NewTranslationMapping(translation map[string]string) *Mapping {
	m := &Mapping{fields: make(map[string]string, len(translation))}
	for k, v := range translation {
		m.fields[k] = v
	}
	return m
}

// Has reports whether field is configured.
func (m *Mapping) Has(field string) bool {
	if m == nil {
		return false
	}
	_, ok := m.fields[field]
	return ok
}

// Translate returns the backend field for a caller field.
func (m *Mapping) Translate(field string) (string, bool) {
	if m == nil {
		return "", false
	}
	target, ok := m.fields[field]
	return target, ok
}

// Resolve returns the backend field path of a comparison. For raw suffix
// comparisons the base field is translated and the suffix re-attached.
func (m *Mapping) Resolve(c Comparison) (string, bool) {
	if target, ok := m.Translate(c.Field); ok {
		return target, true
	}
	if c.Operator != OpRawSuffix {
		return "", false
	}
	target, ok := m.Translate(c.BaseField())
	if !ok {
		return "", false
	}
	return target + LookupSeparator + c.Lookup, true
}

// Fields returns the configured caller field names in sorted order.
func (m *Mapping) Fields() []string {
	if m == nil {
		return nil
	}
	out := make([]string, 0, len(m.fields))
	for f := range m.fields {
		out = append(out, f)
	}
	sort.Strings(out)
	return out
}

// Len returns the number of configured fields.
func (m *Mapping) Len() int {
	if m == nil {
		return 0
	}
	return len(m.fields)
}
