package omnisearch

import "strings"

// Operator is a comparison operator of the query language.
type Operator int

const (
	OpEq        Operator = iota // ==
	OpExact                     // ===
	OpContains                  // =
	OpGt                        // >
	OpGte                       // >=
	OpLt                        // <
	OpLte                       // <=
	OpRawSuffix                 // field__lookup, passed through verbatim
)

func (o Operator) String() string {
	switch o {
	case OpEq:
		return "=="
	case OpExact:
		return "==="
	case OpContains:
		return "="
	case OpGt:
		return ">"
	case OpGte:
		return ">="
	case OpLt:
		return "<"
	case OpLte:
		return "<="
	case OpRawSuffix:
		return "RAW_SUFFIX"
	default:
		return "UNKNOWN"
	}
}

// operators are ordered longest first so "=" never swallows "==" or "===".
var operators = []struct {
	text string
	op   Operator
}{
	{"===", OpExact},
	{"==", OpEq},
	{">=", OpGte},
	{"<=", OpLte},
	{">", OpGt},
	{"<", OpLt},
	{"=", OpContains},
}

// LookupSeparator joins a field path and a backend lookup (title__isnull).
const LookupSeparator = "__"

// KnownLookups are the backend lookup suffixes recognized on a field name.
var KnownLookups = map[string]struct{}{
	"exact":       {},
	"iexact":      {},
	"contains":    {},
	"icontains":   {},
	"gt":          {},
	"gte":         {},
	"lt":          {},
	"lte":         {},
	"in":          {},
	"startswith":  {},
	"istartswith": {},
	"endswith":    {},
	"iendswith":   {},
	"isnull":      {},
	"regex":       {},
	"iregex":      {},
}

// FieldSet reports whether a caller-facing field name is configured.
type FieldSet interface {
	Has(field string) bool
}

// Comparison is one parsed "field op value" symbol.
type Comparison struct {
	Field    string
	Operator Operator
	Value    any    // string or bool
	Lookup   string // set for OpRawSuffix
	Text     string // symbol as written in the query
}

// BaseField returns the field without its raw lookup suffix.
func (c Comparison) BaseField() string {
	if c.Operator != OpRawSuffix {
		return c.Field
	}
	return strings.TrimSuffix(c.Field, LookupSeparator+c.Lookup)
}

// ParseComparison parses one non-boolean token. ok is false when the text has
// no operator or no field; the caller then treats it as a bare term.
func ParseComparison(text string, fields FieldSet) (Comparison, bool) {
	text = strings.TrimSpace(text)

	idx := operatorIndex(text)
	if idx < 0 {
		return Comparison{}, false
	}

	var (
		opText string
		op     Operator
	)
	for _, candidate := range operators {
		if strings.HasPrefix(text[idx:], candidate.text) {
			opText, op = candidate.text, candidate.op
			break
		}
	}

	field := strings.TrimSpace(text[:idx])
	if field == "" {
		return Comparison{}, false
	}

	c := Comparison{
		Field:    field,
		Operator: op,
		Value:    parseValue(strings.TrimSpace(text[idx+len(opText):])),
		Text:     text,
	}

	if lookup, ok := rawLookup(field, fields); ok {
		c.Operator = OpRawSuffix
		c.Lookup = lookup
	}

	return c, true
}

// rawLookup detects an explicit backend suffix on field. A field that is
// itself a configured name is never split.
func rawLookup(field string, fields FieldSet) (string, bool) {
	if fields != nil && fields.Has(field) {
		return "", false
	}
	i := strings.LastIndex(field, LookupSeparator)
	if i <= 0 {
		return "", false
	}
	lookup := field[i+len(LookupSeparator):]
	if _, ok := KnownLookups[lookup]; !ok {
		return "", false
	}
	return lookup, true
}

func parseValue(raw string) any {
	value, quoted := unquote(raw)
	if quoted {
		return value
	}
	switch value {
	case "True":
		return true
	case "False":
		return false
	}
	return value
}
