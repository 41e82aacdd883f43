// Package qfilter is the ORM-style backend of the search engine.
//
// Predicates are Q trees of field lookups ("title__icontains") combined with
// AND/OR/NOT, with the same combination and printing rules as Django's Q
// objects. A Q can be compiled into a CEL program to filter in-memory record
// collections.
package qfilter

import (
	"fmt"
	"strconv"
	"strings"
)

// Connector joins the children of a Q.
type Connector string

const (
	AND Connector = "AND"
	OR  Connector = "OR"
)

// Lookup is one "field__lookup = value" condition.
type Lookup struct {
	Key   string
	Value any
}

func (l Lookup) String() string {
	return fmt.Sprintf("(%s, %s)", pyRepr(l.Key), pyRepr(l.Value))
}

// Q is a boolean tree of lookups. Its children are Lookup or Q values.
// The zero Q has no children and matches everything.
type Q struct {
	Connector Connector
	Negated   bool
	Children  []any
}

// NewQ returns a Q holding a single lookup.
func NewQ(key string, value any) Q {
	return Q{Connector: AND, Children: []any{Lookup{Key: key, Value: value}}}
}

// IsEmpty reports whether q has no conditions.
func (q Q) IsEmpty() bool {
	return len(q.Children) == 0
}

func (q Q) connector() Connector {
	if q.Connector == "" {
		return AND
	}
	return q.Connector
}

func (q Q) clone() Q {
	children := make([]any, len(q.Children))
	copy(children, q.Children)
	return Q{Connector: q.connector(), Negated: q.Negated, Children: children}
}

// And returns q AND other.
func (q Q) And(other Q) Q {
	return q.combine(other, AND)
}

// Or returns q OR other.
func (q Q) Or(other Q) Q {
	return q.combine(other, OR)
}

// Not returns the negation of q.
func (q Q) Not() Q {
	out := q.clone()
	out.Negated = !out.Negated
	return out
}

func (q Q) combine(other Q, conn Connector) Q {
	if other.IsEmpty() {
		return q.clone()
	}
	if q.IsEmpty() {
		return other.clone()
	}
	out := Q{Connector: conn}
	out.add(q, conn)
	out.add(other, conn)
	return out
}

// add appends data under conn, squashing children of a non-negated Q that
// uses the same connector or has a single child.
func (q *Q) add(data Q, conn Connector) {
	if q.connector() != conn {
		prev := q.clone()
		q.Connector = conn
		q.Negated = false
		q.Children = []any{prev, data}
		return
	}
	if !data.Negated && (data.connector() == conn || len(data.Children) == 1) {
		q.Children = append(q.Children, data.Children...)
		return
	}
	q.Children = append(q.Children, data)
}

// String prints q the way Django prints a Q object:
// (AND: ('title__iexact', 'something')).
func (q Q) String() string {
	parts := make([]string, len(q.Children))
	for i, child := range q.Children {
		parts[i] = fmt.Sprint(child)
	}
	body := fmt.Sprintf("%s: %s", q.connector(), strings.Join(parts, ", "))
	if q.Negated {
		return "(NOT (" + body + "))"
	}
	return "(" + body + ")"
}

// Lookups returns every lookup in q, depth first.
func (q Q) Lookups() []Lookup {
	var out []Lookup
	for _, child := range q.Children {
		switch c := child.(type) {
		case Lookup:
			out = append(out, c)
		case Q:
			out = append(out, c.Lookups()...)
		}
	}
	return out
}

// pyRepr formats scalars like Python's repr.
func pyRepr(v any) string {
	switch v := v.(type) {
	case nil:
		return "None"
	case bool:
		if v {
			return "True"
		}
		return "False"
	case string:
		quote := "'"
		if strings.Contains(v, "'") && !strings.Contains(v, `"`) {
			quote = `"`
		}
		escaped := strings.ReplaceAll(v, `\`, `\\`)
		if quote == "'" {
			escaped = strings.ReplaceAll(escaped, "'", `\'`)
		}
		return quote + escaped + quote
	case []string:
		parts := make([]string, len(v))
		for i, s := range v {
			parts[i] = pyRepr(s)
		}
		return "[" + strings.Join(parts, ", ") + "]"
	case int:
		return strconv.Itoa(v)
	case float64:
		return strconv.FormatFloat(v, 'g', -1, 64)
	default:
		return fmt.Sprint(v)
	}
}
