package omnisearch

import "fmt"

// Node is an expression tree node: *Leaf, *And, *Or or *Not.
type Node interface {
	node()
	String() string
}

// Leaf holds either a Comparison or, when Comparison is nil, a bare term.
type Leaf struct {
	Comparison *Comparison
	Term       string
	Text       string // symbol as written in the query
}

// And is a conjunction of two subtrees.
type And struct {
	Left, Right Node
}

// Or is a disjunction of two subtrees.
type Or struct {
	Left, Right Node
}

// Not negates its child.
type Not struct {
	Child Node
}

func (*Leaf) node() {}
func (*And) node()  {}
func (*Or) node()   {}
func (*Not) node()  {}

// IsTerm reports whether the leaf is a bare term without field and operator.
func (l *Leaf) IsTerm() bool { return l.Comparison == nil }

func (l *Leaf) String() string {
	if l.IsTerm() {
		return fmt.Sprintf("TERM(%q)", l.Term)
	}
	c := l.Comparison
	if c.Operator == OpRawSuffix {
		return fmt.Sprintf("CMP(%s %v)", c.Field, c.Value)
	}
	return fmt.Sprintf("CMP(%s %s %v)", c.Field, c.Operator, c.Value)
}

func (n *And) String() string { return fmt.Sprintf("AND(%s, %s)", n.Left, n.Right) }
func (n *Or) String() string  { return fmt.Sprintf("OR(%s, %s)", n.Left, n.Right) }
func (n *Not) String() string { return fmt.Sprintf("NOT(%s)", n.Child) }

func newLeaf(text string, fields FieldSet) *Leaf {
	if c, ok := ParseComparison(text, fields); ok {
		return &Leaf{Comparison: &c, Text: c.Text}
	}
	term, _ := unquote(text)
	return &Leaf{Term: term, Text: text}
}
