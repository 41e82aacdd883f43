package omnisearch

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse_Precedence(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"a=1", "CMP(a = 1)"},
		{"a=1 & b=2", "AND(CMP(a = 1), CMP(b = 2))"},
		{"a=1 | b=2 & c=3", "OR(CMP(a = 1), AND(CMP(b = 2), CMP(c = 3)))"},
		{"(a=1 | b=2) & c=3", "AND(OR(CMP(a = 1), CMP(b = 2)), CMP(c = 3))"},
		{"~a=1 & b=2", "AND(NOT(CMP(a = 1)), CMP(b = 2))"},
		{"~(a=1 & b=2)", "NOT(AND(CMP(a = 1), CMP(b = 2)))"},
		{"~~a=1", "NOT(NOT(CMP(a = 1)))"},
		{"a=1 & b=2 & c=3", "AND(AND(CMP(a = 1), CMP(b = 2)), CMP(c = 3))"},
		{"a=1 | b=2 | c=3", "OR(OR(CMP(a = 1), CMP(b = 2)), CMP(c = 3))"},
		{"a=1 & my term", "AND(CMP(a = 1), TERM(\"my term\"))"},
		{"my test", "TERM(\"my test\")"},
		{`"my test"`, "TERM(\"my test\")"},
		{"title__isnull = True", "CMP(title__isnull true)"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			root, errs := Parse(tt.input, nil)
			require.NotNil(t, root)
			assert.Empty(t, errs)
			assert.Equal(t, tt.want, root.String())
		})
	}
}

func TestParse_Deterministic(t *testing.T) {
	input := `~(title = "a b" | link == x) & rating >= 3`
	first, _ := Parse(input, nil)
	second, _ := Parse(input, nil)
	assert.Equal(t, first, second)
}

func TestParse_Degradation(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    string
		errsLen int
	}{
		{"missing close paren", "(a=1 & b=2", "AND(CMP(a = 1), CMP(b = 2))", 1},
		{"stray close paren", "a=1) b=2", "AND(CMP(a = 1), TERM(\"b=2\"))", 1},
		{"adjacent group", "a=1 (b=2)", "AND(CMP(a = 1), TERM(\"b=2\"))", 1},
		{"trailing and", "a=1 &", "CMP(a = 1)", 1},
		{"leading or", "| a=1", "CMP(a = 1)", 1},
		{"empty group", "() & a=1", "CMP(a = 1)", 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			root, errs := Parse(tt.input, nil)
			require.NotNil(t, root)
			assert.Equal(t, tt.want, root.String())
			assert.Len(t, errs, tt.errsLen, "%v", errs)
		})
	}
}

func TestParse_NoLeaves(t *testing.T) {
	for _, input := range []string{"", "   ", "& | ~", "()", "(((", "~"} {
		root, _ := Parse(input, nil)
		assert.Nil(t, root, input)
	}
}

func TestParse_DeepNesting(t *testing.T) {
	depth := 500
	input := strings.Repeat("(", depth) + "a=1" + strings.Repeat(")", depth)

	root, errs := Parse(input, nil)
	require.NotNil(t, root)
	assert.Empty(t, errs)
	assert.Equal(t, "CMP(a = 1)", root.String())

	input = strings.Repeat("~(", depth) + "a=1" + strings.Repeat(")", depth)
	root, errs = Parse(input, nil)
	require.NotNil(t, root)
	assert.Empty(t, errs)
	assert.True(t, strings.HasPrefix(root.String(), "NOT(NOT("))
}

func TestParse_Apostrophes(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"author = O'Reilly & link == a", "AND(CMP(author = O'Reilly), CMP(link == a))"},
		{"title = don't | link = x", "OR(CMP(title = don't), CMP(link = x))"},
		{"title = 'rock & roll' | author = O'Reilly", "OR(CMP(title = rock & roll), CMP(author = O'Reilly))"},
		{"don't stop", "TERM(\"don't stop\")"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			root, errs := Parse(tt.input, nil)
			require.NotNil(t, root)
			assert.Empty(t, errs)
			assert.Equal(t, tt.want, root.String())
		})
	}
}

func TestParse_NestingLimit(t *testing.T) {
	depth := MaxDepth + 10
	input := strings.Repeat("~(", depth) + "a=1" + strings.Repeat(")", depth)

	root, errs := Parse(input, nil)
	require.NotNil(t, root)
	require.Len(t, errs, 1)
	assert.Contains(t, errs[0], "Nesting deeper than")

	var n Node = root
	for i := 0; i < MaxDepth/2; i++ {
		not, ok := n.(*Not)
		require.True(t, ok, "level %d", i)
		n = not.Child
	}
	assert.Equal(t, `TERM("a=1")`, n.String())

	root, errs = Parse(strings.Repeat("(", depth), nil)
	assert.Nil(t, root)
	assert.Len(t, errs, 1)
}
