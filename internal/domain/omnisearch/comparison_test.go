package omnisearch

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseComparison_Operators(t *testing.T) {
	tests := []struct {
		input string
		field string
		op    Operator
		value any
	}{
		{"title === something", "title", OpExact, "something"},
		{"title==something", "title", OpEq, "something"},
		{"title = something", "title", OpContains, "something"},
		{"rating>=5", "rating", OpGte, "5"},
		{"rating <= 5", "rating", OpLte, "5"},
		{"rating > 5", "rating", OpGt, "5"},
		{"rating<5", "rating", OpLt, "5"},
		{"title === One Title", "title", OpExact, "One Title"},
		{"link == https://x.com/?a=b", "link", OpEq, "https://x.com/?a=b"},
		{"bookmarked == True", "bookmarked", OpEq, true},
		{"bookmarked == False", "bookmarked", OpEq, false},
		{`bookmarked == "True"`, "bookmarked", OpEq, "True"},
		{"title =", "title", OpContains, ""},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			c, ok := ParseComparison(tt.input, nil)
			require.True(t, ok)
			assert.Equal(t, tt.field, c.Field)
			assert.Equal(t, tt.op, c.Operator)
			assert.Equal(t, tt.value, c.Value)
			assert.Equal(t, tt.input, c.Text)
		})
	}
}

func TestParseComparison_Quoting(t *testing.T) {
	for _, input := range []string{`field = "a b"`, `field = 'a b'`, `field="a b"`} {
		c, ok := ParseComparison(input, nil)
		require.True(t, ok, input)
		assert.Equal(t, "a b", c.Value, input)
	}

	c, ok := ParseComparison(`field == " spaced  out "`, nil)
	require.True(t, ok)
	assert.Equal(t, " spaced  out ", c.Value)

	c, ok = ParseComparison(`title = "a==b"`, nil)
	require.True(t, ok)
	assert.Equal(t, OpContains, c.Operator)
	assert.Equal(t, "a==b", c.Value)
}

func TestParseComparison_Malformed(t *testing.T) {
	for _, input := range []string{"my test", "= value", "  ", `"a = b"`} {
		_, ok := ParseComparison(input, nil)
		assert.False(t, ok, input)
	}
}

func TestParseComparison_RawSuffix(t *testing.T) {
	mapping := NewFieldSet("title", "author__in")

	c, ok := ParseComparison("title__isnull = True", mapping)
	require.True(t, ok)
	assert.Equal(t, OpRawSuffix, c.Operator)
	assert.Equal(t, "title__isnull", c.Field)
	assert.Equal(t, "isnull", c.Lookup)
	assert.Equal(t, "title", c.BaseField())
	assert.Equal(t, true, c.Value)

	// A configured name is never split even if it ends with a lookup.
	c, ok = ParseComparison("author__in == x", mapping)
	require.True(t, ok)
	assert.Equal(t, OpEq, c.Operator)
	assert.Equal(t, "author__in", c.Field)

	// Unknown suffixes are part of the field name.
	c, ok = ParseComparison("source__title = x", mapping)
	require.True(t, ok)
	assert.Equal(t, OpContains, c.Operator)
	assert.Equal(t, "source__title", c.Field)
}
