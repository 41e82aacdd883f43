package qfilter

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExpression(t *testing.T) {
	src, err := Expression(NewQ("title__icontains", "One"))
	require.NoError(t, err)
	assert.Equal(t, `(("title" in row && string(row["title"]).matches("(?i)One")))`, src)

	src, err = Expression(NewQ("link__iexact", "a.com"))
	require.NoError(t, err)
	assert.Equal(t, `(("link" in row && string(row["link"]).matches("(?i)\\Aa\\.com\\z")))`, src)

	src, err = Expression(NewQ("source__title", "x").Not())
	require.NoError(t, err)
	assert.Equal(t, `!(("source" in row && "title" in row["source"] && string(row["source"]["title"]) == "x"))`, src)

	src, err = Expression(Q{})
	require.NoError(t, err)
	assert.Equal(t, "true", src)

	_, err = Expression(Q{Children: []any{"bogus"}})
	assert.Error(t, err)
}

func TestProgram_Match(t *testing.T) {
	row := Record{
		"link":        "https://test1.com",
		"title":       "One Title",
		"page_rating": float64(75),
		"bookmarked":  true,
		"date":        "2024-03-01",
		"author":      nil,
		"source":      map[string]any{"title": "Daily News"},
		"author_name": "Élodie Ørsted",
	}

	tests := []struct {
		name string
		q    Q
		want bool
	}{
		{"exact", NewQ("link", "https://test1.com"), true},
		{"exact mismatch", NewQ("link", "https://test2.com"), false},
		{"iexact", NewQ("title__iexact", "one title"), true},
		{"contains is case sensitive", NewQ("title__contains", "one"), false},
		{"icontains", NewQ("title__icontains", "ONE"), true},
		{"startswith", NewQ("link__startswith", "https://"), true},
		{"istartswith", NewQ("title__istartswith", "one"), true},
		{"endswith", NewQ("link__endswith", ".com"), true},
		{"iendswith", NewQ("title__iendswith", "TITLE"), true},
		{"gt numeric", NewQ("page_rating__gt", "9"), true},
		{"lte numeric", NewQ("page_rating__lte", "74.5"), false},
		{"gte string", NewQ("date__gte", "2024-01-01"), true},
		{"lt string", NewQ("date__lt", "2024-01-01"), false},
		{"bool", NewQ("bookmarked", true), true},
		{"bool false", NewQ("bookmarked", false), false},
		{"isnull on null", NewQ("author__isnull", true), true},
		{"isnull on missing", NewQ("language__isnull", true), true},
		{"not isnull", NewQ("title__isnull", false), true},
		{"in", NewQ("title__in", "Two Title, One Title"), true},
		{"in empty", MatchNone(), false},
		{"regex", NewQ("link__regex", `^https://test\d`), true},
		{"iregex", NewQ("title__iregex", "^one"), true},
		{"nested", NewQ("source__title__icontains", "daily"), true},
		{"missing field", NewQ("language", "en"), false},
		{"missing nested", NewQ("owner__name", "x"), false},
		{"negated", NewQ("link", "https://test1.com").Not(), false},
		{"or", NewQ("link", "nope").Or(NewQ("title__icontains", "one")), true},
		{"and", NewQ("link", "nope").And(NewQ("title__icontains", "one")), false},
		{"icontains folds unicode", NewQ("author_name__icontains", "élodie"), true},
		{"iexact folds unicode", NewQ("author_name__iexact", "ÉLODIE ØRSTED"), true},
		{"iexact is anchored", NewQ("author_name__iexact", "élodie"), false},
		{"istartswith folds unicode", NewQ("author_name__istartswith", "ÉLO"), true},
		{"iendswith folds unicode", NewQ("author_name__iendswith", "ørsted"), true},
		{"icontains is literal", NewQ("title__icontains", "one.title"), false},
		{"null compared as string", NewQ("author__icontains", "x"), false},
		{"empty", Q{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			prg, err := Compile(tt.q)
			require.NoError(t, err, "source: %s", mustExpression(t, tt.q))
			assert.Equal(t, tt.want, prg.Match(row), "source: %s", prg.Source())
		})
	}
}

func mustExpression(t *testing.T, q Q) string {
	t.Helper()
	src, _ := Expression(q)
	return src
}
