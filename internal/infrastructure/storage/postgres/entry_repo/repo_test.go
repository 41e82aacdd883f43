package entry_repo

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"linkarchive/internal/domain/entries"
	"linkarchive/internal/infrastructure/storage/postgres/tablesearch"
)

func TestEntryRepo_SearchQuery(t *testing.T) {
	repo := New(nil, Config{IgnoreCase: true})

	params := repo.Params(entries.SearchQuery{
		Search:   "rating >= 50 & ~bookmarked == True",
		Page:     2,
		PageSize: 20,
		OrderBy:  "-published",
	})
	q, err := tablesearch.NewAlchemySearch[entries.Entry](nil, params, nil).SelectQuery()
	require.NoError(t, err)

	sql, args, err := q.ToSql()
	require.NoError(t, err)
	assert.Equal(t,
		"SELECT link, title, description, author, language, date_published, bookmarked, page_rating, source_url "+
			"FROM entries WHERE (page_rating >= $1 AND NOT (bookmarked = $2)) "+
			"ORDER BY date_published DESC LIMIT 20 OFFSET 20",
		sql)
	assert.Equal(t, []any{"50", true}, args)
}

func TestEntryRepo_BareTermUsesDefaultFields(t *testing.T) {
	repo := New(nil, Config{IgnoreCase: true})

	q, err := tablesearch.NewAlchemySearch[entries.Entry](nil, repo.Params(entries.SearchQuery{Search: "golang"}), nil).SelectQuery()
	require.NoError(t, err)

	sql, _, err := q.ToSql()
	require.NoError(t, err)
	assert.Contains(t, sql, "WHERE (link::text ILIKE $1 OR title::text ILIKE $2 OR description::text ILIKE $3)")
}

func TestEntryRepo_DottedField(t *testing.T) {
	repo := New(nil, Config{})

	q, err := tablesearch.NewAlchemySearch[entries.Entry](nil, repo.Params(entries.SearchQuery{Search: "source.url == https://news.example"}), nil).SelectQuery()
	require.NoError(t, err)

	sql, args, err := q.ToSql()
	require.NoError(t, err)
	assert.Contains(t, sql, "WHERE source_url = $1")
	assert.Equal(t, []any{"https://news.example"}, args)
}
