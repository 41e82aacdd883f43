package entries

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"linkarchive/internal/core/apperror"
)

type fakeRepo struct {
	got      SearchQuery
	result   SearchResult
	err      error
	imported []Entry
}

func (f *fakeRepo) Search(ctx context.Context, q SearchQuery) (SearchResult, error) {
	f.got = q
	return f.result, f.err
}

func (f *fakeRepo) Import(ctx context.Context, list []Entry) (int64, error) {
	if f.err != nil {
		return 0, f.err
	}
	f.imported = append(f.imported, list...)
	return int64(len(list)), nil
}

func TestService_SearchDefaults(t *testing.T) {
	repo := &fakeRepo{result: SearchResult{Items: []Entry{{Link: "https://a.com"}}, TotalCount: 1, Page: 1, PageSize: DefaultPageSize}}
	svc := NewService(ServiceConfig{Repo: repo})

	res, err := svc.Search(context.Background(), SearchQuery{Search: "title = go"})
	require.NoError(t, err)

	assert.Equal(t, SearchQuery{Search: "title = go", Page: 1, PageSize: DefaultPageSize}, repo.got)
	assert.Len(t, res.Items, 1)
}

func TestService_SearchValidation(t *testing.T) {
	svc := NewService(ServiceConfig{Repo: &fakeRepo{}, MaxSearchLength: 10})

	tests := []struct {
		name string
		q    SearchQuery
	}{
		{"negative page", SearchQuery{Page: -1}},
		{"page size too big", SearchQuery{PageSize: MaxPageSize + 1}},
		{"negative page size", SearchQuery{PageSize: -5}},
		{"search too long", SearchQuery{Search: strings.Repeat("x", 11)}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Search(context.Background(), tt.q)
			appErr, ok := apperror.AsAppError(err)
			require.True(t, ok)
			assert.Equal(t, apperror.CodeValidation, appErr.Code)
		})
	}
}

func TestService_CheckSearch(t *testing.T) {
	svc := NewService(ServiceConfig{Repo: &fakeRepo{}, MaxSearchLength: 5})

	assert.NoError(t, svc.CheckSearch("ééééé"))

	err := svc.CheckSearch("ééééé!")
	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperror.CodeValidation, appErr.Code)
	assert.Equal(t, 6, appErr.Details["length"])
}

func TestService_SearchWrapsRepoErrors(t *testing.T) {
	svc := NewService(ServiceConfig{Repo: &fakeRepo{err: errors.New("boom")}})

	_, err := svc.Search(context.Background(), SearchQuery{})
	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperror.CodeInternal, appErr.Code)
}

func TestService_SearchKeepsDiagnostics(t *testing.T) {
	repo := &fakeRepo{result: SearchResult{
		Items:         []Entry{},
		Errors:        []string{"Cannot evaluate symbol:linkx == a", "Could not calculate query"},
		NotTranslated: map[string][]any{"linkx": {"a"}},
	}}
	svc := NewService(ServiceConfig{Repo: repo})

	res, err := svc.Search(context.Background(), SearchQuery{Search: "linkx == a"})
	require.NoError(t, err)
	assert.Empty(t, res.Items)
	assert.Len(t, res.Errors, 2)
	assert.Equal(t, map[string][]any{"linkx": {"a"}}, res.NotTranslated)
}

func TestService_Import(t *testing.T) {
	repo := &fakeRepo{}
	svc := NewService(ServiceConfig{Repo: repo})

	n, err := svc.Import(context.Background(), []Entry{
		{Link: "https://a.com", Title: "A"},
		{Link: "https://b.com", Title: "B", PageRating: 80},
	})
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)
	assert.Len(t, repo.imported, 2)

	n, err = svc.Import(context.Background(), nil)
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestService_ImportRejects(t *testing.T) {
	svc := NewService(ServiceConfig{Repo: &fakeRepo{}})

	tests := []struct {
		name string
		list []Entry
	}{
		{"missing link", []Entry{{Title: "A"}}},
		{"relative link", []Entry{{Link: "/a"}}},
		{"bad scheme", []Entry{{Link: "ftp://a.com"}}},
		{"rating", []Entry{{Link: "https://a.com", PageRating: 101}}},
		{"duplicate", []Entry{{Link: "https://a.com"}, {Link: "https://a.com"}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Import(context.Background(), tt.list)
			appErr, ok := apperror.AsAppError(err)
			require.True(t, ok)
			assert.Equal(t, apperror.CodeValidation, appErr.Code)
		})
	}
}

func TestNewMapping(t *testing.T) {
	m := NewMapping(map[string]string{"site": "source_url", "title": "title_text"})

	col, ok := m.Translate("site")
	assert.True(t, ok)
	assert.Equal(t, "source_url", col)

	col, _ = m.Translate("title")
	assert.Equal(t, "title_text", col)

	col, _ = m.Translate("source.url")
	assert.Equal(t, "source_url", col)

	assert.Equal(t, "title", DefaultMapping()["title"])
}
