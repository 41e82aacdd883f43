package entries

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromRecord(t *testing.T) {
	e, err := FromRecord(map[string]any{
		"link":           "https://test1.com",
		"title":          "One Title",
		"description":    "first",
		"author":         "ann",
		"language":       nil,
		"date_published": "2024-03-01",
		"bookmarked":     true,
		"pageRating":     float64(75),
		"sourceUrl":      "https://source.example",
		"ignored":        []any{"x"},
	})
	require.NoError(t, err)

	assert.Equal(t, "https://test1.com", e.Link)
	assert.Equal(t, "One Title", e.Title)
	require.NotNil(t, e.Author)
	assert.Equal(t, "ann", *e.Author)
	assert.Nil(t, e.Language)
	require.NotNil(t, e.DatePublished)
	assert.Equal(t, time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC), *e.DatePublished)
	assert.True(t, e.Bookmarked)
	assert.Equal(t, 75, e.PageRating)
	require.NotNil(t, e.SourceURL)
	assert.Equal(t, "https://source.example", *e.SourceURL)
}

func TestFromRecord_Invalid(t *testing.T) {
	tests := []struct {
		name string
		rec  map[string]any
	}{
		{"title not string", map[string]any{"title": float64(1)}},
		{"bad date", map[string]any{"date_published": "yesterday"}},
		{"bookmarked not bool", map[string]any{"bookmarked": "yes"}},
		{"fractional rating", map[string]any{"page_rating": 1.5}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := FromRecord(tt.rec)
			assert.Error(t, err)
		})
	}
}
