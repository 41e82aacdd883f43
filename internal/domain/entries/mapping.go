package entries

import (
	"maps"

	"linkarchive/internal/domain/omnisearch"
)

// defaultMapping maps query field names to entry columns.
var defaultMapping = map[string]string{
	"link":           "link",
	"title":          "title",
	"description":    "description",
	"author":         "author",
	"language":       "language",
	"date_published": "date_published",
	"published":      "date_published",
	"bookmarked":     "bookmarked",
	"page_rating":    "page_rating",
	"rating":         "page_rating",
	"source":         "source_url",
	"source.url":     "source_url",
}

// DefaultSearchFields are matched by bare search terms.
var DefaultSearchFields = []string{"link", "title", "description"}

// DefaultMapping returns a copy of the built-in field mapping.
func DefaultMapping() map[string]string {
	return maps.Clone(defaultMapping)
}

// NewMapping builds the translation mapping, with overrides replacing or
// adding fields of the built-in one.
func NewMapping(overrides map[string]string) *omnisearch.Mapping {
	m := DefaultMapping()
	maps.Copy(m, overrides)
	return omnisearch.NewTranslationMapping(m)
}
