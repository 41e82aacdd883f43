package entries

import (
	"context"
)

// SearchQuery is one page request of an entry search.
type SearchQuery struct {
	Search   string
	Page     int // 1-based
	PageSize int
	OrderBy  string // "field" or "-field"
}

// SearchResult is one page of entries plus the diagnostics of the query.
// A query that could not be translated yields no items and non-empty Errors.
type SearchResult struct {
	Items         []Entry
	TotalCount    int64
	Page          int
	PageSize      int
	Errors        []string
	NotTranslated map[string][]any
}

// Repository reads and loads entries.
type Repository interface {
	// Search runs the query against stored entries.
	Search(ctx context.Context, q SearchQuery) (SearchResult, error)

	// Import bulk loads entries and returns the number of rows written.
	Import(ctx context.Context, list []Entry) (int64, error)
}
