package dto

import (
	"time"

	"linkarchive/internal/domain/entries"
)

// SearchRequest is the query string of GET /entries.
type SearchRequest struct {
	PaginationRequest
	Search string `form:"search"`
	Order  string `form:"order"`
}

// ToQuery converts the request to a domain query.
func (r SearchRequest) ToQuery() entries.SearchQuery {
	return entries.SearchQuery{
		Search:   r.Search,
		Page:     r.Page,
		PageSize: r.PageSize,
		OrderBy:  r.Order,
	}
}

// EntryResponse is one entry.
type EntryResponse struct {
	Link          string     `json:"link"`
	Title         string     `json:"title"`
	Description   string     `json:"description"`
	Author        *string    `json:"author,omitempty"`
	Language      *string    `json:"language,omitempty"`
	DatePublished *time.Time `json:"datePublished,omitempty"`
	Bookmarked    bool       `json:"bookmarked"`
	PageRating    int        `json:"pageRating"`
	SourceURL     *string    `json:"sourceUrl,omitempty"`
}

// FromEntry creates EntryResponse from entries.Entry.
func FromEntry(e entries.Entry) EntryResponse {
	return EntryResponse{
		Link:          e.Link,
		Title:         e.Title,
		Description:   e.Description,
		Author:        e.Author,
		Language:      e.Language,
		DatePublished: e.DatePublished,
		Bookmarked:    e.Bookmarked,
		PageRating:    e.PageRating,
		SourceURL:     e.SourceURL,
	}
}

// SearchResponse is one page of entries.
type SearchResponse struct {
	Data       []EntryResponse    `json:"data"`
	Pagination PaginationResponse `json:"pagination"`
	Diagnostics
}

// FromSearchResult creates SearchResponse from a domain result.
func FromSearchResult(r entries.SearchResult) SearchResponse {
	data := make([]EntryResponse, len(r.Items))
	for i, e := range r.Items {
		data[i] = FromEntry(e)
	}
	return SearchResponse{
		Data:       data,
		Pagination: NewPaginationResponse(r.Page, r.PageSize, r.TotalCount),
		Diagnostics: Diagnostics{
			Errors:        r.Errors,
			NotTranslated: r.NotTranslated,
		},
	}
}

// ExplainResponse shows how a search query is translated for each backend.
type ExplainResponse struct {
	Search     string `json:"search"`
	Conditions string `json:"conditions"`
	Expression string `json:"expression"`
	SQL        string `json:"sql"`
	Args       []any  `json:"args"`
	Diagnostics
	SQLErrors []string `json:"sqlErrors,omitempty"`
}

// FilterResponse is the result of filtering a posted record collection.
type FilterResponse struct {
	Items []map[string]any `json:"items"`
	Count int              `json:"count"`
	Diagnostics
}

// ImportResponse reports how many entries were stored.
type ImportResponse struct {
	Imported int64 `json:"imported"`
}
