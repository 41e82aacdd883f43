// Package entries is the link archive: stored web entries and their search.
package entries

import (
	"net/url"
	"strings"
	"time"

	"linkarchive/internal/core/apperror"
)

// TableName is the table holding entries.
const TableName = "entries"

// Entry is one archived link.
type Entry struct {
	Link          string     `db:"link" json:"link"`
	Title         string     `db:"title" json:"title"`
	Description   string     `db:"description" json:"description"`
	Author        *string    `db:"author" json:"author,omitempty"`
	Language      *string    `db:"language" json:"language,omitempty"`
	DatePublished *time.Time `db:"date_published" json:"datePublished,omitempty"`
	Bookmarked    bool       `db:"bookmarked" json:"bookmarked"`
	PageRating    int        `db:"page_rating" json:"pageRating"`
	SourceURL     *string    `db:"source_url" json:"sourceUrl,omitempty"`
}

// Validate checks that the entry can be stored.
func (e Entry) Validate() error {
	link := strings.TrimSpace(e.Link)
	if link == "" {
		return apperror.NewValidation("link is required")
	}

	u, err := url.Parse(link)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return apperror.NewValidation("link must be an absolute http(s) URL").WithDetail("link", e.Link)
	}

	if e.PageRating < 0 || e.PageRating > 100 {
		return apperror.NewValidation("page rating must be between 0 and 100").
			WithDetail("link", e.Link).
			WithDetail("pageRating", e.PageRating)
	}
	return nil
}
