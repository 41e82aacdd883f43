package entries

import (
	"fmt"
	"math"
	"strings"
	"time"

	"linkarchive/internal/core/apperror"
)

// dateLayouts are accepted for date_published, most specific first.
var dateLayouts = []string{time.RFC3339, "2006-01-02 15:04:05", "2006-01-02"}

// FromRecord builds an Entry from a decoded JSON object. Keys may be
// snake_case columns or the camelCase JSON names.
func FromRecord(rec map[string]any) (Entry, error) {
	var e Entry
	var err error

	str := func(keys ...string) (string, bool) {
		for _, k := range keys {
			v, ok := rec[k]
			if !ok || v == nil {
				continue
			}
			s, isStr := v.(string)
			if !isStr {
				err = apperror.NewValidation(fmt.Sprintf("%s must be a string", k)).WithDetail("value", v)
				return "", false
			}
			return s, true
		}
		return "", false
	}
	optional := func(keys ...string) *string {
		if s, ok := str(keys...); ok {
			return &s
		}
		return nil
	}

	e.Link, _ = str("link")
	e.Title, _ = str("title")
	e.Description, _ = str("description")
	e.Author = optional("author")
	e.Language = optional("language")
	e.SourceURL = optional("source_url", "sourceUrl")

	if s, ok := str("date_published", "datePublished"); ok {
		t, perr := parseDate(s)
		if perr != nil {
			return e, apperror.NewValidation("invalid date_published").WithDetail("value", s)
		}
		e.DatePublished = &t
	}

	if v, ok := rec["bookmarked"]; ok && v != nil {
		b, isBool := v.(bool)
		if !isBool {
			return e, apperror.NewValidation("bookmarked must be a boolean").WithDetail("value", v)
		}
		e.Bookmarked = b
	}

	for _, k := range []string{"page_rating", "pageRating"} {
		v, ok := rec[k]
		if !ok || v == nil {
			continue
		}
		f, isNum := v.(float64)
		if !isNum || f != math.Trunc(f) {
			return e, apperror.NewValidation("page_rating must be an integer").WithDetail("value", v)
		}
		e.PageRating = int(f)
		break
	}

	return e, err
}

func parseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	var lastErr error
	for _, layout := range dateLayouts {
		t, err := time.Parse(layout, s)
		if err == nil {
			return t.UTC(), nil
		}
		lastErr = err
	}
	return time.Time{}, lastErr
}
