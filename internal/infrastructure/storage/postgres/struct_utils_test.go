package postgres

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

type Audited struct {
	CreatedAt time.Time `db:"created_at"`
	Internal  string    `db:"-"`
}

type bookmark struct {
	Audited
	Link  string  `db:"link"`
	Title string  `db:"title"`
	Note  *string `db:"note"`
	Skip  int
}

func TestExtractDBColumns(t *testing.T) {
	assert.Equal(t, []string{"created_at", "link", "title", "note"}, ExtractDBColumns[bookmark]())
	assert.Equal(t, []string{"created_at", "link", "title", "note"}, ExtractDBColumns[*bookmark]())
	assert.Nil(t, ExtractDBColumns[int]())
}

func TestStructToMap(t *testing.T) {
	now := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	b := bookmark{Audited: Audited{CreatedAt: now}, Link: "https://a.com", Title: "A"}

	m := StructToMap(&b)
	assert.Equal(t, map[string]any{
		"created_at": now,
		"link":       "https://a.com",
		"title":      "A",
		"note":       (*string)(nil),
	}, m)

	assert.Nil(t, StructToMap((*bookmark)(nil)))
	assert.Nil(t, StructToMap(42))
}

func TestStructValues(t *testing.T) {
	b := bookmark{Link: "https://a.com", Title: "A"}

	assert.Equal(t, []any{"A", "https://a.com", nil}, StructValues(b, []string{"title", "link", "missing"}))
}
