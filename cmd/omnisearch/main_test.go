package main

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/klauspost/compress/zstd"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	app := newApp()
	app.Writer = &out
	app.ErrWriter = &bytes.Buffer{}
	err := app.Run(context.Background(), append([]string{"omnisearch"}, args...))
	return out.String(), err
}

func writeFile(t *testing.T, name string, data []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, data, 0o600))
	return path
}

const entriesJSON = `[
	{"link": "https://test1.com", "title": "One Title", "page_rating": 80},
	{"link": "https://test2.com", "title": "Two Title", "page_rating": 20}
]`

func TestConditions(t *testing.T) {
	out, err := run(t, "--search", "title == x", "conditions")
	require.NoError(t, err)

	var got map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	assert.Equal(t, "(AND: ('title', 'x'))", got["conditions"])
	assert.NotContains(t, got, "errors")
}

func TestConditions_Untranslated(t *testing.T) {
	out, err := run(t, "conditions", "--search", "nope == x")
	require.NoError(t, err)

	var got map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	assert.Equal(t, "(AND: ('pk__in', []))", got["conditions"])
	assert.Equal(t, map[string]any{"nope": []any{"x"}}, got["notTranslated"])
}

func TestSQL(t *testing.T) {
	out, err := run(t, "--search", "rating > 50", "sql", "--page", "3", "--page-size", "10", "--order", "title")
	require.NoError(t, err)

	var got struct {
		SQL  string `json:"sql"`
		Args []any  `json:"args"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	assert.Contains(t, got.SQL, "FROM entries WHERE page_rating > $1 ORDER BY title ASC LIMIT 10 OFFSET 20")
	assert.Equal(t, []any{"50"}, got.Args)
}

func TestSQL_InvalidOrder(t *testing.T) {
	_, err := run(t, "sql", "--order=-secret")
	assert.Error(t, err)
}

func TestFilter(t *testing.T) {
	path := writeFile(t, "entries.json", []byte(entriesJSON))

	out, err := run(t, "--search", "rating >= 50", "filter", "--input", path)
	require.NoError(t, err)

	var got []map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	require.Len(t, got, 1)
	assert.Equal(t, "https://test1.com", got[0]["link"])

	out, err = run(t, "--search", "title = two", "filter", "--input", path)
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	require.Len(t, got, 1)
	assert.Equal(t, "https://test2.com", got[0]["link"])
}

func TestFilter_Zstd(t *testing.T) {
	compressed := zstdPack(t, []byte(entriesJSON))
	path := writeFile(t, "entries.json.zst", compressed)

	out, err := run(t, "--search", "Title", "filter", "--input", path)
	require.NoError(t, err)

	var got []map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	assert.Len(t, got, 2)
}

func TestFilter_MissingInput(t *testing.T) {
	_, err := run(t, "filter")
	assert.Error(t, err)

	_, err = run(t, "filter", "--input", filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)
}

func TestReadEntries(t *testing.T) {
	path := writeFile(t, "entries.json", []byte(entriesJSON))

	list, err := readEntries(path)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, 80, list[0].PageRating)

	bad := writeFile(t, "bad.json", []byte(`[{"link": "https://a.com", "bookmarked": "yes"}]`))
	_, err = readEntries(bad)
	assert.Error(t, err)
}

func zstdPack(t *testing.T, data []byte) []byte {
	t.Helper()
	enc, err := zstd.NewWriter(nil)
	require.NoError(t, err)
	defer enc.Close()
	return enc.EncodeAll(data, nil)
}
