package export

import (
	"bytes"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/MrSnakeDoc/newtab/internal/domain"
)

func sample() Snapshot {
	at := time.Date(2025, 2, 3, 4, 5, 6, 0, time.UTC)
	return Snapshot{
		ExportedAt:  at,
		Preferences: domain.DefaultPreferences(),
		Sites:       []domain.SiteEntry{{Name: "Go", Icon: "icons/go.png", URL: "https://go.dev"}},
		Bookmarks:   []domain.BookmarkEntry{{URL: "https://pkg.go.dev", Title: "Packages", Icon: "icons/icon.png", Date: at}},
		History: []domain.HistoryEntry{
			{URL: "https://a.test", Title: "A", Date: at},
			{URL: "https://b.test", Title: "B", Date: at.Add(-time.Hour)},
		},
	}
}

func TestJSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, FormatJSON, sample()))

	var doc map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(buf.Bytes(), &doc))
	for _, key := range []string{"exportedAt", "preferences", "customSites", "bookmarks", "history"} {
		assert.Contains(t, doc, key)
	}
}

func TestXLSX(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, FormatXLSX, sample()))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer func() { _ = f.Close() }()

	assert.Equal(t, []string{SheetSites, SheetBookmarks, SheetHistory}, f.GetSheetList())

	rows, err := f.GetRows(SheetHistory)
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, []string{"title", "url", "date"}, rows[0])
	assert.Equal(t, []string{"A", "https://a.test", "2025-02-03T04:05:06Z"}, rows[1])

	rows, err = f.GetRows(SheetSites)
	require.NoError(t, err)
	assert.Equal(t, []string{"Go", "https://go.dev", "icons/go.png"}, rows[1])
}

func TestUnknownFormat(t *testing.T) {
	var buf bytes.Buffer
	err := Write(&buf, "csv", sample())
	assert.True(t, domain.IsValidation(err))
}
