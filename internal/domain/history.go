package domain

import (
	"strings"
	"time"
)

const (
	// MaxHistoryEntries caps the history log; the oldest entry is evicted first.
	MaxHistoryEntries = 100

	// SearchTitlePrefix marks history entries created by the search pathway.
	SearchTitlePrefix = "Search: "
)

// HistoryEntry is one visited target. The log holds at most one entry per URL.
type HistoryEntry struct {
	URL   string    `json:"url"`
	Title string    `json:"title"`
	Date  time.Time `json:"date"`
}

// Valid reports whether a decoded history entry has the fields every consumer relies on.
func (h HistoryEntry) Valid() bool {
	return h.URL != ""
}

// SearchQuery returns the query text of a search-originated entry.
func (h HistoryEntry) SearchQuery() (string, bool) {
	if !strings.HasPrefix(h.Title, SearchTitlePrefix) {
		return "", false
	}
	return strings.TrimPrefix(h.Title, SearchTitlePrefix), true
}

// SearchTitle builds the history title recorded for a search.
func SearchTitle(query string) string {
	return SearchTitlePrefix + query
}
