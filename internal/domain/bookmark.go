package domain

import "time"

// BookmarkEntry represents a page the user saved from the dashboard.
//
// Bookmarks are kept most-recent-first. Unlike history, the same URL may
// appear more than once: adding never looks for an existing entry.
type BookmarkEntry struct {
	// URL is the saved page.
	// Example: https://go.dev/doc/
	URL string `json:"url"`

	// Title is the label shown in the bookmarks panel.
	Title string `json:"title"`

	// Icon is an absolute URL or a path relative to the page assets.
	// Example: icons/icon.png
	Icon string `json:"icon"`

	// Date is the moment the bookmark was added.
	Date time.Time `json:"date"`
}

// Valid reports whether a decoded bookmark has the fields every consumer relies on.
func (b BookmarkEntry) Valid() bool {
	return b.URL != ""
}
