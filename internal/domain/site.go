package domain

// SiteEntry is a user-added quick-link tile.
//
// Tiles are immutable once created and only disappear with a full data wipe.
// Identity is the URL, but uniqueness is not enforced.
type SiteEntry struct {
	// Name is the tile caption.
	Name string `json:"name"`

	// Icon is an absolute URL or asset path for the tile image.
	Icon string `json:"icon"`

	// URL is the target opened when the tile is clicked.
	URL string `json:"url"`
}

// Valid reports whether a decoded site has the fields every consumer relies on.
func (s SiteEntry) Valid() bool {
	return s.URL != ""
}
