package activity

import (
	"context"
	"strings"

	"github.com/MrSnakeDoc/newtab/internal/domain"
	"github.com/MrSnakeDoc/newtab/internal/kv"
	"github.com/MrSnakeDoc/newtab/internal/logger"
)

// Sites is the quick-link grid, oldest tile first. Tiles cannot be removed
// individually; only a full data wipe clears them.
type Sites struct {
	c *collection[domain.SiteEntry]
}

// NewSites loads the customSites list from store.
func NewSites(ctx context.Context, store *kv.Store, log logger.Logger) *Sites {
	return &Sites{
		c: newCollection[domain.SiteEntry](ctx, domain.KeyCustomSites, store, log),
	}
}

// List returns the tiles in insertion order.
func (s *Sites) List() []domain.SiteEntry {
	return s.c.list()
}

// Add appends a tile after checking that its URL is absolute.
func (s *Sites) Add(ctx context.Context, entry domain.SiteEntry) ([]domain.SiteEntry, error) {
	entry.URL = strings.TrimSpace(entry.URL)
	if err := domain.ValidateURL("url", entry.URL); err != nil {
		return s.List(), err
	}

	s.c.mu.Lock()
	defer s.c.mu.Unlock()

	s.c.items = append(s.c.items, entry)
	err := s.c.persistLocked(ctx)
	return s.c.snapshotLocked(), err
}

// Contains reports whether a tile already points at url.
func (s *Sites) Contains(url string) bool {
	s.c.mu.Lock()
	defer s.c.mu.Unlock()

	for _, site := range s.c.items {
		if site.URL == url {
			return true
		}
	}
	return false
}

// Reset empties the list in memory and holds the store lock until release.
func (s *Sites) Reset() (release func()) {
	return s.c.reset()
}
