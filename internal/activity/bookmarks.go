package activity

import (
	"context"
	"strings"
	"time"

	"github.com/MrSnakeDoc/newtab/internal/domain"
	"github.com/MrSnakeDoc/newtab/internal/kv"
	"github.com/MrSnakeDoc/newtab/internal/logger"
)

// Bookmarks is the saved-pages list, most recently added first.
// Adding does not look for an existing entry, so a URL may be saved twice.
type Bookmarks struct {
	c   *collection[domain.BookmarkEntry]
	now func() time.Time
}

// NewBookmarks loads the bookmarks list from store. now == nil uses time.Now.
func NewBookmarks(ctx context.Context, store *kv.Store, log logger.Logger, now func() time.Time) *Bookmarks {
	if now == nil {
		now = time.Now
	}
	return &Bookmarks{
		c:   newCollection[domain.BookmarkEntry](ctx, domain.KeyBookmarks, store, log),
		now: now,
	}
}

// List returns bookmarks, newest first.
func (b *Bookmarks) List() []domain.BookmarkEntry {
	return b.c.list()
}

// Add stamps the current time and inserts the bookmark at the front.
func (b *Bookmarks) Add(ctx context.Context, url, title, icon string) ([]domain.BookmarkEntry, error) {
	url = strings.TrimSpace(url)
	if err := domain.ValidateURL("url", url); err != nil {
		return b.List(), err
	}

	b.c.mu.Lock()
	defer b.c.mu.Unlock()

	entry := domain.BookmarkEntry{
		URL:   url,
		Title: title,
		Icon:  icon,
		Date:  b.now().UTC(),
	}
	b.c.items = append([]domain.BookmarkEntry{entry}, b.c.items...)
	err := b.c.persistLocked(ctx)
	return b.c.snapshotLocked(), err
}

// Remove deletes the first bookmark whose URL matches. It persists only when
// something was removed and reports whether it did.
func (b *Bookmarks) Remove(ctx context.Context, url string) ([]domain.BookmarkEntry, bool, error) {
	b.c.mu.Lock()
	defer b.c.mu.Unlock()

	idx := -1
	for i, entry := range b.c.items {
		if entry.URL == url {
			idx = i
			break
		}
	}
	if idx == -1 {
		return b.c.snapshotLocked(), false, nil
	}

	b.c.items = append(b.c.items[:idx], b.c.items[idx+1:]...)
	err := b.c.persistLocked(ctx)
	return b.c.snapshotLocked(), true, err
}

// Contains reports whether url is bookmarked.
func (b *Bookmarks) Contains(url string) bool {
	b.c.mu.Lock()
	defer b.c.mu.Unlock()

	for _, entry := range b.c.items {
		if entry.URL == url {
			return true
		}
	}
	return false
}

// Reset empties the list in memory and holds the store lock until release.
func (b *Bookmarks) Reset() (release func()) {
	return b.c.reset()
}
