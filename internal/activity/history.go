package activity

import (
	"context"
	"fmt"
	"time"

	"github.com/MrSnakeDoc/newtab/internal/confirm"
	"github.com/MrSnakeDoc/newtab/internal/domain"
	"github.com/MrSnakeDoc/newtab/internal/kv"
	"github.com/MrSnakeDoc/newtab/internal/logger"
)

// History is the visit log: newest first, one entry per URL, at most
// domain.MaxHistoryEntries long.
type History struct {
	c    *collection[domain.HistoryEntry]
	gate *confirm.Gate
	now  func() time.Time
}

// NewHistory loads the history list from store. Clearing goes through gate.
func NewHistory(ctx context.Context, store *kv.Store, gate *confirm.Gate, log logger.Logger, now func() time.Time) *History {
	if now == nil {
		now = time.Now
	}
	h := &History{
		c:    newCollection[domain.HistoryEntry](ctx, domain.KeyHistory, store, log),
		gate: gate,
		now:  now,
	}
	// Older or hand-edited documents may violate the invariants; repair on load.
	h.c.items = normalizeHistory(h.c.items)
	return h
}

// List returns the log, newest first.
func (h *History) List() []domain.HistoryEntry {
	return h.c.list()
}

// Record moves url to the front with a fresh timestamp and title,
// evicting the oldest entry when the cap is exceeded.
func (h *History) Record(ctx context.Context, url, title string) ([]domain.HistoryEntry, error) {
	if url == "" {
		return h.List(), &domain.ValidationError{Field: "url", Reason: "url is required"}
	}

	h.c.mu.Lock()
	defer h.c.mu.Unlock()

	for i, entry := range h.c.items {
		if entry.URL == url {
			h.c.items = append(h.c.items[:i], h.c.items[i+1:]...)
			break
		}
	}

	entry := domain.HistoryEntry{URL: url, Title: title, Date: h.now().UTC()}
	h.c.items = append([]domain.HistoryEntry{entry}, h.c.items...)
	if len(h.c.items) > domain.MaxHistoryEntries {
		h.c.items = h.c.items[:domain.MaxHistoryEntries]
	}

	err := h.c.persistLocked(ctx)
	return h.c.snapshotLocked(), err
}

// RecordSearch records a search under the "Search: <query>" title.
func (h *History) RecordSearch(ctx context.Context, searchURL, query string) ([]domain.HistoryEntry, error) {
	return h.Record(ctx, searchURL, domain.SearchTitle(query))
}

// RequestClear starts the two-step clear. Nothing is deleted until
// ConfirmClear is called with the returned token.
func (h *History) RequestClear() confirm.Request {
	return h.gate.Request(confirm.ActionClearHistory)
}

// ConfirmClear empties the log if token is a valid clear-history token.
func (h *History) ConfirmClear(ctx context.Context, token string) ([]domain.HistoryEntry, error) {
	if err := h.gate.Confirm(confirm.ActionClearHistory, token); err != nil {
		return h.List(), fmt.Errorf("clear history: %w", err)
	}

	h.c.mu.Lock()
	defer h.c.mu.Unlock()

	h.c.items = []domain.HistoryEntry{}
	err := h.c.persistLocked(ctx)
	return h.c.snapshotLocked(), err
}

// RecentSearches returns the queries of search-originated entries, newest first.
func (h *History) RecentSearches() []string {
	return domain.RecentSearches(h.List())
}

// Suggest runs the suggestion engine against the current log.
func (h *History) Suggest(query string) domain.SuggestionResult {
	return domain.Suggest(query, h.List())
}

// Reset empties the log in memory. The store stays locked until release is
// called, so a wipe can clear storage before anyone records again.
func (h *History) Reset() (release func()) {
	return h.c.reset()
}

// normalizeHistory keeps the first (newest) entry per URL and enforces the cap.
func normalizeHistory(entries []domain.HistoryEntry) []domain.HistoryEntry {
	seen := make(map[string]bool, len(entries))
	out := make([]domain.HistoryEntry, 0, len(entries))
	for _, entry := range entries {
		if seen[entry.URL] {
			continue
		}
		seen[entry.URL] = true
		out = append(out, entry)
		if len(out) == domain.MaxHistoryEntries {
			break
		}
	}
	return out
}
