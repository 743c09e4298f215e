package scheduler

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"slices"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/MrSnakeDoc/newtab/internal/domain"
	"github.com/MrSnakeDoc/newtab/internal/logger"
	"github.com/MrSnakeDoc/newtab/internal/sources/homepage"
)

// watchDebounce coalesces the burst of events an editor produces on save.
const watchDebounce = 500 * time.Millisecond

// SiteSink receives imported tiles.
type SiteSink interface {
	Contains(url string) bool
	Add(ctx context.Context, entry domain.SiteEntry) ([]domain.SiteEntry, error)
}

// BookmarkSink receives imported bookmarks.
type BookmarkSink interface {
	Contains(url string) bool
	Add(ctx context.Context, url, title, icon string) ([]domain.BookmarkEntry, error)
}

// ImportResult counts what one import run added.
type ImportResult struct {
	Sites     int `json:"sites"`
	Bookmarks int `json:"bookmarks"`
}

// HomepageImporter copies entries from homepage's services.yaml and
// bookmarks.yaml into the dashboard. URLs the dashboard already has are
// skipped, so user edits are never overwritten.
type HomepageImporter struct {
	services      *homepage.Loader
	bookmarks     *homepage.Loader
	sites         SiteSink
	marks         BookmarkSink
	logger        logger.Logger
	interval      time.Duration
	stopCh        chan struct{}
	manualTrigger chan struct{}

	mu       sync.Mutex // serializes import runs
	lastRun  time.Time
	dmu      sync.Mutex
	debounce *time.Timer
}

// NewHomepageImporter creates an importer. Either file may be empty to skip it.
func NewHomepageImporter(
	serviceFile, bookmarkFile string,
	sites SiteSink,
	marks BookmarkSink,
	log logger.Logger,
	interval time.Duration,
	manualTrigger chan struct{},
) *HomepageImporter {
	hi := &HomepageImporter{
		sites:         sites,
		marks:         marks,
		logger:        log,
		interval:      interval,
		stopCh:        make(chan struct{}),
		manualTrigger: manualTrigger,
	}
	if serviceFile != "" {
		hi.services = homepage.NewLoader(serviceFile)
	}
	if bookmarkFile != "" {
		hi.bookmarks = homepage.NewLoader(bookmarkFile)
	}
	return hi
}

// Start imports once, then again on every tick, manual trigger or change to
// one of the files.
func (hi *HomepageImporter) Start(ctx context.Context) error {
	if _, err := hi.Import(ctx); err != nil {
		hi.logger.Warn("initial homepage import failed", logger.Error(err))
	}

	watcher := hi.watch()

	ticker := time.NewTicker(hi.interval)
	go func() {
		defer ticker.Stop()
		if watcher != nil {
			defer func() { _ = watcher.Close() }()
		}
		for {
			select {
			case <-ticker.C:
				hi.run(ctx)
			case <-hi.manualTrigger:
				hi.logger.Info("manual homepage import triggered")
				hi.run(ctx)
			case event, ok := <-watcherEvents(watcher):
				if ok && hi.isWatched(event) {
					hi.scheduleDebounced(ctx)
				}
			case err, ok := <-watcherErrors(watcher):
				if ok {
					hi.logger.Warn("homepage watcher error", logger.Error(err))
				}
			case <-hi.stopCh:
				return
			case <-ctx.Done():
				return
			}
		}
	}()

	return nil
}

// Stop stops the importer.
func (hi *HomepageImporter) Stop() {
	close(hi.stopCh)

	hi.dmu.Lock()
	if hi.debounce != nil {
		hi.debounce.Stop()
	}
	hi.dmu.Unlock()
}

// Import runs one import pass over both files.
func (hi *HomepageImporter) Import(ctx context.Context) (ImportResult, error) {
	hi.mu.Lock()
	defer hi.mu.Unlock()

	var res ImportResult
	var errs []error

	if hi.services != nil {
		n, err := hi.importSites(ctx)
		res.Sites = n
		if err != nil {
			errs = append(errs, err)
		}
	}
	if hi.bookmarks != nil {
		n, err := hi.importBookmarks(ctx)
		res.Bookmarks = n
		if err != nil {
			errs = append(errs, err)
		}
	}

	hi.lastRun = time.Now()
	if res.Sites+res.Bookmarks > 0 {
		hi.logger.Info("imported from homepage",
			logger.Int("sites", res.Sites),
			logger.Int("bookmarks", res.Bookmarks))
	}
	return res, errors.Join(errs...)
}

// LastImport returns when the last import pass finished, zero if none ran yet.
func (hi *HomepageImporter) LastImport() time.Time {
	hi.mu.Lock()
	defer hi.mu.Unlock()
	return hi.lastRun
}

func (hi *HomepageImporter) importSites(ctx context.Context) (int, error) {
	config, err := hi.services.LoadServices()
	if err != nil {
		return 0, err
	}
	entries, err := homepage.MapServices(config)
	if err != nil {
		return 0, fmt.Errorf("failed to map services: %w", err)
	}

	added := 0
	for _, entry := range entries {
		if hi.sites.Contains(entry.URL) {
			continue
		}
		if _, err := hi.sites.Add(ctx, entry); err != nil {
			if domain.IsStorage(err) {
				// Applied in memory; keep going.
				added++
				continue
			}
			hi.logger.Warn("skipping homepage service",
				logger.String("url", entry.URL),
				logger.Error(err))
			continue
		}
		added++
	}
	return added, nil
}

func (hi *HomepageImporter) importBookmarks(ctx context.Context) (int, error) {
	config, err := hi.bookmarks.LoadBookmarks()
	if err != nil {
		return 0, err
	}
	entries, err := homepage.MapBookmarks(config)
	if err != nil {
		return 0, fmt.Errorf("failed to map bookmarks: %w", err)
	}

	// Bookmarks are prepended, so walk backwards to keep the file's order on top.
	added := 0
	for _, entry := range slices.Backward(entries) {
		if hi.marks.Contains(entry.URL) {
			continue
		}
		if _, err := hi.marks.Add(ctx, entry.URL, entry.Title, entry.Icon); err != nil && !domain.IsStorage(err) {
			hi.logger.Warn("skipping homepage bookmark",
				logger.String("url", entry.URL),
				logger.Error(err))
			continue
		}
		added++
	}
	return added, nil
}

func (hi *HomepageImporter) run(ctx context.Context) {
	if _, err := hi.Import(ctx); err != nil {
		hi.logger.Error("homepage import failed", logger.Error(err))
	}
}

func (hi *HomepageImporter) scheduleDebounced(ctx context.Context) {
	hi.dmu.Lock()
	defer hi.dmu.Unlock()

	if hi.debounce != nil {
		hi.debounce.Stop()
	}
	hi.debounce = time.AfterFunc(watchDebounce, func() {
		hi.logger.Info("homepage file changed")
		hi.run(ctx)
	})
}

// watch starts a watcher on the directories holding the files. Editors often
// replace files instead of writing them, so the directory is watched rather
// than the file. A nil watcher means changes are only picked up on the tick.
func (hi *HomepageImporter) watch() *fsnotify.Watcher {
	dirs := map[string]bool{}
	for _, l := range []*homepage.Loader{hi.services, hi.bookmarks} {
		if l != nil {
			dirs[filepath.Dir(l.Path())] = true
		}
	}
	if len(dirs) == 0 {
		return nil
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		hi.logger.Warn("file watcher unavailable, polling only", logger.Error(err))
		return nil
	}
	for dir := range dirs {
		if err := watcher.Add(dir); err != nil {
			hi.logger.Warn("cannot watch homepage directory, polling only",
				logger.String("dir", dir),
				logger.Error(err))
			_ = watcher.Close()
			return nil
		}
	}
	return watcher
}

func (hi *HomepageImporter) isWatched(event fsnotify.Event) bool {
	if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
		return false
	}
	name := filepath.Clean(event.Name)
	for _, l := range []*homepage.Loader{hi.services, hi.bookmarks} {
		if l != nil && filepath.Clean(l.Path()) == name {
			return true
		}
	}
	return false
}

// nil channels block forever in a select, which disables those cases.
func watcherEvents(w *fsnotify.Watcher) chan fsnotify.Event {
	if w == nil {
		return nil
	}
	return w.Events
}

func watcherErrors(w *fsnotify.Watcher) chan error {
	if w == nil {
		return nil
	}
	return w.Errors
}
