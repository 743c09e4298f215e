package homepage

import (
	"errors"
	"sort"
	"strings"

	"github.com/MrSnakeDoc/newtab/internal/domain"
)

// iconCDN serves the dashboard-icons set homepage resolves bare icon names against.
const iconCDN = "https://cdn.jsdelivr.net/gh/walkxcode/dashboard-icons"

// DefaultIcon is used when an entry has no icon.
const DefaultIcon = "icons/icon.png"

var (
	ErrNoServices  = errors.New("no valid services found in homepage config")
	ErrNoBookmarks = errors.New("no valid bookmarks found in homepage config")
)

// MapServices turns services into quick-link tiles, in file order.
// Entries without an absolute href are skipped.
func MapServices(config ServicesConfig) ([]domain.SiteEntry, error) {
	var sites []domain.SiteEntry

	for _, group := range config {
		for _, groupName := range sortedKeys(group) {
			for _, serviceMap := range group[groupName] {
				for _, name := range sortedKeys(serviceMap) {
					props := serviceMap[name]
					href := strings.TrimSpace(props.Href)
					if domain.ValidateURL("href", href) != nil {
						continue
					}
					if name == "" {
						name = extractServiceName(domain.Hostname(href))
					}
					sites = append(sites, domain.SiteEntry{
						Name: name,
						Icon: resolveIcon(props.Icon),
						URL:  href,
					})
				}
			}
		}
	}

	if len(sites) == 0 {
		return nil, ErrNoServices
	}
	return sites, nil
}

// MapBookmarks turns bookmarks into entries without a date; the store
// stamps them when they are added. The bookmark name is the title, falling
// back to abbr.
func MapBookmarks(config BookmarksConfig) ([]domain.BookmarkEntry, error) {
	var bookmarks []domain.BookmarkEntry

	for _, category := range config {
		for _, categoryName := range sortedKeys(category) {
			for _, bookmarkMap := range category[categoryName] {
				for _, name := range sortedKeys(bookmarkMap) {
					entries := bookmarkMap[name]
					if len(entries) == 0 {
						continue
					}
					entry := entries[0]
					href := strings.TrimSpace(entry.Href)
					if domain.ValidateURL("href", href) != nil {
						continue
					}

					title := name
					if title == "" {
						title = entry.Abbr
					}
					bookmarks = append(bookmarks, domain.BookmarkEntry{
						URL:   href,
						Title: title,
						Icon:  resolveIcon(entry.Icon),
					})
				}
			}
		}
	}

	if len(bookmarks) == 0 {
		return nil, ErrNoBookmarks
	}
	return bookmarks, nil
}

// resolveIcon follows homepage's rules: URLs and absolute paths are used
// as-is, bare file names come from the dashboard-icons CDN.
func resolveIcon(icon string) string {
	icon = strings.TrimSpace(icon)
	switch {
	case icon == "":
		return DefaultIcon
	case strings.HasPrefix(icon, "http://"), strings.HasPrefix(icon, "https://"), strings.HasPrefix(icon, "/"):
		return icon
	case strings.HasSuffix(icon, ".svg"):
		return iconCDN + "/svg/" + icon
	case strings.HasSuffix(icon, ".webp"):
		return iconCDN + "/webp/" + icon
	case strings.HasSuffix(icon, ".png"):
		return iconCDN + "/png/" + icon
	default:
		// mdi-*, si-* and other icon-font names have no file to point at.
		return DefaultIcon
	}
}

// extractServiceName returns the first DNS label.
// Example: "jellyfin.domain.ext" -> "jellyfin"
func extractServiceName(hostname string) string {
	name, _, _ := strings.Cut(hostname, ".")
	return name
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
