package domain

import "strings"

// Search engine keys accepted by the searchEngine preference.
const (
	EngineGoogle     = "google"
	EngineBing       = "bing"
	EngineDuckDuckGo = "duckduckgo"
)

var searchEngines = map[string]string{
	EngineGoogle:     "https://www.google.com/search?q=",
	EngineBing:       "https://www.bing.com/search?q=",
	EngineDuckDuckGo: "https://duckduckgo.com/?q=",
}

// IsKnownEngine reports whether engine has a URL template.
func IsKnownEngine(engine string) bool {
	_, ok := searchEngines[engine]
	return ok
}

// SearchURL composes the results URL for query. Unknown engines fall back to Google.
func SearchURL(engine, query string) string {
	base, ok := searchEngines[engine]
	if !ok {
		base = searchEngines[EngineGoogle]
	}
	return base + EncodeURIComponent(query)
}

const upperhex = "0123456789ABCDEF"

// EncodeURIComponent percent-encodes s the way browsers do for a single URI
// component: only ASCII letters, digits and -_.!~*'() are left as is, and a
// space becomes %20 rather than "+". Search URLs built here and by the page
// must be byte-identical for history to collapse them into one entry.
func EncodeURIComponent(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		c := s[i]
		if isURIUnreserved(c) {
			b.WriteByte(c)
			continue
		}
		b.WriteByte('%')
		b.WriteByte(upperhex[c>>4])
		b.WriteByte(upperhex[c&15])
	}
	return b.String()
}

func isURIUnreserved(c byte) bool {
	switch {
	case 'a' <= c && c <= 'z', 'A' <= c && c <= 'Z', '0' <= c && c <= '9':
		return true
	}
	switch c {
	case '-', '_', '.', '!', '~', '*', '\'', '(', ')':
		return true
	}
	return false
}
