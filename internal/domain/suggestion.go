package domain

import (
	"strings"
	"unicode/utf8"
)

const (
	// MinSuggestionQuery is the shortest query (in characters) that produces suggestions.
	MinSuggestionQuery = 2

	// MaxSuggestions caps the suggestion list.
	MaxSuggestions = 6
)

// CommonSearches is the built-in phrase set offered alongside recent searches.
var CommonSearches = []string{
	"weather forecast", "news today", "sports results", "stock market",
	"recipe ideas", "tech news", "movie reviews", "travel destinations",
	"health tips", "coding tutorials", "online shopping", "job listings",
	"email login", "social media", "video streaming", "music playlists",
}

// Suggestion is a candidate completion with the span of the matched query,
// expressed as byte offsets into Text so a renderer can highlight it.
type Suggestion struct {
	Text        string `json:"text"`
	MatchStart  int    `json:"matchStart"`
	MatchLength int    `json:"matchLength"`
	Recent      bool   `json:"recent"`
}

// SuggestionResult is what the search box renders. Active is false when the
// suggestion panel should be hidden.
type SuggestionResult struct {
	Query       string       `json:"query"`
	Active      bool         `json:"active"`
	Suggestions []Suggestion `json:"suggestions"`
}

// RecentSearches extracts the query text of search-originated entries, in history order.
func RecentSearches(history []HistoryEntry) []string {
	searches := make([]string, 0, len(history))
	for _, entry := range history {
		if q, ok := entry.SearchQuery(); ok {
			searches = append(searches, q)
		}
	}
	return searches
}

// Suggest returns up to MaxSuggestions completions for query.
// Recent searches come first, then built-in phrases; each group keeps its own
// order and exact duplicates are dropped.
func Suggest(query string, history []HistoryEntry) SuggestionResult {
	query = strings.TrimSpace(query)
	result := SuggestionResult{Query: query, Suggestions: []Suggestion{}}

	if utf8.RuneCountInString(query) < MinSuggestionQuery {
		return result
	}

	seen := make(map[string]bool, MaxSuggestions)
	add := func(text string, recent bool) bool {
		if seen[text] {
			return false
		}
		start, length, ok := matchSpan(text, query)
		if !ok {
			return false
		}
		seen[text] = true
		result.Suggestions = append(result.Suggestions, Suggestion{
			Text:        text,
			MatchStart:  start,
			MatchLength: length,
			Recent:      recent,
		})
		return len(result.Suggestions) == MaxSuggestions
	}

	for _, text := range RecentSearches(history) {
		if add(text, true) {
			break
		}
	}
	if len(result.Suggestions) < MaxSuggestions {
		for _, text := range CommonSearches {
			if add(text, false) {
				break
			}
		}
	}

	result.Active = len(result.Suggestions) > 0
	return result
}

// matchSpan finds the first case-insensitive occurrence of query in text.
// Comparison is rune by rune so offsets stay valid when case folding
// changes the byte length of a character.
func matchSpan(text, query string) (start, length int, ok bool) {
	if query == "" {
		return 0, 0, false
	}
	for i := range text {
		j := i
		q := query
		for q != "" && j < len(text) {
			tr, tn := utf8.DecodeRuneInString(text[j:])
			qr, qn := utf8.DecodeRuneInString(q)
			if !strings.EqualFold(string(tr), string(qr)) {
				break
			}
			j += tn
			q = q[qn:]
		}
		if q == "" {
			return i, j - i, true
		}
	}
	return 0, 0, false
}
