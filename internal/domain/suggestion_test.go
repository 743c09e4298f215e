package domain

import (
	"fmt"
	"testing"
	"time"
)

func searchEntry(query string) HistoryEntry {
	return HistoryEntry{
		URL:   SearchURL(EngineGoogle, query),
		Title: SearchTitle(query),
		Date:  time.Now(),
	}
}

func TestSuggestDeduplicatesRecentAndBuiltin(t *testing.T) {
	history := []HistoryEntry{searchEntry("news today")}

	result := Suggest("new", history)

	count := 0
	for _, s := range result.Suggestions {
		if s.Text == "news today" {
			count++
		}
	}
	if count != 1 {
		t.Fatalf("expected \"news today\" exactly once, got %d in %v", count, result.Suggestions)
	}
	if !result.Active {
		t.Error("expected suggestions to be active")
	}
	if !result.Suggestions[0].Recent {
		t.Error("expected the recent search to come first")
	}
}

func TestSuggestShortQuery(t *testing.T) {
	history := []HistoryEntry{searchEntry("a"), searchEntry("abc")}

	for _, q := range []string{"", "a", " n ", "é"} {
		t.Run(fmt.Sprintf("query %q", q), func(t *testing.T) {
			result := Suggest(q, history)
			if len(result.Suggestions) != 0 {
				t.Errorf("expected no suggestions, got %v", result.Suggestions)
			}
			if result.Active {
				t.Error("expected suggestions to be inactive")
			}
		})
	}
}

func TestSuggestOrderingAndCap(t *testing.T) {
	history := []HistoryEntry{
		searchEntry("golang news"),
		{URL: "https://news.example.com", Title: "News Example", Date: time.Now()},
		searchEntry("hacker news"),
	}

	result := Suggest("NEWS", history)

	want := []string{"golang news", "hacker news", "news today", "tech news"}
	if len(result.Suggestions) != len(want) {
		t.Fatalf("got %d suggestions, want %d: %v", len(result.Suggestions), len(want), result.Suggestions)
	}
	for i, text := range want {
		if result.Suggestions[i].Text != text {
			t.Errorf("suggestion[%d] = %q, want %q", i, result.Suggestions[i].Text, text)
		}
	}
}

func TestSuggestCapsAtSix(t *testing.T) {
	var history []HistoryEntry
	for i := 0; i < 10; i++ {
		history = append(history, searchEntry(fmt.Sprintf("query %d", i)))
	}

	result := Suggest("query", history)

	if len(result.Suggestions) != MaxSuggestions {
		t.Fatalf("got %d suggestions, want %d", len(result.Suggestions), MaxSuggestions)
	}
	if result.Suggestions[0].Text != "query 0" {
		t.Errorf("first suggestion = %q, want most recent search", result.Suggestions[0].Text)
	}
}

func TestSuggestMatchSpan(t *testing.T) {
	tests := []struct {
		name       string
		query      string
		text       string
		wantStart  int
		wantLength int
	}{
		{name: "prefix", query: "we", text: "weather forecast", wantStart: 0, wantLength: 2},
		{name: "middle", query: "FORE", text: "weather forecast", wantStart: 8, wantLength: 4},
		{name: "multibyte", query: "ÜB", text: "grüße über", wantStart: 8, wantLength: 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			start, length, ok := matchSpan(tt.text, tt.query)
			if !ok {
				t.Fatalf("expected a match for %q in %q", tt.query, tt.text)
			}
			if start != tt.wantStart || length != tt.wantLength {
				t.Errorf("span = (%d, %d), want (%d, %d)", start, length, tt.wantStart, tt.wantLength)
			}
		})
	}
}

func TestSuggestDeterministic(t *testing.T) {
	history := []HistoryEntry{searchEntry("stock tips"), searchEntry("stockholm weather")}

	first := Suggest("sto", history)
	for i := 0; i < 5; i++ {
		again := Suggest("sto", history)
		if fmt.Sprint(again.Suggestions) != fmt.Sprint(first.Suggestions) {
			t.Fatalf("run %d differs: %v vs %v", i, again.Suggestions, first.Suggestions)
		}
	}
}
