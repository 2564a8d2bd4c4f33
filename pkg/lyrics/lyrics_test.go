package lyrics

import (
	"context"
	"strings"
	"testing"
	"time"
	"unicode/utf8"
)

func TestCleanLyricsCollapsesWhitespace(t *testing.T) {
	got := CleanLyrics("line one   \n\n\n  line two\t\nline three")
	want := "line one\nline two\nline three"
	if got != want {
		t.Errorf("CleanLyrics = %q, want %q", got, want)
	}
}

func TestCleanLyricsDecodesEntities(t *testing.T) {
	got := CleanLyrics("rock &amp; roll &lt;3")
	if got != "rock & roll <3" {
		t.Errorf("unexpected: %q", got)
	}
}

func TestCleanLyricsTruncates(t *testing.T) {
	got := CleanLyrics(strings.Repeat("a", 5000))
	if len(got) != 2000 || !strings.HasSuffix(got, "...") {
		t.Errorf("expected 2000-char truncated result, got %d chars", len(got))
	}
}

func TestCleanLyricsTruncatesOnRuneBoundary(t *testing.T) {
	// 3-byte runes guarantee the byte cap lands mid-character.
	got := CleanLyrics(strings.Repeat("あ", 1000))
	if !utf8.ValidString(got) {
		t.Error("truncation produced invalid UTF-8")
	}
	if !strings.HasSuffix(got, "...") {
		t.Errorf("expected ellipsis suffix, got %q", got[len(got)-10:])
	}
	if len(got) > 2000 {
		t.Errorf("result too long: %d bytes", len(got))
	}
}

func TestCleanLyricsEmpty(t *testing.T) {
	if CleanLyrics("") != "" {
		t.Error("empty input should stay empty")
	}
}

func TestSearchEmptyQuery(t *testing.T) {
	c := NewClient()
	result := c.Search(context.Background(), "  ", "")
	if result == nil || result.Found {
		t.Fatal("empty query must report not-found")
	}
	if result.Error == nil {
		t.Error("empty query should carry an error")
	}
}

func TestCacheRoundTrip(t *testing.T) {
	c := NewClient()
	want := &Result{Title: "song", Found: true}
	c.storeCache("key", want)
	if got := c.lookupCache("key"); got != want {
		t.Error("expected cached result back")
	}

	c.cacheTTL = -time.Minute
	c.storeCache("stale", want)
	if got := c.lookupCache("stale"); got != nil {
		t.Error("expired entries must not be served")
	}

	c.ClearCache()
	if got := c.lookupCache("key"); got != nil {
		t.Error("ClearCache should drop entries")
	}
}
