package downloader

import (
	"testing"
	"time"
)

func TestParseSeconds(t *testing.T) {
	cases := []struct {
		in   string
		want time.Duration
	}{
		{"212", 212 * time.Second},
		{"212.5", 212*time.Second + 500*time.Millisecond},
		{"None", 0},
		{"NA", 0},
		{"", 0},
		{"garbage", 0},
	}
	for _, c := range cases {
		if got := parseSeconds(c.in); got != c.want {
			t.Errorf("parseSeconds(%q) = %v, want %v", c.in, got, c.want)
		}
	}
}

func TestSourceClassification(t *testing.T) {
	if !isYouTubePlaylist("https://www.youtube.com/playlist?list=PL123") {
		t.Error("playlist URL not detected")
	}
	if isYouTubePlaylist("https://www.youtube.com/watch?v=abc") {
		t.Error("plain video misdetected as playlist")
	}
	if !isYouTubeURL("https://youtu.be/abc") {
		t.Error("short link not detected as YouTube")
	}
	if !isURL("www.example.com/a.mp3") {
		t.Error("www-prefixed link not detected as URL")
	}
	if isURL("hokko tarumae theme") {
		t.Error("search query misdetected as URL")
	}
}

func TestNonEmptyLines(t *testing.T) {
	got := nonEmptyLines("a\n\n  b  \n\n")
	if len(got) != 2 || got[0] != "a" || got[1] != "b" {
		t.Errorf("unexpected lines: %v", got)
	}
}
