package track

import (
	"crypto/rand"
	"crypto/sha1"
	"encoding/hex"
	"net/url"
	"strings"
	"time"
)

// Track represents a single resolved piece of audio. It is an immutable
// value: once created, its fields never change. Corrected metadata
// discovered during download lands on Updated instead.
type Track struct {
	ID       string        // opaque unique id, assigned at creation
	Title    string
	Author   string
	Source   string        // original URL or search query
	Duration time.Duration // may be zero until the asset is downloaded
}

// Updated is a Track plus the on-disk asset produced by a successful
// download. It is only ever constructed by the downloader.
type Updated struct {
	Track
	FilePath string
	Size     int64
}

// NewTrack creates a Track with a fresh id.
func NewTrack(title, author, source string, duration time.Duration) Track {
	return Track{
		ID:       NewID(),
		Title:    title,
		Author:   author,
		Source:   source,
		Duration: duration,
	}
}

// NewID returns a random opaque track id.
func NewID() string {
	buf := make([]byte, 8)
	if _, err := rand.Read(buf); err != nil {
		// crypto/rand only fails when the OS entropy source is broken
		return hex.EncodeToString([]byte(time.Now().Format(time.RFC3339Nano)))[:16]
	}
	return hex.EncodeToString(buf)
}

// Key derives the cache identity for a source URL or search query.
// Two tracks with the same normalized source share one key, and therefore
// at most one on-disk asset.
func Key(source string) string {
	sum := sha1.Sum([]byte(NormalizeSource(source)))
	return hex.EncodeToString(sum[:])
}

// NormalizeSource canonicalizes a source so that trivially different
// spellings of the same link map to the same cache key. Search queries
// are lowercased and whitespace-collapsed; URLs lose their fragment,
// tracking params and any scheme/host casing.
func NormalizeSource(source string) string {
	source = strings.TrimSpace(source)

	if !strings.HasPrefix(source, "http://") && !strings.HasPrefix(source, "https://") {
		// Search query, not a link.
		return strings.Join(strings.Fields(strings.ToLower(source)), " ")
	}

	parsed, err := url.Parse(source)
	if err != nil {
		return source
	}

	parsed.Fragment = ""
	parsed.Host = strings.ToLower(parsed.Host)
	parsed.Scheme = strings.ToLower(parsed.Scheme)

	// youtu.be short links carry the video id in the path; expand them so
	// both spellings of the same video share a key.
	if parsed.Host == "youtu.be" {
		id := strings.TrimPrefix(parsed.Path, "/")
		return "https://www.youtube.com/watch?v=" + id
	}

	if strings.HasSuffix(parsed.Host, "youtube.com") {
		q := parsed.Query()
		if id := q.Get("v"); id != "" {
			return "https://www.youtube.com/watch?v=" + id
		}
		if list := q.Get("list"); list != "" && strings.Contains(parsed.Path, "playlist") {
			return "https://www.youtube.com/playlist?list=" + list
		}
	}

	// Drop common tracking params for everything else.
	q := parsed.Query()
	for _, param := range []string{"utm_source", "utm_medium", "utm_campaign", "si", "feature"} {
		q.Del(param)
	}
	parsed.RawQuery = q.Encode()

	return parsed.String()
}
