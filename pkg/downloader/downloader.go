package downloader

import (
	"bytes"
	"context"
	"fmt"
	"log"
	"os"
	"os/exec"
	"strconv"
	"strings"
	"time"

	"github.com/kkdai/youtube/v2"
	"github.com/pkg/errors"

	"github.com/latoulicious/Seiun/pkg/track"
)

// Resolver is the capability the streamer needs from a downloader.
type Resolver interface {
	TryPrepare(ctx context.Context, argument string) ([]track.Track, bool, error)
	TryDownload(ctx context.Context, t track.Track) (*track.Updated, bool, error)
}

// Downloader resolves user arguments into tracks and materializes audio
// assets. YouTube metadata goes through the youtube client directly when
// possible; everything else (and all downloads) goes through yt-dlp.
type Downloader struct {
	ytdlp    string // yt-dlp binary path
	cacheDir string
	yt       *youtube.Client
}

// New creates a Downloader writing assets into cacheDir.
func New(ytdlpPath, cacheDir string) *Downloader {
	if ytdlpPath == "" {
		ytdlpPath = "yt-dlp"
	}
	return &Downloader{
		ytdlp:    ytdlpPath,
		cacheDir: cacheDir,
		yt:       &youtube.Client{},
	}
}

// TryPrepare resolves a URL, search query, or playlist link into zero or
// more tracks (metadata only, no audio). The bool return is false when
// the input simply doesn't resolve to anything; bad user input never
// produces an error. A non-nil error means infrastructure failure, like
// the resolver tool missing from PATH.
func (d *Downloader) TryPrepare(ctx context.Context, argument string) ([]track.Track, bool, error) {
	argument = strings.TrimSpace(argument)
	if argument == "" {
		return nil, false, nil
	}

	switch {
	case isYouTubePlaylist(argument):
		tracks, err := d.preparePlaylist(ctx, argument)
		if err != nil {
			log.Printf("Playlist resolution failed for %s: %v", argument, err)
			return nil, false, nil
		}
		return tracks, len(tracks) > 0, nil

	case isYouTubeURL(argument):
		// Fast path: pull metadata via the YouTube API client without
		// spawning a process. Fall back to yt-dlp when it fails.
		if t, err := d.prepareYouTubeVideo(ctx, argument); err == nil {
			return []track.Track{t}, true, nil
		} else {
			log.Printf("YouTube client failed for %s, falling back to yt-dlp: %v", argument, err)
		}
		fallthrough

	case isURL(argument):
		t, ok, err := d.prepareWithYtdlp(ctx, argument, false)
		if err != nil || !ok {
			return nil, false, err
		}
		return []track.Track{t}, true, nil

	default:
		// Treat the argument as a search query; take the first hit.
		t, ok, err := d.prepareWithYtdlp(ctx, argument, true)
		if err != nil || !ok {
			return nil, false, err
		}
		return []track.Track{t}, true, nil
	}
}

// TryDownload materializes the audio asset for one track into the cache
// directory, returning the track enriched with the asset path and any
// corrected metadata. Safe to call concurrently for different tracks;
// dedup for the same track key is the cache's job, not this method's.
func (d *Downloader) TryDownload(ctx context.Context, t track.Track) (*track.Updated, bool, error) {
	key := track.Key(t.Source)
	outTemplate := fmt.Sprintf("%s/%s.%%(ext)s", d.cacheDir, key)

	cmd := exec.CommandContext(ctx, d.ytdlp,
		"--no-playlist",
		"--no-warnings",
		"-f", "bestaudio[ext=m4a]/bestaudio[ext=webm]/bestaudio",
		"-x", "--audio-format", "opus",
		"--no-simulate",
		"--print", "duration",
		"--print", "after_move:filepath",
		"-o", outTemplate,
		t.Source)

	var out, stderr bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &stderr

	log.Printf("Downloading audio for %q (%s)", t.Title, t.Source)
	if err := cmd.Run(); err != nil {
		if errors.Is(err, exec.ErrNotFound) {
			return nil, false, errors.Wrap(err, "yt-dlp is not installed")
		}
		log.Printf("yt-dlp download failed for %s: %v, stderr: %s", t.Source, err, stderr.String())
		return nil, false, errors.Errorf("download failed for %q: %s", t.Title, firstLine(stderr.String()))
	}

	lines := nonEmptyLines(out.String())
	if len(lines) < 2 {
		return nil, false, errors.Errorf("yt-dlp produced no usable output for %q", t.Title)
	}

	duration := parseSeconds(lines[0])
	filePath := lines[len(lines)-1]

	info, err := os.Stat(filePath)
	if err != nil {
		return nil, false, errors.Wrapf(err, "downloaded asset missing for %q", t.Title)
	}

	updated := &track.Updated{Track: t, FilePath: filePath, Size: info.Size()}
	if duration > 0 {
		updated.Duration = duration
	}

	log.Printf("Downloaded %q (%d bytes, %v)", t.Title, updated.Size, updated.Duration)
	return updated, true, nil
}

// prepareYouTubeVideo resolves one YouTube video's metadata through the
// youtube client.
func (d *Downloader) prepareYouTubeVideo(ctx context.Context, rawURL string) (track.Track, error) {
	video, err := d.yt.GetVideoContext(ctx, rawURL)
	if err != nil {
		return track.Track{}, err
	}
	canonical := "https://www.youtube.com/watch?v=" + video.ID
	return track.NewTrack(video.Title, video.Author, canonical, video.Duration), nil
}

// preparePlaylist expands a YouTube playlist into tracks in playlist order.
func (d *Downloader) preparePlaylist(ctx context.Context, rawURL string) ([]track.Track, error) {
	playlist, err := d.yt.GetPlaylistContext(ctx, rawURL)
	if err != nil {
		return nil, err
	}

	tracks := make([]track.Track, 0, len(playlist.Videos))
	for _, entry := range playlist.Videos {
		canonical := "https://www.youtube.com/watch?v=" + entry.ID
		tracks = append(tracks, track.NewTrack(entry.Title, entry.Author, canonical, entry.Duration))
	}
	log.Printf("Expanded playlist %q into %d tracks", playlist.Title, len(tracks))
	return tracks, nil
}

// prepareWithYtdlp resolves a single URL or search query via yt-dlp.
func (d *Downloader) prepareWithYtdlp(ctx context.Context, argument string, search bool) (track.Track, bool, error) {
	target := argument
	if search {
		target = "ytsearch1:" + argument
	}

	cmd := exec.CommandContext(ctx, d.ytdlp,
		"--no-playlist",
		"--no-warnings",
		"--print", "webpage_url",
		"--print", "title",
		"--print", "channel",
		"--print", "duration",
		target)

	var out, stderr bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &stderr

	runErr := cmd.Run()
	if runErr != nil && errors.Is(runErr, exec.ErrNotFound) {
		return track.Track{}, false, errors.Wrap(runErr, "yt-dlp is not installed")
	}

	lines := nonEmptyLines(out.String())
	if len(lines) < 2 {
		if runErr != nil {
			log.Printf("yt-dlp resolution failed for %s: %v, stderr: %s", argument, runErr, stderr.String())
		}
		return track.Track{}, false, nil
	}

	source := lines[0]
	title := lines[1]
	author := ""
	var duration time.Duration
	if len(lines) >= 3 {
		author = lines[2]
	}
	if len(lines) >= 4 {
		duration = parseSeconds(lines[3])
	}
	if title == "" {
		title = "Unknown Title"
	}

	return track.NewTrack(title, author, source, duration), true, nil
}

func isURL(s string) bool {
	return strings.HasPrefix(s, "http://") || strings.HasPrefix(s, "https://") || strings.HasPrefix(s, "www.")
}

func isYouTubeURL(s string) bool {
	return strings.Contains(s, "youtube.com") || strings.Contains(s, "youtu.be")
}

func isYouTubePlaylist(s string) bool {
	return strings.Contains(s, "youtube.com") && strings.Contains(s, "list=")
}

func parseSeconds(s string) time.Duration {
	s = strings.TrimSpace(s)
	if s == "" || s == "None" || s == "NA" {
		return 0
	}
	seconds, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return time.Duration(seconds * float64(time.Second))
}

func nonEmptyLines(s string) []string {
	var lines []string
	for _, line := range strings.Split(s, "\n") {
		line = strings.TrimSpace(line)
		if line != "" {
			lines = append(lines, line)
		}
	}
	return lines
}

func firstLine(s string) string {
	lines := nonEmptyLines(s)
	if len(lines) == 0 {
		return "unknown error"
	}
	return lines[len(lines)-1]
}
