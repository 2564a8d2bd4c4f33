package cache

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/pkg/errors"

	"github.com/latoulicious/Seiun/pkg/track"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := NewStore(t.TempDir())
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func writeAsset(t *testing.T, store *Store, name, content string) string {
	t.Helper()
	path := filepath.Join(store.Dir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write asset: %v", err)
	}
	return path
}

func TestGetOrAddTrackInvokesFactoryOncePerKey(t *testing.T) {
	store := newTestStore(t)
	key := track.Key("https://www.youtube.com/watch?v=dQw4w9WgXcQ")

	var calls int32
	factory := func(id, k string) (track.Track, error) {
		atomic.AddInt32(&calls, 1)
		time.Sleep(10 * time.Millisecond) // widen the race window
		return track.Track{ID: id, Title: "title", Author: "author", Source: "https://youtu.be/dQw4w9WgXcQ"}, nil
	}

	var wg sync.WaitGroup
	results := make([]track.Track, 8)
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			tr, err := store.GetOrAddTrack(key, factory)
			if err != nil {
				t.Errorf("GetOrAddTrack failed: %v", err)
				return
			}
			results[i] = tr
		}(i)
	}
	wg.Wait()

	if got := atomic.LoadInt32(&calls); got != 1 {
		t.Errorf("factory invoked %d times, want 1", got)
	}
	for _, tr := range results {
		if tr.ID != results[0].ID {
			t.Error("concurrent callers got different tracks for the same key")
		}
	}
}

func TestGetOrAddTrackHitSkipsFactory(t *testing.T) {
	store := newTestStore(t)
	key := track.Key("https://example.com/song")

	first, err := store.GetOrAddTrack(key, func(id, k string) (track.Track, error) {
		return track.Track{ID: id, Title: "song", Source: "https://example.com/song"}, nil
	})
	if err != nil {
		t.Fatalf("first GetOrAddTrack failed: %v", err)
	}

	second, err := store.GetOrAddTrack(key, func(id, k string) (track.Track, error) {
		t.Error("factory must not run on a cache hit")
		return track.Track{}, nil
	})
	if err != nil {
		t.Fatalf("second GetOrAddTrack failed: %v", err)
	}
	if second.ID != first.ID {
		t.Errorf("hit returned a different track: %s vs %s", second.ID, first.ID)
	}
}

func TestGetOrAddTrackFactoryErrorIsNotCached(t *testing.T) {
	store := newTestStore(t)
	key := track.Key("https://example.com/flaky")

	_, err := store.GetOrAddTrack(key, func(id, k string) (track.Track, error) {
		return track.Track{}, errors.New("resolver exploded")
	})
	if err == nil {
		t.Fatal("expected factory error to propagate")
	}

	// A later call retries the factory instead of serving the failure.
	tr, err := store.GetOrAddTrack(key, func(id, k string) (track.Track, error) {
		return track.Track{ID: id, Title: "recovered", Source: "https://example.com/flaky"}, nil
	})
	if err != nil {
		t.Fatalf("retry failed: %v", err)
	}
	if tr.Title != "recovered" {
		t.Errorf("unexpected track after retry: %+v", tr)
	}
}

func TestGetOrAddTrackPreservesConcurrentDownload(t *testing.T) {
	store := newTestStore(t)
	source := "https://example.com/racing"
	key := track.Key(source)
	path := writeAsset(t, store, "racing.opus", "audio bytes")

	// The download singleflight runs on a separate group, so a completed
	// download can land between the resolve-side lookup and its insert.
	// Registering the track afterwards must not wipe the recorded asset.
	tr, err := store.GetOrAddTrack(key, func(id, k string) (track.Track, error) {
		created := track.Track{ID: id, Title: "song", Author: "artist", Source: source}
		if err := store.SaveTrackFile(&track.Updated{
			Track:    created,
			FilePath: path,
			Size:     int64(len("audio bytes")),
		}); err != nil {
			return track.Track{}, err
		}
		return created, nil
	})
	if err != nil {
		t.Fatalf("GetOrAddTrack failed: %v", err)
	}

	got, err := store.GetTrackFile(tr)
	if err != nil {
		t.Fatalf("asset lost after track registration: %v", err)
	}
	if got != path {
		t.Errorf("expected asset path %s, got %s", path, got)
	}

	size, err := store.Size()
	if err != nil {
		t.Fatalf("Size failed: %v", err)
	}
	if size != int64(len("audio bytes")) {
		t.Errorf("recorded size was reset, got %d", size)
	}
}

func TestGetTrackFileMissingAsset(t *testing.T) {
	store := newTestStore(t)
	tr := track.NewTrack("song", "author", "https://example.com/nodownload", 0)

	if _, err := store.GetOrAddTrack(track.Key(tr.Source), func(id, k string) (track.Track, error) {
		return tr, nil
	}); err != nil {
		t.Fatalf("GetOrAddTrack failed: %v", err)
	}

	if _, err := store.GetTrackFile(tr); !errors.Is(err, ErrAssetNotFound) {
		t.Errorf("expected ErrAssetNotFound, got %v", err)
	}
}

func TestGetTrackFileRoundTrip(t *testing.T) {
	store := newTestStore(t)
	path := writeAsset(t, store, "asset.opus", "audio bytes")

	updated := &track.Updated{
		Track:    track.NewTrack("song", "author", "https://example.com/song", 3*time.Minute),
		FilePath: path,
		Size:     int64(len("audio bytes")),
	}
	if err := store.SaveTrackFile(updated); err != nil {
		t.Fatalf("SaveTrackFile failed: %v", err)
	}

	got, err := store.GetTrackFile(updated.Track)
	if err != nil {
		t.Fatalf("GetTrackFile failed: %v", err)
	}
	if got != path {
		t.Errorf("expected %s, got %s", path, got)
	}
}

func TestCorruptAssetIsEvicted(t *testing.T) {
	store := newTestStore(t)
	path := writeAsset(t, store, "asset.opus", "short")

	updated := &track.Updated{
		Track:    track.NewTrack("song", "author", "https://example.com/corrupt", 0),
		FilePath: path,
		Size:     9999, // recorded size disagrees with what landed on disk
	}
	if err := store.SaveTrackFile(updated); err != nil {
		t.Fatalf("SaveTrackFile failed: %v", err)
	}

	if _, err := store.GetTrackFile(updated.Track); !errors.Is(err, ErrAssetNotFound) {
		t.Fatalf("expected ErrAssetNotFound for corrupt asset, got %v", err)
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Error("corrupt asset file should have been removed")
	}
	if _, ok := store.FindTrack("https://example.com/corrupt"); ok {
		t.Error("corrupt entry should have been evicted from the index")
	}
}

func TestEnsureTrackFileDownloadsOnce(t *testing.T) {
	store := newTestStore(t)
	source := "https://example.com/ensure"
	key := track.Key(source)

	var downloads int32
	materialize := func() (*track.Updated, error) {
		atomic.AddInt32(&downloads, 1)
		time.Sleep(10 * time.Millisecond)
		path := writeAsset(t, store, "ensure.opus", "data")
		return &track.Updated{
			Track:    track.NewTrack("song", "author", source, time.Minute),
			FilePath: path,
			Size:     4,
		}, nil
	}

	var wg sync.WaitGroup
	for i := 0; i < 6; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := store.EnsureTrackFile(key, materialize); err != nil {
				t.Errorf("EnsureTrackFile failed: %v", err)
			}
		}()
	}
	wg.Wait()

	if got := atomic.LoadInt32(&downloads); got != 1 {
		t.Errorf("materialize invoked %d times, want 1", got)
	}
}

func TestSizeAndClear(t *testing.T) {
	store := newTestStore(t)

	pathA := writeAsset(t, store, "a.opus", "aaaa")
	pathB := writeAsset(t, store, "b.opus", "bbbbbb")
	for _, u := range []*track.Updated{
		{Track: track.NewTrack("a", "", "https://example.com/a", 0), FilePath: pathA, Size: 4},
		{Track: track.NewTrack("b", "", "https://example.com/b", 0), FilePath: pathB, Size: 6},
	} {
		if err := store.SaveTrackFile(u); err != nil {
			t.Fatalf("SaveTrackFile failed: %v", err)
		}
	}

	size, err := store.Size()
	if err != nil {
		t.Fatalf("Size failed: %v", err)
	}
	if size != 10 {
		t.Errorf("expected size 10, got %d", size)
	}

	if err := store.Clear(context.Background()); err != nil {
		t.Fatalf("Clear failed: %v", err)
	}
	size, err = store.Size()
	if err != nil {
		t.Fatalf("Size after clear failed: %v", err)
	}
	if size != 0 {
		t.Errorf("expected empty cache after clear, size=%d", size)
	}
	if _, err := os.Stat(pathA); !os.IsNotExist(err) {
		t.Error("asset a should have been deleted")
	}

	// Clearing an already-empty cache is fine.
	if err := store.Clear(context.Background()); err != nil {
		t.Errorf("second Clear failed: %v", err)
	}
}
