package cache

import (
	"context"
	"database/sql"
	"log"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/pkg/errors"
	"golang.org/x/sync/singleflight"

	"github.com/latoulicious/Seiun/pkg/track"
)

// ErrAssetNotFound is returned by GetTrackFile when no successful download
// has completed for the track's key.
var ErrAssetNotFound = errors.New("no cached asset for track")

// Store is the content-addressed audio cache. Track identity is the
// normalized source key; for any key at most one on-disk asset exists.
// The index lives in a sqlite database inside the cache directory, which
// makes the directory the single persisted artifact of the whole bot.
type Store struct {
	dir string
	db  *sql.DB

	// Per-key single-flight groups: one for metadata resolution, one for
	// asset downloads. Concurrent requests for the same key share the
	// first caller's result instead of doing the work twice.
	resolves  singleflight.Group
	downloads singleflight.Group
}

// NewStore opens (or creates) the cache directory and its index.
func NewStore(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, errors.Wrap(err, "failed to create cache directory")
	}

	db, err := sql.Open("sqlite3", filepath.Join(dir, "index.db"))
	if err != nil {
		return nil, errors.Wrap(err, "failed to open cache index")
	}

	if _, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS tracks (
			key         TEXT PRIMARY KEY,
			id          TEXT NOT NULL,
			title       TEXT NOT NULL,
			author      TEXT NOT NULL,
			source      TEXT NOT NULL,
			duration_ms INTEGER NOT NULL DEFAULT 0,
			file        TEXT NOT NULL DEFAULT '',
			size        INTEGER NOT NULL DEFAULT 0,
			created_at  TIMESTAMP NOT NULL
		)`); err != nil {
		db.Close()
		return nil, errors.Wrap(err, "failed to initialize cache index")
	}

	return &Store{dir: dir, db: db}, nil
}

// Dir returns the cache directory. Downloaders write assets below it.
func (s *Store) Dir() string {
	return s.dir
}

// Close closes the index database.
func (s *Store) Close() error {
	return s.db.Close()
}

// GetOrAddTrack looks up a track by key, invoking factory on a miss to
// construct the track record and reserve the slot. The factory runs at
// most once per key even under concurrent calls; every waiter gets the
// first caller's result. The expensive download happens elsewhere; this
// is identity and dedup bookkeeping only.
func (s *Store) GetOrAddTrack(key string, factory func(id, key string) (track.Track, error)) (track.Track, error) {
	result, err, _ := s.resolves.Do(key, func() (interface{}, error) {
		if existing, ok := s.lookup(key); ok {
			return existing.Track, nil
		}

		created, err := factory(track.NewID(), key)
		if err != nil {
			return track.Track{}, err
		}

		// A download completing concurrently may have written this row
		// already; update the metadata columns only, never file or size,
		// or the recorded asset would be orphaned.
		if _, err := s.db.Exec(
			`INSERT INTO tracks (key, id, title, author, source, duration_ms, created_at)
			 VALUES (?, ?, ?, ?, ?, ?, ?)
			 ON CONFLICT(key) DO UPDATE SET
				title = excluded.title,
				author = excluded.author,
				duration_ms = excluded.duration_ms`,
			key, created.ID, created.Title, created.Author, created.Source,
			created.Duration.Milliseconds(), time.Now()); err != nil {
			return track.Track{}, errors.Wrap(err, "failed to index track")
		}

		return created, nil
	})
	if err != nil {
		return track.Track{}, err
	}
	return result.(track.Track), nil
}

// EnsureTrackFile returns the asset path for key, invoking materialize to
// download it when absent. Concurrent callers for the same key share one
// download.
func (s *Store) EnsureTrackFile(key string, materialize func() (*track.Updated, error)) (string, error) {
	result, err, _ := s.downloads.Do(key, func() (interface{}, error) {
		if entry, ok := s.lookup(key); ok && entry.FilePath != "" {
			if s.assetHealthy(entry) {
				return entry.FilePath, nil
			}
			s.evict(key, entry.FilePath)
		}

		updated, err := materialize()
		if err != nil {
			return "", err
		}
		if err := s.SaveTrackFile(updated); err != nil {
			return "", err
		}
		return updated.FilePath, nil
	})
	if err != nil {
		return "", err
	}
	return result.(string), nil
}

// SaveTrackFile records a completed download in the index.
func (s *Store) SaveTrackFile(updated *track.Updated) error {
	key := track.Key(updated.Source)
	_, err := s.db.Exec(
		`INSERT INTO tracks (key, id, title, author, source, duration_ms, file, size, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(key) DO UPDATE SET
			title = excluded.title,
			author = excluded.author,
			duration_ms = excluded.duration_ms,
			file = excluded.file,
			size = excluded.size`,
		key, updated.ID, updated.Title, updated.Author, updated.Source,
		updated.Duration.Milliseconds(), updated.FilePath, updated.Size, time.Now())
	return errors.Wrap(err, "failed to record downloaded asset")
}

// GetTrackFile returns the on-disk asset path for a track. A missing or
// partially written asset is treated as a cache miss: the entry is
// evicted and ErrAssetNotFound is returned so the caller re-downloads.
func (s *Store) GetTrackFile(t track.Track) (string, error) {
	key := track.Key(t.Source)
	entry, ok := s.lookup(key)
	if !ok || entry.FilePath == "" {
		return "", ErrAssetNotFound
	}
	if !s.assetHealthy(entry) {
		log.Printf("Cached asset for %q is corrupt or missing, evicting", t.Title)
		s.evict(key, entry.FilePath)
		return "", ErrAssetNotFound
	}
	return entry.FilePath, nil
}

// FindTrack looks a track up by its source link. The second return is
// false when the link has never been cached.
func (s *Store) FindTrack(link string) (track.Track, bool) {
	entry, ok := s.lookup(track.Key(link))
	if !ok {
		return track.Track{}, false
	}
	return entry.Track, true
}

// Size returns the total bytes held by cached assets.
func (s *Store) Size() (int64, error) {
	var total int64
	err := s.db.QueryRow(`SELECT COALESCE(SUM(size), 0) FROM tracks`).Scan(&total)
	if err != nil {
		return 0, errors.Wrap(err, "failed to sum cache size")
	}
	return total, nil
}

// Clear deletes every cached asset and index entry. It is idempotent;
// a concurrent in-flight download for a cleared key may re-add that key,
// which is an accepted race.
func (s *Store) Clear(ctx context.Context) error {
	rows, err := s.db.QueryContext(ctx, `SELECT file FROM tracks WHERE file != ''`)
	if err != nil {
		return errors.Wrap(err, "failed to list cached assets")
	}

	var files []string
	for rows.Next() {
		var file string
		if err := rows.Scan(&file); err != nil {
			rows.Close()
			return errors.Wrap(err, "failed to scan cached asset")
		}
		files = append(files, file)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return errors.Wrap(err, "failed to iterate cached assets")
	}

	if _, err := s.db.ExecContext(ctx, `DELETE FROM tracks`); err != nil {
		return errors.Wrap(err, "failed to clear cache index")
	}

	for _, file := range files {
		if err := os.Remove(file); err != nil && !os.IsNotExist(err) {
			log.Printf("Failed to remove cached asset %s: %v", file, err)
		}
	}

	return nil
}

// lookup fetches one index entry. The second return is false on a miss.
func (s *Store) lookup(key string) (track.Updated, bool) {
	var (
		entry      track.Updated
		durationMS int64
	)
	err := s.db.QueryRow(
		`SELECT id, title, author, source, duration_ms, file, size FROM tracks WHERE key = ?`, key).
		Scan(&entry.ID, &entry.Title, &entry.Author, &entry.Source, &durationMS, &entry.FilePath, &entry.Size)
	if err != nil {
		if !errors.Is(err, sql.ErrNoRows) {
			log.Printf("Cache index lookup failed for key %s: %v", key, err)
		}
		return track.Updated{}, false
	}
	entry.Duration = time.Duration(durationMS) * time.Millisecond
	return entry, true
}

// assetHealthy verifies the asset file exists and has the recorded size.
// A size mismatch means a partially written download.
func (s *Store) assetHealthy(entry track.Updated) bool {
	info, err := os.Stat(entry.FilePath)
	if err != nil {
		return false
	}
	return entry.Size == 0 || info.Size() == entry.Size
}

// evict removes a corrupt entry and its asset file.
func (s *Store) evict(key, file string) {
	if _, err := s.db.Exec(`DELETE FROM tracks WHERE key = ?`, key); err != nil {
		log.Printf("Failed to evict cache entry %s: %v", key, err)
	}
	if file != "" {
		if err := os.Remove(file); err != nil && !os.IsNotExist(err) {
			log.Printf("Failed to remove corrupt asset %s: %v", file, err)
		}
	}
}
