package commands

import (
	"context"
	"log"

	"github.com/latoulicious/Seiun/pkg/track"
)

// resolveTracks turns a user argument into queueable tracks. A link that
// was resolved before is answered straight from the cache index without
// spawning the resolver; fresh resolutions are registered in the index so
// they get a stable identity and repeat plays stay cheap.
func (c *Commands) resolveTracks(ctx context.Context, argument string) ([]track.Track, bool, error) {
	if cached, ok := c.Store.FindTrack(argument); ok {
		return []track.Track{cached}, true, nil
	}

	resolved, ok, err := c.Downloader.TryPrepare(ctx, argument)
	if err != nil || !ok {
		return nil, ok, err
	}

	tracks := make([]track.Track, 0, len(resolved))
	for _, t := range resolved {
		t := t
		registered, err := c.Store.GetOrAddTrack(track.Key(t.Source), func(id, key string) (track.Track, error) {
			t.ID = id
			return t, nil
		})
		if err != nil {
			// Indexing is bookkeeping; a broken index must not block playback.
			log.Printf("Failed to index track %q: %v", t.Title, err)
			registered = t
		}
		tracks = append(tracks, registered)
	}
	return tracks, true, nil
}
