package streamer

import (
	"context"
	"log"

	"github.com/bwmarrin/discordgo"
	"github.com/pkg/errors"

	"github.com/latoulicious/Seiun/pkg/cache"
	"github.com/latoulicious/Seiun/pkg/downloader"
	"github.com/latoulicious/Seiun/pkg/session"
	"github.com/latoulicious/Seiun/pkg/track"
)

// Announcer receives now-playing updates. The presence manager implements
// it; a nil announcer is allowed.
type Announcer interface {
	NowPlaying(title string)
	ClearNowPlaying()
}

// Streamer is the scheduler core: it decides which guild session may
// advance and executes one streaming step at a time.
type Streamer struct {
	dg       *discordgo.Session
	registry *session.Registry
	store    *cache.Store
	resolver downloader.Resolver

	announcer Announcer
	ffmpeg    string
}

// New creates a Streamer.
func New(dg *discordgo.Session, registry *session.Registry, store *cache.Store, resolver downloader.Resolver, ffmpegPath string) *Streamer {
	if ffmpegPath == "" {
		ffmpegPath = "ffmpeg"
	}
	return &Streamer{
		dg:       dg,
		registry: registry,
		store:    store,
		resolver: resolver,
		ffmpeg:   ffmpegPath,
	}
}

// SetAnnouncer wires an optional now-playing announcer.
func (st *Streamer) SetAnnouncer(a Announcer) {
	st.announcer = a
}

// CanExecute reports whether at least one guild session is ready to
// advance. Pure predicate over the registry; safe to call at high
// frequency from the host loop.
func (st *Streamer) CanExecute() bool {
	for _, sess := range st.registry.All() {
		if sess.Ready() {
			return true
		}
	}
	return false
}

// Execute performs exactly one unit of work: it picks the session that
// became ready first, dequeues its head track, makes sure the audio asset
// is cached, and streams it until track end, skip, pause, or cancellation.
// It never pulls a second track in the same call; control returns to the
// host loop so other guilds get their turn.
func (st *Streamer) Execute(ctx context.Context) error {
	sess := st.pickReady()
	if sess == nil {
		return nil
	}
	if !sess.BeginStream() {
		// Lost the race against another tick; at most one stream per
		// session, so just yield.
		return nil
	}
	defer sess.EndStream()

	current, ok := sess.DequeueNext()
	if !ok {
		return nil
	}

	path, err := st.ensureCached(ctx, current)
	if err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		// The track is dropped, never requeued; the session goes back to
		// ready (queue permitting) on the next tick.
		log.Printf("Dropping track %q for guild %s: %v", current.Title, sess.GuildID(), err)
		st.reportError(sess, current, err)
		return nil
	}

	result, err := st.streamTrack(ctx, sess, current, path)
	if err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		log.Printf("Stream failed for %q in guild %s: %v", current.Title, sess.GuildID(), err)
		st.reportError(sess, current, err)
		return nil
	}

	st.finishStream(sess, current, result)
	return nil
}

// finishStream settles the session after a stream step ends early.
func (st *Streamer) finishStream(sess *session.Session, current track.Track, result streamResult) {
	switch result {
	case streamPaused:
		// Re-enqueue at the head so resume restarts the same track.
		sess.EnqueueNext(current)
	case streamDisconnected:
		// Keep the track and halt the session; rejoin attempts against a
		// dead connection would just drain the queue with errors.
		log.Printf("Voice connection lost in guild %s, pausing playback", sess.GuildID())
		sess.EnqueueNext(current)
		sess.Pause()
	}
}

// pickReady selects the ready session with the earliest became-ready
// timestamp, so guilds advance in FIFO order and none starves.
func (st *Streamer) pickReady() *session.Session {
	var (
		picked *session.Session
	)
	for _, sess := range st.registry.All() {
		if !sess.Ready() {
			continue
		}
		since := sess.ReadySince()
		if since.IsZero() {
			continue
		}
		if picked == nil || since.Before(picked.ReadySince()) {
			picked = sess
		}
	}
	return picked
}

// ensureCached returns the on-disk asset path for a track, downloading it
// through the cache's single-flight when absent.
func (st *Streamer) ensureCached(ctx context.Context, t track.Track) (string, error) {
	if path, err := st.store.GetTrackFile(t); err == nil {
		return path, nil
	} else if !errors.Is(err, cache.ErrAssetNotFound) {
		return "", err
	}

	key := track.Key(t.Source)
	return st.store.EnsureTrackFile(key, func() (*track.Updated, error) {
		updated, ok, err := st.resolver.TryDownload(ctx, t)
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, errors.Errorf("no audio could be downloaded for %q", t.Title)
		}
		return updated, nil
	})
}

// reportError tells the guild's text channel that a track was dropped.
func (st *Streamer) reportError(sess *session.Session, t track.Track, cause error) {
	channelID := sess.TextChannel()
	if st.dg == nil || channelID == "" {
		return
	}
	embed := &discordgo.MessageEmbed{
		Title:       "❌ Track Skipped",
		Description: "Could not play **" + t.Title + "**: " + cause.Error(),
		Color:       0xff0000,
	}
	if _, err := st.dg.ChannelMessageSendEmbed(channelID, embed); err != nil {
		log.Printf("Failed to report track error to channel %s: %v", channelID, err)
	}
}
