package session

import (
	"sync"
	"time"

	"github.com/latoulicious/Seiun/pkg/queue"
	"github.com/latoulicious/Seiun/pkg/track"
)

// Session holds the per-guild playback state: the track queue, the
// playback flags, and the bound channels. All access goes through the
// session lock, since command handlers and the streamer mutate concurrently.
type Session struct {
	guildID string

	mu           sync.Mutex
	listen       bool // whether the bot should auto-join and stream
	paused       bool
	playOnFreeze bool // keep playing when nobody is listening
	hasListeners bool
	streaming    bool // a stream step is currently active for this session

	voiceChannelID string
	textChannelID  string

	queue      *queue.Queue[track.Track]
	readySince time.Time

	nowPlaying   *track.Track
	playbackFrom time.Time

	skip chan struct{}
}

func newSession(guildID string, playOnFreeze bool) *Session {
	return &Session{
		guildID:      guildID,
		playOnFreeze: playOnFreeze,
		hasListeners: true, // assume listeners until voice events say otherwise
		queue:        queue.New[track.Track](),
		skip:         make(chan struct{}, 1),
	}
}

// GuildID returns the guild this session belongs to.
func (s *Session) GuildID() string {
	return s.guildID
}

// Enqueue appends tracks to the back of the queue.
func (s *Session) Enqueue(tracks ...track.Track) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, t := range tracks {
		s.queue.EnqueueLast(t)
	}
	s.refreshReadyLocked()
}

// EnqueueNext inserts tracks at the head of the queue, preserving the
// given order (the batch is walked in reverse so the first track of the
// batch plays first).
func (s *Session) EnqueueNext(tracks ...track.Track) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := len(tracks) - 1; i >= 0; i-- {
		s.queue.EnqueueFirst(tracks[i])
	}
	s.refreshReadyLocked()
}

// DequeueNext removes and returns the head of the queue.
func (s *Session) DequeueNext() (track.Track, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.queue.TryDequeue()
	s.refreshReadyLocked()
	return t, ok
}

// PeekNext returns the head of the queue without removing it.
func (s *Session) PeekNext() (track.Track, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.queue.TryPeek()
}

// SkipTo drops queued tracks before position i. Out-of-range indices are
// a no-op.
func (s *Session) SkipTo(i int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.queue.SkipTo(i)
	s.refreshReadyLocked()
}

// Shuffle randomizes the queue order.
func (s *Session) Shuffle() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.queue.Shuffle()
}

// QueueSnapshot returns the queued tracks in current order.
func (s *Session) QueueSnapshot() []track.Track {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.queue.GetAll()
}

// QueueCount returns the number of queued tracks.
func (s *Session) QueueCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.queue.Count()
}

// ClearQueue drops every queued track.
func (s *Session) ClearQueue() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.queue.Clear()
	s.refreshReadyLocked()
}

// SetListen enables or disables streaming for this session.
func (s *Session) SetListen(listen bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listen = listen
	s.refreshReadyLocked()
}

// Pause pauses playback. The streamer ends the current stream step and
// re-enqueues the active track so resume restarts it.
func (s *Session) Pause() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.paused = true
	s.refreshReadyLocked()
}

// Resume clears the paused flag.
func (s *Session) Resume() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.paused = false
	s.refreshReadyLocked()
}

// IsPaused reports whether playback is paused.
func (s *Session) IsPaused() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.paused
}

// SetPlayOnFreeze controls whether playback continues when the bot is
// alone in the voice channel.
func (s *Session) SetPlayOnFreeze(v bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.playOnFreeze = v
	s.refreshReadyLocked()
}

// PlayOnFreeze reports the freeze behavior.
func (s *Session) PlayOnFreeze() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.playOnFreeze
}

// SetListeners records whether any human is in the bound voice channel.
func (s *Session) SetListeners(present bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.hasListeners = present
	s.refreshReadyLocked()
}

// BindChannels records the voice channel to stream into and the text
// channel for status messages.
func (s *Session) BindChannels(voiceChannelID, textChannelID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.voiceChannelID = voiceChannelID
	if textChannelID != "" {
		s.textChannelID = textChannelID
	}
	s.refreshReadyLocked()
}

// RebindVoiceChannel updates only the voice channel (bot moved).
func (s *Session) RebindVoiceChannel(channelID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.voiceChannelID = channelID
}

// VoiceChannel returns the bound voice channel id.
func (s *Session) VoiceChannel() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.voiceChannelID
}

// TextChannel returns the bound text channel id.
func (s *Session) TextChannel() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.textChannelID
}

// Skip asks the streamer to abandon the current track. Non-blocking; a
// second skip while one is pending is coalesced.
func (s *Session) Skip() {
	select {
	case s.skip <- struct{}{}:
	default:
	}
}

// SkipRequests exposes the skip signal channel to the streamer.
func (s *Session) SkipRequests() <-chan struct{} {
	return s.skip
}

// DrainSkip discards a stale skip request, if any.
func (s *Session) DrainSkip() {
	select {
	case <-s.skip:
	default:
	}
}

// BeginStream marks the session as actively streaming. It returns false
// when another stream step is already running; at most one stream per
// session at any time.
func (s *Session) BeginStream() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.streaming {
		return false
	}
	s.streaming = true
	s.refreshReadyLocked()
	return true
}

// EndStream marks the stream step as finished.
func (s *Session) EndStream() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.streaming = false
	s.refreshReadyLocked()
}

// SetNowPlaying records the track the streamer started piping.
func (s *Session) SetNowPlaying(t track.Track) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nowPlaying = &t
	s.playbackFrom = time.Now()
}

// ClearNowPlaying clears the current-track record.
func (s *Session) ClearNowPlaying() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nowPlaying = nil
	s.playbackFrom = time.Time{}
}

// NowPlaying returns the currently streaming track and when it started.
// The bool return is false when nothing is streaming.
func (s *Session) NowPlaying() (track.Track, time.Time, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.nowPlaying == nil {
		return track.Track{}, time.Time{}, false
	}
	return *s.nowPlaying, s.playbackFrom, true
}

// IsStreaming reports whether a stream step is active.
func (s *Session) IsStreaming() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.streaming
}

// Ready reports whether the scheduler may legally advance this session:
// listening enabled, not paused, not mid-stream, queue non-empty, and
// either someone is listening or the session plays through silence.
func (s *Session) Ready() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.readyLocked()
}

// ReadySince returns when the session last became ready. Zero when the
// session is not ready. The streamer uses this for FIFO fairness across
// guilds.
func (s *Session) ReadySince() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.readySince
}

func (s *Session) readyLocked() bool {
	return s.listen &&
		!s.paused &&
		!s.streaming &&
		s.queue.Count() > 0 &&
		s.voiceChannelID != "" &&
		(s.hasListeners || s.playOnFreeze)
}

// refreshReadyLocked keeps the became-ready timestamp in sync with the
// ready predicate. Called after every mutation, under the session lock.
func (s *Session) refreshReadyLocked() {
	if s.readyLocked() {
		if s.readySince.IsZero() {
			s.readySince = time.Now()
		}
	} else {
		s.readySince = time.Time{}
	}
}
