package streamer

import (
	"testing"
	"time"

	"github.com/latoulicious/Seiun/pkg/session"
	"github.com/latoulicious/Seiun/pkg/track"
)

func newTestStreamer(registry *session.Registry) *Streamer {
	return New(nil, registry, nil, nil, "")
}

func enqueueReady(registry *session.Registry, guildID string) *session.Session {
	sess := registry.GetOrCreate(guildID)
	sess.BindChannels("voice", "text")
	sess.SetListen(true)
	sess.Enqueue(track.NewTrack("song", "author", "https://example.com/"+guildID, 0))
	return sess
}

func TestCanExecuteFalseOnIdleSessions(t *testing.T) {
	registry := session.NewRegistry(false)
	st := newTestStreamer(registry)

	if st.CanExecute() {
		t.Error("empty registry must not be executable")
	}

	// A session with a queue but paused, and one listening with nothing
	// queued: still nothing to do.
	paused := enqueueReady(registry, "paused-guild")
	paused.Pause()
	idle := registry.GetOrCreate("idle-guild")
	idle.SetListen(true)
	idle.BindChannels("voice", "text")

	if st.CanExecute() {
		t.Error("all-idle/paused session set must not be executable")
	}
}

func TestCanExecuteFlipsWhenSessionBecomesReady(t *testing.T) {
	registry := session.NewRegistry(false)
	st := newTestStreamer(registry)

	sess := registry.GetOrCreate("guild")
	sess.BindChannels("voice", "text")
	sess.SetListen(true)
	if st.CanExecute() {
		t.Fatal("no queued tracks yet")
	}

	sess.Enqueue(track.NewTrack("song", "", "https://example.com/x", 0))
	if !st.CanExecute() {
		t.Error("CanExecute should be true the instant a session is ready")
	}

	sess.Pause()
	if st.CanExecute() {
		t.Error("pausing the only ready session should make CanExecute false")
	}
}

func TestPickReadyIsFIFOAcrossGuilds(t *testing.T) {
	registry := session.NewRegistry(false)
	st := newTestStreamer(registry)

	first := enqueueReady(registry, "first")
	time.Sleep(2 * time.Millisecond)
	enqueueReady(registry, "second")

	picked := st.pickReady()
	if picked == nil {
		t.Fatal("expected a ready session")
	}
	if picked.GuildID() != first.GuildID() {
		t.Errorf("expected earliest-ready guild %q, picked %q", first.GuildID(), picked.GuildID())
	}

	// Once the first guild is mid-stream, the second takes its turn.
	first.BeginStream()
	picked = st.pickReady()
	if picked == nil || picked.GuildID() != "second" {
		t.Errorf("expected guild second while first is streaming, picked %v", picked)
	}
}
