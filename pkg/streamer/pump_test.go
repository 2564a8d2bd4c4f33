package streamer

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/bwmarrin/discordgo"

	"github.com/latoulicious/Seiun/pkg/session"
	"github.com/latoulicious/Seiun/pkg/track"
)

// fakePCMSource writes a stand-in decoder script that ignores its
// arguments and emits the given number of silent PCM frames on stdout.
func fakePCMSource(t *testing.T, frames int) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "ffmpeg")
	script := fmt.Sprintf("#!/bin/sh\nhead -c %d /dev/zero\n", frames*pcmFrameLen)
	if err := os.WriteFile(path, []byte(script), 0o755); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestStreamTrackEndsWhenVoiceConnectionStopsDraining(t *testing.T) {
	registry := session.NewRegistry(false)
	sess := registry.GetOrCreate("g")
	sess.BindChannels("voice", "text")

	// A connection nobody reads from: once the channel buffer fills,
	// every frame waits out the full send timeout.
	vc := &discordgo.VoiceConnection{
		GuildID:   "g",
		ChannelID: "voice",
		Ready:     true,
		OpusSend:  make(chan []byte, 2),
	}
	dg := &discordgo.Session{VoiceConnections: map[string]*discordgo.VoiceConnection{"g": vc}}

	st := New(dg, registry, nil, nil, fakePCMSource(t, 100))

	start := time.Now()
	result, err := st.streamTrack(context.Background(), sess,
		track.NewTrack("song", "", "https://example.com/x", 0), "unused")
	if err != nil {
		t.Fatalf("streamTrack: %v", err)
	}
	if result != streamDisconnected {
		t.Fatalf("result = %d, want streamDisconnected", result)
	}
	// 100 undelivered frames at a second each would run for well over a
	// minute; the stall cap must end the step after a few seconds.
	if elapsed := time.Since(start); elapsed > 10*time.Second {
		t.Fatalf("took %v to notice the dead connection", elapsed)
	}
}

func TestExecuteKeepsTrackAndPausesOnDisconnect(t *testing.T) {
	registry := session.NewRegistry(false)
	sess := registry.GetOrCreate("g")
	sess.BindChannels("voice", "text")
	sess.SetListen(true)
	sess.Enqueue(track.NewTrack("song", "", "https://example.com/x", 0))
	sess.BeginStream()
	defer sess.EndStream()

	st := newTestStreamer(registry)
	current, _ := sess.DequeueNext()

	st.finishStream(sess, current, streamDisconnected)

	if !sess.IsPaused() {
		t.Error("disconnect must pause the session")
	}
	head, ok := sess.PeekNext()
	if !ok || head.Source != current.Source {
		t.Errorf("interrupted track must stay at the queue head, got %v (ok=%v)", head, ok)
	}
}
