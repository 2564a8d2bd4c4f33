package streamer

import (
	"context"
	"io"
	"log"
	"os/exec"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/pkg/errors"
	"layeh.com/gopus"

	"github.com/latoulicious/Seiun/pkg/session"
	"github.com/latoulicious/Seiun/pkg/track"
)

// streamResult tells Execute why a stream step ended.
type streamResult int

const (
	streamFinished streamResult = iota // track played to the end
	streamSkipped
	streamPaused
	streamCancelled
	streamDisconnected // voice connection died mid-stream
)

const (
	sampleRate  = 48000
	channels    = 2
	frameSize   = 960                           // 20ms at 48kHz
	pcmFrameLen = frameSize * channels * 2      // bytes per PCM frame
	maxOpusLen  = 4000                          // upper bound for one opus packet

	// maxSendStalls is how many consecutive undelivered frames we accept
	// before declaring the voice connection dead. Nothing drains OpusSend
	// on a dead connection, so without this cap a dropped connection
	// turns every remaining frame into a full stall timeout.
	maxSendStalls = 3
)

// streamTrack pipes a cached asset into the guild's voice channel. It
// returns when the track ends, a skip or pause is requested, or the
// context is cancelled. The ffmpeg process never outlives the call.
func (st *Streamer) streamTrack(ctx context.Context, sess *session.Session, t track.Track, assetPath string) (streamResult, error) {
	vc, err := st.joinVoice(sess)
	if err != nil {
		return streamFinished, err
	}

	encoder, err := gopus.NewEncoder(sampleRate, channels, gopus.Audio)
	if err != nil {
		return streamFinished, errors.Wrap(err, "failed to create opus encoder")
	}
	encoder.SetBitrate(128000)

	cmd := exec.CommandContext(ctx, st.ffmpeg,
		"-i", assetPath,
		"-f", "s16le",
		"-acodec", "pcm_s16le",
		"-ar", "48000",
		"-ac", "2",
		"pipe:1")

	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return streamFinished, errors.Wrap(err, "failed to open ffmpeg stdout")
	}
	if err := cmd.Start(); err != nil {
		return streamFinished, errors.Wrap(err, "failed to start ffmpeg")
	}
	defer func() {
		if cmd.Process != nil {
			cmd.Process.Kill()
		}
		cmd.Wait()
	}()

	// A stale skip from a previous track must not kill this one.
	sess.DrainSkip()

	vc.Speaking(true)
	defer vc.Speaking(false)

	sess.SetNowPlaying(t)
	defer sess.ClearNowPlaying()

	if st.announcer != nil {
		st.announcer.NowPlaying(t.Title)
		defer st.announcer.ClearNowPlaying()
	}

	log.Printf("Streaming %q to guild %s", t.Title, sess.GuildID())

	buffer := make([]byte, pcmFrameLen)
	stalls := 0
	for {
		select {
		case <-ctx.Done():
			return streamCancelled, nil
		case <-sess.SkipRequests():
			log.Printf("Skip requested for %q in guild %s", t.Title, sess.GuildID())
			return streamSkipped, nil
		default:
		}

		if !vc.Ready {
			log.Printf("Voice connection dropped mid-stream in guild %s", sess.GuildID())
			return streamDisconnected, nil
		}

		if sess.IsPaused() {
			log.Printf("Pause requested for %q in guild %s", t.Title, sess.GuildID())
			return streamPaused, nil
		}

		n, err := io.ReadFull(stdout, buffer)
		if err != nil {
			if err == io.EOF || err == io.ErrUnexpectedEOF {
				return streamFinished, nil
			}
			return streamFinished, errors.Wrap(err, "error reading PCM data")
		}

		opusFrame, err := encoder.Encode(bytesToInt16(buffer[:n]), frameSize, maxOpusLen)
		if err != nil {
			log.Printf("Opus encoding error: %v", err)
			continue
		}

		select {
		case vc.OpusSend <- opusFrame:
			stalls = 0
		case <-ctx.Done():
			return streamCancelled, nil
		case <-time.After(time.Second):
			stalls++
			log.Printf("Voice send stalled for guild %s, dropping frame", sess.GuildID())
			if stalls >= maxSendStalls {
				log.Printf("Voice connection for guild %s is not draining, ending stream", sess.GuildID())
				return streamDisconnected, nil
			}
		}
	}
}

// joinVoice joins (or reuses) the voice connection for the session's
// bound channel and waits for it to come up.
func (st *Streamer) joinVoice(sess *session.Session) (*discordgo.VoiceConnection, error) {
	channelID := sess.VoiceChannel()
	if channelID == "" {
		return nil, errors.New("no voice channel bound for this session")
	}

	if existing, ok := st.dg.VoiceConnections[sess.GuildID()]; ok && existing.ChannelID == channelID && existing.Ready {
		return existing, nil
	}

	vc, err := st.dg.ChannelVoiceJoin(sess.GuildID(), channelID, false, true)
	if err != nil {
		return nil, errors.Wrap(err, "failed to join voice channel")
	}

	timeout := time.After(10 * time.Second)
	ticker := time.NewTicker(100 * time.Millisecond)
	defer ticker.Stop()
	for {
		select {
		case <-timeout:
			vc.Disconnect()
			return nil, errors.New("voice connection timed out")
		case <-ticker.C:
			if vc.Ready {
				return vc, nil
			}
		}
	}
}

// Disconnect tears down the guild's voice connection, if any.
func (st *Streamer) Disconnect(guildID string) {
	if vc, ok := st.dg.VoiceConnections[guildID]; ok {
		vc.Disconnect()
		log.Printf("Disconnected from voice in guild %s", guildID)
	}
}

func bytesToInt16(data []byte) []int16 {
	samples := make([]int16, len(data)/2)
	for i := range samples {
		samples[i] = int16(data[i*2]) | int16(data[i*2+1])<<8
	}
	return samples
}
