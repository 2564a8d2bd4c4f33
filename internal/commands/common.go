package commands

import (
	"fmt"
	"time"

	"github.com/bwmarrin/discordgo"

	"github.com/latoulicious/Seiun/internal/config"
	"github.com/latoulicious/Seiun/pkg/cache"
	"github.com/latoulicious/Seiun/pkg/downloader"
	"github.com/latoulicious/Seiun/pkg/lyrics"
	"github.com/latoulicious/Seiun/pkg/session"
	"github.com/latoulicious/Seiun/pkg/streamer"
)

const embedFooter = "Seiun Sky"

// Commands bundles every dependency the command handlers need. There is
// no package-level state: the registry, cache, and streamer are owned by
// main and passed in here.
type Commands struct {
	Registry   *session.Registry
	Store      *cache.Store
	Downloader downloader.Resolver
	Streamer   *streamer.Streamer
	Lyrics     *lyrics.Client
	Config     *config.Config
}

// New wires up the command set.
func New(registry *session.Registry, store *cache.Store, dl downloader.Resolver, st *streamer.Streamer, ly *lyrics.Client, cfg *config.Config) *Commands {
	return &Commands{
		Registry:   registry,
		Store:      store,
		Downloader: dl,
		Streamer:   st,
		Lyrics:     ly,
		Config:     cfg,
	}
}

// sendEmbedMessage sends a simple titled embed to a channel.
func sendEmbedMessage(s *discordgo.Session, channelID, title, description string, color int) {
	embed := &discordgo.MessageEmbed{
		Title:       title,
		Description: description,
		Color:       color,
		Timestamp:   time.Now().Format(time.RFC3339),
		Footer: &discordgo.MessageEmbedFooter{
			Text: embedFooter,
		},
	}
	s.ChannelMessageSendEmbed(channelID, embed)
}

// findUserVoiceChannel returns the voice channel the user currently sits
// in, or "" when they are not in voice.
func findUserVoiceChannel(s *discordgo.Session, guildID, userID string) string {
	guild, err := s.State.Guild(guildID)
	if err != nil {
		return ""
	}
	for _, vs := range guild.VoiceStates {
		if vs.UserID == userID {
			return vs.ChannelID
		}
	}
	return ""
}

// formatDuration renders a track duration as m:ss or h:mm:ss.
func formatDuration(d time.Duration) string {
	if d <= 0 {
		return "?:??"
	}
	total := int(d.Seconds())
	hours := total / 3600
	minutes := (total % 3600) / 60
	seconds := total % 60
	if hours > 0 {
		return fmt.Sprintf("%d:%02d:%02d", hours, minutes, seconds)
	}
	return fmt.Sprintf("%d:%02d", minutes, seconds)
}
