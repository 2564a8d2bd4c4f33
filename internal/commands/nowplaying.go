package commands

import (
	"fmt"
	"time"

	"github.com/bwmarrin/discordgo"
)

// NowPlaying shows the track currently being streamed with elapsed time.
func (c *Commands) NowPlaying(s *discordgo.Session, m *discordgo.MessageCreate, args []string) {
	sess := c.Registry.Get(m.GuildID)
	if sess == nil {
		sendEmbedMessage(s, m.ChannelID, "❌ Error", "Nothing is playing.", 0xff0000)
		return
	}

	current, startedAt, playing := sess.NowPlaying()
	if !playing {
		sendEmbedMessage(s, m.ChannelID, "❌ Error", "Nothing is playing.", 0xff0000)
		return
	}

	elapsed := time.Since(startedAt).Round(time.Second)
	embed := &discordgo.MessageEmbed{
		Title:       "🎵 Now Playing",
		Description: fmt.Sprintf("**%s**", current.Title),
		Color:       0x7289da,
		Timestamp:   time.Now().Format(time.RFC3339),
		Footer: &discordgo.MessageEmbedFooter{
			Text: embedFooter,
		},
		Fields: []*discordgo.MessageEmbedField{
			{
				Name:   "Artist",
				Value:  orUnknown(current.Author),
				Inline: true,
			},
			{
				Name:   "Progress",
				Value:  fmt.Sprintf("%s / %s", formatDuration(elapsed), formatDuration(current.Duration)),
				Inline: true,
			},
			{
				Name:   "Up Next",
				Value:  fmt.Sprintf("%d songs queued", sess.QueueCount()),
				Inline: true,
			},
		},
	}
	s.ChannelMessageSendEmbed(m.ChannelID, embed)
}

func orUnknown(v string) string {
	if v == "" {
		return "Unknown"
	}
	return v
}
