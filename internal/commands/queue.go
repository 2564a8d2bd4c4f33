package commands

import (
	"fmt"
	"strings"
	"time"

	"github.com/bwmarrin/discordgo"
)

// Queue shows the queued tracks with their positions and durations.
func (c *Commands) Queue(s *discordgo.Session, m *discordgo.MessageCreate, args []string) {
	sess := c.Registry.Get(m.GuildID)
	if sess == nil {
		sendEmbedMessage(s, m.ChannelID, "📭 Queue Empty", "No songs in the queue. Use `"+c.Config.CommandPrefix+"play` to add some!", 0x808080)
		return
	}

	tracks := sess.QueueSnapshot()
	current, startedAt, playing := sess.NowPlaying()

	if len(tracks) == 0 && !playing {
		sendEmbedMessage(s, m.ChannelID, "📭 Queue Empty", "No songs in the queue. Use `"+c.Config.CommandPrefix+"play` to add some!", 0x808080)
		return
	}

	var sb strings.Builder
	if playing {
		elapsed := time.Since(startedAt).Round(time.Second)
		fmt.Fprintf(&sb, "**Now Playing:** %s (%s / %s)\n\n", current.Title, formatDuration(elapsed), formatDuration(current.Duration))
	}

	// Cap the listing; huge queues would blow the embed limit.
	const maxListed = 15
	for i, t := range tracks {
		if i >= maxListed {
			fmt.Fprintf(&sb, "...and %d more\n", len(tracks)-maxListed)
			break
		}
		fmt.Fprintf(&sb, "`%2d.` **%s** (%s)\n", i+1, t.Title, formatDuration(t.Duration))
	}

	embed := &discordgo.MessageEmbed{
		Title:       "🎶 Queue",
		Description: sb.String(),
		Color:       0x7289da,
		Timestamp:   time.Now().Format(time.RFC3339),
		Footer: &discordgo.MessageEmbedFooter{
			Text: fmt.Sprintf("%s | %d queued", embedFooter, len(tracks)),
		},
	}
	s.ChannelMessageSendEmbed(m.ChannelID, embed)
}

// Clear empties the guild queue without touching the current track.
func (c *Commands) Clear(s *discordgo.Session, m *discordgo.MessageCreate, args []string) {
	sess := c.Registry.Get(m.GuildID)
	if sess == nil || sess.QueueCount() == 0 {
		sendEmbedMessage(s, m.ChannelID, "📭 Queue Already Empty", "The queue is already empty.", 0x808080)
		return
	}

	dropped := sess.QueueCount()
	sess.ClearQueue()
	sendEmbedMessage(s, m.ChannelID, "🗑️ Queue Cleared", fmt.Sprintf("Removed %d songs from the queue.", dropped), 0x00ff00)
}
