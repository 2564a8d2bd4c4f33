package commands

import (
	"fmt"
	"time"

	"github.com/bwmarrin/discordgo"
)

// Shuffle randomizes the queue order.
func (c *Commands) Shuffle(s *discordgo.Session, m *discordgo.MessageCreate, args []string) {
	sess := c.Registry.Get(m.GuildID)
	if sess == nil {
		sendEmbedMessage(s, m.ChannelID, "❌ Error", "No queue found for this server.", 0xff0000)
		return
	}

	queueSize := sess.QueueCount()
	if queueSize < 2 {
		sendEmbedMessage(s, m.ChannelID, "📭 Not Enough Songs", "Need at least 2 songs to shuffle the queue.", 0x808080)
		return
	}

	sess.Shuffle()

	embed := &discordgo.MessageEmbed{
		Title:     "🔀 Queue Shuffled",
		Color:     0x00ff00,
		Timestamp: time.Now().Format(time.RFC3339),
		Footer: &discordgo.MessageEmbedFooter{
			Text: embedFooter,
		},
		Description: "The queue has been shuffled!",
		Fields: []*discordgo.MessageEmbedField{
			{
				Name:   "Songs Shuffled",
				Value:  fmt.Sprintf("%d songs", queueSize),
				Inline: true,
			},
			{
				Name:   "Shuffled By",
				Value:  m.Author.Username,
				Inline: true,
			},
		},
	}

	if next, ok := sess.PeekNext(); ok {
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
			Name:   "🎵 New Top Song",
			Value:  fmt.Sprintf("**%s**", next.Title),
			Inline: false,
		})
	}

	s.ChannelMessageSendEmbed(m.ChannelID, embed)
}
