package commands

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/bwmarrin/discordgo"
)

// Lyrics looks up lyrics for the current track, or for an explicit
// "title - artist" query when arguments are given.
func (c *Commands) LyricsCmd(s *discordgo.Session, m *discordgo.MessageCreate, args []string) {
	var title, artist string

	if len(args) > 0 {
		query := strings.Join(args, " ")
		if idx := strings.Index(query, " - "); idx > 0 {
			title = strings.TrimSpace(query[:idx])
			artist = strings.TrimSpace(query[idx+3:])
		} else {
			title = query
		}
	} else {
		sess := c.Registry.Get(m.GuildID)
		if sess == nil {
			sendEmbedMessage(s, m.ChannelID, "❌ Error", "Nothing is playing. Try `"+c.Config.CommandPrefix+"lyrics <title> - <artist>`.", 0xff0000)
			return
		}
		current, _, playing := sess.NowPlaying()
		if !playing {
			sendEmbedMessage(s, m.ChannelID, "❌ Error", "Nothing is playing. Try `"+c.Config.CommandPrefix+"lyrics <title> - <artist>`.", 0xff0000)
			return
		}
		title = current.Title
		artist = current.Author
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	result := c.Lyrics.Search(ctx, title, artist)
	if !result.Found {
		sendEmbedMessage(s, m.ChannelID, "🔍 No Lyrics Found",
			fmt.Sprintf("Couldn't find lyrics for **%s**.", title), 0x808080)
		return
	}

	embed := &discordgo.MessageEmbed{
		Title:       fmt.Sprintf("📜 %s", result.Title),
		Description: result.Lyrics,
		Color:       0x7289da,
		Timestamp:   time.Now().Format(time.RFC3339),
		Footer: &discordgo.MessageEmbedFooter{
			Text: fmt.Sprintf("%s | via %s", embedFooter, result.Source),
		},
	}
	if result.Artist != "" {
		embed.Author = &discordgo.MessageEmbedAuthor{Name: result.Artist}
	}
	if result.URL != "" {
		embed.URL = result.URL
	}
	s.ChannelMessageSendEmbed(m.ChannelID, embed)
}
