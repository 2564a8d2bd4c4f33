package commands

import (
	"fmt"
	"time"

	"github.com/bwmarrin/discordgo"
)

// Help lists every command.
func (c *Commands) Help(s *discordgo.Session, m *discordgo.MessageCreate, args []string) {
	p := c.Config.CommandPrefix

	embed := &discordgo.MessageEmbed{
		Title:       "📖 Commands",
		Description: "Here's everything I can do:",
		Color:       0x7289da,
		Timestamp:   time.Now().Format(time.RFC3339),
		Footer: &discordgo.MessageEmbedFooter{
			Text: embedFooter,
		},
		Fields: []*discordgo.MessageEmbedField{
			{
				Name: "🎵 Playback",
				Value: fmt.Sprintf(
					"`%splay <url or search>` - queue a song or playlist\n"+
						"`%splaynext <url or search>` - queue a song to play next\n"+
						"`%sskip` - skip the current song\n"+
						"`%sskipto <position>` - jump to a queue position\n"+
						"`%spause` / `%sresume` - pause or resume playback\n"+
						"`%sstop` - stop playback and leave",
					p, p, p, p, p, p, p),
				Inline: false,
			},
			{
				Name: "📋 Queue",
				Value: fmt.Sprintf(
					"`%squeue` - show the queue\n"+
						"`%snowplaying` - show the current song\n"+
						"`%sshuffle` - shuffle the queue\n"+
						"`%sclear` - clear the queue",
					p, p, p, p),
				Inline: false,
			},
			{
				Name: "🔧 Misc",
				Value: fmt.Sprintf(
					"`%slyrics [title - artist]` - look up lyrics\n"+
						"`%skeepplaying on|off` - keep playing in an empty channel\n"+
						"`%scache [clear]` - show or clear the audio cache\n"+
						"`%sleave` - disconnect from voice",
					p, p, p, p),
				Inline: false,
			},
		},
	}
	s.ChannelMessageSendEmbed(m.ChannelID, embed)
}
