package commands

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/bwmarrin/discordgo"
)

// PlayNext is Play, except the resolved tracks jump the queue. A resolved
// batch keeps its own order at the head.
func (c *Commands) PlayNext(s *discordgo.Session, m *discordgo.MessageCreate, args []string) {
	if len(args) < 1 {
		sendEmbedMessage(s, m.ChannelID, "❌ Usage Error", "Please provide a URL or search query.", 0xff0000)
		return
	}

	voiceChannel := findUserVoiceChannel(s, m.GuildID, m.Author.ID)
	if voiceChannel == "" {
		sendEmbedMessage(s, m.ChannelID, "❌ Error", "You must be in a voice channel to play music.", 0xff0000)
		return
	}

	argument := strings.Join(args, " ")
	tracks, ok, err := c.resolveTracks(context.Background(), argument)
	if err != nil {
		log.Printf("Resolver infrastructure failure for %q: %v", argument, err)
		sendEmbedMessage(s, m.ChannelID, "❌ Error", "The resolver is unavailable right now. Try again later.", 0xff0000)
		return
	}
	if !ok || len(tracks) == 0 {
		sendEmbedMessage(s, m.ChannelID, "❌ Not Found", "Couldn't resolve anything from that.", 0xff0000)
		return
	}

	sess := c.Registry.GetOrCreate(m.GuildID)
	sess.BindChannels(voiceChannel, m.ChannelID)
	sess.EnqueueNext(tracks...)
	sess.SetListen(true)
	sess.SetListeners(true)

	description := fmt.Sprintf("⏭️ **%s** will play next", tracks[0].Title)
	if len(tracks) > 1 {
		description = fmt.Sprintf("⏭️ **%d tracks** will play next", len(tracks))
	}
	sendEmbedMessage(s, m.ChannelID, "🎵 Up Next", description, 0x00ff00)
}
