package commands

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/bwmarrin/discordgo"
)

// Play resolves the argument (URL, search query, or playlist link) and
// appends the resulting tracks to the guild queue. The host loop picks
// the session up on its next tick.
func (c *Commands) Play(s *discordgo.Session, m *discordgo.MessageCreate, args []string) {
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
		sendEmbedMessage(s, m.ChannelID, "❌ Not Found", "Couldn't resolve anything from that. Check the link or try a different search.", 0xff0000)
		return
	}

	sess := c.Registry.GetOrCreate(m.GuildID)
	sess.BindChannels(voiceChannel, m.ChannelID)
	sess.Enqueue(tracks...)
	sess.SetListen(true)
	sess.SetListeners(true) // the requester is in the channel

	if len(tracks) == 1 {
		description := fmt.Sprintf("✅ Added **%s** to queue (Position: %d)", tracks[0].Title, sess.QueueCount())
		sendEmbedMessage(s, m.ChannelID, "🎵 Song Added", description, 0x00ff00)
	} else {
		description := fmt.Sprintf("✅ Added **%d tracks** to queue", len(tracks))
		sendEmbedMessage(s, m.ChannelID, "🎵 Playlist Added", description, 0x00ff00)
	}
}
