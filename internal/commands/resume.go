package commands

import (
	"github.com/bwmarrin/discordgo"
)

// Resume clears the pause flag; the host loop restarts the re-enqueued
// track on its next tick.
func (c *Commands) Resume(s *discordgo.Session, m *discordgo.MessageCreate, args []string) {
	sess := c.Registry.Get(m.GuildID)
	if sess == nil {
		sendEmbedMessage(s, m.ChannelID, "❌ Error", "Nothing is playing.", 0xff0000)
		return
	}
	if !sess.IsPaused() {
		sendEmbedMessage(s, m.ChannelID, "❌ Error", "Playback is not paused.", 0xff0000)
		return
	}

	sess.Resume()
	sendEmbedMessage(s, m.ChannelID, "▶️ Playback Resumed", "Music playback has been resumed.", 0x00ff00)
}
