package commands

import (
	"github.com/bwmarrin/discordgo"
)

// Pause halts playback. The current track goes back to the head of the
// queue; resume restarts it from the top.
func (c *Commands) Pause(s *discordgo.Session, m *discordgo.MessageCreate, args []string) {
	sess := c.Registry.Get(m.GuildID)
	if sess == nil {
		sendEmbedMessage(s, m.ChannelID, "❌ Error", "Nothing is playing.", 0xff0000)
		return
	}
	if sess.IsPaused() {
		sendEmbedMessage(s, m.ChannelID, "❌ Error", "Playback is already paused.", 0xff0000)
		return
	}

	sess.Pause()
	sendEmbedMessage(s, m.ChannelID, "⏸️ Playback Paused", "Music playback has been paused.", 0xffa500)
}
