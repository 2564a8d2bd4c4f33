package commands

import (
	"github.com/bwmarrin/discordgo"
)

// Skip abandons the currently streaming track. The next queued track
// starts on the following scheduler tick.
func (c *Commands) Skip(s *discordgo.Session, m *discordgo.MessageCreate, args []string) {
	sess := c.Registry.Get(m.GuildID)
	if sess == nil || !sess.IsStreaming() {
		sendEmbedMessage(s, m.ChannelID, "❌ Error", "Nothing is playing.", 0xff0000)
		return
	}

	sess.Skip()
	sendEmbedMessage(s, m.ChannelID, "⏭️ Skipped", "Skipped to the next song.", 0x00ff00)
}
