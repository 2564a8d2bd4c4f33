package commands

import (
	"github.com/bwmarrin/discordgo"
)

// Leave disconnects from voice without clearing the queue, so a later
// play picks up where things left off.
func (c *Commands) Leave(s *discordgo.Session, m *discordgo.MessageCreate, args []string) {
	sess := c.Registry.Get(m.GuildID)
	if sess == nil {
		sendEmbedMessage(s, m.ChannelID, "❌ Error", "I'm not in a voice channel.", 0xff0000)
		return
	}

	sess.SetListen(false)
	if sess.IsStreaming() {
		sess.Skip()
	}
	c.Streamer.Disconnect(m.GuildID)

	sendEmbedMessage(s, m.ChannelID, "👋 Disconnected", "Left the voice channel. The queue is still intact.", 0xffa500)
}
