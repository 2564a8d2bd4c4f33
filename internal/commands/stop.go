package commands

import (
	"github.com/bwmarrin/discordgo"
)

// Stop ends playback for the guild: the queue is emptied, the current
// track is skipped, and the bot leaves the voice channel.
func (c *Commands) Stop(s *discordgo.Session, m *discordgo.MessageCreate, args []string) {
	sess := c.Registry.Get(m.GuildID)
	if sess == nil {
		sendEmbedMessage(s, m.ChannelID, "❌ Error", "Nothing is playing.", 0xff0000)
		return
	}

	sess.ClearQueue()
	sess.SetListen(false)
	sess.Resume() // drop a stale pause so the next !play starts clean
	if sess.IsStreaming() {
		sess.Skip()
	}
	c.Streamer.Disconnect(m.GuildID)

	sendEmbedMessage(s, m.ChannelID, "⏹️ Playback Stopped", "Stopped playback and cleared the queue.", 0xffa500)
}
