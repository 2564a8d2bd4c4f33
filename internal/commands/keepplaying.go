package commands

import (
	"strings"

	"github.com/bwmarrin/discordgo"
)

// KeepPlaying toggles whether playback continues when the voice channel
// has no human listeners left.
func (c *Commands) KeepPlaying(s *discordgo.Session, m *discordgo.MessageCreate, args []string) {
	sess := c.Registry.GetOrCreate(m.GuildID)

	if len(args) == 0 {
		state := "off"
		if sess.PlayOnFreeze() {
			state = "on"
		}
		sendEmbedMessage(s, m.ChannelID, "🔊 Keep Playing",
			"Keep-playing is currently **"+state+"**. Use `"+c.Config.CommandPrefix+"keepplaying on|off` to change it.", 0x7289da)
		return
	}

	switch strings.ToLower(args[0]) {
	case "on", "true", "yes":
		sess.SetPlayOnFreeze(true)
		sendEmbedMessage(s, m.ChannelID, "🔊 Keep Playing Enabled",
			"I'll keep playing even when everyone leaves the voice channel.", 0x00ff00)
	case "off", "false", "no":
		sess.SetPlayOnFreeze(false)
		sendEmbedMessage(s, m.ChannelID, "🔇 Keep Playing Disabled",
			"I'll pause when the voice channel empties.", 0xffa500)
	default:
		sendEmbedMessage(s, m.ChannelID, "❌ Error",
			"Usage: `"+c.Config.CommandPrefix+"keepplaying on|off`", 0xff0000)
	}
}
