package handlers

import (
	"log"

	"github.com/bwmarrin/discordgo"
	"github.com/latoulicious/Seiun/pkg/session"
	"github.com/latoulicious/Seiun/pkg/voicestate"
)

// NewVoiceStateHandler returns the gateway voice-state listener. It keeps
// each session's listener flag in sync with the humans actually present
// in the bot's voice channel, and follows the bot when a moderator drags
// it to another channel.
func NewVoiceStateHandler(registry *session.Registry) func(s *discordgo.Session, e *discordgo.VoiceStateUpdate) {
	return func(s *discordgo.Session, e *discordgo.VoiceStateUpdate) {
		sess := registry.Get(e.GuildID)
		if sess == nil {
			return
		}

		prev := ""
		if e.BeforeUpdate != nil {
			prev = e.BeforeUpdate.ChannelID
		}
		t := voicestate.Transition{
			UserID:          e.UserID,
			BotID:           s.State.User.ID,
			PreviousChannel: prev,
			CurrentChannel:  e.ChannelID,
		}

		signal := voicestate.Classify(t)
		if signal == voicestate.Unknown {
			return
		}

		if t.IsBot() {
			switch signal {
			case voicestate.Moved:
				// Dragged to another channel: follow.
				log.Printf("Moved to voice channel %s in guild %s", e.ChannelID, e.GuildID)
				sess.RebindVoiceChannel(e.ChannelID)
			case voicestate.Left:
				// Kicked from voice or the connection dropped. Pause so the
				// in-flight stream step ends now instead of pumping frames
				// into a dead connection; the track stays at the head.
				log.Printf("Removed from voice in guild %s, pausing playback", e.GuildID)
				if sess.IsStreaming() {
					sess.Pause()
				}
			}
			return
		}

		channelID := sess.VoiceChannel()
		if channelID == "" {
			return
		}

		present := humansInChannel(s, e.GuildID, channelID)
		sess.SetListeners(present)

		if !present && !sess.PlayOnFreeze() && sess.IsStreaming() {
			log.Printf("Voice channel %s emptied, pausing playback in guild %s", channelID, e.GuildID)
			sess.Pause()
		}
	}
}

// humansInChannel reports whether anyone besides the bot sits in the
// given voice channel.
func humansInChannel(s *discordgo.Session, guildID, channelID string) bool {
	guild, err := s.State.Guild(guildID)
	if err != nil {
		return false
	}
	for _, vs := range guild.VoiceStates {
		if vs.ChannelID != channelID || vs.UserID == s.State.User.ID {
			continue
		}
		member, err := s.State.Member(guildID, vs.UserID)
		if err == nil && member.User != nil && member.User.Bot {
			continue
		}
		return true
	}
	return false
}
