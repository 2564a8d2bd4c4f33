package handlers

import (
	"math/rand"
	"strings"

	"github.com/bwmarrin/discordgo"
	"github.com/latoulicious/Seiun/internal/commands"
)

// NewMessageHandler returns the prefix-command dispatcher.
func NewMessageHandler(c *commands.Commands, prefix string) func(s *discordgo.Session, m *discordgo.MessageCreate) {
	return func(s *discordgo.Session, m *discordgo.MessageCreate) {
		// Ignore all messages created by the bot itself
		if m.Author.ID == s.State.User.ID {
			return
		}
		if m.GuildID == "" {
			return
		}

		// Check if the bot is mentioned
		for _, mention := range m.Mentions {
			if mention.ID == s.State.User.ID {
				responses := []string{
					"Seiun Sky here! Got a song for me? ♪",
					"Hehe, you can't predict what I'll play next!",
					"Try `" + prefix + "help` if you want the full setlist!",
				}
				s.ChannelMessageSend(m.ChannelID, responses[rand.Intn(len(responses))])
				return
			}
		}

		if !strings.HasPrefix(m.Content, prefix) {
			return
		}

		args := strings.Fields(strings.TrimPrefix(m.Content, prefix))
		if len(args) == 0 {
			return
		}
		command := strings.ToLower(args[0])
		args = args[1:]

		switch command {
		case "play", "p":
			c.Play(s, m, args)
		case "playnext", "pn":
			c.PlayNext(s, m, args)
		case "pause":
			c.Pause(s, m, args)
		case "resume":
			c.Resume(s, m, args)
		case "skip", "s":
			c.Skip(s, m, args)
		case "skipto":
			c.SkipTo(s, m, args)
		case "stop":
			c.Stop(s, m, args)
		case "queue", "q":
			c.Queue(s, m, args)
		case "nowplaying", "np":
			c.NowPlaying(s, m, args)
		case "shuffle":
			c.Shuffle(s, m, args)
		case "clear":
			c.Clear(s, m, args)
		case "lyrics", "ly":
			c.LyricsCmd(s, m, args)
		case "keepplaying", "24/7":
			c.KeepPlaying(s, m, args)
		case "cache":
			c.Cache(s, m, args)
		case "leave", "disconnect":
			c.Leave(s, m, args)
		case "help":
			c.Help(s, m, args)
		}
	}
}
