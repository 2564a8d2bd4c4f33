package commands

import (
	"fmt"
	"strconv"

	"github.com/bwmarrin/discordgo"
)

// SkipTo jumps ahead in the queue: everything before the given 1-based
// position is dropped and that track becomes the next to play. The
// currently streaming track is skipped as well.
func (c *Commands) SkipTo(s *discordgo.Session, m *discordgo.MessageCreate, args []string) {
	if len(args) < 1 {
		sendEmbedMessage(s, m.ChannelID, "❌ Usage Error", "Usage: `"+c.Config.CommandPrefix+"skipto <position>`", 0xff0000)
		return
	}

	sess := c.Registry.Get(m.GuildID)
	if sess == nil {
		sendEmbedMessage(s, m.ChannelID, "❌ Error", "No queue found for this server.", 0xff0000)
		return
	}

	index, rejection := skipToTarget(args[0], sess.QueueCount(), c.Config.CommandPrefix)
	if rejection != "" {
		sendEmbedMessage(s, m.ChannelID, "❌ Invalid Position", rejection, 0xff0000)
		return
	}

	sess.SkipTo(index)
	if sess.IsStreaming() {
		sess.Skip()
	}

	if target, ok := sess.PeekNext(); ok {
		sendEmbedMessage(s, m.ChannelID, "⏭️ Skipped Ahead", fmt.Sprintf("**%s** is up next.", target.Title), 0x00ff00)
	}
}

// skipToTarget validates a 1-based position argument against the queue
// size. On success it returns the zero-based index; otherwise the second
// return carries the rejection message.
func skipToTarget(arg string, queued int, prefix string) (int, string) {
	if queued == 0 {
		return 0, "The queue is empty. Use `" + prefix + "play` to add songs first."
	}
	position, err := strconv.Atoi(arg)
	if err != nil || position < 1 || position > queued {
		return 0, fmt.Sprintf("Position must be between 1 and %d. Use `%squeue` to see positions.", queued, prefix)
	}
	return position - 1, ""
}
