package commands

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/bwmarrin/discordgo"
)

// Cache reports cache usage. "cache clear" wipes every cached asset and
// metadata row; it is restricted to the bot owner when one is configured.
func (c *Commands) Cache(s *discordgo.Session, m *discordgo.MessageCreate, args []string) {
	if len(args) > 0 && strings.EqualFold(args[0], "clear") {
		if c.Config.BotOwnerID != "" && m.Author.ID != c.Config.BotOwnerID {
			sendEmbedMessage(s, m.ChannelID, "❌ Permission Denied", "Only the bot owner can clear the cache.", 0xff0000)
			return
		}

		if err := c.Store.Clear(context.Background()); err != nil {
			log.Printf("Error clearing cache: %v", err)
			sendEmbedMessage(s, m.ChannelID, "❌ Error", "Failed to clear the cache.", 0xff0000)
			return
		}
		sendEmbedMessage(s, m.ChannelID, "🗑️ Cache Cleared", "All cached audio has been removed.", 0x00ff00)
		return
	}

	size, err := c.Store.Size()
	if err != nil {
		log.Printf("Error reading cache size: %v", err)
		sendEmbedMessage(s, m.ChannelID, "❌ Error", "Failed to read cache usage.", 0xff0000)
		return
	}

	sendEmbedMessage(s, m.ChannelID, "💾 Cache Usage",
		fmt.Sprintf("Cached audio is using **%s** on disk.", formatBytes(size)), 0x7289da)
}

func formatBytes(n int64) string {
	const unit = 1024
	if n < unit {
		return fmt.Sprintf("%d B", n)
	}
	div, exp := int64(unit), 0
	for v := n / unit; v >= unit; v /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %ciB", float64(n)/float64(div), "KMGTPE"[exp])
}
