package config

import (
	"errors"
	"os"
	"path/filepath"
)

// ErrDiscordTokenNotSet is returned when DISCORD_TOKEN is missing.
var ErrDiscordTokenNotSet = errors.New("DISCORD_TOKEN is not set")

// Config holds every runtime knob. Only the Discord token is mandatory;
// everything else has a sensible default.
type Config struct {
	DiscordToken  string
	CommandPrefix string
	CacheDir      string
	YtdlpPath     string
	FfmpegPath    string
	PlayOnFreeze  bool // keep streaming when the voice channel empties
	BotOwnerID    string
}

// LoadConfig reads configuration from the environment.
func LoadConfig() (*Config, error) {
	discordToken := os.Getenv("DISCORD_TOKEN")
	if discordToken == "" {
		return nil, ErrDiscordTokenNotSet
	}

	cacheDir := os.Getenv("CACHE_DIR")
	if cacheDir == "" {
		cacheDir = filepath.Join(".", "cache")
	}

	prefix := os.Getenv("COMMAND_PREFIX")
	if prefix == "" {
		prefix = "!"
	}

	return &Config{
		DiscordToken:  discordToken,
		CommandPrefix: prefix,
		CacheDir:      cacheDir,
		YtdlpPath:     os.Getenv("YTDLP_PATH"),
		FfmpegPath:    os.Getenv("FFMPEG_PATH"),
		PlayOnFreeze:  os.Getenv("PLAY_ON_FREEZE") == "true",
		BotOwnerID:    os.Getenv("BOT_OWNER_ID"),
	}, nil
}
