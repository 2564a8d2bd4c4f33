package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/bwmarrin/discordgo"
	"github.com/joho/godotenv"
	"github.com/latoulicious/Seiun/internal/commands"
	"github.com/latoulicious/Seiun/internal/config"
	"github.com/latoulicious/Seiun/internal/handlers"
	"github.com/latoulicious/Seiun/internal/presence"
	"github.com/latoulicious/Seiun/pkg/cache"
	"github.com/latoulicious/Seiun/pkg/downloader"
	"github.com/latoulicious/Seiun/pkg/lyrics"
	"github.com/latoulicious/Seiun/pkg/session"
	"github.com/latoulicious/Seiun/pkg/streamer"
)

func main() {
	// Load environment variables from .env file; a missing file is fine
	// in containerized deployments where the env comes from the runtime.
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Printf("Warning: could not load .env file: %v", err)
	}

	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Create a new Discord session using the provided token
	dg, err := discordgo.New("Bot " + cfg.DiscordToken)
	if err != nil {
		log.Fatalf("Failed to create Discord session: %v", err)
	}
	dg.Identify.Intents = discordgo.IntentsGuilds |
		discordgo.IntentsGuildMessages |
		discordgo.IntentsGuildVoiceStates |
		discordgo.IntentMessageContent

	// Open the content-addressed audio cache
	store, err := cache.NewStore(cfg.CacheDir)
	if err != nil {
		log.Fatalf("Failed to open cache: %v", err)
	}

	dl := downloader.New(cfg.YtdlpPath, cfg.CacheDir)
	registry := session.NewRegistry(cfg.PlayOnFreeze)
	st := streamer.New(dg, registry, store, dl, cfg.FfmpegPath)

	// Create presence manager and feed it now-playing updates
	presenceManager := presence.NewManager(dg)
	st.SetAnnouncer(presenceManager)

	cmds := commands.New(registry, store, dl, st, lyrics.NewClient(), cfg)

	// Register the gateway handlers
	dg.AddHandler(handlers.NewMessageHandler(cmds, cfg.CommandPrefix))
	dg.AddHandler(handlers.NewVoiceStateHandler(registry))

	// Open a websocket connection to Discord and begin listening.
	if err := dg.Open(); err != nil {
		log.Fatalf("Failed to open Discord session: %v", err)
	}

	// Set initial presence
	presenceManager.UpdateDefaultPresence()

	// Start periodic presence updates
	presenceManager.StartPeriodicUpdates()

	// Run the stream host loop until shutdown
	ctx, cancel := context.WithCancel(context.Background())
	loopDone := make(chan struct{})
	go func() {
		defer close(loopDone)
		streamer.NewLoop(st).Run(ctx)
	}()

	log.Println("Bot is running. Press CTRL-C to exit.")
	// Wait here until CTRL-C or other term signal is received.
	sc := make(chan os.Signal, 1)
	signal.Notify(sc, syscall.SIGINT, syscall.SIGTERM, os.Interrupt)
	<-sc

	// Cleanly shut down: stop the loop, then close the session and cache.
	cancel()
	<-loopDone
	dg.Close()
	if err := store.Close(); err != nil {
		log.Printf("Error closing cache: %v", err)
	}
}
