package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/fatih/color"
	"github.com/lrstanley/go-ytdlp"

	"github.com/ytget/spotgram/internal/config"
	"github.com/ytget/spotgram/internal/fetch"
	"github.com/ytget/spotgram/internal/platform"
	"github.com/ytget/spotgram/internal/session"
	"github.com/ytget/spotgram/internal/spotify"
	"github.com/ytget/spotgram/internal/tg"
)

// Version is set during build via -ldflags "-X main.version=X.Y.Z"
var version = "dev"

const (
	AppName = "spotgram"

	// EnvConfigPath overrides the default config file location
	EnvConfigPath = "CONFIG_PATH"
)

func main() {
	color.Cyan("%s v%s starting...", AppName, version)

	configPath := os.Getenv(EnvConfigPath)
	if configPath == "" {
		configPath = config.DefaultConfigPath
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	if err := platform.CreateDirectoryIfNotExists(cfg.DownloadDir); err != nil {
		log.Fatalf("Failed to ensure download dir %s: %v", cfg.DownloadDir, err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Fetch the yt-dlp binary if it is not already on PATH
	if _, err := ytdlp.Install(ctx, nil); err != nil {
		log.Fatalf("Failed to install yt-dlp: %v", err)
	}

	sessions := session.NewStore(cfg.HandshakeTTL())
	sessions.StartJanitor(ctx)

	auth := spotify.NewAuthenticator(cfg.Spotify.ClientID, cfg.Spotify.ClientSecret, cfg.Spotify.RedirectURI)
	catalog := spotify.NewClient()
	fetcher := fetch.New(cfg.DownloadDir)

	// Transport startup failure is the only process-fatal condition
	b, err := tg.New(tg.Options{
		Token:       cfg.TelegramToken,
		Sessions:    sessions,
		Auth:        auth,
		Catalog:     catalog,
		Fetcher:     fetcher,
		MaxParallel: cfg.MaxParallel,
	})
	if err != nil {
		log.Fatalf("Failed to start bot: %v", err)
	}

	color.Green("Bot is running. Press Ctrl+C to stop.")
	b.Start(ctx)

	log.Printf("Shutting down")
}
