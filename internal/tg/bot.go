package tg

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sync"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"

	"github.com/ytget/spotgram/internal/model"
	"github.com/ytget/spotgram/internal/queue"
	"github.com/ytget/spotgram/internal/session"
	"github.com/ytget/spotgram/internal/spotify"
	"github.com/ytget/spotgram/internal/worker"
)

// ErrDelivery means the chat transport failed to accept a file
var ErrDelivery = errors.New("chat transport rejected the file")

// Options wires the bot's collaborators together
type Options struct {
	Token       string
	Sessions    *session.Store
	Auth        *spotify.Authenticator
	Catalog     *spotify.Client
	Fetcher     worker.Acquirer
	MaxParallel int
}

// Bot is the Telegram front end. It owns the per-user queue manager and the
// fan-out pool, and implements the queue's resolver and runner contracts.
type Bot struct {
	api      *bot.Bot
	sessions *session.Store
	auth     *spotify.Authenticator
	catalog  *spotify.Client
	pool     *worker.Pool
	queue    *queue.Manager

	// chats maps user IDs to the chat the user last talked in, so queue
	// callbacks running outside a handler know where to reply
	chatsMutex sync.RWMutex
	chats      map[int64]int64
}

// New creates the bot and registers all handlers. An invalid token or an
// unreachable Telegram API surfaces here as an error.
func New(opts Options) (*Bot, error) {
	b := &Bot{
		sessions: opts.Sessions,
		auth:     opts.Auth,
		catalog:  opts.Catalog,
		pool:     worker.NewPool(opts.Fetcher, opts.MaxParallel),
		chats:    make(map[int64]int64),
	}

	api, err := bot.New(opts.Token, bot.WithDefaultHandler(b.handleMessage))
	if err != nil {
		return nil, fmt.Errorf("create telegram bot: %w", err)
	}
	b.api = api

	b.queue = queue.NewManager(b, b, queue.Events{
		OnResolveError: b.onResolveError,
		OnBatchStart:   b.onBatchStart,
		OnBatchDone:    b.onBatchDone,
	})

	b.registerHandlers()
	return b, nil
}

// Start begins long polling and blocks until the context is canceled
func (b *Bot) Start(ctx context.Context) {
	log.Printf("Bot polling started")
	b.api.Start(ctx)
}

// registerHandlers binds the command surface
func (b *Bot) registerHandlers() {
	b.api.RegisterHandler(bot.HandlerTypeMessageText, "/start", bot.MatchTypeExact, b.handleStart)
	b.api.RegisterHandler(bot.HandlerTypeMessageText, "/help", bot.MatchTypeExact, b.handleHelp)
	b.api.RegisterHandler(bot.HandlerTypeMessageText, "/auth", bot.MatchTypeExact, b.handleAuth)
	b.api.RegisterHandler(bot.HandlerTypeMessageText, "/quality", bot.MatchTypePrefix, b.handleQuality)
	b.api.RegisterHandler(bot.HandlerTypeMessageText, "/queue", bot.MatchTypeExact, b.handleQueue)
	b.api.RegisterHandler(bot.HandlerTypeMessageText, "/clear", bot.MatchTypeExact, b.handleClear)
	b.api.RegisterHandler(bot.HandlerTypeCallbackQueryData, qualityCallbackPrefix, bot.MatchTypePrefix, b.handleQualityCallback)
}

// rememberChat records where to reply to a user later
func (b *Bot) rememberChat(userID, chatID int64) {
	b.chatsMutex.Lock()
	b.chats[userID] = chatID
	b.chatsMutex.Unlock()
}

// chatFor returns the last known chat for a user
func (b *Bot) chatFor(userID int64) int64 {
	b.chatsMutex.RLock()
	defer b.chatsMutex.RUnlock()
	return b.chats[userID]
}

// sendText sends a plain text message, logging delivery failures
func (b *Bot) sendText(ctx context.Context, chatID int64, text string) {
	_, err := b.api.SendMessage(ctx, &bot.SendMessageParams{
		ChatID: chatID,
		Text:   text,
	})
	if err != nil {
		log.Printf("Failed to send message to chat %d: %v", chatID, err)
	}
}

// Resolve implements queue.Resolver: it looks up the user's credentials and
// resolves the link against the catalog.
func (b *Bot) Resolve(ctx context.Context, userID int64, link string) (*model.Batch, error) {
	creds := b.sessions.Get(userID).Credentials()
	return b.catalog.Resolve(ctx, creds, link)
}

// Run implements queue.BatchRunner: it fans the batch out at the user's
// chosen bitrate, reporting per-track progress into the user's chat.
func (b *Bot) Run(ctx context.Context, userID int64, batch *model.Batch) model.BatchStats {
	chatID := b.chatFor(userID)
	bitrate := b.sessions.Get(userID).Bitrate()

	events := worker.Events{
		OnTrackStart: func(position, total int, track model.Track) {
			b.sendText(ctx, chatID, fmt.Sprintf(msgTrackProgress, position, total, track))
		},
		OnTrackError: func(position, total int, track model.Track, err error) {
			b.sendText(ctx, chatID, fmt.Sprintf(msgTrackFailed, position, total, track, err))
		},
	}

	return b.pool.Process(ctx, batch, bitrate, &delivery{bot: b, chatID: chatID}, events)
}

// delivery sends one downloaded file into a chat as an audio message
type delivery struct {
	bot    *Bot
	chatID int64
}

// Deliver implements worker.Deliverer
func (d *delivery) Deliver(ctx context.Context, track model.Track, path string) error {
	file, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open audio file: %w", err)
	}
	defer file.Close()

	_, err = d.bot.api.SendAudio(ctx, &bot.SendAudioParams{
		ChatID:    d.chatID,
		Audio:     &models.InputFileUpload{Filename: filepath.Base(path), Data: file},
		Title:     track.Title,
		Performer: track.Artist,
	})
	if err != nil {
		return fmt.Errorf("%w: %v", ErrDelivery, err)
	}
	return nil
}

// onResolveError reports a failed link resolution; the queue moves on to the
// next pending link by itself
func (b *Bot) onResolveError(userID int64, link string, err error) {
	chatID := b.chatFor(userID)
	b.sendText(context.Background(), chatID, resolveErrorText(err))
}

// onBatchStart announces the resolved batch
func (b *Bot) onBatchStart(userID int64, batch *model.Batch) {
	chatID := b.chatFor(userID)
	bitrate := b.sessions.Get(userID).Bitrate()
	b.sendText(context.Background(), chatID,
		fmt.Sprintf(msgBatchStart, batch.DisplayName, batch.Size(), bitrate))
}

// onBatchDone summarizes the finished batch
func (b *Bot) onBatchDone(userID int64, batch *model.Batch, stats model.BatchStats) {
	chatID := b.chatFor(userID)
	b.sendText(context.Background(), chatID, fmt.Sprintf(msgBatchDone,
		batch.DisplayName, stats.SuccessCount, stats.FailureCount,
		formatBytes(stats.TotalBytes), stats.Elapsed.Round(statsRounding)))
}
