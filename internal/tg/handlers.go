package tg

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"

	"github.com/ytget/spotgram/internal/model"
	"github.com/ytget/spotgram/internal/spotify"
)

// statsRounding trims sub-millisecond noise from reported batch timings
const statsRounding = time.Millisecond

// handleStart greets the user
func (b *Bot) handleStart(ctx context.Context, _ *bot.Bot, update *models.Update) {
	if update.Message == nil {
		return
	}
	b.rememberChat(update.Message.From.ID, update.Message.Chat.ID)
	b.sendText(ctx, update.Message.Chat.ID, msgWelcome)
	log.Printf("User %d started the bot", update.Message.From.ID)
}

// handleHelp shows the command list
func (b *Bot) handleHelp(ctx context.Context, _ *bot.Bot, update *models.Update) {
	if update.Message == nil {
		return
	}
	b.rememberChat(update.Message.From.ID, update.Message.Chat.ID)
	b.sendText(ctx, update.Message.Chat.ID, msgHelp)
}

// handleAuth starts an OAuth handshake and sends the authorization link
func (b *Bot) handleAuth(ctx context.Context, _ *bot.Bot, update *models.Update) {
	if update.Message == nil {
		return
	}
	userID := update.Message.From.ID
	b.rememberChat(userID, update.Message.Chat.ID)

	state := b.sessions.Get(userID).BeginHandshake()
	authURL := b.auth.AuthURL(state)

	b.sendText(ctx, update.Message.Chat.ID, fmt.Sprintf(msgAuthPrompt, authURL))
	log.Printf("User %d requested Spotify authorization", userID)
}

// handleQuality sets the bitrate from an argument or offers the keyboard
func (b *Bot) handleQuality(ctx context.Context, _ *bot.Bot, update *models.Update) {
	if update.Message == nil {
		return
	}
	userID := update.Message.From.ID
	chatID := update.Message.Chat.ID
	b.rememberChat(userID, chatID)

	arg := qualityArg(update.Message.Text)
	if arg == "" {
		b.sendQualityKeyboard(ctx, chatID)
		return
	}

	bitrate, err := model.ParseBitrate(arg)
	if err != nil {
		b.sendText(ctx, chatID, msgQualityInvalid)
		return
	}

	b.sessions.Get(userID).SetBitrate(bitrate)
	b.sendText(ctx, chatID, fmt.Sprintf(msgQualitySet, bitrate))
	log.Printf("User %d set quality to %s kbps", userID, bitrate)
}

// sendQualityKeyboard offers the bitrate presets as inline buttons
func (b *Bot) sendQualityKeyboard(ctx context.Context, chatID int64) {
	var row []models.InlineKeyboardButton
	for _, preset := range model.Bitrates() {
		row = append(row, models.InlineKeyboardButton{
			Text:         preset.String() + " kbps",
			CallbackData: qualityCallbackPrefix + preset.String(),
		})
	}

	_, err := b.api.SendMessage(ctx, &bot.SendMessageParams{
		ChatID: chatID,
		Text:   msgQualityChoose,
		ReplyMarkup: &models.InlineKeyboardMarkup{
			InlineKeyboard: [][]models.InlineKeyboardButton{row},
		},
	})
	if err != nil {
		log.Printf("Failed to send quality keyboard to chat %d: %v", chatID, err)
	}
}

// handleQualityCallback applies a bitrate chosen via inline button
func (b *Bot) handleQualityCallback(ctx context.Context, _ *bot.Bot, update *models.Update) {
	cq := update.CallbackQuery
	if cq == nil {
		return
	}

	// Stop the button spinner regardless of the outcome
	_, err := b.api.AnswerCallbackQuery(ctx, &bot.AnswerCallbackQueryParams{
		CallbackQueryID: cq.ID,
	})
	if err != nil {
		log.Printf("Failed to answer callback query: %v", err)
	}

	value := strings.TrimPrefix(cq.Data, qualityCallbackPrefix)
	bitrate, err := model.ParseBitrate(value)
	if err != nil {
		log.Printf("User %d sent invalid quality callback %q", cq.From.ID, cq.Data)
		return
	}

	b.sessions.Get(cq.From.ID).SetBitrate(bitrate)
	log.Printf("User %d set quality to %s kbps via button", cq.From.ID, bitrate)

	if cq.Message.Message == nil {
		return
	}
	chatID := cq.Message.Message.Chat.ID
	b.rememberChat(cq.From.ID, chatID)

	_, err = b.api.EditMessageText(ctx, &bot.EditMessageTextParams{
		ChatID:    chatID,
		MessageID: cq.Message.Message.ID,
		Text:      fmt.Sprintf(msgQualitySet, bitrate),
	})
	if err != nil {
		log.Printf("Failed to edit quality message: %v", err)
	}
}

// handleQueue lists the pending links
func (b *Bot) handleQueue(ctx context.Context, _ *bot.Bot, update *models.Update) {
	if update.Message == nil {
		return
	}
	userID := update.Message.From.ID
	b.rememberChat(userID, update.Message.Chat.ID)

	pending := b.queue.PeekAll(userID)
	if len(pending) == 0 {
		b.sendText(ctx, update.Message.Chat.ID, msgQueueEmpty)
		return
	}

	var sb strings.Builder
	for i, link := range pending {
		fmt.Fprintf(&sb, msgQueueItem, i+1, link)
	}
	b.sendText(ctx, update.Message.Chat.ID, sb.String())
}

// handleClear drops the pending links without touching an in-flight batch
func (b *Bot) handleClear(ctx context.Context, _ *bot.Bot, update *models.Update) {
	if update.Message == nil {
		return
	}
	userID := update.Message.From.ID
	b.rememberChat(userID, update.Message.Chat.ID)

	dropped := b.queue.Clear(userID)
	b.sendText(ctx, update.Message.Chat.ID, fmt.Sprintf(msgCleared, dropped))
	log.Printf("User %d cleared %d pending link(s)", userID, dropped)
}

// handleMessage routes non-command text: authorization codes, Spotify links,
// and everything else to the fallback prompt
func (b *Bot) handleMessage(ctx context.Context, _ *bot.Bot, update *models.Update) {
	if update.Message == nil || update.Message.From == nil {
		return
	}
	userID := update.Message.From.ID
	chatID := update.Message.Chat.ID
	text := update.Message.Text
	b.rememberChat(userID, chatID)

	kind, code := classifyText(text)
	switch kind {
	case textLink:
		b.sendText(ctx, chatID, msgLinkAccepted)
		b.queue.Enqueue(ctx, userID, text)
		log.Printf("User %d submitted a link", userID)
	case textAuthCode:
		b.handleAuthCode(ctx, userID, chatID, code)
	default:
		b.sendText(ctx, chatID, msgFallback)
	}
}

// textKind is the routing decision for non-command text
type textKind int

const (
	textFallback textKind = iota
	textLink
	textAuthCode
)

// classifyText decides how to route free-form text. A recognized link wins
// over an embedded code= parameter, so a share URL carrying one in its query
// string is still a submission.
func classifyText(text string) (textKind, string) {
	if spotify.ContainsLink(text) {
		return textLink, ""
	}
	if code, ok := spotify.ExtractAuthCode(text); ok {
		return textAuthCode, code
	}
	return textFallback, ""
}

// handleAuthCode finishes a pending OAuth handshake
func (b *Bot) handleAuthCode(ctx context.Context, userID, chatID int64, code string) {
	sess := b.sessions.Get(userID)
	if _, ok := sess.Handshake(); !ok {
		b.sendText(ctx, chatID, msgAuthNoHandshake)
		return
	}

	creds, err := b.auth.Exchange(ctx, code)
	if err != nil {
		b.sendText(ctx, chatID, fmt.Sprintf(msgAuthFailed, err))
		log.Printf("User %d authorization failed: %v", userID, err)
		return
	}

	sess.SetCredentials(creds)
	b.sendText(ctx, chatID, msgAuthSuccess)
	log.Printf("User %d authorized with Spotify", userID)
}

// qualityArg extracts the argument of a /quality command, if present
func qualityArg(text string) string {
	fields := strings.Fields(text)
	if len(fields) < 2 {
		return ""
	}
	return fields[1]
}

// resolveErrorText maps resolution failures onto user-facing messages
func resolveErrorText(err error) string {
	switch {
	case errors.Is(err, spotify.ErrAuthRequired):
		return msgResolveAuth
	case errors.Is(err, spotify.ErrUnsupportedLink):
		return msgResolveBadLink
	case errors.Is(err, spotify.ErrCatalogUnavailable):
		return msgResolveCatalogErr
	default:
		return fmt.Sprintf(msgResolveFailed, err)
	}
}

// formatBytes renders a byte count for chat messages
func formatBytes(n int64) string {
	if n < 0 {
		n = 0
	}
	return humanize.Bytes(uint64(n))
}
