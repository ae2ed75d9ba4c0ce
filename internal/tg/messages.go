package tg

// User-facing message templates
const (
	msgWelcome = "🎵 Hi! I move tracks from Spotify into Telegram.\n" +
		"1. Use /auth to connect your Spotify account.\n" +
		"2. Send me a playlist, album or track link.\n" +
		"More: /help"

	msgHelp = "📚 Commands:\n" +
		"/start - start over\n" +
		"/help - this help\n" +
		"/auth - connect Spotify\n" +
		"/quality [128|192|320] - set audio quality (default 192 kbps)\n" +
		"/queue - show pending links\n" +
		"/clear - drop pending links\n" +
		"Send a Spotify playlist, album or track link to download it!"

	msgAuthPrompt = "🔗 Open this link to authorize Spotify:\n%s\n" +
		"Then paste the code from the redirect URL (the part after `code=`)."

	msgAuthNoHandshake = "❌ Use /auth first!"
	msgAuthSuccess     = "✅ Spotify connected! Now send me a playlist link."
	msgAuthFailed      = "❌ Authorization failed: %v"

	msgQualitySet     = "🎶 Quality set: %s kbps"
	msgQualityChoose  = "🎚 Pick the audio quality:"
	msgQualityInvalid = "❌ Quality must be 128, 192 or 320, e.g.: /quality 320"

	msgQueueEmpty = "📭 Your queue is empty."
	msgQueueItem  = "%d. %s\n"
	msgCleared    = "🗑 Dropped %d pending link(s). A batch already in progress is not interrupted."

	msgLinkAccepted = "🎧 Got it, queued for processing..."

	msgBatchStart = "📀 %s\nTracks: %d\nQuality: %s kbps"
	msgBatchDone  = "✅ Done! %s: %d sent, %d failed (%s, %s)"

	msgTrackProgress = "⬇️ [%d/%d] Downloading: %s"
	msgTrackFailed   = "⚠️ [%d/%d] Failed: %s (%v)"

	msgResolveFailed     = "❌ Could not process the link: %v"
	msgResolveAuth       = "❌ You need to authorize first — use /auth."
	msgResolveBadLink    = "❌ That link is not a Spotify playlist, album or track."
	msgResolveCatalogErr = "❌ Spotify is unavailable right now, try the link again later."

	msgFallback = "🤔 Send a Spotify link, or /help for the command list."
)

// Callback data for the quality inline keyboard
const (
	qualityCallbackPrefix = "quality:"
)
