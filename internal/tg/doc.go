package tg

// Package tg is the Telegram transport layer. It converts inbound commands
// and messages into calls against the session store, the per-user queue and
// the download pipeline, and delivers transcoded audio back into the chat.
// No domain logic lives here beyond routing and message formatting.
