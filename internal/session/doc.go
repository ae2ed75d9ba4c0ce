package session

// Package session holds process-lifetime per-user state: bitrate preference,
// exchanged Spotify credentials, and the in-progress OAuth handshake. Each
// session carries its own lock; a janitor goroutine expires handshakes that
// were started but never completed.
