package fetch

// Package fetch implements audio acquisition built on top of yt-dlp
// (via github.com/lrstanley/go-ytdlp). Given a track title and artist it
// searches for the best-matching audio source and transcodes it to MP3 at
// the requested bitrate, cleaning up partial artifacts on failure.
