package model

import (
	"fmt"
	"strconv"
)

// Bitrate is the target MP3 bitrate in kbps for acquired audio
type Bitrate int

const (
	Bitrate128 Bitrate = 128
	Bitrate192 Bitrate = 192
	Bitrate320 Bitrate = 320

	// DefaultBitrate is used when a user never chose a quality
	DefaultBitrate = Bitrate192
)

// ParseBitrate validates a user-supplied quality value
func ParseBitrate(s string) (Bitrate, error) {
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("invalid bitrate %q: expected 128, 192 or 320", s)
	}

	b := Bitrate(n)
	if !b.Valid() {
		return 0, fmt.Errorf("unsupported bitrate %d: expected 128, 192 or 320", n)
	}
	return b, nil
}

// Valid reports whether the bitrate is one of the supported presets
func (b Bitrate) Valid() bool {
	return b == Bitrate128 || b == Bitrate192 || b == Bitrate320
}

// String returns the bitrate in kbps without a unit suffix
func (b Bitrate) String() string {
	return strconv.Itoa(int(b))
}

// Quality returns the bitrate in yt-dlp audio-quality form, e.g. "192K"
func (b Bitrate) Quality() string {
	return strconv.Itoa(int(b)) + "K"
}

// Bitrates returns all supported presets in ascending order
func Bitrates() []Bitrate {
	return []Bitrate{Bitrate128, Bitrate192, Bitrate320}
}
