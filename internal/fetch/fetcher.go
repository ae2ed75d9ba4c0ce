package fetch

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/lrstanley/go-ytdlp"

	"github.com/ytget/spotgram/internal/model"
	"github.com/ytget/spotgram/internal/platform"
)

// Search and output constants
const (
	// SearchPrefix limits the search to the single best match
	SearchPrefix = "ytsearch1:"

	// SearchSuffix biases results toward plain audio uploads
	SearchSuffix = "audio"

	OutputExtensionMP3 = ".mp3"

	DefaultAcquireTimeout = 5 * time.Minute
)

// Fetcher acquires local MP3 files for resolved tracks
type Fetcher struct {
	downloadDir string
	timeout     time.Duration
}

// New creates a fetcher writing into the given download directory
func New(downloadDir string) *Fetcher {
	return &Fetcher{
		downloadDir: downloadDir,
		timeout:     DefaultAcquireTimeout,
	}
}

// SetTimeout sets the per-track acquisition timeout
func (f *Fetcher) SetTimeout(timeout time.Duration) {
	f.timeout = timeout
}

// Acquire searches for the best-matching audio source for the track and
// transcodes it to MP3 at the requested bitrate. Returns the local file path.
// All failures are terminal for the track; partial artifacts are removed
// before the error propagates.
func (f *Fetcher) Acquire(ctx context.Context, title, artist string, bitrate model.Bitrate) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, f.timeout)
	defer cancel()

	query := fmt.Sprintf("%s %s %s", title, artist, SearchSuffix)

	// Each acquisition gets a unique suffix so concurrent tracks sharing a
	// title+artist never collide on the output path.
	base := filepath.Join(f.downloadDir, outputName(title, artist))
	outputPath := base + OutputExtensionMP3

	dl := ytdlp.New().
		Format("bestaudio/best").
		ExtractAudio().
		AudioFormat("mp3").
		AudioQuality(bitrate.Quality()).
		NoPlaylist().
		ForceOverwrites().
		Output(base + ".%(ext)s")

	_, err := dl.Run(ctx, SearchPrefix+query)
	if err != nil {
		f.cleanupPartial(base)
		return "", classifyRunError(err)
	}

	// yt-dlp exits cleanly on an empty search result; the missing output
	// file is the only signal that nothing matched.
	info, statErr := os.Stat(outputPath)
	if statErr != nil {
		f.cleanupPartial(base)
		return "", fmt.Errorf("%w: %q", ErrSourceNotFound, query)
	}
	if info.Size() == 0 {
		f.cleanupPartial(base)
		return "", fmt.Errorf("%w: empty output for %q", ErrIO, query)
	}

	return outputPath, nil
}

// cleanupPartial removes the output and any intermediate artifacts
// (.part, .webm, .m4a) left behind by an interrupted run. Matching is done
// by name prefix; filepath.Glob would treat the bracketed ID suffix as a
// character class.
func (f *Fetcher) cleanupPartial(base string) {
	entries, err := os.ReadDir(f.downloadDir)
	if err != nil {
		return
	}
	prefix := filepath.Base(base) + "."
	for _, entry := range entries {
		if strings.HasPrefix(entry.Name(), prefix) {
			os.Remove(filepath.Join(f.downloadDir, entry.Name()))
		}
	}
}

// outputName builds a sanitized, collision-free file base name for a track
func outputName(title, artist string) string {
	name := platform.SanitizeFileName(fmt.Sprintf("%s - %s", title, artist))
	return fmt.Sprintf("%s [%s]", name, generateFileID())
}

// generateFileID generates a unique per-acquisition ID using UUID v7 for
// better uniqueness and time ordering
func generateFileID() string {
	id, err := uuid.NewV7()
	if err != nil {
		// Fallback to timestamp if UUID generation fails
		return fmt.Sprintf("%d", time.Now().UnixNano())
	}
	return id.String()
}

// classifyRunError maps a yt-dlp failure onto the package error taxonomy
func classifyRunError(err error) error {
	msg := strings.ToLower(err.Error())

	switch {
	case strings.Contains(msg, "no space left"),
		strings.Contains(msg, "permission denied"),
		strings.Contains(msg, "read-only file system"):
		return fmt.Errorf("%w: %v", ErrIO, err)
	case strings.Contains(msg, "no video results"),
		strings.Contains(msg, "does not contain any videos"),
		strings.Contains(msg, "no entries"):
		return fmt.Errorf("%w: %v", ErrSourceNotFound, err)
	default:
		return fmt.Errorf("%w: %v", ErrTranscode, err)
	}
}
