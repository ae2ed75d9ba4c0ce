package platform

import (
	"os"
	"regexp"
	"strings"
)

// Directory permissions
const (
	DefaultDirPermissions = 0755
)

// File name limits
const (
	MaxFileNameLength = 120
)

var (
	// forbiddenNameChars are characters that are unsafe in file names across platforms
	forbiddenNameChars = regexp.MustCompile(`[/\\<>:"|?*\x00-\x1f]`)

	// collapseSpaces folds runs of whitespace left behind by sanitization
	collapseSpaces = regexp.MustCompile(`\s+`)
)

// CreateDirectoryIfNotExists creates directory if it doesn't exist
func CreateDirectoryIfNotExists(dirPath string) error {
	if _, err := os.Stat(dirPath); os.IsNotExist(err) {
		return os.MkdirAll(dirPath, DefaultDirPermissions)
	}
	return nil
}

// SanitizeFileName strips characters that are unsafe in file names and
// truncates overly long names. The result is never empty.
func SanitizeFileName(name string) string {
	cleaned := forbiddenNameChars.ReplaceAllString(name, "")
	cleaned = collapseSpaces.ReplaceAllString(cleaned, " ")
	cleaned = strings.TrimSpace(cleaned)

	if len(cleaned) > MaxFileNameLength {
		cleaned = strings.TrimSpace(cleaned[:MaxFileNameLength])
	}
	if cleaned == "" {
		cleaned = "track"
	}
	return cleaned
}
