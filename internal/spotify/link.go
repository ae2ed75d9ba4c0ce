package spotify

import (
	"regexp"
	"strings"
)

// LinkKind identifies which of the three accepted link shapes was submitted
type LinkKind string

const (
	LinkKindPlaylist LinkKind = "playlist"
	LinkKindAlbum    LinkKind = "album"
	LinkKindTrack    LinkKind = "track"
)

// Link is a parsed Spotify resource reference
type Link struct {
	Kind LinkKind
	ID   string
	Raw  string
}

var (
	// linkPattern matches playlist/album/track links anywhere in a message
	linkPattern = regexp.MustCompile(`(?:https?://)?open\.spotify\.com/(playlist|album|track)/[A-Za-z0-9]+(?:\?[^\s]*)?`)

	// authCodePattern extracts an authorization code pasted from a redirect
	// URL: everything after "code=" up to "&" or end of string
	authCodePattern = regexp.MustCompile(`code=([^&\s]+)`)
)

// ParseLink parses a submitted link into its kind and catalog ID. The ID is
// the final path segment with any query string stripped, matching how the
// catalog expects identifiers.
func ParseLink(raw string) (*Link, error) {
	match := linkPattern.FindString(raw)
	if match == "" {
		return nil, ErrUnsupportedLink
	}

	// Strip query string before splitting the path
	trimmed := match
	if idx := strings.Index(trimmed, "?"); idx >= 0 {
		trimmed = trimmed[:idx]
	}

	parts := strings.Split(trimmed, "/")
	if len(parts) < 2 {
		return nil, ErrUnsupportedLink
	}

	id := parts[len(parts)-1]
	kind := LinkKind(parts[len(parts)-2])
	if id == "" {
		return nil, ErrUnsupportedLink
	}

	switch kind {
	case LinkKindPlaylist, LinkKindAlbum, LinkKindTrack:
		return &Link{Kind: kind, ID: id, Raw: match}, nil
	default:
		return nil, ErrUnsupportedLink
	}
}

// ContainsLink reports whether the text contains a recognized Spotify link
func ContainsLink(text string) bool {
	return linkPattern.MatchString(text)
}

// ExtractAuthCode pulls an OAuth authorization code out of user-pasted text.
// Accepts both a bare "code=abc" fragment and a full redirect URL.
func ExtractAuthCode(text string) (string, bool) {
	match := authCodePattern.FindStringSubmatch(text)
	if match == nil {
		return "", false
	}
	return match[1], true
}
