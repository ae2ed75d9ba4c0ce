package spotify

import (
	"errors"
)

var (
	// ErrAuthRequired means the user has no valid credentials. The caller
	// must prompt re-authentication and must not retry automatically.
	ErrAuthRequired = errors.New("spotify authorization required")

	// ErrUnsupportedLink means the submitted link is not a playlist,
	// album or track reference.
	ErrUnsupportedLink = errors.New("unsupported spotify link")

	// ErrCatalogUnavailable means the catalog service failed transiently.
	// This is the only condition a caller may choose to retry.
	ErrCatalogUnavailable = errors.New("spotify catalog unavailable")
)
