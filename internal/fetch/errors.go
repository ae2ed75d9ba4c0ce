package fetch

import (
	"errors"
)

var (
	// ErrSourceNotFound means no matching audio source was found for the query
	ErrSourceNotFound = errors.New("no matching audio source found")

	// ErrTranscode means the download or transcode tool failed
	ErrTranscode = errors.New("transcode failed")

	// ErrIO means the audio file could not be written to disk
	ErrIO = errors.New("audio file write failed")
)
