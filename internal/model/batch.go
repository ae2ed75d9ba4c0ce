package model

import (
	"time"
)

// Track is a single resolved catalog entry. Identity is the (Title, Artist)
// pair; no catalog ID is retained once a batch has been resolved.
type Track struct {
	Title  string
	Artist string
}

// String returns the track in "Title - Artist" display form
func (t Track) String() string {
	return t.Title + " - " + t.Artist
}

// Batch holds the ordered tracks resolved from one submitted link.
// A batch is created when a link is resolved and discarded after
// processing completes or fails.
type Batch struct {
	SourceLink  string
	DisplayName string
	Tracks      []Track
}

// Size returns the number of tracks in the batch
func (b *Batch) Size() int {
	return len(b.Tracks)
}

// TrackOutcome records the result of downloading one track of a batch.
// Either Path and Size are set (success) or Err is set (failure).
type TrackOutcome struct {
	Track    Track
	Position int // 1-based index within the batch
	Path     string
	Size     int64
	Err      error
}

// Failed reports whether the track download ended in an error
func (o TrackOutcome) Failed() bool {
	return o.Err != nil
}

// BatchStats aggregates the outcomes of one processed batch.
type BatchStats struct {
	TotalBytes   int64
	Elapsed      time.Duration
	SuccessCount int
	FailureCount int
}

// Total returns the number of recorded outcomes
func (s BatchStats) Total() int {
	return s.SuccessCount + s.FailureCount
}
