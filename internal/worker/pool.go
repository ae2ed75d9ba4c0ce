package worker

import (
	"context"
	"log"
	"os"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/ytget/spotgram/internal/model"
)

// DefaultMaxParallel bounds concurrent track downloads within one batch
const DefaultMaxParallel = 4

// Acquirer obtains a local audio file for one track at the given bitrate
type Acquirer interface {
	Acquire(ctx context.Context, title, artist string, bitrate model.Bitrate) (string, error)
}

// Deliverer transmits a downloaded file to the user. The file is deleted by
// the pool after delivery regardless of the outcome.
type Deliverer interface {
	Deliver(ctx context.Context, track model.Track, path string) error
}

// Events carries the per-track notification callbacks. Progress references
// the track's original 1-based position and the batch total. Nil callbacks
// are skipped.
type Events struct {
	OnTrackStart func(position, total int, track model.Track)
	OnTrackError func(position, total int, track model.Track, err error)
}

// Pool runs batch downloads with a bounded number of concurrent track tasks
type Pool struct {
	acquirer    Acquirer
	maxParallel int
}

// NewPool creates a pool using the given acquirer
func NewPool(acquirer Acquirer, maxParallel int) *Pool {
	if maxParallel < 1 {
		maxParallel = DefaultMaxParallel
	}
	return &Pool{
		acquirer:    acquirer,
		maxParallel: maxParallel,
	}
}

// Process downloads every track of the batch concurrently and delivers each
// one as it completes. A single track's failure never cancels its siblings;
// it is logged, surfaced via events, and counted in the stats. Process
// returns only after all tracks have finished.
func (p *Pool) Process(ctx context.Context, batch *model.Batch, bitrate model.Bitrate, deliver Deliverer, events Events) model.BatchStats {
	var (
		totalBytes   atomic.Int64
		successCount atomic.Int64
		failureCount atomic.Int64
	)

	total := batch.Size()
	startedAt := time.Now()

	var g errgroup.Group
	g.SetLimit(p.maxParallel)

	for i, track := range batch.Tracks {
		position := i + 1
		g.Go(func() error {
			// Errors are recorded at the task boundary and never
			// propagated, so one failure cannot cancel the group.
			outcome := p.processTrack(ctx, track, position, total, bitrate, deliver, events)
			if outcome.Failed() {
				failureCount.Add(1)
			} else {
				successCount.Add(1)
				totalBytes.Add(outcome.Size)
			}
			return nil
		})
	}

	// Full barrier: no partial batch is ever reported as complete
	g.Wait()

	return model.BatchStats{
		TotalBytes:   totalBytes.Load(),
		Elapsed:      time.Since(startedAt),
		SuccessCount: int(successCount.Load()),
		FailureCount: int(failureCount.Load()),
	}
}

// processTrack acquires and delivers one track, reporting its outcome
func (p *Pool) processTrack(ctx context.Context, track model.Track, position, total int, bitrate model.Bitrate, deliver Deliverer, events Events) model.TrackOutcome {
	if events.OnTrackStart != nil {
		events.OnTrackStart(position, total, track)
	}

	outcome := model.TrackOutcome{Track: track, Position: position}

	path, err := p.acquirer.Acquire(ctx, track.Title, track.Artist, bitrate)
	if err != nil {
		log.Printf("Track %d/%d %q failed to download: %v", position, total, track, err)
		outcome.Err = err
		if events.OnTrackError != nil {
			events.OnTrackError(position, total, track, err)
		}
		return outcome
	}

	// The downloaded file is transient: delivered then deleted, whether or
	// not the transmission succeeded.
	defer func() {
		if removeErr := os.Remove(path); removeErr != nil {
			log.Printf("Failed to remove %s: %v", path, removeErr)
		}
	}()

	if info, statErr := os.Stat(path); statErr == nil {
		outcome.Size = info.Size()
	}
	outcome.Path = path

	if deliver != nil {
		if err := deliver.Deliver(ctx, track, path); err != nil {
			log.Printf("Track %d/%d %q failed to deliver: %v", position, total, track, err)
			outcome.Err = err
			if events.OnTrackError != nil {
				events.OnTrackError(position, total, track, err)
			}
			return outcome
		}
	}

	return outcome
}
