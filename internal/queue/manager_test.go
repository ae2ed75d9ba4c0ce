package queue

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/ytget/spotgram/internal/model"
)

// fakeResolver records resolution order and fails for marked links
type fakeResolver struct {
	mu       sync.Mutex
	resolved []string
	failFor  map[string]error
}

func (f *fakeResolver) Resolve(ctx context.Context, userID int64, link string) (*model.Batch, error) {
	f.mu.Lock()
	f.resolved = append(f.resolved, link)
	f.mu.Unlock()

	if err, ok := f.failFor[link]; ok {
		return nil, err
	}
	return &model.Batch{
		SourceLink:  link,
		DisplayName: link,
		Tracks:      []model.Track{{Title: "T", Artist: "A"}},
	}, nil
}

func (f *fakeResolver) order() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.resolved...)
}

// fakeRunner optionally blocks inside Run until released
type fakeRunner struct {
	mu      sync.Mutex
	ran     []string
	started chan string
	release chan struct{}
}

func (f *fakeRunner) Run(ctx context.Context, userID int64, batch *model.Batch) model.BatchStats {
	if f.started != nil {
		f.started <- batch.SourceLink
	}
	if f.release != nil {
		<-f.release
	}
	f.mu.Lock()
	f.ran = append(f.ran, batch.SourceLink)
	f.mu.Unlock()
	return model.BatchStats{SuccessCount: batch.Size()}
}

func (f *fakeRunner) runs() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.ran...)
}

// waitIdle polls until the user's queue returns to Idle
func waitIdle(t *testing.T, m *Manager, userID int64) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if m.State(userID) == model.QueueStateIdle && len(m.PeekAll(userID)) == 0 {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal("Queue did not become idle in time")
}

func TestEnqueueDrainsFIFO(t *testing.T) {
	resolver := &fakeResolver{}
	runner := &fakeRunner{}
	m := NewManager(resolver, runner, Events{})

	m.Enqueue(context.Background(), 1, "link-a")
	m.Enqueue(context.Background(), 1, "link-b")
	m.Enqueue(context.Background(), 1, "link-c")
	waitIdle(t, m, 1)

	got := resolver.order()
	want := []string{"link-a", "link-b", "link-c"}
	if strings.Join(got, ",") != strings.Join(want, ",") {
		t.Errorf("Expected FIFO order %v, got %v", want, got)
	}
}

func TestEnqueueDuringDrainKeepsOrder(t *testing.T) {
	resolver := &fakeResolver{}
	runner := &fakeRunner{
		started: make(chan string, 8),
		release: make(chan struct{}),
	}
	m := NewManager(resolver, runner, Events{})

	m.Enqueue(context.Background(), 1, "link-a")
	m.Enqueue(context.Background(), 1, "link-b")

	// Wait until A is inside the runner, then enqueue C behind B
	<-runner.started
	m.Enqueue(context.Background(), 1, "link-c")
	close(runner.release)
	for range 2 {
		<-runner.started
	}
	waitIdle(t, m, 1)

	got := runner.runs()
	want := []string{"link-a", "link-b", "link-c"}
	if strings.Join(got, ",") != strings.Join(want, ",") {
		t.Errorf("Expected order %v, got %v", want, got)
	}
}

func TestClearLeavesInFlightBatch(t *testing.T) {
	resolver := &fakeResolver{}
	runner := &fakeRunner{
		started: make(chan string, 8),
		release: make(chan struct{}),
	}
	m := NewManager(resolver, runner, Events{})

	m.Enqueue(context.Background(), 1, "link-a")
	m.Enqueue(context.Background(), 1, "link-b")

	// A is in flight; clear must drop only B
	<-runner.started
	dropped := m.Clear(1)
	if dropped != 1 {
		t.Errorf("Expected 1 pending link dropped, got %d", dropped)
	}

	close(runner.release)
	waitIdle(t, m, 1)

	got := runner.runs()
	if len(got) != 1 || got[0] != "link-a" {
		t.Errorf("Expected only link-a to run, got %v", got)
	}
}

func TestResolveErrorContinuesToNextLink(t *testing.T) {
	resolver := &fakeResolver{
		failFor: map[string]error{"link-bad": errors.New("catalog unavailable")},
	}
	runner := &fakeRunner{}

	var mu sync.Mutex
	var reported []string
	events := Events{
		OnResolveError: func(userID int64, link string, err error) {
			mu.Lock()
			reported = append(reported, link)
			mu.Unlock()
		},
	}
	m := NewManager(resolver, runner, events)

	m.Enqueue(context.Background(), 1, "link-bad")
	m.Enqueue(context.Background(), 1, "link-good")
	waitIdle(t, m, 1)

	if len(reported) != 1 || reported[0] != "link-bad" {
		t.Errorf("Expected one resolve error for link-bad, got %v", reported)
	}

	got := runner.runs()
	if len(got) != 1 || got[0] != "link-good" {
		t.Errorf("Expected link-good to still run, got %v", got)
	}
}

func TestPeekAllSnapshot(t *testing.T) {
	resolver := &fakeResolver{}
	runner := &fakeRunner{
		started: make(chan string, 8),
		release: make(chan struct{}),
	}
	m := NewManager(resolver, runner, Events{})

	m.Enqueue(context.Background(), 1, "link-a")
	<-runner.started
	m.Enqueue(context.Background(), 1, "link-b")
	m.Enqueue(context.Background(), 1, "link-c")

	snapshot := m.PeekAll(1)
	want := []string{"link-b", "link-c"}
	if strings.Join(snapshot, ",") != strings.Join(want, ",") {
		t.Errorf("Expected pending %v, got %v", want, snapshot)
	}

	// Mutating the snapshot must not affect the queue
	snapshot[0] = "mutated"
	again := m.PeekAll(1)
	if again[0] != "link-b" {
		t.Error("Expected PeekAll to return an independent copy")
	}

	close(runner.release)
	waitIdle(t, m, 1)
}

func TestUsersDrainIndependently(t *testing.T) {
	resolver := &fakeResolver{}
	runner := &fakeRunner{
		started: make(chan string, 8),
		release: make(chan struct{}),
	}
	m := NewManager(resolver, runner, Events{})

	// User 1 is blocked inside a batch; user 2 must still drain
	m.Enqueue(context.Background(), 1, "link-a")
	<-runner.started

	fastRunner := runner // same runner, but user 2's batch also signals started
	m.Enqueue(context.Background(), 2, "link-z")
	select {
	case link := <-fastRunner.started:
		if link != "link-z" {
			t.Errorf("Expected user 2's batch to start, got %s", link)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("User 2's queue was blocked by user 1")
	}

	close(runner.release)
	waitIdle(t, m, 1)
	waitIdle(t, m, 2)
}

func TestBatchEvents(t *testing.T) {
	resolver := &fakeResolver{}
	runner := &fakeRunner{}

	var mu sync.Mutex
	var startCount, doneCount int
	var lastStats model.BatchStats

	events := Events{
		OnBatchStart: func(userID int64, batch *model.Batch) {
			mu.Lock()
			startCount++
			mu.Unlock()
		},
		OnBatchDone: func(userID int64, batch *model.Batch, stats model.BatchStats) {
			mu.Lock()
			doneCount++
			lastStats = stats
			mu.Unlock()
		},
	}
	m := NewManager(resolver, runner, events)

	m.Enqueue(context.Background(), 1, "link-a")
	waitIdle(t, m, 1)

	mu.Lock()
	defer mu.Unlock()
	if startCount != 1 || doneCount != 1 {
		t.Errorf("Expected 1 start and 1 done event, got %d/%d", startCount, doneCount)
	}
	if lastStats.SuccessCount != 1 {
		t.Errorf("Expected stats forwarded to done event, got %+v", lastStats)
	}
}
