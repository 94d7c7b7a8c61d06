package pollclient

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/andreyxaxa/Photo-Importer/internal/dto"
)

// scriptedFetcher returns its responses in order and repeats the last one.
type scriptedFetcher struct {
	mu        sync.Mutex
	responses []Snapshot
	calls     int
}

func (f *scriptedFetcher) SessionStatus(ctx context.Context, sessionID string) (*dto.SessionProgress, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	i := f.calls
	if i >= len(f.responses) {
		i = len(f.responses) - 1
	}
	f.calls++

	r := f.responses[i]
	return r.Progress, r.Err
}

func progressIn(phase dto.Phase) *dto.SessionProgress {
	return &dto.SessionProgress{Phase: phase}
}

func waitFor(t *testing.T, ch <-chan struct{}, what string) {
	t.Helper()
	select {
	case <-ch:
	case <-time.After(2 * time.Second):
		t.Fatalf("timed out waiting for %s", what)
	}
}

func TestPoller_CompletesExactlyOnce(t *testing.T) {
	fetcher := &scriptedFetcher{responses: []Snapshot{
		{Progress: progressIn(dto.PhaseScanning)},
		{Progress: progressIn(dto.PhaseUploading)},
		{Progress: progressIn(dto.PhaseComplete)},
	}}

	var completions int
	done := make(chan struct{})
	p := New(fetcher,
		Interval(5*time.Millisecond),
		OnComplete(func(progress dto.SessionProgress) {
			completions++
			if progress.Phase != dto.PhaseComplete {
				t.Errorf("completion phase = %q, want %q", progress.Phase, dto.PhaseComplete)
			}
			close(done)
		}),
	)

	p.Start(context.Background(), "session-1")
	waitFor(t, done, "completion callback")

	// The loop has stopped; a restart attempt after completion must not
	// re-fire the callback.
	p.Start(context.Background(), "session-1")
	time.Sleep(30 * time.Millisecond)

	if completions != 1 {
		t.Fatalf("completion fired %d times, want exactly 1", completions)
	}
}

func TestPoller_KeepsLastGoodOnTransientError(t *testing.T) {
	fetchErr := errors.New("status 502")
	fetcher := &scriptedFetcher{responses: []Snapshot{
		{Progress: progressIn(dto.PhaseUploading)},
		{Err: fetchErr},
		{Progress: progressIn(dto.PhaseComplete)},
	}}

	var mu sync.Mutex
	var snapshots []Snapshot
	done := make(chan struct{})
	p := New(fetcher,
		Interval(5*time.Millisecond),
		OnUpdate(func(s Snapshot) {
			mu.Lock()
			snapshots = append(snapshots, s)
			mu.Unlock()
		}),
		OnComplete(func(dto.SessionProgress) { close(done) }),
	)

	p.Start(context.Background(), "session-1")
	waitFor(t, done, "completion callback")

	mu.Lock()
	defer mu.Unlock()

	if len(snapshots) < 3 {
		t.Fatalf("got %d snapshots, want at least 3", len(snapshots))
	}

	failed := snapshots[1]
	if !errors.Is(failed.Err, fetchErr) {
		t.Fatalf("second snapshot err = %v, want %v", failed.Err, fetchErr)
	}
	if failed.Progress == nil || failed.Progress.Phase != dto.PhaseUploading {
		t.Fatalf("a transient error must keep the last good progress, got %+v", failed.Progress)
	}

	final := snapshots[len(snapshots)-1]
	if final.Err != nil || final.Progress.Phase != dto.PhaseComplete {
		t.Fatalf("final snapshot = %+v, want clean complete", final)
	}
}

func TestPoller_StopHaltsPolling(t *testing.T) {
	fetcher := &scriptedFetcher{responses: []Snapshot{
		{Progress: progressIn(dto.PhaseScanning)},
	}}

	first := make(chan struct{})
	var once sync.Once
	p := New(fetcher,
		Interval(5*time.Millisecond),
		OnUpdate(func(Snapshot) { once.Do(func() { close(first) }) }),
	)

	p.Start(context.Background(), "session-1")
	waitFor(t, first, "first poll")
	p.Stop()

	time.Sleep(30 * time.Millisecond)
	fetcher.mu.Lock()
	callsAfterStop := fetcher.calls
	fetcher.mu.Unlock()

	time.Sleep(30 * time.Millisecond)
	fetcher.mu.Lock()
	defer fetcher.mu.Unlock()
	if fetcher.calls > callsAfterStop {
		t.Fatalf("fetcher called %d times after stop settled at %d", fetcher.calls, callsAfterStop)
	}

	if last := p.Last(); last.Progress == nil || last.Progress.Phase != dto.PhaseScanning {
		t.Fatalf("last snapshot lost after stop: %+v", last)
	}
}

func TestPoller_StartWhileRunningIsNoop(t *testing.T) {
	block := make(chan struct{})
	fetcher := &scriptedFetcher{responses: []Snapshot{
		{Progress: progressIn(dto.PhaseScanning)},
	}}

	started := make(chan struct{})
	var once sync.Once
	p := New(fetcher,
		Interval(time.Hour),
		OnUpdate(func(Snapshot) {
			once.Do(func() { close(started) })
			<-block
		}),
	)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	p.Start(ctx, "session-1")
	waitFor(t, started, "first poll")

	p.Start(ctx, "session-1")
	close(block)

	time.Sleep(20 * time.Millisecond)
	fetcher.mu.Lock()
	defer fetcher.mu.Unlock()
	if fetcher.calls != 1 {
		t.Fatalf("second Start while running must not spawn a second loop, calls = %d", fetcher.calls)
	}
}
