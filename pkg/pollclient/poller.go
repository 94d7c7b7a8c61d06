package pollclient

import (
	"context"
	"sync"
	"time"

	"github.com/andreyxaxa/Photo-Importer/internal/dto"
)

const _defaultInterval = time.Second

// StatusFetcher returns the current progress snapshot for a session,
// typically by calling GET /v1/session-status/{sessionId}.
type StatusFetcher interface {
	SessionStatus(ctx context.Context, sessionID string) (*dto.SessionProgress, error)
}

// Snapshot is the poller's view after the latest tick. On a transient fetch
// error the last known progress is kept and Err marks the failure; polling
// continues.
type Snapshot struct {
	Progress *dto.SessionProgress
	Err      error
}

// Poller polls a session's progress on a fixed interval until the phase is
// complete, then invokes the completion callback exactly once and stops.
// A single poller instance is restartable after Stop, but runs at most one
// loop at a time.
type Poller struct {
	fetcher  StatusFetcher
	interval time.Duration

	onUpdate   func(Snapshot)
	onComplete func(dto.SessionProgress)

	mu       sync.Mutex
	cancel   context.CancelFunc
	last     Snapshot
	running  bool
	finished bool
}

func New(fetcher StatusFetcher, opts ...Option) *Poller {
	p := &Poller{
		fetcher:  fetcher,
		interval: _defaultInterval,
	}

	for _, opt := range opts {
		opt(p)
	}

	return p
}

// Start begins polling sessionID. Calling Start on an already running poller
// is a no-op.
func (p *Poller) Start(ctx context.Context, sessionID string) {
	p.mu.Lock()
	if p.running || p.finished {
		p.mu.Unlock()
		return
	}
	pollCtx, cancel := context.WithCancel(ctx)
	p.cancel = cancel
	p.running = true
	p.mu.Unlock()

	go p.loop(pollCtx, sessionID)
}

func (p *Poller) Stop() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.cancel != nil {
		p.cancel()
	}
	p.running = false
}

// Last returns the most recent snapshot.
func (p *Poller) Last() Snapshot {
	p.mu.Lock()
	defer p.mu.Unlock()

	return p.last
}

func (p *Poller) loop(ctx context.Context, sessionID string) {
	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		if done := p.poll(ctx, sessionID); done {
			p.Stop()
			return
		}

		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

func (p *Poller) poll(ctx context.Context, sessionID string) bool {
	progress, err := p.fetcher.SessionStatus(ctx, sessionID)

	p.mu.Lock()
	if err != nil {
		// Transient: keep the last known progress, mark the error, go on.
		p.last = Snapshot{Progress: p.last.Progress, Err: err}
	} else {
		p.last = Snapshot{Progress: progress}
	}
	snapshot := p.last
	complete := err == nil && progress.Phase == dto.PhaseComplete && !p.finished
	if complete {
		p.finished = true
	}
	p.mu.Unlock()

	if p.onUpdate != nil {
		p.onUpdate(snapshot)
	}

	if complete {
		if p.onComplete != nil {
			p.onComplete(*progress)
		}
		return true
	}

	return false
}
