package reaper

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/andreyxaxa/Photo-Importer/internal/usecase"
	"github.com/andreyxaxa/Photo-Importer/pkg/logger"
)

// Reaper re-announces PENDING jobs whose "job inserted" event was lost, so
// the at-least-once contract holds even across a dropped publish. Jobs stuck
// in PROCESSING after a crash are deliberately left alone: reclaiming
// mid-handler work could double-write storage objects.
type Reaper struct {
	jobs   usecase.JobsUseCase
	logger logger.Interface

	pollInterval time.Duration
	pendingAge   time.Duration
	batchSize    int

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	started atomic.Bool
}

func New(
	jobs usecase.JobsUseCase,
	l logger.Interface,
	pollInterval time.Duration,
	pendingAge time.Duration,
	batchSize int,
) *Reaper {
	return &Reaper{
		jobs:         jobs,
		logger:       l,
		pollInterval: pollInterval,
		pendingAge:   pendingAge,
		batchSize:    batchSize,
	}
}

func (r *Reaper) Start(ctx context.Context) error {
	if !r.started.CompareAndSwap(false, true) {
		return fmt.Errorf("Reaper - Start - worker already started")
	}

	r.ctx, r.cancel = context.WithCancel(ctx)

	r.wg.Add(1)
	go func() {
		defer r.wg.Done()

		ticker := time.NewTicker(r.pollInterval)
		defer ticker.Stop()

		for {
			select {
			case <-r.ctx.Done():
				return
			case <-ticker.C:
				n, err := r.jobs.RepublishStale(r.ctx, r.pendingAge, r.batchSize)
				if err != nil {
					r.logger.Error(err, "Reaper - Start - r.jobs.RepublishStale")
					continue
				}
				if n > 0 {
					r.logger.Info("republished %d stale pending jobs", n)
				}
			}
		}
	}()

	return nil
}

func (r *Reaper) Shutdown(ctx context.Context) error {
	if !r.started.Load() {
		return nil
	}

	if r.cancel != nil {
		r.cancel()
	}

	done := make(chan struct{})

	go func() {
		r.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return nil
	}
}
