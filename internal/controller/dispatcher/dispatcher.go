package dispatcher

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/andreyxaxa/Photo-Importer/internal/entity"
	infrakafka "github.com/andreyxaxa/Photo-Importer/internal/infrastructure/kafka"
	"github.com/andreyxaxa/Photo-Importer/internal/usecase"
	"github.com/andreyxaxa/Photo-Importer/pkg/logger"
	"github.com/andreyxaxa/Photo-Importer/pkg/types/errs"
	"github.com/segmentio/kafka-go"
)

// EventSource is the at-least-once stream of "job inserted" events.
type EventSource interface {
	ReadEvent(ctx context.Context) (kafka.Message, error)
	CommitEvent(ctx context.Context, event kafka.Message) error
	Close() error
}

// Dispatcher consumes "job inserted" events and drives each job through its
// state machine exactly once per claim: claim, run the type's handler, land
// on COMPLETED or FAILED. A job failure is a recorded outcome, not a
// pipeline fault, so the triggering event is committed either way.
type Dispatcher struct {
	jobs     usecase.JobsUseCase
	importer usecase.ImporterUseCase
	ec       EventSource
	logger   logger.Interface

	commitTimeout  time.Duration
	processTimeout time.Duration

	workers int
	ctx     context.Context
	cancel  context.CancelFunc
	wg      sync.WaitGroup

	started atomic.Bool
}

func New(
	jobs usecase.JobsUseCase,
	imp usecase.ImporterUseCase,
	ec EventSource,
	l logger.Interface,
	commitTimeout time.Duration,
	processTimeout time.Duration,
	workers int,
) *Dispatcher {
	return &Dispatcher{
		jobs:           jobs,
		importer:       imp,
		ec:             ec,
		logger:         l,
		commitTimeout:  commitTimeout,
		processTimeout: processTimeout,
		workers:        workers,
	}
}

func (d *Dispatcher) Start(ctx context.Context) error {
	if !d.started.CompareAndSwap(false, true) {
		return fmt.Errorf("Dispatcher - Start - dispatcher already started")
	}

	d.ctx, d.cancel = context.WithCancel(ctx)

	tasks := make(chan kafka.Message, d.workers*2)

	for i := 0; i < d.workers; i++ {
		d.wg.Add(1)
		go d.worker(tasks)
	}

	d.wg.Add(1)
	go func() {
		defer d.wg.Done()
		defer close(tasks)

		for {
			select {
			case <-d.ctx.Done():
				return
			default:
				event, err := d.ec.ReadEvent(d.ctx)
				if err != nil {
					if !errors.Is(err, context.Canceled) {
						d.logger.Error(err, "Dispatcher - Start - d.ec.ReadEvent")
					}
					continue
				}

				select {
				case tasks <- event:
				case <-d.ctx.Done():
					return
				}
			}
		}
	}()

	return nil
}

func (d *Dispatcher) worker(tasks <-chan kafka.Message) {
	defer d.wg.Done()

	for event := range tasks {
		processCtx, processCancel := context.WithTimeout(d.ctx, d.processTimeout)
		err := d.handleEvent(processCtx, event)
		processCancel()
		if err != nil {
			// Store unreachable; leave the event uncommitted so the broker
			// redelivers it. The claim makes redelivery idempotent.
			d.logger.Error(err, "Dispatcher - worker - d.handleEvent")
			continue
		}

		commitCtx, commitCancel := context.WithTimeout(d.ctx, d.commitTimeout)
		err = d.ec.CommitEvent(commitCtx, event)
		commitCancel()
		if err != nil {
			d.logger.Error(err, "Dispatcher - worker - d.ec.CommitEvent")
		}
	}
}

// handleEvent returns an error only for infrastructure failures. Job-level
// failures are absorbed into the FAILED status and reported as nil so the
// event gets acknowledged.
func (d *Dispatcher) handleEvent(ctx context.Context, event kafka.Message) error {
	var payload infrakafka.JobEventPayload
	if err := json.Unmarshal(event.Value, &payload); err != nil {
		// Malformed event; redelivery cannot fix it.
		d.logger.Warn("dropping malformed job event: %v", err)
		return nil
	}

	job, claimed, err := d.jobs.Claim(ctx, payload.JobID)
	if err != nil {
		if errors.Is(err, errs.ErrRecordNotFound) {
			// The inserting transaction rolled back after the announce.
			d.logger.Debug("job %s announced but never inserted, dropping", payload.JobID)
			return nil
		}
		return fmt.Errorf("Dispatcher - handleEvent - d.jobs.Claim: %w", err)
	}
	if !claimed {
		// Duplicate delivery; someone else owns the job.
		return nil
	}

	handlerErr := d.dispatch(ctx, job)
	if handlerErr != nil {
		if err = d.jobs.Fail(ctx, job.ID, handlerErr); err != nil {
			return fmt.Errorf("Dispatcher - handleEvent - d.jobs.Fail: %w", err)
		}
		d.logger.Info("job %s type=%s failed: %v", job.ID, job.Type, handlerErr)
		return nil
	}

	if err = d.jobs.Complete(ctx, job.ID); err != nil {
		return fmt.Errorf("Dispatcher - handleEvent - d.jobs.Complete: %w", err)
	}

	return nil
}

// dispatch routes on the closed job-type set. An unrecognized type fails the
// job; it never retries. Handler panics are normalized into plain error
// strings so nothing but text reaches last_error.
func (d *Dispatcher) dispatch(ctx context.Context, job *entity.Job) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("handler panic: %v", r)
		}
	}()

	switch job.Type {
	case entity.JobProcessSession:
		return d.importer.ProcessSession(ctx, job)
	case entity.JobProcessPage:
		return d.importer.ProcessPage(ctx, job)
	case entity.JobUploadImage:
		return d.importer.UploadImage(ctx, job)
	case entity.JobDeleteImage:
		return d.importer.DeleteImages(ctx, job)
	default:
		return fmt.Errorf("type %q: %w", job.Type, errs.ErrUnknownJobType)
	}
}

func (d *Dispatcher) Shutdown(ctx context.Context) error {
	if !d.started.Load() {
		return nil
	}

	if d.cancel != nil {
		d.cancel()
	}

	done := make(chan struct{})

	go func() {
		d.wg.Wait()
		d.ec.Close()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return nil
	}
}
