package reaper

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/andreyxaxa/Photo-Importer/internal/entity"
	"github.com/google/uuid"
)

type fakeJobs struct {
	mu       sync.Mutex
	calls    int
	notified chan struct{}
}

func (f *fakeJobs) Enqueue(ctx context.Context, userID, sessionID string, jobType entity.JobType, payload any) (*entity.Job, error) {
	return nil, errors.New("not implemented")
}

func (f *fakeJobs) Claim(ctx context.Context, id uuid.UUID) (*entity.Job, bool, error) {
	return nil, false, errors.New("not implemented")
}

func (f *fakeJobs) Complete(ctx context.Context, id uuid.UUID) error          { return nil }
func (f *fakeJobs) Fail(ctx context.Context, id uuid.UUID, cause error) error { return nil }

func (f *fakeJobs) RepublishStale(ctx context.Context, olderThan time.Duration, limit int) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.calls++
	if f.calls == 1 && f.notified != nil {
		close(f.notified)
	}
	return 0, nil
}

type nopLogger struct{}

func (nopLogger) Debug(message interface{}, args ...interface{}) {}
func (nopLogger) Info(message string, args ...interface{})       {}
func (nopLogger) Warn(message string, args ...interface{})       {}
func (nopLogger) Error(message interface{}, args ...interface{}) {}
func (nopLogger) Fatal(message interface{}, args ...interface{}) {}

func TestReaper_RepublishesOnTick(t *testing.T) {
	jobs := &fakeJobs{notified: make(chan struct{})}
	r := New(jobs, nopLogger{}, 5*time.Millisecond, time.Minute, 100)

	if err := r.Start(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	select {
	case <-jobs.notified:
	case <-time.After(2 * time.Second):
		t.Fatalf("timed out waiting for the first republish tick")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	if err := r.Shutdown(shutdownCtx); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	jobs.mu.Lock()
	settled := jobs.calls
	jobs.mu.Unlock()

	time.Sleep(30 * time.Millisecond)

	jobs.mu.Lock()
	defer jobs.mu.Unlock()
	if jobs.calls > settled {
		t.Fatalf("reaper still ticking after shutdown: %d > %d", jobs.calls, settled)
	}
}

func TestReaper_DoubleStartRejected(t *testing.T) {
	r := New(&fakeJobs{}, nopLogger{}, time.Hour, time.Minute, 100)

	if err := r.Start(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := r.Start(context.Background()); err == nil {
		t.Fatalf("second start must be rejected")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	_ = r.Shutdown(shutdownCtx)
}
