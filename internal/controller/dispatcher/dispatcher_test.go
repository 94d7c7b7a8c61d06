package dispatcher

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/andreyxaxa/Photo-Importer/internal/entity"
	infrakafka "github.com/andreyxaxa/Photo-Importer/internal/infrastructure/kafka"
	"github.com/andreyxaxa/Photo-Importer/pkg/types/errs"
	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"
)

type fakeJobs struct {
	job      *entity.Job
	claimed  bool
	claimErr error

	completed []uuid.UUID
	failed    map[uuid.UUID]error
}

func newFakeJobs() *fakeJobs {
	return &fakeJobs{failed: map[uuid.UUID]error{}}
}

func (f *fakeJobs) Enqueue(ctx context.Context, userID, sessionID string, jobType entity.JobType, payload any) (*entity.Job, error) {
	return nil, errors.New("not implemented")
}

func (f *fakeJobs) Claim(ctx context.Context, id uuid.UUID) (*entity.Job, bool, error) {
	if f.claimErr != nil {
		return nil, false, f.claimErr
	}
	return f.job, f.claimed, nil
}

func (f *fakeJobs) Complete(ctx context.Context, id uuid.UUID) error {
	f.completed = append(f.completed, id)
	return nil
}

func (f *fakeJobs) Fail(ctx context.Context, id uuid.UUID, cause error) error {
	f.failed[id] = cause
	return nil
}

func (f *fakeJobs) RepublishStale(ctx context.Context, olderThan time.Duration, limit int) (int, error) {
	return 0, nil
}

type fakeImporter struct {
	err       error
	panicWith any

	handled []entity.JobType
}

func (f *fakeImporter) handle(job *entity.Job) error {
	f.handled = append(f.handled, job.Type)
	if f.panicWith != nil {
		panic(f.panicWith)
	}
	return f.err
}

func (f *fakeImporter) ProcessSession(ctx context.Context, job *entity.Job) error { return f.handle(job) }
func (f *fakeImporter) ProcessPage(ctx context.Context, job *entity.Job) error    { return f.handle(job) }
func (f *fakeImporter) UploadImage(ctx context.Context, job *entity.Job) error    { return f.handle(job) }
func (f *fakeImporter) DeleteImages(ctx context.Context, job *entity.Job) error   { return f.handle(job) }

type nopSource struct{}

func (nopSource) ReadEvent(ctx context.Context) (kafka.Message, error) {
	<-ctx.Done()
	return kafka.Message{}, ctx.Err()
}

func (nopSource) CommitEvent(ctx context.Context, event kafka.Message) error { return nil }
func (nopSource) Close() error                                               { return nil }

type nopLogger struct{}

func (nopLogger) Debug(message interface{}, args ...interface{}) {}
func (nopLogger) Info(message string, args ...interface{})       {}
func (nopLogger) Warn(message string, args ...interface{})       {}
func (nopLogger) Error(message interface{}, args ...interface{}) {}
func (nopLogger) Fatal(message interface{}, args ...interface{}) {}

func eventFor(id uuid.UUID) kafka.Message {
	value, _ := json.Marshal(infrakafka.JobEventPayload{JobID: id})
	return kafka.Message{Value: value}
}

func newDispatcher(jobs *fakeJobs, imp *fakeImporter) *Dispatcher {
	return New(jobs, imp, nopSource{}, nopLogger{}, time.Second, time.Second, 1)
}

func TestHandleEvent_Success(t *testing.T) {
	id := uuid.New()
	jobs := newFakeJobs()
	jobs.job = &entity.Job{ID: id, Type: entity.JobUploadImage, Status: entity.Processing}
	jobs.claimed = true
	imp := &fakeImporter{}

	d := newDispatcher(jobs, imp)

	if err := d.handleEvent(context.Background(), eventFor(id)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(imp.handled) != 1 || imp.handled[0] != entity.JobUploadImage {
		t.Fatalf("handled = %v, want one UPLOAD_IMAGE", imp.handled)
	}
	if len(jobs.completed) != 1 || jobs.completed[0] != id {
		t.Fatalf("completed = %v, want [%s]", jobs.completed, id)
	}
	if len(jobs.failed) != 0 {
		t.Fatalf("nothing should fail on success")
	}
}

func TestHandleEvent_HandlerErrorFailsJob(t *testing.T) {
	id := uuid.New()
	jobs := newFakeJobs()
	jobs.job = &entity.Job{ID: id, Type: entity.JobProcessPage, Status: entity.Processing}
	jobs.claimed = true
	imp := &fakeImporter{err: errors.New("provider returned 500")}

	d := newDispatcher(jobs, imp)

	// A job failure is an outcome, not a pipeline fault.
	if err := d.handleEvent(context.Background(), eventFor(id)); err != nil {
		t.Fatalf("job failure must not bubble up: %v", err)
	}
	if cause := jobs.failed[id]; cause == nil || !strings.Contains(cause.Error(), "provider returned 500") {
		t.Fatalf("failed cause = %v, want the handler error", jobs.failed[id])
	}
	if len(jobs.completed) != 0 {
		t.Fatalf("failed job must not complete")
	}
}

func TestHandleEvent_UnknownTypeFailsJob(t *testing.T) {
	id := uuid.New()
	jobs := newFakeJobs()
	jobs.job = &entity.Job{ID: id, Type: entity.JobType("RESIZE_VIDEO"), Status: entity.Processing}
	jobs.claimed = true
	imp := &fakeImporter{}

	d := newDispatcher(jobs, imp)

	if err := d.handleEvent(context.Background(), eventFor(id)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	cause := jobs.failed[id]
	if cause == nil || !errors.Is(cause, errs.ErrUnknownJobType) {
		t.Fatalf("failed cause = %v, want %v", cause, errs.ErrUnknownJobType)
	}
	if !strings.Contains(cause.Error(), "RESIZE_VIDEO") {
		t.Fatalf("failure message %q must name the unknown type", cause.Error())
	}
	if len(imp.handled) != 0 {
		t.Fatalf("no handler must run for an unknown type")
	}
}

func TestHandleEvent_DuplicateDeliverySkipped(t *testing.T) {
	jobs := newFakeJobs()
	jobs.claimed = false
	imp := &fakeImporter{}

	d := newDispatcher(jobs, imp)

	if err := d.handleEvent(context.Background(), eventFor(uuid.New())); err != nil {
		t.Fatalf("a lost claim must be a clean skip: %v", err)
	}
	if len(imp.handled) != 0 || len(jobs.completed) != 0 || len(jobs.failed) != 0 {
		t.Fatalf("a lost claim must touch nothing")
	}
}

func TestHandleEvent_NeverInsertedJobDropped(t *testing.T) {
	jobs := newFakeJobs()
	jobs.claimErr = errs.ErrRecordNotFound
	imp := &fakeImporter{}

	d := newDispatcher(jobs, imp)

	if err := d.handleEvent(context.Background(), eventFor(uuid.New())); err != nil {
		t.Fatalf("an announce without a row must be dropped: %v", err)
	}
}

func TestHandleEvent_ClaimInfraErrorPropagates(t *testing.T) {
	jobs := newFakeJobs()
	jobs.claimErr = errors.New("connection refused")

	d := newDispatcher(jobs, &fakeImporter{})

	if err := d.handleEvent(context.Background(), eventFor(uuid.New())); err == nil {
		t.Fatalf("an unreachable store must leave the event uncommitted")
	}
}

func TestHandleEvent_MalformedEventDropped(t *testing.T) {
	jobs := newFakeJobs()
	imp := &fakeImporter{}

	d := newDispatcher(jobs, imp)

	err := d.handleEvent(context.Background(), kafka.Message{Value: []byte("{not json")})
	if err != nil {
		t.Fatalf("a malformed event must be dropped, not retried: %v", err)
	}
	if len(imp.handled) != 0 {
		t.Fatalf("malformed events must never reach a handler")
	}
}

func TestHandleEvent_HandlerPanicFailsJob(t *testing.T) {
	id := uuid.New()
	jobs := newFakeJobs()
	jobs.job = &entity.Job{ID: id, Type: entity.JobProcessSession, Status: entity.Processing}
	jobs.claimed = true
	imp := &fakeImporter{panicWith: "nil session"}

	d := newDispatcher(jobs, imp)

	if err := d.handleEvent(context.Background(), eventFor(id)); err != nil {
		t.Fatalf("a handler panic must land on FAILED: %v", err)
	}
	cause := jobs.failed[id]
	if cause == nil || !strings.Contains(cause.Error(), "handler panic") {
		t.Fatalf("failed cause = %v, want a normalized panic message", cause)
	}
}
