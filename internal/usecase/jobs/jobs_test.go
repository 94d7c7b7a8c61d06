package jobs

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/andreyxaxa/Photo-Importer/internal/dto"
	"github.com/andreyxaxa/Photo-Importer/internal/entity"
	"github.com/andreyxaxa/Photo-Importer/pkg/types/errs"
	"github.com/google/uuid"
)

type fakeJobRepo struct {
	created  []*entity.Job
	byID     map[uuid.UUID]*entity.Job
	claimed  map[uuid.UUID]bool
	statuses map[uuid.UUID]entity.Status
	lastErrs map[uuid.UUID]*string
	stale    []uuid.UUID

	createErr error
}

func newFakeJobRepo() *fakeJobRepo {
	return &fakeJobRepo{
		byID:     map[uuid.UUID]*entity.Job{},
		claimed:  map[uuid.UUID]bool{},
		statuses: map[uuid.UUID]entity.Status{},
		lastErrs: map[uuid.UUID]*string{},
	}
}

func (f *fakeJobRepo) Create(ctx context.Context, job *entity.Job) error {
	if f.createErr != nil {
		return f.createErr
	}
	f.created = append(f.created, job)
	f.byID[job.ID] = job
	return nil
}

func (f *fakeJobRepo) GetByID(ctx context.Context, id uuid.UUID) (*entity.Job, error) {
	job, ok := f.byID[id]
	if !ok {
		return nil, errs.ErrRecordNotFound
	}
	return job, nil
}

func (f *fakeJobRepo) Claim(ctx context.Context, id uuid.UUID) (bool, error) {
	if _, ok := f.byID[id]; !ok {
		return false, nil
	}
	if f.claimed[id] {
		return false, nil
	}
	f.claimed[id] = true
	return true, nil
}

func (f *fakeJobRepo) UpdateStatus(ctx context.Context, id uuid.UUID, status entity.Status, lastError *string) error {
	f.statuses[id] = status
	f.lastErrs[id] = lastError
	return nil
}

func (f *fakeJobRepo) ListBySession(ctx context.Context, userID, sessionID string, jobType entity.JobType) ([]*entity.Job, error) {
	return nil, nil
}

func (f *fakeJobRepo) ListStalePending(ctx context.Context, olderThan time.Duration, limit int) ([]uuid.UUID, error) {
	return f.stale, nil
}

type fakeAnnouncer struct {
	announced []uuid.UUID
	err       error
}

func (f *fakeAnnouncer) Announce(ctx context.Context, jobIDs ...uuid.UUID) error {
	if f.err != nil {
		return f.err
	}
	f.announced = append(f.announced, jobIDs...)
	return nil
}

func (f *fakeAnnouncer) Close() error { return nil }

type nopLogger struct{}

func (nopLogger) Debug(message interface{}, args ...interface{}) {}
func (nopLogger) Info(message string, args ...interface{})       {}
func (nopLogger) Warn(message string, args ...interface{})       {}
func (nopLogger) Error(message interface{}, args ...interface{}) {}
func (nopLogger) Fatal(message interface{}, args ...interface{}) {}

func TestEnqueue_InsertsAndAnnounces(t *testing.T) {
	repo := newFakeJobRepo()
	announcer := &fakeAnnouncer{}
	uc := New(repo, announcer, nopLogger{})

	job, err := uc.Enqueue(context.Background(), "user-1", "session-1", entity.JobProcessSession, dto.ProcessSessionPayload{
		AccessToken: "token",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if job.Status != entity.Pending {
		t.Fatalf("status = %q, want %q", job.Status, entity.Pending)
	}
	if len(repo.created) != 1 {
		t.Fatalf("created %d jobs, want 1", len(repo.created))
	}
	if len(announcer.announced) != 1 || announcer.announced[0] != job.ID {
		t.Fatalf("announced %v, want [%s]", announcer.announced, job.ID)
	}
}

func TestEnqueue_AnnounceFailureIsTolerated(t *testing.T) {
	repo := newFakeJobRepo()
	announcer := &fakeAnnouncer{err: errors.New("broker down")}
	uc := New(repo, announcer, nopLogger{})

	job, err := uc.Enqueue(context.Background(), "user-1", "session-1", entity.JobProcessSession, dto.ProcessSessionPayload{
		AccessToken: "token",
	})
	if err != nil {
		t.Fatalf("enqueue must survive a failed announce, got: %v", err)
	}
	if len(repo.created) != 1 || repo.created[0].ID != job.ID {
		t.Fatalf("job row must still be inserted")
	}
}

func TestEnqueue_PayloadValidation(t *testing.T) {
	cases := []struct {
		name    string
		jobType entity.JobType
		payload any
	}{
		{"session without token", entity.JobProcessSession, dto.ProcessSessionPayload{}},
		{"session with wrong shape", entity.JobProcessSession, dto.ProcessPagePayload{AccessToken: "t", PageSize: 10}},
		{"page without token", entity.JobProcessPage, dto.ProcessPagePayload{PageSize: 10}},
		{"page with zero size", entity.JobProcessPage, dto.ProcessPagePayload{AccessToken: "t"}},
		{"upload without item id", entity.JobUploadImage, dto.UploadImagePayload{AccessToken: "t", Item: dto.ProviderItem{BaseURL: "u"}}},
		{"upload without base url", entity.JobUploadImage, dto.UploadImagePayload{AccessToken: "t", Item: dto.ProviderItem{ID: "i"}}},
		{"delete with empty batch", entity.JobDeleteImage, dto.DeleteImagePayload{}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			repo := newFakeJobRepo()
			uc := New(repo, &fakeAnnouncer{}, nopLogger{})

			_, err := uc.Enqueue(context.Background(), "user-1", "session-1", tc.jobType, tc.payload)
			if !errors.Is(err, errs.ErrValidation) {
				t.Fatalf("error = %v, want %v", err, errs.ErrValidation)
			}
			if len(repo.created) != 0 {
				t.Fatalf("invalid payload must not reach the store")
			}
		})
	}
}

func TestEnqueue_UnknownType(t *testing.T) {
	uc := New(newFakeJobRepo(), &fakeAnnouncer{}, nopLogger{})

	_, err := uc.Enqueue(context.Background(), "user-1", "session-1", entity.JobType("RESIZE_VIDEO"), nil)
	if !errors.Is(err, errs.ErrUnknownJobType) {
		t.Fatalf("error = %v, want %v", err, errs.ErrUnknownJobType)
	}
}

func TestClaim(t *testing.T) {
	repo := newFakeJobRepo()
	uc := New(repo, &fakeAnnouncer{}, nopLogger{})

	job, err := uc.Enqueue(context.Background(), "user-1", "session-1", entity.JobProcessSession, dto.ProcessSessionPayload{
		AccessToken: "token",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	got, claimed, err := uc.Claim(context.Background(), job.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !claimed {
		t.Fatalf("first claim must win")
	}
	if got.ID != job.ID {
		t.Fatalf("claimed job id = %s, want %s", got.ID, job.ID)
	}

	_, claimed, err = uc.Claim(context.Background(), job.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if claimed {
		t.Fatalf("duplicate claim must lose")
	}
}

func TestFail_NormalizesMessage(t *testing.T) {
	repo := newFakeJobRepo()
	uc := New(repo, &fakeAnnouncer{}, nopLogger{})
	id := uuid.New()

	if err := uc.Fail(context.Background(), id, errors.New(strings.Repeat("x", 5000))); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	msg := repo.lastErrs[id]
	if msg == nil {
		t.Fatalf("FAILED must carry a message")
	}
	if len(*msg) != 1024 {
		t.Fatalf("message length = %d, want 1024", len(*msg))
	}
	if repo.statuses[id] != entity.Failed {
		t.Fatalf("status = %q, want %q", repo.statuses[id], entity.Failed)
	}
}

func TestFail_NilCause(t *testing.T) {
	repo := newFakeJobRepo()
	uc := New(repo, &fakeAnnouncer{}, nopLogger{})
	id := uuid.New()

	if err := uc.Fail(context.Background(), id, nil); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if msg := repo.lastErrs[id]; msg == nil || *msg == "" {
		t.Fatalf("FAILED without a cause still needs a non-empty message")
	}
}

func TestRepublishStale(t *testing.T) {
	repo := newFakeJobRepo()
	repo.stale = []uuid.UUID{uuid.New(), uuid.New()}
	announcer := &fakeAnnouncer{}
	uc := New(repo, announcer, nopLogger{})

	n, err := uc.RepublishStale(context.Background(), time.Minute, 100)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if n != 2 {
		t.Fatalf("republished %d, want 2", n)
	}
	if len(announcer.announced) != 2 {
		t.Fatalf("announced %d ids, want 2", len(announcer.announced))
	}
}

func TestRepublishStale_Empty(t *testing.T) {
	announcer := &fakeAnnouncer{}
	uc := New(newFakeJobRepo(), announcer, nopLogger{})

	n, err := uc.RepublishStale(context.Background(), time.Minute, 100)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if n != 0 || len(announcer.announced) != 0 {
		t.Fatalf("nothing stale must publish nothing")
	}
}
