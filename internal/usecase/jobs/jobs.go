package jobs

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/andreyxaxa/Photo-Importer/internal/dto"
	"github.com/andreyxaxa/Photo-Importer/internal/entity"
	"github.com/andreyxaxa/Photo-Importer/internal/infrastructure"
	"github.com/andreyxaxa/Photo-Importer/internal/repo"
	"github.com/andreyxaxa/Photo-Importer/pkg/logger"
	"github.com/andreyxaxa/Photo-Importer/pkg/types/errs"
	"github.com/google/uuid"
)

// last_error is bounded so arbitrary provider responses cannot bloat the row.
const _maxErrorLen = 1024

type JobsUseCase struct {
	jobRepo   repo.JobRepo
	announcer infrastructure.JobAnnouncer

	logger logger.Interface
}

func New(jobRepo repo.JobRepo, announcer infrastructure.JobAnnouncer, l logger.Interface) *JobsUseCase {
	return &JobsUseCase{
		jobRepo:   jobRepo,
		announcer: announcer,
		logger:    l,
	}
}

// Enqueue inserts a PENDING job and publishes its id. The insert boundary is
// the publish boundary: a failed publish is tolerated, because the stale
// PENDING row gets re-announced by the reaper.
func (uc *JobsUseCase) Enqueue(ctx context.Context, userID, sessionID string, jobType entity.JobType, payload any) (*entity.Job, error) {
	data, err := encodePayload(jobType, payload)
	if err != nil {
		return nil, fmt.Errorf("JobsUseCase - Enqueue: %w", err)
	}

	now := time.Now()
	job := &entity.Job{
		ID:        uuid.New(),
		Type:      jobType,
		SessionID: sessionID,
		UserID:    userID,
		Status:    entity.Pending,
		Data:      data,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err = uc.jobRepo.Create(ctx, job); err != nil {
		return nil, fmt.Errorf("JobsUseCase - Enqueue - uc.jobRepo.Create: %w", err)
	}

	if err = uc.announcer.Announce(ctx, job.ID); err != nil {
		uc.logger.Warn("job %s announce failed, waiting for republish: %v", job.ID, err)
	}

	return job, nil
}

func (uc *JobsUseCase) Claim(ctx context.Context, id uuid.UUID) (*entity.Job, bool, error) {
	claimed, err := uc.jobRepo.Claim(ctx, id)
	if err != nil {
		return nil, false, fmt.Errorf("JobsUseCase - Claim - uc.jobRepo.Claim: %w", err)
	}
	if !claimed {
		return nil, false, nil
	}

	job, err := uc.jobRepo.GetByID(ctx, id)
	if err != nil {
		return nil, false, fmt.Errorf("JobsUseCase - Claim - uc.jobRepo.GetByID: %w", err)
	}

	return job, true, nil
}

func (uc *JobsUseCase) Complete(ctx context.Context, id uuid.UUID) error {
	err := uc.jobRepo.UpdateStatus(ctx, id, entity.Completed, nil)
	if err != nil {
		return fmt.Errorf("JobsUseCase - Complete - uc.jobRepo.UpdateStatus: %w", err)
	}

	return nil
}

// Fail records the terminal FAILED status with a normalized error string.
func (uc *JobsUseCase) Fail(ctx context.Context, id uuid.UUID, cause error) error {
	msg := "unknown failure"
	if cause != nil {
		msg = cause.Error()
	}
	if len(msg) > _maxErrorLen {
		msg = msg[:_maxErrorLen]
	}

	err := uc.jobRepo.UpdateStatus(ctx, id, entity.Failed, &msg)
	if err != nil {
		return fmt.Errorf("JobsUseCase - Fail - uc.jobRepo.UpdateStatus: %w", err)
	}

	return nil
}

// RepublishStale re-announces PENDING jobs whose original announcement was
// lost. Returns how many were published.
func (uc *JobsUseCase) RepublishStale(ctx context.Context, olderThan time.Duration, limit int) (int, error) {
	ids, err := uc.jobRepo.ListStalePending(ctx, olderThan, limit)
	if err != nil {
		return 0, fmt.Errorf("JobsUseCase - RepublishStale - uc.jobRepo.ListStalePending: %w", err)
	}
	if len(ids) == 0 {
		return 0, nil
	}

	if err = uc.announcer.Announce(ctx, ids...); err != nil {
		return 0, fmt.Errorf("JobsUseCase - RepublishStale - uc.announcer.Announce: %w", err)
	}

	return len(ids), nil
}

// encodePayload binds the payload shape to the job type. The store stays
// dumb; this is the only place job_data is validated.
func encodePayload(jobType entity.JobType, payload any) (json.RawMessage, error) {
	switch jobType {
	case entity.JobProcessSession:
		p, ok := payload.(dto.ProcessSessionPayload)
		if !ok || p.AccessToken == "" {
			return nil, fmt.Errorf("process-session payload: %w", errs.ErrValidation)
		}
	case entity.JobProcessPage:
		p, ok := payload.(dto.ProcessPagePayload)
		if !ok || p.AccessToken == "" || p.PageSize <= 0 {
			return nil, fmt.Errorf("process-page payload: %w", errs.ErrValidation)
		}
	case entity.JobUploadImage:
		p, ok := payload.(dto.UploadImagePayload)
		if !ok || p.AccessToken == "" || p.Item.ID == "" || p.Item.BaseURL == "" {
			return nil, fmt.Errorf("upload-image payload: %w", errs.ErrValidation)
		}
	case entity.JobDeleteImage:
		p, ok := payload.(dto.DeleteImagePayload)
		if !ok || len(p.Objects) == 0 {
			return nil, fmt.Errorf("delete-image payload: %w", errs.ErrValidation)
		}
	default:
		return nil, fmt.Errorf("type %q: %w", jobType, errs.ErrUnknownJobType)
	}

	data, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("json.Marshal: %w", err)
	}

	return data, nil
}
