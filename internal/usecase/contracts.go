package usecase

import (
	"context"
	"time"

	"github.com/andreyxaxa/Photo-Importer/internal/dto"
	"github.com/andreyxaxa/Photo-Importer/internal/entity"
	"github.com/google/uuid"
)

type (
	// JobsUseCase owns the job lifecycle: validated inserts that double as
	// publish events, the atomic claim, and terminal transitions.
	JobsUseCase interface {
		Enqueue(ctx context.Context, userID, sessionID string, jobType entity.JobType, payload any) (*entity.Job, error)
		// Claim rehydrates the job after the PENDING -> PROCESSING
		// transition; claimed == false means a duplicate delivery.
		Claim(ctx context.Context, id uuid.UUID) (*entity.Job, bool, error)
		Complete(ctx context.Context, id uuid.UUID) error
		Fail(ctx context.Context, id uuid.UUID, cause error) error
		RepublishStale(ctx context.Context, olderThan time.Duration, limit int) (int, error)
	}

	// ImporterUseCase holds the per-type pipeline handlers. All of them are
	// stateless functions of the job row; nothing survives between calls.
	ImporterUseCase interface {
		ProcessSession(ctx context.Context, job *entity.Job) error
		ProcessPage(ctx context.Context, job *entity.Job) error
		UploadImage(ctx context.Context, job *entity.Job) error
		DeleteImages(ctx context.Context, job *entity.Job) error
	}

	// ProgressUseCase is the read side: a pure snapshot over committed job
	// rows, safe to poll at any frequency.
	ProgressUseCase interface {
		SessionProgress(ctx context.Context, userID, sessionID string) (*dto.SessionProgress, error)
	}

	// GalleryUseCase backs the user-facing HTTP operations.
	GalleryUseCase interface {
		CreateSession(ctx context.Context, accessToken string) (*dto.PickerSession, error)
		StartImport(ctx context.Context, userID, sessionID, accessToken string, albumID *string) (*entity.Job, error)
		ListImages(ctx context.Context, userID string) ([]*entity.ProcessedImage, error)
		DeleteImages(ctx context.Context, userID string, ids []uuid.UUID) (int, error)
	}
)
