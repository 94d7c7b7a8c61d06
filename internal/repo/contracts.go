package repo

import (
	"context"
	"time"

	"github.com/andreyxaxa/Photo-Importer/internal/entity"
	"github.com/google/uuid"
)

type (
	JobRepo interface {
		Create(ctx context.Context, job *entity.Job) error
		GetByID(ctx context.Context, id uuid.UUID) (*entity.Job, error)
		// Claim is the conditional PENDING -> PROCESSING transition.
		// false means the job was already claimed (or is terminal): skip it.
		Claim(ctx context.Context, id uuid.UUID) (bool, error)
		// UpdateStatus refuses to move a job out of a terminal status and
		// requires a message when setting FAILED.
		UpdateStatus(ctx context.Context, id uuid.UUID, status entity.Status, lastError *string) error
		ListBySession(ctx context.Context, userID, sessionID string, jobType entity.JobType) ([]*entity.Job, error)
		// ListStalePending returns ids of PENDING jobs whose announcement may
		// have been lost, for re-publication.
		ListStalePending(ctx context.Context, olderThan time.Duration, limit int) ([]uuid.UUID, error)
	}

	ProcessedImageRepo interface {
		Create(ctx context.Context, image *entity.ProcessedImage) error
		ListByUser(ctx context.Context, userID string) ([]*entity.ProcessedImage, error)
		// DeleteByIDs removes the caller's rows and returns the deleted
		// entities so their storage objects can be cleaned up asynchronously.
		DeleteByIDs(ctx context.Context, userID string, ids []uuid.UUID) ([]*entity.ProcessedImage, error)
	}

	StorageRepo interface {
		PutImage(ctx context.Context, key string, data []byte, contentType string) (string, error)
		PutThumbnail(ctx context.Context, key string, data []byte, contentType string) (string, error)
		RemoveImage(ctx context.Context, key string) error
		RemoveThumbnail(ctx context.Context, key string) error
	}

	Transactor interface {
		WithinTransaction(ctx context.Context, f func(ctx context.Context) error) error
	}
)
