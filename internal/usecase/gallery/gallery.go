package gallery

import (
	"context"
	"fmt"

	"github.com/andreyxaxa/Photo-Importer/internal/dto"
	"github.com/andreyxaxa/Photo-Importer/internal/entity"
	"github.com/andreyxaxa/Photo-Importer/internal/infrastructure"
	"github.com/andreyxaxa/Photo-Importer/internal/repo"
	"github.com/andreyxaxa/Photo-Importer/internal/usecase"
	"github.com/andreyxaxa/Photo-Importer/pkg/logger"
	"github.com/andreyxaxa/Photo-Importer/pkg/types/errs"
	"github.com/google/uuid"
)

const _defaultDeleteBatchSize = 20

// GalleryUseCase backs the user-facing operations: kicking off an import and
// managing already-imported images.
type GalleryUseCase struct {
	jobs       usecase.JobsUseCase
	images     repo.ProcessedImageRepo
	transactor repo.Transactor
	provider   infrastructure.PhotoProvider

	logger logger.Interface

	deleteBatchSize int
}

func New(
	jobs usecase.JobsUseCase,
	images repo.ProcessedImageRepo,
	transactor repo.Transactor,
	provider infrastructure.PhotoProvider,
	l logger.Interface,
	opts ...Option,
) *GalleryUseCase {
	uc := &GalleryUseCase{
		jobs:            jobs,
		images:          images,
		transactor:      transactor,
		provider:        provider,
		logger:          l,
		deleteBatchSize: _defaultDeleteBatchSize,
	}

	for _, opt := range opts {
		opt(uc)
	}

	return uc
}

// CreateSession opens a fresh picker session with the provider. The caller
// sends the user to PickerURI and starts the import once items are selected.
func (uc *GalleryUseCase) CreateSession(ctx context.Context, accessToken string) (*dto.PickerSession, error) {
	session, err := uc.provider.CreateSession(ctx, accessToken)
	if err != nil {
		return nil, fmt.Errorf("GalleryUseCase - CreateSession - uc.provider.CreateSession: %w", err)
	}

	return session, nil
}

func (uc *GalleryUseCase) StartImport(ctx context.Context, userID, sessionID, accessToken string, albumID *string) (*entity.Job, error) {
	if sessionID == "" {
		return nil, fmt.Errorf("GalleryUseCase - StartImport - session id is required: %w", errs.ErrValidation)
	}

	job, err := uc.jobs.Enqueue(ctx, userID, sessionID, entity.JobProcessSession, dto.ProcessSessionPayload{
		AccessToken: accessToken,
		AlbumID:     albumID,
	})
	if err != nil {
		return nil, fmt.Errorf("GalleryUseCase - StartImport - uc.jobs.Enqueue: %w", err)
	}

	return job, nil
}

func (uc *GalleryUseCase) ListImages(ctx context.Context, userID string) ([]*entity.ProcessedImage, error) {
	images, err := uc.images.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("GalleryUseCase - ListImages - uc.images.ListByUser: %w", err)
	}

	return images, nil
}

// DeleteImages removes the rows optimistically and enqueues batched
// DELETE_IMAGE jobs for the storage objects, all in one transaction. Storage
// cleanup is eventually consistent via the queue.
func (uc *GalleryUseCase) DeleteImages(ctx context.Context, userID string, ids []uuid.UUID) (int, error) {
	if len(ids) == 0 {
		return 0, fmt.Errorf("GalleryUseCase - DeleteImages - no ids given: %w", errs.ErrValidation)
	}

	// One cohort id per delete request; these jobs are not part of any
	// import session's progress.
	cohortID := uuid.NewString()

	var deleted int
	err := uc.transactor.WithinTransaction(ctx, func(ctx context.Context) error {
		images, err := uc.images.DeleteByIDs(ctx, userID, ids)
		if err != nil {
			return fmt.Errorf("uc.images.DeleteByIDs: %w", err)
		}
		deleted = len(images)
		if deleted == 0 {
			return fmt.Errorf("uc.images.DeleteByIDs: %w", errs.ErrRecordNotFound)
		}

		objects := make([]dto.StorageObject, 0, len(images))
		for _, image := range images {
			objects = append(objects, dto.StorageObject{
				ImageKey:     image.ImageKey,
				ThumbnailKey: image.ThumbnailKey,
			})
		}

		for start := 0; start < len(objects); start += uc.deleteBatchSize {
			end := start + uc.deleteBatchSize
			if end > len(objects) {
				end = len(objects)
			}

			_, err = uc.jobs.Enqueue(ctx, userID, cohortID, entity.JobDeleteImage, dto.DeleteImagePayload{
				Objects: objects[start:end],
			})
			if err != nil {
				return fmt.Errorf("uc.jobs.Enqueue: %w", err)
			}
		}

		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("GalleryUseCase - DeleteImages - uc.transactor.WithinTransaction: %w", err)
	}

	return deleted, nil
}
