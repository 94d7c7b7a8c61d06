package importer

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"path"
	"time"

	"github.com/andreyxaxa/Photo-Importer/internal/dto"
	"github.com/andreyxaxa/Photo-Importer/internal/entity"
	"github.com/andreyxaxa/Photo-Importer/internal/infrastructure"
	"github.com/andreyxaxa/Photo-Importer/internal/repo"
	"github.com/andreyxaxa/Photo-Importer/internal/usecase"
	"github.com/andreyxaxa/Photo-Importer/pkg/logger"
	"github.com/andreyxaxa/Photo-Importer/pkg/types/errs"
	"github.com/google/uuid"
)

const (
	_defaultPageSize     = 50
	_defaultMaxImageSide = 2048
)

// ImporterUseCase implements the pipeline handlers. Every handler is a
// stateless function of the job row; the dispatcher drives the status
// transitions around them.
type ImporterUseCase struct {
	jobs      usecase.JobsUseCase
	provider  infrastructure.PhotoProvider
	processor infrastructure.ImageProcessor
	storage   repo.StorageRepo
	images    repo.ProcessedImageRepo

	logger logger.Interface

	pageSize     int
	maxImageSide int
}

func New(
	jobs usecase.JobsUseCase,
	provider infrastructure.PhotoProvider,
	processor infrastructure.ImageProcessor,
	storage repo.StorageRepo,
	images repo.ProcessedImageRepo,
	l logger.Interface,
	opts ...Option,
) *ImporterUseCase {
	uc := &ImporterUseCase{
		jobs:         jobs,
		provider:     provider,
		processor:    processor,
		storage:      storage,
		images:       images,
		logger:       l,
		pageSize:     _defaultPageSize,
		maxImageSide: _defaultMaxImageSide,
	}

	for _, opt := range opts {
		opt(uc)
	}

	return uc
}

// ProcessSession is the session-level umbrella: it verifies the provider
// session is ready and seeds the first enumeration page.
func (uc *ImporterUseCase) ProcessSession(ctx context.Context, job *entity.Job) error {
	var payload dto.ProcessSessionPayload
	if err := json.Unmarshal(job.Data, &payload); err != nil {
		return fmt.Errorf("ImporterUseCase - ProcessSession - json.Unmarshal: %w", err)
	}

	session, err := uc.provider.GetSession(ctx, payload.AccessToken, job.SessionID)
	if err != nil {
		return fmt.Errorf("ImporterUseCase - ProcessSession - uc.provider.GetSession: %w", err)
	}

	if !session.MediaItemsSet {
		return fmt.Errorf("ImporterUseCase - ProcessSession - session %s has no items selected: %w", job.SessionID, errs.ErrProvider)
	}

	_, err = uc.jobs.Enqueue(ctx, job.UserID, job.SessionID, entity.JobProcessPage, dto.ProcessPagePayload{
		AccessToken: payload.AccessToken,
		PageSize:    uc.pageSize,
		AlbumID:     payload.AlbumID,
	})
	if err != nil {
		return fmt.Errorf("ImporterUseCase - ProcessSession - uc.jobs.Enqueue: %w", err)
	}

	return nil
}

// ProcessPage enumerates one page of selected items, spawns one UPLOAD_IMAGE
// job per item, and re-enqueues itself with the next page token. Enumeration
// is self-continuing; no handler invocation loops over more than one page.
func (uc *ImporterUseCase) ProcessPage(ctx context.Context, job *entity.Job) error {
	var payload dto.ProcessPagePayload
	if err := json.Unmarshal(job.Data, &payload); err != nil {
		return fmt.Errorf("ImporterUseCase - ProcessPage - json.Unmarshal: %w", err)
	}

	page, err := uc.provider.ListItems(ctx, payload.AccessToken, job.SessionID, payload.PageToken, payload.PageSize)
	if err != nil {
		return fmt.Errorf("ImporterUseCase - ProcessPage - uc.provider.ListItems: %w", err)
	}

	for _, item := range page.Items {
		_, err = uc.jobs.Enqueue(ctx, job.UserID, job.SessionID, entity.JobUploadImage, dto.UploadImagePayload{
			AccessToken: payload.AccessToken,
			Item:        item,
			AlbumID:     payload.AlbumID,
		})
		if err != nil {
			return fmt.Errorf("ImporterUseCase - ProcessPage - uc.jobs.Enqueue(upload): %w", err)
		}
	}

	if page.NextPageToken != "" {
		_, err = uc.jobs.Enqueue(ctx, job.UserID, job.SessionID, entity.JobProcessPage, dto.ProcessPagePayload{
			AccessToken: payload.AccessToken,
			PageToken:   page.NextPageToken,
			PageSize:    payload.PageSize,
			AlbumID:     payload.AlbumID,
		})
		if err != nil {
			return fmt.Errorf("ImporterUseCase - ProcessPage - uc.jobs.Enqueue(next page): %w", err)
		}
	}

	return nil
}

// UploadImage fetches one item at clamped dimensions, derives a thumbnail,
// persists both objects and records the processed_images row. Any failure
// propagates as-is; objects written before a later failure stay orphaned
// (known gap, not cleaned up here).
func (uc *ImporterUseCase) UploadImage(ctx context.Context, job *entity.Job) error {
	var payload dto.UploadImagePayload
	if err := json.Unmarshal(job.Data, &payload); err != nil {
		return fmt.Errorf("ImporterUseCase - UploadImage - json.Unmarshal: %w", err)
	}

	item := payload.Item

	width, height := clampDimensions(item.Width, item.Height, uc.maxImageSide, uc.maxImageSide)

	data, contentType, err := uc.provider.FetchBytes(ctx, payload.AccessToken, item.BaseURL, width, height)
	if err != nil {
		return fmt.Errorf("ImporterUseCase - UploadImage - uc.provider.FetchBytes: %w", err)
	}

	thumb, err := uc.processor.Thumbnail(ctx, data)
	if err != nil {
		return fmt.Errorf("ImporterUseCase - UploadImage - uc.processor.Thumbnail: %w", err)
	}

	imageKey := objectKey(job.UserID, job.SessionID, item.ID, extensionFor(contentType))
	thumbKey := objectKey(job.UserID, job.SessionID, item.ID+"_thumb", ".jpg")

	imageURL, err := uc.storage.PutImage(ctx, imageKey, data, contentType)
	if err != nil {
		return fmt.Errorf("ImporterUseCase - UploadImage - uc.storage.PutImage: %w", err)
	}

	thumbURL, err := uc.storage.PutThumbnail(ctx, thumbKey, thumb, "image/jpeg")
	if err != nil {
		return fmt.Errorf("ImporterUseCase - UploadImage - uc.storage.PutThumbnail: %w", err)
	}

	metadata, err := json.Marshal(item)
	if err != nil {
		return fmt.Errorf("ImporterUseCase - UploadImage - json.Marshal: %w", err)
	}

	err = uc.images.Create(ctx, &entity.ProcessedImage{
		ID:           uuid.New(),
		UserID:       job.UserID,
		AlbumID:      payload.AlbumID,
		SessionID:    job.SessionID,
		ExternalID:   item.ID,
		CapturedAt:   item.CreateTime,
		Width:        width,
		Height:       height,
		Metadata:     metadata,
		ImageKey:     imageKey,
		ThumbnailKey: thumbKey,
		ImageURL:     imageURL,
		ThumbnailURL: thumbURL,
		CreatedAt:    time.Now(),
	})
	if err != nil {
		return fmt.Errorf("ImporterUseCase - UploadImage - uc.images.Create: %w", err)
	}

	return nil
}

// DeleteImages removes the storage objects of one delete batch. The rows are
// already gone; a failed removal fails the job with the offending keys in the
// message.
func (uc *ImporterUseCase) DeleteImages(ctx context.Context, job *entity.Job) error {
	var payload dto.DeleteImagePayload
	if err := json.Unmarshal(job.Data, &payload); err != nil {
		return fmt.Errorf("ImporterUseCase - DeleteImages - json.Unmarshal: %w", err)
	}

	var removeErrs []error
	for _, obj := range payload.Objects {
		if err := uc.storage.RemoveImage(ctx, obj.ImageKey); err != nil {
			removeErrs = append(removeErrs, err)
		}
		if err := uc.storage.RemoveThumbnail(ctx, obj.ThumbnailKey); err != nil {
			removeErrs = append(removeErrs, err)
		}
	}

	if len(removeErrs) > 0 {
		return fmt.Errorf("ImporterUseCase - DeleteImages: %w", errors.Join(removeErrs...))
	}

	return nil
}

func objectKey(userID, sessionID, name, ext string) string {
	return path.Join(userID, sessionID, name) + ext
}

func extensionFor(contentType string) string {
	switch contentType {
	case "image/png":
		return ".png"
	case "image/gif":
		return ".gif"
	case "image/webp":
		return ".webp"
	default:
		return ".jpg"
	}
}
