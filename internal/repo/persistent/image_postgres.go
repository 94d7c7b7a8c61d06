package persistent

import (
	"context"
	"fmt"
	"strings"

	"github.com/Masterminds/squirrel"
	"github.com/andreyxaxa/Photo-Importer/internal/entity"
	"github.com/andreyxaxa/Photo-Importer/pkg/postgres"
	"github.com/google/uuid"
)

const (
	// Table
	processedImagesTable = "processed_images"

	// Columns
	imgIDColumn           = "id"
	imgUserIDColumn       = "user_id"
	imgAlbumIDColumn      = "album_id"
	imgSessionIDColumn    = "session_id"
	imgExternalIDColumn   = "external_id"
	imgCapturedAtColumn   = "captured_at"
	imgWidthColumn        = "width"
	imgHeightColumn       = "height"
	imgMetadataColumn     = "metadata"
	imgImageKeyColumn     = "image_key"
	imgThumbnailKeyColumn = "thumbnail_key"
	imgImageURLColumn     = "image_url"
	imgThumbnailURLColumn = "thumbnail_url"
	imgCreatedAtColumn    = "created_at"
)

var processedImageColumns = []string{
	imgIDColumn,
	imgUserIDColumn,
	imgAlbumIDColumn,
	imgSessionIDColumn,
	imgExternalIDColumn,
	imgCapturedAtColumn,
	imgWidthColumn,
	imgHeightColumn,
	imgMetadataColumn,
	imgImageKeyColumn,
	imgThumbnailKeyColumn,
	imgImageURLColumn,
	imgThumbnailURLColumn,
	imgCreatedAtColumn,
}

type ProcessedImageRepo struct {
	*postgres.Postgres
}

func NewProcessedImageRepo(pg *postgres.Postgres) *ProcessedImageRepo {
	return &ProcessedImageRepo{pg}
}

func (r *ProcessedImageRepo) Create(ctx context.Context, image *entity.ProcessedImage) error {
	sql, args, err := r.Builder.
		Insert(processedImagesTable).
		Columns(processedImageColumns...).
		Values(
			image.ID,
			image.UserID,
			image.AlbumID,
			image.SessionID,
			image.ExternalID,
			image.CapturedAt,
			image.Width,
			image.Height,
			image.Metadata,
			image.ImageKey,
			image.ThumbnailKey,
			image.ImageURL,
			image.ThumbnailURL,
			image.CreatedAt,
		).
		ToSql()
	if err != nil {
		return fmt.Errorf("ProcessedImageRepo - Create - r.Builder.ToSql: %w", err)
	}

	executor := r.GetExecutor(ctx)

	_, err = executor.Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("ProcessedImageRepo - Create - executor.Exec: %w", err)
	}

	return nil
}

func (r *ProcessedImageRepo) ListByUser(ctx context.Context, userID string) ([]*entity.ProcessedImage, error) {
	sql, args, err := r.Builder.
		Select(processedImageColumns...).
		From(processedImagesTable).
		Where(squirrel.Eq{imgUserIDColumn: userID}).
		OrderBy(imgCreatedAtColumn + " DESC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("ProcessedImageRepo - ListByUser - r.Builder.ToSql: %w", err)
	}

	executor := r.GetExecutor(ctx)

	rows, err := executor.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("ProcessedImageRepo - ListByUser - executor.Query: %w", err)
	}
	defer rows.Close()

	return scanProcessedImages(rows)
}

// DeleteByIDs removes the rows and hands back what was deleted so the caller
// can enqueue storage cleanup. Scoped by user: ids belonging to somebody else
// are silently not matched.
func (r *ProcessedImageRepo) DeleteByIDs(ctx context.Context, userID string, ids []uuid.UUID) ([]*entity.ProcessedImage, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	sql, args, err := r.Builder.
		Delete(processedImagesTable).
		Where(squirrel.And{
			squirrel.Eq{imgUserIDColumn: userID},
			squirrel.Eq{imgIDColumn: ids},
		}).
		Suffix("RETURNING " + strings.Join(processedImageColumns, ", ")).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("ProcessedImageRepo - DeleteByIDs - r.Builder.ToSql: %w", err)
	}

	executor := r.GetExecutor(ctx)

	rows, err := executor.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("ProcessedImageRepo - DeleteByIDs - executor.Query: %w", err)
	}
	defer rows.Close()

	return scanProcessedImages(rows)
}

func scanProcessedImages(rows interface {
	Next() bool
	Scan(dest ...any) error
	Err() error
}) ([]*entity.ProcessedImage, error) {
	var images []*entity.ProcessedImage

	for rows.Next() {
		var image entity.ProcessedImage
		err := rows.Scan(
			&image.ID,
			&image.UserID,
			&image.AlbumID,
			&image.SessionID,
			&image.ExternalID,
			&image.CapturedAt,
			&image.Width,
			&image.Height,
			&image.Metadata,
			&image.ImageKey,
			&image.ThumbnailKey,
			&image.ImageURL,
			&image.ThumbnailURL,
			&image.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("ProcessedImageRepo - scanProcessedImages - rows.Scan: %w", err)
		}
		images = append(images, &image)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("ProcessedImageRepo - scanProcessedImages - rows.Err: %w", err)
	}

	return images, nil
}

