package persistent

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/andreyxaxa/Photo-Importer/pkg/s3client"
	"github.com/andreyxaxa/Photo-Importer/pkg/types/errs"
	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// StorageRepo persists imported assets in two logical buckets: full-size
// images and their thumbnails. Keys are namespaced {userID}/{sessionID}/...
// by the caller; the repo only knows buckets.
type StorageRepo struct {
	*s3client.S3Client

	publicEndpoint   string
	imagesBucket     string
	thumbnailsBucket string
}

func NewStorageRepo(s3c *s3client.S3Client, publicEndpoint, imagesBucket, thumbnailsBucket string) *StorageRepo {
	return &StorageRepo{
		S3Client:         s3c,
		publicEndpoint:   strings.TrimRight(publicEndpoint, "/"),
		imagesBucket:     imagesBucket,
		thumbnailsBucket: thumbnailsBucket,
	}
}

func (r *StorageRepo) PutImage(ctx context.Context, key string, data []byte, contentType string) (string, error) {
	if err := r.put(ctx, r.imagesBucket, key, data, contentType); err != nil {
		return "", fmt.Errorf("StorageRepo - PutImage: %w", err)
	}

	return r.publicURL(r.imagesBucket, key), nil
}

func (r *StorageRepo) PutThumbnail(ctx context.Context, key string, data []byte, contentType string) (string, error) {
	if err := r.put(ctx, r.thumbnailsBucket, key, data, contentType); err != nil {
		return "", fmt.Errorf("StorageRepo - PutThumbnail: %w", err)
	}

	return r.publicURL(r.thumbnailsBucket, key), nil
}

func (r *StorageRepo) RemoveImage(ctx context.Context, key string) error {
	if err := r.remove(ctx, r.imagesBucket, key); err != nil {
		return fmt.Errorf("StorageRepo - RemoveImage: %w", err)
	}

	return nil
}

func (r *StorageRepo) RemoveThumbnail(ctx context.Context, key string) error {
	if err := r.remove(ctx, r.thumbnailsBucket, key); err != nil {
		return fmt.Errorf("StorageRepo - RemoveThumbnail: %w", err)
	}

	return nil
}

func (r *StorageRepo) put(ctx context.Context, bucket, key string, data []byte, contentType string) error {
	_, err := r.Client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(bucket),
		Key:           aws.String(key),
		Body:          bytes.NewReader(data),
		ContentType:   aws.String(contentType),
		ContentLength: aws.Int64(int64(len(data))),
	})
	if err != nil {
		return fmt.Errorf("r.Client.PutObject: %w: %s", errs.ErrStorage, err)
	}

	return nil
}

func (r *StorageRepo) remove(ctx context.Context, bucket, key string) error {
	_, err := r.Client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return fmt.Errorf("r.Client.DeleteObject: %w: %s", errs.ErrStorage, err)
	}

	return nil
}

// Path-style URL, same layout the S3 API itself serves.
func (r *StorageRepo) publicURL(bucket, key string) string {
	return fmt.Sprintf("%s/%s/%s", r.publicEndpoint, bucket, key)
}
