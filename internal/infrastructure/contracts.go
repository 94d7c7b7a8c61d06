package infrastructure

import (
	"context"

	"github.com/andreyxaxa/Photo-Importer/internal/dto"
	"github.com/google/uuid"
)

type (
	// JobAnnouncer publishes "job inserted" events. Delivery is at-least-once
	// and unordered; consumers must tolerate duplicates.
	JobAnnouncer interface {
		Announce(ctx context.Context, jobIDs ...uuid.UUID) error
		Close() error
	}

	// PhotoProvider is the external picker API. Every call carries the
	// user's bearer access token, obtained upstream.
	PhotoProvider interface {
		CreateSession(ctx context.Context, accessToken string) (*dto.PickerSession, error)
		GetSession(ctx context.Context, accessToken, sessionID string) (*dto.PickerSession, error)
		ListItems(ctx context.Context, accessToken, sessionID, pageToken string, pageSize int) (*dto.ItemsPage, error)
		// FetchBytes downloads one item's binary at the requested dimensions
		// and returns the bytes with their content type.
		FetchBytes(ctx context.Context, accessToken, baseURL string, width, height int) ([]byte, string, error)
	}

	ImageProcessor interface {
		Thumbnail(ctx context.Context, data []byte) ([]byte, error)
	}
)
