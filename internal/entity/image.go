package entity

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// ProcessedImage is a successfully imported asset. Created exactly once per
// completed UPLOAD_IMAGE job and never mutated by the pipeline afterwards.
type ProcessedImage struct {
	ID        uuid.UUID `json:"id"`
	UserID    string    `json:"user_id"`
	AlbumID   *string   `json:"album_id,omitempty"`
	SessionID string    `json:"session_id"`

	ExternalID string     `json:"external_id"`
	CapturedAt *time.Time `json:"captured_at,omitempty"`
	Width      int        `json:"width"`
	Height     int        `json:"height"`
	Metadata   json.RawMessage `json:"metadata,omitempty"`

	ImageKey     string `json:"image_key"`
	ThumbnailKey string `json:"thumbnail_key"`
	ImageURL     string `json:"image_url"`
	ThumbnailURL string `json:"thumbnail_url"`

	CreatedAt time.Time `json:"created_at"`
}
