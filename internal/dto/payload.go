package dto

// Job payloads. The shape is bound to the job type at enqueue time and
// validated there; the store itself never looks inside.

type ProcessSessionPayload struct {
	AccessToken string  `json:"access_token"`
	AlbumID     *string `json:"album_id,omitempty"`
}

type ProcessPagePayload struct {
	AccessToken string  `json:"access_token"`
	PageToken   string  `json:"page_token,omitempty"`
	PageSize    int     `json:"page_size"`
	AlbumID     *string `json:"album_id,omitempty"`
}

type UploadImagePayload struct {
	AccessToken string       `json:"access_token"`
	Item        ProviderItem `json:"item"`
	AlbumID     *string      `json:"album_id,omitempty"`
}

// DeleteImagePayload carries a batch of storage objects to remove. The
// processed_images rows are already gone by the time this job runs; storage
// cleanup is eventually consistent via the queue.
type DeleteImagePayload struct {
	Objects []StorageObject `json:"objects"`
}

type StorageObject struct {
	ImageKey     string `json:"image_key"`
	ThumbnailKey string `json:"thumbnail_key"`
}
