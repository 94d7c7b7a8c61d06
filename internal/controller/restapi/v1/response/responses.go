package response

type Error struct {
	Error string `json:"error"`
}

type Session struct {
	SessionID     string `json:"session_id"`
	PickerURI     string `json:"picker_uri"`
	MediaItemsSet bool   `json:"media_items_set"`
}

type ProcessSession struct {
	JobID     string `json:"job_id"`
	SessionID string `json:"session_id"`
	Status    string `json:"status"`
}

type Image struct {
	ID           string `json:"id"`
	AlbumID      *string `json:"album_id,omitempty"`
	SessionID    string `json:"session_id"`
	Width        int    `json:"width"`
	Height       int    `json:"height"`
	ImageURL     string `json:"image_url"`
	ThumbnailURL string `json:"thumbnail_url"`
	CapturedAt   string `json:"captured_at,omitempty"`
	CreatedAt    string `json:"created_at"`
}

type ImageList struct {
	Images []Image `json:"images"`
}

type DeleteImages struct {
	Deleted int `json:"deleted"`
}
