package provider

import "time"

// Raw wire shapes of the picker API.

type sessionResponse struct {
	ID            string `json:"id"`
	PickerURI     string `json:"pickerUri"`
	MediaItemsSet bool   `json:"mediaItemsSet"`
}

type listResponse struct {
	MediaItems    []wireItem `json:"mediaItems"`
	NextPageToken string     `json:"nextPageToken"`
}

type wireItem struct {
	ID         string     `json:"id"`
	CreateTime *time.Time `json:"createTime"`
	MediaFile  wireFile   `json:"mediaFile"`
}

type wireFile struct {
	BaseURL  string       `json:"baseUrl"`
	MimeType string       `json:"mimeType"`
	Filename string       `json:"filename"`
	Metadata wireMetadata `json:"mediaFileMetadata"`
}

type wireMetadata struct {
	Width  int `json:"width"`
	Height int `json:"height"`
}
