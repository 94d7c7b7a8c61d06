package dto

import "time"

// PickerSession is the provider-side selection session. MediaItemsSet turns
// true once the user has finished picking items in the provider UI.
type PickerSession struct {
	ID            string `json:"id"`
	PickerURI     string `json:"picker_uri,omitempty"`
	MediaItemsSet bool   `json:"media_items_set"`
}

// ProviderItem describes one selected media item of a picker session.
type ProviderItem struct {
	ID         string     `json:"id"`
	BaseURL    string     `json:"base_url"`
	MimeType   string     `json:"mime_type"`
	Filename   string     `json:"filename,omitempty"`
	Width      int        `json:"width"`
	Height     int        `json:"height"`
	CreateTime *time.Time `json:"create_time,omitempty"`
}

// ItemsPage is one page of a session's item listing. A non-empty
// NextPageToken means enumeration is not finished.
type ItemsPage struct {
	Items         []ProviderItem `json:"items"`
	NextPageToken string         `json:"next_page_token,omitempty"`
}
