package provider

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/andreyxaxa/Photo-Importer/internal/dto"
	"github.com/andreyxaxa/Photo-Importer/pkg/types/errs"
)

const _defaultTimeout = 30 * time.Second

// Client talks to the external picker API: session lifecycle, paginated item
// listing and binary fetch. The access token is supplied per call, never
// stored on the client.
type Client struct {
	baseURL string
	http    *http.Client
}

func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: _defaultTimeout},
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

func (c *Client) CreateSession(ctx context.Context, accessToken string) (*dto.PickerSession, error) {
	body, err := c.do(ctx, http.MethodPost, c.baseURL+"/sessions", accessToken, bytes.NewReader([]byte(`{}`)))
	if err != nil {
		return nil, fmt.Errorf("provider Client - CreateSession: %w", err)
	}

	session, err := decodeSession(body)
	if err != nil {
		return nil, fmt.Errorf("provider Client - CreateSession: %w", err)
	}

	return session, nil
}

func (c *Client) GetSession(ctx context.Context, accessToken, sessionID string) (*dto.PickerSession, error) {
	body, err := c.do(ctx, http.MethodGet, c.baseURL+"/sessions/"+url.PathEscape(sessionID), accessToken, nil)
	if err != nil {
		return nil, fmt.Errorf("provider Client - GetSession: %w", err)
	}

	session, err := decodeSession(body)
	if err != nil {
		return nil, fmt.Errorf("provider Client - GetSession: %w", err)
	}

	return session, nil
}

func (c *Client) ListItems(ctx context.Context, accessToken, sessionID, pageToken string, pageSize int) (*dto.ItemsPage, error) {
	query := url.Values{}
	query.Set("sessionId", sessionID)
	query.Set("pageSize", strconv.Itoa(pageSize))
	if pageToken != "" {
		query.Set("pageToken", pageToken)
	}

	body, err := c.do(ctx, http.MethodGet, c.baseURL+"/mediaItems?"+query.Encode(), accessToken, nil)
	if err != nil {
		return nil, fmt.Errorf("provider Client - ListItems: %w", err)
	}

	var raw listResponse
	if err = json.Unmarshal(body, &raw); err != nil {
		return nil, fmt.Errorf("provider Client - ListItems - json.Unmarshal: %w: %s", errs.ErrProvider, err)
	}

	page := &dto.ItemsPage{NextPageToken: raw.NextPageToken}
	for _, item := range raw.MediaItems {
		if item.ID == "" || item.MediaFile.BaseURL == "" {
			return nil, fmt.Errorf("provider Client - ListItems - malformed item: %w", errs.ErrProvider)
		}

		page.Items = append(page.Items, dto.ProviderItem{
			ID:         item.ID,
			BaseURL:    item.MediaFile.BaseURL,
			MimeType:   item.MediaFile.MimeType,
			Filename:   item.MediaFile.Filename,
			Width:      item.MediaFile.Metadata.Width,
			Height:     item.MediaFile.Metadata.Height,
			CreateTime: item.CreateTime,
		})
	}

	return page, nil
}

// FetchBytes downloads the binary at the requested dimensions. The provider
// serves sized renditions through baseUrl suffixes, so no local resize of the
// full asset is needed.
func (c *Client) FetchBytes(ctx context.Context, accessToken, baseURL string, width, height int) ([]byte, string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fmt.Sprintf("%s=w%d-h%d", baseURL, width, height), nil)
	if err != nil {
		return nil, "", fmt.Errorf("provider Client - FetchBytes - http.NewRequestWithContext: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, "", fmt.Errorf("provider Client - FetchBytes - c.http.Do: %w: %s", errs.ErrProvider, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, "", fmt.Errorf("provider Client - FetchBytes - status %d: %w", resp.StatusCode, errs.ErrProvider)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, "", fmt.Errorf("provider Client - FetchBytes - io.ReadAll: %w: %s", errs.ErrProvider, err)
	}

	contentType := resp.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "image/jpeg"
	}

	return data, contentType, nil
}

func (c *Client) do(ctx context.Context, method, rawURL, accessToken string, body io.Reader) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, method, rawURL, body)
	if err != nil {
		return nil, fmt.Errorf("http.NewRequestWithContext: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("c.http.Do: %w: %s", errs.ErrProvider, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("io.ReadAll: %w: %s", errs.ErrProvider, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("status %d: %w: %s", resp.StatusCode, errs.ErrProvider, truncate(data, 256))
	}

	return data, nil
}

func decodeSession(body []byte) (*dto.PickerSession, error) {
	var raw sessionResponse
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, fmt.Errorf("json.Unmarshal: %w: %s", errs.ErrProvider, err)
	}
	if raw.ID == "" {
		return nil, fmt.Errorf("session without id: %w", errs.ErrProvider)
	}

	return &dto.PickerSession{
		ID:            raw.ID,
		PickerURI:     raw.PickerURI,
		MediaItemsSet: raw.MediaItemsSet,
	}, nil
}

func truncate(b []byte, n int) string {
	if len(b) > n {
		b = b[:n]
	}
	return string(b)
}
