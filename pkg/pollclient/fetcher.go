package pollclient

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/andreyxaxa/Photo-Importer/internal/dto"
)

// HTTPFetcher implements StatusFetcher against the service's own
// session-status endpoint.
type HTTPFetcher struct {
	baseURL string
	userID  string
	http    *http.Client
}

func NewHTTPFetcher(baseURL, userID string) *HTTPFetcher {
	return &HTTPFetcher{
		baseURL: baseURL,
		userID:  userID,
		http:    &http.Client{Timeout: 10 * time.Second},
	}
}

func (f *HTTPFetcher) SessionStatus(ctx context.Context, sessionID string) (*dto.SessionProgress, error) {
	req, err := http.NewRequestWithContext(
		ctx,
		http.MethodGet,
		f.baseURL+"/v1/session-status/"+url.PathEscape(sessionID),
		nil,
	)
	if err != nil {
		return nil, fmt.Errorf("HTTPFetcher - SessionStatus - http.NewRequestWithContext: %w", err)
	}
	req.Header.Set("X-User-ID", f.userID)

	resp, err := f.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("HTTPFetcher - SessionStatus - f.http.Do: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("HTTPFetcher - SessionStatus - status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("HTTPFetcher - SessionStatus - io.ReadAll: %w", err)
	}

	var progress dto.SessionProgress
	if err = json.Unmarshal(body, &progress); err != nil {
		return nil, fmt.Errorf("HTTPFetcher - SessionStatus - json.Unmarshal: %w", err)
	}

	return &progress, nil
}
