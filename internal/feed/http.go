package feed

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

var _ Feed = (*HTTPFeed)(nil)

// HTTPFeed fetches the settlement history from a JSON endpoint.
type HTTPFeed struct {
	url    string
	client *http.Client
}

// NewHTTP returns a feed client for the given URL. The timeout bounds
// the whole fetch; a timed-out fetch is an ordinary fetch failure.
func NewHTTP(url string, timeout time.Duration) *HTTPFeed {
	return &HTTPFeed{
		url:    url,
		client: &http.Client{Timeout: timeout},
	}
}

func (f *HTTPFeed) Fetch(ctx context.Context) ([]Record, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, f.url, nil)
	if err != nil {
		return nil, fmt.Errorf("build feed request: %w", err)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch feed: %w", err)
	}
	//nolint:errcheck
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("feed returned status %d", resp.StatusCode)
	}

	var records []Record

	err = json.NewDecoder(resp.Body).Decode(&records)
	if err != nil {
		return nil, fmt.Errorf("decode feed: %w", err)
	}

	return records, nil
}
