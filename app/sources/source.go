package sources

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/mediacomb/media-comb/app/mention"
	"github.com/mediacomb/media-comb/app/profile"
)

// Source is one upstream provider of mentions. A source is enabled for
// a profile iff its required credentials are present; a disabled source
// contributes an empty result silently, never an error.
type Source interface {
	Name() string
	Tag() mention.Source
	Enabled(p *profile.Profile) bool
	Collect(ctx context.Context, p *profile.Profile) ([]mention.Mention, error)
}

// fetcher performs outbound GET requests with a bounded per-request
// timeout. Collectors share one underlying http.Client.
type fetcher struct {
	httpClient *http.Client
	userAgent  string
	timeout    time.Duration
}

func (f *fetcher) get(ctx context.Context, url string, headers map[string]string) ([]byte, error) {
	timeoutCtx, cancel := context.WithTimeout(ctx, f.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(timeoutCtx, "GET", url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("User-Agent", f.userAgent)
	for key, value := range headers {
		req.Header.Set(key, value)
	}

	resp, err := f.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("HTTP error: %d %s", resp.StatusCode, resp.Status)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	return data, nil
}
