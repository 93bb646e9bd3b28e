package sheets

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/mediacomb/media-comb/app/mention"
)

// Client writes mention tables to the Google Sheets values API. Each
// source gets its own named sheet; one write per source, no write
// atomic across sources.
type Client struct {
	httpClient *http.Client
	baseURL    string
	userAgent  string
	timeout    time.Duration
}

func NewClient(httpClient *http.Client, baseURL, userAgent string, timeout time.Duration) *Client {
	return &Client{
		httpClient: httpClient,
		baseURL:    baseURL,
		userAgent:  userAgent,
		timeout:    timeout,
	}
}

// sheetNames maps a source tag to its sheet tab name.
var sheetNames = map[mention.Source]string{
	mention.SourceTwitter:   "Twitter",
	mention.SourceNews:      "News",
	mention.SourceMeltwater: "Meltwater",
	mention.SourceFeeds:     "Feeds",
}

// lastColumns maps a source tag to the rightmost column of its table.
var lastColumns = map[mention.Source]string{
	mention.SourceTwitter:   "F",
	mention.SourceNews:      "F",
	mention.SourceMeltwater: "H",
	mention.SourceFeeds:     "F",
}

// Range returns the A1-notation range covering a table for one source,
// e.g. "Meltwater!A1:H12".
func Range(source mention.Source, rowCount int) string {
	return fmt.Sprintf("%s!A1:%s%d", sheetNames[source], lastColumns[source], rowCount)
}

// Update writes a table into the given range of a spreadsheet.
func (c *Client) Update(ctx context.Context, apiKey, spreadsheetID, rangeName string, values mention.Table) error {
	body, err := json.Marshal(map[string]any{"values": values})
	if err != nil {
		return fmt.Errorf("failed to encode sheet values: %w", err)
	}

	params := url.Values{}
	params.Set("valueInputOption", "USER_ENTERED")
	params.Set("key", apiKey)

	endpoint := fmt.Sprintf("%s/%s/values/%s?%s",
		c.baseURL, spreadsheetID, url.PathEscape(rangeName), params.Encode())

	timeoutCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(timeoutCtx, "PUT", endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("Google Sheets API error: %d %s", resp.StatusCode, resp.Status)
	}

	// Drain so the connection can be reused
	io.Copy(io.Discard, resp.Body)

	return nil
}
