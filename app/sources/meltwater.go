package sources

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/mediacomb/media-comb/app/mention"
	"github.com/mediacomb/media-comb/app/profile"
)

const meltwaterLimit = "50"

// MeltwaterSource collects monitoring documents from the Meltwater
// search API.
type MeltwaterSource struct {
	fetcher
	baseURL string
}

func NewMeltwaterSource(httpClient *http.Client, baseURL, userAgent string, timeout time.Duration) *MeltwaterSource {
	return &MeltwaterSource{
		fetcher: fetcher{httpClient: httpClient, userAgent: userAgent, timeout: timeout},
		baseURL: baseURL,
	}
}

func (s *MeltwaterSource) Name() string { return "Meltwater" }

func (s *MeltwaterSource) Tag() mention.Source { return mention.SourceMeltwater }

func (s *MeltwaterSource) Enabled(p *profile.Profile) bool {
	return p.MeltwaterAPIKey != ""
}

type meltwaterResponse struct {
	Documents []mention.Document `json:"documents"`
}

func (s *MeltwaterSource) Collect(ctx context.Context, p *profile.Profile) ([]mention.Mention, error) {
	query := mention.BuildMeltwaterQuery(p.SearchTerms, p.ClientName)

	params := url.Values{}
	params.Set("q", query)
	params.Set("limit", meltwaterLimit)
	params.Set("sort", "date")
	params.Set("format", "json")

	data, err := s.get(ctx, s.baseURL+"/searches?"+params.Encode(), map[string]string{
		"Authorization": "Bearer " + p.MeltwaterAPIKey,
	})
	if err != nil {
		return nil, fmt.Errorf("Meltwater API error: %w", err)
	}

	var resp meltwaterResponse
	if err := json.Unmarshal(data, &resp); err != nil {
		return nil, fmt.Errorf("failed to parse Meltwater response: %w", err)
	}

	mentions := make([]mention.Mention, 0, len(resp.Documents))
	for _, doc := range resp.Documents {
		mentions = append(mentions, mention.NormalizeDocument(doc))
	}

	return mentions, nil
}
