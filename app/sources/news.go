package sources

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/mediacomb/media-comb/app/mention"
	"github.com/mediacomb/media-comb/app/profile"
)

const newsPageSize = "20"

// NewsSource collects recent English-language articles from the
// NewsAPI everything endpoint, sorted by recency. Articles missing a
// title or URL are discarded individually.
type NewsSource struct {
	fetcher
	baseURL   string
	extractor *ContentExtractor
}

// NewNewsSource creates a news collector. The extractor is optional;
// when present, articles that arrive without a description get their
// full content fetched and extracted.
func NewNewsSource(httpClient *http.Client, baseURL, userAgent string, timeout time.Duration, extractor *ContentExtractor) *NewsSource {
	return &NewsSource{
		fetcher:   fetcher{httpClient: httpClient, userAgent: userAgent, timeout: timeout},
		baseURL:   baseURL,
		extractor: extractor,
	}
}

func (s *NewsSource) Name() string { return "News" }

func (s *NewsSource) Tag() mention.Source { return mention.SourceNews }

func (s *NewsSource) Enabled(p *profile.Profile) bool {
	return p.NewsAPIKey != ""
}

type newsResponse struct {
	Articles []mention.Article `json:"articles"`
}

func (s *NewsSource) Collect(ctx context.Context, p *profile.Profile) ([]mention.Mention, error) {
	query := mention.BuildNewsQuery(p.SearchTerms, p.ClientName)

	params := url.Values{}
	params.Set("q", query)
	params.Set("apiKey", p.NewsAPIKey)
	params.Set("pageSize", newsPageSize)
	params.Set("sortBy", "publishedAt")
	params.Set("language", "en")

	data, err := s.get(ctx, s.baseURL+"/everything?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("News API error: %w", err)
	}

	var resp newsResponse
	if err := json.Unmarshal(data, &resp); err != nil {
		return nil, fmt.Errorf("failed to parse News response: %w", err)
	}

	mentions := make([]mention.Mention, 0, len(resp.Articles))
	for _, article := range resp.Articles {
		if article.Title == "" || article.URL == "" {
			continue
		}

		m := mention.NormalizeArticle(article)
		if m.Content == "" && s.extractor != nil {
			s.extractContent(ctx, &m)
		}

		mentions = append(mentions, m)
	}

	return mentions, nil
}

// extractContent fetches the article page and extracts readable text.
// Extraction failures are logged and ignored; the mention keeps its
// empty content.
func (s *NewsSource) extractContent(ctx context.Context, m *mention.Mention) {
	data, err := s.get(ctx, m.Link, nil)
	if err != nil {
		slog.Debug("Failed to fetch article for extraction", "link", m.Link, "error", err)
		return
	}

	content, err := s.extractor.Run(data)
	if err != nil {
		slog.Debug("Content extraction failed", "link", m.Link, "error", err)
		return
	}

	m.Content = content
}
