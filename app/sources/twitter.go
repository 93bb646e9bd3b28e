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

const twitterMaxResults = "50"

// TwitterSource collects recent tweets matching the profile's search
// terms via the recent search endpoint.
type TwitterSource struct {
	fetcher
	baseURL string
}

func NewTwitterSource(httpClient *http.Client, baseURL, userAgent string, timeout time.Duration) *TwitterSource {
	return &TwitterSource{
		fetcher: fetcher{httpClient: httpClient, userAgent: userAgent, timeout: timeout},
		baseURL: baseURL,
	}
}

func (s *TwitterSource) Name() string { return "Twitter" }

func (s *TwitterSource) Tag() mention.Source { return mention.SourceTwitter }

func (s *TwitterSource) Enabled(p *profile.Profile) bool {
	return p.TwitterBearerToken != ""
}

type twitterResponse struct {
	Data     []mention.Tweet `json:"data"`
	Includes *struct {
		Users []mention.TweetUser `json:"users"`
	} `json:"includes"`
}

func (s *TwitterSource) Collect(ctx context.Context, p *profile.Profile) ([]mention.Mention, error) {
	query := mention.BuildTwitterQuery(p.SearchTerms, p.ClientName)

	params := url.Values{}
	params.Set("query", query)
	params.Set("max_results", twitterMaxResults)
	params.Set("tweet.fields", "public_metrics,created_at,author_id")
	params.Set("user.fields", "public_metrics,username,name")
	params.Set("expansions", "author_id")

	data, err := s.get(ctx, s.baseURL+"/tweets/search/recent?"+params.Encode(), map[string]string{
		"Authorization": "Bearer " + p.TwitterBearerToken,
	})
	if err != nil {
		return nil, fmt.Errorf("Twitter API error: %w", err)
	}

	var resp twitterResponse
	if err := json.Unmarshal(data, &resp); err != nil {
		return nil, fmt.Errorf("failed to parse Twitter response: %w", err)
	}

	if len(resp.Data) == 0 || resp.Includes == nil {
		return nil, nil
	}

	users := make(map[string]mention.TweetUser, len(resp.Includes.Users))
	for _, user := range resp.Includes.Users {
		users[user.ID] = user
	}

	mentions := make([]mention.Mention, 0, len(resp.Data))
	for _, tweet := range resp.Data {
		mentions = append(mentions, mention.NormalizeTweet(tweet, users[tweet.AuthorID]))
	}

	return mentions, nil
}
