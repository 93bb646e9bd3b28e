package sources

import (
	"bytes"
	"cmp"
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/mmcdole/gofeed"

	"github.com/mediacomb/media-comb/app/mention"
	"github.com/mediacomb/media-comb/app/profile"
)

// FeedSource collects items from the RSS/Atom feeds configured on a
// profile, keeping only items matching the profile's search terms.
// One unreachable feed fails the whole source; the aggregator isolates
// that failure from the other sources.
type FeedSource struct {
	fetcher
	parser *gofeed.Parser
}

func NewFeedSource(httpClient *http.Client, userAgent string, timeout time.Duration) *FeedSource {
	return &FeedSource{
		fetcher: fetcher{httpClient: httpClient, userAgent: userAgent, timeout: timeout},
		parser:  gofeed.NewParser(),
	}
}

func (s *FeedSource) Name() string { return "Feeds" }

func (s *FeedSource) Tag() mention.Source { return mention.SourceFeeds }

func (s *FeedSource) Enabled(p *profile.Profile) bool {
	return len(p.FeedURLs) > 0
}

func (s *FeedSource) Collect(ctx context.Context, p *profile.Profile) ([]mention.Mention, error) {
	var mentions []mention.Mention

	for _, feedURL := range p.FeedURLs {
		items, err := s.collectFeed(ctx, feedURL)
		if err != nil {
			return nil, fmt.Errorf("feed %s: %w", feedURL, err)
		}
		mentions = append(mentions, items...)
	}

	return mention.FilterByTerms(mentions, p.SearchTerms), nil
}

func (s *FeedSource) collectFeed(ctx context.Context, feedURL string) ([]mention.Mention, error) {
	data, err := s.get(ctx, feedURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch feed: %w", err)
	}

	feed, err := s.parser.Parse(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to parse feed: %w", err)
	}

	slog.Debug("Feed fetched", "url", feedURL, "title", feed.Title, "items", len(feed.Items))

	mentions := make([]mention.Mention, 0, len(feed.Items))
	for _, item := range feed.Items {
		if item == nil {
			continue
		}
		mentions = append(mentions, s.normalizeItem(feed, item))
	}

	return mentions, nil
}

func (s *FeedSource) normalizeItem(feed *gofeed.Feed, item *gofeed.Item) mention.Mention {
	m := mention.Mention{
		ID:          mention.NewID(mention.SourceFeeds),
		Source:      mention.SourceFeeds,
		Type:        mention.MediaTypeBlog,
		Headline:    cmp.Or(item.Title, "No title"),
		Content:     cmp.Or(item.Description, item.Content),
		Link:        item.Link,
		Publication: cmp.Or(feed.Title, "Unknown"),
		Author:      "Unknown",
		Timestamp:   time.Now().UTC().Format(time.RFC3339),
	}

	if item.PublishedParsed != nil {
		m.Timestamp = item.PublishedParsed.UTC().Format(time.RFC3339)
	}

	if len(item.Authors) > 0 && item.Authors[0] != nil && item.Authors[0].Name != "" {
		m.Author = item.Authors[0].Name
	}

	return m
}
