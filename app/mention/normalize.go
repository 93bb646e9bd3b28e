package mention

import (
	"cmp"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/araddon/dateparse"
)

// Raw payload shapes, one per upstream vendor. Only the fields the
// normalizer reads are declared.

type Tweet struct {
	ID            string        `json:"id"`
	Text          string        `json:"text"`
	AuthorID      string        `json:"author_id"`
	CreatedAt     string        `json:"created_at"`
	PublicMetrics *TweetMetrics `json:"public_metrics"`
}

type TweetMetrics struct {
	ImpressionCount int `json:"impression_count"`
	RetweetCount    int `json:"retweet_count"`
	LikeCount       int `json:"like_count"`
}

type TweetUser struct {
	ID            string `json:"id"`
	Username      string `json:"username"`
	Name          string `json:"name"`
	PublicMetrics *struct {
		FollowersCount int `json:"followers_count"`
	} `json:"public_metrics"`
}

type Article struct {
	Source *struct {
		Name string `json:"name"`
	} `json:"source"`
	Title       string `json:"title"`
	URL         string `json:"url"`
	Author      string `json:"author"`
	PublishedAt string `json:"publishedAt"`
	Description string `json:"description"`
}

type Document struct {
	ID     string `json:"id"`
	Source *struct {
		Name string `json:"name"`
	} `json:"source"`
	SourceName  string   `json:"sourceName"`
	MediaType   string   `json:"mediaType"`
	Title       string   `json:"title"`
	Headline    string   `json:"headline"`
	Content     string   `json:"content"`
	Summary     string   `json:"summary"`
	URL         string   `json:"url"`
	Link        string   `json:"link"`
	Author      string   `json:"author"`
	PublishedAt string   `json:"publishedAt"`
	Date        string   `json:"date"`
	Reach       int      `json:"reach"`
	Engagement  int      `json:"engagement"`
	Sentiment   string   `json:"sentiment"`
	Language    string   `json:"language"`
	Country     string   `json:"country"`
	Tags        []string `json:"tags"`
	Mentions    []string `json:"mentions"`
}

// NormalizeTweet maps one tweet plus its expanded author to a Mention.
func NormalizeTweet(tweet Tweet, author TweetUser) Mention {
	m := Mention{
		ID:          cmp.Or(tweet.ID, NewID(SourceTwitter)),
		Source:      SourceTwitter,
		Type:        MediaTypeSocial,
		Headline:    "No title",
		Content:     tweet.Text,
		Publication: "X",
		Author:      cmp.Or(author.Name, "Unknown"),
		Timestamp:   normalizeTimestamp(tweet.CreatedAt),
	}

	if author.Username != "" {
		m.Handle = "@" + author.Username
		m.Link = fmt.Sprintf("https://x.com/%s/status/%s", author.Username, tweet.ID)
	}
	if author.PublicMetrics != nil {
		m.Followers = clampNonNegative(author.PublicMetrics.FollowersCount)
	}
	if tweet.PublicMetrics != nil {
		m.Views = clampNonNegative(tweet.PublicMetrics.ImpressionCount)
		m.Retweets = clampNonNegative(tweet.PublicMetrics.RetweetCount)
		m.Likes = clampNonNegative(tweet.PublicMetrics.LikeCount)
	}

	return m
}

// NormalizeArticle maps one news article to a Mention.
func NormalizeArticle(article Article) Mention {
	m := Mention{
		ID:          NewID(SourceNews),
		Source:      SourceNews,
		Type:        MediaTypeNews,
		Headline:    cmp.Or(article.Title, "No title"),
		Content:     article.Description,
		Link:        article.URL,
		Publication: "Unknown",
		Author:      cmp.Or(article.Author, "Unknown"),
		Timestamp:   normalizeTimestamp(article.PublishedAt),
	}

	if article.Source != nil && article.Source.Name != "" {
		m.Publication = article.Source.Name
	}

	return m
}

// NormalizeDocument maps one Meltwater document (search result or
// webhook payload entry) to a Mention.
func NormalizeDocument(doc Document) Mention {
	m := Mention{
		ID:          cmp.Or(doc.ID, NewID(SourceMeltwater)),
		Source:      SourceMeltwater,
		Type:        mediaTypeFromString(doc.MediaType),
		Headline:    cmp.Or(doc.Title, doc.Headline, "No title"),
		Content:     cmp.Or(doc.Content, doc.Summary),
		Link:        cmp.Or(doc.URL, doc.Link),
		Publication: cmp.Or(doc.SourceName, "Unknown"),
		Author:      cmp.Or(doc.Author, "Unknown"),
		Timestamp:   normalizeTimestamp(cmp.Or(doc.PublishedAt, doc.Date)),
		Reach:       clampNonNegative(doc.Reach),
		Engagement:  clampNonNegative(doc.Engagement),
		Sentiment:   cmp.Or(doc.Sentiment, SentimentNeutral),
		Language:    cmp.Or(doc.Language, "en"),
		Country:     cmp.Or(doc.Country, "unknown"),
		Tags:        doc.Tags,
		Mentions:    doc.Mentions,
	}

	if doc.Source != nil && doc.Source.Name != "" {
		m.Publication = doc.Source.Name
	}

	return m
}

// NormalizeCSVRow maps one decoded Meltwater CSV export row to a
// Mention. Column naming varies between exports, so each logical field
// is looked up under several known header variants before defaulting.
func NormalizeCSVRow(row map[string]string) Mention {
	return Mention{
		ID:          cmp.Or(lookup(row, "ID", "id"), NewID(SourceMeltwater)),
		Source:      SourceMeltwater,
		Type:        inferMediaType(row),
		Headline:    cmp.Or(lookup(row, "Title", "Headline", "title"), "No title"),
		Content:     lookup(row, "Content", "Summary", "content"),
		Link:        lookup(row, "URL", "Link", "url"),
		Publication: cmp.Or(lookup(row, "Source", "Publication", "source"), "Unknown"),
		Author:      cmp.Or(lookup(row, "Author", "Reporter", "author"), "Unknown"),
		Timestamp:   normalizeTimestamp(lookup(row, "Date", "Published Date", "publishedAt")),
		Reach:       parseCount(lookup(row, "Reach", "reach")),
		Engagement:  parseCount(lookup(row, "Engagement", "engagement")),
		Sentiment:   cmp.Or(lookup(row, "Sentiment", "sentiment"), SentimentNeutral),
		Language:    cmp.Or(lookup(row, "Language", "language"), "en"),
		Country:     cmp.Or(lookup(row, "Country", "country"), "unknown"),
		Tags:        splitList(lookup(row, "Tags", "tags")),
		Mentions:    splitList(lookup(row, "Mentions", "mentions")),
	}
}

func lookup(row map[string]string, keys ...string) string {
	for _, key := range keys {
		if value := strings.TrimSpace(row[key]); value != "" {
			return value
		}
	}
	return ""
}

// inferMediaType classifies a CSV row from its media type or source
// columns when the export carries no explicit classification.
func inferMediaType(row map[string]string) MediaType {
	source := strings.ToLower(lookup(row, "Source", "source"))
	mediaType := strings.ToLower(lookup(row, "Media Type", "mediaType"))

	switch {
	case strings.Contains(mediaType, "social"),
		strings.Contains(source, "twitter"),
		strings.Contains(source, "facebook"):
		return MediaTypeSocial
	case strings.Contains(mediaType, "news"), strings.Contains(mediaType, "print"):
		return MediaTypeNews
	case strings.Contains(mediaType, "blog"):
		return MediaTypeBlog
	default:
		return MediaTypeUnknown
	}
}

func mediaTypeFromString(s string) MediaType {
	switch mediaType := MediaType(strings.ToLower(s)); mediaType {
	case MediaTypeSocial, MediaTypeNews, MediaTypeBlog:
		return mediaType
	default:
		return MediaTypeUnknown
	}
}

// normalizeTimestamp parses a vendor timestamp in any common format
// into RFC 3339. A missing or unparseable value becomes the current
// time, so undated items are indistinguishable from items dated "now";
// callers that need the distinction must keep the raw value.
func normalizeTimestamp(value string) string {
	if value == "" {
		return time.Now().UTC().Format(time.RFC3339)
	}

	parsed, err := dateparse.ParseAny(value)
	if err != nil {
		return time.Now().UTC().Format(time.RFC3339)
	}

	return parsed.UTC().Format(time.RFC3339)
}

func parseCount(value string) int {
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0
	}
	return clampNonNegative(n)
}

func clampNonNegative(n int) int {
	if n < 0 {
		return 0
	}
	return n
}

// splitList parses comma-separated text into a list, dropping empty
// entries.
func splitList(value string) []string {
	if value == "" {
		return nil
	}

	var items []string
	for _, item := range strings.Split(value, ",") {
		item = strings.TrimSpace(item)
		if item != "" {
			items = append(items, item)
		}
	}
	return items
}
