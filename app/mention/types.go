package mention

import (
	"time"
)

// Source identifies the upstream provider a mention came from.
type Source string

const (
	SourceTwitter   Source = "twitter"
	SourceNews      Source = "news"
	SourceMeltwater Source = "meltwater"
	SourceFeeds     Source = "feeds"
)

// MediaType classifies the content of a mention. It is inferred from
// vendor metadata when not supplied.
type MediaType string

const (
	MediaTypeSocial  MediaType = "social"
	MediaTypeNews    MediaType = "news"
	MediaTypeBlog    MediaType = "blog"
	MediaTypeUnknown MediaType = "unknown"
)

const (
	SentimentPositive = "positive"
	SentimentNeutral  = "neutral"
	SentimentNegative = "negative"
)

// Mention is the canonical normalized record for one piece of external
// coverage. Unavailable upstream data becomes an explicit default,
// never a missing field.
type Mention struct {
	ID          string    `json:"id"`
	Source      Source    `json:"source"`
	Type        MediaType `json:"type"`
	Headline    string    `json:"headline"`
	Content     string    `json:"content"`
	Link        string    `json:"link"`
	Publication string    `json:"publication"`
	Author      string    `json:"author"`
	Timestamp   string    `json:"timestamp"` // ISO-8601

	// Social-only metrics
	Handle    string `json:"handle,omitempty"`
	Views     int    `json:"views,omitempty"`
	Followers int    `json:"followers,omitempty"`
	Retweets  int    `json:"retweets,omitempty"`
	Likes     int    `json:"likes,omitempty"`

	// Monitoring-only fields
	Reach      int      `json:"reach,omitempty"`
	Engagement int      `json:"engagement,omitempty"`
	Sentiment  string   `json:"sentiment,omitempty"`
	Language   string   `json:"language,omitempty"`
	Country    string   `json:"country,omitempty"`
	Tags       []string `json:"tags,omitempty"`
	Mentions   []string `json:"mentions,omitempty"`

	// Operator-editable annotation, always initialized empty
	Notes string `json:"notes"`
}

// Report is the consolidated output of one collection run. It is
// constructed fresh per run and never mutated after being returned.
type Report struct {
	RunID     string               `json:"runId"`
	Results   map[Source][]Mention `json:"results"`
	Errors    []string             `json:"errors"`
	StartedAt time.Time            `json:"startedAt"`
}

// Count returns the number of mentions collected for one source.
func (r *Report) Count(source Source) int {
	return len(r.Results[source])
}

// Total returns the number of mentions collected across all sources.
func (r *Report) Total() int {
	total := 0
	for _, mentions := range r.Results {
		total += len(mentions)
	}
	return total
}
