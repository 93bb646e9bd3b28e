package profile

import (
	"fmt"

	"github.com/mediacomb/media-comb/app/mention"
)

// Profile is the operator-supplied configuration for one client. It is
// treated as an immutable value for the duration of a collection run.
// Profiles arrive either as YAML files in the profiles directory or
// inline in an API request body.
type Profile struct {
	Name        string `yaml:"-" json:"-"`
	ClientName  string `yaml:"client_name" json:"clientName"`
	SearchTerms string `yaml:"search_terms" json:"searchTerms"`

	TwitterBearerToken string `yaml:"twitter_bearer_token" json:"twitterBearerToken"`
	NewsAPIKey         string `yaml:"news_api_key" json:"newsApiKey"`
	MeltwaterAPIKey    string `yaml:"meltwater_api_key" json:"meltwaterApiKey"`

	GoogleAPIKey   string `yaml:"google_api_key" json:"googleApiKey"`
	GoogleSheetsID string `yaml:"google_sheets_id" json:"googleSheetsId"`

	FeedURLs []string `yaml:"feed_urls" json:"feedUrls"`
}

// Validate rejects a profile before any collection starts. An empty
// search term list after trimming is a configuration error rather than
// a query matching nothing.
func (p *Profile) Validate() error {
	if p.ClientName == "" {
		return fmt.Errorf("client name is required")
	}
	if p.SearchTerms == "" {
		return fmt.Errorf("search terms are required")
	}
	if len(mention.SplitTerms(p.SearchTerms)) == 0 {
		return fmt.Errorf("search terms must contain at least one non-empty term")
	}
	return nil
}

// SinkConfigured reports whether the spreadsheet sink can be invoked.
func (p *Profile) SinkConfigured() bool {
	return p.GoogleSheetsID != "" && p.GoogleAPIKey != ""
}
