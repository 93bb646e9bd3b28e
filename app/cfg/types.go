package cfg

type Cfg struct {
	// Application configuration
	Port         string
	ProfilesDir  string
	DBPath       string
	APIAccessKey string

	// Webhook configuration
	WebhookSecret string

	// Upstream endpoints, overridable for testing
	TwitterBaseURL   string
	NewsBaseURL      string
	MeltwaterBaseURL string
	SheetsBaseURL    string

	// Outbound request behavior
	HTTPTimeout    int
	UserAgent      string
	ExtractContent bool

	// Application metadata
	Timezone string
	Debug    bool
	Version  string
}
