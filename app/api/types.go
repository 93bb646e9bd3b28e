package api

import (
	"context"

	"github.com/mediacomb/media-comb/app/collect"
	"github.com/mediacomb/media-comb/app/database"
	"github.com/mediacomb/media-comb/app/mention"
	"github.com/mediacomb/media-comb/app/profile"
)

// RunnerInterface is the collection pipeline the handlers drive.
type RunnerInterface interface {
	Run(ctx context.Context, p *profile.Profile, progress collect.Progress) *mention.Report
}

var _ RunnerInterface = (*collect.Runner)(nil)

type Handler struct {
	profiles      *profile.Cache
	runner        RunnerInterface
	mentionRepo   database.MentionRepository
	sink          collect.Sink
	webhookSecret string
}

// collectRequest is the body of POST /api/collect.
type collectRequest struct {
	Config *profile.Profile `json:"config"`
}

// csvRequest is the body of POST /api/meltwater/csv.
type csvRequest struct {
	CSVData string           `json:"csvData"`
	Config  *profile.Profile `json:"config"`
}

// webhookPayload is the vendor-shaped push body.
type webhookPayload struct {
	Documents []mention.Document `json:"documents"`
}
