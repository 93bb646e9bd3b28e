package api

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/mediacomb/media-comb/app/collect"
	"github.com/mediacomb/media-comb/app/database"
	"github.com/mediacomb/media-comb/app/mention"
	"github.com/mediacomb/media-comb/app/profile"
	"github.com/mediacomb/media-comb/app/sheets"
)

func NewHandler(profiles *profile.Cache, runner RunnerInterface,
	mentionRepo database.MentionRepository, sink collect.Sink, webhookSecret string) *Handler {
	return &Handler{
		profiles:      profiles,
		runner:        runner,
		mentionRepo:   mentionRepo,
		sink:          sink,
		webhookSecret: webhookSecret,
	}
}

// Collect triggers one collection run, either for a stored profile
// (?profile=<name>) or for an inline configuration in the request
// body.
func (h *Handler) Collect(c *gin.Context) {
	p, ok := h.resolveProfile(c)
	if !ok {
		return
	}

	if err := p.Validate(); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Missing required configuration: clientName and searchTerms are required",
		})
		return
	}

	report := h.runner.Run(c.Request.Context(), p, nil)

	c.JSON(http.StatusOK, gin.H{
		"success":             true,
		"data":                reportData(report),
		"totalPosts":          report.Count(mention.SourceTwitter),
		"totalArticles":       report.Count(mention.SourceNews),
		"totalMeltwaterItems": report.Count(mention.SourceMeltwater),
		"totalFeedItems":      report.Count(mention.SourceFeeds),
		"runId":               report.RunID,
	})
}

func (h *Handler) resolveProfile(c *gin.Context) (*profile.Profile, bool) {
	if name := c.Query("profile"); name != "" {
		p, err := h.profiles.GetProfile(name)
		if err != nil {
			slog.Error("Profile not found", "profile", name, "error", err)
			c.JSON(http.StatusNotFound, gin.H{"error": "Profile not found"})
			return nil, false
		}
		return p, true
	}

	var req collectRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Config == nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Missing required configuration: clientName and searchTerms are required",
		})
		return nil, false
	}

	return req.Config, true
}

// reportData shapes a report for the response body. Every source key
// is always present so the dashboard can iterate without nil checks.
func reportData(report *mention.Report) gin.H {
	data := gin.H{"errors": report.Errors}
	for _, source := range []mention.Source{
		mention.SourceTwitter, mention.SourceNews,
		mention.SourceMeltwater, mention.SourceFeeds,
	} {
		mentions := report.Results[source]
		if mentions == nil {
			mentions = []mention.Mention{}
		}
		data[string(source)] = mentions
	}
	return data
}

// ProcessCSV ingests a Meltwater CSV export: decode, normalize, apply
// the profile's term filter, and write to the sheet sink when
// configured.
func (h *Handler) ProcessCSV(c *gin.Context) {
	var req csvRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.CSVData == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "CSV data is required"})
		return
	}

	rows := mention.DecodeCSV(req.CSVData)

	mentions := make([]mention.Mention, 0, len(rows))
	for _, row := range rows {
		mentions = append(mentions, mention.NormalizeCSVRow(row))
	}

	p := req.Config
	if p == nil {
		p = &profile.Profile{}
	}

	mentions = mention.FilterByTerms(mentions, p.SearchTerms)

	if p.SinkConfigured() && len(mentions) > 0 {
		table := mention.ToTable(mentions, mention.SourceMeltwater)
		rangeName := sheets.Range(mention.SourceMeltwater, len(table))

		err := h.sink.Update(c.Request.Context(), p.GoogleAPIKey, p.GoogleSheetsID, rangeName, table)
		if err != nil {
			slog.Error("Sheet write failed for CSV upload", "range", rangeName, "error", err)
			c.JSON(http.StatusInternalServerError, gin.H{
				"error":   "CSV processing failed",
				"message": err.Error(),
			})
			return
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"success":    true,
		"data":       mentions,
		"totalItems": len(mentions),
		"message":    "CSV processed successfully",
	})
}

// Webhook receives pushed Meltwater documents. With a secret
// configured, deliveries must carry a valid signature; without one,
// verification is skipped and the payload is trusted.
func (h *Handler) Webhook(c *gin.Context) {
	payload, err := c.GetRawData()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Failed to read request body"})
		return
	}

	if h.webhookSecret != "" {
		signature := c.GetHeader("X-Meltwater-Signature")
		if !VerifySignature(payload, signature, h.webhookSecret) {
			slog.Warn("Webhook signature verification failed", "remote", c.ClientIP())
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid webhook signature"})
			return
		}
	}

	var body webhookPayload
	if err := json.Unmarshal(payload, &body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid webhook payload"})
		return
	}

	processed := 0
	for _, doc := range body.Documents {
		m := mention.NormalizeDocument(doc)
		if err := h.mentionRepo.UpsertMention(m); err != nil {
			slog.Error("Failed to store webhook mention", "id", m.ID, "error", err)
			continue
		}
		processed++
	}

	slog.Info("Webhook processed", "documents", len(body.Documents), "stored", processed)

	c.JSON(http.StatusOK, gin.H{
		"success":        true,
		"message":        "Webhook processed successfully",
		"itemsProcessed": processed,
	})
}

// maxMentionsLimit bounds the page size of the mention listing.
const maxMentionsLimit = 500

// ListMentions returns the most recently received webhook mentions.
func (h *Handler) ListMentions(c *gin.Context) {
	limit := 50
	if value := c.Query("limit"); value != "" {
		parsed, err := strconv.Atoi(value)
		if err != nil || parsed < 1 || parsed > maxMentionsLimit {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid limit parameter"})
			return
		}
		limit = parsed
	}

	mentions, err := h.mentionRepo.GetRecentMentions(limit)
	if err != nil {
		slog.Error("Database error", "operation", "get_mentions", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	if mentions == nil {
		mentions = []mention.Mention{}
	}

	c.JSON(http.StatusOK, gin.H{
		"mentions": mentions,
		"total":    len(mentions),
	})
}

func (h *Handler) GetHealth(c *gin.Context) {
	health := map[string]interface{}{
		"timestamp": time.Now().In(time.Local).Format(time.RFC3339),
	}

	if count, err := h.mentionRepo.GetMentionCount(); err == nil {
		health["stored_mentions"] = count
	}

	health["loaded_profiles"] = h.profiles.GetProfileCount()

	c.JSON(http.StatusOK, health)
}
