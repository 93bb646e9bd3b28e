package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/mediacomb/media-comb/app/collect"
	"github.com/mediacomb/media-comb/app/mention"
	"github.com/mediacomb/media-comb/app/profile"
)

type fakeRunner struct {
	lastProfile *profile.Profile
	report      *mention.Report
}

func (r *fakeRunner) Run(ctx context.Context, p *profile.Profile, progress collect.Progress) *mention.Report {
	r.lastProfile = p
	return r.report
}

type fakeRepo struct {
	stored    []mention.Mention
	upsertErr error
}

func (r *fakeRepo) UpsertMention(m mention.Mention) error {
	if r.upsertErr != nil {
		return r.upsertErr
	}
	r.stored = append(r.stored, m)
	return nil
}

func (r *fakeRepo) GetRecentMentions(limit int) ([]mention.Mention, error) {
	if limit > len(r.stored) {
		limit = len(r.stored)
	}
	return r.stored[:limit], nil
}

func (r *fakeRepo) GetMentionCount() (int, error) {
	return len(r.stored), nil
}

type recordingSink struct {
	ranges []string
	err    error
}

func (s *recordingSink) Update(ctx context.Context, apiKey, spreadsheetID, rangeName string, values mention.Table) error {
	s.ranges = append(s.ranges, rangeName)
	return s.err
}

func emptyReport() *mention.Report {
	return &mention.Report{
		RunID:   "run-1",
		Results: make(map[mention.Source][]mention.Mention),
		Errors:  []string{},
	}
}

type testEnv struct {
	router *gin.Engine
	runner *fakeRunner
	repo   *fakeRepo
	sink   *recordingSink
}

func newTestEnv(t *testing.T, webhookSecret, apiAccessKey string) *testEnv {
	t.Helper()

	profilesDir := t.TempDir()
	profileYAML := "client_name: Acme\nsearch_terms: acme, widgets\n"
	if err := os.WriteFile(filepath.Join(profilesDir, "acme.yml"), []byte(profileYAML), 0644); err != nil {
		t.Fatalf("Failed to write profile: %v", err)
	}

	profiles := profile.NewCache(profilesDir)
	if err := profiles.Run(); err != nil {
		t.Fatalf("Failed to load profiles: %v", err)
	}

	runner := &fakeRunner{report: emptyReport()}
	repo := &fakeRepo{}
	sink := &recordingSink{}

	handler := NewHandler(profiles, runner, repo, sink, webhookSecret)
	return &testEnv{
		router: NewServer(handler, apiAccessKey),
		runner: runner,
		repo:   repo,
		sink:   sink,
	}
}

func (e *testEnv) request(method, path string, body []byte, headers map[string]string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	for key, value := range headers {
		req.Header.Set(key, value)
	}

	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("Failed to decode response body: %v", err)
	}
	return body
}

func TestCollect_StoredProfile(t *testing.T) {
	env := newTestEnv(t, "", "")
	env.runner.report.Results[mention.SourceTwitter] = []mention.Mention{{ID: "t1"}, {ID: "t2"}}

	w := env.request("POST", "/api/collect?profile=acme", nil, nil)

	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", w.Code, w.Body.String())
	}
	if env.runner.lastProfile == nil || env.runner.lastProfile.ClientName != "Acme" {
		t.Error("Runner should receive the stored profile")
	}

	body := decodeBody(t, w)
	if body["success"] != true {
		t.Error("Expected success: true")
	}
	if body["totalPosts"] != float64(2) {
		t.Errorf("Expected totalPosts 2, got %v", body["totalPosts"])
	}
	if body["runId"] != "run-1" {
		t.Errorf("Unexpected runId: %v", body["runId"])
	}

	data, ok := body["data"].(map[string]any)
	if !ok {
		t.Fatal("Expected data object in response")
	}
	for _, key := range []string{"twitter", "news", "meltwater", "feeds", "errors"} {
		if _, present := data[key]; !present {
			t.Errorf("Expected data key %q to always be present", key)
		}
	}
}

func TestCollect_InlineConfig(t *testing.T) {
	env := newTestEnv(t, "", "")

	payload := []byte(`{"config": {"clientName": "Inline Co", "searchTerms": "inline"}}`)
	w := env.request("POST", "/api/collect", payload, nil)

	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", w.Code, w.Body.String())
	}
	if env.runner.lastProfile == nil || env.runner.lastProfile.ClientName != "Inline Co" {
		t.Error("Runner should receive the inline configuration")
	}
}

func TestCollect_UnknownProfile(t *testing.T) {
	env := newTestEnv(t, "", "")

	w := env.request("POST", "/api/collect?profile=nope", nil, nil)

	if w.Code != http.StatusNotFound {
		t.Fatalf("Expected 404, got %d", w.Code)
	}
}

func TestCollect_MissingConfig(t *testing.T) {
	env := newTestEnv(t, "", "")

	tests := []struct {
		name    string
		payload []byte
	}{
		{"empty body", nil},
		{"no config key", []byte(`{}`)},
		{"missing client name", []byte(`{"config": {"searchTerms": "acme"}}`)},
		{"missing search terms", []byte(`{"config": {"clientName": "Acme"}}`)},
		{"whitespace terms", []byte(`{"config": {"clientName": "Acme", "searchTerms": " , , "}}`)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := env.request("POST", "/api/collect", tt.payload, nil)
			if w.Code != http.StatusBadRequest {
				t.Fatalf("Expected 400, got %d: %s", w.Code, w.Body.String())
			}

			body := decodeBody(t, w)
			if body["error"] != "Missing required configuration: clientName and searchTerms are required" {
				t.Errorf("Unexpected error message: %v", body["error"])
			}
		})
	}
}

func TestCollect_MethodNotAllowed(t *testing.T) {
	env := newTestEnv(t, "", "")

	w := env.request("GET", "/api/collect", nil, nil)

	if w.Code != http.StatusMethodNotAllowed {
		t.Fatalf("Expected 405, got %d", w.Code)
	}
}

func TestProcessCSV(t *testing.T) {
	env := newTestEnv(t, "", "")

	csvData := "Title,Source,Date,URL\nAcme widget launch,Press Daily,2023-07-03,https://press.example.com/1\nGardening tips,Other,2023-07-03,https://press.example.com/2"
	payload, _ := json.Marshal(map[string]any{
		"csvData": csvData,
		"config":  map[string]string{"clientName": "Acme", "searchTerms": "acme"},
	})

	w := env.request("POST", "/api/meltwater/csv", payload, nil)

	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", w.Code, w.Body.String())
	}

	body := decodeBody(t, w)
	if body["totalItems"] != float64(1) {
		t.Errorf("Expected 1 item after term filter, got %v", body["totalItems"])
	}
	if len(env.sink.ranges) != 0 {
		t.Error("Sink should not be written without sheet configuration")
	}
}

func TestProcessCSV_WritesSink(t *testing.T) {
	env := newTestEnv(t, "", "")

	payload, _ := json.Marshal(map[string]any{
		"csvData": "Title,URL\nAcme story,https://example.com/a",
		"config": map[string]string{
			"clientName": "Acme", "searchTerms": "acme",
			"googleApiKey": "key", "googleSheetsId": "sheet-id",
		},
	})

	w := env.request("POST", "/api/meltwater/csv", payload, nil)

	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", w.Code, w.Body.String())
	}
	if len(env.sink.ranges) != 1 || env.sink.ranges[0] != "Meltwater!A1:H2" {
		t.Errorf("Expected one Meltwater sheet write, got %v", env.sink.ranges)
	}
}

func TestProcessCSV_SinkFailure(t *testing.T) {
	env := newTestEnv(t, "", "")
	env.sink.err = fmt.Errorf("quota exceeded")

	payload, _ := json.Marshal(map[string]any{
		"csvData": "Title,URL\nAcme story,https://example.com/a",
		"config": map[string]string{
			"clientName": "Acme", "searchTerms": "acme",
			"googleApiKey": "key", "googleSheetsId": "sheet-id",
		},
	})

	w := env.request("POST", "/api/meltwater/csv", payload, nil)

	if w.Code != http.StatusInternalServerError {
		t.Fatalf("Expected 500, got %d", w.Code)
	}

	body := decodeBody(t, w)
	if body["error"] != "CSV processing failed" {
		t.Errorf("Unexpected error: %v", body["error"])
	}
}

func TestProcessCSV_MissingData(t *testing.T) {
	env := newTestEnv(t, "", "")

	w := env.request("POST", "/api/meltwater/csv", []byte(`{}`), nil)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("Expected 400, got %d", w.Code)
	}

	body := decodeBody(t, w)
	if body["error"] != "CSV data is required" {
		t.Errorf("Unexpected error: %v", body["error"])
	}
}

func TestWebhook_NoSecretConfigured(t *testing.T) {
	env := newTestEnv(t, "", "")

	payload := []byte(`{"documents": [{"id": "doc-1", "title": "Acme coverage"}]}`)
	w := env.request("POST", "/webhooks/meltwater", payload, nil)

	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200 without secret configured, got %d", w.Code)
	}

	body := decodeBody(t, w)
	if body["itemsProcessed"] != float64(1) {
		t.Errorf("Expected 1 processed item, got %v", body["itemsProcessed"])
	}
	if len(env.repo.stored) != 1 {
		t.Fatalf("Expected 1 stored mention, got %d", len(env.repo.stored))
	}
	if env.repo.stored[0].ID != "doc-1" {
		t.Errorf("Unexpected stored mention ID: %s", env.repo.stored[0].ID)
	}
}

func TestWebhook_ValidSignature(t *testing.T) {
	secret := "shared-secret"
	env := newTestEnv(t, secret, "")

	payload := []byte(`{"documents": [{"id": "doc-1"}]}`)
	w := env.request("POST", "/webhooks/meltwater", payload, map[string]string{
		"X-Meltwater-Signature": "sha256=" + sign(payload, secret),
	})

	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200 for valid signature, got %d: %s", w.Code, w.Body.String())
	}
}

func TestWebhook_InvalidSignature(t *testing.T) {
	secret := "shared-secret"
	env := newTestEnv(t, secret, "")

	payload := []byte(`{"documents": [{"id": "doc-1"}]}`)

	tests := []struct {
		name    string
		headers map[string]string
	}{
		{"missing header", nil},
		{"wrong secret", map[string]string{"X-Meltwater-Signature": "sha256=" + sign(payload, "other")}},
		{"garbage header", map[string]string{"X-Meltwater-Signature": "garbage"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := env.request("POST", "/webhooks/meltwater", payload, tt.headers)
			if w.Code != http.StatusUnauthorized {
				t.Fatalf("Expected 401, got %d", w.Code)
			}

			body := decodeBody(t, w)
			if body["error"] != "Invalid webhook signature" {
				t.Errorf("Unexpected error: %v", body["error"])
			}
		})
	}

	if len(env.repo.stored) != 0 {
		t.Error("Rejected deliveries must not be stored")
	}
}

func TestWebhook_InvalidPayload(t *testing.T) {
	env := newTestEnv(t, "", "")

	w := env.request("POST", "/webhooks/meltwater", []byte(`not json`), nil)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("Expected 400, got %d", w.Code)
	}
}

func TestListMentions(t *testing.T) {
	env := newTestEnv(t, "", "")
	env.repo.stored = []mention.Mention{{ID: "a"}, {ID: "b"}, {ID: "c"}}

	w := env.request("GET", "/api/mentions?limit=2", nil, nil)

	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", w.Code)
	}

	body := decodeBody(t, w)
	if body["total"] != float64(2) {
		t.Errorf("Expected total 2, got %v", body["total"])
	}
}

func TestListMentions_InvalidLimit(t *testing.T) {
	env := newTestEnv(t, "", "")

	for _, limit := range []string{"abc", "0", "-5", "1000000000"} {
		w := env.request("GET", "/api/mentions?limit="+limit, nil, nil)
		if w.Code != http.StatusBadRequest {
			t.Errorf("Expected 400 for limit=%s, got %d", limit, w.Code)
		}
	}

	w := env.request("GET", "/api/mentions?limit=500", nil, nil)
	if w.Code != http.StatusOK {
		t.Errorf("Expected 200 at the limit cap, got %d", w.Code)
	}
}

func TestAuthMiddleware(t *testing.T) {
	env := newTestEnv(t, "", "secret-key")

	w := env.request("GET", "/api/mentions", nil, nil)
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("Expected 401 without key, got %d", w.Code)
	}

	w = env.request("GET", "/api/mentions", nil, map[string]string{"X-API-Key": "wrong"})
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("Expected 401 for wrong key, got %d", w.Code)
	}

	w = env.request("GET", "/api/mentions", nil, map[string]string{"X-API-Key": "secret-key"})
	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200 with valid key, got %d", w.Code)
	}

	w = env.request("GET", "/api/mentions", nil, map[string]string{"Authorization": "Bearer secret-key"})
	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200 with bearer token, got %d", w.Code)
	}
}

func TestAuthMiddleware_WebhookExempt(t *testing.T) {
	env := newTestEnv(t, "", "secret-key")

	payload := []byte(`{"documents": []}`)
	w := env.request("POST", "/webhooks/meltwater", payload, nil)

	if w.Code != http.StatusOK {
		t.Fatalf("Webhook should not require the API key, got %d", w.Code)
	}
}

func TestCORSPreflight(t *testing.T) {
	env := newTestEnv(t, "", "")

	w := env.request("OPTIONS", "/api/collect", nil, nil)

	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200 for preflight, got %d", w.Code)
	}
	if got := w.Header().Get("Access-Control-Allow-Origin"); got != "*" {
		t.Errorf("Unexpected Allow-Origin header: %s", got)
	}
	if !strings.Contains(w.Header().Get("Access-Control-Allow-Headers"), "X-Meltwater-Signature") {
		t.Error("Allow-Headers should include the signature header")
	}
}

func TestGetHealth(t *testing.T) {
	env := newTestEnv(t, "", "")
	env.repo.stored = []mention.Mention{{ID: "a"}}

	w := env.request("GET", "/health", nil, nil)

	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", w.Code)
	}

	body := decodeBody(t, w)
	if body["stored_mentions"] != float64(1) {
		t.Errorf("Expected stored_mentions 1, got %v", body["stored_mentions"])
	}
	if body["loaded_profiles"] != float64(1) {
		t.Errorf("Expected loaded_profiles 1, got %v", body["loaded_profiles"])
	}
}
