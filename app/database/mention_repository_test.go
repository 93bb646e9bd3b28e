package database

import (
	"path/filepath"
	"testing"

	"github.com/mediacomb/media-comb/app/mention"
)

func setupTestRepo(t *testing.T) *SQLMentionRepository {
	t.Helper()

	db, err := NewConnection(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("Failed to open database: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	if _, _, err := RunMigrations(db); err != nil {
		t.Fatalf("Failed to run migrations: %v", err)
	}

	return NewMentionRepository(db)
}

func testMention(id string) mention.Mention {
	return mention.Mention{
		ID:          id,
		Source:      mention.SourceMeltwater,
		Type:        mention.MediaTypeNews,
		Headline:    "Acme coverage",
		Content:     "Acme announced a new widget",
		Link:        "https://press.example.com/1",
		Publication: "Press Daily",
		Author:      "Reporter",
		Timestamp:   "2023-07-03T10:00:00Z",
		Reach:       5000,
		Engagement:  12,
		Sentiment:   mention.SentimentPositive,
		Language:    "en",
		Country:     "us",
		Tags:        []string{"press", "launch"},
		Mentions:    []string{"Acme"},
	}
}

func TestUpsertAndGetRecentMentions(t *testing.T) {
	repo := setupTestRepo(t)

	if err := repo.UpsertMention(testMention("doc-1")); err != nil {
		t.Fatalf("Failed to store mention: %v", err)
	}
	if err := repo.UpsertMention(testMention("doc-2")); err != nil {
		t.Fatalf("Failed to store mention: %v", err)
	}

	mentions, err := repo.GetRecentMentions(10)
	if err != nil {
		t.Fatalf("Failed to load mentions: %v", err)
	}
	if len(mentions) != 2 {
		t.Fatalf("Expected 2 mentions, got %d", len(mentions))
	}

	m := mentions[0]
	if m.Source != mention.SourceMeltwater {
		t.Errorf("Unexpected source: %s", m.Source)
	}
	if m.Reach != 5000 {
		t.Errorf("Unexpected reach: %d", m.Reach)
	}
	if len(m.Tags) != 2 || m.Tags[0] != "press" {
		t.Errorf("Tags did not round-trip: %v", m.Tags)
	}
	if len(m.Mentions) != 1 || m.Mentions[0] != "Acme" {
		t.Errorf("Mentions did not round-trip: %v", m.Mentions)
	}
}

func TestUpsertMention_Redelivery(t *testing.T) {
	repo := setupTestRepo(t)

	if err := repo.UpsertMention(testMention("doc-1")); err != nil {
		t.Fatalf("Failed to store mention: %v", err)
	}

	updated := testMention("doc-1")
	updated.Headline = "Acme coverage, updated"
	updated.Reach = 7500
	if err := repo.UpsertMention(updated); err != nil {
		t.Fatalf("Redelivery should not fail: %v", err)
	}

	count, err := repo.GetMentionCount()
	if err != nil {
		t.Fatalf("Failed to count mentions: %v", err)
	}
	if count != 1 {
		t.Errorf("Redelivery should not create a second row, got %d", count)
	}

	mentions, err := repo.GetRecentMentions(1)
	if err != nil {
		t.Fatalf("Failed to load mentions: %v", err)
	}
	if mentions[0].Headline != "Acme coverage, updated" {
		t.Errorf("Expected updated headline, got %q", mentions[0].Headline)
	}
	if mentions[0].Reach != 7500 {
		t.Errorf("Expected updated reach, got %d", mentions[0].Reach)
	}
}

func TestGetRecentMentions_Limit(t *testing.T) {
	repo := setupTestRepo(t)

	for _, id := range []string{"a", "b", "c", "d"} {
		if err := repo.UpsertMention(testMention(id)); err != nil {
			t.Fatalf("Failed to store mention: %v", err)
		}
	}

	mentions, err := repo.GetRecentMentions(2)
	if err != nil {
		t.Fatalf("Failed to load mentions: %v", err)
	}
	if len(mentions) != 2 {
		t.Errorf("Expected 2 mentions, got %d", len(mentions))
	}
}

func TestGetMentionCount_Empty(t *testing.T) {
	repo := setupTestRepo(t)

	count, err := repo.GetMentionCount()
	if err != nil {
		t.Fatalf("Failed to count mentions: %v", err)
	}
	if count != 0 {
		t.Errorf("Expected 0 mentions, got %d", count)
	}
}
