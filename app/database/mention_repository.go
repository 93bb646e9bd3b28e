package database

import (
	"fmt"
	"strings"

	"github.com/mediacomb/media-comb/app/mention"
)

var _ MentionRepository = (*SQLMentionRepository)(nil)

// SQLMentionRepository stores webhook-received mentions.
type SQLMentionRepository struct {
	db *DB
}

func NewMentionRepository(db *DB) *SQLMentionRepository {
	return &SQLMentionRepository{db: db}
}

// UpsertMention stores one mention, replacing an earlier delivery with
// the same id. Webhook redeliveries are expected.
func (r *SQLMentionRepository) UpsertMention(m mention.Mention) error {
	_, err := r.db.Exec(`
		INSERT INTO mentions (
			id, source, type, headline, content, link, publication,
			author, timestamp, reach, engagement, sentiment, language,
			country, tags, mentions, notes
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (id) DO UPDATE SET
			headline = excluded.headline,
			content = excluded.content,
			link = excluded.link,
			publication = excluded.publication,
			author = excluded.author,
			timestamp = excluded.timestamp,
			reach = excluded.reach,
			engagement = excluded.engagement,
			sentiment = excluded.sentiment,
			tags = excluded.tags,
			mentions = excluded.mentions
	`, m.ID, string(m.Source), string(m.Type), m.Headline, m.Content, m.Link,
		m.Publication, m.Author, m.Timestamp, m.Reach, m.Engagement,
		m.Sentiment, m.Language, m.Country,
		strings.Join(m.Tags, ","), strings.Join(m.Mentions, ","), m.Notes)

	if err != nil {
		return fmt.Errorf("failed to store mention: %w", err)
	}

	return nil
}

// GetRecentMentions returns the most recently received mentions.
func (r *SQLMentionRepository) GetRecentMentions(limit int) ([]mention.Mention, error) {
	rows, err := r.db.Query(`
		SELECT id, source, type, headline, content, link, publication,
			author, timestamp, reach, engagement, sentiment, language,
			country, tags, mentions, notes
		FROM mentions
		ORDER BY received_at DESC, id DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query mentions: %w", err)
	}
	defer rows.Close()

	var mentions []mention.Mention
	for rows.Next() {
		var m mention.Mention
		var source, mediaType, tags, mentionedNames string

		err := rows.Scan(&m.ID, &source, &mediaType, &m.Headline, &m.Content,
			&m.Link, &m.Publication, &m.Author, &m.Timestamp, &m.Reach,
			&m.Engagement, &m.Sentiment, &m.Language, &m.Country,
			&tags, &mentionedNames, &m.Notes)
		if err != nil {
			return nil, fmt.Errorf("failed to scan mention: %w", err)
		}

		m.Source = mention.Source(source)
		m.Type = mention.MediaType(mediaType)
		m.Tags = splitStored(tags)
		m.Mentions = splitStored(mentionedNames)

		mentions = append(mentions, m)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate mentions: %w", err)
	}

	return mentions, nil
}

// GetMentionCount returns the number of stored mentions.
func (r *SQLMentionRepository) GetMentionCount() (int, error) {
	var count int
	err := r.db.QueryRow(`SELECT COUNT(*) FROM mentions`).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count mentions: %w", err)
	}
	return count, nil
}

func splitStored(value string) []string {
	if value == "" {
		return nil
	}
	return strings.Split(value, ",")
}
