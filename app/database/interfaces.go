package database

import (
	"github.com/mediacomb/media-comb/app/mention"
)

type MentionRepository interface {
	UpsertMention(m mention.Mention) error
	GetRecentMentions(limit int) ([]mention.Mention, error)
	GetMentionCount() (int, error)
}
