package mention

import (
	"time"
)

// Table is the header-plus-rows shape the spreadsheet sink accepts.
// Cells are strings or numbers.
type Table [][]any

const contentTruncateLimit = 100

// displayLayout approximates a locale timestamp for spreadsheet cells.
const displayLayout = "1/2/2006, 3:04:05 PM"

// ToTable converts mentions into a spreadsheet table for their source,
// first row fixed headers, one row per mention in input order.
// Truncation and timestamp localization happen here so the canonical
// Mention stays a faithful copy of the source data.
func ToTable(mentions []Mention, source Source) Table {
	switch source {
	case SourceTwitter:
		return twitterTable(mentions)
	case SourceMeltwater:
		return meltwaterTable(mentions)
	default:
		return newsTable(mentions)
	}
}

func twitterTable(mentions []Mention) Table {
	table := Table{{"Link", "Views", "Handle", "Followers", "Content", "Timestamp"}}
	for _, m := range mentions {
		table = append(table, []any{
			m.Link,
			m.Views,
			m.Handle,
			m.Followers,
			truncate(m.Content),
			displayTimestamp(m.Timestamp),
		})
	}
	return table
}

func newsTable(mentions []Mention) Table {
	table := Table{{"Publication", "Headline", "Link", "Reporter", "Timestamp", "Notes"}}
	for _, m := range mentions {
		table = append(table, []any{
			m.Publication,
			m.Headline,
			m.Link,
			m.Author,
			displayTimestamp(m.Timestamp),
			m.Notes,
		})
	}
	return table
}

func meltwaterTable(mentions []Mention) Table {
	table := Table{{"Publication", "Headline", "Link", "Reporter", "Timestamp", "Reach", "Sentiment", "Notes"}}
	for _, m := range mentions {
		table = append(table, []any{
			m.Publication,
			m.Headline,
			m.Link,
			m.Author,
			displayTimestamp(m.Timestamp),
			m.Reach,
			m.Sentiment,
			m.Notes,
		})
	}
	return table
}

// truncate limits content to the cell character budget. The limit
// counts runes, not bytes, so multibyte content is never split
// mid-character.
func truncate(content string) string {
	runes := []rune(content)
	if len(runes) <= contentTruncateLimit {
		return content
	}
	return string(runes[:contentTruncateLimit]) + "..."
}

// displayTimestamp renders an RFC 3339 timestamp in the configured
// local timezone. Unparseable values pass through untouched.
func displayTimestamp(timestamp string) string {
	parsed, err := time.Parse(time.RFC3339, timestamp)
	if err != nil {
		return timestamp
	}
	return parsed.In(time.Local).Format(displayLayout)
}
