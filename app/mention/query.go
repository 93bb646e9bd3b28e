package mention

import (
	"fmt"
	"strings"
)

// twitterQuerySuffix excludes retweets and restricts results to
// English, matching what the recent search endpoint expects.
const twitterQuerySuffix = " -is:retweet lang:en"

// SplitTerms splits a comma-separated search term string, trimming
// each term and dropping empties.
func SplitTerms(searchTerms string) []string {
	var terms []string
	for _, term := range strings.Split(searchTerms, ",") {
		term = strings.TrimSpace(term)
		if term != "" {
			terms = append(terms, term)
		}
	}
	return terms
}

// BuildTwitterQuery builds a quoted-OR disjunction of the search terms
// plus the client name, with the retweet/language suffix appended.
func BuildTwitterQuery(searchTerms, clientName string) string {
	terms := SplitTerms(searchTerms)

	queries := make([]string, 0, len(terms)+1)
	for _, term := range terms {
		queries = append(queries, fmt.Sprintf("%q", term))
	}
	if clientName != "" {
		queries = append(queries, fmt.Sprintf("%q", clientName))
	}

	return strings.Join(queries, " OR ") + twitterQuerySuffix
}

// BuildNewsQuery builds a plain-OR disjunction of the search terms,
// appending the quoted client name if present.
func BuildNewsQuery(searchTerms, clientName string) string {
	query := strings.Join(SplitTerms(searchTerms), " OR ")

	if clientName != "" {
		query += fmt.Sprintf(" OR %q", clientName)
	}

	return query
}

// BuildMeltwaterQuery builds a quoted-OR disjunction of the search
// terms, appending the quoted client name if present.
func BuildMeltwaterQuery(searchTerms, clientName string) string {
	terms := SplitTerms(searchTerms)

	queries := make([]string, 0, len(terms))
	for _, term := range terms {
		queries = append(queries, fmt.Sprintf("%q", term))
	}

	query := strings.Join(queries, " OR ")
	if clientName != "" {
		query += fmt.Sprintf(" OR %q", clientName)
	}

	return query
}
