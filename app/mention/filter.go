package mention

import (
	"strings"

	"golang.org/x/text/cases"
)

// FilterByTerms keeps only mentions whose headline or content contains
// at least one of the comma-separated search terms as a case-folded
// substring. An empty term list keeps everything.
func FilterByTerms(mentions []Mention, searchTerms string) []Mention {
	terms := SplitTerms(searchTerms)
	if len(terms) == 0 {
		return mentions
	}

	// Casers are stateful, one per call
	foldCaser := cases.Fold()

	folded := make([]string, 0, len(terms))
	for _, term := range terms {
		folded = append(folded, foldCaser.String(term))
	}

	kept := make([]Mention, 0, len(mentions))
	for _, m := range mentions {
		haystack := foldCaser.String(m.Headline + " " + m.Content)
		for _, term := range folded {
			if strings.Contains(haystack, term) {
				kept = append(kept, m)
				break
			}
		}
	}

	return kept
}
