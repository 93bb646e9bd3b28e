package mention

import (
	"strings"
	"testing"
)

func TestBuildTwitterQuery(t *testing.T) {
	query := BuildTwitterQuery("a, b, c", "Acme")

	expected := `"a" OR "b" OR "c" OR "Acme" -is:retweet lang:en`
	if query != expected {
		t.Errorf("Expected %s, got %s", expected, query)
	}

	// Each term appears quoted exactly once
	for _, term := range []string{`"a"`, `"b"`, `"c"`, `"Acme"`} {
		if strings.Count(query, term) != 1 {
			t.Errorf("Expected %s exactly once in query: %s", term, query)
		}
	}
}

func TestBuildTwitterQuery_NoClientName(t *testing.T) {
	query := BuildTwitterQuery("brand", "")

	expected := `"brand" -is:retweet lang:en`
	if query != expected {
		t.Errorf("Expected %s, got %s", expected, query)
	}
}

func TestBuildNewsQuery(t *testing.T) {
	query := BuildNewsQuery("a, b", "Acme")

	expected := `a OR b OR "Acme"`
	if query != expected {
		t.Errorf("Expected %s, got %s", expected, query)
	}
}

func TestBuildNewsQuery_TermsUnquoted(t *testing.T) {
	query := BuildNewsQuery("solar power", "")

	if query != "solar power" {
		t.Errorf("News dialect should not quote terms, got %s", query)
	}
}

func TestBuildMeltwaterQuery(t *testing.T) {
	query := BuildMeltwaterQuery("a, b", "Acme")

	expected := `"a" OR "b" OR "Acme"`
	if query != expected {
		t.Errorf("Expected %s, got %s", expected, query)
	}
}

func TestSplitTerms(t *testing.T) {
	terms := SplitTerms(" a , b ,, c ")

	if len(terms) != 3 {
		t.Fatalf("Expected 3 terms, got %d", len(terms))
	}
	if terms[0] != "a" || terms[1] != "b" || terms[2] != "c" {
		t.Errorf("Terms should be trimmed, got %v", terms)
	}

	if terms := SplitTerms(" , , "); len(terms) != 0 {
		t.Errorf("Terms trimming to nothing should yield empty list, got %v", terms)
	}
}
