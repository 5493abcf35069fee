// Package rank orders documents by relevance to a free-text query using
// weighted token matches against the latest version of each document.
package rank

import (
	"sort"
	"strings"

	"github.com/docforge/docforge/backend/go-services/internal/document"
)

// Field weights. A token hit in the title counts far more than an
// occurrence buried in section content.
const (
	weightTitle        = 10
	weightSectionTitle = 5
	weightDocType      = 4
	weightContextFile  = 2
	weightContent      = 1

	// contentHitCap bounds how much repeated occurrences of one token in
	// one section's content can contribute.
	contentHitCap = 5
)

// Match pairs a document with its query score.
type Match struct {
	Document document.StoredDocument `json:"document"`
	Score    int                     `json:"score"`
}

// Rank scores every document against query and returns matches in
// descending score order, most recent first among equals. Documents with a
// zero score are excluded entirely. An empty or token-free query yields no
// matches.
func Rank(docs []document.StoredDocument, query string) []Match {
	tokens := Tokenize(query)
	if len(tokens) == 0 {
		return nil
	}

	matches := make([]Match, 0, len(docs))
	for _, d := range docs {
		if len(d.Versions) == 0 {
			continue
		}
		if s := score(d.Latest(), tokens); s > 0 {
			matches = append(matches, Match{Document: d, Score: s})
		}
	}

	sort.SliceStable(matches, func(i, j int) bool {
		if matches[i].Score != matches[j].Score {
			return matches[i].Score > matches[j].Score
		}
		return matches[i].Document.SortTime().After(matches[j].Document.SortTime())
	})
	return matches
}

func score(v document.DocumentVersion, tokens []string) int {
	title := Tokenize(v.Title)
	docType := Tokenize(string(v.DocType) + " " + v.DocType.DisplayName())
	fileNames := make([][]string, len(v.ContextFileNames))
	for i, name := range v.ContextFileNames {
		fileNames[i] = Tokenize(name)
	}
	sectionTitles := make([][]string, len(v.Sections))
	sectionBodies := make([][]string, len(v.Sections))
	for i, s := range v.Sections {
		sectionTitles[i] = Tokenize(s.Title)
		sectionBodies[i] = Tokenize(s.Content)
	}

	total := 0
	for _, tok := range tokens {
		if containsToken(title, tok) {
			total += weightTitle
		}
		if containsToken(docType, tok) {
			total += weightDocType
		}
		for _, name := range fileNames {
			if containsToken(name, tok) {
				total += weightContextFile
			}
		}
		for i := range v.Sections {
			if containsToken(sectionTitles[i], tok) {
				total += weightSectionTitle
			}
			hits := countToken(sectionBodies[i], tok)
			if hits > contentHitCap {
				hits = contentHitCap
			}
			total += hits * weightContent
		}
	}
	return total
}

// Tokenize lowercases the input and splits it on every non-alphanumeric
// rune, dropping empties.
func Tokenize(s string) []string {
	return strings.FieldsFunc(strings.ToLower(s), func(r rune) bool {
		return !isAlnum(r)
	})
}

func containsToken(haystack []string, tok string) bool {
	for _, h := range haystack {
		if h == tok {
			return true
		}
	}
	return false
}

func countToken(haystack []string, tok string) int {
	n := 0
	for _, h := range haystack {
		if h == tok {
			n++
		}
	}
	return n
}

func isAlnum(r rune) bool {
	return (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9')
}
