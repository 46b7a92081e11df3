// Package rank scores titles against search queries and orders hosting sources.
package rank

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Relevance tiers returned by Score.
const (
	ScoreExact     = 100
	ScorePrefix    = 80
	ScoreSubstring = 60
	ScoreAllWords  = 40
	// ScorePartial is the exclusive upper bound for partial word matches.
	ScorePartial = 20
)

// Score rates how well candidate matches query on a 0-100 scale.
// Comparison is case-insensitive; the first matching rule wins:
//
//	exact match       100
//	prefix            80
//	substring         60
//	all query words   40
//	some query words  matched*20/total (0-19)
//
// Query words are split on single spaces, so repeated spaces yield empty
// words that match everything. An empty query is a prefix of every
// candidate and scores 80 (100 against an empty candidate); callers that
// treat empty input as "no search" must check for it first.
func Score(candidate, query string) int {
	c := lower(candidate)
	q := lower(query)

	switch {
	case c == q:
		return ScoreExact
	case strings.HasPrefix(c, q):
		return ScorePrefix
	case strings.Contains(c, q):
		return ScoreSubstring
	}

	words := strings.Split(q, " ")
	matched := 0
	for _, w := range words {
		if strings.Contains(c, w) {
			matched++
		}
	}
	if matched == len(words) {
		return ScoreAllWords
	}
	return matched * ScorePartial / len(words)
}

// lower uses a fresh Caser per call; Casers are not safe for concurrent use.
func lower(s string) string {
	return cases.Lower(language.Und).String(s)
}
