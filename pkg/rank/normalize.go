package rank

import (
	"strings"
	"unicode"

	"github.com/hbollon/go-edlib"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Fold normalizes a title for fuzzy comparison: lowercase, diacritics
// stripped ("Pelíšky" -> "pelisky"), punctuation dropped, whitespace collapsed.
func Fold(s string) string {
	s = removeAccents(lower(s))

	var b strings.Builder
	for _, r := range s {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			b.WriteRune(r)
		default:
			b.WriteRune(' ')
		}
	}
	return strings.Join(strings.Fields(b.String()), " ")
}

func removeAccents(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	result, _, _ := transform.String(t, s)
	return result
}

// Similarity returns the Jaro-Winkler similarity (0.0-1.0) of two titles
// after folding. It breaks ties between equal relevance scores.
func Similarity(a, b string) float64 {
	return float64(edlib.JaroWinklerSimilarity(Fold(a), Fold(b)))
}
