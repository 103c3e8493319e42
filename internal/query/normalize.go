// Package query derives a card search query from the weak metadata of a page
// image: its alt text or, failing that, its file name.
package query

import (
	"regexp"
	"strings"
)

// MinLength is the shortest query worth sending to the card database
const MinLength = 3

// StopWords are marketplace and filler words that never name a card
var StopWords = []string{"pokemon", "card", "tcg", "image", "picture", "photo", "ebay", "selling", "mint", "near"}

var (
	stopWordPatterns = compileStopWords(StopWords)
	disallowedChars  = regexp.MustCompile(`[^a-z0-9 ]`)
	separatorChars   = regexp.MustCompile(`[-_]`)
)

func compileStopWords(words []string) []*regexp.Regexp {
	patterns := make([]*regexp.Regexp, len(words))
	for i, w := range words {
		patterns[i] = regexp.MustCompile(`\b` + regexp.QuoteMeta(w) + `\b`)
	}
	return patterns
}

// Normalize turns alt text or an image URL into a search query.
// ok is false when nothing identifiable is left.
func Normalize(altText, sourceURL string) (string, bool) {
	clean := strings.ToLower(Candidate(altText, sourceURL))
	clean = removeStopWords(clean)
	clean = strings.Trim(disallowedChars.ReplaceAllString(clean, ""), " ")

	// Stripping punctuation can glue fragments back into a stop-word ("c.ard")
	clean = strings.Trim(removeStopWords(clean), " ")

	if len(clean) < MinLength {
		return "", false
	}
	return clean, true
}

// Candidate picks the raw text to normalize: the alt text when it is long
// enough, otherwise the file name of the image with its extension dropped.
func Candidate(altText, sourceURL string) string {
	if len(altText) >= MinLength {
		return altText
	}
	return separatorChars.ReplaceAllString(fileStem(sourceURL), " ")
}

func fileStem(sourceURL string) string {
	if i := strings.IndexAny(sourceURL, "?#"); i >= 0 {
		sourceURL = sourceURL[:i]
	}
	name := sourceURL[strings.LastIndex(sourceURL, "/")+1:]
	if i := strings.Index(name, "."); i >= 0 {
		name = name[:i]
	}
	return name
}

func removeStopWords(s string) string {
	for _, p := range stopWordPatterns {
		s = p.ReplaceAllString(s, "")
	}
	return s
}
