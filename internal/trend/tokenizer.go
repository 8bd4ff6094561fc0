package trend

import (
	"regexp"
	"strings"
)

const minWordLen = 4

var (
	hashtagRx = regexp.MustCompile(`#\w+`)
	noiseRx   = regexp.MustCompile(`http\S+|@\w+|\[[^\]]*\]|\([^)]*\)`)
	wordRx    = regexp.MustCompile(`\b[a-z]{3,}\b`)
)

// stopwords is built once at init and never mutated afterwards.
var stopwords = buildStopwords(
	"the", "and", "for", "are", "but", "not", "you", "all",
	"can", "had", "her", "was", "one", "our", "out", "day",
	"get", "has", "him", "his", "how", "its", "may", "new",
	"now", "old", "see", "two", "who", "boy", "did", "this",
	"that", "with", "have", "from", "they", "know", "want",
	"been", "good", "much", "some", "time", "very", "when",
	"come", "here", "just", "like", "long", "make", "many",
	"over", "such", "take", "than", "them", "well", "were",
	"what", "will", "your", "about", "after", "again", "back",
	"could", "first", "found", "great", "group", "hand", "high",
	"keep", "large", "last", "left", "life", "live", "made",
	"might", "move", "must", "name", "need", "never", "next",
	"number", "part", "place", "point", "put", "right", "said",
	"same", "seem", "small", "still", "tell", "think", "turn",
	"use", "way", "where", "which", "work", "world",
	"year", "young", "reddit", "comment", "comments", "post",
)

func buildStopwords(words ...string) map[string]struct{} {
	set := make(map[string]struct{}, len(words))
	for _, w := range words {
		set[w] = struct{}{}
	}
	return set
}

// Tokenize reduces raw post text to normalized trend tokens: hashtags first
// (exempt from the stopword and length filters), then lowercase alphabetic
// words of at least four characters that are not stopwords. URLs, mentions
// and bracketed or parenthesized spans never contribute word tokens.
// Pure function; identical input always yields an identical sequence.
func Tokenize(text string) []string {
	if strings.TrimSpace(text) == "" {
		return nil
	}

	lowered := strings.ToLower(text)
	hashtags := hashtagRx.FindAllString(lowered, -1)

	cleaned := noiseRx.ReplaceAllString(lowered, "")
	words := wordRx.FindAllString(cleaned, -1)

	tokens := make([]string, 0, len(hashtags)+len(words))
	tokens = append(tokens, hashtags...)
	for _, w := range words {
		if len(w) < minWordLen {
			continue
		}
		if _, ok := stopwords[w]; ok {
			continue
		}
		tokens = append(tokens, w)
	}
	return tokens
}

// IsStopword reports whether a word is excluded from trend counting.
func IsStopword(word string) bool {
	_, ok := stopwords[strings.ToLower(word)]
	return ok
}
