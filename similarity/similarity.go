// Package similarity scores how close two topic titles are, combining
// keyword-set overlap with character-sequence overlap, and derives stable
// fingerprints for fast duplicate pre-checks.
package similarity

import (
	"crypto/sha256"
	"encoding/hex"
	"sort"
	"strings"
)

// Blend weights for CombinedSimilarity. Keyword overlap is favored so that
// two titles phrased differently but covering the same keyword set are still
// flagged as near-duplicates.
const (
	jaccardWeight  = 0.6
	sequenceWeight = 0.4
)

// stopWords are common English function words excluded from keyword
// extraction.
var stopWords = map[string]struct{}{}

func init() {
	for _, w := range []string{
		"the", "a", "an", "and", "or", "but", "in", "on", "at", "to", "for",
		"of", "with", "by", "from", "is", "are", "was", "were", "be", "been",
		"being", "have", "has", "had", "do", "does", "did", "will", "would",
		"could", "should", "may", "might", "can", "this", "that", "these",
		"those", "as", "it", "its", "how", "what", "when", "where", "why",
		"who", "which", "into", "through", "during", "before", "after",
		"above", "below", "up", "down", "out", "off", "over", "under",
		"again", "further", "then", "once", "here", "there", "all", "both",
		"each", "few", "more", "most", "other", "some", "such", "no", "nor",
		"not", "only", "own", "same", "so", "than", "too", "very",
	} {
		stopWords[w] = struct{}{}
	}
}

// Normalize lowercases text, strips everything outside [a-z0-9 whitespace]
// and collapses runs of whitespace into single spaces. Total function.
func Normalize(text string) string {
	lower := strings.ToLower(text)
	var b strings.Builder
	b.Grow(len(lower))
	for _, r := range lower {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == ' ' || r == '\t' || r == '\n' || r == '\r':
			b.WriteByte(' ')
		}
	}
	return strings.Join(strings.Fields(b.String()), " ")
}

// ExtractKeywords normalizes text, splits on whitespace and returns the set
// of tokens that are not stop words and are longer than 2 characters.
func ExtractKeywords(text string) map[string]struct{} {
	keywords := make(map[string]struct{})
	for _, word := range strings.Fields(Normalize(text)) {
		if len(word) <= 2 {
			continue
		}
		if _, stop := stopWords[word]; stop {
			continue
		}
		keywords[word] = struct{}{}
	}
	return keywords
}

// JaccardSimilarity computes |keywords(a) ∩ keywords(b)| / |keywords(a) ∪ keywords(b)|.
// Both keyword sets empty counts as identical (1.0); exactly one empty is 0.0.
func JaccardSimilarity(a, b string) float64 {
	ka := ExtractKeywords(a)
	kb := ExtractKeywords(b)

	if len(ka) == 0 && len(kb) == 0 {
		return 1.0
	}
	if len(ka) == 0 || len(kb) == 0 {
		return 0.0
	}

	intersection := 0
	for w := range ka {
		if _, ok := kb[w]; ok {
			intersection++
		}
	}
	union := len(ka) + len(kb) - intersection
	return float64(intersection) / float64(union)
}

// SequenceSimilarity is the character-level longest-matching-blocks ratio of
// the two normalized strings.
func SequenceSimilarity(a, b string) float64 {
	return sequenceRatio(Normalize(a), Normalize(b))
}

// CombinedSimilarity blends keyword overlap and sequence overlap.
func CombinedSimilarity(a, b string) float64 {
	return jaccardWeight*JaccardSimilarity(a, b) + sequenceWeight*SequenceSimilarity(a, b)
}

// Fingerprint derives a stable key from a title: keywords sorted
// alphabetically, joined with single spaces, hashed with SHA-256. Invariant
// under word order and casing.
func Fingerprint(title string) string {
	keywords := ExtractKeywords(title)
	sorted := make([]string, 0, len(keywords))
	for w := range keywords {
		sorted = append(sorted, w)
	}
	sort.Strings(sorted)

	sum := sha256.Sum256([]byte(strings.Join(sorted, " ")))
	return hex.EncodeToString(sum[:])
}
