package similarity_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"blogpilot/similarity"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Hello, World!", "hello world"},
		{"  Multiple   Spaces\tand\nlines ", "multiple spaces and lines"},
		{"Kubernetes 1.29: What's New?", "kubernetes 129 whats new"},
		{"", ""},
		{"!!!", ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, similarity.Normalize(tt.in), "input %q", tt.in)
	}
}

func TestExtractKeywords(t *testing.T) {
	keywords := similarity.ExtractKeywords("The Quick Brown Fox")

	assert.NotContains(t, keywords, "the", "stop word must be removed")
	assert.Contains(t, keywords, "quick")
	assert.Contains(t, keywords, "brown")
	assert.Contains(t, keywords, "fox")
	assert.Len(t, keywords, 3)
}

func TestExtractKeywordsShortTokens(t *testing.T) {
	keywords := similarity.ExtractKeywords("Go vs C: an AI take")

	// Tokens of length <= 2 are dropped even when they are meaningful.
	assert.NotContains(t, keywords, "go")
	assert.NotContains(t, keywords, "vs")
	assert.NotContains(t, keywords, "ai")
	assert.Contains(t, keywords, "take")
}

func TestJaccardSimilarityEdgeCases(t *testing.T) {
	// Both keyword sets empty: identical.
	assert.Equal(t, 1.0, similarity.JaccardSimilarity("", ""))
	assert.Equal(t, 1.0, similarity.JaccardSimilarity("the a an", "of in on"))

	// Exactly one empty: fully different.
	assert.Equal(t, 0.0, similarity.JaccardSimilarity("kubernetes security", ""))
	assert.Equal(t, 0.0, similarity.JaccardSimilarity("", "kubernetes security"))
}

func TestCombinedSimilarityReflexive(t *testing.T) {
	titles := []string{
		"Cloud Security Basics",
		"10 Docker Mistakes Every Beginner Makes",
		"Why Serverless Is Not Always Cheaper",
	}
	for _, title := range titles {
		assert.InDelta(t, 1.0, similarity.CombinedSimilarity(title, title), 1e-9, title)
	}
}

func TestCombinedSimilarityEmptyBoth(t *testing.T) {
	// jaccard 1.0, sequence 1.0 per the empty/empty rule.
	assert.InDelta(t, 1.0, similarity.CombinedSimilarity("", ""), 1e-9)
}

func TestCombinedSimilarityDisjoint(t *testing.T) {
	score := similarity.CombinedSimilarity(
		"Quantum Entanglement Explained Simply",
		"Baking Sourdough Bread Without Yeast",
	)
	assert.Less(t, score, similarity.DefaultThreshold)
}

func TestSequenceSimilarityBounds(t *testing.T) {
	score := similarity.SequenceSimilarity("cloud native patterns", "cloud native patterns explained")
	assert.Greater(t, score, 0.0)
	assert.LessOrEqual(t, score, 1.0)
}

func TestFingerprintStable(t *testing.T) {
	a := similarity.Fingerprint("Cloud Security Basics")
	b := similarity.Fingerprint("basics SECURITY cloud")

	assert.Equal(t, a, b, "fingerprint must be invariant under word order and case")
	assert.Len(t, a, 64, "hex-encoded SHA-256")
}

func TestFingerprintDistinct(t *testing.T) {
	a := similarity.Fingerprint("Cloud Security Basics")
	b := similarity.Fingerprint("Cloud Security Advanced")
	assert.NotEqual(t, a, b)
}
