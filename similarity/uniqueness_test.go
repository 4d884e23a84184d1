package similarity_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"blogpilot/similarity"
)

func TestIsSimilarToAnyIdenticalTitle(t *testing.T) {
	existing := []string{
		"Understanding Kubernetes Network Policies",
		"Getting Started With Terraform Modules",
	}

	m := similarity.IsSimilarToAny("Getting Started With Terraform Modules", existing, similarity.DefaultThreshold)

	assert.True(t, m.IsDuplicate)
	assert.Equal(t, "Getting Started With Terraform Modules", m.SimilarTo)
	assert.InDelta(t, 1.0, m.Score, 1e-9)
}

func TestIsSimilarToAnyUnrelatedTitle(t *testing.T) {
	existing := []string{
		"Understanding Kubernetes Network Policies",
		"Getting Started With Terraform Modules",
	}

	m := similarity.IsSimilarToAny("Baking Sourdough Bread Without Yeast", existing, similarity.DefaultThreshold)

	assert.False(t, m.IsDuplicate)
	assert.Empty(t, m.SimilarTo)
	assert.Less(t, m.Score, similarity.DefaultThreshold)
}

func TestIsSimilarToAnyEmptyCorpus(t *testing.T) {
	m := similarity.IsSimilarToAny("Anything Goes Here", nil, similarity.DefaultThreshold)
	assert.False(t, m.IsDuplicate)
	assert.Zero(t, m.Score)
}

func TestValidateBatch(t *testing.T) {
	existing := []string{"Docker Compose For Local Development"}
	candidates := []string{
		"Docker Compose For Local Development",  // exact duplicate
		"Observability Pipelines With OpenTelemetry",     // unique
		"Rust Memory Safety Without A Garbage Collector", // unique
	}

	results := similarity.ValidateBatch(candidates, existing, similarity.DefaultThreshold)
	require.Len(t, results, 3)

	assert.False(t, results[0].IsUnique)
	assert.Equal(t, "Docker Compose For Local Development", results[0].SimilarTo)
	assert.True(t, results[1].IsUnique)
	assert.True(t, results[2].IsUnique)
}

// Two near-identical candidates in the same batch must both pass when the
// corpus contains neither: batch members are compared only against the
// supplied corpus, never against each other.
func TestValidateBatchDoesNotCrossCheckWithinBatch(t *testing.T) {
	existing := []string{"Something Entirely Unrelated About Gardening"}
	candidates := []string{
		"GraphQL Federation In Production Microservices",
		"GraphQL Federation In Production Microservices",
	}

	results := similarity.ValidateBatch(candidates, existing, similarity.DefaultThreshold)
	require.Len(t, results, 2)

	assert.True(t, results[0].IsUnique)
	assert.True(t, results[1].IsUnique, "later candidate must not be compared against earlier candidate")
}
