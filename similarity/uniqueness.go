package similarity

// DefaultThreshold is the combined-similarity score at or above which a
// candidate counts as a duplicate of an existing title.
const DefaultThreshold = 0.7

// Match reports the closest existing title for a candidate.
type Match struct {
	IsDuplicate bool
	SimilarTo   string
	Score       float64
}

// BatchResult is the per-candidate outcome of ValidateBatch.
type BatchResult struct {
	Title     string
	IsUnique  bool
	SimilarTo string
	Score     float64
}

// IsSimilarToAny scores candidate against every existing title and reports
// the maximum. Ties keep the first-encountered title, so input order governs
// which duplicate is reported (the decision itself is order-independent).
func IsSimilarToAny(candidate string, existing []string, threshold float64) Match {
	var m Match
	for _, title := range existing {
		score := CombinedSimilarity(candidate, title)
		if score > m.Score {
			m.Score = score
			m.SimilarTo = title
		}
	}
	m.IsDuplicate = m.Score >= threshold
	if !m.IsDuplicate {
		m.SimilarTo = ""
	}
	return m
}

// ValidateBatch checks each candidate independently against the pre-existing
// corpus. Candidates within the same batch are deliberately not compared
// against each other; callers that need cross-batch exclusion fold accepted
// candidates back into the corpus between calls.
func ValidateBatch(candidates, existing []string, threshold float64) []BatchResult {
	results := make([]BatchResult, 0, len(candidates))
	for _, title := range candidates {
		m := IsSimilarToAny(title, existing, threshold)
		results = append(results, BatchResult{
			Title:     title,
			IsUnique:  !m.IsDuplicate,
			SimilarTo: m.SimilarTo,
			Score:     m.Score,
		})
	}
	return results
}
