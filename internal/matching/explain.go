package matching

import (
	"strings"

	"github.com/hyperjump/talentmatch/internal/keyword"
)

// DefaultFallbackReason is used when candidate and posting share no terms.
const DefaultFallbackReason = "similar topic and context"

// DefaultMinTokenLength drops short tokens from explanations.
const DefaultMinTokenLength = 4

// Explain returns the terms shared by the candidate and posting texts and a
// human-readable reason built from them.
func Explain(candidateText, postingSummary string, minLen int, fallback string) ([]string, string) {
	if minLen <= 0 {
		minLen = DefaultMinTokenLength
	}
	if fallback == "" {
		fallback = DefaultFallbackReason
	}
	shared := keyword.Shared(candidateText, postingSummary, minLen)
	if len(shared) == 0 {
		return nil, fallback
	}
	return shared, "shared terms: " + strings.Join(shared, ", ")
}
