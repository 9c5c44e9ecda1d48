package models

import "math"

// MatchResult is one scored posting. DistanceKM is nil when either location
// could not be resolved.
type MatchResult struct {
	Posting       JobPosting
	Similarity    float64
	DistanceKM    *float64
	Penalty       float64
	AdjustedScore float64
	// Explanation holds the terms shared by candidate and posting, sorted.
	Explanation []string
	// Reason is the human-readable explanation: the shared terms, or a fallback phrase.
	Reason string
	// Breakdown records the factor applied by each score multiplier.
	Breakdown map[string]float64
}

// MatchView is the JSON shape of a MatchResult.
type MatchView struct {
	Title       string   `json:"title,omitempty"`
	Summary     string   `json:"summary"`
	Location    string   `json:"location"`
	URL         string   `json:"url,omitempty"`
	Score       float64  `json:"score"`
	Similarity  float64  `json:"similarity"`
	Penalty     float64  `json:"penalty"`
	DistanceKM  *float64 `json:"distance_km"`
	Reason      string   `json:"reason"`
	SharedTerms []string `json:"shared_terms,omitempty"`
}

// View converts the result for output. Scores are rounded to 4 decimals and
// distances to 1.
func (r *MatchResult) View() MatchView {
	v := MatchView{
		Title:       r.Posting.Title,
		Summary:     r.Posting.Summary,
		Location:    r.Posting.Location,
		URL:         r.Posting.URL,
		Score:       round(r.AdjustedScore, 4),
		Similarity:  round(r.Similarity, 4),
		Penalty:     round(r.Penalty, 4),
		Reason:      r.Reason,
		SharedTerms: r.Explanation,
	}
	if r.DistanceKM != nil {
		d := round(*r.DistanceKM, 1)
		v.DistanceKM = &d
	}
	return v
}

// Views converts a slice of results, preserving order.
func Views(results []MatchResult) []MatchView {
	out := make([]MatchView, len(results))
	for i := range results {
		out[i] = results[i].View()
	}
	return out
}

func round(v float64, places int) float64 {
	p := math.Pow(10, float64(places))
	return math.Round(v*p) / p
}
