// Package ranking adjusts semantic match scores with multipliers such as the
// geographic distance penalty.
package ranking

import "github.com/hyperjump/talentmatch/internal/geo"

// ScoringContext carries what multipliers need to know about one
// candidate/posting pair.
type ScoringContext struct {
	Candidate geo.Coordinate
	Posting   geo.Coordinate
	// DistanceKM is filled by the caller when both coordinates are resolved.
	DistanceKM *float64
}

// NewScoringContext computes the distance between the two coordinates once.
func NewScoringContext(candidate, posting geo.Coordinate) *ScoringContext {
	ctx := &ScoringContext{Candidate: candidate, Posting: posting}
	if d, ok := geo.DistanceKM(candidate, posting); ok {
		ctx.DistanceKM = &d
	}
	return ctx
}

// Multiplier is the interface for score multipliers.
type Multiplier interface {
	// Factor returns the multiplier for the pair, in [0, 1].
	Factor(ctx *ScoringContext) float64
	// Name returns the name of the multiplier for debugging/logging.
	Name() string
}

// ScoreBreakdown records how a final score was reached.
type ScoreBreakdown struct {
	BaseScore  float64
	FinalScore float64
	Factors    map[string]float64
}

// Apply multiplies base by every multiplier's factor.
func Apply(ctx *ScoringContext, base float64, multipliers ...Multiplier) ScoreBreakdown {
	b := ScoreBreakdown{BaseScore: base, FinalScore: base, Factors: make(map[string]float64, len(multipliers))}
	for _, m := range multipliers {
		f := m.Factor(ctx)
		b.Factors[m.Name()] = f
		b.FinalScore *= f
	}
	return b
}
