package ranking

import (
	"math"

	"github.com/hyperjump/talentmatch/internal/geo"
)

// DistanceMultiplier penalizes postings far from the candidate.
type DistanceMultiplier struct {
	config *PenaltyConfig
}

// NewDistanceMultiplier creates a DistanceMultiplier. A nil config uses the defaults.
func NewDistanceMultiplier(config *PenaltyConfig) *DistanceMultiplier {
	if config == nil {
		config = DefaultPenaltyConfig()
	}
	return &DistanceMultiplier{config: config}
}

// Name returns the multiplier name.
func (m *DistanceMultiplier) Name() string {
	return "distance"
}

// Factor returns the distance penalty, or 1 when the distance is unknown.
func (m *DistanceMultiplier) Factor(ctx *ScoringContext) float64 {
	if ctx == nil || ctx.DistanceKM == nil {
		return 1.0
	}
	return m.ForDistance(*ctx.DistanceKM)
}

// Penalty returns the factor for two coordinates: 1 when either is
// unresolved, otherwise a value in [floor, 1] that does not increase with distance.
func (m *DistanceMultiplier) Penalty(a, b geo.Coordinate) float64 {
	d, ok := geo.DistanceKM(a, b)
	if !ok {
		return 1.0
	}
	return m.ForDistance(d)
}

// ForDistance maps a distance in km through the configured curve.
func (m *DistanceMultiplier) ForDistance(km float64) float64 {
	if km <= 0 || math.IsNaN(km) {
		return 1.0
	}
	c := m.config
	floor := c.Floor
	var p float64
	switch c.Curve {
	case CurveLinear:
		p = 1 - km/c.MaxKM
	case CurveStepped:
		p = 1 - c.StepPercent*math.Floor(km/c.StepKM)
	default:
		p = floor + (1-floor)*math.Exp(-km/c.ScaleKM)
	}
	if p < floor {
		return floor
	}
	if p > 1 {
		return 1
	}
	return p
}
