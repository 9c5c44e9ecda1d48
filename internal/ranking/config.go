package ranking

import "fmt"

// Penalty curve names.
const (
	CurveExponential = "exponential"
	CurveLinear      = "linear"
	CurveStepped     = "stepped"
)

// PenaltyConfig shapes how distance lowers a match score.
type PenaltyConfig struct {
	Curve string  `yaml:"curve"` // default: exponential
	Floor float64 `yaml:"floor"` // default: 0.6; the penalty never goes below this

	ScaleKM     float64 `yaml:"scale_km"`     // exponential: e-folding distance, default 1000
	MaxKM       float64 `yaml:"max_km"`       // linear: distance reaching the floor, default 2000
	StepKM      float64 `yaml:"step_km"`      // stepped: step width, default 100
	StepPercent float64 `yaml:"step_percent"` // stepped: reduction per step, default 0.05
}

// DefaultPenaltyConfig returns the default distance penalty configuration.
func DefaultPenaltyConfig() *PenaltyConfig {
	return &PenaltyConfig{
		Curve:       CurveExponential,
		Floor:       0.6,
		ScaleKM:     1000,
		MaxKM:       2000,
		StepKM:      100,
		StepPercent: 0.05,
	}
}

// Validate reports configuration that would break the penalty bounds.
func (c *PenaltyConfig) Validate() error {
	if c.Floor < 0 || c.Floor > 1 {
		return fmt.Errorf("penalty floor must be in [0,1], got %v", c.Floor)
	}
	switch c.Curve {
	case CurveExponential:
		if c.ScaleKM <= 0 {
			return fmt.Errorf("scale_km must be positive")
		}
	case CurveLinear:
		if c.MaxKM <= 0 {
			return fmt.Errorf("max_km must be positive")
		}
	case CurveStepped:
		if c.StepKM <= 0 || c.StepPercent < 0 {
			return fmt.Errorf("step_km must be positive and step_percent non-negative")
		}
	default:
		return fmt.Errorf("unknown penalty curve %q", c.Curve)
	}
	return nil
}
