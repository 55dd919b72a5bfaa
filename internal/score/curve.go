package score

import (
	"errors"
	"sort"
)

// Step awards Points once the input reaches Threshold.
type Step struct {
	Threshold float64 `mapstructure:"threshold" json:"threshold"`
	Points    float64 `mapstructure:"points" json:"points"`
}

// Curve is a piecewise-constant scale with closed lower bounds.
type Curve struct {
	Steps []Step  `mapstructure:"steps" json:"steps"`
	Bound float64 `mapstructure:"bound" json:"bound"`
}

// Eval returns the points of the highest step whose threshold is <= x, capped at Bound.
// Below every threshold it returns 0.
func (c Curve) Eval(x float64) float64 {
	steps := make([]Step, len(c.Steps))
	copy(steps, c.Steps)
	sort.Slice(steps, func(i, j int) bool { return steps[i].Threshold > steps[j].Threshold })

	for _, s := range steps {
		if x >= s.Threshold {
			return capAt(s.Points, c.Bound)
		}
	}
	return 0
}

func (c Curve) validate() error {
	if len(c.Steps) == 0 {
		return errors.New("curve has no steps")
	}
	for _, s := range c.Steps {
		if s.Threshold < 0 || s.Points < 0 {
			return errors.New("curve steps must not be negative")
		}
	}
	return nil
}

func capAt(v, bound float64) float64 {
	if bound > 0 && v > bound {
		return bound
	}
	return v
}
