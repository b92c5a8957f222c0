// Package persona scores a scalar stimulus against response curves and picks
// which behavior tree an agent should run, with hysteresis so the choice does
// not flap.
package persona

import (
	"fmt"
	"math"
	"strings"
)

type CurveType string

const (
	Sigmoid  CurveType = "sigmoid"
	Gaussian CurveType = "gaussian"
	Linear   CurveType = "linear"
)

func ParseCurveType(s string) (CurveType, error) {
	switch t := CurveType(strings.ToLower(strings.TrimSpace(s))); t {
	case Sigmoid, Gaussian, Linear:
		return t, nil
	default:
		return "", fmt.Errorf("persona: unknown curve type %q", s)
	}
}

// Curve maps a stimulus to a score for one target.
type Curve struct {
	Name      string    `yaml:"name"`
	Type      CurveType `yaml:"type"`
	Center    float64   `yaml:"center"`
	Sharpness float64   `yaml:"sharpness"`
	Max       float64   `yaml:"max"`
	Target    string    `yaml:"target"`
}

func (c Curve) Validate() error {
	if _, err := ParseCurveType(string(c.Type)); err != nil {
		return fmt.Errorf("persona: curve %q: %w", c.Name, err)
	}
	return nil
}

func (c Curve) Score(x float64) float64 {
	switch CurveType(strings.ToLower(string(c.Type))) {
	case Sigmoid:
		return c.Max / (1 + math.Exp(-c.Sharpness*(x-c.Center)))
	case Gaussian:
		d := x - c.Center
		return c.Max * math.Exp(-c.Sharpness*d*d)
	case Linear:
		return c.Max * clamp01(x)
	default:
		return 0
	}
}

func clamp01(x float64) float64 {
	return math.Max(0, math.Min(1, x))
}
