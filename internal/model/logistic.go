package model

import (
	"fmt"
	"math"

	"github.com/ZanzyTHEbar/date-decision-simulator/internal/features"
)

// Logistic is a linear model squashed through the logistic function
type Logistic struct {
	names     []string
	coef      []float64
	intercept float64
	// positive class index 0 flips the sign of the log-odds
	flip bool
}

func newLogistic(names []string, coef []float64, intercept float64, positive int) (*Logistic, error) {
	if len(coef) != len(names) {
		return nil, fmt.Errorf("logistic regression has %d coefficients for %d features", len(coef), len(names))
	}
	for i, c := range coef {
		if math.IsNaN(c) || math.IsInf(c, 0) {
			return nil, fmt.Errorf("coefficient for %s is not finite", names[i])
		}
	}
	return &Logistic{
		names:     append([]string(nil), names...),
		coef:      append([]float64(nil), coef...),
		intercept: intercept,
		flip:      positive == 0,
	}, nil
}

func sigmoid(x float64) float64 { return 1 / (1 + math.Exp(-x)) }

// FeatureNames implements Classifier
func (l *Logistic) FeatureNames() []string {
	return append([]string(nil), l.names...)
}

// PredictPositiveProbability implements Classifier
func (l *Logistic) PredictPositiveProbability(row features.FeatureRow) (float64, error) {
	x, err := vector(l.names, row)
	if err != nil {
		return 0, err
	}

	z := l.intercept
	for i, v := range x {
		z += l.coef[i] * v
	}
	if l.flip {
		z = -z
	}
	return sigmoid(z), nil
}
