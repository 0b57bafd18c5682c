package analysis

import (
	"errors"
	"math"

	apperrors "github.com/ZanzyTHEbar/date-decision-simulator/internal/errors"
	"github.com/ZanzyTHEbar/date-decision-simulator/internal/features"
	"github.com/ZanzyTHEbar/date-decision-simulator/internal/model"
)

// Analyzer runs the overlay, prediction and sensitivity pipeline against a
// loaded classifier and baseline. It holds no mutable state and is safe for
// concurrent use.
type Analyzer struct {
	classifier model.Classifier
	baseline   *features.BaselineTemplate
}

// NewAnalyzer creates an analyzer over the loaded resources
func NewAnalyzer(classifier model.Classifier, baseline *features.BaselineTemplate) *Analyzer {
	return &Analyzer{classifier: classifier, baseline: baseline}
}

// Simulate validates the inputs and recomputes everything from scratch:
// one overlay, one main prediction and one prediction per tracked trait.
func (a *Analyzer) Simulate(inputs features.UserInputs) (Simulation, error) {
	if err := inputs.Validate(); err != nil {
		var ve *features.ValidationError
		if errors.As(err, &ve) {
			return Simulation{}, apperrors.NewValidationErrorWithMap(ve.Fields)
		}
		return Simulation{}, apperrors.NewValidationError("Invalid inputs", err)
	}
	inputs = inputs.Normalize()

	row := features.Overlay(a.baseline, inputs)

	p, err := model.PredictPositiveProbability(a.classifier, row)
	if err != nil {
		return Simulation{}, err
	}

	sensitivity, err := a.Sensitivity(row, p)
	if err != nil {
		return Simulation{}, err
	}

	return Simulation{
		Inputs:      inputs,
		Row:         row,
		Probability: p,
		Accept:      Verdict(p),
		Sensitivity: sensitivity,
	}, nil
}

// Sensitivity bumps each tracked trait of row by one point, capped at the
// rating maximum, and predicts again. Each bump starts from row, so bumps do
// not accumulate. Entries follow the fixed trait order.
func (a *Analyzer) Sensitivity(row features.FeatureRow, current float64) ([]SensitivityEntry, error) {
	traits := features.Traits()
	entries := make([]SensitivityEntry, 0, len(traits))

	for _, trait := range traits {
		v, ok := row.Get(trait.Key)
		if !ok {
			return nil, apperrors.NewPredictionError("feature row has no column "+trait.Key, nil)
		}

		bumped := row.Clone()
		nv := Bump(v)
		bumped.Set(trait.Key, nv)

		p, err := model.PredictPositiveProbability(a.classifier, bumped)
		if err != nil {
			return nil, err
		}

		entries = append(entries, SensitivityEntry{
			Feature:     trait.Key,
			Label:       trait.Label,
			BumpedValue: nv,
			Probability: p,
			Delta:       p - current,
		})
	}
	return entries, nil
}

// Bump raises a rating by one without leaving the rating scale
func Bump(v float64) float64 {
	return math.Min(v+1, features.RatingMax)
}
