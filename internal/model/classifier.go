package model

import (
	"encoding/json"
	"fmt"
	"io"
	"math"
	"strings"

	apperrors "github.com/ZanzyTHEbar/date-decision-simulator/internal/errors"
	"github.com/ZanzyTHEbar/date-decision-simulator/internal/features"
)

// Classifier is an opaque probabilistic binary predictor
type Classifier interface {
	// PredictPositiveProbability returns P(class == positive) for one row
	PredictPositiveProbability(row features.FeatureRow) (float64, error)
	// FeatureNames lists the columns the classifier reads, in training order
	FeatureNames() []string
}

// Supported artifact model types
const (
	TypeRandomForest       = "random_forest"
	TypeLogisticRegression = "logistic_regression"
)

// PositiveClass is the label whose probability is reported
const PositiveClass = 1

// Artifact is the on-disk JSON layout of a trained model
type Artifact struct {
	ModelType    string    `json:"model_type"`
	FeatureNames []string  `json:"feature_names"`
	Classes      []int     `json:"classes"`
	Trees        []Tree    `json:"trees,omitempty"`
	Coefficients []float64 `json:"coefficients,omitempty"`
	Intercept    float64   `json:"intercept,omitempty"`
}

// Decode reads a model artifact and builds the matching classifier
func Decode(r io.Reader) (Classifier, error) {
	var art Artifact
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&art); err != nil {
		return nil, fmt.Errorf("failed to decode model artifact: %w", err)
	}
	return Build(art)
}

// Build validates an artifact and returns its classifier
func Build(art Artifact) (Classifier, error) {
	if len(art.FeatureNames) == 0 {
		return nil, fmt.Errorf("model artifact lists no feature names")
	}
	seen := make(map[string]bool, len(art.FeatureNames))
	for _, name := range art.FeatureNames {
		if name == "" {
			return nil, fmt.Errorf("model artifact has an empty feature name")
		}
		if seen[name] {
			return nil, fmt.Errorf("model artifact lists feature %q twice", name)
		}
		seen[name] = true
	}

	classes := art.Classes
	if len(classes) == 0 {
		classes = []int{0, 1}
	}
	if len(classes) != 2 {
		return nil, fmt.Errorf("binary classifier expected, artifact has %d classes", len(classes))
	}
	positive := -1
	for i, c := range classes {
		if c == PositiveClass {
			positive = i
		}
	}
	if positive < 0 {
		return nil, fmt.Errorf("positive class %d not among artifact classes %v", PositiveClass, classes)
	}

	switch strings.ToLower(art.ModelType) {
	case TypeRandomForest:
		return newForest(art.FeatureNames, art.Trees, positive)
	case TypeLogisticRegression:
		return newLogistic(art.FeatureNames, art.Coefficients, art.Intercept, positive)
	default:
		return nil, fmt.Errorf("unsupported model_type %q", art.ModelType)
	}
}

// PredictPositiveProbability runs the classifier and rejects anything that is
// not a probability. Every failure is a prediction error.
func PredictPositiveProbability(c Classifier, row features.FeatureRow) (float64, error) {
	p, err := c.PredictPositiveProbability(row)
	if err != nil {
		if apperrors.IsPredictionError(err) {
			return 0, err
		}
		return 0, apperrors.NewPredictionError("classifier failed", err)
	}
	if math.IsNaN(p) || p < 0 || p > 1 {
		return 0, apperrors.NewPredictionError(fmt.Sprintf("classifier returned %v, not a probability", p), nil)
	}
	return p, nil
}

// vector extracts the classifier's columns from a row in training order
func vector(names []string, row features.FeatureRow) ([]float64, error) {
	x, missing := row.Values(names)
	if len(missing) > 0 {
		return nil, apperrors.NewPredictionError(
			fmt.Sprintf("feature row is missing %d required column(s): %s", len(missing), strings.Join(missing, ", ")), nil)
	}
	for i, v := range x {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return nil, apperrors.NewPredictionError(fmt.Sprintf("feature %s is not finite", names[i]), nil)
		}
	}
	return x, nil
}
