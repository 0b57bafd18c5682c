package types

import (
	"github.com/ZanzyTHEbar/date-decision-simulator/internal/analysis"
	"github.com/ZanzyTHEbar/date-decision-simulator/internal/features"
)

// PredictRequest is the body of POST /api/predict. Omitted fields keep their
// slider defaults.
type PredictRequest = features.UserInputs

// PredictResponse is the body returned by POST /api/predict
type PredictResponse struct {
	Probability float64                     `json:"probability"`
	Percent     string                      `json:"percent"`
	Accept      bool                        `json:"accept"`
	Verdict     string                      `json:"verdict"`
	Inputs      features.UserInputs         `json:"inputs"`
	Overlay     map[string]float64          `json:"overlay"`
	Sensitivity []analysis.SensitivityEntry `json:"sensitivity"`
	RequestID   string                      `json:"request_id,omitempty"`
}

// SchemaResponse is the body returned by GET /api/schema
type SchemaResponse struct {
	Fields    []features.Field `json:"fields"`
	Traits    []features.Trait `json:"traits"`
	Threshold float64          `json:"threshold"`
	Baseline  []string         `json:"baseline_columns"`
	Model     []string         `json:"model_features"`
}

// HealthResponse is the body returned by GET /health
type HealthResponse struct {
	Status    string `json:"status"`
	Timestamp string `json:"timestamp"`
	Version   string `json:"version"`
	Ready     bool   `json:"ready"`
	Redis     string `json:"redis"`
	Error     string `json:"error,omitempty"`
}
