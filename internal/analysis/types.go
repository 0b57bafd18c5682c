package analysis

import "github.com/ZanzyTHEbar/date-decision-simulator/internal/features"

// Decision threshold on the positive-class probability. Exactly 0.5 is NO.
const Threshold = 0.5

// SensitivityEntry is the prediction for one trait bumped by one point
type SensitivityEntry struct {
	Feature     string  `json:"feature"`
	Label       string  `json:"label"`
	BumpedValue float64 `json:"bumped_value"`
	Probability float64 `json:"probability"`
	// Delta is Probability minus the current prediction
	Delta float64 `json:"delta"`
}

// Simulation is the full result of one interaction
type Simulation struct {
	Inputs      features.UserInputs `json:"inputs"`
	Row         features.FeatureRow `json:"-"`
	Probability float64             `json:"probability"`
	Accept      bool                `json:"accept"`
	Sensitivity []SensitivityEntry  `json:"sensitivity"`
}

// Verdict reports whether a probability is a YES
func Verdict(p float64) bool {
	return p > Threshold
}
