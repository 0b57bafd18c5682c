package features

import (
	"fmt"
	"math"
	"sort"
	"strings"
)

// UserInputs holds the slider values collected from the form
type UserInputs struct {
	Attractive  int `json:"attractive" form:"attractive"`
	Sincere     int `json:"sincere" form:"sincere"`
	Intelligent int `json:"intelligent" form:"intelligent"`
	Funny       int `json:"funny" form:"funny"`
	Ambitious   int `json:"ambitious" form:"ambitious"`

	ImportanceLooks           int `json:"importance_looks" form:"importance_looks"`
	ImportanceSincerity       int `json:"importance_sincerity" form:"importance_sincerity"`
	ImportanceIntelligence    int `json:"importance_intelligence" form:"importance_intelligence"`
	ImportanceHumor           int `json:"importance_humor" form:"importance_humor"`
	ImportanceAmbition        int `json:"importance_ambition" form:"importance_ambition"`
	ImportanceSharedInterests int `json:"importance_shared_interests" form:"importance_shared_interests"`

	InterestCorrelation float64 `json:"interest_correlation" form:"interest_correlation"`
}

// DefaultUserInputs returns the slider defaults: every rating at 5, correlation at 0
func DefaultUserInputs() UserInputs {
	return UserInputs{
		Attractive:                RatingDefault,
		Sincere:                   RatingDefault,
		Intelligent:               RatingDefault,
		Funny:                     RatingDefault,
		Ambitious:                 RatingDefault,
		ImportanceLooks:           RatingDefault,
		ImportanceSincerity:       RatingDefault,
		ImportanceIntelligence:    RatingDefault,
		ImportanceHumor:           RatingDefault,
		ImportanceAmbition:        RatingDefault,
		ImportanceSharedInterests: RatingDefault,
		InterestCorrelation:       CorrelationDefault,
	}
}

// Assignments pairs every user value with the schema key it overwrites,
// in mapping-table order
func (u UserInputs) Assignments() []Assignment {
	return []Assignment{
		{Field: "attractive", Key: KeyAttractivePartner, Value: float64(u.Attractive)},
		{Field: "sincere", Key: KeySincerePartner, Value: float64(u.Sincere)},
		{Field: "intelligent", Key: KeyIntelligencePartner, Value: float64(u.Intelligent)},
		{Field: "funny", Key: KeyFunnyPartner, Value: float64(u.Funny)},
		{Field: "ambitious", Key: KeyAmbitionPartner, Value: float64(u.Ambitious)},
		{Field: "importance_looks", Key: KeyAttractiveImportant, Value: float64(u.ImportanceLooks)},
		{Field: "importance_sincerity", Key: KeySincereImportant, Value: float64(u.ImportanceSincerity)},
		{Field: "importance_intelligence", Key: KeyIntelligenceImportant, Value: float64(u.ImportanceIntelligence)},
		{Field: "importance_humor", Key: KeyFunnyImportant, Value: float64(u.ImportanceHumor)},
		{Field: "importance_ambition", Key: KeyAmbitionImportant, Value: float64(u.ImportanceAmbition)},
		{Field: "importance_shared_interests", Key: KeySharedInterestsImportant, Value: float64(u.ImportanceSharedInterests)},
		{Field: "interest_correlation", Key: KeyInterestsCorrelate, Value: u.InterestCorrelation},
	}
}

// Assignment is one user value destined for one schema key
type Assignment struct {
	Field string
	Key   string
	Value float64
}

// Normalize snaps the correlation onto the slider's 0.01 grid
func (u UserInputs) Normalize() UserInputs {
	u.InterestCorrelation = math.Round(u.InterestCorrelation*100) / 100
	// avoid -0 leaking into the row
	if u.InterestCorrelation == 0 {
		u.InterestCorrelation = 0
	}
	return u
}

// Validate checks every field against its slider bounds
func (u UserInputs) Validate() error {
	problems := make(map[string]string)
	for _, a := range u.Assignments() {
		if a.Key == KeyInterestsCorrelate {
			if math.IsNaN(a.Value) || math.IsInf(a.Value, 0) || a.Value < CorrelationMin || a.Value > CorrelationMax {
				problems[a.Field] = fmt.Sprintf("must be between %.1f and %.1f", CorrelationMin, CorrelationMax)
			}
			continue
		}
		if a.Value < RatingMin || a.Value > RatingMax {
			problems[a.Field] = fmt.Sprintf("must be an integer between %d and %d", RatingMin, RatingMax)
		}
	}
	if len(problems) > 0 {
		return &ValidationError{Fields: problems}
	}
	return nil
}

// ValidationError lists out-of-range input fields
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	names := make([]string, 0, len(e.Fields))
	for name := range e.Fields {
		names = append(names, name)
	}
	sort.Strings(names)

	parts := make([]string, 0, len(names))
	for _, name := range names {
		parts = append(parts, name+" "+e.Fields[name])
	}
	return "invalid inputs: " + strings.Join(parts, "; ")
}
