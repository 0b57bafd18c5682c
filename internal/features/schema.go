package features

// Schema keys written by the overlay. The spellings match the columns the
// classifier was trained on; "intellicence_important" and
// "ambtition_important" must not be corrected.
const (
	KeyAttractivePartner   = "attractive_partner"
	KeySincerePartner      = "sincere_partner"
	KeyIntelligencePartner = "intelligence_partner"
	KeyFunnyPartner        = "funny_partner"
	KeyAmbitionPartner     = "ambition_partner"

	KeyAttractiveImportant      = "attractive_important"
	KeySincereImportant         = "sincere_important"
	KeyIntelligenceImportant    = "intellicence_important"
	KeyFunnyImportant           = "funny_important"
	KeyAmbitionImportant        = "ambtition_important"
	KeySharedInterestsImportant = "shared_interests_important"

	KeyInterestsCorrelate = "interests_correlate"
)

// Rating bounds for the integer sliders
const (
	RatingMin     = 1
	RatingMax     = 10
	RatingDefault = 5
)

// Correlation bounds
const (
	CorrelationMin     = -1.0
	CorrelationMax     = 1.0
	CorrelationDefault = 0.0
	CorrelationStep    = 0.01
)

// Group is the sidebar section a field belongs to
type Group string

const (
	GroupPartner     Group = "partner"
	GroupPreference  Group = "preference"
	GroupCorrelation Group = "correlation"
)

// Field describes one user-controlled input and the schema key it overwrites
type Field struct {
	Name  string  `json:"name"`
	Label string  `json:"label"`
	Key   string  `json:"key"`
	Group Group   `json:"group"`
	Min   float64 `json:"min"`
	Max   float64 `json:"max"`
	Step  float64 `json:"step"`
	Init  float64 `json:"default"`
}

var fieldTable = []Field{
	{Name: "attractive", Label: "Attractive", Key: KeyAttractivePartner, Group: GroupPartner},
	{Name: "sincere", Label: "Sincere", Key: KeySincerePartner, Group: GroupPartner},
	{Name: "intelligent", Label: "Intelligent", Key: KeyIntelligencePartner, Group: GroupPartner},
	{Name: "funny", Label: "Funny", Key: KeyFunnyPartner, Group: GroupPartner},
	{Name: "ambitious", Label: "Ambitious", Key: KeyAmbitionPartner, Group: GroupPartner},

	{Name: "importance_looks", Label: "Importance: Looks", Key: KeyAttractiveImportant, Group: GroupPreference},
	{Name: "importance_sincerity", Label: "Importance: Sincerity", Key: KeySincereImportant, Group: GroupPreference},
	{Name: "importance_intelligence", Label: "Importance: Intelligence", Key: KeyIntelligenceImportant, Group: GroupPreference},
	{Name: "importance_humor", Label: "Importance: Humor", Key: KeyFunnyImportant, Group: GroupPreference},
	{Name: "importance_ambition", Label: "Importance: Ambition", Key: KeyAmbitionImportant, Group: GroupPreference},
	{Name: "importance_shared_interests", Label: "Importance: Shared Interests", Key: KeySharedInterestsImportant, Group: GroupPreference},

	{Name: "interest_correlation", Label: "Interest Correlation", Key: KeyInterestsCorrelate, Group: GroupCorrelation},
}

func init() {
	for i := range fieldTable {
		f := &fieldTable[i]
		if f.Group == GroupCorrelation {
			f.Min, f.Max, f.Step, f.Init = CorrelationMin, CorrelationMax, CorrelationStep, CorrelationDefault
			continue
		}
		f.Min, f.Max, f.Step, f.Init = RatingMin, RatingMax, 1, RatingDefault
	}
}

// Fields returns a copy of the UI label to schema key table in display order
func Fields() []Field {
	out := make([]Field, len(fieldTable))
	copy(out, fieldTable)
	return out
}

// FieldsInGroup returns the fields of one sidebar section
func FieldsInGroup(g Group) []Field {
	var out []Field
	for _, f := range fieldTable {
		if f.Group == g {
			out = append(out, f)
		}
	}
	return out
}

// KeyForLabel resolves a UI label to its schema key
func KeyForLabel(label string) (string, bool) {
	for _, f := range fieldTable {
		if f.Label == label {
			return f.Key, true
		}
	}
	return "", false
}

// Trait is a partner-trait feature tracked by the sensitivity analysis
type Trait struct {
	Key   string `json:"key"`
	Label string `json:"label"`
}

var traitTable = []Trait{
	{Key: KeyAttractivePartner, Label: "Partner's Attractiveness"},
	{Key: KeySincerePartner, Label: "Partner's Sincerity"},
	{Key: KeyIntelligencePartner, Label: "Partner's Intelligence"},
	{Key: KeyFunnyPartner, Label: "Partner's Humor"},
	{Key: KeyAmbitionPartner, Label: "Partner's Ambition"},
}

// Traits returns the tracked partner traits in their fixed order
func Traits() []Trait {
	out := make([]Trait, len(traitTable))
	copy(out, traitTable)
	return out
}
