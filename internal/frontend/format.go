package frontend

import (
	"fmt"
	"strconv"

	"github.com/ZanzyTHEbar/date-decision-simulator/internal/analysis"
	"github.com/ZanzyTHEbar/date-decision-simulator/internal/features"
)

// Verdict texts
const (
	VerdictYes       = "YES"
	VerdictNo        = "NO"
	VerdictYesDetail = "You would likely want to see this person again."
	VerdictNoDetail  = "You would likely reject this person."
)

// ChartCaption explains the chart under it
const ChartCaption = "The red dashed line represents your CURRENT likelihood. The bars show your NEW likelihood if that trait improves by +1."

// FormatPercent formats a probability as a percentage with one decimal, "63.2%"
func FormatPercent(p float64) string {
	return fmt.Sprintf("%.1f%%", p*100)
}

// VerdictText returns the headline and the sentence for a verdict
func VerdictText(accept bool) (string, string) {
	if accept {
		return VerdictYes, VerdictYesDetail
	}
	return VerdictNo, VerdictNoDetail
}

// Tick labels a point on the correlation slider
type Tick struct {
	Value string
	Label string
}

// CorrelationTicks are shown above the correlation slider
var CorrelationTicks = []Tick{
	{Value: "-1", Label: "Opposite"},
	{Value: "0", Label: "None"},
	{Value: "1", Label: "Match"},
}

// Slider is one form input as rendered
type Slider struct {
	Name  string
	Label string
	Min   string
	Max   string
	Step  string
	Value string
	Error string
}

// Section is one sidebar block
type Section struct {
	Title   string
	Caption string
	Sliders []Slider
	Ticks   []Tick
}

// Result is the verdict block of the page
type Result struct {
	Percent     string
	Accept      bool
	Verdict     string
	Detail      string
	Chart       ChartView
	Sensitivity []SensitivityRow
}

// SensitivityRow is a text fallback for the chart
type SensitivityRow struct {
	Label   string
	Percent string
	Delta   string
}

var sectionInfo = []struct {
	group   features.Group
	title   string
	caption string
}{
	{group: features.GroupPartner, title: "1. Rate the Partner", caption: "How do you perceive them? (1-10)"},
	{group: features.GroupPreference, title: "2. Your Preferences", caption: "How important is this attribute to you? (1-10)"},
	{group: features.GroupCorrelation, title: "3. Interest Correlation"},
}

// Sections lays out the sliders with the given values and per-field errors
func Sections(inputs features.UserInputs, fieldErrors map[string]string) []Section {
	values := make(map[string]float64)
	for _, a := range inputs.Assignments() {
		values[a.Field] = a.Value
	}

	sections := make([]Section, 0, len(sectionInfo))
	for _, info := range sectionInfo {
		s := Section{Title: info.title, Caption: info.caption}
		for _, f := range features.FieldsInGroup(info.group) {
			s.Sliders = append(s.Sliders, Slider{
				Name:  f.Name,
				Label: f.Label,
				Min:   formatNumber(f.Min),
				Max:   formatNumber(f.Max),
				Step:  formatNumber(f.Step),
				Value: formatNumber(values[f.Name]),
				Error: fieldErrors[f.Name],
			})
		}
		if info.group == features.GroupCorrelation {
			s.Ticks = CorrelationTicks
		}
		sections = append(sections, s)
	}
	return sections
}

func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// NewResult builds the verdict block from a simulation
func NewResult(sim analysis.Simulation, chart ChartView) *Result {
	verdict, detail := VerdictText(sim.Accept)
	rows := make([]SensitivityRow, len(sim.Sensitivity))
	for i, e := range sim.Sensitivity {
		rows[i] = SensitivityRow{
			Label:   e.Label,
			Percent: FormatPercent(e.Probability),
			Delta:   fmt.Sprintf("%+.1f pts", e.Delta*100),
		}
	}
	return &Result{
		Percent:     FormatPercent(sim.Probability),
		Accept:      sim.Accept,
		Verdict:     verdict,
		Detail:      detail,
		Chart:       chart,
		Sensitivity: rows,
	}
}
