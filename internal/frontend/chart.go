package frontend

import (
	"fmt"
	"html/template"
	"math"
	"sort"
	"strings"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/ZanzyTHEbar/date-decision-simulator/internal/analysis"
)

const (
	colorBar     = "#4c78a8"
	colorCurrent = "red"
	chartHeight  = "400px"

	// ChartElementID is the element the page mounts the chart on
	ChartElementID = "sensitivity-chart"
)

// ChartBar is one bar of the sensitivity chart, in display order
type ChartBar struct {
	Label   string
	Percent float64
}

// ChartBars sorts the sensitivity entries by descending probability for
// display. Ties keep the fixed trait order. The input is not modified.
func ChartBars(entries []analysis.SensitivityEntry) []ChartBar {
	sorted := make([]analysis.SensitivityEntry, len(entries))
	copy(sorted, entries)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Probability > sorted[j].Probability
	})

	bars := make([]ChartBar, len(sorted))
	for i, e := range sorted {
		bars[i] = ChartBar{Label: e.Label, Percent: percent(e.Probability)}
	}
	return bars
}

// percent converts a probability to a percentage with one decimal
func percent(p float64) float64 {
	return math.Round(p*1000) / 10
}

// BuildChart builds the sensitivity bar chart with a dashed line at the
// current probability
func BuildChart(sim analysis.Simulation, assetsHost string) *charts.Bar {
	bars := ChartBars(sim.Sensitivity)
	labels := make([]string, len(bars))
	barData := make([]opts.BarData, len(bars))
	lineData := make([]opts.LineData, len(bars))
	current := percent(sim.Probability)
	for i, b := range bars {
		labels[i] = b.Label
		barData[i] = opts.BarData{Name: b.Label, Value: b.Percent}
		lineData[i] = opts.LineData{Value: current}
	}

	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{
			PageTitle:  "Sensitivity Analysis",
			ChartID:    ChartElementID,
			Width:      "100%",
			Height:     chartHeight,
			AssetsHost: assetsHost,
		}),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(false)}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true), Trigger: "axis"}),
		charts.WithXAxisOpts(opts.XAxis{
			Name:      "Trait",
			AxisLabel: &opts.AxisLabel{Show: opts.Bool(true), Rotate: 45, Interval: "0"},
		}),
		charts.WithYAxisOpts(opts.YAxis{
			Name:      "Total Likelihood to Say Yes",
			Min:       0,
			Max:       100,
			AxisLabel: &opts.AxisLabel{Show: opts.Bool(true), Formatter: "{value}%"},
		}),
		charts.WithGridOpts(opts.Grid{Bottom: "30%"}),
	)
	bar.SetXAxis(labels)
	bar.AddSeries("Likelihood if +1", barData,
		charts.WithItemStyleOpts(opts.ItemStyle{Color: colorBar}),
		charts.WithLabelOpts(opts.Label{Show: opts.Bool(true), Position: "top", Formatter: "{c}%"}),
	)

	line := charts.NewLine()
	line.SetXAxis(labels)
	line.AddSeries(fmt.Sprintf("Current (%s)", FormatPercent(sim.Probability)), lineData,
		charts.WithLineChartOpts(opts.LineChart{ShowSymbol: opts.Bool(false)}),
		charts.WithLineStyleOpts(opts.LineStyle{Color: colorCurrent, Type: "dashed", Width: 2}),
	)
	bar.Overlap(line)

	return bar
}

// ChartView is the chart as embedded in the page: the echarts scripts to
// load and the option object for the element with ID.
type ChartView struct {
	ID      string
	Scripts []string
	Option  template.JS
}

// NewChartView renders the chart options from a finished simulation.
// The option JSON only carries trait labels and numbers.
func NewChartView(sim analysis.Simulation, assetsHost string) ChartView {
	bar := BuildChart(sim, assetsHost)
	snippet := bar.RenderSnippet()

	// RenderSnippet resolves the assets against the host
	assets := bar.GetAssets()
	scripts := make([]string, len(assets.JSAssets.Values))
	copy(scripts, assets.JSAssets.Values)

	return ChartView{
		ID:      ChartElementID,
		Scripts: scripts,
		Option:  template.JS(strings.TrimSpace(snippet.Option)),
	}
}
